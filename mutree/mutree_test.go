// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mutree_test

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/treedate/mutree"
)

func TestTree(t *testing.T) {
	tr := newTree(t)

	if n := tr.Name(); n != "test tree" {
		t.Errorf("name: got %q, want %q", n, "test tree")
	}
	if n := tr.NumNodes(); n != 6 {
		t.Errorf("nodes: got %d, want %d", n, 6)
	}

	terms := []string{"A", "B", "C", "D"}
	if got := tr.Terms(); !reflect.DeepEqual(got, terms) {
		t.Errorf("terms: got %v, want %v", got, terms)
	}

	// preorder: root, internal, A, B, C, D
	nodes := []int{0, 1, 2, 3, 4, 5}
	if got := tr.Nodes(); !reflect.DeepEqual(got, nodes) {
		t.Errorf("nodes: got %v, want %v", got, nodes)
	}
	if !tr.IsRoot(0) || tr.IsRoot(1) {
		t.Errorf("root: only node 0 should be the root")
	}
	if tr.IsTerm(1) || !tr.IsTerm(2) {
		t.Errorf("terminals: node 1 is internal, node 2 is terminal")
	}
	if p := tr.Parent(3); p != 1 {
		t.Errorf("parent of %d: got %d, want %d", 3, p, 1)
	}
	if ch := tr.Children(0); !reflect.DeepEqual(ch, []int{1, 4, 5}) {
		t.Errorf("children of root: got %v, want %v", ch, []int{1, 4, 5})
	}

	id, ok := tr.TaxNode("C")
	if !ok || id != 4 {
		t.Errorf("taxon %q: got node %d (%v), want %d", "C", id, ok, 4)
	}
	if _, ok := tr.TaxNode("Z"); ok {
		t.Errorf("taxon %q: found, want not found", "Z")
	}

	if _, ok := tr.Len(5); ok {
		t.Errorf("node 5: length defined, want undefined")
	}
}

func TestAddErrors(t *testing.T) {
	tr := mutree.New("errors")
	if _, err := tr.Add(-1, ""); err != nil {
		t.Fatalf("unable to add root: %v", err)
	}
	if _, err := tr.Add(-1, ""); !errors.Is(err, mutree.ErrMultipleRoots) {
		t.Errorf("second root: got error %v, want %v", err, mutree.ErrMultipleRoots)
	}
	if _, err := tr.Add(7, "A"); !errors.Is(err, mutree.ErrStructure) {
		t.Errorf("unknown parent: got error %v, want %v", err, mutree.ErrStructure)
	}
}

func TestRootToTip(t *testing.T) {
	tr := newTree(t)

	rtt, err := tr.RootToTip()
	if err != nil {
		t.Fatalf("root-to-tip: %v", err)
	}

	want := map[int]float64{
		0: 0,
		1: 1,
		2: 3,
		3: 5,
		4: 6,
		5: 0,
	}
	if !reflect.DeepEqual(rtt, want) {
		t.Errorf("root-to-tip: got %v, want %v", rtt, want)
	}

	for _, id := range tr.Nodes() {
		if tr.IsRoot(id) {
			if rtt[id] != 0 {
				t.Errorf("root: got distance %.6f, want 0", rtt[id])
			}
			continue
		}
		l, _ := tr.Len(id)
		if d := rtt[tr.Parent(id)] + l; d != rtt[id] {
			t.Errorf("node %d: got distance %.6f, want %.6f", id, rtt[id], d)
		}
	}
}

func TestRootToTipEmpty(t *testing.T) {
	tr := mutree.New("empty")
	if _, err := tr.RootToTip(); !errors.Is(err, mutree.ErrNoRoot) {
		t.Errorf("empty tree: got error %v, want %v", err, mutree.ErrNoRoot)
	}
	if !errors.Is(mutree.ErrNoRoot, mutree.ErrStructure) {
		t.Errorf("error %v should be a structural error", mutree.ErrNoRoot)
	}
}

func TestRescale(t *testing.T) {
	tr := newTree(t)
	cp := tr.Copy()

	tr.Rescale(0.5)
	for _, id := range tr.Nodes() {
		l, ok := tr.Len(id)
		ol, ook := cp.Len(id)
		if ok != ook {
			t.Errorf("node %d: got defined %v, want %v", id, ok, ook)
			continue
		}
		if !ok {
			continue
		}
		if math.Abs(l-ol/0.5) > 1e-12 {
			t.Errorf("node %d: got length %.6f, want %.6f", id, l, ol/0.5)
		}
	}

	// the copy is independent
	if l, _ := cp.Len(2); l != 2 {
		t.Errorf("copy: node 2: got length %.6f, want %.6f", l, 2.0)
	}
}

func TestValidate(t *testing.T) {
	tr := mutree.New("duplicated")
	root, _ := tr.Add(-1, "")
	tr.Add(root, "A")
	tr.Add(root, "A")
	if err := tr.Validate(); err == nil {
		t.Errorf("duplicated terminals: expecting error")
	}

	tr = mutree.New("unlabeled")
	root, _ = tr.Add(-1, "")
	tr.Add(root, "A")
	tr.Add(root, "")
	if err := tr.Validate(); err == nil {
		t.Errorf("unlabeled terminal: expecting error")
	}
}

// NewTree returns the tree
//
//	((A:2,B:4):1,C:6,D);
func newTree(t testing.TB) *mutree.Tree {
	t.Helper()

	tr, err := mutree.ReadNewick(strings.NewReader("((A:2,B:4):1,C:6,D);"), "test tree")
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}
	return tr
}
