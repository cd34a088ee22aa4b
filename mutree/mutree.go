// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mutree implements rooted phylogenetic trees
// with branch lengths measured in expected substitutions
// (i.e., mutation trees).
//
// Nodes are identified by integer IDs,
// assigned in the order in which the nodes are added,
// so the root is always the node 0.
// A branch length can be undefined,
// in that case it is taken as a zero length
// when calculating distances,
// but it is kept undefined in any transformation of the tree.
package mutree

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrStructure is the error returned
// when a tree is not a single rooted tree.
var ErrStructure = errors.New("invalid tree structure")

// Structural errors.
var (
	ErrNoRoot        = fmt.Errorf("%w: tree without root", ErrStructure)
	ErrMultipleRoots = fmt.Errorf("%w: multiple roots", ErrStructure)
)

// A Tree is a rooted phylogenetic tree
// with branch lengths in substitutions.
type Tree struct {
	name  string
	nodes []*node
}

type node struct {
	id       int
	parent   int
	children []int

	taxon  string
	length float64
	hasLen bool
}

// New creates a new empty tree.
func New(name string) *Tree {
	return &Tree{
		name: strings.Join(strings.Fields(name), " "),
	}
}

// Add adds a new node as a child of the indicated parent
// and returns the ID of the new node.
// To add the root use -1 as the parent ID.
// The new node is created without a branch length.
//
// If the taxon name is not empty
// it will be used as the node label.
// Labels are not checked for uniqueness,
// as internal nodes might use them for support values;
// use Validate to check the terminals.
func (t *Tree) Add(parent int, taxon string) (int, error) {
	if parent < 0 {
		if len(t.nodes) > 0 {
			return -1, ErrMultipleRoots
		}
	} else if parent >= len(t.nodes) {
		return -1, fmt.Errorf("%w: parent node %d not in tree", ErrStructure, parent)
	}

	n := &node{
		id:     len(t.nodes),
		parent: parent,
		taxon:  strings.Join(strings.Fields(taxon), " "),
	}
	t.nodes = append(t.nodes, n)
	if parent >= 0 {
		p := t.nodes[parent]
		p.children = append(p.children, n.id)
	}
	return n.id, nil
}

// Children returns the IDs of the children of a node.
func (t *Tree) Children(id int) []int {
	n := t.node(id)
	if n == nil {
		return nil
	}
	return slices.Clone(n.children)
}

// Copy returns an independent copy of the tree.
func (t *Tree) Copy() *Tree {
	nt := &Tree{
		name:  t.name,
		nodes: make([]*node, len(t.nodes)),
	}
	for i, n := range t.nodes {
		cp := *n
		cp.children = slices.Clone(n.children)
		nt.nodes[i] = &cp
	}
	return nt
}

// IsRoot returns true if the node is the root of the tree.
func (t *Tree) IsRoot(id int) bool {
	n := t.node(id)
	if n == nil {
		return false
	}
	return n.parent < 0
}

// IsTerm returns true if the node is a terminal
// (i.e., a leaf).
func (t *Tree) IsTerm(id int) bool {
	n := t.node(id)
	if n == nil {
		return false
	}
	return len(n.children) == 0
}

// Len returns the branch length of a node
// (i.e., the length of the edge to its parent).
// If the length is undefined,
// it returns false.
func (t *Tree) Len(id int) (float64, bool) {
	n := t.node(id)
	if n == nil {
		return 0, false
	}
	return n.length, n.hasLen
}

// Name returns the name of the tree.
func (t *Tree) Name() string {
	return t.name
}

// Nodes returns the IDs of the tree nodes
// in preorder
// (i.e., a parent is always before its children).
func (t *Tree) Nodes() []int {
	if len(t.nodes) == 0 {
		return nil
	}
	ids := make([]int, 0, len(t.nodes))
	stack := []int{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids = append(ids, id)

		ch := t.nodes[id].children
		for i := len(ch) - 1; i >= 0; i-- {
			stack = append(stack, ch[i])
		}
	}
	return ids
}

// NumNodes returns the number of nodes in the tree.
func (t *Tree) NumNodes() int {
	return len(t.nodes)
}

// Parent returns the ID of the parent of a node.
// The root returns -1.
func (t *Tree) Parent(id int) int {
	n := t.node(id)
	if n == nil {
		return -1
	}
	return n.parent
}

// Root returns the ID of the root node.
// It returns -1 if the tree is empty.
func (t *Tree) Root() int {
	if len(t.nodes) == 0 {
		return -1
	}
	return 0
}

// SetLen sets the branch length of a node.
func (t *Tree) SetLen(id int, length float64) {
	n := t.node(id)
	if n == nil {
		return
	}
	n.length = length
	n.hasLen = true
}

// SetName sets the name of the tree.
func (t *Tree) SetName(name string) {
	t.name = strings.Join(strings.Fields(name), " ")
}

// TaxNode returns the ID of the terminal node
// with the given taxon label.
func (t *Tree) TaxNode(taxon string) (int, bool) {
	taxon = strings.Join(strings.Fields(taxon), " ")
	if taxon == "" {
		return -1, false
	}
	for _, n := range t.nodes {
		if len(n.children) == 0 && n.taxon == taxon {
			return n.id, true
		}
	}
	return -1, false
}

// Taxon returns the taxon label of a node.
func (t *Tree) Taxon(id int) string {
	n := t.node(id)
	if n == nil {
		return ""
	}
	return n.taxon
}

// Terms returns the labels of the terminals in the tree,
// sorted alphabetically.
func (t *Tree) Terms() []string {
	var terms []string
	for _, n := range t.nodes {
		if len(n.children) > 0 || n.taxon == "" {
			continue
		}
		terms = append(terms, n.taxon)
	}
	slices.Sort(terms)
	return terms
}

// Validate checks that all terminals of the tree
// have a label,
// and that the labels are unique.
func (t *Tree) Validate() error {
	if len(t.nodes) == 0 {
		return ErrNoRoot
	}
	terms := make(map[string]bool)
	for _, n := range t.nodes {
		if len(n.children) > 0 {
			continue
		}
		if n.taxon == "" {
			return fmt.Errorf("tree %q: terminal node %d without label", t.name, n.id)
		}
		if terms[n.taxon] {
			return fmt.Errorf("tree %q: terminal %q: repeated label", t.name, n.taxon)
		}
		terms[n.taxon] = true
	}
	return nil
}

func (t *Tree) node(id int) *node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}
