// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package iofile_test

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/js-arias/treedate/cmd/treedate/iofile"
)

func TestIsStd(t *testing.T) {
	for _, name := range []string{"", "-", "stdin", "STDOUT"} {
		if !iofile.IsStd(name) {
			t.Errorf("name %q: expecting standard file", name)
		}
	}
	if iofile.IsStd("tree.nwk") {
		t.Errorf("name %q: unexpected standard file", "tree.nwk")
	}
}

func TestGzip(t *testing.T) {
	dir := t.TempDir()
	src := "((A:1,B:2):0.5,C:3);"

	for _, name := range []string{"tree.nwk", "tree.nwk.gz", "TREE.NWK.GZ"} {
		name = filepath.Join(dir, name)
		w, err := iofile.Create(name, nil)
		if err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
		if _, err := io.WriteString(w, src); err != nil {
			t.Fatalf("write %q: %v", name, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close %q: %v", name, err)
		}

		r, err := iofile.Open(name, nil)
		if err != nil {
			t.Fatalf("open %q: %v", name, err)
		}
		b, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatalf("read %q: %v", name, err)
		}
		if string(b) != src {
			t.Errorf("file %q: got %q, want %q", name, b, src)
		}

		tr, err := iofile.ReadTree(name, nil)
		if err != nil {
			t.Fatalf("read tree %q: %v", name, err)
		}
		if tr.Name() != "tree" && tr.Name() != "TREE" {
			t.Errorf("file %q: got tree name %q", name, tr.Name())
		}
		if got := len(tr.Terms()); got != 3 {
			t.Errorf("file %q: got %d terminals, want %d", name, got, 3)
		}
	}
}

func TestStdin(t *testing.T) {
	tr, err := iofile.ReadTree("-", strings.NewReader("(A:1,B:2);"))
	if err != nil {
		t.Fatalf("read tree: %v", err)
	}
	if tr.Name() != "stdin" {
		t.Errorf("tree name: got %q, want %q", tr.Name(), "stdin")
	}

	st, err := iofile.ReadDates("", strings.NewReader("A\t2020-01-01\nB\t2020-02\n"))
	if err != nil {
		t.Fatalf("read dates: %v", err)
	}
	if st.Len() != 2 {
		t.Errorf("dates: got %d terminals, want %d", st.Len(), 2)
	}

	var buf strings.Builder
	w, err := iofile.Create("", &buf)
	if err != nil {
		t.Fatalf("create stdout: %v", err)
	}
	io.WriteString(w, "data")
	if err := w.Close(); err != nil {
		t.Fatalf("close stdout: %v", err)
	}
	if buf.String() != "data" {
		t.Errorf("stdout: got %q, want %q", buf.String(), "data")
	}
}

func TestMissingFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "none.nwk")
	if _, err := iofile.ReadTree(name, nil); err == nil {
		t.Errorf("file %q: expecting error", name)
	}
}
