// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package iofile implements opening and creation of files
// used by TreeDate commands.
//
// Files with the ".gz" extension
// are compressed with gzip.
package iofile

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/js-arias/treedate/mutree"
	"github.com/js-arias/treedate/sampledate"
)

// IsStd returns true if the name
// refers to the standard input or output.
func IsStd(name string) bool {
	switch strings.ToLower(name) {
	case "", "-", "stdin", "stdout":
		return true
	}
	return false
}

type reader struct {
	io.Reader
	closers []io.Closer
}

func (r *reader) Close() error {
	var err error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if e := r.closers[i].Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// Open opens a file for reading.
// If the name refers to the standard input,
// it reads from stdin.
func Open(name string, stdin io.Reader) (io.ReadCloser, error) {
	if IsStd(name) {
		return io.NopCloser(stdin), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(name), ".gz") {
		return f, nil
	}

	z, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return &reader{
		Reader:  z,
		closers: []io.Closer{f, z},
	}, nil
}

type writer struct {
	io.Writer
	closers []io.Closer
}

func (w *writer) Close() error {
	var err error
	for i := len(w.closers) - 1; i >= 0; i-- {
		if e := w.closers[i].Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Create creates a file for writing.
// If the name refers to the standard output,
// it writes into stdout.
// The returned writer must be closed
// to flush any compressed data.
func Create(name string, stdout io.Writer) (io.WriteCloser, error) {
	if IsStd(name) {
		return nopWriteCloser{stdout}, nil
	}

	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(name), ".gz") {
		return f, nil
	}

	z := gzip.NewWriter(f)
	return &writer{
		Writer:  z,
		closers: []io.Closer{f, z},
	}, nil
}

// ReadTree reads a Newick tree from a file.
func ReadTree(name string, stdin io.Reader) (*mutree.Tree, error) {
	r, err := Open(name, stdin)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if IsStd(name) {
		name = "stdin"
	}
	t, err := mutree.ReadNewick(r, treeName(name))
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %w", name, err)
	}
	return t, nil
}

// ReadDates reads a sample date table from a file.
func ReadDates(name string, stdin io.Reader) (*sampledate.Table, error) {
	r, err := Open(name, stdin)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if IsStd(name) {
		name = "stdin"
	}
	st, err := sampledate.ReadTSV(r)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %w", name, err)
	}
	return st, nil
}

// TreeName returns a tree name
// from a file name.
func treeName(name string) string {
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-len(".gz")]
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}
