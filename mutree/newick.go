// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mutree

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadNewick reads a tree in Newick
// (parenthetical) format
// from a reader.
//
// The input must contain a single tree,
// ended by a semicolon.
// Labels can be quoted with single quotes
// (a doubled quote is read as a quote).
// Comments between square brackets are ignored.
// A node without a branch length
// (i.e., without a colon after its label)
// will have an undefined length.
// Terminals must be labeled,
// and the terminal labels must be unique.
//
// Here is an example tree:
//
//	((A:2,B:4)'node 1':1,C:6);
func ReadNewick(r io.Reader, name string) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &parser{
		data: data,
		t:    New(name),
	}
	p.skip()
	if p.eof() {
		return nil, fmt.Errorf("newick: empty input: %w", ErrNoRoot)
	}
	if err := p.node(-1); err != nil {
		return nil, err
	}
	p.skip()
	if c := p.next(); c != ';' {
		return nil, p.errorf("expecting ';', found %q", c)
	}
	p.skip()
	if !p.eof() {
		return nil, fmt.Errorf("newick: at byte %d: more than one tree in input: %w", p.pos, ErrMultipleRoots)
	}

	if err := p.t.Validate(); err != nil {
		return nil, fmt.Errorf("newick: %w", err)
	}
	return p.t, nil
}

// Reserved characters of the Newick format.
const reserved = "()[],:;"

type parser struct {
	data []byte
	pos  int
	t    *Tree
}

func (p *parser) node(parent int) error {
	id, err := p.t.Add(parent, "")
	if err != nil {
		return err
	}

	p.skip()
	if p.peek() == '(' {
		p.pos++
		for {
			if err := p.node(id); err != nil {
				return err
			}
			p.skip()
			c := p.next()
			if c == ')' {
				break
			}
			if c != ',' {
				return p.errorf("expecting ',' or ')', found %q", c)
			}
		}
	}

	label, err := p.label()
	if err != nil {
		return err
	}
	p.t.nodes[id].taxon = strings.Join(strings.Fields(label), " ")

	p.skip()
	if p.peek() != ':' {
		return nil
	}
	p.pos++
	v, err := p.length()
	if err != nil {
		return err
	}
	p.t.SetLen(id, v)
	return nil
}

func (p *parser) label() (string, error) {
	p.skip()
	if p.peek() != '\'' {
		start := p.pos
		for !p.eof() && strings.IndexByte(reserved, p.data[p.pos]) < 0 {
			p.pos++
		}
		return strings.TrimSpace(string(p.data[start:p.pos])), nil
	}

	p.pos++
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated quoted label")
		}
		c := p.next()
		if c != '\'' {
			b.WriteByte(c)
			continue
		}
		if p.peek() == '\'' {
			p.pos++
			b.WriteByte('\'')
			continue
		}
		break
	}
	return b.String(), nil
}

func (p *parser) length() (float64, error) {
	p.skip()
	start := p.pos
	for !p.eof() {
		c := p.data[p.pos]
		if strings.IndexByte(reserved, c) >= 0 || isSpace(c) {
			break
		}
		p.pos++
	}
	s := string(p.data[start:p.pos])
	if s == "" {
		return 0, p.errorf("expecting branch length")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, p.errorf("invalid branch length %q: %v", s, err)
	}
	return v, nil
}

// Skip skips blanks and comments.
func (p *parser) skip() {
	for !p.eof() {
		c := p.data[p.pos]
		if isSpace(c) {
			p.pos++
			continue
		}
		if c != '[' {
			return
		}
		for !p.eof() && p.data[p.pos] != ']' {
			p.pos++
		}
		p.pos++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.data)
}

func (p *parser) next() byte {
	if p.eof() {
		return 0
	}
	c := p.data[p.pos]
	p.pos++
	return c
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.data[p.pos]
}

func (p *parser) errorf(format string, a ...any) error {
	return fmt.Errorf("newick: at byte %d: %s", p.pos, fmt.Sprintf(format, a...))
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Newick writes the tree in Newick format.
// Undefined branch lengths are omitted.
func (t *Tree) Newick(w io.Writer) error {
	if len(t.nodes) == 0 {
		return ErrNoRoot
	}

	bw := bufio.NewWriter(w)
	t.writeNode(bw, 0)
	fmt.Fprintf(bw, ";\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing tree %q: %v", t.name, err)
	}
	return nil
}

func (t *Tree) writeNode(w *bufio.Writer, id int) {
	n := t.nodes[id]
	if len(n.children) > 0 {
		w.WriteByte('(')
		for i, c := range n.children {
			if i > 0 {
				w.WriteByte(',')
			}
			t.writeNode(w, c)
		}
		w.WriteByte(')')
	}
	w.WriteString(quote(n.taxon))
	if n.hasLen {
		w.WriteByte(':')
		w.WriteString(strconv.FormatFloat(n.length, 'f', -1, 64))
	}
}

func quote(label string) string {
	if !strings.ContainsAny(label, reserved+"' \t") {
		return label
	}
	return "'" + strings.ReplaceAll(label, "'", "''") + "'"
}
