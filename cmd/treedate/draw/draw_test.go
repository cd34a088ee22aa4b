// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package draw

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/js-arias/treedate/mutree"
	"github.com/js-arias/treedate/sampledate"
)

func TestParseTick(t *testing.T) {
	tests := map[string]struct {
		in   string
		want tickValues
	}{
		"default": {
			in:   "",
			want: tickValues{min: 1, max: 5, label: 5},
		},
		"weeks": {
			in:   "7, 28, 28",
			want: tickValues{min: 7, max: 28, label: 28},
		},
		"no scale": {
			in:   "0,0,0",
			want: tickValues{},
		},
	}

	for name, test := range tests {
		tv, err := parseTick(test.in)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if tv != test.want {
			t.Errorf("%s: got %v, want %v", name, tv, test.want)
		}
	}

	for _, in := range []string{"1,5", "a,5,5", "-1,5,5"} {
		if _, err := parseTick(in); err == nil {
			t.Errorf("tick %q: expecting error", in)
		}
	}
}

func TestDraw(t *testing.T) {
	tr, err := mutree.ReadNewick(strings.NewReader("((A:10,B:20):5,C:30);"), "test")
	if err != nil {
		t.Fatalf("read tree: %v", err)
	}

	s, err := copyTree(tr, 2, 1, tickValues{min: 1, max: 5, label: 10})
	if err != nil {
		t.Fatalf("copy tree: %v", err)
	}
	if s.max != 30 {
		t.Errorf("max time: got %.6f, want %.6f", s.max, 30.0)
	}

	st := sampledate.New()
	st.Add("A", 100)
	st.Add("B", 110)
	s.setDates(st)
	if s.origin != 85 {
		t.Errorf("root date: got %.6f, want %.6f", s.origin, 85.0)
	}

	var buf bytes.Buffer
	if err := s.draw(&buf); err != nil {
		t.Fatalf("draw: %v", err)
	}

	taxa := make(map[string]bool)
	labels := 0
	dec := xml.NewDecoder(&buf)
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("invalid SVG: %v", err)
		}
		switch tk := tok.(type) {
		case xml.StartElement:
			inText = tk.Name.Local == "text"
		case xml.CharData:
			if !inText {
				continue
			}
			v := string(tk)
			if strings.Contains(v, "-") {
				labels++
				continue
			}
			taxa[v] = true
		case xml.EndElement:
			inText = false
		}
	}
	for _, tax := range []string{"A", "B", "C"} {
		if !taxa[tax] {
			t.Errorf("draw: taxon %q not found", tax)
		}
	}

	// labels at 0, 10, 20, and 30
	if labels != 4 {
		t.Errorf("draw: got %d date labels, want %d", labels, 4)
	}
}
