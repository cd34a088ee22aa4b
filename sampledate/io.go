// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sampledate

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"
)

// ReadTSV reads a table of sample dates
// from a TSV file.
//
// The TSV must be without header,
// the first column is the identifier of the terminal,
// and the second column its sampling date
// (see Parse for the valid date formats).
// Any other column will be ignored.
// Lines starting with '#' are comments.
//
// Here is an example file:
//
//	# sample dates
//	hCoV-19/Wuhan/WH01/2019	2019-12-26
//	hCoV-19/USA/WA1/2020	2020-01
//	hCoV-19/Italy/INMI1/2020	2020
func ReadTSV(r io.Reader) (*Table, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'
	tsv.FieldsPerRecord = -1
	tsv.LazyQuotes = true

	t := New()
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("on line %d: %v", errLine(err), err)
		}
		ln, _ := tsv.FieldPos(0)

		id := canon(row[0])
		if id == "" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("on line %d: terminal %q: %w: expecting date column", ln, id, ErrInvalidDate)
		}

		days, err := Parse(row[1])
		if err != nil {
			return nil, fmt.Errorf("on line %d: terminal %q: %w", ln, id, err)
		}
		t.Add(id, days)
	}
	return t, nil
}

// TSV writes a table of sample dates
// as a TSV file.
func (t *Table) TSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# sample dates\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	for _, id := range t.IDs() {
		row := []string{
			id,
			Format(t.times[id]),
		}
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("while writing data: %v", err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}

// ErrLine returns the line of a CSV parsing error.
func errLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.StartLine
	}
	return 0
}
