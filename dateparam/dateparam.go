// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package dateparam implements reading and writing
// of the parameters used to date a tree.
package dateparam

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/treedate/clock"
)

// Param is a keyword to identify
// the type of parameter in a parameter file.
type Param string

// Valid parameters
const (
	// Missing is the policy for terminals
	// without a sampling date.
	Missing Param = "missing"

	// Mode is the dating mode
	// (i.e., the molecular clock model).
	Mode Param = "mode"

	// Trim is the number of scaled median absolute deviations
	// used to identify outliers
	// in robust dating modes.
	Trim Param = "trim"
)

// DP represents a collection of dating parameters.
type DP struct {
	name string // file name

	mode    string
	missing clock.Policy
	trim    float64
}

// New creates a new parameter collection
// with the default values.
func New(name string) *DP {
	return &DP{
		name:    name,
		mode:    "strict",
		missing: clock.Skip,
		trim:    clock.DefaultTrim,
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads a dating parameter file from a TSV file.
//
// The TSV must contain the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# treedate dating parameters
//	parameter	value
//	mode	robust
//	missing	error
//	trim	3
func Read(name string) (*DP, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("on file %q: header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	dp := New(name)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, fmt.Errorf("on file %q: on row %d: %v", name, pe.StartLine, pe.Err)
			}
			return nil, fmt.Errorf("on file %q: %v", name, err)
		}
		ln, _ := tsv.FieldPos(0)

		f := "parameter"
		p := Param(strings.ToLower(strings.TrimSpace(row[fields[f]])))

		f = "value"
		v := row[fields[f]]
		switch p {
		case Missing:
			if err := dp.SetMissing(v); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		case Mode:
			if err := dp.SetMode(v); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %w", name, ln, f, err)
			}
		case Trim:
			t, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			if err := dp.SetTrim(t); err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
		}
	}
	return dp, nil
}

// Estimator returns the estimator
// defined by the parameters.
func (dp *DP) Estimator() (clock.Estimator, error) {
	return clock.New(dp.mode, clock.Options{
		Missing: dp.missing,
		Trim:    dp.trim,
	})
}

// Missing returns the policy for undated terminals.
func (dp *DP) Missing() clock.Policy {
	return dp.missing
}

// Mode returns the dating mode.
func (dp *DP) Mode() string {
	return dp.mode
}

// Name returns the name used for a set of dating parameters.
func (dp *DP) Name() string {
	return dp.name
}

// SetMissing sets the policy for undated terminals.
func (dp *DP) SetMissing(policy string) error {
	p, err := clock.ParsePolicy(policy)
	if err != nil {
		return err
	}
	dp.missing = p
	return nil
}

// SetMode sets the dating mode.
// The mode must be a registered dating mode.
func (dp *DP) SetMode(mode string) error {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if !slices.Contains(clock.Modes(), mode) {
		return &clock.UnknownModeError{
			Mode:  mode,
			Valid: clock.Modes(),
		}
	}
	dp.mode = mode
	return nil
}

// SetName sets the name of a parameter collection.
func (dp *DP) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	dp.name = name
}

// SetTrim sets the outlier threshold.
func (dp *DP) SetTrim(t float64) error {
	if t <= 0 {
		return fmt.Errorf("invalid trim value: %.6f", t)
	}
	dp.trim = t
	return nil
}

// Trim returns the outlier threshold.
func (dp *DP) Trim() float64 {
	return dp.trim
}

// Write writes a parameter collection into a file.
func (dp *DP) Write() (err error) {
	f, err := os.Create(dp.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# treedate dating parameters\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", dp.name, err)
	}

	rows := [][]string{
		{string(Mode), dp.mode},
		{string(Missing), dp.missing.String()},
		{string(Trim), strconv.FormatFloat(dp.trim, 'f', -1, 64)},
	}
	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("on file %q: %v", dp.name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", dp.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", dp.name, err)
	}
	return nil
}
