// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sampledate implements a table of sampling times
// for the terminals of a tree.
//
// Sampling times are stored as real numbers.
// When read from calendar dates,
// the time is the number of days
// since January 1st of the year 1.
package sampledate

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is the error returned
// when a date can not be parsed.
var ErrInvalidDate = errors.New("invalid sample date")

// Table is a collection of sampling times
// indexed by a terminal identifier.
type Table struct {
	times map[string]float64
}

// New creates a new empty table.
func New() *Table {
	return &Table{
		times: make(map[string]float64),
	}
}

// Add sets the time of a terminal.
// If the terminal was already in the table,
// the previous value is replaced.
func (t *Table) Add(id string, v float64) {
	id = canon(id)
	if id == "" {
		return
	}
	t.times[id] = v
}

// IDs returns the identifiers of the terminals
// with a sampling time,
// sorted alphabetically.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.times))
	for id := range t.times {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of terminals in the table.
func (t *Table) Len() int {
	return len(t.times)
}

// Time returns the sampling time of a terminal.
func (t *Table) Time(id string) (float64, bool) {
	v, ok := t.times[canon(id)]
	return v, ok
}

// Days between 0001-01-01 and 1970-01-01.
const unixEpochDays = 719_162

const secondsPerDay = 24 * 60 * 60

// Parse parses a date
// and returns the number of days since 0001-01-01.
//
// Valid dates are in the form YYYY-MM-DD,
// YYYY-MM
// (read as the first day of the month),
// or YYYY
// (read as the first of January).
// Months and days can be given without leading zeros
// (e.g., 2020-3-5).
func Parse(date string) (float64, error) {
	date = strings.TrimSpace(date)

	fields := strings.Split(date, "-")
	if len(fields) > 3 {
		return 0, fmt.Errorf("%w: %q: should be YYYY-MM-DD", ErrInvalidDate, date)
	}

	v := []int{0, 1, 1}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidDate, date, err)
		}
		v[i] = n
	}
	year, month, day := v[0], v[1], v[2]
	if year < 1 || year > 9999 {
		return 0, fmt.Errorf("%w: %q: year out of range", ErrInvalidDate, date)
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: %q: month out of range", ErrInvalidDate, date)
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || d.Day() != day {
		return 0, fmt.Errorf("%w: %q: day out of range", ErrInvalidDate, date)
	}

	days := d.Unix() / secondsPerDay
	return float64(days + unixEpochDays), nil
}

// Format returns a date in the form YYYY-MM-DD
// from a number of days since 0001-01-01.
// Fractions of a day are truncated
// towards the past.
func Format(days float64) string {
	d := int64(math.Floor(days)) - unixEpochDays
	return time.Unix(d*secondsPerDay, 0).UTC().Format(time.DateOnly)
}

// Canon returns an identifier
// in its canonical form.
func canon(id string) string {
	return strings.Join(strings.Fields(id), " ")
}
