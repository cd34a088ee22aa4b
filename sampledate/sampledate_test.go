// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sampledate_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/treedate/sampledate"
)

func TestParse(t *testing.T) {
	tests := map[string]float64{
		"0001-01-01":   0,
		"0001-01-02":   1,
		"1970-01-01":   719_162,
		"2020-01-01":   737_424,
		"2020-03-01":   737_484,
		"2020-03":      737_484,
		"2020":         737_424,
		" 2019-12-26 ": 737_418,
		"2020-1-5":     737_428,
		"2020-3-1":     737_484,
		"2020-3":       737_484,
		"2019-12-6":    737_398,
	}
	for in, want := range tests {
		got, err := sampledate.Parse(in)
		if err != nil {
			t.Errorf("date %q: unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("date %q: got %.1f days, want %.1f", in, got, want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"2020-01-01-01",
		"2020-13-01",
		"2020-02-30",
		"01/02/2020",
		"year",
		"2020--1",
		"2020-0-1",
		"2020-1-0",
		"2020-2-30",
		"0-1-1",
	} {
		_, err := sampledate.Parse(in)
		if !errors.Is(err, sampledate.ErrInvalidDate) {
			t.Errorf("date %q: got error %v, want %v", in, err, sampledate.ErrInvalidDate)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := map[float64]string{
		0:         "0001-01-01",
		719_162:   "1970-01-01",
		737_418:   "2019-12-26",
		737_418.9: "2019-12-26",
		737_417.5: "2019-12-25",
	}
	for days, want := range tests {
		if got := sampledate.Format(days); got != want {
			t.Errorf("days %.1f: got %q, want %q", days, got, want)
		}
	}

	for _, date := range []string{"2001-02-03", "1918-11-11", "2024-02-29"} {
		d, err := sampledate.Parse(date)
		if err != nil {
			t.Fatalf("date %q: %v", date, err)
		}
		if got := sampledate.Format(d); got != date {
			t.Errorf("date %q: round trip: got %q", date, got)
		}
	}
}

func TestTable(t *testing.T) {
	tab := newTable(t)

	ids := []string{"A", "B", "C virus"}
	if got := tab.IDs(); !reflect.DeepEqual(got, ids) {
		t.Errorf("ids: got %v, want %v", got, ids)
	}
	if tab.Len() != len(ids) {
		t.Errorf("len: got %d, want %d", tab.Len(), len(ids))
	}
	if v, ok := tab.Time("C  virus"); !ok || v != 20 {
		t.Errorf("time %q: got %.1f (%v), want %.1f", "C virus", v, ok, 20.0)
	}
	if _, ok := tab.Time("D"); ok {
		t.Errorf("time %q: found, want not found", "D")
	}
}

func TestReadTSV(t *testing.T) {
	in := `# sample dates
A	2020-01-01
B	2020-01

C	2020	extra column
`
	tab, err := sampledate.ReadTSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unable to read data: %v", err)
	}

	want := map[string]float64{
		"A": 737_424,
		"B": 737_424,
		"C": 737_424,
	}
	testTable(t, "read", tab, want)

	var w bytes.Buffer
	if err := tab.TSV(&w); err != nil {
		t.Fatalf("unable to write data: %v", err)
	}
	nt, err := sampledate.ReadTSV(&w)
	if err != nil {
		t.Logf("input data:\n%s\n", w.String())
		t.Fatalf("unable to read written data: %v", err)
	}
	testTable(t, "round trip", nt, want)
}

func TestReadTSVErrors(t *testing.T) {
	for name, in := range map[string]string{
		"bad date":     "A\t2020-01-01\nB\t2020/01/01\n",
		"missing date": "A\t2020-01-01\nB\n",
		"empty date":   "A\t\n",
	} {
		_, err := sampledate.ReadTSV(strings.NewReader(in))
		if !errors.Is(err, sampledate.ErrInvalidDate) {
			t.Errorf("%s: got error %v, want %v", name, err, sampledate.ErrInvalidDate)
		}
	}
}

func TestReadTSVShortDates(t *testing.T) {
	in := "# short dates\nA\t2020-1-5\nB\t2020-3\n"
	tab, err := sampledate.ReadTSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testTable(t, "short dates", tab, map[string]float64{
		"A": 737_428,
		"B": 737_484,
	})

	_, err = sampledate.ReadTSV(strings.NewReader("A\t2020-1-5\nB\t2020-2-30\n"))
	if err == nil || !strings.Contains(err.Error(), "on line 2") {
		t.Errorf("got error %v, want error on line 2", err)
	}
}

func newTable(t testing.TB) *sampledate.Table {
	t.Helper()

	tab := sampledate.New()
	tab.Add("A", 0)
	tab.Add("B", 10)
	tab.Add("C virus", 20)
	tab.Add("  ", 30)
	return tab
}

func testTable(t testing.TB, name string, tab *sampledate.Table, want map[string]float64) {
	t.Helper()

	if tab.Len() != len(want) {
		t.Errorf("%s: got %d terminals, want %d", name, tab.Len(), len(want))
	}
	for id, w := range want {
		v, ok := tab.Time(id)
		if !ok {
			t.Errorf("%s: terminal %q: not found", name, id)
			continue
		}
		if v != w {
			t.Errorf("%s: terminal %q: got %.1f, want %.1f", name, id, v, w)
		}
	}
}
