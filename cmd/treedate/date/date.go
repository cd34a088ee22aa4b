// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package date implements a command to date a tree
// using a molecular clock.
package date

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/timetree"
	"github.com/js-arias/treedate/clock"
	"github.com/js-arias/treedate/cmd/treedate/iofile"
	"github.com/js-arias/treedate/dateparam"
	"github.com/js-arias/treedate/mutree"
	"github.com/js-arias/treedate/sampledate"
)

var Command = &command.Command{
	Usage: `date -d|--dates <date-file>
	[-i|--input <tree-file>] [-o|--output <tree-file>]
	[-m|--mode <mode>] [--missing <policy>] [--trim <value>]
	[--param <param-file>] [--timetree <file>] [--name <tree-name>]
	[-v|--verbose]`,
	Short: "date a tree with a molecular clock",
	Long: `
Command date reads a tree with branch lengths in substitutions per site, and
the sampling dates of its terminals, and writes the same tree with branch
lengths in days, using a molecular clock.

The flag --dates, or -d, is required and defines the file with the sampling
dates. See 'treedate help dates' for the format of the file.

By default, the tree is read from the standard input. Use the flag --input,
or -i, to read the tree from a file. The dated tree is written in Newick
format into the standard output. Use the flag --output, or -o, to write the
tree into a file. The output is only written if the tree was dated
successfully. If a file name ends in ".gz" it will be compressed with gzip.

The flag --mode, or -m, sets the dating mode. By default, the strict mode is
used. See 'treedate help modes' for the valid modes.

By default, terminals without a sampling date are ignored in the estimation
of the rate. To report them as an error, use the flag --missing with the
value "error". The flag --trim sets the number of scaled median absolute
deviations used to identify outliers in the robust mode. The default value is
3.

Dating parameters can be read from a parameter file with the flag --param
(see 'treedate param'). Flags given explicitly in the command line take
precedence over the values in the parameter file.

The flag --timetree exports the dated tree as a time-calibrated tree table
(the format used by PhyGeo), with the ages measured in years before the most
recent dated terminal. As time trees store ages in whole years, with branches
of at least a year, trees with a shorter time span can not be exported. The
flag --name sets the name of the tree, by default the name is taken from the
input file.

If the flag --verbose, or -v, is defined, a summary of the regression will be
printed in the standard error.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var verbose bool
var inputFile string
var outputFile string
var datesFile string
var modeFlag string
var missingFlag string
var trimFlag float64
var paramFile string
var timeTreeFile string
var treeName string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&verbose, "verbose", false, "")
	c.Flags().BoolVar(&verbose, "v", false, "")
	c.Flags().StringVar(&inputFile, "input", "", "")
	c.Flags().StringVar(&inputFile, "i", "", "")
	c.Flags().StringVar(&outputFile, "output", "", "")
	c.Flags().StringVar(&outputFile, "o", "", "")
	c.Flags().StringVar(&datesFile, "dates", "", "")
	c.Flags().StringVar(&datesFile, "d", "", "")
	c.Flags().StringVar(&modeFlag, "mode", "", "")
	c.Flags().StringVar(&modeFlag, "m", "", "")
	c.Flags().StringVar(&missingFlag, "missing", "", "")
	c.Flags().Float64Var(&trimFlag, "trim", 0, "")
	c.Flags().StringVar(&paramFile, "param", "", "")
	c.Flags().StringVar(&timeTreeFile, "timetree", "", "")
	c.Flags().StringVar(&treeName, "name", "", "")
}

func run(c *command.Command, args []string) error {
	if datesFile == "" {
		return c.UsageError("expecting sample dates file, flag --dates")
	}
	if iofile.IsStd(datesFile) && iofile.IsStd(inputFile) {
		return c.UsageError("tree and sample dates can not be both read from the standard input")
	}
	return dateTree(c.Stdin(), c.Stdout(), c.Stderr())
}

// DateTree dates a tree
// using the files and options set by the flags.
// Nothing is written into the output
// unless the whole process is successful.
func dateTree(stdin io.Reader, stdout, stderr io.Writer) error {
	// the mode is resolved before any data is read
	est, err := estimator()
	if err != nil {
		return err
	}
	fitter, hasFit := est.(clock.Fitter)
	if timeTreeFile != "" && !hasFit {
		return fmt.Errorf("mode %q: unable to export time tree: undefined root date", est.String())
	}

	st, err := iofile.ReadDates(datesFile, stdin)
	if err != nil {
		return err
	}
	t, err := iofile.ReadTree(inputFile, stdin)
	if err != nil {
		return err
	}
	if treeName != "" {
		t.SetName(treeName)
	}

	var f clock.Fit
	var dt *mutree.Tree
	if hasFit {
		f, err = fitter.Fit(t, st)
		if err != nil {
			return fmt.Errorf("on tree %q: %w", t.Name(), err)
		}
		dt = f.Rescale(t)
	} else {
		dt, err = est.Estimate(t, st)
		if err != nil {
			return fmt.Errorf("on tree %q: %w", t.Name(), err)
		}
	}

	var tc *timetree.Collection
	if timeTreeFile != "" {
		tc, err = timeTree(dt, f, st)
		if err != nil {
			return err
		}
	}

	if verbose {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		if hasFit {
			logFit(logger, dt.Name(), est.String(), f)
		} else {
			logger.Info("tree dated", "tree", dt.Name(), "mode", est.String())
		}
	}

	if err := writeTree(stdout, dt); err != nil {
		return err
	}
	if tc != nil {
		if err := writeTimeTree(tc); err != nil {
			return err
		}
	}
	return nil
}

func estimator() (clock.Estimator, error) {
	dp := dateparam.New("")
	if paramFile != "" {
		var err error
		dp, err = dateparam.Read(paramFile)
		if err != nil {
			return nil, err
		}
	}

	if modeFlag != "" {
		if err := dp.SetMode(modeFlag); err != nil {
			return nil, err
		}
	}
	if missingFlag != "" {
		if err := dp.SetMissing(missingFlag); err != nil {
			return nil, err
		}
	}
	if trimFlag != 0 {
		if err := dp.SetTrim(trimFlag); err != nil {
			return nil, err
		}
	}
	return dp.Estimator()
}

func logFit(logger *slog.Logger, name, mode string, f clock.Fit) {
	logger.Info("tree dated",
		"tree", name,
		"mode", mode,
		"rate", f.Rate,
		"root", sampledate.Format(f.Root()),
		"intercept", f.Intercept,
		"r", f.R,
		"r2", f.R2,
		"points", len(f.Points),
		"excluded", len(f.Excluded),
	)
	for _, tax := range f.Excluded {
		logger.Info("excluded terminal", "tree", name, "taxon", tax)
	}
}

func writeTree(stdout io.Writer, t *mutree.Tree) (err error) {
	w, err := iofile.Create(outputFile, stdout)
	if err != nil {
		return err
	}
	defer func() {
		e := w.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := t.Newick(w); err != nil {
		return fmt.Errorf("while writing tree %q: %v", t.Name(), err)
	}
	return nil
}

const (
	daysPerYear  = 365.25
	millionYears = 1_000_000
)

var errTimeSpan = errors.New("time span too short for a time tree")

// TimeTree converts a tree with branch lengths in days
// into a time tree with ages in years,
// measured from the most recent node of the tree
// (usually, the most recent dated terminal).
func timeTree(t *mutree.Tree, f clock.Fit, st *sampledate.Table) (*timetree.Collection, error) {
	latest := f.Root()
	for _, tax := range t.Terms() {
		if v, ok := st.Time(tax); ok && v > latest {
			latest = v
		}
	}
	span := (latest - f.Root()) / daysPerYear

	// time trees require explicit branch lengths
	// in million years
	ct := t.Copy()
	for _, id := range ct.Nodes() {
		if ct.IsRoot(id) {
			continue
		}
		l, _ := ct.Len(id)
		ct.SetLen(id, l)
	}
	ct.Rescale(daysPerYear * millionYears)

	depth, whole := yearDepth(ct)
	rootAge := int64(math.Round(max(span, depth)))
	if whole > rootAge {
		return nil, fmt.Errorf("on tree %q: %w: root age of %.2f years: time trees require branches of at least a year", t.Name(), errTimeSpan, max(span, depth))
	}

	var buf bytes.Buffer
	if err := ct.Newick(&buf); err != nil {
		return nil, err
	}
	tc, err := timetree.Newick(&buf, t.Name(), rootAge)
	if err != nil {
		return nil, fmt.Errorf("on tree %q: %v", t.Name(), err)
	}
	return tc, nil
}

// YearDepth returns the largest root-to-tip distance
// of a tree with branch lengths in million years.
// The distance is returned in years,
// and in whole years as read by a time tree,
// in which each branch is truncated to years
// and branches shorter than a year last a year.
func yearDepth(t *mutree.Tree) (float64, int64) {
	years := make(map[int]float64)
	whole := make(map[int]int64)

	var depth float64
	var wDepth int64
	for _, id := range t.Nodes() {
		if t.IsRoot(id) {
			continue
		}
		p := t.Parent(id)
		l, _ := t.Len(id)
		years[id] = years[p] + l*millionYears
		depth = max(depth, years[id])

		v := max(l, 1.0/millionYears)
		whole[id] = whole[p] + int64(v*millionYears)
		wDepth = max(wDepth, whole[id])
	}
	return depth, wDepth
}

func writeTimeTree(tc *timetree.Collection) (err error) {
	w, err := os.Create(timeTreeFile)
	if err != nil {
		return err
	}
	defer func() {
		e := w.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := tc.TSV(w); err != nil {
		return fmt.Errorf("while writing to %q: %v", timeTreeFile, err)
	}
	return nil
}
