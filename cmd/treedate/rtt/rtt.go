// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package rtt implements a command to print
// the root-to-tip regression of a tree.
package rtt

import (
	"bufio"
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/treedate/clock"
	"github.com/js-arias/treedate/cmd/treedate/iofile"
	"github.com/js-arias/treedate/sampledate"
)

var Command = &command.Command{
	Usage: `rtt -d|--dates <date-file> [-i|--input <tree-file>]
	[-m|--mode <mode>] [--missing <policy>] [--trim <value>]
	[--plot <image-file>]`,
	Short: "print the root-to-tip regression of a tree",
	Long: `
Command rtt reads a tree with branch lengths in substitutions per site, and
the sampling dates of its terminals, and prints the root-to-tip regression
used to estimate the substitution rate. This is useful to check if the data
has a temporal signal.

The flag --dates, or -d, is required and defines the file with the sampling
dates. By default, the tree is read from the standard input. Use the flag
--input, or -i, to read the tree from a file.

The output is a tab-delimited table printed in the standard output, with the
following fields:

	- taxon     the name of the terminal
	- date      the sampling date of the terminal
	- distance  the root-to-tip distance, in substitutions per site
	- residual  the difference between the distance and the regression
	- used      "true" if the terminal was used in the regression

The header of the table contains the estimated rate (in substitutions per
site per day), the estimated date of the root, and the correlation of the
regression.

By default the strict mode is used. Use the flag --mode, or -m, to use a
different mode. The flags --missing and --trim have the same meaning as in
'treedate date'.

If the flag --plot is defined, a scatter plot of the regression will be
written in the indicated file. The image format is defined by the file
extension (for example, ".png" or ".svg"). Terminals are colored by the
absolute value of their residuals.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var inputFile string
var datesFile string
var modeFlag string
var missingFlag string
var trimFlag float64
var plotFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&inputFile, "input", "", "")
	c.Flags().StringVar(&inputFile, "i", "", "")
	c.Flags().StringVar(&datesFile, "dates", "", "")
	c.Flags().StringVar(&datesFile, "d", "", "")
	c.Flags().StringVar(&modeFlag, "mode", "strict", "")
	c.Flags().StringVar(&modeFlag, "m", "strict", "")
	c.Flags().StringVar(&missingFlag, "missing", "", "")
	c.Flags().Float64Var(&trimFlag, "trim", clock.DefaultTrim, "")
	c.Flags().StringVar(&plotFile, "plot", "", "")
}

func run(c *command.Command, args []string) error {
	if datesFile == "" {
		return c.UsageError("expecting sample dates file, flag --dates")
	}
	if iofile.IsStd(datesFile) && iofile.IsStd(inputFile) {
		return c.UsageError("tree and sample dates can not be both read from the standard input")
	}

	missing, err := clock.ParsePolicy(missingFlag)
	if err != nil {
		return err
	}
	est, err := clock.New(modeFlag, clock.Options{
		Missing: missing,
		Trim:    trimFlag,
	})
	if err != nil {
		return err
	}
	fitter, ok := est.(clock.Fitter)
	if !ok {
		return fmt.Errorf("mode %q: regression not available", est.String())
	}

	st, err := iofile.ReadDates(datesFile, c.Stdin())
	if err != nil {
		return err
	}
	t, err := iofile.ReadTree(inputFile, c.Stdin())
	if err != nil {
		return err
	}

	f, err := fitter.Fit(t, st)
	if err != nil {
		return fmt.Errorf("on tree %q: %w", t.Name(), err)
	}

	// all dated terminals
	// including the outliers
	all, err := clock.Regress(t, st, clock.Skip)
	if err != nil {
		return fmt.Errorf("on tree %q: %w", t.Name(), err)
	}

	if err := writeTable(c.Stdout(), est.String(), f, all.Points); err != nil {
		return err
	}

	if plotFile != "" {
		if err := makePlot(plotFile, t.Name(), f, all.Points); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, mode string, f clock.Fit, pts []clock.Point) error {
	used := make(map[string]bool, len(f.Points))
	for _, p := range f.Points {
		used[p.Taxon] = true
	}
	pts = slices.Clone(pts)
	slices.SortFunc(pts, func(a, b clock.Point) int {
		if c := cmp.Compare(a.Time, b.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Taxon, b.Taxon)
	})

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# root-to-tip regression\n")
	fmt.Fprintf(bw, "# mode: %s\n", mode)
	fmt.Fprintf(bw, "# rate: %g substitutions per site per day\n", f.Rate)
	fmt.Fprintf(bw, "# root date: %s\n", sampledate.Format(f.Root()))
	fmt.Fprintf(bw, "# r: %.6f, r2: %.6f\n", f.R, f.R2)
	fmt.Fprintf(bw, "# points: %d, excluded: %d\n", len(f.Points), len(f.Excluded))
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write([]string{"taxon", "date", "distance", "residual", "used"}); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}
	for _, p := range pts {
		row := []string{
			p.Taxon,
			sampledate.Format(p.Time),
			strconv.FormatFloat(p.Dist, 'f', -1, 64),
			strconv.FormatFloat(f.Residual(p), 'g', 6, 64),
			strconv.FormatBool(used[p.Taxon]),
		}
		if err := tsv.Write(row); err != nil {
			return err
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
