// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package draw implements a command to draw
// a dated tree as an SVG file.
package draw

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/treedate/cmd/treedate/iofile"
)

var Command = &command.Command{
	Usage: `draw [-i|--input <tree-file>] [-o|--output <svg-file>]
	[-d|--dates <date-file>]
	[--scale <value>] [--step <value>] [--tick <tick-value>]`,
	Short: "draw a dated tree as an SVG file",
	Long: `
Command draw reads a dated tree, with branch lengths in days (for example, the
output of 'treedate date'), and draws it into an SVG-encoded file.

By default, the tree is read from the standard input. Use the flag --input,
or -i, to read the tree from a file. By default, the drawing is written into
the standard output. Use the flag --output, or -o, to write it into a file.

By default, the time scale is set in days. To change the scale, use the flag
--scale with the value in days of the scale (for example, 7 for weeks, or
365.25 for years). By default, 10 pixel units will be used per scale unit;
use the flag --step to define a different value (it can have decimal points).

By default, a timescale with ticks every scale unit will be added at the
bottom of the drawing. Use the flag --tick to define the tick lines, using the
following format: "<min-tick>,<max-tick>,<label-tick>", in which min-tick
indicates minor ticks, max-tick indicates major ticks, and label-tick the
ticks that will be labeled; for example, the default is "1,5,5" which means
that small ticks will be added each scale unit, major ticks will be added
every 5 scale units, and labels will be added every 5 scale units. To remove
the timescale use a minor tick of 0.

If the flag --dates, or -d, is defined with a sample date file, terminals will
be colored by their sampling date, and the timescale will be labeled with
calendar dates.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var stepX float64
var scale float64
var tickFlag string
var inputFile string
var outputFile string
var datesFile string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&stepX, "step", 10, "")
	c.Flags().Float64Var(&scale, "scale", 1, "")
	c.Flags().StringVar(&tickFlag, "tick", "", "")
	c.Flags().StringVar(&inputFile, "input", "", "")
	c.Flags().StringVar(&inputFile, "i", "", "")
	c.Flags().StringVar(&outputFile, "output", "", "")
	c.Flags().StringVar(&outputFile, "o", "", "")
	c.Flags().StringVar(&datesFile, "dates", "", "")
	c.Flags().StringVar(&datesFile, "d", "", "")
}

func run(c *command.Command, args []string) error {
	if scale <= 0 {
		return c.UsageError(fmt.Sprintf("invalid scale value: %.6f", scale))
	}
	if stepX <= 0 {
		return c.UsageError(fmt.Sprintf("invalid step value: %.6f", stepX))
	}
	if datesFile != "" && iofile.IsStd(datesFile) && iofile.IsStd(inputFile) {
		return c.UsageError("tree and sample dates can not be both read from the standard input")
	}
	tv, err := parseTick(tickFlag)
	if err != nil {
		return err
	}

	t, err := iofile.ReadTree(inputFile, c.Stdin())
	if err != nil {
		return err
	}
	s, err := copyTree(t, stepX, scale, tv)
	if err != nil {
		return fmt.Errorf("on tree %q: %w", t.Name(), err)
	}

	if datesFile != "" {
		st, err := iofile.ReadDates(datesFile, c.Stdin())
		if err != nil {
			return err
		}
		s.setDates(st)
	}

	return writeSVG(c.Stdout(), s)
}

func writeSVG(stdout io.Writer, s svgTree) (err error) {
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

	bw := bufio.NewWriter(w)
	if err := s.draw(bw); err != nil {
		return fmt.Errorf("while writing SVG: %v", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing SVG: %v", err)
	}
	return nil
}

type tickValues struct {
	min   int
	max   int
	label int
}

func parseTick(tick string) (tickValues, error) {
	if tick == "" {
		return tickValues{
			min:   1,
			max:   5,
			label: 5,
		}, nil
	}

	vals := strings.Split(tick, ",")
	if len(vals) != 3 {
		return tickValues{}, fmt.Errorf("invalid tick values: %q", tick)
	}

	min, err := strconv.Atoi(strings.TrimSpace(vals[0]))
	if err != nil {
		return tickValues{}, fmt.Errorf("invalid minor tick value: %q: %v", tick, err)
	}
	if min < 0 {
		return tickValues{}, fmt.Errorf("invalid minor tick value: %q", tick)
	}

	max, err := strconv.Atoi(strings.TrimSpace(vals[1]))
	if err != nil {
		return tickValues{}, fmt.Errorf("invalid major tick value: %q: %v", tick, err)
	}

	label, err := strconv.Atoi(strings.TrimSpace(vals[2]))
	if err != nil {
		return tickValues{}, fmt.Errorf("invalid label tick value: %q: %v", tick, err)
	}

	return tickValues{
		min:   min,
		max:   max,
		label: label,
	}, nil
}
