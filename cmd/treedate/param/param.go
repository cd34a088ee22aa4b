// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package param implements a command to manage
// the parameters used to date a tree.
package param

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/treedate/clock"
	"github.com/js-arias/treedate/dateparam"
)

var Command = &command.Command{
	Usage: `param [-m|--mode <mode>] [--missing <policy>] [--trim <value>]
	<param-file>`,
	Short: "manage dating parameters",
	Long: `
Command param manages a file with the parameters used to date a tree. The
file can be used with the flag --param of 'treedate date'.

The argument of the command is the name of the parameter file. If the file
does not exist, it will be created with the default parameters.

By default, the command will print the currently defined parameters.

The flag --mode, or -m, sets the dating mode. Valid modes are:

	%s

The default mode is "strict". See 'treedate help modes' for a description of
the modes.

The flag --missing sets the policy for terminals without a sampling date.
Valid values are "skip" (the default), in which undated terminals are ignored
in the estimation of the rate, and "error", in which undated terminals are
reported as an error.

The flag --trim sets the number of scaled median absolute deviations used to
identify outliers in the robust mode. The default value is 3.
	`,
	SetFlags: setFlags,
	Run:      run,
}

func init() {
	Command.Long = fmt.Sprintf(Command.Long, strings.Join(clock.Modes(), "\n\t"))
}

var modeFlag string
var missingFlag string
var trimFlag float64

func setFlags(c *command.Command) {
	c.Flags().StringVar(&modeFlag, "mode", "", "")
	c.Flags().StringVar(&modeFlag, "m", "", "")
	c.Flags().StringVar(&missingFlag, "missing", "", "")
	c.Flags().Float64Var(&trimFlag, "trim", 0, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting parameter file")
	}

	dp, err := dateparam.Read(args[0])
	if errors.Is(err, fs.ErrNotExist) {
		dp = dateparam.New(args[0])
		if _, err := edit(dp); err != nil {
			return err
		}
		return dp.Write()
	}
	if err != nil {
		return err
	}

	ed, err := edit(dp)
	if err != nil {
		return err
	}
	if ed {
		return dp.Write()
	}

	printParams(c.Stdout(), dp)
	return nil
}

func edit(dp *dateparam.DP) (bool, error) {
	ed := false
	if modeFlag != "" {
		if err := dp.SetMode(modeFlag); err != nil {
			return false, err
		}
		ed = true
	}
	if missingFlag != "" {
		if err := dp.SetMissing(missingFlag); err != nil {
			return false, err
		}
		ed = true
	}
	if trimFlag != 0 {
		if err := dp.SetTrim(trimFlag); err != nil {
			return false, err
		}
		ed = true
	}
	return ed, nil
}

func printParams(w io.Writer, dp *dateparam.DP) {
	fmt.Fprintf(w, "file:     %s\n", dp.Name())
	fmt.Fprintf(w, "mode:     %s\n", dp.Mode())
	fmt.Fprintf(w, "missing:  %s\n", dp.Missing())
	if dp.Mode() == "robust" {
		fmt.Fprintf(w, "trim:     %.6g\n", dp.Trim())
	}
}
