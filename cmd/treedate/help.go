// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(datesGuide)
	app.Add(modesGuide)
	app.Add(treeFilesGuide)
}

var datesGuide = &command.Command{
	Usage: "dates",
	Short: "about sample date files",
	Long: `
A sample date file is a tab-delimited file that associates each terminal of a
tree with the date in which the sequence was sampled. The file has no header,
and each row has two fields:

	- the terminal name, as used in the tree file
	- the sampling date

Here is an example file:

	# sampling dates
	A/Wuhan/1/2019	2019-12-26
	B/Lima/2/2020	2020-03
	C/Roma/3/2020	2020

Dates are given in ISO format. A full date (year-month-day) is used as is. If
the day is missing, the first day of the month is used, and if the month is
also missing, the first day of the year is used.

Internally, dates are measured as the number of days since January 1st of the
year 1. Terminal names are compared after removing leading and trailing
spaces. Lines starting with '#' are ignored.

Terminals of the tree without a sampling date are skipped, or reported as an
error, depending on the missing-date policy (see 'treedate help date').
	`,
}

var modesGuide = &command.Command{
	Usage: "modes",
	Short: "about dating modes",
	Long: `
A dating mode is the molecular clock model used to transform a tree with
branch lengths in substitutions per site into a tree with branch lengths in
time units (days).

All modes estimate a single substitution rate from a root-to-tip regression:
the distance from the root to each dated terminal is regressed against the
sampling date of the terminal. The slope of the regression is the
substitution rate, and its intercept with the time axis is the date of the
root. Each branch length is then divided by the rate.

The valid modes are:

	strict	a strict molecular clock, in which all dated terminals are
		used in the regression.
	robust	a strict molecular clock, in which terminals with outlier
		root-to-tip distances are removed before estimating the
		rate. A terminal is an outlier if its residual deviates from
		the median residual by more than a given number (by default
		3) of scaled median absolute deviations.

Mode names are case insensitive.

If the regression is not possible (for example, if less than two terminals
are dated, or all terminals have the same date), or the estimated rate is not
positive, the tree is not dated and an error is reported.
	`,
}

var treeFilesGuide = &command.Command{
	Usage: "tree-files",
	Short: "about tree files",
	Long: `
TreeDate reads and writes trees in Newick format. A tree file must contain a
single rooted tree, finished with a semicolon. Here is an example tree:

	((A:0.002,B:0.004)n1:0.001,C:0.006);

Branch lengths are optional, a missing branch length is taken as zero in the
root-to-tip distances, and it is kept missing in the dated tree. Internal
nodes can be labeled (for example, with support values), but terminal names
must be unique. Names with spaces or reserved characters must be enclosed in
single quotes. Comments between square brackets are ignored.

If a file name ends in ".gz" it is read, or written, as a gzip compressed
file.
	`,
}
