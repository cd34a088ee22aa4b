// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// TreeDate is a tool to date phylogenetic trees
// using a strict molecular clock.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/treedate/cmd/treedate/date"
	"github.com/js-arias/treedate/cmd/treedate/draw"
	"github.com/js-arias/treedate/cmd/treedate/param"
	"github.com/js-arias/treedate/cmd/treedate/rtt"
)

var app = &command.Command{
	Usage: "treedate <command> [<argument>...]",
	Short: "a tool to date phylogenetic trees with a molecular clock",
}

func init() {
	app.Add(date.Command)
	app.Add(draw.Command)
	app.Add(param.Command)
	app.Add(rtt.Command)
}

func main() {
	app.Main()
}
