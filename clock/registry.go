// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"slices"
	"strings"

	"github.com/js-arias/treedate/mutree"
	"github.com/js-arias/treedate/sampledate"
)

// Options are the settings used to build an estimator.
type Options struct {
	// Missing is the policy for undated terminals.
	Missing Policy

	// Trim is the outlier threshold
	// used by estimators that remove outliers.
	Trim float64
}

// A Builder returns a new estimator
// with the given options.
type Builder func(Options) Estimator

var registry = map[string]Builder{}

func init() {
	Register("strict", func(o Options) Estimator {
		return Strict{Missing: o.Missing}
	})
	Register("robust", func(o Options) Estimator {
		return Robust{Missing: o.Missing, Trim: o.Trim}
	})
}

// Register adds a new dating mode.
// Mode names are case insensitive.
// It panics if the name is empty
// or already registered.
func Register(mode string, b Builder) {
	mode = canonMode(mode)
	if mode == "" {
		panic("clock: empty dating mode name")
	}
	if _, dup := registry[mode]; dup {
		panic("clock: dating mode " + mode + " already registered")
	}
	registry[mode] = b
}

// Modes returns the names of the registered dating modes.
func Modes() []string {
	ms := make([]string, 0, len(registry))
	for m := range registry {
		ms = append(ms, m)
	}
	slices.Sort(ms)
	return ms
}

// New returns the estimator of a dating mode
// built with the given options.
func New(mode string, o Options) (Estimator, error) {
	b, ok := registry[canonMode(mode)]
	if !ok {
		return nil, &UnknownModeError{
			Mode:  mode,
			Valid: Modes(),
		}
	}
	return b(o), nil
}

// Lookup returns the estimator of a dating mode
// with the default options.
func Lookup(mode string) (Estimator, error) {
	return New(mode, Options{})
}

// Date rescales the branch lengths of a tree
// using the estimator of the indicated dating mode
// with the default options.
func Date(mode string, t *mutree.Tree, st *sampledate.Table) (*mutree.Tree, error) {
	e, err := Lookup(mode)
	if err != nil {
		return nil, err
	}
	return e.Estimate(t, st)
}

func canonMode(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}
