// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package clock implements molecular clock estimators
// that transform a tree with branch lengths in substitutions
// into a tree with branch lengths in time units,
// using the sampling times of its terminals.
//
// Each clock model is an Estimator,
// and estimators are selected by name
// (the dating mode)
// from a registry.
package clock

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/js-arias/treedate/mutree"
	"github.com/js-arias/treedate/sampledate"
)

// An Estimator is a molecular clock model
// that rescales the branch lengths of a tree
// from substitutions into time units.
type Estimator interface {
	// Estimate rescales the branch lengths of the tree
	// using the sampling times of its terminals.
	// The tree is modified in place,
	// and it is returned on success.
	// On error, the tree is not modified.
	Estimate(t *mutree.Tree, st *sampledate.Table) (*mutree.Tree, error)

	// String returns the name of the estimator.
	String() string
}

// A Fitter is an estimator
// that fits a regression of root-to-tip distances
// against sampling times.
type Fitter interface {
	Estimator

	// Fit returns the regression used to rescale the tree,
	// without modifying the tree.
	Fit(t *mutree.Tree, st *sampledate.Table) (Fit, error)
}

// Policy is the way in which terminals
// without a sampling time are handled.
type Policy int

// Valid policies.
const (
	// Skip excludes undated terminals from the fit.
	Skip Policy = iota

	// Fail returns an error
	// if any terminal is undated.
	Fail
)

// ParsePolicy returns a policy from its name.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "skip":
		return Skip, nil
	case "error", "fail":
		return Fail, nil
	}
	return Skip, fmt.Errorf("unknown missing date policy %q", name)
}

func (p Policy) String() string {
	if p == Fail {
		return "error"
	}
	return "skip"
}

// Error kinds.
var (
	ErrDegenerateFit = errors.New("degenerate clock fit")
	ErrUndated       = errors.New("undated terminals")
	ErrUnknownMode   = errors.New("unknown dating mode")
)

// DegenerateFitError is the error returned
// when the regression can not be used
// to rescale a tree.
type DegenerateFitError struct {
	// Points is the number of usable points.
	Points int

	// Slope is the estimated rate
	// (NaN if it was not calculated).
	Slope float64

	Reason string
}

func (e *DegenerateFitError) Error() string {
	if math.IsNaN(e.Slope) {
		return fmt.Sprintf("%v: %s: %d usable points", ErrDegenerateFit, e.Reason, e.Points)
	}
	return fmt.Sprintf("%v: %s: %d usable points, slope %g", ErrDegenerateFit, e.Reason, e.Points, e.Slope)
}

func (e *DegenerateFitError) Unwrap() error {
	return ErrDegenerateFit
}

// UndatedError is the error returned
// when undated terminals are not allowed.
type UndatedError struct {
	Terms []string
}

func (e *UndatedError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUndated, strings.Join(e.Terms, ", "))
}

func (e *UndatedError) Unwrap() error {
	return ErrUndated
}

// UnknownModeError is the error returned
// when a dating mode is not registered.
type UnknownModeError struct {
	Mode  string
	Valid []string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("%v %q (valid options: %s)", ErrUnknownMode, e.Mode, strings.Join(e.Valid, ", "))
}

func (e *UnknownModeError) Unwrap() error {
	return ErrUnknownMode
}
