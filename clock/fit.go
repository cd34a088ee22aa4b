// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"math"
	"slices"

	"github.com/js-arias/treedate/mutree"
	"github.com/js-arias/treedate/sampledate"
	"gonum.org/v1/gonum/stat"
)

// A Point is a dated terminal
// used in a regression.
type Point struct {
	Taxon string

	// Time is the sampling time
	Time float64

	// Dist is the root-to-tip distance
	Dist float64
}

// Fit is a linear regression
// of root-to-tip distances against sampling times.
type Fit struct {
	// Rate is the slope of the regression,
	// in substitutions per time unit.
	Rate float64

	Intercept float64

	// R is the correlation coefficient
	// and R2 the coefficient of determination.
	R  float64
	R2 float64

	// Points used in the regression.
	Points []Point

	// Excluded are the terminals
	// not used in the regression.
	Excluded []string
}

// Predict returns the expected root-to-tip distance
// at a given time.
func (f Fit) Predict(time float64) float64 {
	return f.Rate*time + f.Intercept
}

// Residual returns the difference between the root-to-tip distance
// of a point and its expected distance.
func (f Fit) Residual(p Point) float64 {
	return p.Dist - f.Predict(p.Time)
}

// Root returns the estimated time of the root
// (i.e., the time at which the expected distance is 0).
func (f Fit) Root() float64 {
	return -f.Intercept / f.Rate
}

// Rescale divides each branch length of the tree
// by the rate of the fit.
// The tree is modified in place
// and returned.
func (f Fit) Rescale(t *mutree.Tree) *mutree.Tree {
	t.Rescale(f.Rate)
	return t
}

// Regress fits a linear regression
// of the root-to-tip distances
// against the sampling times
// of the terminals of a tree.
//
// Terminals without a sampling time
// are excluded or produce an error,
// depending on the policy.
// Identifiers in the table that are not terminals of the tree
// are ignored.
func Regress(t *mutree.Tree, st *sampledate.Table, missing Policy) (Fit, error) {
	rtt, err := t.RootToTip()
	if err != nil {
		return Fit{}, err
	}

	var pts []Point
	var undated []string
	for _, id := range t.Nodes() {
		if !t.IsTerm(id) {
			continue
		}
		tax := t.Taxon(id)
		v, ok := st.Time(tax)
		if !ok {
			undated = append(undated, tax)
			continue
		}
		pts = append(pts, Point{
			Taxon: tax,
			Time:  v,
			Dist:  rtt[id],
		})
	}
	slices.Sort(undated)
	if missing == Fail && len(undated) > 0 {
		return Fit{}, &UndatedError{Terms: undated}
	}

	f, err := fitPoints(pts)
	if err != nil {
		return Fit{}, err
	}
	f.Excluded = undated
	return f, nil
}

func fitPoints(pts []Point) (Fit, error) {
	if len(pts) < 2 {
		return Fit{}, &DegenerateFitError{
			Points: len(pts),
			Slope:  math.NaN(),
			Reason: "less than two dated terminals",
		}
	}

	x := make([]float64, len(pts))
	y := make([]float64, len(pts))
	distinct := false
	for i, p := range pts {
		x[i] = p.Time
		y[i] = p.Dist
		if x[i] != x[0] {
			distinct = true
		}
	}
	if !distinct {
		return Fit{}, &DegenerateFitError{
			Points: len(pts),
			Slope:  math.NaN(),
			Reason: "less than two distinct sampling times",
		}
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return Fit{}, &DegenerateFitError{
			Points: len(pts),
			Slope:  beta,
			Reason: "undefined rate",
		}
	}
	if beta <= 0 {
		return Fit{}, &DegenerateFitError{
			Points: len(pts),
			Slope:  beta,
			Reason: "non-positive rate",
		}
	}

	return Fit{
		Rate:      beta,
		Intercept: alpha,
		R:         stat.Correlation(x, y, nil),
		R2:        stat.RSquared(x, y, nil, alpha, beta),
		Points:    pts,
	}, nil
}
