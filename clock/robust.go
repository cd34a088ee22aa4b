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

// DefaultTrim is the default number of scaled median absolute deviations
// used to identify outliers.
const DefaultTrim = 3.0

// Scale factor of the median absolute deviation
// to estimate the standard deviation of a normal distribution.
const madScale = 1.4826

// Robust is a strict molecular clock
// in which terminals with outlier root-to-tip distances
// are removed before estimating the rate.
//
// A terminal is an outlier
// if the deviation of its residual
// from the median residual
// is larger than Trim times the scaled median absolute deviation
// of the residuals.
type Robust struct {
	// Missing is the policy for undated terminals.
	Missing Policy

	// Trim is the number of scaled median absolute deviations
	// used to identify outliers.
	// If zero, DefaultTrim is used.
	Trim float64
}

// Estimate divides each branch length by the rate
// estimated without outliers.
func (r Robust) Estimate(t *mutree.Tree, st *sampledate.Table) (*mutree.Tree, error) {
	f, err := r.Fit(t, st)
	if err != nil {
		return nil, err
	}
	return f.Rescale(t), nil
}

// Fit returns the regression without outliers.
// Outlier terminals are added to the excluded terminals.
func (r Robust) Fit(t *mutree.Tree, st *sampledate.Table) (Fit, error) {
	f, err := Regress(t, st, r.Missing)
	if err != nil {
		return Fit{}, err
	}

	trim := r.Trim
	if trim <= 0 {
		trim = DefaultTrim
	}

	res := make([]float64, len(f.Points))
	for i, p := range f.Points {
		res[i] = f.Residual(p)
	}
	med := median(res)
	dev := make([]float64, len(res))
	for i, v := range res {
		dev[i] = math.Abs(v - med)
	}
	mad := median(dev)
	if mad <= noiseFloor(f.Points) {
		return f, nil
	}
	limit := trim * madScale * mad

	var keep []Point
	var outliers []string
	for i, p := range f.Points {
		if dev[i] > limit {
			outliers = append(outliers, p.Taxon)
			continue
		}
		keep = append(keep, p)
	}
	if len(outliers) == 0 {
		return f, nil
	}

	nf, err := fitPoints(keep)
	if err != nil {
		return Fit{}, err
	}
	nf.Excluded = append(slices.Clone(f.Excluded), outliers...)
	slices.Sort(nf.Excluded)
	return nf, nil
}

func (r Robust) String() string {
	return "robust"
}

// NoiseFloor returns the smallest deviation
// that is not taken as a rounding error.
func noiseFloor(pts []Point) float64 {
	var max float64
	for _, p := range pts {
		if d := math.Abs(p.Dist); d > max {
			max = d
		}
	}
	return 1e-9 * max
}

func median(v []float64) float64 {
	s := slices.Clone(v)
	slices.Sort(s)
	return stat.Quantile(0.5, stat.Empirical, s, nil)
}
