// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"github.com/js-arias/treedate/mutree"
	"github.com/js-arias/treedate/sampledate"
)

// Strict is a strict molecular clock,
// i.e., a single substitution rate
// for the whole tree.
//
// The rate is the slope of the regression
// of the root-to-tip distance
// against the sampling time
// of the dated terminals.
type Strict struct {
	// Missing is the policy for undated terminals.
	Missing Policy
}

// Estimate divides each branch length by the strict clock rate.
func (s Strict) Estimate(t *mutree.Tree, st *sampledate.Table) (*mutree.Tree, error) {
	f, err := s.Fit(t, st)
	if err != nil {
		return nil, err
	}
	return f.Rescale(t), nil
}

// Fit returns the regression of the strict clock.
func (s Strict) Fit(t *mutree.Tree, st *sampledate.Table) (Fit, error) {
	return Regress(t, st, s.Missing)
}

func (s Strict) String() string {
	return "strict"
}
