// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mutree

// RootToTip returns the distance from the root
// to each node of the tree,
// indexed by node ID.
//
// The distance of the root is 0,
// and the distance of any other node
// is the distance of its parent
// plus its own branch length.
// Undefined branch lengths are taken as 0.
// Negative lengths are used as they are.
func (t *Tree) RootToTip() (map[int]float64, error) {
	if len(t.nodes) == 0 {
		return nil, ErrNoRoot
	}

	rtt := make(map[int]float64, len(t.nodes))
	for _, id := range t.Nodes() {
		n := t.nodes[id]
		if n.parent < 0 {
			if id != 0 {
				return nil, ErrMultipleRoots
			}
			rtt[id] = 0
			continue
		}

		d := rtt[n.parent]
		if n.hasLen {
			d += n.length
		}
		rtt[id] = d
	}
	return rtt, nil
}

// Rescale divides every defined branch length
// by the given rate,
// for example,
// to transform lengths in substitutions
// into lengths in time units.
// Undefined lengths are kept undefined.
func (t *Tree) Rescale(rate float64) {
	for _, n := range t.nodes {
		if !n.hasLen {
			continue
		}
		n.length /= rate
	}
}
