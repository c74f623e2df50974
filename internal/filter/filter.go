// Package filter implements the lossy, variance-driven pruning pass that
// walks a built quadtree bottom-up and collapses subtrees whose scaled
// variance falls under a moving threshold.
package filter

import (
	"errors"

	"github.com/deepteams/quadtree/internal/tree"
)

// ErrInvalidAlpha is returned when alpha is not strictly positive.
var ErrInvalidAlpha = errors.New("filter: alpha must be positive")

// Apply prunes t in place using the threshold schedule seeded by
// t.MeanVariance/t.MaxVariance at the root and multiplied by alpha at each
// descent. alpha must be > 0. Applying Apply twice with the same alpha is
// idempotent: a node already marked uniform short-circuits at step 1 of
// the walk below.
func Apply(t *tree.Tree, alpha float64) error {
	if alpha <= 0 {
		return ErrInvalidAlpha
	}
	sigma := 0.0
	if t.MaxVariance != 0 {
		sigma = t.MeanVariance / t.MaxVariance
	}
	visit(t, 0, sigma, alpha)
	return nil
}

// visit returns 1 if the subtree rooted at idx ended up uniform, 0
// otherwise, mutating nodes in place per the algorithm in the filter spec.
func visit(t *tree.Tree, idx int, sigma, alpha float64) int {
	n := &t.Nodes[idx]
	if n.Uniform {
		return 1
	}

	childSigma := sigma * alpha
	s := 0
	for k := 1; k <= 4; k++ {
		s += visit(t, tree.Child(idx, k), childSigma, alpha)
	}

	if s == 4 && n.Variance <= sigma {
		n.Uniform = true
		n.Epsilon = 0
		return 1
	}
	return 0
}
