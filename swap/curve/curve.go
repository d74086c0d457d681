package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrCurveConstruction is returned when knots and nodes do not describe a valid curve.
var ErrCurveConstruction = errors.New("curve construction")

// firstKnotTolerance is how far the first knot may sit from zero.
const firstKnotTolerance = 1e-14

// Factor is a read-only view of a discount or projection curve.
type Factor interface {
	// Value returns the discount (or pseudo-discount) factor at t.
	Value(t float64) float64
	// DValueDNode returns dValue(t)/dNode_j for each node with non-zero interpolation weight.
	DValueDNode(t float64) Sensitivity
}

// Curve is a piecewise log-linear factor curve.
//
// Each knot carries a node (a continuously compounded zero rate); the cumulative
// log factor z_i = node_i * knot_i is interpolated linearly in time and the factor
// is exp(-z(t)). Beyond the knot range z is held flat.
type Curve struct {
	knots []float64
	nodes []float64
	zeros []float64
}

// New builds a curve from knots (years, first knot 0, strictly increasing) and one node per knot.
// Both slices are copied.
func New(knots, nodes []float64) (*Curve, error) {
	if len(knots) == 0 {
		return nil, fmt.Errorf("%w: no knots", ErrCurveConstruction)
	}
	if math.Abs(knots[0]) > firstKnotTolerance {
		return nil, fmt.Errorf("%w: first knot must be 0, got %g", ErrCurveConstruction, knots[0])
	}
	if len(nodes) != len(knots) {
		return nil, fmt.Errorf("%w: %d nodes for %d knots", ErrCurveConstruction, len(nodes), len(knots))
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] <= knots[i-1] {
			return nil, fmt.Errorf("%w: knot %d (%g) does not follow %g", ErrCurveConstruction, i, knots[i], knots[i-1])
		}
	}

	c := &Curve{
		knots: append([]float64(nil), knots...),
		nodes: append([]float64(nil), nodes...),
		zeros: make([]float64, len(knots)),
	}
	for i := range c.nodes {
		c.zeros[i] = c.nodes[i] * c.knots[i]
	}
	return c, nil
}

// Value returns exp(-z(t)).
func (c *Curve) Value(t float64) float64 {
	return math.Exp(-lininterp(c.knots, c.zeros, t))
}

// BasisWeights returns the hat-function weights of the knots bracketing t.
// One entry at or beyond the boundary knots, two inside; weights sum to 1.
func (c *Curve) BasisWeights(t float64) Sensitivity {
	return basisWeights(c.knots, t)
}

// DValueDZero returns dValue(t)/dz_j = -Value(t) * w_j.
func (c *Curve) DValueDZero(t float64) Sensitivity {
	v := c.Value(t)
	w := basisWeights(c.knots, t)
	for j := range w {
		w[j] *= -v
	}
	return w
}

// DValueDNode returns dValue(t)/dNode_j = -Value(t) * w_j * knot_j.
func (c *Curve) DValueDNode(t float64) Sensitivity {
	v := c.Value(t)
	w := basisWeights(c.knots, t)
	for j := range w {
		w[j] *= -v * c.knots[j]
	}
	return w
}

// ZeroRate returns the continuously compounded zero rate at t, or the first node at t <= 0.
func (c *Curve) ZeroRate(t float64) float64 {
	if t <= 0 {
		return c.nodes[0]
	}
	return lininterp(c.knots, c.zeros, t) / t
}

// Len returns the number of knots.
func (c *Curve) Len() int {
	return len(c.knots)
}

// Maturity returns the last knot.
func (c *Curve) Maturity() float64 {
	return c.knots[len(c.knots)-1]
}

// Knots returns a copy of the knot times.
func (c *Curve) Knots() []float64 {
	return append([]float64(nil), c.knots...)
}

// Nodes returns a copy of the node values.
func (c *Curve) Nodes() []float64 {
	return append([]float64(nil), c.nodes...)
}

func lininterp(x, y []float64, xq float64) float64 {
	last := len(x) - 1
	if xq <= x[0] {
		return y[0]
	}
	if xq >= x[last] {
		return y[last]
	}
	j := upperBound(x, xq)
	i := j - 1
	w := (xq - x[i]) / (x[j] - x[i])
	return y[i]*(1.0-w) + y[j]*w
}

func basisWeights(x []float64, xq float64) Sensitivity {
	last := len(x) - 1
	if xq <= x[0] {
		return Sensitivity{0: 1.0}
	}
	if xq >= x[last] {
		return Sensitivity{last: 1.0}
	}
	j := upperBound(x, xq)
	i := j - 1
	alpha := (xq - x[i]) / (x[j] - x[i])
	return Sensitivity{i: 1.0 - alpha, j: alpha}
}

// upperBound returns the first index whose knot is strictly greater than xq.
func upperBound(x []float64, xq float64) int {
	return sort.Search(len(x), func(i int) bool {
		return x[i] > xq
	})
}
