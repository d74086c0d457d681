// Package solver provides scalar root finding for curve bootstrapping.
package solver

import (
	"errors"
	"fmt"
	"math"
)

// ErrRootNotBracketed is returned when no sign change is found on the interval or its single expansion.
var ErrRootNotBracketed = errors.New("root not bracketed")

// Options controls BracketedSecant.
type Options struct {
	// MaxIterations caps the number of regula-falsi/bisection rounds.
	MaxIterations int
	// Tolerance applies to both the residual and the bracket width.
	Tolerance float64
}

// DefaultOptions matches the bootstrap defaults.
var DefaultOptions = Options{
	MaxIterations: 100,
	Tolerance:     1e-12,
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultOptions.MaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultOptions.Tolerance
	}
	return o
}

// BracketedSecant solves f(x) = target on [a, b] with a regula-falsi step safeguarded by bisection.
//
// If f - target does not change sign on [a, b], the interval is widened once by its own
// width on the left, then on the right. Each round evaluates a regula-falsi point and the
// midpoint of the tightened bracket and keeps whichever has the smaller residual. The
// search stops when the residual or the bracket width drops below opts.Tolerance, or after
// opts.MaxIterations rounds; the best point seen is returned without a convergence error.
func BracketedSecant(f func(float64) float64, a, b, target float64, opts Options) (float64, error) {
	opts = opts.withDefaults()
	g := func(x float64) float64 { return f(x) - target }

	fa, fb := g(a), g(b)
	if !(fa*fb <= 0) {
		width := b - a
		da, db := a-width, b+width
		if fda := g(da); fda*fb <= 0 {
			a, fa = da, fda
		} else if fdb := g(db); fa*fdb <= 0 {
			b, fb = db, fdb
		} else {
			return 0, fmt.Errorf("%w: no sign change on [%g, %g] (residuals %g, %g)", ErrRootNotBracketed, da, db, fda, fdb)
		}
	}

	xL, fL, xR, fR := a, fa, b, fb
	best, fBest := xL, fL
	if math.Abs(fR) < math.Abs(fBest) {
		best, fBest = xR, fR
	}
	keep := func(x, fx float64) {
		if math.Abs(fx) < math.Abs(fBest) {
			best, fBest = x, fx
		}
	}
	// shrink replaces the bracket end that x lies beyond, keeping the sign change.
	shrink := func(x, fx float64) {
		if fL*fx <= 0 {
			xR, fR = x, fx
		} else {
			xL, fL = x, fx
		}
	}

	x := 0.5 * (xL + xR)
	fx := g(x)
	keep(x, fx)

	for i := 0; i < opts.MaxIterations; i++ {
		if math.Abs(fx) < opts.Tolerance || math.Abs(xR-xL) < opts.Tolerance {
			break
		}

		xRF := xR - fR*(xR-xL)/(fR-fL)
		if math.IsNaN(xRF) || math.IsInf(xRF, 0) {
			xRF = 0.5 * (xL + xR)
		}
		fRF := g(xRF)
		shrink(xRF, fRF)
		keep(xRF, fRF)

		xBI := 0.5 * (xL + xR)
		fBI := g(xBI)
		shrink(xBI, fBI)
		keep(xBI, fBI)

		if math.Abs(fRF) < math.Abs(fBI) {
			x, fx = xRF, fRF
		} else {
			x, fx = xBI, fBI
		}
	}
	return best, nil
}
