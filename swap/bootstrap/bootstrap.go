// Package bootstrap builds curves one knot at a time so that each new node reprices one instrument.
package bootstrap

import (
	"errors"
	"fmt"
	"math"

	"github.com/meenmo/mcurve/swap"
	"github.com/meenmo/mcurve/swap/curve"
	"github.com/meenmo/mcurve/swap/solver"
)

// ErrNoMatchingInstrument is returned when a knot has no candidate instrument to solve against.
var ErrNoMatchingInstrument = errors.New("no matching instrument")

// Bracket is the initial root-finding interval for a node.
type Bracket struct {
	Lower float64
	Upper float64
}

// Options holds solver settings and per-curve node brackets.
type Options struct {
	Root            solver.Options
	DiscountBracket Bracket
	ForwardBracket  Bracket
	BasisBracket    Bracket
}

// DefaultOptions are the brackets used for OIS discounting and IBOR projection curves.
var DefaultOptions = Options{
	Root:            solver.DefaultOptions,
	DiscountBracket: Bracket{Lower: -0.05, Upper: 1.0},
	ForwardBracket:  Bracket{Lower: -0.1, Upper: 0.5},
	BasisBracket:    Bracket{Lower: -10.0, Upper: 0.5},
}

// Discount bootstraps a discount curve from OIS quotes.
//
// For each knot k >= 1 the OIS whose maturity is nearest the knot (ties go to the later
// maturity) is repriced exactly by solving node k on a curve truncated at that knot.
func Discount(ois []swap.OISSwap, knots []float64, opts Options) (*curve.Curve, error) {
	rates := make([]float64, len(knots))
	if _, err := curve.New(knots, rates); err != nil {
		return nil, err
	}

	for k := 1; k < len(knots); k++ {
		inst := nearestOIS(ois, knots[k])
		if inst == nil {
			return nil, fmt.Errorf("discount knot %d (t=%g): %w: no OIS quotes", k, knots[k], ErrNoMatchingInstrument)
		}

		b, err := curve.NewBuilder(knots[:k+1], rates[:k+1])
		if err != nil {
			return nil, err
		}
		f := func(x float64) float64 {
			b.SetLastNode(x)
			return inst.ParRate(b)
		}
		x, err := solver.BracketedSecant(f, opts.DiscountBracket.Lower, opts.DiscountBracket.Upper, inst.QuoteRate, opts.Root)
		if err != nil {
			return nil, fmt.Errorf("discount knot %d (t=%g, OIS %gY): %w", k, knots[k], inst.Fixed.Maturity(), err)
		}
		rates[k] = x
	}
	return curve.New(knots, rates)
}

// ForwardFromIRS bootstraps a projection curve from IRS quotes discounted on d.
//
// Each knot is solved against the IRS with the nearest floating-leg maturity at or after
// the knot, or the globally nearest one when none qualifies.
func ForwardFromIRS(d curve.Factor, irs []swap.IRSSwap, knots []float64, opts Options) (*curve.Curve, error) {
	if d == nil {
		return nil, swap.ErrNilCurve
	}
	maturities := make([]float64, len(irs))
	for i, q := range irs {
		maturities[i] = q.Maturity()
	}

	return solveKnots(knots, func(k int, b *curve.Builder) (float64, error) {
		i := nearestPreferAfter(maturities, knots[k])
		if i < 0 {
			return 0, fmt.Errorf("%w: no IRS quotes", ErrNoMatchingInstrument)
		}
		inst := irs[i]
		f := func(x float64) float64 {
			b.SetLastNode(x)
			return inst.ParRate(d, b)
		}
		return solver.BracketedSecant(f, opts.ForwardBracket.Lower, opts.ForwardBracket.Upper, inst.QuoteRate, opts.Root)
	})
}

// ForwardFromBasisAndIRS bootstraps a projection curve from basis swaps against anchor and from IRS quotes.
//
// At each knot the nearest basis swap and the nearest IRS (both preferring maturities at or
// after the knot) compete; a qualifying maturity beats a non-qualifying one, then the closer
// maturity wins, and the basis swap wins exact ties. Basis swaps are solved to a zero PV
// difference with the new curve on the leg paying less often; IRS are solved to their quote.
func ForwardFromBasisAndIRS(d, anchor curve.Factor, irs []swap.IRSSwap, basis []swap.BasisSwap, knots []float64, opts Options) (*curve.Curve, error) {
	if d == nil || anchor == nil {
		return nil, swap.ErrNilCurve
	}
	irsMat := make([]float64, len(irs))
	for i, q := range irs {
		irsMat[i] = q.Maturity()
	}
	basisMat := make([]float64, len(basis))
	for i, q := range basis {
		basisMat[i] = q.Maturity()
	}

	return solveKnots(knots, func(k int, b *curve.Builder) (float64, error) {
		t := knots[k]
		bi := nearestPreferAfter(basisMat, t)
		ii := nearestPreferAfter(irsMat, t)
		if bi < 0 && ii < 0 {
			return 0, fmt.Errorf("%w: no basis or IRS quotes", ErrNoMatchingInstrument)
		}

		useBasis := bi >= 0 && (ii < 0 || !closer(irsMat[ii], basisMat[bi], t))
		var (
			f      func(float64) float64
			target float64
		)
		if useBasis {
			inst := basis[bi]
			onLeg1 := inst.Leg1.Len() <= inst.Leg2.Len()
			f = func(x float64) float64 {
				b.SetLastNode(x)
				if onLeg1 {
					return inst.PVDiff(d, b, anchor)
				}
				return inst.PVDiff(d, anchor, b)
			}
		} else {
			inst := irs[ii]
			target = inst.QuoteRate
			f = func(x float64) float64 {
				b.SetLastNode(x)
				return inst.ParRate(d, b)
			}
		}
		return solver.BracketedSecant(f, opts.BasisBracket.Lower, opts.BasisBracket.Upper, target, opts.Root)
	})
}

// solveKnots runs solve for knots 1..n-1 on a builder truncated at each knot.
func solveKnots(knots []float64, solve func(k int, b *curve.Builder) (float64, error)) (*curve.Curve, error) {
	nodes := make([]float64, len(knots))
	if _, err := curve.New(knots, nodes); err != nil {
		return nil, err
	}
	for k := 1; k < len(knots); k++ {
		b, err := curve.NewBuilder(knots[:k+1], nodes[:k+1])
		if err != nil {
			return nil, err
		}
		x, err := solve(k, b)
		if err != nil {
			return nil, fmt.Errorf("forward knot %d (t=%g): %w", k, knots[k], err)
		}
		nodes[k] = x
	}
	return curve.New(knots, nodes)
}

// nearestOIS returns the OIS whose fixed-leg maturity is nearest t, preferring maturities >= t on ties.
func nearestOIS(ois []swap.OISSwap, t float64) *swap.OISSwap {
	var inst *swap.OISSwap
	best := math.Inf(1)
	for i := range ois {
		m := ois[i].Fixed.Maturity()
		d := math.Abs(m - t)
		if m >= t {
			d -= 1e-12
		}
		if d < best {
			best = d
			inst = &ois[i]
		}
	}
	return inst
}

// nearestPreferAfter returns the index of the nearest maturity >= t, or of the globally
// nearest maturity when none is >= t, or -1 for an empty slice.
func nearestPreferAfter(maturities []float64, t float64) int {
	idx := -1
	best := math.Inf(1)
	for i, m := range maturities {
		if d := math.Abs(m - t); m >= t && d < best {
			idx, best = i, d
		}
	}
	if idx >= 0 {
		return idx
	}
	for i, m := range maturities {
		if d := math.Abs(m - t); d < best {
			idx, best = i, d
		}
	}
	return idx
}

// closer reports whether maturity a is a strictly better match for knot t than b.
func closer(a, b, t float64) bool {
	aAfter, bAfter := a >= t, b >= t
	if aAfter != bAfter {
		return aAfter
	}
	return math.Abs(a-t) < math.Abs(b-t)
}
