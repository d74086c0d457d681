// Package calibration jointly refits a discount curve against OIS, IRS and basis quotes.
//
// The 3M and 6M projection curves are not free parameters: BuildAll bootstraps them
// from the discount nodes on every evaluation, so each candidate node vector yields an
// independent, fully consistent set of curves.
package calibration

import (
	"errors"
	"fmt"

	"github.com/meenmo/mcurve/swap"
	"github.com/meenmo/mcurve/swap/bootstrap"
	"github.com/meenmo/mcurve/swap/curve"
)

// ErrInvalidMarket is returned when market data cannot drive a calibration.
var ErrInvalidMarket = errors.New("invalid market data")

// Tenor selects a projection curve.
type Tenor int

const (
	Tenor3M Tenor = iota + 1
	Tenor6M
)

func (t Tenor) String() string {
	switch t {
	case Tenor3M:
		return "3M"
	case Tenor6M:
		return "6M"
	default:
		return fmt.Sprintf("Tenor(%d)", int(t))
	}
}

// MarketData holds the knot schedules and instruments of one curve date.
//
// Basis63 swaps carry the 6M leg (plus spread) as leg 1 and the 3M leg as leg 2.
type MarketData struct {
	DiscKnots []float64
	OIS       []swap.OISSwap

	F3MKnots []float64
	IRS3M    []swap.IRSSwap

	F6MKnots []float64
	IRS6M    []swap.IRSSwap
	Basis63  []swap.BasisSwap
}

// Len is the number of residual rows.
func (m MarketData) Len() int {
	return len(m.OIS) + len(m.IRS3M) + len(m.IRS6M) + len(m.Basis63)
}

// Validate checks instrument schedules and that every curve has something to bootstrap from.
func (m MarketData) Validate() error {
	if len(m.OIS) == 0 {
		return fmt.Errorf("%w: no OIS quotes", ErrInvalidMarket)
	}
	if len(m.IRS3M) == 0 {
		return fmt.Errorf("%w: no 3M IRS quotes", ErrInvalidMarket)
	}
	if len(m.IRS6M) == 0 && len(m.Basis63) == 0 {
		return fmt.Errorf("%w: no 6M IRS or basis quotes", ErrInvalidMarket)
	}
	for i, q := range m.OIS {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%w: OIS %d: %w", ErrInvalidMarket, i, err)
		}
	}
	for i, q := range m.IRS3M {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%w: IRS3M %d: %w", ErrInvalidMarket, i, err)
		}
	}
	for i, q := range m.IRS6M {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%w: IRS6M %d: %w", ErrInvalidMarket, i, err)
		}
	}
	for i, q := range m.Basis63 {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%w: basis %d: %w", ErrInvalidMarket, i, err)
		}
	}
	return nil
}

// ModelCurves is one consistent set of curves derived from a discount node vector.
type ModelCurves struct {
	Discount *curve.Curve
	F3M      *curve.Curve
	F6M      *curve.Curve
}

// Forward returns the projection curve for tenor.
func (mc ModelCurves) Forward(tenor Tenor) *curve.Curve {
	if tenor == Tenor6M {
		return mc.F6M
	}
	return mc.F3M
}

// BuildAll builds the discount curve from theta and bootstraps both projection curves on it.
func BuildAll(m MarketData, theta []float64, opts bootstrap.Options) (ModelCurves, error) {
	d, err := curve.New(m.DiscKnots, theta)
	if err != nil {
		return ModelCurves{}, fmt.Errorf("discount curve: %w", err)
	}
	f3m, err := bootstrap.ForwardFromIRS(d, m.IRS3M, m.F3MKnots, opts)
	if err != nil {
		return ModelCurves{}, fmt.Errorf("3M forward curve: %w", err)
	}
	f6m, err := bootstrap.ForwardFromBasisAndIRS(d, f3m, m.IRS6M, m.Basis63, m.F6MKnots, opts)
	if err != nil {
		return ModelCurves{}, fmt.Errorf("6M forward curve: %w", err)
	}
	return ModelCurves{Discount: d, F3M: f3m, F6M: f6m}, nil
}

// InitialTheta bootstraps the discount curve from the OIS quotes and returns its nodes.
func InitialTheta(m MarketData, opts bootstrap.Options) ([]float64, error) {
	d, err := bootstrap.Discount(m.OIS, m.DiscKnots, opts)
	if err != nil {
		return nil, err
	}
	return d.Nodes(), nil
}
