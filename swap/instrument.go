package swap

import (
	"fmt"
	"math"

	"github.com/meenmo/mcurve/swap/market"
)

// OISSwap is an overnight-indexed swap quoted as a fixed par rate.
type OISSwap struct {
	Fixed     market.Schedule
	Maturity  float64
	QuoteRate float64
}

// NewOISSwap lays out an OIS fixed leg to maturity.
func NewOISSwap(maturity, quoteRate float64, fixed market.LegConvention) OISSwap {
	return OISSwap{
		Fixed:     market.RegularSchedule(maturity, fixed),
		Maturity:  maturity,
		QuoteRate: quoteRate,
	}
}

// Validate checks the schedule invariants and that Maturity is the last fixed payment.
func (s OISSwap) Validate() error {
	if err := validateSchedules("OIS", s.Fixed); err != nil {
		return err
	}
	if m := s.Fixed.Maturity(); math.Abs(m-s.Maturity) > maturityTol {
		return fmt.Errorf("OIS maturity %g but fixed leg ends at %g: %w", s.Maturity, m, market.ErrInvalidSchedule)
	}
	return nil
}

// IRSSwap is a fixed-vs-IBOR swap quoted as a fixed par rate.
type IRSSwap struct {
	Fixed     market.Schedule
	Float     market.Schedule
	QuoteRate float64
}

// NewIRSSwap lays out both legs of a spot-starting IRS.
func NewIRSSwap(maturity, quoteRate float64, fixed, float market.LegConvention) IRSSwap {
	return IRSSwap{
		Fixed:     market.RegularSchedule(maturity, fixed),
		Float:     market.RegularSchedule(maturity, float),
		QuoteRate: quoteRate,
	}
}

// Maturity is the last floating payment time.
func (s IRSSwap) Maturity() float64 {
	return s.Float.Maturity()
}

// Validate checks the schedule invariants.
func (s IRSSwap) Validate() error {
	return validateSchedules("IRS", s.Fixed, s.Float)
}

// BasisSwap exchanges two floating legs; QuoteSpread is added to Leg1.
type BasisSwap struct {
	Leg1        market.Schedule
	Leg2        market.Schedule
	QuoteSpread float64
}

// NewBasisSwap lays out both floating legs of a spot-starting basis swap.
func NewBasisSwap(maturity, spread float64, leg1, leg2 market.LegConvention) BasisSwap {
	return BasisSwap{
		Leg1:        market.RegularSchedule(maturity, leg1),
		Leg2:        market.RegularSchedule(maturity, leg2),
		QuoteSpread: spread,
	}
}

// Maturity is the later of the two legs' final payments.
func (s BasisSwap) Maturity() float64 {
	return max(s.Leg1.Maturity(), s.Leg2.Maturity())
}

// Validate checks the schedule invariants.
func (s BasisSwap) Validate() error {
	return validateSchedules("basis", s.Leg1, s.Leg2)
}
