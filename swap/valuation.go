package swap

import (
	"github.com/meenmo/mcurve/swap/curve"
	"github.com/meenmo/mcurve/swap/market"
)

// annuity is Σ accrual_j * D(t_j) over a schedule.
func annuity(d curve.Factor, s market.Schedule) float64 {
	pv01 := 0.0
	for j, t := range s.Times {
		pv01 += s.Accruals[j] * d.Value(t)
	}
	return pv01
}

// floatLegPV is Σ accrual_i * D(t_i) * (fwd(F, t_{i-1}, t_i) + spread).
func floatLegPV(d, f curve.Factor, s market.Schedule, spread float64) float64 {
	pv := 0.0
	prev := 0.0
	for i, t := range s.Times {
		a := s.Accruals[i]
		pv += a * d.Value(t) * (curve.ForwardRate(f, prev, t, a) + spread)
		prev = t
	}
	return pv
}

// ParRate is the fixed rate that prices the OIS at par on discount curve d.
func (s OISSwap) ParRate(d curve.Factor) float64 {
	return (1.0 - d.Value(s.Fixed.Maturity())) / annuity(d, s.Fixed)
}

// ParRate is the fixed rate equating the fixed leg to the floating leg projected on f and discounted on d.
func (s IRSSwap) ParRate(d, f curve.Factor) float64 {
	return floatLegPV(d, f, s.Float, 0) / annuity(d, s.Fixed)
}

// PVDiff is PV(leg 1 on f1 plus spread) minus PV(leg 2 on f2), both discounted on d, per unit notional.
func (s BasisSwap) PVDiff(d, f1, f2 curve.Factor) float64 {
	return floatLegPV(d, f1, s.Leg1, s.QuoteSpread) - floatLegPV(d, f2, s.Leg2, 0)
}
