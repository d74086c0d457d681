package swap

import (
	"github.com/meenmo/mcurve/swap/curve"
	"github.com/meenmo/mcurve/swap/market"
)

// dAnnuity is the node gradient of annuity(d, s).
func dAnnuity(d curve.Factor, s market.Schedule) curve.Sensitivity {
	out := curve.Sensitivity{}
	for j, t := range s.Times {
		out.AddScaled(d.DValueDNode(t), s.Accruals[j])
	}
	return out
}

// dFloatLegPVDDiscount holds forwards fixed and differentiates the discount factors.
func dFloatLegPVDDiscount(d, f curve.Factor, s market.Schedule, spread float64) curve.Sensitivity {
	out := curve.Sensitivity{}
	prev := 0.0
	for i, t := range s.Times {
		a := s.Accruals[i]
		out.AddScaled(d.DValueDNode(t), a*(curve.ForwardRate(f, prev, t, a)+spread))
		prev = t
	}
	return out
}

// dFloatLegPVDForward holds discount factors fixed and differentiates the forwards.
func dFloatLegPVDForward(d, f curve.Factor, s market.Schedule) curve.Sensitivity {
	out := curve.Sensitivity{}
	prev := 0.0
	for i, t := range s.Times {
		a := s.Accruals[i]
		out.AddScaled(curve.DForwardDNode(f, prev, t, a), a*d.Value(t))
		prev = t
	}
	return out
}

// quotient applies d(num/den) = (dNum*den - num*dDen) / den^2 over the union of indices.
func quotient(num, den float64, dNum, dDen curve.Sensitivity) curve.Sensitivity {
	out := curve.Sensitivity{}
	out.AddScaled(dNum, 1.0/den)
	out.AddScaled(dDen, -num/(den*den))
	return out
}

// DParRateDDiscount returns dParRate/dNode for the discount curve nodes.
func (s OISSwap) DParRateDDiscount(d curve.Factor) curve.Sensitivity {
	tn := s.Fixed.Maturity()
	num := 1.0 - d.Value(tn)
	dNum := curve.Sensitivity{}
	dNum.AddScaled(d.DValueDNode(tn), -1.0)
	return quotient(num, annuity(d, s.Fixed), dNum, dAnnuity(d, s.Fixed))
}

// DParRateDDiscount returns dParRate/dNode for the discount curve, holding forwards fixed.
func (s IRSSwap) DParRateDDiscount(d, f curve.Factor) curve.Sensitivity {
	pvFloat := floatLegPV(d, f, s.Float, 0)
	return quotient(pvFloat, annuity(d, s.Fixed), dFloatLegPVDDiscount(d, f, s.Float, 0), dAnnuity(d, s.Fixed))
}

// DParRateDForward returns dParRate/dNode for the projection curve f.
func (s IRSSwap) DParRateDForward(d, f curve.Factor) curve.Sensitivity {
	out := curve.Sensitivity{}
	out.AddScaled(dFloatLegPVDForward(d, f, s.Float), 1.0/annuity(d, s.Fixed))
	return out
}

// DPVDiffDDiscount returns dPVDiff/dNode for the discount curve, holding both forward curves fixed.
func (s BasisSwap) DPVDiffDDiscount(d, f1, f2 curve.Factor) curve.Sensitivity {
	out := dFloatLegPVDDiscount(d, f1, s.Leg1, s.QuoteSpread)
	out.AddScaled(dFloatLegPVDDiscount(d, f2, s.Leg2, 0), -1.0)
	return out
}

// DPVDiffDForward returns dPVDiff/dNode for the forward curve of the selected leg.
// LegSpread differentiates f1 (positive sign); LegPlain differentiates f2 (negative sign).
func (s BasisSwap) DPVDiffDForward(d, f1, f2 curve.Factor, which BasisLeg) curve.Sensitivity {
	if which == LegSpread {
		return dFloatLegPVDForward(d, f1, s.Leg1)
	}
	out := curve.Sensitivity{}
	out.AddScaled(dFloatLegPVDForward(d, f2, s.Leg2), -1.0)
	return out
}
