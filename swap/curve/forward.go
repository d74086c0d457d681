package curve

// minAccrual replaces a zero accrual so degenerate periods do not divide by zero.
const minAccrual = 1e-18

func safeAccrual(a float64) float64 {
	if a == 0 {
		return minAccrual
	}
	return a
}

// ForwardRate is the simple forward rate implied by c over [t0, t1]: (P(t0)/P(t1) - 1) / accrual.
func ForwardRate(c Factor, t0, t1, accrual float64) float64 {
	p0, p1 := c.Value(t0), c.Value(t1)
	return (p0/p1 - 1.0) / safeAccrual(accrual)
}

// DForwardDNode returns the node sensitivities of ForwardRate.
func DForwardDNode(c Factor, t0, t1, accrual float64) Sensitivity {
	acc := safeAccrual(accrual)
	p0, p1 := c.Value(t0), c.Value(t1)

	out := Sensitivity{}
	out.AddScaled(c.DValueDNode(t0), 1.0/(p1*acc))
	out.AddScaled(c.DValueDNode(t1), -p0/(p1*p1*acc))
	return out
}
