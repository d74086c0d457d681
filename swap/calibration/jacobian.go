package calibration

import (
	"github.com/meenmo/mcurve/swap"
	"github.com/meenmo/mcurve/swap/curve"
	"gonum.org/v1/gonum/mat"
)

// DiscountJacobian returns dResidual/dNode for the discount curve, one row per residual.
//
// Projection curves are held fixed: the entries are the direct partials of each
// instrument, not derivatives through the forward bootstrap.
func DiscountJacobian(m MarketData, mc ModelCurves) (*mat.Dense, Residuals) {
	res := ComputeResiduals(m, mc)
	rows := make([]curve.Sensitivity, 0, res.Len())
	for _, q := range m.OIS {
		rows = append(rows, q.DParRateDDiscount(mc.Discount))
	}
	for _, q := range m.IRS3M {
		rows = append(rows, q.DParRateDDiscount(mc.Discount, mc.F3M))
	}
	for _, q := range m.IRS6M {
		rows = append(rows, q.DParRateDDiscount(mc.Discount, mc.F6M))
	}
	for _, b := range m.Basis63 {
		rows = append(rows, b.DPVDiffDDiscount(mc.Discount, mc.F6M, mc.F3M))
	}
	return denseRows(rows, mc.Discount.Len()), res
}

// ForwardJacobian returns dResidual/dNode for the tenor projection curve.
//
// OIS rows and IRS rows of the other tenor are zero. Basis rows enter with a plus sign
// for the 6M curve (leg 1) and a minus sign for the 3M curve (leg 2).
func ForwardJacobian(m MarketData, mc ModelCurves, tenor Tenor) (*mat.Dense, Residuals) {
	res := ComputeResiduals(m, mc)
	rows := make([]curve.Sensitivity, res.Len())
	row := len(m.OIS)

	for _, q := range m.IRS3M {
		if tenor == Tenor3M {
			rows[row] = q.DParRateDForward(mc.Discount, mc.F3M)
		}
		row++
	}
	for _, q := range m.IRS6M {
		if tenor == Tenor6M {
			rows[row] = q.DParRateDForward(mc.Discount, mc.F6M)
		}
		row++
	}
	leg := swap.LegPlain
	if tenor == Tenor6M {
		leg = swap.LegSpread
	}
	for _, b := range m.Basis63 {
		rows[row] = b.DPVDiffDForward(mc.Discount, mc.F6M, mc.F3M, leg)
		row++
	}
	return denseRows(rows, mc.Forward(tenor).Len()), res
}

// SecondDifference is the (n-2)×n discrete curvature operator with rows (1, -2, 1), or nil when n < 3.
func SecondDifference(n int) *mat.Dense {
	if n < 3 {
		return nil
	}
	l := mat.NewDense(n-2, n, nil)
	for i := 0; i < n-2; i++ {
		l.Set(i, i, 1)
		l.Set(i, i+1, -2)
		l.Set(i, i+2, 1)
	}
	return l
}

func denseRows(rows []curve.Sensitivity, n int) *mat.Dense {
	if len(rows) == 0 || n == 0 {
		return &mat.Dense{}
	}
	j := mat.NewDense(len(rows), n, nil)
	for i, s := range rows {
		for k, v := range s {
			if k >= 0 && k < n {
				j.Set(i, k, j.At(i, k)+v)
			}
		}
	}
	return j
}
