package calibration

// Residual row labels, in row order.
const (
	LabelOIS   = "OIS"
	LabelIRS3M = "IRS3M"
	LabelIRS6M = "IRS6M"
	LabelBasis = "BASIS63"
)

// Residuals are model-minus-quote values with a label and maturity per row.
//
// Rows are ordered OIS, IRS3M, IRS6M, then basis swaps. Par-rate rows are in rate
// units; basis rows are PV differences per unit notional.
type Residuals struct {
	R          []float64
	Labels     []string
	Maturities []float64
}

func (r *Residuals) add(v float64, label string, maturity float64) {
	r.R = append(r.R, v)
	r.Labels = append(r.Labels, label)
	r.Maturities = append(r.Maturities, maturity)
}

// Len is the number of rows.
func (r Residuals) Len() int { return len(r.R) }

// SquaredNorm is Σ r_i².
func (r Residuals) SquaredNorm() float64 {
	s := 0.0
	for _, v := range r.R {
		s += v * v
	}
	return s
}

// ComputeResiduals reprices every instrument in m on mc.
func ComputeResiduals(m MarketData, mc ModelCurves) Residuals {
	n := m.Len()
	res := Residuals{
		R:          make([]float64, 0, n),
		Labels:     make([]string, 0, n),
		Maturities: make([]float64, 0, n),
	}
	for _, q := range m.OIS {
		res.add(q.ParRate(mc.Discount)-q.QuoteRate, LabelOIS, q.Fixed.Maturity())
	}
	for _, q := range m.IRS3M {
		res.add(q.ParRate(mc.Discount, mc.F3M)-q.QuoteRate, LabelIRS3M, q.Maturity())
	}
	for _, q := range m.IRS6M {
		res.add(q.ParRate(mc.Discount, mc.F6M)-q.QuoteRate, LabelIRS6M, q.Maturity())
	}
	for _, b := range m.Basis63 {
		res.add(b.PVDiff(mc.Discount, mc.F6M, mc.F3M), LabelBasis, b.Maturity())
	}
	return res
}
