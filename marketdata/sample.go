package marketdata

// SampleFile is the built-in demo market: an OIS discount curve, a 3M projection
// curve from IRS, and a 6M projection curve from 6M-vs-3M basis swaps and IRS.
func SampleFile() File {
	return File{
		CurveDate: "2025-11-21",
		Conventions: Conventions{
			Fixed:   Convention{Frequency: 1, DayCount: "ACT/365F"},
			Float3M: Convention{Frequency: 4, DayCount: "ACT/360"},
			Float6M: Convention{Frequency: 2, DayCount: "ACT/360"},
		},
		Discount: CurveQuotes{
			Knots: []float64{0, 0.25, 0.5, 1, 2, 3, 5, 7, 10},
			OIS: []Quote{
				{"3M", 2.60}, {"6M", 2.65}, {"1Y", 2.70}, {"2Y", 2.85},
				{"3Y", 2.95}, {"5Y", 3.10}, {"7Y", 3.15}, {"10Y", 3.20},
			},
		},
		Forward3M: CurveQuotes{
			Knots: []float64{0, 0.5, 1, 2, 3, 5, 7, 10},
			IRS: []Quote{
				{"6M", 2.30}, {"1Y", 3.35}, {"2Y", 3.40}, {"3Y", 3.62},
				{"5Y", 3.75}, {"7Y", 4.07}, {"10Y", 5.00},
			},
		},
		Forward6M: CurveQuotes{
			Knots: []float64{0, 2, 3, 5, 7, 10},
			IRS:   []Quote{{"2Y", 3.48}, {"5Y", 3.51}, {"10Y", 3.56}},
		},
		Basis: []SpreadQuote{
			{"2Y", 8}, {"3Y", 9}, {"5Y", 10}, {"7Y", 11}, {"10Y", 12},
		},
	}
}

// Sample returns the demo market with instruments built. It panics if SampleFile is malformed.
func Sample() Market {
	m, err := SampleFile().Market()
	if err != nil {
		panic(err)
	}
	return m
}
