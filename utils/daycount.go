package utils

import (
	"math"
	"time"
)

// Supported day count conventions.
const (
	Act360  = "ACT/360"
	Act365F = "ACT/365F"
	Dc30360 = "30/360"
	Dc30E   = "30E/360"
)

// YearFraction computes year fraction between two dates using the specified day count convention.
// Supported conventions: ACT/360, ACT/365F, 30E/360, 30/360
func YearFraction(start, end time.Time, convention string) float64 {
	switch convention {
	case Act360:
		return Days(start, end) / 360.0
	case Dc30E, Dc30360:
		// 30E/360: D1 and D2 are capped at 30
		d1 := min(start.Day(), 30)
		d2 := min(end.Day(), 30)
		y1, m1 := start.Year(), int(start.Month())
		y2, m2 := end.Year(), int(end.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
	default:
		return Days(start, end) / 365.0
	}
}

// YearFractionDays computes the accrual between two offsets measured in calendar days
// from an implicit origin. Negative spans accrue nothing.
//
// 30/360 conventions have no day-of-month information here and fall back to a 360 basis.
func YearFractionDays(startDays, endDays float64, convention string) float64 {
	dt := math.Max(0, endDays-startDays)
	switch convention {
	case Act360, Dc30360, Dc30E:
		return dt / 360.0
	default:
		return dt / 365.0
	}
}
