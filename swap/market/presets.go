package market

import (
	"fmt"
	"strings"
)

// Preset leg conventions for the demo multi-curve market.
var (
	FixedAnnual = LegConvention{
		PayFrequency: FreqAnnual,
		DayCount:     Act365F,
	}

	Float3M = LegConvention{
		PayFrequency: FreqQuarterly,
		DayCount:     Act360,
	}

	Float6M = LegConvention{
		PayFrequency: FreqSemi,
		DayCount:     Act360,
	}
)

// ParseDayCount maps a day count name to a DayCount.
func ParseDayCount(s string) (DayCount, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Act360):
		return Act360, nil
	case string(Act365F), "ACT/365":
		return Act365F, nil
	case string(Dc30360), "30E/360":
		return Dc30360, nil
	default:
		return "", fmt.Errorf("unsupported day count %q", s)
	}
}

// ParseFrequency validates a payments-per-year count.
func ParseFrequency(n int) (Frequency, error) {
	switch f := Frequency(n); f {
	case FreqAnnual, FreqSemi, FreqQuarterly, FreqMonthly:
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported payment frequency %d", n)
	}
}
