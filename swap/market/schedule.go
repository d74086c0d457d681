package market

import (
	"errors"
	"fmt"
	"math"

	"github.com/meenmo/mcurve/utils"
)

// ErrInvalidSchedule is returned when a schedule violates its ordering or sizing invariants.
var ErrInvalidSchedule = errors.New("invalid schedule")

// DayCount enum.
type DayCount string

const (
	Act360  DayCount = utils.Act360
	Act365F DayCount = utils.Act365F
	Dc30360 DayCount = utils.Dc30360
)

// Frequency is the number of payments per year.
type Frequency int

const (
	FreqAnnual    Frequency = 1
	FreqSemi      Frequency = 2
	FreqQuarterly Frequency = 4
	FreqMonthly   Frequency = 12
)

// LegConvention captures the settings needed to lay out a year-fraction schedule.
type LegConvention struct {
	PayFrequency Frequency
	DayCount     DayCount
}

// Schedule is a leg's payment times (years from the curve origin) and accrual fractions.
type Schedule struct {
	Times    []float64
	Accruals []float64
}

// minStub is the shortest front stub kept as its own period; shorter ones fold into the next period.
const minStub = 7.0 / 365.0

// gridTol absorbs floating-point noise when a maturity sits on the payment grid.
const gridTol = 1e-9

// RegularSchedule rolls periods of 1/frequency back from maturity, so the last
// payment is always exactly at maturity. An off-grid maturity leaves a short
// front stub, merged into the first full period when under a week.
//
// A maturity shorter than one period pays once at maturity regardless of frequency.
func RegularSchedule(maturity float64, leg LegConvention) Schedule {
	freq := int(leg.PayFrequency)
	if freq <= 0 {
		freq = 1
	}
	dt := 1.0 / float64(freq)
	n := max(1, int(math.Ceil(maturity*float64(freq)-gridTol)))

	times := make([]float64, 0, n)
	for i := n - 1; i >= 0; i-- {
		times = append(times, maturity-float64(i)*dt)
	}
	if len(times) > 1 && times[0] < minStub {
		times = times[1:]
	}

	s := Schedule{
		Times:    times,
		Accruals: make([]float64, 0, len(times)),
	}
	prev := 0.0
	for _, t := range times {
		s.Accruals = append(s.Accruals, utils.YearFractionDays(prev*365.0, t*365.0, string(leg.DayCount)))
		prev = t
	}
	return s
}

// Maturity returns the last payment time, or 0 for an empty schedule.
func (s Schedule) Maturity() float64 {
	if len(s.Times) == 0 {
		return 0
	}
	return s.Times[len(s.Times)-1]
}

// Len returns the number of payments.
func (s Schedule) Len() int {
	return len(s.Times)
}

// Validate checks that times are strictly increasing and paired with accruals.
func (s Schedule) Validate() error {
	if len(s.Times) == 0 {
		return fmt.Errorf("%w: no payments", ErrInvalidSchedule)
	}
	if len(s.Times) != len(s.Accruals) {
		return fmt.Errorf("%w: %d times but %d accruals", ErrInvalidSchedule, len(s.Times), len(s.Accruals))
	}
	for i := 1; i < len(s.Times); i++ {
		if s.Times[i] <= s.Times[i-1] {
			return fmt.Errorf("%w: time %d (%.6f) does not follow %.6f", ErrInvalidSchedule, i, s.Times[i], s.Times[i-1])
		}
	}
	return nil
}
