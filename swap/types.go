package swap

import (
	"errors"
	"fmt"
	"math"

	"github.com/meenmo/mcurve/swap/market"
)

var (
	// ErrNilCurve is returned when a required curve argument is nil.
	ErrNilCurve = errors.New("nil curve")
)

// BasisLeg selects which floating leg of a basis swap a forward sensitivity refers to.
type BasisLeg int

const (
	// LegSpread is leg 1, which carries the quoted spread and enters the PV difference with a plus sign.
	LegSpread BasisLeg = iota + 1
	// LegPlain is leg 2, which is subtracted.
	LegPlain
)

func (l BasisLeg) String() string {
	switch l {
	case LegSpread:
		return "spread"
	case LegPlain:
		return "plain"
	default:
		return fmt.Sprintf("BasisLeg(%d)", int(l))
	}
}

// maturityTol is how far apart two legs' final payments may be and still count as the same maturity.
const maturityTol = 1e-9

// validateSchedules checks each leg and that all legs end at the same time.
func validateSchedules(kind string, schedules ...market.Schedule) error {
	for i, s := range schedules {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%s leg %d: %w", kind, i+1, err)
		}
	}
	for i := 1; i < len(schedules); i++ {
		if a, b := schedules[0].Maturity(), schedules[i].Maturity(); math.Abs(a-b) > maturityTol {
			return fmt.Errorf("%s leg %d ends at %g but leg 1 ends at %g: %w", kind, i+1, b, a, market.ErrInvalidSchedule)
		}
	}
	return nil
}
