package swap_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/mcurve/swap"
	"github.com/meenmo/mcurve/swap/curve"
	"github.com/meenmo/mcurve/swap/market"
)

var (
	fixedAnnual = market.LegConvention{PayFrequency: market.FreqAnnual, DayCount: market.Act365F}
	float3M     = market.LegConvention{PayFrequency: market.FreqQuarterly, DayCount: market.Act360}
	float6M     = market.LegConvention{PayFrequency: market.FreqSemi, DayCount: market.Act360}

	testKnots = []float64{0, 0.5, 1, 2, 3, 5, 10}
)

func mustCurve(t *testing.T, knots, nodes []float64) *curve.Curve {
	t.Helper()
	c, err := curve.New(knots, nodes)
	if err != nil {
		t.Fatalf("curve.New error: %v", err)
	}
	return c
}

func discountNodes() []float64 { return []float64{0, 0.025, 0.026, 0.028, 0.029, 0.031, 0.032} }
func fwd3MNodes() []float64    { return []float64{0, 0.030, 0.031, 0.033, 0.035, 0.036, 0.038} }
func fwd6MNodes() []float64    { return []float64{0, 0.031, 0.032, 0.034, 0.036, 0.037, 0.039} }

func TestOISParRate_SinglePeriod(t *testing.T) {
	t.Parallel()

	d := mustCurve(t, []float64{0, 1}, []float64{0, math.Log(1.03)})
	ois := swap.NewOISSwap(1.0, 0.03, fixedAnnual)

	if got := ois.ParRate(d); math.Abs(got-0.03) > 1e-14 {
		t.Fatalf("par rate mismatch: got %.15f want 0.03", got)
	}
}

func TestIRSParRate_SingleCurveEqualsOIS(t *testing.T) {
	t.Parallel()

	d := mustCurve(t, testKnots, discountNodes())
	ois := swap.NewOISSwap(5.0, 0, fixedAnnual)
	irs := swap.NewIRSSwap(5.0, 0, fixedAnnual, float3M)

	// Projecting on the discount curve telescopes the floating leg to 1 - D(T).
	if got, want := irs.ParRate(d, d), ois.ParRate(d); math.Abs(got-want) > 1e-14 {
		t.Fatalf("single-curve IRS par %.15f != OIS par %.15f", got, want)
	}
}

func TestBasisPVDiff_SameCurveIsSpreadAnnuity(t *testing.T) {
	t.Parallel()

	d := mustCurve(t, testKnots, discountNodes())
	f := mustCurve(t, testKnots, fwd3MNodes())
	b := swap.NewBasisSwap(3.0, 0.001, float3M, float3M)

	want := 0.0
	for i, tm := range b.Leg1.Times {
		want += b.Leg1.Accruals[i] * d.Value(tm) * 0.001
	}
	if got := b.PVDiff(d, f, f); math.Abs(got-want) > 1e-15 {
		t.Fatalf("PVDiff = %.15f want %.15f", got, want)
	}
}

func TestInstrumentValidate(t *testing.T) {
	t.Parallel()

	if err := swap.NewIRSSwap(2, 0.03, fixedAnnual, float3M).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	bad := swap.OISSwap{Fixed: market.Schedule{Times: []float64{1, 0.5}, Accruals: []float64{1, 1}}}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected validation error for unordered schedule")
	}

	for _, m := range []float64{1.5, 731.0 / 365.0} {
		if err := swap.NewIRSSwap(m, 0.03, fixedAnnual, float3M).Validate(); err != nil {
			t.Fatalf("IRS %g: unexpected validation error: %v", m, err)
		}
		if err := swap.NewBasisSwap(m, 0.001, float3M, fixedAnnual).Validate(); err != nil {
			t.Fatalf("basis %g: unexpected validation error: %v", m, err)
		}
		if err := swap.NewOISSwap(m, 0.03, fixedAnnual).Validate(); err != nil {
			t.Fatalf("OIS %g: unexpected validation error: %v", m, err)
		}
	}

	mismatched := swap.IRSSwap{
		Fixed: market.RegularSchedule(2, fixedAnnual),
		Float: market.RegularSchedule(1.5, float3M),
	}
	if err := mismatched.Validate(); !errors.Is(err, market.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule for legs ending apart, got %v", err)
	}
	ois := swap.NewOISSwap(2, 0.03, fixedAnnual)
	ois.Maturity = 1.5
	if err := ois.Validate(); !errors.Is(err, market.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule for OIS maturity off its fixed leg, got %v", err)
	}
}
