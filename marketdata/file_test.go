package marketdata_test

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meenmo/mcurve/marketdata"
	"github.com/meenmo/mcurve/swap/calibration"
)

const minimalYAML = `
curve_date: 2025-11-21
discount:
  knots: [0, 1, 2]
  ois:
    - {tenor: 1Y, rate: 3.00}
    - {tenor: 2Y, rate: 3.10}
forward3m:
  knots: [0, 1, 2]
  irs:
    - {tenor: 1Y, rate: 3.20}
    - {tenor: 2Y, rate: 3.30}
forward6m:
  knots: [0, 2]
  irs:
    - {tenor: 2Y, rate: 3.40}
basis:
  - {tenor: 2Y, spread_bp: 7.5}
`

func TestSample(t *testing.T) {
	t.Parallel()

	m := marketdata.Sample()
	if got := m.CurveDate.Format("2006-01-02"); got != "2025-11-21" {
		t.Fatalf("curve date: got %s", got)
	}
	d := m.Data
	if len(d.OIS) != 8 || len(d.IRS3M) != 7 || len(d.IRS6M) != 3 || len(d.Basis63) != 5 {
		t.Fatalf("instrument counts: OIS=%d IRS3M=%d IRS6M=%d basis=%d", len(d.OIS), len(d.IRS3M), len(d.IRS6M), len(d.Basis63))
	}
	if d.Len() != 23 {
		t.Fatalf("Len: got %d want 23", d.Len())
	}
	if q := d.OIS[0]; q.Maturity != 0.25 || math.Abs(q.QuoteRate-0.026) > 1e-15 {
		t.Fatalf("first OIS: %+v", q)
	}
	if b := d.Basis63[4]; math.Abs(b.QuoteSpread-0.0012) > 1e-15 || b.Leg1.Len() != 20 || b.Leg2.Len() != 40 {
		t.Fatalf("10Y basis: spread %v legs %d/%d", b.QuoteSpread, b.Leg1.Len(), b.Leg2.Len())
	}
}

func TestDecode_DefaultsConventions(t *testing.T) {
	t.Parallel()

	m, err := marketdata.Decode(strings.NewReader(minimalYAML))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	irs := m.Data.IRS3M[1]
	if irs.Fixed.Len() != 2 || irs.Float.Len() != 8 {
		t.Fatalf("2Y IRS legs: fixed %d float %d", irs.Fixed.Len(), irs.Float.Len())
	}
	if math.Abs(irs.Float.Accruals[0]-0.25*365/360) > 1e-12 {
		t.Fatalf("float accrual should be ACT/360: %v", irs.Float.Accruals[0])
	}
	if math.Abs(m.Data.Basis63[0].QuoteSpread-0.00075) > 1e-15 {
		t.Fatalf("spread: got %v", m.Data.Basis63[0].QuoteSpread)
	}
}

func TestDecode_MaturityDates(t *testing.T) {
	t.Parallel()

	doc := strings.Replace(minimalYAML, "tenor: 2Y, rate: 3.10", "tenor: 2027-11-21, rate: 3.10", 1)
	m, err := marketdata.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got, want := m.Data.OIS[1].Maturity, 730.0/365.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("maturity: got %v want %v", got, want)
	}

	undated := strings.Replace(doc, "curve_date: 2025-11-21\n", "", 1)
	if _, err := marketdata.Decode(strings.NewReader(undated)); err == nil {
		t.Fatalf("expected error for maturity date without curve_date")
	}
}

func TestDecode_OffGridMaturitiesEndLegsTogether(t *testing.T) {
	t.Parallel()

	doc := strings.Replace(minimalYAML, "tenor: 2Y, rate: 3.10", "tenor: 2027-11-22, rate: 3.10", 1)
	doc = strings.Replace(doc, "tenor: 1Y, rate: 3.20", "tenor: 18M, rate: 3.20", 1)
	m, err := marketdata.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := m.Data.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	ois := m.Data.OIS[1]
	want := 731.0 / 365.0
	if math.Abs(ois.Fixed.Maturity()-want) > 1e-12 || math.Abs(ois.Maturity-want) > 1e-12 {
		t.Fatalf("dated OIS: fixed leg ends %v, maturity %v, want %v", ois.Fixed.Maturity(), ois.Maturity, want)
	}
	if ois.Fixed.Len() != 2 {
		t.Fatalf("dated OIS: expected the one-day stub folded into 2 periods, got %v", ois.Fixed.Times)
	}

	irs := m.Data.IRS3M[0]
	if irs.Fixed.Maturity() != 1.5 || irs.Float.Maturity() != 1.5 {
		t.Fatalf("18M IRS: fixed ends %v, float ends %v", irs.Fixed.Times, irs.Float.Maturity())
	}
	if irs.Fixed.Len() != 2 || irs.Float.Len() != 6 {
		t.Fatalf("18M IRS legs: fixed %d float %d", irs.Fixed.Len(), irs.Float.Len())
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown field": minimalYAML + "extra: 1\n",
		"bad tenor":     strings.Replace(minimalYAML, "tenor: 1Y, rate: 3.00", "tenor: 1Q, rate: 3.00", 1),
		"bad date":      strings.Replace(minimalYAML, "2025-11-21", "21/11/2025", 1),
		"bad day count": minimalYAML + "conventions:\n  fixed: {day_count: BUS/252}\n",
	}
	for name, doc := range cases {
		if _, err := marketdata.Decode(strings.NewReader(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	noOIS := strings.Replace(minimalYAML, "  ois:\n    - {tenor: 1Y, rate: 3.00}\n    - {tenor: 2Y, rate: 3.10}\n", "", 1)
	if _, err := marketdata.Decode(strings.NewReader(noOIS)); !errors.Is(err, calibration.ErrInvalidMarket) {
		t.Fatalf("missing OIS: got %v", err)
	}
}

func TestLoad_SampleFileRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := marketdata.SampleFile().Encode(&buf); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "market.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := marketdata.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := marketdata.Sample()
	if got.Data.Len() != want.Data.Len() || !got.CurveDate.Equal(want.CurveDate) {
		t.Fatalf("loaded market differs from sample")
	}
	if got.Data.IRS6M[2].Fixed.Len() != 10 || got.Data.IRS6M[2].Float.Len() != 20 {
		t.Fatalf("10Y 6M IRS legs: %d/%d", got.Data.IRS6M[2].Fixed.Len(), got.Data.IRS6M[2].Float.Len())
	}
	if got.Data.OIS[7].Fixed.Accruals[0] != want.Data.OIS[7].Fixed.Accruals[0] {
		t.Fatalf("OIS accruals differ")
	}

	if _, err := marketdata.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
