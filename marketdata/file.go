// Package marketdata loads curve-date market snapshots from YAML and ships a demo market.
//
// Files quote rates in percent and basis spreads in basis points. Tenors use the
// "3M", "10Y" notation understood by market.TenorToYears, or an ISO maturity date.
package marketdata

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/meenmo/mcurve/swap"
	"github.com/meenmo/mcurve/swap/calibration"
	"github.com/meenmo/mcurve/swap/market"
	"github.com/meenmo/mcurve/utils"
	"gopkg.in/yaml.v3"
)

// Quote is a par rate in percent.
type Quote struct {
	Tenor string  `yaml:"tenor"`
	Rate  float64 `yaml:"rate"`
}

// SpreadQuote is a basis spread in basis points.
type SpreadQuote struct {
	Tenor    string  `yaml:"tenor"`
	SpreadBP float64 `yaml:"spread_bp"`
}

// Convention is the YAML form of a leg convention.
type Convention struct {
	Frequency int    `yaml:"frequency"`
	DayCount  string `yaml:"day_count"`
}

// Conventions configures the fixed leg and both floating legs.
type Conventions struct {
	Fixed   Convention `yaml:"fixed"`
	Float3M Convention `yaml:"float3m"`
	Float6M Convention `yaml:"float6m"`
}

// CurveQuotes is a knot schedule with the quotes that bootstrap it.
type CurveQuotes struct {
	Knots []float64 `yaml:"knots"`
	OIS   []Quote   `yaml:"ois,omitempty"`
	IRS   []Quote   `yaml:"irs,omitempty"`
}

// File mirrors the YAML market file layout.
type File struct {
	CurveDate   string        `yaml:"curve_date"`
	Conventions Conventions   `yaml:"conventions"`
	Discount    CurveQuotes   `yaml:"discount"`
	Forward3M   CurveQuotes   `yaml:"forward3m"`
	Forward6M   CurveQuotes   `yaml:"forward6m"`
	Basis       []SpreadQuote `yaml:"basis"`
}

// Market is a decoded market file.
type Market struct {
	CurveDate time.Time
	Data      calibration.MarketData
}

// Load reads and decodes a market file.
func Load(path string) (Market, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Market{}, fmt.Errorf("read market file: %w", err)
	}
	return Decode(bytes.NewReader(raw))
}

// Decode parses a YAML market file and builds its instruments.
func Decode(r io.Reader) (Market, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Market{}, fmt.Errorf("decode market file: %w", err)
	}
	return f.Market()
}

// Encode writes f as YAML.
func (f File) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

// Market converts quotes to instruments. Missing conventions fall back to the presets.
func (f File) Market() (Market, error) {
	var out Market
	if f.CurveDate != "" {
		d, err := utils.ParseDate(f.CurveDate)
		if err != nil {
			return Market{}, fmt.Errorf("curve_date: %w", err)
		}
		out.CurveDate = d
	}

	fixed, err := f.Conventions.Fixed.leg(market.FixedAnnual)
	if err != nil {
		return Market{}, fmt.Errorf("conventions.fixed: %w", err)
	}
	float3m, err := f.Conventions.Float3M.leg(market.Float3M)
	if err != nil {
		return Market{}, fmt.Errorf("conventions.float3m: %w", err)
	}
	float6m, err := f.Conventions.Float6M.leg(market.Float6M)
	if err != nil {
		return Market{}, fmt.Errorf("conventions.float6m: %w", err)
	}

	m := calibration.MarketData{
		DiscKnots: append([]float64(nil), f.Discount.Knots...),
		F3MKnots:  append([]float64(nil), f.Forward3M.Knots...),
		F6MKnots:  append([]float64(nil), f.Forward6M.Knots...),
	}
	for _, q := range f.Discount.OIS {
		t, err := maturity(q.Tenor, out.CurveDate)
		if err != nil {
			return Market{}, fmt.Errorf("discount.ois: %w", err)
		}
		m.OIS = append(m.OIS, swap.NewOISSwap(t, q.Rate/100, fixed))
	}
	if m.IRS3M, err = irsQuotes(f.Forward3M.IRS, out.CurveDate, fixed, float3m); err != nil {
		return Market{}, fmt.Errorf("forward3m.irs: %w", err)
	}
	if m.IRS6M, err = irsQuotes(f.Forward6M.IRS, out.CurveDate, fixed, float6m); err != nil {
		return Market{}, fmt.Errorf("forward6m.irs: %w", err)
	}
	for _, q := range f.Basis {
		t, err := maturity(q.Tenor, out.CurveDate)
		if err != nil {
			return Market{}, fmt.Errorf("basis: %w", err)
		}
		m.Basis63 = append(m.Basis63, swap.NewBasisSwap(t, q.SpreadBP/10000, float6m, float3m))
	}

	if err := m.Validate(); err != nil {
		return Market{}, err
	}
	out.Data = m
	return out, nil
}

func irsQuotes(quotes []Quote, curveDate time.Time, fixed, float market.LegConvention) ([]swap.IRSSwap, error) {
	out := make([]swap.IRSSwap, 0, len(quotes))
	for _, q := range quotes {
		t, err := maturity(q.Tenor, curveDate)
		if err != nil {
			return nil, err
		}
		out = append(out, swap.NewIRSSwap(t, q.Rate/100, fixed, float))
	}
	return out, nil
}

// maturity reads a tenor ("5Y") or an ISO maturity date measured ACT/365F from curveDate.
func maturity(tenor string, curveDate time.Time) (float64, error) {
	t, err := market.TenorToYears(tenor)
	if err == nil {
		return t, nil
	}
	d, derr := utils.ParseDate(tenor)
	if derr != nil {
		return 0, err
	}
	if curveDate.IsZero() {
		return 0, fmt.Errorf("maturity date %s requires curve_date", tenor)
	}
	if !d.After(curveDate) {
		return 0, fmt.Errorf("maturity date %s is not after curve_date", tenor)
	}
	return utils.YearFraction(curveDate, d, utils.Act365F), nil
}

func (c Convention) leg(def market.LegConvention) (market.LegConvention, error) {
	leg := def
	if c.Frequency != 0 {
		f, err := market.ParseFrequency(c.Frequency)
		if err != nil {
			return leg, err
		}
		leg.PayFrequency = f
	}
	if c.DayCount != "" {
		dc, err := market.ParseDayCount(c.DayCount)
		if err != nil {
			return leg, err
		}
		leg.DayCount = dc
	}
	return leg, nil
}
