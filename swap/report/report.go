// Package report renders repricing and bucketed-risk tables as aligned text or CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/meenmo/mcurve/swap/calibration"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/mat"
)

// Places is the number of decimals printed for risk and repricing values.
const Places = 8

// RepricingRow compares a model value with its quote. Basis rows quote zero PV difference.
type RepricingRow struct {
	Label    string
	Maturity float64
	Model    float64
	Quote    float64
	Diff     float64
}

// Repricing reprices every instrument in m on mc, in residual row order.
func Repricing(m calibration.MarketData, mc calibration.ModelCurves) []RepricingRow {
	res := calibration.ComputeResiduals(m, mc)
	quotes := make([]float64, 0, res.Len())
	for _, q := range m.OIS {
		quotes = append(quotes, q.QuoteRate)
	}
	for _, q := range m.IRS3M {
		quotes = append(quotes, q.QuoteRate)
	}
	for _, q := range m.IRS6M {
		quotes = append(quotes, q.QuoteRate)
	}
	for range m.Basis63 {
		quotes = append(quotes, 0)
	}

	rows := make([]RepricingRow, res.Len())
	for i, r := range res.R {
		rows[i] = RepricingRow{
			Label:    res.Labels[i],
			Maturity: res.Maturities[i],
			Model:    quotes[i] + r,
			Quote:    quotes[i],
			Diff:     r,
		}
	}
	return rows
}

// RiskTable is a bucketed-risk matrix: one row per instrument, one column per curve knot.
type RiskTable struct {
	Curve      string
	Labels     []string
	Maturities []float64
	Knots      []float64
	Rows       [][]float64
}

// NewRiskTable copies a Jacobian and its residual labels into a table.
func NewRiskTable(curveName string, knots []float64, j *mat.Dense, res calibration.Residuals) RiskTable {
	t := RiskTable{
		Curve:      curveName,
		Labels:     append([]string(nil), res.Labels...),
		Maturities: append([]float64(nil), res.Maturities...),
		Knots:      append([]float64(nil), knots...),
	}
	rows, _ := j.Dims()
	t.Rows = make([][]float64, rows)
	for i := range t.Rows {
		t.Rows[i] = mat.Row(nil, i, j)
	}
	return t
}

// WriteText prints the table with fixed-width columns.
func (t RiskTable) WriteText(w io.Writer) error {
	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(w, "Bucketed risk (%s nodes):\n", t.Curve); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "%-10s %8s", "instrument", "maturity"); err != nil {
		return err
	}
	for _, k := range t.Knots {
		if _, err := p.Fprintf(w, " %14s", fmt.Sprintf("%gY", k)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	for i, row := range t.Rows {
		if _, err := p.Fprintf(w, "%-10s %8.2f", t.Labels[i], t.Maturities[i]); err != nil {
			return err
		}
		for _, v := range row {
			if _, err := p.Fprintf(w, " %14.8f", round(v)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes a header of knots followed by one record per instrument.
func (t RiskTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"curve", "instrument", "maturity"}
	for _, k := range t.Knots {
		header = append(header, strconv.FormatFloat(k, 'g', -1, 64))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		rec := []string{t.Curve, t.Labels[i], strconv.FormatFloat(t.Maturities[i], 'g', -1, 64)}
		for _, v := range row {
			rec = append(rec, fixed(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRepricingText prints model vs quote per instrument.
func WriteRepricingText(w io.Writer, rows []RepricingRow) error {
	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(w, "%-10s %8s %14s %14s %14s\n", "instrument", "maturity", "model", "quote", "diff"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := p.Fprintf(w, "%-10s %8.2f %14.8f %14.8f %14.8f\n", r.Label, r.Maturity, round(r.Model), round(r.Quote), round(r.Diff)); err != nil {
			return err
		}
	}
	return nil
}

// WriteRepricingCSV writes repricing rows as CSV.
func WriteRepricingCSV(w io.Writer, rows []RepricingRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"instrument", "maturity", "model", "quote", "diff"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Label,
			strconv.FormatFloat(r.Maturity, 'g', -1, 64),
			fixed(r.Model),
			fixed(r.Quote),
			fixed(r.Diff),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// round drops digits below Places so tiny residual noise prints as zero.
func round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(Places).Float64()
	return f
}

func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(Places)
}
