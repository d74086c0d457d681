package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/meenmo/mcurve/marketdata"
	"github.com/meenmo/mcurve/swap/bootstrap"
	"github.com/meenmo/mcurve/swap/calibration"
	"github.com/meenmo/mcurve/swap/curve"
	"github.com/meenmo/mcurve/swap/report"
	"gonum.org/v1/gonum/mat"
)

func sampleTable() report.RiskTable {
	j := mat.NewDense(2, 3, []float64{
		0, -0.5, 0.25,
		0, 1234.5, -3e-12,
	})
	res := calibration.Residuals{
		R:          []float64{0, 0},
		Labels:     []string{"OIS", "BASIS63"},
		Maturities: []float64{1, 2.5},
	}
	return report.NewRiskTable("discount", []float64{0, 1, 2}, j, res)
}

func TestRiskTable_WriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := sampleTable().WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	want := "curve,instrument,maturity,0,1,2\n" +
		"discount,OIS,1,0.00000000,-0.50000000,0.25000000\n" +
		"discount,BASIS63,2.5,0.00000000,1234.50000000,0.00000000\n"
	if got := buf.String(); got != want {
		t.Fatalf("csv:\n%s\nwant:\n%s", got, want)
	}
}

func TestRiskTable_WriteText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := sampleTable().WriteText(&buf); err != nil {
		t.Fatalf("WriteText error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title, header and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Bucketed risk (discount nodes):" {
		t.Fatalf("title: %q", lines[0])
	}
	if !strings.Contains(lines[1], "2Y") || !strings.HasPrefix(lines[1], "instrument") {
		t.Fatalf("header: %q", lines[1])
	}
	if !strings.Contains(lines[3], "1,234.50000000") {
		t.Fatalf("grouped number missing: %q", lines[3])
	}
	if strings.Contains(lines[3], "-0.00000000") {
		t.Fatalf("residual noise should print as zero: %q", lines[3])
	}
}

func TestRepricing_SampleMarket(t *testing.T) {
	t.Parallel()

	m := marketdata.Sample().Data
	theta, err := calibration.InitialTheta(m, bootstrap.DefaultOptions)
	if err != nil {
		t.Fatalf("InitialTheta error: %v", err)
	}
	mc, err := calibration.BuildAll(m, theta, bootstrap.DefaultOptions)
	if err != nil {
		t.Fatalf("BuildAll error: %v", err)
	}

	rows := report.Repricing(m, mc)
	if len(rows) != m.Len() {
		t.Fatalf("rows: got %d want %d", len(rows), m.Len())
	}
	if rows[0].Label != calibration.LabelOIS || rows[0].Quote != m.OIS[0].QuoteRate {
		t.Fatalf("first row: %+v", rows[0])
	}
	last := rows[len(rows)-1]
	if last.Label != calibration.LabelBasis || last.Quote != 0 || last.Model != last.Diff {
		t.Fatalf("basis row: %+v", last)
	}

	var text, csvOut bytes.Buffer
	if err := report.WriteRepricingText(&text, rows); err != nil {
		t.Fatalf("WriteRepricingText error: %v", err)
	}
	if err := report.WriteRepricingCSV(&csvOut, rows); err != nil {
		t.Fatalf("WriteRepricingCSV error: %v", err)
	}
	if n := strings.Count(text.String(), "\n"); n != len(rows)+1 {
		t.Fatalf("text lines: got %d", n)
	}
	if !strings.HasPrefix(csvOut.String(), "instrument,maturity,model,quote,diff\nOIS,0.25,0.02600000,0.02600000,0.00000000\n") {
		t.Fatalf("csv head:\n%s", csvOut.String())
	}
}

func TestWriteNodes(t *testing.T) {
	t.Parallel()

	c, err := curve.New([]float64{0, 1}, []float64{0, 0.03})
	if err != nil {
		t.Fatalf("curve.New error: %v", err)
	}

	var csvOut bytes.Buffer
	if err := report.WriteNodesCSV(&csvOut, "discount", c); err != nil {
		t.Fatalf("WriteNodesCSV error: %v", err)
	}
	want := "curve,knot,node,zero,factor\n" +
		"discount,0,0.00000000,0.00000000,1.00000000\n" +
		"discount,1,0.03000000,0.03000000,0.97044553\n"
	if csvOut.String() != want {
		t.Fatalf("csv:\n%s\nwant:\n%s", csvOut.String(), want)
	}

	var text bytes.Buffer
	if err := report.WriteNodesText(&text, "discount", c); err != nil {
		t.Fatalf("WriteNodesText error: %v", err)
	}
	if !strings.HasPrefix(text.String(), "Curve discount:\n") || !strings.Contains(text.String(), "0.97044553") {
		t.Fatalf("text:\n%s", text.String())
	}
}
