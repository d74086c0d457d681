package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/meenmo/mcurve/swap/curve"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteNodesText prints knot, node, zero rate and factor for each knot of c.
func WriteNodesText(w io.Writer, name string, c *curve.Curve) error {
	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(w, "Curve %s:\n%8s %14s %14s %14s\n", name, "knot", "node", "zero", "factor"); err != nil {
		return err
	}
	nodes := c.Nodes()
	for i, k := range c.Knots() {
		if _, err := p.Fprintf(w, "%8.2f %14.8f %14.8f %14.8f\n", k, round(nodes[i]), round(c.ZeroRate(k)), round(c.Value(k))); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// WriteNodesCSV writes one record per knot of c.
func WriteNodesCSV(w io.Writer, name string, c *curve.Curve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"curve", "knot", "node", "zero", "factor"}); err != nil {
		return err
	}
	nodes := c.Nodes()
	for i, k := range c.Knots() {
		rec := []string{name, strconv.FormatFloat(k, 'g', -1, 64), fixed(nodes[i]), fixed(c.ZeroRate(k)), fixed(c.Value(k))}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
