package movstats

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// StratumDiag summarizes the window construction for one stratum.
type StratumDiag struct {

	// Label identifies the stratum.
	Label string

	// N is the stratum's observation count.
	N int

	// Mean, Min and Max summarize the window membership sizes.
	Mean, Min, Max float64

	// Eps is the effective window half-width used (it may have been
	// shrunk by the variable-eps policy), and XInc the evaluation
	// point spacing (computed when not supplied; NaN for discrete
	// grouping).
	Eps  float64
	XInc float64
}

// Diagnostics holds the per-stratum window diagnostics.  It is
// computed once per call and attached to the Result; it has no effect
// on the computation itself.
type Diagnostics struct {
	Rows []StratumDiag
}

// Matrix returns the numeric diagnostics, one row per stratum:
// N, mean/min/max window size, effective eps, x increment.
func (d *Diagnostics) Matrix() [][]float64 {

	m := make([][]float64, len(d.Rows))
	for i, r := range d.Rows {
		m[i] = []float64{float64(r.N), r.Mean, r.Min, r.Max, r.Eps, r.XInc}
	}
	return m
}

// Labels returns the stratum label of each matrix row.
func (d *Diagnostics) Labels() []string {

	s := make([]string, len(d.Rows))
	for i, r := range d.Rows {
		s[i] = r.Label
	}
	return s
}

var diagColNames = []string{"N", "Mean n", "Min n", "Max n", "eps", "xinc"}

func fmtg(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%g", v)
}

// String renders the diagnostics as an aligned plain-text table.
func (d *Diagnostics) String() string {

	title := "Moving statistics window diagnostics"

	// Column widths
	lw := len("Stratum")
	for _, r := range d.Rows {
		if len(r.Label) > lw {
			lw = len(r.Label)
		}
	}
	const cw = 10

	tw := lw + cw*len(diagColNames)
	if tw < len(title) {
		tw = len(title)
	}

	var buf bytes.Buffer

	k := (tw - len(title)) / 2
	if k > 0 {
		buf.WriteString(strings.Repeat(" ", k))
	}
	buf.WriteString(title + "\n")
	buf.WriteString(strings.Repeat("=", tw) + "\n")

	buf.WriteString(fmt.Sprintf("%-*s", lw, "Stratum"))
	for _, na := range diagColNames {
		buf.WriteString(fmt.Sprintf("%*s", cw, na))
	}
	buf.WriteString("\n")
	buf.WriteString(strings.Repeat("-", tw) + "\n")

	for _, r := range d.Rows {
		buf.WriteString(fmt.Sprintf("%-*s", lw, r.Label))
		buf.WriteString(fmt.Sprintf("%*d", cw, r.N))
		for _, v := range []float64{r.Mean, r.Min, r.Max, r.Eps, r.XInc} {
			buf.WriteString(fmt.Sprintf("%*s", cw, fmtg(v)))
		}
		buf.WriteString("\n")
	}
	buf.WriteString(strings.Repeat("-", tw) + "\n")

	return buf.String()
}

// Styled renders the diagnostics as a styled table.
func (d *Diagnostics) Styled() string {

	tw := table.NewWriter()
	tw.SetTitle("Moving statistics window diagnostics")

	hdr := table.Row{"Stratum"}
	for _, na := range diagColNames {
		hdr = append(hdr, na)
	}
	tw.AppendHeader(hdr)

	for _, r := range d.Rows {
		tw.AppendRow(table.Row{
			r.Label, r.N, fmtg(r.Mean), fmtg(r.Min), fmtg(r.Max), fmtg(r.Eps), fmtg(r.XInc),
		})
	}

	tw.SetStyle(table.StyleLight)
	return tw.Render()
}
