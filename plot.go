package movstats

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plotter draws moving statistic curves, one line per stratum per
// selected statistic.
type Plotter struct {
	plt *plot.Plot

	labels []string
	lines  []*plotter.Line

	width  vg.Length
	height vg.Length
}

// NewPlotter returns a default Plotter.
func NewPlotter() *Plotter {
	return &Plotter{
		plt:    plot.New(),
		width:  4,
		height: 4,
	}
}

// Width sets the width of the plot in inches.
func (pl *Plotter) Width(w float64) *Plotter {
	pl.width = vg.Length(w)
	return pl
}

// Height sets the height of the plot in inches.
func (pl *Plotter) Height(h float64) *Plotter {
	pl.height = vg.Length(h)
	return pl
}

// Add plots the given statistic from a wide result table, one line per
// stratum.
func (pl *Plotter) Add(t *Table, stat Stat) error {

	vals := t.Column(stat.Label())
	if vals == nil {
		return fmt.Errorf("movstats: statistic '%s' not found in table", stat.Label())
	}

	// Group rows by stratum, preserving row order.
	rowkey := func(i int) string {
		s := ""
		for j := range t.ByNames {
			if j > 0 {
				s += ", "
			}
			s += t.ByNames[j] + "=" + t.By[j][i]
		}
		return s
	}

	var keys []string
	groups := make(map[string][]int)
	for i := 0; i < t.NumRows(); i++ {
		k := rowkey(i)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], i)
	}

	for _, k := range keys {

		rows := groups[k]
		pts := make(plotter.XYs, len(rows))
		for i, r := range rows {
			pts[i].X = t.X[r]
			pts[i].Y = vals[r]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(len(pl.lines))

		label := stat.Label()
		if k != "" {
			label = label + " (" + k + ")"
		}

		pl.lines = append(pl.lines, line)
		pl.labels = append(pl.labels, label)
	}

	pl.plt.X.Label.Text = t.XName

	return nil
}

// Plot constructs the plot from the added lines.
func (pl *Plotter) Plot() *Plotter {

	for i := range pl.lines {
		pl.plt.Add(pl.lines[i])
		pl.plt.Legend.Add(pl.labels[i], pl.lines[i])
	}

	if len(pl.lines) > 1 {
		pl.plt.Legend.Top = false
		pl.plt.Legend.Left = true
	}

	return pl
}

// GetPlotStruct returns the underlying plotting structure.
func (pl *Plotter) GetPlotStruct() *plot.Plot {
	return pl.plt
}

// Save writes the plot to the given file.
func (pl *Plotter) Save(fname string) error {
	return pl.plt.Save(pl.width*vg.Inch, pl.height*vg.Inch, fname)
}
