package movstats

import (
	"math"
	"testing"
)

// A custom aggregator replaces the default statistics; when it reports
// no "N", the window size is used.
func TestCustomAggregator(t *testing.T) {

	n := 50
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = float64(i % 4)
	}

	data, err := NewDataset([][]float64{x, y}, []string{"age", "chol"})
	if err != nil {
		t.Fatal(err)
	}

	config := DefaultConfig()
	config.Stat = func(w WindowData) []StatValue {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range w.Y {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		return []StatValue{{Kind: "Range", Value: hi - lo}}
	}

	ms, err := New(data, []string{"chol"}, "age", config)
	if err != nil {
		t.Fatal(err)
	}
	rslt, err := ms.Run()
	if err != nil {
		t.Fatal(err)
	}

	w := rslt.Wide
	if len(w.Stats) != 1 {
		t.Fatalf("%d statistic columns, expected 1", len(w.Stats))
	}
	rng := w.Column("Moving Range")
	if rng == nil {
		t.Fatal("custom statistic column missing")
	}
	for i, v := range rng {
		if v != 3 {
			t.Errorf("row %d: range %f, expected 3", i, v)
		}
	}

	// Default window size stands in for the unreported N.
	for i, v := range w.N {
		if v < 16 || v > 31 {
			t.Errorf("row %d: N %f outside the window size range", i, v)
		}
	}
}

// A custom aggregator may report its own effective N.
func TestCustomAggregatorN(t *testing.T) {

	n := 40
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = 1
	}

	data, err := NewDataset([][]float64{x, y}, []string{"age", "chol"})
	if err != nil {
		t.Fatal(err)
	}

	config := DefaultConfig()
	config.Stat = func(w WindowData) []StatValue {
		return []StatValue{
			{Kind: "Total", Value: float64(len(w.Y))},
			{Kind: "N", Value: 7},
		}
	}

	ms, err := New(data, []string{"chol"}, "age", config)
	if err != nil {
		t.Fatal(err)
	}
	rslt, err := ms.Run()
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range rslt.Wide.N {
		if v != 7 {
			t.Errorf("row %d: N %f, expected 7", i, v)
		}
	}
}

// With SmoothBoth the raw columns stay and smoothed copies are added
// under the smoothed family; with the default replacement they do not.
func TestSmoothKeepBoth(t *testing.T) {

	n := 100
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = 1
	}

	data, err := NewDataset([][]float64{x, y}, []string{"age", "event"})
	if err != nil {
		t.Fatal(err)
	}

	config := DefaultConfig()
	config.Smooth = Lowess
	config.SmoothKeep = SmoothBoth

	ms, err := New(data, []string{"event"}, "age", config)
	if err != nil {
		t.Fatal(err)
	}
	rslt, err := ms.Run()
	if err != nil {
		t.Fatal(err)
	}

	raw := rslt.Wide.Column("Moving Proportion")
	sm := rslt.Wide.Column("Moving-smoothed Proportion")
	if raw == nil || sm == nil {
		t.Fatal("expected both raw and smoothed columns")
	}

	// A constant series smooths to itself.
	for i := range sm {
		if math.Abs(sm[i]-1) > 1e-8 || raw[i] != 1 {
			t.Errorf("row %d: raw %f smoothed %f", i, raw[i], sm[i])
		}
	}

	config = DefaultConfig()
	config.Smooth = RunLine

	ms, err = New(data, []string{"event"}, "age", config)
	if err != nil {
		t.Fatal(err)
	}
	rslt, err = ms.Run()
	if err != nil {
		t.Fatal(err)
	}
	if rslt.Wide.Column("Moving-smoothed Proportion") != nil {
		t.Error("replacement mode still produced a smoothed family column")
	}
	if rslt.Wide.Column("Moving Proportion") == nil {
		t.Error("replacement mode lost the raw column label")
	}
}
