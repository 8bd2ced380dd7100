package movstats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/eipi10/movstats/smooth"
	"github.com/eipi10/movstats/surv"
)

// StatColumn pairs a statistic identity with its per-window values.
type StatColumn struct {
	Stat   Stat
	Values []float64
}

// movingFamily tags statistics computed directly from the windowed
// observations; smoothed copies are stored under smoothedFamily.
const (
	movingFamily   = "Moving"
	smoothedFamily = "Moving-smoothed"
)

func (ms *MovStats) defaultAggregator() Aggregator {
	switch ms.kind {
	case KindBinary:
		return aggBinary
	case KindSurvival:
		return aggSurvival
	default:
		return aggContinuous
	}
}

// aggBinary computes the proportion of ones.
func aggBinary(w WindowData) []StatValue {

	var s float64
	for _, v := range w.Y {
		s += v
	}

	return []StatValue{
		{Kind: "Proportion", Value: s / float64(len(w.Y))},
		{Kind: "N", Value: float64(len(w.Y))},
	}
}

// aggContinuous computes the mean, median and quartiles.
func aggContinuous(w WindowData) []StatValue {

	z := append([]float64(nil), w.Y...)
	sort.Float64s(z)

	return []StatValue{
		{Kind: "Mean", Value: stat.Mean(z, nil)},
		{Kind: "Median", Value: stat.Quantile(0.5, stat.Empirical, z, nil)},
		{Kind: "Q1", Value: stat.Quantile(0.25, stat.Empirical, z, nil)},
		{Kind: "Q3", Value: stat.Quantile(0.75, stat.Empirical, z, nil)},
		{Kind: "N", Value: float64(len(z))},
	}
}

// aggSurvival computes the Kaplan-Meier cumulative incidence at each
// configured time.
func aggSurvival(w WindowData) []StatValue {

	km, err := surv.NewKaplanMeier(w.Y, w.Status, nil)
	if err != nil {
		// Empty windows are screened out by the caller.
		panic(err)
	}

	out := make([]StatValue, 0, len(w.Times)+1)
	for _, t := range w.Times {
		out = append(out, StatValue{Kind: incidenceKind(t), Value: km.CumIncAt(t)})
	}
	out = append(out, StatValue{Kind: "N", Value: float64(len(w.Y))})

	return out
}

func incidenceKind(t float64) string {
	return fmt.Sprintf("Incidence@%g", t)
}

// aggregate runs the aggregator over every window of a stratum,
// returning the statistic columns and the per-window sample sizes.
func (ms *MovStats) aggregate(sw *stratumWindows, sx, sy, sstatus []float64) ([]StatColumn, []float64, error) {

	agg := ms.config.Stat
	if agg == nil {
		agg = ms.defaultAggregator()
	}

	nw := len(sw.windows)

	// The first nonempty window fixes the set and order of kinds.
	var kinds []string
	kpos := make(map[string]int)
	for _, w := range sw.windows {
		if len(w.idx) == 0 {
			continue
		}
		for _, sv := range agg(ms.windowData(w, sx, sy, sstatus)) {
			if sv.Kind == "N" {
				continue
			}
			kpos[sv.Kind] = len(kinds)
			kinds = append(kinds, sv.Kind)
		}
		break
	}
	if kinds == nil {
		return nil, nil, fmt.Errorf("movstats: all windows are empty")
	}

	cols := make([]StatColumn, len(kinds))
	for j, k := range kinds {
		cols[j] = StatColumn{
			Stat:   Stat{Family: movingFamily, Kind: k},
			Values: make([]float64, nw),
		}
	}
	nvals := make([]float64, nw)

	for i, w := range sw.windows {

		if len(w.idx) == 0 {
			for j := range cols {
				cols[j].Values[i] = math.NaN()
			}
			continue
		}

		nvals[i] = float64(len(w.idx))

		for j := range cols {
			cols[j].Values[i] = math.NaN()
		}
		for _, sv := range agg(ms.windowData(w, sx, sy, sstatus)) {
			if sv.Kind == "N" {
				nvals[i] = sv.Value
				continue
			}
			j, ok := kpos[sv.Kind]
			if !ok {
				return nil, nil, fmt.Errorf("movstats: aggregator returned unknown statistic '%s'", sv.Kind)
			}
			cols[j].Values[i] = sv.Value
		}
	}

	return cols, nvals, nil
}

// windowData gathers one window's member observations.
func (ms *MovStats) windowData(w window, sx, sy, sstatus []float64) WindowData {

	wd := WindowData{
		X:     subset(sx, w.idx),
		Y:     subset(sy, w.idx),
		Times: ms.config.Times,
	}
	if sstatus != nil {
		wd.Status = subset(sstatus, w.idx)
	}
	return wd
}

// smoothColumns applies the configured smoother to each windowed
// statistic column, evaluated back at the window x locations.
func (ms *MovStats) smoothColumns(sw *stratumWindows, cols []StatColumn) ([]StatColumn, error) {

	c := ms.config
	if c.Smooth == SmoothOff {
		return cols, nil
	}

	targets := sw.repx()
	if len(targets) < 2 {
		return nil, fmt.Errorf("movstats: %d evaluation points, smoothing requires at least 2 - enable VarEps",
			len(targets))
	}

	out := cols
	if c.SmoothKeep == SmoothBoth {
		out = append([]StatColumn(nil), cols...)
	}

	for j := range cols {

		var xs, fit []float64
		var err error
		switch c.Smooth {
		case RunLine:
			xs, fit, err = smooth.RunningLine(targets, cols[j].Values, c.SmoothWidth)
		default:
			xs, fit, err = smooth.Lowess(targets, cols[j].Values, c.Span, 0)
		}
		if err != nil {
			return nil, err
		}

		sm, err := smooth.EvalAt(xs, fit, targets)
		if err != nil {
			return nil, err
		}

		if c.SmoothKeep == SmoothBoth {
			out = append(out, StatColumn{
				Stat:   Stat{Family: smoothedFamily, Kind: cols[j].Stat.Kind},
				Values: sm,
			})
		} else {
			out[j].Values = sm
		}
	}

	return out, nil
}
