// Package surv estimates survival distributions from right censored
// data held in memory, using the method of Kaplan and Meier.  It is a
// small building block for windowed incidence estimation: the inputs
// are plain slices (one window's worth of observations), not a full
// dataset.
package surv

import (
	"fmt"
	"sort"
)

// KaplanMeier holds a fitted product-limit estimate of a survival
// distribution.
type KaplanMeier struct {

	// Distinct times at which events occur, sorted.
	times []float64

	// Weighted number of events at each time in times.
	nEvents []float64

	// Weighted risk set size just before each time in times.
	nRisk []float64

	// The estimated survival function evaluated at each time in
	// times.
	survProb []float64
}

// NewKaplanMeier estimates the survival distribution from the given
// event/censoring times and status indicators (1 if the event
// occurred, 0 if censored).  weights may be nil, in which case all
// case weights are 1.
func NewKaplanMeier(time, status, weights []float64) (*KaplanMeier, error) {

	if len(time) == 0 {
		return nil, fmt.Errorf("surv: no observations")
	}
	if len(status) != len(time) {
		return nil, fmt.Errorf("surv: time and status have different lengths (%d != %d)",
			len(time), len(status))
	}
	if weights != nil && len(weights) != len(time) {
		return nil, fmt.Errorf("surv: time and weights have different lengths (%d != %d)",
			len(time), len(weights))
	}

	km := new(KaplanMeier)
	km.scan(time, status, weights)
	km.compress()
	km.fit()

	return km, nil
}

// scan accumulates the weighted event count and total count at each
// distinct time, then converts the totals to risk set sizes.
func (km *KaplanMeier) scan(time, status, weights []float64) {

	events := make(map[float64]float64)
	total := make(map[float64]float64)

	for i, t := range time {
		w := float64(1)
		if weights != nil {
			w = weights[i]
		}
		if status[i] == 1 {
			events[t] += w
		}
		total[t] += w
	}

	km.times = make([]float64, 0, len(total))
	for t := range total {
		km.times = append(km.times, t)
	}
	sort.Float64s(km.times)

	km.nEvents = make([]float64, len(km.times))
	km.nRisk = make([]float64, len(km.times))
	for i, t := range km.times {
		km.nEvents[i] = events[t]
		km.nRisk[i] = total[t]
	}

	// The risk set at time t contains everyone whose event or
	// censoring time is t or later.
	var z float64
	for i := len(km.nRisk) - 1; i >= 0; i-- {
		z += km.nRisk[i]
		km.nRisk[i] = z
	}
}

// compress removes times where no events occurred.
func (km *KaplanMeier) compress() {

	var ix []int
	for i := range km.times {
		if km.nEvents[i] > 0 {
			ix = append(ix, i)
		}
	}

	if len(ix) < len(km.times) {
		for i, j := range ix {
			km.times[i] = km.times[j]
			km.nEvents[i] = km.nEvents[j]
			km.nRisk[i] = km.nRisk[j]
		}
		km.times = km.times[0:len(ix)]
		km.nEvents = km.nEvents[0:len(ix)]
		km.nRisk = km.nRisk[0:len(ix)]
	}
}

func (km *KaplanMeier) fit() {

	km.survProb = make([]float64, len(km.times))
	x := float64(1)
	for i := range km.times {
		x *= 1 - km.nEvents[i]/km.nRisk[i]
		km.survProb[i] = x
	}
}

// Time returns the times at which the survival function changes.
func (km *KaplanMeier) Time() []float64 {
	return km.times
}

// NumRisk returns the risk set size just before each time point where
// the survival function changes.
func (km *KaplanMeier) NumRisk() []float64 {
	return km.nRisk
}

// SurvProb returns the estimated survival probabilities at the points
// where the survival function changes.
func (km *KaplanMeier) SurvProb() []float64 {
	return km.survProb
}

// SurvProbAt evaluates the fitted step function at an arbitrary time.
// The survival probability is 1 before the first event time and
// constant between event times.
func (km *KaplanMeier) SurvProbAt(t float64) float64 {

	// Index of the first event time strictly after t.
	ii := sort.SearchFloat64s(km.times, t)
	if ii < len(km.times) && km.times[ii] == t {
		ii++
	}
	if ii == 0 {
		return 1
	}
	return km.survProb[ii-1]
}

// CumIncAt returns the cumulative incidence (one minus the survival
// probability) at an arbitrary time.
func (km *KaplanMeier) CumIncAt(t float64) float64 {
	return 1 - km.SurvProbAt(t)
}
