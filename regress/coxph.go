package regress

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/optimize"
)

// CoxPH is a proportional hazards regression fit with a Breslow
// baseline cumulative hazard, used to estimate covariate-specific
// cumulative incidence.
type CoxPH struct {
	coeff []float64

	// Distinct event times, sorted increasing, and the Breslow
	// baseline cumulative hazard at those times.
	btimes  []float64
	bcumhaz []float64
}

// coxData holds the training data sorted by increasing time.
type coxData struct {
	xcols  [][]float64
	time   []float64
	status []float64
}

// FitCoxPH fits a proportional hazards model of the event time on the
// given column-oriented design (no intercept column).  status is 1
// for an observed event and 0 for censoring.
func FitCoxPH(xcols [][]float64, time, status []float64) (*CoxPH, error) {

	if len(xcols) == 0 {
		return nil, fmt.Errorf("regress: empty design")
	}
	n := len(time)
	if len(status) != n {
		return nil, fmt.Errorf("regress: time and status have different lengths (%d != %d)", n, len(status))
	}

	var nevent int
	for _, s := range status {
		if s == 1 {
			nevent++
		}
	}
	if nevent == 0 {
		return nil, fmt.Errorf("regress: no events in %d observations", n)
	}

	// Sort by increasing time.
	ind := make([]int, n)
	for i := range ind {
		ind[i] = i
	}
	sort.SliceStable(ind, func(i, j int) bool { return time[ind[i]] < time[ind[j]] })

	cd := &coxData{
		time:   make([]float64, n),
		status: make([]float64, n),
	}
	cd.xcols = make([][]float64, len(xcols))
	for j := range xcols {
		cd.xcols[j] = make([]float64, n)
	}
	for i, k := range ind {
		cd.time[i] = time[k]
		cd.status[i] = status[k]
		for j := range xcols {
			cd.xcols[j][i] = xcols[j][k]
		}
	}

	p := len(xcols)
	obj := func(par []float64) float64 {
		return -cd.breslowLogLike(par)
	}
	grad := func(gr, par []float64) {
		cd.breslowScore(par, gr)
		for i := range gr {
			gr[i] = -gr[i]
		}
	}

	prob := optimize.Problem{Func: obj, Grad: grad}
	method := &optimize.BFGS{Linesearcher: &optimize.MoreThuente{}}

	optrslt, err := optimize.Minimize(prob, make([]float64, p), nil, method)
	if err != nil && optrslt == nil {
		return nil, fmt.Errorf("regress: hazard regression failed: %v", err)
	}
	if math.IsInf(optrslt.F, 0) || math.IsNaN(optrslt.F) {
		return nil, fmt.Errorf("regress: hazard regression did not converge")
	}

	m := &CoxPH{coeff: append([]float64(nil), optrslt.X...)}
	m.btimes, m.bcumhaz = cd.baselineCumHaz(m.coeff)

	return m, nil
}

// breslowLogLike computes the partial log-likelihood using the
// Breslow approximation for ties.  The data are sorted by time.
func (cd *coxData) breslowLogLike(par []float64) float64 {

	eta := linpred(cd.xcols, par)
	n := len(eta)

	etamax := eta[0]
	for _, e := range eta {
		if e > etamax {
			etamax = e
		}
	}

	var ll, s0 float64
	i := n - 1
	for i >= 0 {

		// Walk over a block of tied times, extending the risk set.
		j := i
		for j >= 0 && cd.time[j] == cd.time[i] {
			s0 += math.Exp(eta[j] - etamax)
			j--
		}

		for k := j + 1; k <= i; k++ {
			if cd.status[k] == 1 {
				ll += eta[k] - math.Log(s0) - etamax
			}
		}

		i = j
	}

	return ll
}

// breslowScore computes the gradient of the partial log-likelihood.
func (cd *coxData) breslowScore(par, score []float64) {

	eta := linpred(cd.xcols, par)
	n := len(eta)
	p := len(par)

	etamax := eta[0]
	for _, e := range eta {
		if e > etamax {
			etamax = e
		}
	}

	for j := range score {
		score[j] = 0
	}

	var s0 float64
	s1 := make([]float64, p)

	i := n - 1
	for i >= 0 {

		j := i
		for j >= 0 && cd.time[j] == cd.time[i] {
			w := math.Exp(eta[j] - etamax)
			s0 += w
			for q := 0; q < p; q++ {
				s1[q] += w * cd.xcols[q][j]
			}
			j--
		}

		for k := j + 1; k <= i; k++ {
			if cd.status[k] == 1 {
				for q := 0; q < p; q++ {
					score[q] += cd.xcols[q][k] - s1[q]/s0
				}
			}
		}

		i = j
	}
}

// baselineCumHaz computes the Breslow estimate of the baseline
// cumulative hazard at the distinct event times.
func (cd *coxData) baselineCumHaz(par []float64) ([]float64, []float64) {

	eta := linpred(cd.xcols, par)
	n := len(eta)

	// Walk over tied-time blocks from the largest time down,
	// accumulating the risk set denominator.
	type block struct {
		t, d, s0 float64
	}
	var blocks []block
	var s0 float64
	i := n - 1
	for i >= 0 {
		j := i
		var d float64
		for j >= 0 && cd.time[j] == cd.time[i] {
			s0 += math.Exp(eta[j])
			if cd.status[j] == 1 {
				d++
			}
			j--
		}
		if d > 0 {
			blocks = append(blocks, block{cd.time[i], d, s0})
		}
		i = j
	}

	// Accumulate the hazard in increasing time order.
	times := make([]float64, 0, len(blocks))
	cumhaz := make([]float64, 0, len(blocks))
	var h float64
	for k := len(blocks) - 1; k >= 0; k-- {
		h += blocks[k].d / blocks[k].s0
		times = append(times, blocks[k].t)
		cumhaz = append(cumhaz, h)
	}

	return times, cumhaz
}

// Coeff returns the fitted log hazard ratios.
func (m *CoxPH) Coeff() []float64 {
	return m.coeff
}

// BaselineCumHaz returns the distinct event times and the Breslow
// baseline cumulative hazard at those times.
func (m *CoxPH) BaselineCumHaz() ([]float64, []float64) {
	return m.btimes, m.bcumhaz
}

// cumHazAt evaluates the baseline cumulative hazard step function.
func (m *CoxPH) cumHazAt(t float64) float64 {

	ii := sort.SearchFloat64s(m.btimes, t)
	if ii < len(m.btimes) && m.btimes[ii] == t {
		ii++
	}
	if ii == 0 {
		return 0
	}
	return m.bcumhaz[ii-1]
}

// PredictCumInc returns the fitted cumulative incidence at time t for
// each row of a new design with the same columns as the training
// design.
func (m *CoxPH) PredictCumInc(xcols [][]float64, t float64) []float64 {

	eta := linpred(xcols, m.coeff)
	h0 := m.cumHazAt(t)

	out := make([]float64, len(eta))
	for i, e := range eta {
		out[i] = 1 - math.Exp(-h0*math.Exp(e))
	}
	return out
}
