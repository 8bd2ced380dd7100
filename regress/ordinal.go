package regress

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/optimize"
)

// Ordinal is a proportional odds (cumulative logit) regression fit.
// There is one intercept per distinct response value beyond the first,
// so the response may be continuous; the parameter count grows with
// the number of distinct values.
type Ordinal struct {

	// Distinct response values, sorted increasing.
	levels []float64

	// Intercepts alpha[k-1] for P(Y >= levels[k]), k = 1..K-1,
	// strictly decreasing.
	alpha []float64

	// Covariate coefficients.  The design has no intercept column;
	// the alphas play that role.
	beta []float64
}

// FitOrdinal fits a proportional odds model of y on the given
// column-oriented design (which must not include an intercept
// column).
func FitOrdinal(xcols [][]float64, y []float64) (*Ordinal, error) {

	if len(xcols) == 0 {
		return nil, fmt.Errorf("regress: empty design")
	}
	n := len(y)

	levels := distinct(y)
	nlev := len(levels)
	if nlev < 2 {
		return nil, fmt.Errorf("regress: ordinal response must have at least 2 distinct values")
	}

	// Category index of each observation.
	cat := make([]int, n)
	for i, v := range y {
		cat[i] = sort.SearchFloat64s(levels, v)
	}

	p := len(xcols)
	np := nlev - 1 + p

	// Starting values: empirical marginal cumulative logits for the
	// intercepts, zero slopes.
	start := make([]float64, np)
	for k := 1; k < nlev; k++ {
		var m float64
		for i := range cat {
			if cat[i] >= k {
				m++
			}
		}
		q := m / float64(n)
		if q < 0.01 {
			q = 0.01
		}
		if q > 0.99 {
			q = 0.99
		}
		start[k-1] = math.Log(q / (1 - q))
	}
	for k := 1; k < nlev-1; k++ {
		if start[k] >= start[k-1] {
			start[k] = start[k-1] - 1e-4
		}
	}

	obj := func(par []float64) float64 {
		return -ordLogLike(xcols, cat, nlev, par)
	}
	grad := func(gr, par []float64) {
		ordScore(xcols, cat, nlev, par, gr)
		for i := range gr {
			gr[i] = -gr[i]
		}
	}

	prob := optimize.Problem{Func: obj, Grad: grad}
	method := &optimize.BFGS{Linesearcher: &optimize.Backtracking{}}

	optrslt, err := optimize.Minimize(prob, start, nil, method)
	if err != nil && optrslt == nil {
		return nil, fmt.Errorf("regress: ordinal fit failed: %v", err)
	}
	if math.IsInf(optrslt.F, 0) || math.IsNaN(optrslt.F) {
		return nil, fmt.Errorf("regress: ordinal fit did not converge")
	}

	par := optrslt.X
	m := &Ordinal{
		levels: levels,
		alpha:  append([]float64(nil), par[0:nlev-1]...),
		beta:   append([]float64(nil), par[nlev-1:]...),
	}

	return m, nil
}

func distinct(y []float64) []float64 {

	z := append([]float64(nil), y...)
	sort.Float64s(z)
	u := z[:0]
	for i, v := range z {
		if i == 0 || v != u[len(u)-1] {
			u = append(u, v)
		}
	}
	return append([]float64(nil), u...)
}

// ordLogLike returns the proportional odds log-likelihood, or -Inf for
// parameter values with crossed intercepts.
func ordLogLike(xcols [][]float64, cat []int, nlev int, par []float64) float64 {

	alpha := par[0 : nlev-1]
	beta := par[nlev-1:]

	for k := 1; k < len(alpha); k++ {
		if alpha[k] >= alpha[k-1] {
			return math.Inf(-1)
		}
	}

	eta := linpred(xcols, beta)

	var ll float64
	for i, k := range cat {

		// P(Y >= levels[k]) and P(Y >= levels[k+1])
		fk := float64(1)
		if k > 0 {
			fk = expit(alpha[k-1] + eta[i])
		}
		fk1 := float64(0)
		if k < nlev-1 {
			fk1 = expit(alpha[k] + eta[i])
		}

		pr := fk - fk1
		if pr <= 0 {
			return math.Inf(-1)
		}
		ll += math.Log(pr)
	}

	return ll
}

// ordScore computes the gradient of the proportional odds
// log-likelihood.
func ordScore(xcols [][]float64, cat []int, nlev int, par, gr []float64) {

	alpha := par[0 : nlev-1]
	beta := par[nlev-1:]
	p := len(beta)

	for i := range gr {
		gr[i] = 0
	}

	eta := linpred(xcols, beta)

	for i, k := range cat {

		fk := float64(1)
		dk := float64(0)
		if k > 0 {
			fk = expit(alpha[k-1] + eta[i])
			dk = fk * (1 - fk)
		}
		fk1 := float64(0)
		dk1 := float64(0)
		if k < nlev-1 {
			fk1 = expit(alpha[k] + eta[i])
			dk1 = fk1 * (1 - fk1)
		}

		pr := fk - fk1
		if pr <= 0 {
			// The objective is -Inf here; the gradient is not used.
			return
		}

		if k > 0 {
			gr[k-1] += dk / pr
		}
		if k < nlev-1 {
			gr[k] -= dk1 / pr
		}
		for j := 0; j < p; j++ {
			gr[nlev-1+j] += xcols[j][i] * (dk - dk1) / pr
		}
	}
}

// Levels returns the distinct response values in increasing order.
func (m *Ordinal) Levels() []float64 {
	return m.levels
}

// Coeff returns the covariate coefficients.
func (m *Ordinal) Coeff() []float64 {
	return m.beta
}

// cdf returns P(Y <= levels[k] | eta) for each level index k.
func (m *Ordinal) cdf(eta float64) []float64 {

	nlev := len(m.levels)
	c := make([]float64, nlev)
	for k := 0; k < nlev-1; k++ {
		c[k] = 1 - expit(m.alpha[k]+eta)
	}
	c[nlev-1] = 1
	return c
}

// PredictQuantile returns the fitted conditional tau-th quantile for
// each row of a new design with the same columns as the training
// design.  The quantile is the step-function inverse of the fitted
// conditional distribution.
func (m *Ordinal) PredictQuantile(xcols [][]float64, tau float64) []float64 {

	eta := linpred(xcols, m.beta)

	out := make([]float64, len(eta))
	for i, e := range eta {
		c := m.cdf(e)
		q := m.levels[len(m.levels)-1]
		for k, cv := range c {
			if cv >= tau {
				q = m.levels[k]
				break
			}
		}
		out[i] = q
	}
	return out
}

// PredictMean returns the fitted conditional mean for each row of a
// new design.
func (m *Ordinal) PredictMean(xcols [][]float64) []float64 {

	eta := linpred(xcols, m.beta)

	out := make([]float64, len(eta))
	for i, e := range eta {
		c := m.cdf(e)
		var mn, prev float64
		for k, cv := range c {
			mn += m.levels[k] * (cv - prev)
			prev = cv
		}
		out[i] = mn
	}
	return out
}
