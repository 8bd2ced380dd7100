package regress

import (
	"fmt"
	"math"
)

// QuantReg is a linear quantile regression fit.
type QuantReg struct {
	tau   float64
	coeff []float64
}

// FitQuantReg fits a linear model for the tau-th conditional quantile
// of y by iteratively reweighted least squares (minimizing a smoothed
// version of the check loss).
func FitQuantReg(xcols [][]float64, y []float64, tau float64) (*QuantReg, error) {

	if tau <= 0 || tau >= 1 {
		return nil, fmt.Errorf("regress: quantile level must be in (0, 1), got %f", tau)
	}
	if len(xcols) == 0 {
		return nil, fmt.Errorf("regress: empty design")
	}
	n := len(y)
	if n < len(xcols) {
		return nil, fmt.Errorf("regress: %d observations for %d covariates", n, len(xcols))
	}

	const (
		maxiter = 200
		ctol    = 1e-7
		rfloor  = 1e-6
	)

	// Least squares start.
	coeff, err := solveWLS(xcols, y, nil)
	if err != nil {
		return nil, err
	}

	w := make([]float64, n)
	for iter := 0; iter < maxiter; iter++ {

		lp := linpred(xcols, coeff)

		// Check-loss weights: tau/|r| above the line, (1-tau)/|r|
		// below, with residuals floored to keep the weights
		// bounded.
		for i := range y {
			r := math.Abs(y[i] - lp[i])
			if r < rfloor {
				r = rfloor
			}
			if y[i] > lp[i] {
				w[i] = tau / r
			} else {
				w[i] = (1 - tau) / r
			}
		}

		next, err := solveWLS(xcols, y, w)
		if err != nil {
			return nil, err
		}

		var dd float64
		for j := range coeff {
			dd += math.Abs(next[j] - coeff[j])
		}
		coeff = next
		if dd < ctol {
			break
		}
	}

	return &QuantReg{tau: tau, coeff: coeff}, nil
}

// Tau returns the quantile level of the fit.
func (m *QuantReg) Tau() float64 {
	return m.tau
}

// Coeff returns the fitted coefficients.
func (m *QuantReg) Coeff() []float64 {
	return m.coeff
}

// Predict returns fitted conditional quantiles for a new design with
// the same columns as the training design.
func (m *QuantReg) Predict(xcols [][]float64) []float64 {
	return linpred(xcols, m.coeff)
}
