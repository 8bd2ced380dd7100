package regress

import (
	"fmt"
	"math"
)

// Logistic is a binomial regression fit with the logit link.
type Logistic struct {
	coeff []float64
}

// FitLogistic fits a logistic regression by iteratively reweighted
// least squares.  The response must take values in {0, 1}.
func FitLogistic(xcols [][]float64, y []float64) (*Logistic, error) {

	if len(xcols) == 0 {
		return nil, fmt.Errorf("regress: empty design")
	}
	n := len(y)
	if n < len(xcols) {
		return nil, fmt.Errorf("regress: %d observations for %d covariates", n, len(xcols))
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("regress: logistic response must be 0/1, got %f at row %d", v, i)
		}
	}

	const (
		maxiter = 100
		dtol    = 1e-8
	)

	p := len(xcols)
	coeff := make([]float64, p)
	mn := make([]float64, n)
	irlsw := make([]float64, n)
	adjy := make([]float64, n)

	var dev []float64

	for iter := 0; iter < maxiter; iter++ {

		lp := linpred(xcols, coeff)

		if iter == 0 {
			// Shrink the starting means toward 1/2.
			for i := range mn {
				mn[i] = (y[i] + 0.5) / 2
			}
		} else {
			for i := range mn {
				mn[i] = expit(lp[i])
			}
		}

		// Binomial deviance, for the convergence check.
		var devi float64
		for i := range y {
			if y[i] == 1 {
				devi -= 2 * math.Log(mn[i])
			} else {
				devi -= 2 * math.Log(1-mn[i])
			}
		}

		// IRLS working weights and adjusted response for the
		// logit link: the link derivative is 1/(mu*(1-mu)) and
		// the variance is mu*(1-mu).
		for i := range y {
			va := mn[i] * (1 - mn[i])
			if va < 1e-10 {
				va = 1e-10
			}
			irlsw[i] = va
			adjy[i] = lp[i] + (y[i]-mn[i])/va
		}

		var err error
		coeff, err = solveWLS(xcols, adjy, irlsw)
		if err != nil {
			return nil, err
		}

		dev = append(dev, devi)
		if len(dev) > 3 && math.Abs(dev[len(dev)-1]-dev[len(dev)-2]) < dtol {
			break
		}
	}

	return &Logistic{coeff: coeff}, nil
}

// Coeff returns the fitted coefficients on the logit scale.
func (m *Logistic) Coeff() []float64 {
	return m.coeff
}

// Predict returns fitted probabilities for a new design with the same
// columns as the training design.
func (m *Logistic) Predict(xcols [][]float64) []float64 {

	pr := linpred(xcols, m.coeff)
	for i, v := range pr {
		pr[i] = expit(v)
	}
	return pr
}
