package regress

import "fmt"

// OLS is a least squares fit.
type OLS struct {
	coeff []float64
}

// FitOLS fits a linear model by least squares.  xcols is the
// column-oriented design, including the intercept column if one is
// wanted.
func FitOLS(xcols [][]float64, y []float64) (*OLS, error) {

	if len(xcols) == 0 {
		return nil, fmt.Errorf("regress: empty design")
	}
	if len(y) < len(xcols) {
		return nil, fmt.Errorf("regress: %d observations for %d covariates", len(y), len(xcols))
	}

	coeff, err := solveWLS(xcols, y, nil)
	if err != nil {
		return nil, err
	}

	return &OLS{coeff: coeff}, nil
}

// Coeff returns the fitted coefficients.
func (m *OLS) Coeff() []float64 {
	return m.coeff
}

// Predict returns fitted values for a new design with the same
// columns as the training design.
func (m *OLS) Predict(xcols [][]float64) []float64 {
	return linpred(xcols, m.coeff)
}
