// Package regress provides the small regression fitters used as model
// overlays for moving statistics: least squares, binomial IRLS,
// quantile regression, proportional odds ordinal regression, and Cox
// proportional hazards with a Breslow baseline.  Designs are
// column-oriented ([][]float64, one slice per covariate), matching the
// dataset layout used throughout the module.
package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// linpred computes the linear predictor X*b for a column-oriented
// design.
func linpred(xcols [][]float64, coeff []float64) []float64 {

	n := len(xcols[0])
	lp := make([]float64, n)
	for j, col := range xcols {
		b := coeff[j]
		for i, v := range col {
			lp[i] += b * v
		}
	}
	return lp
}

// solveWLS solves the weighted least squares problem with response z
// and weights w (nil for unit weights), returning the coefficients.
// The moment matrices are accumulated column-by-column and solved with
// gonum.
func solveWLS(xcols [][]float64, z, w []float64) ([]float64, error) {

	p := len(xcols)
	xtx := make([]float64, p*p)
	xty := make([]float64, p)

	for j1 := 0; j1 < p; j1++ {

		xda := xcols[j1]
		var u float64
		if w != nil {
			for i := range z {
				u += z[i] * xda[i] * w[i]
			}
		} else {
			for i := range z {
				u += z[i] * xda[i]
			}
		}
		xty[j1] = u

		for j2 := 0; j2 <= j1; j2++ {
			xdb := xcols[j2]
			var u float64
			if w != nil {
				for i := range xda {
					u += xda[i] * xdb[i] * w[i]
				}
			} else {
				for i := range xda {
					u += xda[i] * xdb[i]
				}
			}
			xtx[j1*p+j2] = u
			xtx[j2*p+j1] = u
		}
	}

	var sol mat.VecDense
	xtxm := mat.NewDense(p, p, xtx)
	xtyv := mat.NewVecDense(p, xty)
	if err := sol.SolveVec(xtxm, xtyv); err != nil {
		return nil, fmt.Errorf("regress: singular design (%d covariates, %d observations)",
			p, len(z))
	}

	coeff := make([]float64, p)
	copy(coeff, sol.RawVector().Data)
	return coeff, nil
}

func expit(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
