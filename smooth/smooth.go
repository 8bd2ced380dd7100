// Package smooth provides scatterplot smoothers for series of modest
// size: a locally weighted regression smoother (lowess) and a running
// linear fit.  Both return fitted values at the observed x points,
// sorted by x; EvalAt interpolates a fitted curve back onto an
// arbitrary grid.
package smooth

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"
)

// sortxy returns copies of x and y sorted by increasing x.
func sortxy(x, y []float64) ([]float64, []float64) {

	ind := make([]int, len(x))
	for i := range ind {
		ind[i] = i
	}
	sort.SliceStable(ind, func(i, j int) bool { return x[ind[i]] < x[ind[j]] })

	xs := make([]float64, len(x))
	ys := make([]float64, len(y))
	for i, j := range ind {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}

// wlinfit fits a weighted least squares line and returns the fitted
// value at x0.  If the x values in the window do not vary, the
// weighted mean is returned instead.
func wlinfit(x, y, w []float64, x0 float64) float64 {

	if x[len(x)-1] == x[0] {
		return stat.Mean(y, w)
	}

	alpha, beta := stat.LinearRegression(x, y, w, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return stat.Mean(y, w)
	}
	return alpha + beta*x0
}

// neighborhood returns the index range [lo, hi) of the r points
// nearest to x[i] in a sorted series.
func neighborhood(x []float64, i, r int) (int, int) {

	lo, hi := i, i+1
	for hi-lo < r {
		if lo == 0 {
			hi++
			continue
		}
		if hi == len(x) {
			lo--
			continue
		}
		if x[i]-x[lo-1] <= x[hi]-x[i] {
			lo--
		} else {
			hi++
		}
	}
	return lo, hi
}

// Lowess computes a locally weighted regression smooth of y on x with
// the given span (fraction of points in each local neighborhood) and
// the given number of robustifying iterations.  It returns the sorted
// x values and the fitted values at those points.
func Lowess(x, y []float64, span float64, iters int) ([]float64, []float64, error) {

	n := len(x)
	if n < 2 {
		return nil, nil, fmt.Errorf("smooth: lowess requires at least 2 points, got %d", n)
	}
	if len(y) != n {
		return nil, nil, fmt.Errorf("smooth: x and y have different lengths (%d != %d)", n, len(y))
	}
	if span <= 0 || span > 1 {
		return nil, nil, fmt.Errorf("smooth: span must be in (0, 1], got %f", span)
	}

	xs, ys := sortxy(x, y)

	r := int(math.Ceil(span * float64(n)))
	if r < 2 {
		r = 2
	}

	fit := make([]float64, n)
	rw := make([]float64, n)
	for i := range rw {
		rw[i] = 1
	}

	w := make([]float64, 0, r)
	for it := 0; it <= iters; it++ {

		for i := range xs {

			lo, hi := neighborhood(xs, i, r)

			// Tricube distance weights over the neighborhood,
			// times the robustness weights.
			d := xs[hi-1] - xs[i]
			if xs[i]-xs[lo] > d {
				d = xs[i] - xs[lo]
			}

			w = w[:0]
			for j := lo; j < hi; j++ {
				u := float64(0)
				if d > 0 {
					u = math.Abs(xs[j]-xs[i]) / d
				}
				t := 1 - u*u*u
				if t < 0 {
					t = 0
				}
				w = append(w, t*t*t*rw[j])
			}

			fit[i] = wlinfit(xs[lo:hi], ys[lo:hi], w, xs[i])
		}

		if it == iters {
			break
		}

		// Bisquare robustness weights from the residuals.
		res := make([]float64, n)
		for i := range res {
			res[i] = math.Abs(ys[i] - fit[i])
		}
		sr := make([]float64, n)
		copy(sr, res)
		sort.Float64s(sr)
		s := 6 * stat.Quantile(0.5, stat.Empirical, sr, nil)
		for i := range rw {
			if s == 0 {
				rw[i] = 1
				continue
			}
			u := res[i] / s
			if u >= 1 {
				rw[i] = 0
			} else {
				rw[i] = (1 - u*u) * (1 - u*u)
			}
		}
	}

	return xs, fit, nil
}

// RunningLine computes a running linear smooth: at each point, a least
// squares line is fit to the 2*halfwidth+1 rank-nearest points
// (truncated at the ends of the series) and evaluated at that point.
// It returns the sorted x values and the fitted values.
func RunningLine(x, y []float64, halfwidth int) ([]float64, []float64, error) {

	n := len(x)
	if n < 2 {
		return nil, nil, fmt.Errorf("smooth: running line requires at least 2 points, got %d", n)
	}
	if len(y) != n {
		return nil, nil, fmt.Errorf("smooth: x and y have different lengths (%d != %d)", n, len(y))
	}
	if halfwidth < 1 {
		return nil, nil, fmt.Errorf("smooth: halfwidth must be positive, got %d", halfwidth)
	}

	xs, ys := sortxy(x, y)

	fit := make([]float64, n)
	for i := range xs {
		lo := i - halfwidth
		if lo < 0 {
			lo = 0
		}
		hi := i + halfwidth + 1
		if hi > n {
			hi = n
		}
		fit[i] = wlinfit(xs[lo:hi], ys[lo:hi], nil, xs[i])
	}

	return xs, fit, nil
}

// EvalAt interpolates a fitted curve (xs sorted, fit aligned) onto the
// given targets using piecewise linear interpolation.  Duplicate x
// values are collapsed to their mean fitted value first, since the
// interpolant requires strictly increasing abscissae.  Targets outside
// the fitted range take the nearest endpoint value.
func EvalAt(xs, fit, targets []float64) ([]float64, error) {

	ux, uf := collapse(xs, fit)

	if len(ux) < 2 {
		// Degenerate curve: constant everywhere.
		out := make([]float64, len(targets))
		for i := range out {
			out[i] = uf[0]
		}
		return out, nil
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(ux, uf); err != nil {
		return nil, fmt.Errorf("smooth: interpolation failed: %v", err)
	}

	out := make([]float64, len(targets))
	for i, t := range targets {
		switch {
		case t <= ux[0]:
			out[i] = uf[0]
		case t >= ux[len(ux)-1]:
			out[i] = uf[len(uf)-1]
		default:
			out[i] = pl.Predict(t)
		}
	}

	return out, nil
}

// collapse averages fitted values sharing the same x.
func collapse(xs, fit []float64) ([]float64, []float64) {

	var ux, uf []float64
	i := 0
	for i < len(xs) {
		j := i
		var s float64
		for j < len(xs) && xs[j] == xs[i] {
			s += fit[j]
			j++
		}
		ux = append(ux, xs[i])
		uf = append(uf, s/float64(j-i))
		i = j
	}
	return ux, uf
}
