// Package spline provides a restricted cubic spline (natural spline)
// basis for flexible regression on a single continuous variable.  The
// basis is linear beyond the outermost knots, which keeps fitted
// curves stable in the tails where windowed data are thin.
package spline

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Default knot placement quantiles, indexed by the number of knots.
var knotQuantiles = map[int][]float64{
	3: {0.10, 0.50, 0.90},
	4: {0.05, 0.35, 0.65, 0.95},
	5: {0.05, 0.275, 0.50, 0.725, 0.95},
	6: {0.05, 0.23, 0.41, 0.59, 0.77, 0.95},
	7: {0.025, 0.1833, 0.3417, 0.50, 0.6583, 0.8167, 0.975},
}

// Basis is a restricted cubic spline basis with fixed knots.
type Basis struct {
	knots []float64
}

// NewBasis places nknots knots at standard quantiles of x and returns
// the resulting basis.  nknots must be between 3 and 7.
func NewBasis(x []float64, nknots int) (*Basis, error) {

	qs, ok := knotQuantiles[nknots]
	if !ok {
		return nil, fmt.Errorf("spline: unsupported knot count %d (must be 3-7)", nknots)
	}

	z := make([]float64, len(x))
	copy(z, x)
	sort.Float64s(z)

	knots := make([]float64, nknots)
	for i, q := range qs {
		knots[i] = stat.Quantile(q, stat.Empirical, z, nil)
	}

	return BasisWithKnots(knots)
}

// BasisWithKnots returns a basis using the given knot locations, which
// must be strictly increasing.
func BasisWithKnots(knots []float64) (*Basis, error) {

	if len(knots) < 3 {
		return nil, fmt.Errorf("spline: need at least 3 knots, got %d", len(knots))
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] <= knots[i-1] {
			return nil, fmt.Errorf("spline: knots must be strictly increasing (knot %d = %f, knot %d = %f)",
				i-1, knots[i-1], i, knots[i])
		}
	}

	return &Basis{knots: knots}, nil
}

// Knots returns the knot locations.
func (b *Basis) Knots() []float64 {
	return b.knots
}

// NumTerms returns the number of basis columns, excluding the
// intercept: the linear term plus one nonlinear term per interior
// knot.
func (b *Basis) NumTerms() int {
	return len(b.knots) - 1
}

func cube(u float64) float64 {
	if u <= 0 {
		return 0
	}
	return u * u * u
}

// Expand evaluates the basis at a single point, returning the linear
// term followed by the nonlinear terms.
func (b *Basis) Expand(x float64) []float64 {

	k := len(b.knots)
	t := b.knots
	norm := (t[k-1] - t[0]) * (t[k-1] - t[0])

	v := make([]float64, b.NumTerms())
	v[0] = x
	for j := 0; j < k-2; j++ {
		u := cube(x-t[j]) -
			cube(x-t[k-2])*(t[k-1]-t[j])/(t[k-1]-t[k-2]) +
			cube(x-t[k-1])*(t[k-2]-t[j])/(t[k-1]-t[k-2])
		v[j+1] = u / norm
	}

	return v
}

// Design returns the column-oriented design matrix for the given
// points: an intercept column followed by the basis columns.
func (b *Basis) Design(x []float64) [][]float64 {

	p := 1 + b.NumTerms()
	cols := make([][]float64, p)
	for j := range cols {
		cols[j] = make([]float64, len(x))
	}

	for i, xi := range x {
		cols[0][i] = 1
		for j, v := range b.Expand(xi) {
			cols[1+j][i] = v
		}
	}

	return cols
}

// Span returns the distance between the outermost knots.
func (b *Basis) Span() float64 {
	return math.Abs(b.knots[len(b.knots)-1] - b.knots[0])
}
