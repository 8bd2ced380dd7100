package movstats

import (
	"math"
	"sort"
)

// window is one evaluation point and its member observations,
// identified by stratum-relative row indices.
type window struct {
	repx float64
	idx  []int
}

// stratumWindows holds the constructed windows for one stratum along
// with the effective window parameters, which feed the diagnostics.
type stratumWindows struct {
	windows []window
	eps     float64
	xinc    float64
}

// repx returns the representative x of each window.
func (sw *stratumWindows) repx() []float64 {
	z := make([]float64, len(sw.windows))
	for i, w := range sw.windows {
		z[i] = w.repx
	}
	return z
}

func (sw *stratumWindows) meanSize() float64 {
	var s float64
	for _, w := range sw.windows {
		s += float64(len(w.idx))
	}
	return s / float64(len(sw.windows))
}

func (sw *stratumWindows) minSize() float64 {
	m := math.Inf(1)
	for _, w := range sw.windows {
		if float64(len(w.idx)) < m {
			m = float64(len(w.idx))
		}
	}
	return m
}

func (sw *stratumWindows) maxSize() float64 {
	m := math.Inf(-1)
	for _, w := range sw.windows {
		if float64(len(w.idx)) > m {
			m = float64(len(w.idx))
		}
	}
	return m
}

// buildWindows constructs the evaluation points and window membership
// for one stratum.
func (ms *MovStats) buildWindows(sx []float64) (*stratumWindows, error) {

	switch ms.config.Mode {
	case CountWindow:
		return ms.countWindows(sx), nil
	case DistanceWindow:
		return ms.distanceWindows(sx), nil
	default:
		return ms.discreteWindows(sx), nil
	}
}

// argsortx returns the indices that sort sx increasing.
func argsortx(sx []float64) []int {
	ind := make([]int, len(sx))
	for i := range ind {
		ind[i] = i
	}
	sort.SliceStable(ind, func(i, j int) bool { return sx[ind[i]] < sx[ind[j]] })
	return ind
}

// countWindows builds rank-based windows: evaluation points at ranks
// 10 through n-9 spaced xinc apart, each window spanning eps ranks on
// either side.  The representative x is the mean x of the window's
// members.
func (ms *MovStats) countWindows(sx []float64) *stratumWindows {

	n := len(sx)
	ind := argsortx(sx)

	xinc := int(ms.config.XInc)
	if xinc < 1 {
		xinc = n / 200
		if xinc < 1 {
			xinc = 1
		}
	}

	first, last := 10, n-9
	if last < first {
		// Small stratum: a single central evaluation point.
		first = (n + 1) / 2
		last = first
	}

	eps := int(ms.config.Eps)
	if ms.config.VarEps {
		// The largest half-width not exceeding eps that keeps at
		// least 3 distinct evaluation points inside
		// [first+eps, last-eps].
		e := (last - first - 2*xinc) / 2
		if e < 1 {
			e = 1
		}
		if e < eps {
			eps = e
		}
	}

	sw := &stratumWindows{eps: float64(eps), xinc: float64(xinc)}

	for r := first; r <= last; r += xinc {

		lo := r - eps
		if lo < 1 {
			lo = 1
		}
		hi := r + eps
		if hi > n {
			hi = n
		}

		idx := make([]int, 0, hi-lo+1)
		var s float64
		for k := lo; k <= hi; k++ {
			idx = append(idx, ind[k-1])
			s += sx[ind[k-1]]
		}

		sw.windows = append(sw.windows, window{
			repx: s / float64(len(idx)),
			idx:  idx,
		})
	}

	return sw
}

// distanceWindows builds x-distance windows: evaluation points evenly
// spaced over the requested (or default) limits, each window holding
// the observations within eps x units.  The representative x is the
// evaluation point itself.
func (ms *MovStats) distanceWindows(sx []float64) *stratumWindows {

	n := len(sx)
	z := append([]float64(nil), sx...)
	sort.Float64s(z)

	var xl, xh float64
	if ms.config.XLimits != nil {
		xl, xh = ms.config.XLimits[0], ms.config.XLimits[1]
	} else {
		// 10th-smallest to 10th-largest, falling back to the full
		// range when the stratum is too small for the inset.
		if n >= 20 {
			xl, xh = z[9], z[n-10]
		} else {
			xl, xh = z[0], z[n-1]
		}
		if xh-xl >= 25 {
			xl = math.Round(xl)
			xh = math.Round(xh)
		}
	}

	xinc := ms.config.XInc
	if xinc <= 0 {
		xinc = (xh - xl) / 100
	}
	if xinc <= 0 {
		xinc = 1
	}

	eps := ms.config.Eps

	sw := &stratumWindows{eps: eps, xinc: xinc}

	// The grid tolerance keeps the upper limit in the sequence
	// despite accumulated rounding.
	tol := xinc * 1e-8
	for t := xl; t <= xh+tol; t += xinc {

		var idx []int
		for i, v := range sx {
			if v >= t-eps && v <= t+eps {
				idx = append(idx, i)
			}
		}

		sw.windows = append(sw.windows, window{repx: t, idx: idx})
	}

	return sw
}

// discreteWindows forms one exact group per distinct x value.
func (ms *MovStats) discreteWindows(sx []float64) *stratumWindows {

	groups := make(map[float64][]int)
	for i, v := range sx {
		groups[v] = append(groups[v], i)
	}

	levels := make([]float64, 0, len(groups))
	for v := range groups {
		levels = append(levels, v)
	}
	sort.Float64s(levels)

	sw := &stratumWindows{xinc: math.NaN(), eps: 0}
	for _, v := range levels {
		sw.windows = append(sw.windows, window{repx: v, idx: groups[v]})
	}

	return sw
}
