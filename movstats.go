package movstats

import (
	"fmt"
	"log"
	"sort"
)

// WindowMode selects how windows are formed around each evaluation
// point.
type WindowMode int

// CountWindow forms windows from a fixed number of rank-nearest
// observations, DistanceWindow from all observations within a fixed
// distance on the x axis, and Discrete treats each distinct x value as
// its own exact group with no windowing.
const (
	CountWindow WindowMode = iota
	DistanceWindow
	Discrete
)

// SmoothMethod selects the smoother applied to the windowed series.
type SmoothMethod int

// SmoothOff disables smoothing, RunLine uses a running linear fit, and
// Lowess uses locally weighted regression.
const (
	SmoothOff SmoothMethod = iota
	RunLine
	Lowess
)

// SmoothKeep controls what is retained when smoothing is on.
type SmoothKeep int

// SmoothReplace replaces the raw windowed values with the smoothed
// curve; SmoothBoth keeps both, storing the smoothed values under the
// "Moving-smoothed" family.
const (
	SmoothReplace SmoothKeep = iota
	SmoothBoth
)

// DiagMode controls the rendering of window diagnostics.
type DiagMode int

// DiagOff suppresses the rendering, DiagText produces an aligned
// plain-text table, and DiagStyled produces a styled table.
const (
	DiagOff DiagMode = iota
	DiagText
	DiagStyled
)

// ResponseKind tags the shape of the response, fixed once at entry.
type ResponseKind int

// KindContinuous is a general numeric response, KindBinary a 0/1
// response, and KindSurvival a (time, status) response pair.
const (
	KindContinuous ResponseKind = iota
	KindBinary
	KindSurvival
)

// Stat identifies a computed statistic column: the family names the
// estimator that produced it ("Moving", "LOESS", "OLS", ...) and the
// kind names the quantity ("Mean", "Median", "Proportion", ...).
type Stat struct {
	Family string
	Kind   string
}

// Label returns the display label for the statistic.
func (s Stat) Label() string {
	if s.Kind == "" {
		return s.Family
	}
	return s.Family + " " + s.Kind
}

// StatValue is one named scalar produced by an aggregator.  A value
// with Kind "N" feeds the sample size column.
type StatValue struct {
	Kind  string
	Value float64
}

// WindowData holds one window's member observations, as passed to an
// aggregator.
type WindowData struct {

	// X values of the member observations.
	X []float64

	// Response values (event/censoring times for a survival
	// response).
	Y []float64

	// Event indicators for a survival response, else nil.
	Status []float64

	// The evaluation times configured for incidence estimates.
	Times []float64
}

// Aggregator computes summary statistics over one window.  It must
// return the same set of kinds for every window.
type Aggregator func(WindowData) []StatValue

// Config specifies how the moving statistics are computed.  The zero
// value of each field means "use the default".
type Config struct {

	// By lists stratifying variable names; the computation is done
	// independently within each distinct combination of their
	// values.
	By []string

	// Mode selects count-based, distance-based, or discrete
	// windowing.
	Mode WindowMode

	// Eps is the window half-width: a count of observations in
	// CountWindow mode (default 15), a distance in x units in
	// DistanceWindow mode (required, no default).
	Eps float64

	// XInc is the spacing of evaluation points: ranks in
	// CountWindow mode (default max(floor(n/200), 1)), x units in
	// DistanceWindow mode (default span/100).
	XInc float64

	// XLimits optionally gives the evaluation range for
	// DistanceWindow mode.  When nil, the range runs from the
	// 10th-smallest to the 10th-largest x value.
	XLimits []float64

	// VarEps shrinks Eps per stratum so that small strata still
	// have at least 3 distinct evaluation points.  CountWindow mode
	// only.
	VarEps bool

	// Times gives the evaluation times for cumulative incidence
	// estimates.  Required for a survival response.
	Times []float64

	// Stat overrides the default aggregator.
	Stat Aggregator

	// Smooth selects the smoother for the windowed series, and
	// SmoothKeep what is retained.
	Smooth     SmoothMethod
	SmoothKeep SmoothKeep

	// Span is the lowess span (default 2/3); SmoothWidth is the
	// running-line half-width in points (default 7).
	Span        float64
	SmoothWidth int

	// Model overlays, each fit to the stratum's raw data and
	// evaluated at the window targets.
	Loess    bool
	OLS      bool
	Logistic bool
	Ordinal  bool
	Quantile bool
	Hazard   bool

	// Knots is the number of restricted cubic spline knots for the
	// spline overlays (default 5).
	Knots int

	// Taus lists the quantile levels for the quantile and ordinal
	// overlays (default 0.25, 0.5, 0.75).
	Taus []float64

	// Trans transforms x before windowing; ITrans is its inverse,
	// applied to the reported x values.  Both or neither must be
	// set.
	Trans  func(float64) float64
	ITrans func(float64) float64

	// Melt requests the long-form result.
	Melt bool

	// Diag selects the diagnostics rendering.
	Diag DiagMode

	// Levels optionally maps stratifying variable names to display
	// labels for their numeric level codes.
	Levels map[string]map[float64]string

	// Log, if not nil, receives warnings and progress messages.
	Log *log.Logger
}

// DefaultConfig returns a configuration with all defaults filled in.
func DefaultConfig() *Config {
	return &Config{
		Span:        2.0 / 3,
		SmoothWidth: 7,
		Knots:       5,
		Taus:        []float64{0.25, 0.5, 0.75},
	}
}

// MovStats is a configured moving statistics computation.
type MovStats struct {
	config *Config

	xname  string
	ynames []string
	kind   ResponseKind

	// Filtered data: x (transformed if Trans is set), response,
	// event status (survival only), and stratifying columns.
	x      []float64
	y      []float64
	status []float64
	by     [][]float64

	warnings []string
}

// New validates the configuration and prepares a moving statistics
// computation.  response names one column (continuous or binary) or
// two (time, status).  Rows with a missing x, response, or
// stratifying value are dropped.
func New(data Dataset, response []string, xvar string, config *Config) (*MovStats, error) {

	if config == nil {
		config = DefaultConfig()
	}

	if len(response) < 1 || len(response) > 2 {
		return nil, fmt.Errorf("movstats: need 1 or 2 response variables, got %d", len(response))
	}

	need := append([]string{xvar}, response...)
	need = append(need, config.By...)
	data, err := data.DropMissing(need...)
	if err != nil {
		return nil, err
	}

	ms := &MovStats{
		config: config,
		xname:  xvar,
		ynames: response,
	}

	ms.x, _ = data.Column(xvar)
	ms.y, _ = data.Column(response[0])
	if len(response) == 2 {
		ms.status, _ = data.Column(response[1])
		ms.kind = KindSurvival
	} else {
		ms.kind = responseKind(ms.y)
	}

	for _, na := range config.By {
		c, err := data.Column(na)
		if err != nil {
			return nil, err
		}
		ms.by = append(ms.by, c)
	}

	if err := ms.validate(); err != nil {
		return nil, err
	}

	if config.Trans != nil {
		z := make([]float64, len(ms.x))
		for i, v := range ms.x {
			z[i] = config.Trans(v)
		}
		ms.x = z
	}

	return ms, nil
}

// responseKind classifies a one-column response.
func responseKind(y []float64) ResponseKind {
	for _, v := range y {
		if v != 0 && v != 1 {
			return KindContinuous
		}
	}
	return KindBinary
}

func (ms *MovStats) validate() error {

	c := ms.config

	// Fill defaults for zero-valued fields.
	if c.Span <= 0 {
		c.Span = 2.0 / 3
	}
	if c.SmoothWidth < 1 {
		c.SmoothWidth = 7
	}
	if c.Knots == 0 {
		c.Knots = 5
	}
	if c.Taus == nil {
		c.Taus = []float64{0.25, 0.5, 0.75}
	}

	if ms.kind == KindSurvival && len(c.Times) == 0 {
		return fmt.Errorf("movstats: a (time, status) response requires Times")
	}
	if ms.kind != KindSurvival && len(c.Times) > 0 && c.Stat == nil {
		return fmt.Errorf("movstats: Times requires a (time, status) response")
	}

	if c.VarEps && c.Mode != CountWindow {
		return fmt.Errorf("movstats: VarEps is only supported with count-based windows")
	}

	switch c.Mode {
	case CountWindow:
		if c.Eps == 0 {
			c.Eps = 15
		}
	case DistanceWindow:
		if c.Eps <= 0 {
			return fmt.Errorf("movstats: distance-based windows require a positive Eps")
		}
		if c.XLimits != nil && len(c.XLimits) != 2 {
			return fmt.Errorf("movstats: XLimits must have exactly 2 elements, got %d", len(c.XLimits))
		}
	}

	if (c.Trans == nil) != (c.ITrans == nil) {
		return fmt.Errorf("movstats: Trans and ITrans must be set together")
	}

	if ms.kind == KindSurvival {
		if c.Loess || c.OLS || c.Logistic || c.Ordinal || c.Quantile {
			return fmt.Errorf("movstats: only the hazard overlay applies to a (time, status) response")
		}
	} else {
		if c.Hazard {
			return fmt.Errorf("movstats: the hazard overlay requires a (time, status) response")
		}
	}
	if c.Logistic && ms.kind != KindBinary {
		return fmt.Errorf("movstats: the logistic overlay requires a 0/1 response")
	}
	if (c.OLS || c.Ordinal || c.Quantile) && ms.kind != KindContinuous {
		return fmt.Errorf("movstats: the OLS, ordinal and quantile overlays require a continuous response")
	}

	for _, tau := range c.Taus {
		if tau <= 0 || tau >= 1 {
			return fmt.Errorf("movstats: quantile level %f is outside (0, 1)", tau)
		}
	}

	return nil
}

// warnf records a warning on the result and echoes it to the
// configured logger.
func (ms *MovStats) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	ms.warnings = append(ms.warnings, msg)
	if ms.config.Log != nil {
		ms.config.Log.Print(msg)
	}
}

// stratum is one group of rows sharing stratifying values.
type stratum struct {
	key []float64
	idx []int
}

// strata partitions the rows by the cross of the stratifying
// variables, in sorted key order.  With no stratifying variables there
// is a single stratum.
func (ms *MovStats) strata() []*stratum {

	n := len(ms.x)

	if len(ms.by) == 0 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return []*stratum{{idx: idx}}
	}

	groups := make(map[string]*stratum)
	var order []string
	for i := 0; i < n; i++ {
		key := make([]float64, len(ms.by))
		for j := range ms.by {
			key[j] = ms.by[j][i]
		}
		ks := fmt.Sprintf("%v", key)
		g, ok := groups[ks]
		if !ok {
			g = &stratum{key: key}
			groups[ks] = g
			order = append(order, ks)
		}
		g.idx = append(g.idx, i)
	}

	out := make([]*stratum, 0, len(groups))
	for _, ks := range order {
		out = append(out, groups[ks])
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].key, out[j].key
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})

	return out
}

// stratumLabel renders a stratum key for warnings and diagnostics.
func (ms *MovStats) stratumLabel(key []float64) string {

	if len(key) == 0 {
		return "all"
	}

	s := ""
	for j, na := range ms.config.By {
		if j > 0 {
			s += ", "
		}
		lab := fmt.Sprintf("%g", key[j])
		if m, ok := ms.config.Levels[na]; ok {
			if v, ok := m[key[j]]; ok {
				lab = v
			}
		}
		s += na + "=" + lab
	}
	return s
}

// Run computes the moving statistics.
func (ms *MovStats) Run() (*Result, error) {

	asm := newAssembler(ms)
	diag := new(Diagnostics)

	for _, st := range ms.strata() {

		label := ms.stratumLabel(st.key)

		if len(st.idx) < 10 {
			ms.warnf("movstats: stratum %s has %d observations, fewer than 10; skipped",
				label, len(st.idx))
			continue
		}

		sx := subset(ms.x, st.idx)
		sy := subset(ms.y, st.idx)
		var sstatus []float64
		if ms.status != nil {
			sstatus = subset(ms.status, st.idx)
		}

		sw, err := ms.buildWindows(sx)
		if err != nil {
			return nil, fmt.Errorf("stratum %s: %v", label, err)
		}

		if ms.config.Smooth != SmoothOff {
			for _, w := range sw.windows {
				if len(w.idx) < 2 {
					return nil, fmt.Errorf(
						"movstats: stratum %s (n=%d) produced a window with %d observations; "+
							"smoothing requires at least 2 per window - enable VarEps",
						label, len(st.idx), len(w.idx))
				}
			}
		}

		cols, nvals, err := ms.aggregate(sw, sx, sy, sstatus)
		if err != nil {
			return nil, fmt.Errorf("stratum %s: %v", label, err)
		}

		cols, err = ms.smoothColumns(sw, cols)
		if err != nil {
			return nil, fmt.Errorf("stratum %s: %v", label, err)
		}

		ov, err := ms.overlays(sx, sy, sstatus, sw.repx())
		if err != nil {
			return nil, fmt.Errorf("stratum %s: %v", label, err)
		}
		cols = append(cols, ov...)

		asm.add(st.key, sw.repx(), nvals, cols)

		diag.Rows = append(diag.Rows, StratumDiag{
			Label: label,
			N:     len(st.idx),
			Mean:  sw.meanSize(),
			Min:   sw.minSize(),
			Max:   sw.maxSize(),
			Eps:   sw.eps,
			XInc:  sw.xinc,
		})
	}

	rslt, err := asm.result()
	if err != nil {
		return nil, err
	}
	rslt.Diagnostics = diag
	rslt.Warnings = ms.warnings

	switch ms.config.Diag {
	case DiagText:
		rslt.DiagRendering = diag.String()
	case DiagStyled:
		rslt.DiagRendering = diag.Styled()
	}
	if rslt.DiagRendering != "" && ms.config.Log != nil {
		ms.config.Log.Print("\n" + rslt.DiagRendering)
	}

	return rslt, nil
}

func subset(x []float64, idx []int) []float64 {
	z := make([]float64, len(idx))
	for i, j := range idx {
		z[i] = x[j]
	}
	return z
}
