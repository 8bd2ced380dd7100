package movstats

import (
	"fmt"

	"github.com/eipi10/movstats/regress"
	"github.com/eipi10/movstats/smooth"
	"github.com/eipi10/movstats/spline"
)

// quantileKind labels a quantile level, using the conventional short
// tags for the quartiles and the median.
func quantileKind(tau float64) string {
	switch tau {
	case 0.25:
		return "Q1"
	case 0.5:
		return "Median"
	case 0.75:
		return "Q3"
	}
	return fmt.Sprintf("Quantile %g", tau)
}

// overlays fits the configured auxiliary models to one stratum's raw
// data and evaluates their predictions at the window x locations.  A
// fit failure is fatal for the whole computation.
func (ms *MovStats) overlays(sx, sy, sstatus, targets []float64) ([]StatColumn, error) {

	c := ms.config
	var cols []StatColumn

	if c.Loess {

		xs, fit, err := smooth.Lowess(sx, sy, c.Span, 0)
		if err != nil {
			return nil, fmt.Errorf("loess overlay: %v", err)
		}
		pred, err := smooth.EvalAt(xs, fit, targets)
		if err != nil {
			return nil, fmt.Errorf("loess overlay: %v", err)
		}

		kind := "Mean"
		if ms.kind == KindBinary {
			kind = "Proportion"
		}
		cols = append(cols, StatColumn{Stat: Stat{Family: "LOESS", Kind: kind}, Values: pred})
	}

	if !(c.OLS || c.Logistic || c.Ordinal || c.Quantile || c.Hazard) {
		return cols, nil
	}

	basis, err := spline.NewBasis(sx, c.Knots)
	if err != nil {
		return nil, fmt.Errorf("spline overlay basis: %v", err)
	}

	design := basis.Design(sx)
	tdesign := basis.Design(targets)

	if c.OLS {
		m, err := regress.FitOLS(design, sy)
		if err != nil {
			return nil, fmt.Errorf("OLS overlay: %v", err)
		}
		cols = append(cols, StatColumn{
			Stat:   Stat{Family: "OLS", Kind: "Mean"},
			Values: m.Predict(tdesign),
		})
	}

	if c.Logistic {
		m, err := regress.FitLogistic(design, sy)
		if err != nil {
			return nil, fmt.Errorf("logistic overlay: %v", err)
		}
		cols = append(cols, StatColumn{
			Stat:   Stat{Family: "Logistic", Kind: "Proportion"},
			Values: m.Predict(tdesign),
		})
	}

	if c.Quantile {
		for _, tau := range c.Taus {
			m, err := regress.FitQuantReg(design, sy, tau)
			if err != nil {
				return nil, fmt.Errorf("quantile overlay (tau=%g): %v", tau, err)
			}
			cols = append(cols, StatColumn{
				Stat:   Stat{Family: "QR", Kind: quantileKind(tau)},
				Values: m.Predict(tdesign),
			})
		}
	}

	// The ordinal and hazard models supply their own intercepts.
	noint := design[1:]
	tnoint := tdesign[1:]

	if c.Ordinal {
		m, err := regress.FitOrdinal(noint, sy)
		if err != nil {
			return nil, fmt.Errorf("ordinal overlay: %v", err)
		}
		for _, tau := range c.Taus {
			cols = append(cols, StatColumn{
				Stat:   Stat{Family: "Ordinal", Kind: quantileKind(tau)},
				Values: m.PredictQuantile(tnoint, tau),
			})
		}
	}

	if c.Hazard {
		m, err := regress.FitCoxPH(noint, sy, sstatus)
		if err != nil {
			return nil, fmt.Errorf("hazard overlay: %v", err)
		}
		for _, t := range c.Times {
			cols = append(cols, StatColumn{
				Stat:   Stat{Family: "Hazard", Kind: incidenceKind(t)},
				Values: m.PredictCumInc(tnoint, t),
			})
		}
	}

	return cols, nil
}
