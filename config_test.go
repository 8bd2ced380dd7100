package movstats

import "testing"

func TestConfigErrors(t *testing.T) {

	n := 40
	x := make([]float64, n)
	y := make([]float64, n)
	tm := make([]float64, n)
	ev := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = float64(i % 5)
		tm[i] = float64(1 + i%9)
		ev[i] = float64(i % 2)
	}

	data, err := NewDataset([][]float64{x, y, tm, ev}, []string{"age", "chol", "futime", "status"})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		response []string
		config   func(*Config)
	}{
		{
			"varEps with distance windows",
			[]string{"chol"},
			func(c *Config) { c.Mode = DistanceWindow; c.Eps = 5; c.VarEps = true },
		},
		{
			"distance windows without eps",
			[]string{"chol"},
			func(c *Config) { c.Mode = DistanceWindow },
		},
		{
			"malformed x limits",
			[]string{"chol"},
			func(c *Config) { c.Mode = DistanceWindow; c.Eps = 5; c.XLimits = []float64{1} },
		},
		{
			"survival response without times",
			[]string{"futime", "status"},
			func(c *Config) {},
		},
		{
			"times without a survival response",
			[]string{"chol"},
			func(c *Config) { c.Times = []float64{5} },
		},
		{
			"trans without itrans",
			[]string{"chol"},
			func(c *Config) { c.Trans = func(v float64) float64 { return v } },
		},
		{
			"logistic overlay on a continuous response",
			[]string{"chol"},
			func(c *Config) { c.Logistic = true },
		},
		{
			"hazard overlay without a survival response",
			[]string{"chol"},
			func(c *Config) { c.Hazard = true },
		},
		{
			"ols overlay on a survival response",
			[]string{"futime", "status"},
			func(c *Config) { c.Times = []float64{5}; c.OLS = true },
		},
		{
			"quantile level outside (0,1)",
			[]string{"chol"},
			func(c *Config) { c.Quantile = true; c.Taus = []float64{0.5, 1.5} },
		},
		{
			"three response variables",
			[]string{"chol", "futime", "status"},
			func(c *Config) {},
		},
		{
			"unknown x variable",
			[]string{"chol"},
			func(c *Config) {},
		},
	}

	for _, tc := range cases {
		config := DefaultConfig()
		tc.config(config)

		xvar := "age"
		if tc.name == "unknown x variable" {
			xvar = "zzz"
		}

		if _, err := New(data, tc.response, xvar, config); err == nil {
			t.Errorf("%s: expected a configuration error", tc.name)
		}
	}
}

// Times combined with a custom aggregator is allowed on any response;
// the times are passed through to the aggregator.
func TestTimesWithCustomStat(t *testing.T) {

	n := 40
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = float64(i % 3)
	}

	data, err := NewDataset([][]float64{x, y}, []string{"age", "chol"})
	if err != nil {
		t.Fatal(err)
	}

	config := DefaultConfig()
	config.Times = []float64{2, 4}
	config.Stat = func(w WindowData) []StatValue {
		return []StatValue{{Kind: "T", Value: float64(len(w.Times))}}
	}

	ms, err := New(data, []string{"chol"}, "age", config)
	if err != nil {
		t.Fatal(err)
	}
	rslt, err := ms.Run()
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range rslt.Wide.Column("Moving T") {
		if v != 2 {
			t.Errorf("row %d: %f times seen by the aggregator", i, v)
		}
	}
}
