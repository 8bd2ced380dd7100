package surv

import (
	"math"
	"testing"
)

func TestKMUncensored(t *testing.T) {

	var time []float64
	var status []float64
	n := 20

	for i := 0; i < n; i++ {
		time = append(time, float64(i))
		status = append(status, 1)
	}

	km, err := NewKaplanMeier(time, status, nil)
	if err != nil {
		t.Fatal(err)
	}

	times := km.Time()
	nrisk := km.NumRisk()
	for i := 0; i < n; i++ {
		if times[i] != float64(i) {
			t.Fail()
		}
		if nrisk[i] != float64(n-i) {
			t.Fail()
		}
	}

	sp := km.SurvProb()
	for i := 0; i < n; i++ {
		p := 1 - float64(i+1)/float64(n)
		if math.Abs(sp[i]-p) > 1e-6 {
			t.Fail()
		}
	}
}

func TestKMCensored(t *testing.T) {

	// Events at 1 and 3, censoring at 2 and 4.
	time := []float64{1, 2, 3, 4}
	status := []float64{1, 0, 1, 0}

	km, err := NewKaplanMeier(time, status, nil)
	if err != nil {
		t.Fatal(err)
	}

	// S(1) = 3/4, S(3) = 3/4 * 1/2 = 3/8.
	times := km.Time()
	sp := km.SurvProb()
	if len(times) != 2 || times[0] != 1 || times[1] != 3 {
		t.Fatalf("unexpected event times %v", times)
	}
	if math.Abs(sp[0]-0.75) > 1e-10 {
		t.Errorf("S(1) = %f, expected 0.75", sp[0])
	}
	if math.Abs(sp[1]-0.375) > 1e-10 {
		t.Errorf("S(3) = %f, expected 0.375", sp[1])
	}
}

func TestKMStepEval(t *testing.T) {

	time := []float64{1, 2, 3, 4}
	status := []float64{1, 0, 1, 0}

	km, err := NewKaplanMeier(time, status, nil)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		t, s float64
	}{
		{0.5, 1},
		{1, 0.75},
		{2.5, 0.75},
		{3, 0.375},
		{10, 0.375},
	}
	for _, c := range cases {
		if math.Abs(km.SurvProbAt(c.t)-c.s) > 1e-10 {
			t.Errorf("S(%f) = %f, expected %f", c.t, km.SurvProbAt(c.t), c.s)
		}
		if math.Abs(km.CumIncAt(c.t)-(1-c.s)) > 1e-10 {
			t.Errorf("cumulative incidence at %f = %f, expected %f",
				c.t, km.CumIncAt(c.t), 1-c.s)
		}
	}
}

func TestKMWeighted(t *testing.T) {

	// Doubling a weight matches duplicating the observation.
	time1 := []float64{1, 1, 2, 3}
	status1 := []float64{1, 1, 0, 1}

	time2 := []float64{1, 2, 3}
	status2 := []float64{1, 0, 1}
	w2 := []float64{2, 1, 1}

	km1, err := NewKaplanMeier(time1, status1, nil)
	if err != nil {
		t.Fatal(err)
	}
	km2, err := NewKaplanMeier(time2, status2, w2)
	if err != nil {
		t.Fatal(err)
	}

	p1 := km1.SurvProb()
	p2 := km2.SurvProb()
	if len(p1) != len(p2) {
		t.Fatal("probability vectors differ in length")
	}
	for i := range p1 {
		if math.Abs(p1[i]-p2[i]) > 1e-10 {
			t.Errorf("weighted KM differs at %d: %f != %f", i, p1[i], p2[i])
		}
	}
}

func TestKMNoEvents(t *testing.T) {

	time := []float64{1, 2, 3}
	status := []float64{0, 0, 0}

	km, err := NewKaplanMeier(time, status, nil)
	if err != nil {
		t.Fatal(err)
	}

	if km.CumIncAt(5) != 0 {
		t.Errorf("all-censored incidence = %f, expected 0", km.CumIncAt(5))
	}
}

func TestKMErrors(t *testing.T) {

	if _, err := NewKaplanMeier(nil, nil, nil); err == nil {
		t.Error("expected error for empty data")
	}
	if _, err := NewKaplanMeier([]float64{1, 2}, []float64{1}, nil); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}
