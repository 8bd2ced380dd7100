package smooth

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// Both smoothers reproduce an exact line.
func TestSmoothersOnLine(t *testing.T) {

	n := 50
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = 2*x[i] + 1
	}

	xs, fit, err := RunningLine(x, y, 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := range xs {
		if math.Abs(fit[i]-(2*xs[i]+1)) > 1e-8 {
			t.Errorf("running line at %f: %f", xs[i], fit[i])
		}
	}

	xs, fit, err = Lowess(x, y, 0.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := range xs {
		if math.Abs(fit[i]-(2*xs[i]+1)) > 1e-8 {
			t.Errorf("lowess at %f: %f", xs[i], fit[i])
		}
	}
}

func TestSmoothSortsInput(t *testing.T) {

	x := []float64{3, 1, 2, 0, 4}
	y := []float64{7, 3, 5, 1, 9} // y = 2x+1

	xs, fit, err := RunningLine(x, y, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(xs, []float64{0, 1, 2, 3, 4}) {
		t.Fatalf("x not sorted: %v", xs)
	}
	for i := range xs {
		if math.Abs(fit[i]-(2*xs[i]+1)) > 1e-8 {
			t.Errorf("fit at %f: %f", xs[i], fit[i])
		}
	}
}

func TestLowessRobust(t *testing.T) {

	// One gross outlier on a line; robustness iterations pull the
	// fit back toward the line.
	n := 30
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = x[i]
	}
	y[15] = 1000

	_, fit0, err := Lowess(x, y, 0.4, 0)
	if err != nil {
		t.Fatal(err)
	}
	_, fit2, err := Lowess(x, y, 0.4, 2)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(fit2[15]-15) >= math.Abs(fit0[15]-15) {
		t.Errorf("robust fit (%f) no closer than raw fit (%f)", fit2[15], fit0[15])
	}
}

func TestEvalAt(t *testing.T) {

	xs := []float64{0, 1, 2, 3}
	fit := []float64{0, 2, 4, 6}

	out, err := EvalAt(xs, fit, []float64{-1, 0.5, 2, 2.5, 10})
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0, 1, 4, 5, 6}
	if !floats.EqualApprox(out, want, 1e-10) {
		t.Errorf("EvalAt = %v, want %v", out, want)
	}
}

func TestEvalAtDuplicates(t *testing.T) {

	// Duplicate abscissae are collapsed to their mean.
	xs := []float64{0, 1, 1, 2}
	fit := []float64{0, 1, 3, 4}

	out, err := EvalAt(xs, fit, []float64{1})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(out[0]-2) > 1e-10 {
		t.Errorf("collapsed value = %f, want 2", out[0])
	}
}

func TestSmoothErrors(t *testing.T) {

	if _, _, err := Lowess([]float64{1}, []float64{1}, 0.5, 0); err == nil {
		t.Error("expected error for a single point")
	}
	if _, _, err := Lowess([]float64{1, 2}, []float64{1, 2}, 1.5, 0); err == nil {
		t.Error("expected error for span > 1")
	}
	if _, _, err := RunningLine([]float64{1, 2}, []float64{1}, 2); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, _, err := RunningLine([]float64{1, 2}, []float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero halfwidth")
	}
}
