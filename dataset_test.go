package movstats

import (
	"math"
	"testing"

	"github.com/kshedden/dstream/dstream"
	"gonum.org/v1/gonum/floats"
)

func TestNewDatasetErrors(t *testing.T) {

	if _, err := NewDataset([][]float64{{1, 2}}, []string{"a", "b"}); err == nil {
		t.Error("expected error for mismatched names")
	}
	if _, err := NewDataset([][]float64{{1, 2}, {1}}, []string{"a", "b"}); err == nil {
		t.Error("expected error for ragged columns")
	}
	if _, err := NewDataset(nil, nil); err == nil {
		t.Error("expected error for an empty dataset")
	}

	ds, err := NewDataset([][]float64{{1, 2}}, []string{"a"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ds.Column("b"); err == nil {
		t.Error("expected error for an unknown column")
	}
}

func TestDropMissing(t *testing.T) {

	nan := math.NaN()
	ds, err := NewDataset([][]float64{
		{1, 2, nan, 4, 5},
		{1, nan, 3, 4, 5},
		{9, 8, 7, 6, nan},
	}, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}

	// Only the checked columns decide which rows go, but all columns
	// are subset.
	dr, err := ds.DropMissing("a", "b")
	if err != nil {
		t.Fatal(err)
	}

	if dr.NumObs() != 3 {
		t.Fatalf("%d rows after drop, expected 3", dr.NumObs())
	}
	a, _ := dr.Column("a")
	c, _ := dr.Column("c")
	if !floats.Equal(a, []float64{1, 4, 5}) {
		t.Errorf("column a = %v", a)
	}
	if !floats.Equal(c[0:2], []float64{9, 6}) || !math.IsNaN(c[2]) {
		t.Errorf("column c = %v", c)
	}

	if _, err := ds.DropMissing("zzz"); err == nil {
		t.Error("expected error for an unknown column")
	}
}

func TestFromDstream(t *testing.T) {

	// Two chunks per variable; they are concatenated in order.
	var z [][]interface{}
	z = append(z, []interface{}{[]float64{1, 2}, []float64{3}})
	z = append(z, []interface{}{[]float64{4, 5}, []float64{6}})
	da := dstream.NewFromArrays(z, []string{"x", "y"})

	ds, err := FromDstream(da)
	if err != nil {
		t.Fatal(err)
	}

	if ds.NumObs() != 3 {
		t.Fatalf("%d rows, expected 3", ds.NumObs())
	}
	x, _ := ds.Column("x")
	y, _ := ds.Column("y")
	if !floats.Equal(x, []float64{1, 2, 3}) {
		t.Errorf("x = %v", x)
	}
	if !floats.Equal(y, []float64{4, 5, 6}) {
		t.Errorf("y = %v", y)
	}
}
