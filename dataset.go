package movstats

import (
	"fmt"
	"math"

	"github.com/kshedden/dstream/dstream"
)

// Dataset is an in-memory rectangular dataset with named columns, all
// of float64 type.  Categorical variables are represented by numeric
// level codes; display labels can be attached via Config.Levels.
type Dataset struct {
	names []string
	data  [][]float64
}

// NewDataset constructs a Dataset from column-oriented data.  All
// columns must have the same length.
func NewDataset(data [][]float64, names []string) (Dataset, error) {

	if len(data) != len(names) {
		return Dataset{}, fmt.Errorf("movstats: %d columns but %d names", len(data), len(names))
	}
	if len(data) == 0 {
		return Dataset{}, fmt.Errorf("movstats: empty dataset")
	}
	n := len(data[0])
	for j, col := range data {
		if len(col) != n {
			return Dataset{}, fmt.Errorf("movstats: column '%s' has length %d, expected %d",
				names[j], len(col), n)
		}
	}

	return Dataset{names: names, data: data}, nil
}

// FromDstream materializes a dstream into a Dataset, concatenating
// all chunks.  Every variable must have float64 type.
func FromDstream(da dstream.Dstream) (Dataset, error) {

	names := append([]string(nil), da.Names()...)
	cols := make([][]float64, len(names))

	da.Reset()
	for da.Next() {
		for j := range names {
			v, ok := da.GetPos(j).([]float64)
			if !ok {
				return Dataset{}, fmt.Errorf("movstats: variable '%s' is not float64", names[j])
			}
			cols[j] = append(cols[j], v...)
		}
	}

	return NewDataset(cols, names)
}

// Names returns the column names.
func (ds Dataset) Names() []string {
	return ds.names
}

// Data returns the column-oriented data.
func (ds Dataset) Data() [][]float64 {
	return ds.data
}

// NumObs returns the number of rows.
func (ds Dataset) NumObs() int {
	if len(ds.data) == 0 {
		return 0
	}
	return len(ds.data[0])
}

// pos returns the position of a named column, or -1.
func (ds Dataset) pos(name string) int {
	for j, na := range ds.names {
		if na == name {
			return j
		}
	}
	return -1
}

// Column returns the named column.
func (ds Dataset) Column(name string) ([]float64, error) {
	j := ds.pos(name)
	if j == -1 {
		return nil, fmt.Errorf("movstats: variable '%s' not found in dataset", name)
	}
	return ds.data[j], nil
}

// DropMissing returns a copy of the dataset with every row removed
// that has a NaN in any of the named columns.  All columns of the
// dataset are subset, not only the named ones.
func (ds Dataset) DropMissing(cols ...string) (Dataset, error) {

	var check [][]float64
	for _, na := range cols {
		c, err := ds.Column(na)
		if err != nil {
			return Dataset{}, err
		}
		check = append(check, c)
	}

	var keep []int
	for i := 0; i < ds.NumObs(); i++ {
		ok := true
		for _, c := range check {
			if math.IsNaN(c[i]) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}

	data := make([][]float64, len(ds.data))
	for j, col := range ds.data {
		z := make([]float64, len(keep))
		for i, k := range keep {
			z[i] = col[k]
		}
		data[j] = z
	}

	return Dataset{names: ds.names, data: data}, nil
}
