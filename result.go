package movstats

// Table is the wide-form result: one row per evaluation point per
// stratum, one column per computed statistic.
type Table struct {

	// XName is the independent variable's name; X holds its
	// representative value for each row, on the original
	// (untransformed) scale.
	XName string
	X     []float64

	// ByNames and By hold the restored stratifying columns, as
	// display labels.  By[j] is parallel to X.
	ByNames []string
	By      [][]string

	// N is the number of observations contributing to each row.
	N []float64

	// Stats holds the statistic columns, all parallel to X.
	Stats []StatColumn
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	return len(t.X)
}

// Column returns the values of the statistic column with the given
// display label, or nil if there is no such column.
func (t *Table) Column(label string) []float64 {
	for _, c := range t.Stats {
		if c.Stat.Label() == label {
			return c.Values
		}
	}
	return nil
}

// LongTable is the melted result: one row per (evaluation point,
// stratum, statistic).
type LongTable struct {
	XName string
	X     []float64

	ByNames []string
	By      [][]string

	// Family and Kind identify the statistic of each row; Value is
	// its value.
	Family []string
	Kind   []string
	Value  []float64
}

// NumRows returns the number of rows in the table.
func (t *LongTable) NumRows() int {
	return len(t.X)
}

// Result holds the computed moving statistics.
type Result struct {

	// Wide is always populated; Long only when melting was
	// requested.
	Wide *Table
	Long *LongTable

	// Diagnostics holds the per-stratum window diagnostics, and
	// DiagRendering their formatted form when a rendering mode was
	// configured.
	Diagnostics   *Diagnostics
	DiagRendering string

	// Warnings accumulated during the computation (e.g. skipped
	// strata).
	Warnings []string
}
