package movstats

import "fmt"

// assembler accumulates per-stratum results into one wide table,
// restoring the stratifying columns.
type assembler struct {
	ms *MovStats
	t  *Table
}

func newAssembler(ms *MovStats) *assembler {

	t := &Table{
		XName:   ms.xname,
		ByNames: append([]string(nil), ms.config.By...),
	}
	t.By = make([][]string, len(t.ByNames))

	return &assembler{ms: ms, t: t}
}

// byLabel renders one stratifying value for display.
func (a *assembler) byLabel(name string, v float64) string {
	if m, ok := a.ms.config.Levels[name]; ok {
		if lab, ok := m[v]; ok {
			return lab
		}
	}
	return fmt.Sprintf("%g", v)
}

// add appends one stratum's rows.  The statistic columns must match
// across strata.
func (a *assembler) add(key []float64, repx, nvals []float64, cols []StatColumn) {

	t := a.t

	// Reported x goes back to the original scale.
	x := repx
	if a.ms.config.ITrans != nil {
		x = make([]float64, len(repx))
		for i, v := range repx {
			x[i] = a.ms.config.ITrans(v)
		}
	}

	if t.Stats == nil {
		t.Stats = make([]StatColumn, len(cols))
		for j := range cols {
			t.Stats[j].Stat = cols[j].Stat
		}
	}

	nr := len(x)
	t.X = append(t.X, x...)
	t.N = append(t.N, nvals...)

	for j, na := range t.ByNames {
		lab := a.byLabel(na, key[j])
		for i := 0; i < nr; i++ {
			t.By[j] = append(t.By[j], lab)
		}
	}

	for j := range cols {
		if cols[j].Stat != t.Stats[j].Stat {
			// Identical configuration yields identical columns
			// for every stratum.
			panic(fmt.Sprintf("movstats: statistic columns differ across strata: %v != %v",
				cols[j].Stat, t.Stats[j].Stat))
		}
		t.Stats[j].Values = append(t.Stats[j].Values, cols[j].Values...)
	}
}

// result finalizes the assembly, melting to long form if requested.
func (a *assembler) result() (*Result, error) {

	rslt := &Result{Wide: a.t}

	if a.ms.config.Melt {
		rslt.Long = melt(a.t)
	}

	return rslt, nil
}

// melt reshapes a wide table into one row per (x, stratum,
// statistic), carrying the structured family and kind tags.
func melt(t *Table) *LongTable {

	nr := t.NumRows()
	ns := len(t.Stats)

	lt := &LongTable{
		XName:   t.XName,
		ByNames: append([]string(nil), t.ByNames...),
	}
	lt.By = make([][]string, len(t.ByNames))

	lt.X = make([]float64, 0, nr*ns)
	lt.Family = make([]string, 0, nr*ns)
	lt.Kind = make([]string, 0, nr*ns)
	lt.Value = make([]float64, 0, nr*ns)

	for _, c := range t.Stats {
		lt.X = append(lt.X, t.X...)
		for j := range t.ByNames {
			lt.By[j] = append(lt.By[j], t.By[j]...)
		}
		for i := 0; i < nr; i++ {
			lt.Family = append(lt.Family, c.Stat.Family)
			lt.Kind = append(lt.Kind, c.Stat.Kind)
			lt.Value = append(lt.Value, c.Values[i])
		}
	}

	return lt
}
