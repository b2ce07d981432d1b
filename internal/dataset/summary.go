package dataset

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ColumnSummary are descriptive statistics for one numeric column.
type ColumnSummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// MissingCounts returns the number of missing cells per column.
func (t *Table) MissingCounts() map[string]int {
	counts := make(map[string]int, len(t.Columns))
	for j, c := range t.Columns {
		n := 0
		for _, row := range t.Rows {
			if IsMissing(row[j]) {
				n++
			}
		}
		counts[c] = n
	}
	return counts
}

// Summarize computes descriptive statistics for every numeric column,
// skipping missing cells.
func (t *Table) Summarize() map[string]ColumnSummary {
	out := make(map[string]ColumnSummary)
	for name, typ := range t.ColumnTypes() {
		if typ != Numeric {
			continue
		}
		vals, ok := t.NumericColumn(name)
		if !ok {
			continue
		}

		present := vals[:0:0]
		for _, v := range vals {
			if !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		if len(present) == 0 {
			continue
		}

		mean, std := stat.MeanStdDev(present, nil)
		if len(present) == 1 {
			std = 0
		}

		s := ColumnSummary{Count: len(present), Mean: mean, Std: std, Min: present[0], Max: present[0]}
		for _, v := range present {
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
		}
		out[name] = s
	}
	return out
}
