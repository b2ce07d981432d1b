package dataset

import (
	"math"
	"slices"
	"strconv"
)

// ColumnType classifies a column as numeric or categorical, mirroring how
// the raw CSV cells parse.
type ColumnType int

const (
	Numeric ColumnType = iota
	Categorical
)

func (t ColumnType) String() string {
	if t == Numeric {
		return "numeric"
	}
	return "categorical"
}

// Table is an ordered sequence of rows over a fixed column set. Cells are
// kept as raw strings until encoding; missing values are "", "NA", or "NaN".
// Transformations return new tables, they never mutate the receiver.
type Table struct {
	Columns []string
	Rows    [][]string
}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(cell string) bool {
	return cell == "" || cell == "NA" || cell == "NaN"
}

func (t *Table) NumRows() int { return len(t.Rows) }

func (t *Table) NumColumns() int { return len(t.Columns) }

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Column returns a copy of the named column's cells, or nil if the column
// does not exist.
func (t *Table) Column(name string) []string {
	j, ok := t.ColumnIndex(name)
	if !ok {
		return nil
	}
	col := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[j]
	}
	return col
}

// Row returns the ith row as a column name to cell mapping.
func (t *Table) Row(i int) map[string]string {
	rec := make(map[string]string, len(t.Columns))
	for j, c := range t.Columns {
		rec[c] = t.Rows[i][j]
	}
	return rec
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = slices.Clone(row)
	}
	return &Table{Columns: slices.Clone(t.Columns), Rows: rows}
}

// DropColumns returns a new table without the named columns. Unknown names
// are ignored.
func (t *Table) DropColumns(names ...string) *Table {
	keep := make([]int, 0, len(t.Columns))
	cols := make([]string, 0, len(t.Columns))
	for j, c := range t.Columns {
		if !slices.Contains(names, c) {
			keep = append(keep, j)
			cols = append(cols, c)
		}
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]string, len(keep))
		for k, j := range keep {
			out[k] = row[j]
		}
		rows[i] = out
	}
	return &Table{Columns: cols, Rows: rows}
}

// SelectRows returns a new table with only the rows at the given indices, in
// the given order.
func (t *Table) SelectRows(indices []int) *Table {
	rows := make([][]string, len(indices))
	for k, i := range indices {
		rows[k] = slices.Clone(t.Rows[i])
	}
	return &Table{Columns: slices.Clone(t.Columns), Rows: rows}
}

// ColumnTypes infers the type of every column: a column is numeric when all
// of its non-missing cells parse as floats and at least one cell is present.
func (t *Table) ColumnTypes() map[string]ColumnType {
	types := make(map[string]ColumnType, len(t.Columns))
	for j, c := range t.Columns {
		types[c] = inferColumnType(t.Rows, j)
	}
	return types
}

func inferColumnType(rows [][]string, col int) ColumnType {
	seen := false
	for _, row := range rows {
		cell := row[col]
		if IsMissing(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return Categorical
		}
		seen = true
	}
	if !seen {
		return Categorical
	}
	return Numeric
}

// NumericColumn parses the named column into floats. Missing cells come back
// as NaN so callers can impute them.
func (t *Table) NumericColumn(name string) ([]float64, bool) {
	j, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		cell := row[j]
		if IsMissing(cell) {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
