package dataset_test

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"price-backend/internal/dataset"
	"price-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const housingCSV = `square_footage,bedrooms,bathrooms,neighborhood,price
1500,3,2,downtown,230000
2100,4,2,suburb,310000
900,2,1,,150000
1800,NA,2,suburb,275000
`

func TestLoadCSVReader(t *testing.T) {
	table, err := dataset.LoadCSVReader(strings.NewReader(housingCSV), "housing.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"square_footage", "bedrooms", "bathrooms", "neighborhood", "price"}, table.Columns)
	assert.Equal(t, 4, table.NumRows())
	assert.Equal(t, "310000", table.Row(1)["price"])
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := dataset.LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)

	var daErr *errors.DataAccessError
	assert.ErrorAs(t, err, &daErr)
}

func TestLoadCSVRaggedRows(t *testing.T) {
	_, err := dataset.LoadCSVReader(strings.NewReader("a,b\n1,2\n3\n"), "bad.csv")
	require.Error(t, err)

	var daErr *errors.DataAccessError
	assert.ErrorAs(t, err, &daErr)
}

func TestLoadCSVBadHeader(t *testing.T) {
	_, err := dataset.LoadCSVReader(strings.NewReader("a,,c\n1,2,3\n"), "bad.csv")
	require.Error(t, err)

	_, err = dataset.LoadCSVReader(strings.NewReader("a,b,a\n1,2,3\n"), "bad.csv")
	require.Error(t, err)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	table, err := dataset.LoadCSVReader(strings.NewReader(housingCSV), "housing.csv")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, dataset.WriteCSV(table, path))

	reloaded, err := dataset.LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, table.Columns, reloaded.Columns)
	assert.Equal(t, table.Rows, reloaded.Rows)
}

func TestColumnTypes(t *testing.T) {
	table, err := dataset.LoadCSVReader(strings.NewReader(housingCSV), "housing.csv")
	require.NoError(t, err)

	types := table.ColumnTypes()
	assert.Equal(t, dataset.Numeric, types["square_footage"])
	assert.Equal(t, dataset.Numeric, types["bedrooms"]) // NA cells do not change the type
	assert.Equal(t, dataset.Categorical, types["neighborhood"])
	assert.Equal(t, dataset.Numeric, types["price"])
}

func TestColumnTypesAllMissing(t *testing.T) {
	table := &dataset.Table{Columns: []string{"x"}, Rows: [][]string{{""}, {"NA"}}}
	assert.Equal(t, dataset.Categorical, table.ColumnTypes()["x"])
}

func TestNumericColumn(t *testing.T) {
	table, err := dataset.LoadCSVReader(strings.NewReader(housingCSV), "housing.csv")
	require.NoError(t, err)

	beds, ok := table.NumericColumn("bedrooms")
	require.True(t, ok)
	require.Len(t, beds, 4)
	assert.Equal(t, 3.0, beds[0])
	assert.True(t, math.IsNaN(beds[3])) // NA parses to NaN

	_, ok = table.NumericColumn("neighborhood")
	assert.False(t, ok)
}

func TestMissingCounts(t *testing.T) {
	table, err := dataset.LoadCSVReader(strings.NewReader(housingCSV), "housing.csv")
	require.NoError(t, err)

	counts := table.MissingCounts()
	assert.Equal(t, 0, counts["square_footage"])
	assert.Equal(t, 1, counts["bedrooms"])
	assert.Equal(t, 1, counts["neighborhood"])
}

func TestSummarize(t *testing.T) {
	table, err := dataset.LoadCSVReader(strings.NewReader(housingCSV), "housing.csv")
	require.NoError(t, err)

	summary := table.Summarize()
	require.Contains(t, summary, "square_footage")
	sqft := summary["square_footage"]
	assert.Equal(t, 4, sqft.Count)
	assert.InDelta(t, 1575, sqft.Mean, 1e-9)
	assert.Equal(t, 900.0, sqft.Min)
	assert.Equal(t, 2100.0, sqft.Max)

	// Missing cells are skipped, not counted as zero.
	assert.Equal(t, 3, summary["bedrooms"].Count)

	assert.NotContains(t, summary, "neighborhood")
}

func TestDropAndSelect(t *testing.T) {
	table, err := dataset.LoadCSVReader(strings.NewReader(housingCSV), "housing.csv")
	require.NoError(t, err)

	dropped := table.DropColumns("neighborhood", "unknown")
	assert.Equal(t, []string{"square_footage", "bedrooms", "bathrooms", "price"}, dropped.Columns)
	assert.Equal(t, 4, dropped.NumRows())

	picked := table.SelectRows([]int{2, 0})
	require.Equal(t, 2, picked.NumRows())
	assert.Equal(t, "900", picked.Row(0)["square_footage"])
	assert.Equal(t, "1500", picked.Row(1)["square_footage"])

	// Originals are untouched.
	assert.Equal(t, 5, table.NumColumns())
}

func TestSynthetic(t *testing.T) {
	table := dataset.Synthetic(100, 7)
	assert.Equal(t, []string{"square_footage", "bedrooms", "bathrooms", "price"}, table.Columns)
	assert.Equal(t, 100, table.NumRows())

	// Same seed, same data.
	again := dataset.Synthetic(100, 7)
	assert.Equal(t, table.Rows, again.Rows)

	types := table.ColumnTypes()
	for _, col := range table.Columns {
		assert.Equal(t, dataset.Numeric, types[col], col)
	}
}
