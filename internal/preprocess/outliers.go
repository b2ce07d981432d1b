package preprocess

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"price-backend/internal/dataset"
	"price-backend/pkg/errors"
)

// FilterIQROutliers removes rows whose value in the named numeric column
// falls outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR]. Rows with a missing cell in
// that column are kept, they are handled by imputation instead. Returns the
// filtered table and the number of rows dropped.
func FilterIQROutliers(t *dataset.Table, column string) (*dataset.Table, int, error) {
	vals, ok := t.NumericColumn(column)
	if !ok {
		return nil, 0, errors.NewValidationError(column, "numeric column required for outlier filtering")
	}

	present := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) < 4 {
		// Too few observations to estimate quartiles, keep everything.
		return t.Clone(), 0, nil
	}
	slices.Sort(present)

	q1 := stat.Quantile(0.25, stat.Empirical, present, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, present, nil)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr

	keep := make([]int, 0, t.NumRows())
	for i, v := range vals {
		if math.IsNaN(v) || (v >= lo && v <= hi) {
			keep = append(keep, i)
		}
	}
	return t.SelectRows(keep), t.NumRows() - len(keep), nil
}
