package preprocess

import (
	"fmt"
	"math/rand"

	"price-backend/internal/dataset"
	"price-backend/pkg/errors"
)

// Split shuffles the table's rows with the given seed and partitions them
// into train and test tables. The train table gets floor(ratio * n) rows and
// the test table the remainder, so the row counts always sum to n. The same
// seed always yields the same partition.
func Split(t *dataset.Table, ratio float64, seed int64) (train, test *dataset.Table, err error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, errors.Newf("split ratio must be in (0, 1), got %v", ratio)
	}

	n := t.NumRows()
	nTrain := int(ratio * float64(n))
	if nTrain == 0 || nTrain == n {
		return nil, nil, errors.NewValidationError("", fmt.Sprintf("dataset with %d rows is too small to split with ratio %g", n, ratio))
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return t.SelectRows(perm[:nTrain]), t.SelectRows(perm[nTrain:]), nil
}

// DropMissingTarget removes rows whose target cell is missing and reports
// how many were dropped.
func DropMissingTarget(t *dataset.Table, target string) (*dataset.Table, int, error) {
	j, ok := t.ColumnIndex(target)
	if !ok {
		return nil, 0, errors.NewValidationError(target, "target column not found")
	}

	keep := make([]int, 0, t.NumRows())
	for i, row := range t.Rows {
		if !dataset.IsMissing(row[j]) {
			keep = append(keep, i)
		}
	}
	return t.SelectRows(keep), t.NumRows() - len(keep), nil
}
