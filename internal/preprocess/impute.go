package preprocess

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"price-backend/pkg/errors"
)

// fillValue computes the imputation value for one numeric column from its
// non-missing entries.
func fillValue(vals []float64, strategy string, constant float64) (float64, error) {
	if strategy == ImputeConstant {
		return constant, nil
	}

	present := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return 0, errors.Newf("cannot impute a column with no observed values")
	}

	switch strategy {
	case ImputeMean:
		return stat.Mean(present, nil), nil
	case ImputeMedian:
		slices.Sort(present)
		return stat.Quantile(0.5, stat.Empirical, present, nil), nil
	default:
		return 0, errors.Newf("unknown impute strategy %q", strategy)
	}
}

// imputed replaces NaN entries with the fill value, returning a new slice.
func imputed(vals []float64, fill float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			out[i] = fill
		} else {
			out[i] = v
		}
	}
	return out
}
