// Package metrics computes regression accuracy metrics. All functions are
// pure: they read their inputs and return a scalar.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"price-backend/pkg/errors"
)

func validate(op string, yTrue, yPred *mat.VecDense) error {
	if yTrue.Len() == 0 {
		return errors.Newf("%s: empty vector", op)
	}
	if yPred.Len() != yTrue.Len() {
		return errors.Newf("%s: length mismatch, %d vs %d", op, yTrue.Len(), yPred.Len())
	}
	return nil
}

// MSE is the mean squared error.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := validate("MSE", yTrue, yPred); err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < yTrue.Len(); i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(yTrue.Len()), nil
}

// RMSE is the root mean squared error.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE is the mean absolute error.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := validate("MAE", yTrue, yPred); err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < yTrue.Len(); i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(yTrue.Len()), nil
}

// R2 is the coefficient of determination, 1 - RSS/TSS.
func R2(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := validate("R2", yTrue, yPred); err != nil {
		return 0, err
	}

	n := yTrue.Len()
	var mean float64
	for i := 0; i < n; i++ {
		mean += yTrue.AtVec(i)
	}
	mean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		yt := yTrue.AtVec(i)
		tss += (yt - mean) * (yt - mean)
		diff := yt - yPred.AtVec(i)
		rss += diff * diff
	}
	if tss == 0 {
		return 0, errors.Newf("R2: no variance in yTrue")
	}
	return 1 - rss/tss, nil
}

// Evaluate computes the full metrics record for one evaluation pass.
func Evaluate(yTrue, yPred *mat.VecDense) (map[string]float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	r2, err := R2(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	return map[string]float64{
		"mse":  mse,
		"rmse": math.Sqrt(mse),
		"mae":  mae,
		"r2":   r2,
	}, nil
}
