// Package regression implements the linear model fitted by the training
// pipeline and served by the prediction endpoint.
package regression

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"price-backend/pkg/errors"
)

// Hyperparameters are the recognized training options. Alpha > 0 adds L2
// regularization (ridge); zero gives ordinary least squares.
type Hyperparameters struct {
	Alpha float64 `yaml:"alpha" json:"alpha"`
}

// LinearRegression is a least-squares linear model. The artifact is
// immutable once fitted; predictions are safe for concurrent use.
type LinearRegression struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
	NFeatures int       `json:"n_features"`
	Alpha     float64   `json:"alpha"`
	IsFitted  bool      `json:"fitted"`
}

func NewLinearRegression(params Hyperparameters) *LinearRegression {
	return &LinearRegression{Alpha: params.Alpha}
}

// Fit solves the normal equations w = (X^T X + alpha I)^-1 X^T y, with the
// intercept term excluded from regularization. NaN or Inf inputs and
// singular systems are fatal FitErrors.
func (lr *LinearRegression) Fit(X mat.Matrix, y *mat.VecDense) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewFitError("LinearRegression.Fit", "empty training data", nil)
	}
	if y.Len() != r {
		return errors.NewFitError("LinearRegression.Fit", "row count mismatch between features and target", nil)
	}

	for i := 0; i < r; i++ {
		if v := y.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NewFitError("LinearRegression.Fit", "non-finite target value", nil)
		}
		for j := 0; j < c; j++ {
			if v := X.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.NewFitError("LinearRegression.Fit", "non-finite feature value", nil)
			}
		}
	}

	// Prepend a column of ones for the intercept.
	Xb := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		Xb.Set(i, 0, 1)
		for j := 0; j < c; j++ {
			Xb.Set(i, j+1, X.At(i, j))
		}
	}

	var XT mat.Dense
	XT.CloneFrom(Xb.T())

	var XTX mat.Dense
	XTX.Mul(&XT, Xb)

	if lr.Alpha > 0 {
		for j := 1; j <= c; j++ {
			XTX.Set(j, j, XTX.At(j, j)+lr.Alpha)
		}
	}

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.NewFitError("LinearRegression.Fit", "singular feature matrix", err)
	}

	var XTy mat.VecDense
	XTy.MulVec(&XT, y)

	coef := mat.NewVecDense(c+1, nil)
	coef.MulVec(&XTXInv, &XTy)

	lr.Intercept = coef.AtVec(0)
	lr.Weights = make([]float64, c)
	for j := 0; j < c; j++ {
		lr.Weights[j] = coef.AtVec(j + 1)
	}
	lr.NFeatures = c
	lr.IsFitted = true
	return nil
}

// Predict computes predictions for each row of X.
func (lr *LinearRegression) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !lr.IsFitted {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.Newf("expected %d features, got %d", lr.NFeatures, c)
	}

	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		pred := lr.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.Weights[j]
		}
		out.SetVec(i, pred)
	}
	return out, nil
}

// PredictOne computes the prediction for a single feature vector.
func (lr *LinearRegression) PredictOne(x []float64) (float64, error) {
	if !lr.IsFitted {
		return 0, errors.NewNotFittedError("LinearRegression", "PredictOne")
	}
	if len(x) != lr.NFeatures {
		return 0, errors.Newf("expected %d features, got %d", lr.NFeatures, len(x))
	}

	pred := lr.Intercept
	for j, v := range x {
		pred += v * lr.Weights[j]
	}
	return pred, nil
}
