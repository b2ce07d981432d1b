package metrics_test

import (
	"math"
	"testing"

	"price-backend/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPerfectPredictions(t *testing.T) {
	y := mat.NewVecDense(3, []float64{1, 2, 3})

	mse, err := metrics.MSE(y, y)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mse)

	mae, err := metrics.MAE(y, y)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mae)

	r2, err := metrics.R2(y, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, r2)
}

func TestKnownValues(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	yPred := mat.NewVecDense(4, []float64{2, 2, 4, 4})

	mse, err := metrics.MSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mse, 1e-12)

	rmse, err := metrics.RMSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.5), rmse, 1e-12)

	mae, err := metrics.MAE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mae, 1e-12)

	// TSS = 5, RSS = 2.
	r2, err := metrics.R2(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 1-2.0/5.0, r2, 1e-12)
}

func TestValidation(t *testing.T) {
	short := mat.NewVecDense(2, []float64{1, 2})
	long := mat.NewVecDense(3, []float64{1, 2, 3})

	_, err := metrics.MSE(short, long)
	assert.Error(t, err)

	_, err = metrics.MAE(long, short)
	assert.Error(t, err)

	// R2 is undefined when yTrue has no variance.
	constant := mat.NewVecDense(2, []float64{5, 5})
	_, err = metrics.R2(constant, constant)
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	yPred := mat.NewVecDense(4, []float64{2, 2, 4, 4})

	record, err := metrics.Evaluate(yTrue, yPred)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, record["mse"], 1e-12)
	assert.InDelta(t, math.Sqrt(0.5), record["rmse"], 1e-12)
	assert.InDelta(t, 0.5, record["mae"], 1e-12)
	assert.InDelta(t, 0.6, record["r2"], 1e-12)
}
