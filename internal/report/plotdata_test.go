package report

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goassume/internal/dataset"
	"goassume/internal/regress"
)

func testFit(t *testing.T, nPred int) *regress.FitResult {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	n := 50
	cols := make([]dataset.Column, 0, nPred+1)
	y := make([]float64, n)
	for j := 0; j < nPred; j++ {
		xs := make([]float64, n)
		for i := 0; i < n; i++ {
			xs[i] = rng.Float64() * 10
			y[i] += xs[i]
		}
		cols = append(cols, dataset.Column{
			Name: "x" + string(rune('1'+j)), Kind: dataset.KindNumeric, Floats: xs,
		})
	}
	for i := 0; i < n; i++ {
		y[i] += rng.NormFloat64()
	}
	cols = append(cols, dataset.Column{Name: "y", Kind: dataset.KindNumeric, Floats: y})
	f, err := dataset.New(cols...)
	require.NoError(t, err)
	fit, err := regress.FitLinear(f, "y")
	require.NoError(t, err)
	return fit
}

func TestQuantileBands(t *testing.T) {
	fit := testFit(t, 1)
	lower, upper := quantileBands(fit.Fitted, fit.Residuals)
	wantBatches := (len(fit.Fitted) + quantileBatchSize - 1) / quantileBatchSize
	require.Len(t, lower, wantBatches)
	require.Len(t, upper, wantBatches)
	for i := range lower {
		assert.Equal(t, lower[i].X, upper[i].X)
		assert.LessOrEqual(t, lower[i].Y, upper[i].Y)
	}
	// x positions follow the fitted-value ordering
	for i := 1; i < len(lower); i++ {
		assert.GreaterOrEqual(t, lower[i].X, lower[i-1].X)
	}

	lo, up := quantileBands(nil, nil)
	assert.Nil(t, lo)
	assert.Nil(t, up)
}

func TestQQPoints(t *testing.T) {
	resid := []float64{-2, -1, 0, 1, 2}
	pts := qqPoints(resid)
	require.Len(t, pts, 5)
	// middle order statistic sits at the median of both axes
	assert.InDelta(t, 0, pts[2].X, 1e-9)
	assert.InDelta(t, 0, pts[2].Y, 1e-9)
	// symmetric sample gives symmetric tails
	assert.InDelta(t, -pts[4].X, pts[0].X, 1e-9)
	assert.InDelta(t, -pts[4].Y, pts[0].Y, 1e-9)
	for i := 1; i < len(pts); i++ {
		assert.Greater(t, pts[i].X, pts[i-1].X)
	}

	assert.Nil(t, qqPoints(nil))
	assert.Nil(t, qqPoints([]float64{3, 3, 3}))
}

func TestHistogram(t *testing.T) {
	resid := make([]float64, 64)
	for i := range resid {
		resid[i] = float64(i % 8)
	}
	bins := histogram(resid)
	require.NotEmpty(t, bins)
	total := 0
	for _, b := range bins {
		total += b.Count
		assert.NotEmpty(t, b.Label)
	}
	assert.Equal(t, 64, total)

	// a constant sample collapses into a single bucket
	flat := histogram([]float64{2, 2, 2})
	require.Len(t, flat, 1)
	assert.Equal(t, 3, flat[0].Count)

	assert.Nil(t, histogram(nil))
}

func TestCorrelationMatrix(t *testing.T) {
	t.Run("SinglePredictor", func(t *testing.T) {
		names, corr := correlationMatrix(testFit(t, 1))
		assert.Nil(t, names)
		assert.Nil(t, corr)
	})

	t.Run("TwoPredictors", func(t *testing.T) {
		fit := testFit(t, 2)
		names, corr := correlationMatrix(fit)
		require.NotNil(t, corr)
		assert.Equal(t, fit.Predictors, names)
		r, c := corr.Dims()
		assert.Equal(t, 2, r)
		assert.Equal(t, 2, c)
		assert.InDelta(t, 1, corr.At(0, 0), 1e-9)
		assert.InDelta(t, corr.At(0, 1), corr.At(1, 0), 1e-12)
		assert.LessOrEqual(t, math.Abs(corr.At(0, 1)), 1.0)
	})
}

func TestFmtAxis(t *testing.T) {
	assert.Equal(t, "0.123", fmtAxis(0.1231))
	assert.Equal(t, "12.34", fmtAxis(12.34))
	assert.Equal(t, "1234", fmtAxis(1234.2))
	assert.Equal(t, "-12.34", fmtAxis(-12.34))
}
