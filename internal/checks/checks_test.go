package checks

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goassume/internal/dataset"
	"goassume/internal/regress"
)

// fitFrom builds a linear fit for the checks to chew on.
func fitFrom(t *testing.T, cols ...dataset.Column) *regress.FitResult {
	t.Helper()
	f, err := dataset.New(cols...)
	require.NoError(t, err)
	fit, err := regress.FitLinear(f, "y")
	require.NoError(t, err)
	return fit
}

// wellBehavedFit fits y = 2 + x1 + noise on independent predictors.
func wellBehavedFit(t *testing.T) *regress.FitResult {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	n := 60
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]float64, n)
	pattern := []float64{0, 3, 1, 4, 2}
	for i := 0; i < n; i++ {
		x1[i] = float64(i)
		x2[i] = pattern[i%len(pattern)]
		y[i] = 2 + x1[i] + 0.5*x2[i] + rng.NormFloat64()
	}
	return fitFrom(t,
		dataset.Column{Name: "x1", Kind: dataset.KindNumeric, Floats: x1},
		dataset.Column{Name: "x2", Kind: dataset.KindNumeric, Floats: x2},
		dataset.Column{Name: "y", Kind: dataset.KindNumeric, Floats: y},
	)
}

func TestRunBattery(t *testing.T) {
	fit := wellBehavedFit(t)
	results, err := Run(context.Background(), Input{Fit: fit})
	require.NoError(t, err)
	require.Len(t, results, 9)

	wantOrder := []string{
		"Ramsey RESET Test",
		"Durbin-Watson Test",
		"Ljung-Box Test",
		"Breusch-Pagan Test",
		"White Test",
		"Goldfeld-Quandt Test",
		"Jarque-Bera Test",
		"Anderson-Darling Test",
		"Variance Inflation Factor (VIF)",
	}
	for i, r := range results {
		assert.Equal(t, wantOrder[i], r.Test, "battery order at %d", i)
		assert.Empty(t, r.Skipped, "%s should run on a well-behaved fit", r.Test)
		assert.NotEmpty(t, r.Interpretation)
		assert.NotEmpty(t, r.Rows)
		if !math.IsNaN(r.PValue) {
			assert.GreaterOrEqual(t, r.PValue, 0.0, "%s p-value", r.Test)
			assert.LessOrEqual(t, r.PValue, 1.0, "%s p-value", r.Test)
		}
	}
}

func TestRunNilFit(t *testing.T) {
	_, err := Run(context.Background(), Input{})
	assert.Error(t, err)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Input{Fit: wellBehavedFit(t)})
	assert.Error(t, err)
}

func TestDurbinWatson(t *testing.T) {
	t.Run("NegativeAutocorrelation", func(t *testing.T) {
		r := DurbinWatson(Input{Fit: &regress.FitResult{
			Residuals: []float64{1, -1, 1, -1, 1, -1, 1, -1},
		}}.withDefaults())
		assert.True(t, r.Violated)
		assert.Greater(t, r.Statistic, dwUpper)
		assert.Contains(t, r.Interpretation, "NEGATIVE")
	})

	t.Run("PositiveAutocorrelation", func(t *testing.T) {
		r := DurbinWatson(Input{Fit: &regress.FitResult{
			Residuals: []float64{1, 1.01, 1.02, 1.01, 1, 0.99, 0.98, 0.99},
		}}.withDefaults())
		assert.True(t, r.Violated)
		assert.Less(t, r.Statistic, dwLower)
		assert.Contains(t, r.Interpretation, "POSITIVE")
	})

	t.Run("TooFewResiduals", func(t *testing.T) {
		r := DurbinWatson(Input{Fit: &regress.FitResult{Residuals: []float64{1}}}.withDefaults())
		assert.NotEmpty(t, r.Skipped)
	})
}

func TestACF(t *testing.T) {
	acf := ACF([]float64{1, 2, 3, 4, 5}, 1)
	require.Len(t, acf, 1)
	assert.InDelta(t, 0.4, acf[0], 1e-12)

	assert.Nil(t, ACF([]float64{1}, 3))

	// maxLag is clamped to n-1
	acf = ACF([]float64{1, 2, 3}, 10)
	assert.Len(t, acf, 2)
}

func TestLjungBoxAutocorrelated(t *testing.T) {
	// A slow sine wave is about as autocorrelated as residuals get.
	resid := make([]float64, 50)
	for i := range resid {
		resid[i] = math.Sin(float64(i) * 0.2)
	}
	r := LjungBox(Input{Fit: &regress.FitResult{Residuals: resid}}.withDefaults())
	assert.True(t, r.Violated)
	assert.Less(t, r.PValue, 0.001)
	assert.Len(t, r.Rows, ljungBoxMaxLag)
}

func TestVIF(t *testing.T) {
	t.Run("Collinear", func(t *testing.T) {
		n := 40
		x1 := make([]float64, n)
		x2 := make([]float64, n)
		y := make([]float64, n)
		for i := 0; i < n; i++ {
			x1[i] = float64(i)
			x2[i] = 2*x1[i] + 0.01*float64(i%7) // almost a copy of x1
			y[i] = x1[i] + float64(i%3)
		}
		fit := fitFrom(t,
			dataset.Column{Name: "x1", Kind: dataset.KindNumeric, Floats: x1},
			dataset.Column{Name: "x2", Kind: dataset.KindNumeric, Floats: x2},
			dataset.Column{Name: "y", Kind: dataset.KindNumeric, Floats: y},
		)
		r := VIF(Input{Fit: fit}.withDefaults())
		assert.True(t, r.Violated)
		assert.Greater(t, r.Statistic, 10.0)
		assert.Len(t, r.Rows, 2)
	})

	t.Run("Independent", func(t *testing.T) {
		fit := wellBehavedFit(t)
		r := VIF(Input{Fit: fit}.withDefaults())
		assert.False(t, r.Violated)
		assert.Less(t, r.Statistic, 10.0)
	})

	t.Run("SinglePredictor", func(t *testing.T) {
		fit := fitFrom(t,
			dataset.Column{Name: "x", Kind: dataset.KindNumeric, Floats: []float64{1, 2, 3, 4, 5}},
			dataset.Column{Name: "y", Kind: dataset.KindNumeric, Floats: []float64{2, 4, 5, 4, 5}},
		)
		r := VIF(Input{Fit: fit}.withDefaults())
		assert.NotEmpty(t, r.Skipped)
	})
}

func TestBreuschPaganFunnel(t *testing.T) {
	// Residual spread grows with x, the textbook funnel.
	n := 100
	x := make([]float64, n)
	y := make([]float64, n)
	sign := 1.0
	for i := 0; i < n; i++ {
		x[i] = float64(i) / 10
		y[i] = x[i] + sign*(0.1+x[i])
		sign = -sign
	}
	fit := fitFrom(t,
		dataset.Column{Name: "x", Kind: dataset.KindNumeric, Floats: x},
		dataset.Column{Name: "y", Kind: dataset.KindNumeric, Floats: y},
	)
	r := BreuschPagan(Input{Fit: fit}.withDefaults())
	assert.True(t, r.Violated)
	assert.Less(t, r.PValue, 0.001)
	assert.Contains(t, r.Interpretation, "VIOLATED")

	w := White(Input{Fit: fit}.withDefaults())
	assert.True(t, w.Violated)

	gq := GoldfeldQuandt(Input{Fit: fit}.withDefaults())
	assert.True(t, gq.Violated)
}

func TestWhiteWithDummyPredictors(t *testing.T) {
	// Mutually exclusive dummies make their pairwise product a zero
	// column; White must drop it instead of handing the auxiliary
	// regression a singular design.
	n := 40
	x := make([]float64, n)
	d1 := make([]float64, n)
	d2 := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		if i%3 == 0 {
			d1[i] = 1
		} else if i%3 == 1 {
			d2[i] = 1
		}
		y[i] = x[i] + 2*d1[i] - d2[i] + float64(i%5)
	}
	fit := fitFrom(t,
		dataset.Column{Name: "x", Kind: dataset.KindNumeric, Floats: x},
		dataset.Column{Name: "d1", Kind: dataset.KindNumeric, Floats: d1},
		dataset.Column{Name: "d2", Kind: dataset.KindNumeric, Floats: d2},
		dataset.Column{Name: "y", Kind: dataset.KindNumeric, Floats: y},
	)
	r := White(Input{Fit: fit}.withDefaults())
	assert.Empty(t, r.Skipped)
	assert.False(t, math.IsNaN(r.Statistic))
}

func TestRamseyRESETNonlinear(t *testing.T) {
	// y = x^2 fit with a straight line: the RESET powers soak up the
	// curvature and the F test rejects hard.
	n := 30
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i + 1)
		y[i] = x[i] * x[i]
	}
	fit := fitFrom(t,
		dataset.Column{Name: "x", Kind: dataset.KindNumeric, Floats: x},
		dataset.Column{Name: "y", Kind: dataset.KindNumeric, Floats: y},
	)
	r := RamseyRESET(Input{Fit: fit}.withDefaults())
	assert.True(t, r.Violated)
	assert.Less(t, r.PValue, 0.001)
}

// symmetric standard-normal order statistics, skew exactly zero
func normalQuantileSample(n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		p := (float64(i) + 0.5) / float64(n)
		// inverse CDF via bisection, plenty accurate for a test fixture
		lo, hi := -10.0, 10.0
		for iter := 0; iter < 80; iter++ {
			mid := (lo + hi) / 2
			if 0.5*math.Erfc(-mid/math.Sqrt2) < p {
				lo = mid
			} else {
				hi = mid
			}
		}
		out[i] = (lo + hi) / 2
	}
	return out
}

func TestNormalityChecks(t *testing.T) {
	t.Run("NormalSample", func(t *testing.T) {
		resid := normalQuantileSample(40)
		in := Input{Fit: &regress.FitResult{Residuals: resid}}.withDefaults()

		jb := JarqueBera(in)
		assert.False(t, jb.Violated)
		assert.Greater(t, jb.PValue, 0.05)

		ad := AndersonDarling(in)
		assert.False(t, ad.Violated)
		assert.Greater(t, ad.PValue, 0.05)
	})

	t.Run("Outlier", func(t *testing.T) {
		resid := normalQuantileSample(30)
		resid[29] = 50 // one wild residual wrecks normality
		in := Input{Fit: &regress.FitResult{Residuals: resid}}.withDefaults()

		jb := JarqueBera(in)
		assert.True(t, jb.Violated)

		ad := AndersonDarling(in)
		assert.True(t, ad.Violated)
	})

	t.Run("TooFew", func(t *testing.T) {
		in := Input{Fit: &regress.FitResult{Residuals: []float64{1, 2}}}.withDefaults()
		assert.NotEmpty(t, JarqueBera(in).Skipped)
		assert.NotEmpty(t, AndersonDarling(in).Skipped)
	})
}

func TestExplain(t *testing.T) {
	for _, a := range []string{
		AssumptionLinearity,
		AssumptionIndependence,
		AssumptionHomoscedasticity,
		AssumptionNormality,
		AssumptionMulticollinearity,
	} {
		e := Explain(a)
		assert.NotEmpty(t, e.Description, a)
		assert.NotEmpty(t, e.Solution, a)
	}
}
