package report

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"goassume/internal/regress"
)

// point is an (x, y) pair for value-axis scatter and line series.
type point struct {
	X, Y float64
}

// quantileBatchSize is the number of points per moving-quantile batch
// in the residual plot bands.
const quantileBatchSize = 10

// quantileBands walks the residuals in fitted-value order and emits
// per-batch 20th/80th percentile points. On a homoscedastic fit the two
// bands run roughly parallel; a funnel shape shows up as diverging
// bands.
func quantileBands(fitted, resid []float64) (lower, upper []point) {
	n := len(fitted)
	if n == 0 {
		return nil, nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return fitted[idx[a]] < fitted[idx[b]] })

	for start := 0; start < n; start += quantileBatchSize {
		end := start + quantileBatchSize
		if end > n {
			end = n
		}
		batch := make([]float64, 0, end-start)
		for _, i := range idx[start:end] {
			batch = append(batch, resid[i])
		}
		sort.Float64s(batch)
		mid := idx[start+(end-start)/2]
		x := fitted[mid]
		lower = append(lower, point{X: x, Y: stat.Quantile(0.2, stat.Empirical, batch, nil)})
		upper = append(upper, point{X: x, Y: stat.Quantile(0.8, stat.Empirical, batch, nil)})
	}
	return lower, upper
}

// qqPoints standardizes the residuals and pairs their order statistics
// with theoretical normal quantiles.
func qqPoints(resid []float64) []point {
	n := len(resid)
	if n == 0 {
		return nil
	}
	mean := stat.Mean(resid, nil)
	sd := stat.StdDev(resid, nil)
	if sd == 0 {
		return nil
	}
	z := make([]float64, n)
	for i, e := range resid {
		z[i] = (e - mean) / sd
	}
	sort.Float64s(z)
	pts := make([]point, n)
	for i := 0; i < n; i++ {
		q := distuv.UnitNormal.Quantile((float64(i) + 0.5) / float64(n))
		pts[i] = point{X: q, Y: z[i]}
	}
	return pts
}

// histBin is one histogram bucket.
type histBin struct {
	Label string
	Count int
}

// histogram buckets the residuals with a Sturges-style bin count.
func histogram(resid []float64) []histBin {
	n := len(resid)
	if n == 0 {
		return nil
	}
	lo, hi := resid[0], resid[0]
	for _, v := range resid {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []histBin{{Label: fmtAxis(lo), Count: n}}
	}
	bins := int(math.Ceil(math.Log2(float64(n)))) + 1
	width := (hi - lo) / float64(bins)
	out := make([]histBin, bins)
	for i := range out {
		out[i].Label = fmtAxis(lo + (float64(i)+0.5)*width)
	}
	for _, v := range resid {
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		out[b].Count++
	}
	return out
}

// correlationMatrix computes pairwise Pearson correlations of the
// predictors (constant column excluded).
func correlationMatrix(fit *regress.FitResult) (names []string, corr *mat.SymDense) {
	x := fit.Design()
	n, p := x.Dims()
	if p < 3 {
		return nil, nil // one predictor, nothing to correlate
	}
	preds := mat.NewDense(n, p-1, nil)
	for j := 1; j < p; j++ {
		preds.SetCol(j-1, mat.Col(nil, j, x))
	}
	corr = mat.NewSymDense(p-1, nil)
	stat.CorrelationMatrix(corr, preds, nil)
	return fit.Predictors, corr
}

func fmtAxis(v float64) string {
	a := math.Abs(v)
	prec := 3
	switch {
	case a >= 1000:
		prec = 0
	case a >= 1:
		prec = 2
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
