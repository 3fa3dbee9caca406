package checks

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"goassume/internal/regress"
)

// RamseyRESET augments the design with powers of the fitted values and
// F-tests whether they add explanatory power; if they do, the linear
// functional form is suspect. Fitted values are rescaled before
// powering to keep the augmented design well conditioned (the spanned
// subspace is unchanged).
func RamseyRESET(in Input) Result {
	const test = "Ramsey RESET Test"
	fit := in.Fit
	x := fit.Design()
	y := fit.Response()
	n, p := x.Dims()
	const extra = 2 // fitted^2 and fitted^3
	if n <= p+extra {
		return skipped(AssumptionLinearity, test, "too few observations to augment the design")
	}

	scale := 0.0
	for _, v := range fit.Fitted {
		if a := math.Abs(v); a > scale {
			scale = a
		}
	}
	if scale == 0 {
		scale = 1
	}

	aux := mat.NewDense(n, p+extra, nil)
	for j := 0; j < p; j++ {
		aux.SetCol(j, mat.Col(nil, j, x))
	}
	for i := 0; i < n; i++ {
		f := fit.Fitted[i] / scale
		aux.Set(i, p, f*f)
		aux.Set(i, p+1, f*f*f)
	}

	_, _, residAux, err := regress.Solve(aux, y)
	if err != nil {
		return skipped(AssumptionLinearity, test, err.Error())
	}
	rss0 := 0.0
	for _, e := range fit.Residuals {
		rss0 += e * e
	}
	rss1 := 0.0
	for _, e := range residAux {
		rss1 += e * e
	}
	dfResid := float64(n - p - extra)
	fStat := ((rss0 - rss1) / extra) / (rss1 / dfResid)
	if math.IsNaN(fStat) || fStat < 0 {
		fStat = 0
	}
	fP := distuv.F{D1: extra, D2: dfResid}.Survival(fStat)

	var interp string
	if fP < in.SigLevel {
		interp = fmt.Sprintf("p-value of %s (%.3f) is <%g, suggesting the relationship between target and predictors is NOT adequately captured by a linear form, i.e. the assumption of linearity is VIOLATED", test, fP, in.SigLevel)
	} else {
		interp = fmt.Sprintf("p-value of %s (%.3f) is >=%g, suggesting no evidence against the linear functional form, i.e. the assumption of linearity is satisfied", test, fP, in.SigLevel)
	}
	return Result{
		Assumption: AssumptionLinearity,
		Test:       test,
		Rows: []Row{
			{Name: "F statistic", Value: fmtVal(fStat)},
			{Name: "F p-value", Value: fmtVal(fP)},
		},
		Statistic:      fStat,
		PValue:         fP,
		Interpretation: interp,
		Violated:       fP < in.SigLevel,
	}
}
