package checks

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"goassume/internal/regress"
)

func interpretHomosced(test string, pvalue, sig float64) string {
	if pvalue < sig {
		return fmt.Sprintf("p-value of %s (%.3f) is <%g, suggesting that the assumption of homoscedasticity is VIOLATED", test, pvalue, sig)
	}
	return fmt.Sprintf("p-value of %s (%.3f) is >=%g, suggesting that the assumption of homoscedasticity is satisfied", test, pvalue, sig)
}

// auxRSquared regresses y on x and returns the coefficient of
// determination of the auxiliary fit.
func auxRSquared(x mat.Matrix, y []float64) (float64, error) {
	_, _, resid, err := regress.Solve(x, y)
	if err != nil {
		return 0, err
	}
	rss := 0.0
	for _, e := range resid {
		rss += e * e
	}
	mean := stat.Mean(y, nil)
	tss := 0.0
	for _, v := range y {
		d := v - mean
		tss += d * d
	}
	if tss == 0 {
		return 0, fmt.Errorf("auxiliary response is constant")
	}
	return 1 - rss/tss, nil
}

// lmTest wraps the shared Lagrange-multiplier arithmetic of the
// Breusch-Pagan and White tests: regress squared residuals on an
// auxiliary design and score n*R^2 against chi-squared.
func lmTest(aux *mat.Dense, resid []float64) (rows []Row, lm, lmP float64, err error) {
	n, p := aux.Dims()
	sq := make([]float64, len(resid))
	for i, e := range resid {
		sq[i] = e * e
	}
	r2, err := auxRSquared(aux, sq)
	if err != nil {
		return nil, 0, 0, err
	}
	dfModel := float64(p - 1)
	dfResid := float64(n - p)
	lm = float64(n) * r2
	lmP = distuv.ChiSquared{K: dfModel}.Survival(lm)
	fStat := (r2 / dfModel) / ((1 - r2) / dfResid)
	fP := distuv.F{D1: dfModel, D2: dfResid}.Survival(fStat)
	rows = []Row{
		{Name: "Lagrange multiplier (LM) statistic", Value: fmtVal(lm)},
		{Name: "LM p-value", Value: fmtVal(lmP)},
		{Name: "F statistic", Value: fmtVal(fStat)},
		{Name: "F p-value", Value: fmtVal(fP)},
	}
	return rows, lm, lmP, nil
}

// BreuschPagan tests for heteroscedasticity by regressing squared
// residuals on the original design.
func BreuschPagan(in Input) Result {
	const test = "Breusch-Pagan Test"
	fit := in.Fit
	rows, lm, lmP, err := lmTest(fit.Design(), fit.Residuals)
	if err != nil {
		return skipped(AssumptionHomoscedasticity, test, err.Error())
	}
	return Result{
		Assumption:     AssumptionHomoscedasticity,
		Test:           test,
		Rows:           rows,
		Statistic:      lm,
		PValue:         lmP,
		Interpretation: interpretHomosced(test, lmP, in.SigLevel),
		Violated:       lmP < in.SigLevel,
	}
}

// White runs the White test: the auxiliary design adds squares and
// pairwise products of the predictors. Columns that duplicate an
// existing one (squares of dummy variables collapse onto themselves)
// or come out identically zero (products of mutually exclusive
// dummies) are left out to keep the auxiliary design full rank.
func White(in Input) Result {
	const test = "White Test"
	fit := in.Fit
	x := fit.Design()
	n, p := x.Dims()

	cols := make([][]float64, 0, p+p*p/2)
	for j := 0; j < p; j++ {
		cols = append(cols, mat.Col(nil, j, x))
	}
	for j := 1; j < p; j++ {
		for k := j; k < p; k++ {
			prod := make([]float64, n)
			for i := 0; i < n; i++ {
				prod[i] = x.At(i, j) * x.At(i, k)
			}
			if !isZeroColumn(prod) && !hasDuplicateColumn(cols, prod) {
				cols = append(cols, prod)
			}
		}
	}
	if len(cols) >= n {
		return skipped(AssumptionHomoscedasticity, test,
			fmt.Sprintf("auxiliary design needs %d columns but only %d observations are available", len(cols), n))
	}
	aux := mat.NewDense(n, len(cols), nil)
	for j, col := range cols {
		aux.SetCol(j, col)
	}
	rows, lm, lmP, err := lmTest(aux, fit.Residuals)
	if err != nil {
		return skipped(AssumptionHomoscedasticity, test, err.Error())
	}
	return Result{
		Assumption:     AssumptionHomoscedasticity,
		Test:           test,
		Rows:           rows,
		Statistic:      lm,
		PValue:         lmP,
		Interpretation: interpretHomosced(test, lmP, in.SigLevel),
		Violated:       lmP < in.SigLevel,
	}
}

// isZeroColumn reports an identically zero column; products of mutually
// exclusive dummy variables produce these.
func isZeroColumn(col []float64) bool {
	for _, v := range col {
		if v != 0 {
			return false
		}
	}
	return true
}

func hasDuplicateColumn(cols [][]float64, candidate []float64) bool {
	for _, c := range cols {
		same := true
		for i := range c {
			if c[i] != candidate[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

// GoldfeldQuandt splits the sample in half in row order, fits each half
// separately and compares the residual variances with an F test
// (alternative: variance increases across the sample).
func GoldfeldQuandt(in Input) Result {
	const test = "Goldfeld-Quandt Test"
	fit := in.Fit
	x := fit.Design()
	y := fit.Response()
	n, p := x.Dims()
	n1 := n / 2
	n2 := n - n1
	if n1 <= p || n2 <= p {
		return skipped(AssumptionHomoscedasticity, test,
			fmt.Sprintf("need more than %d observations per half, have %d and %d", p, n1, n2))
	}
	rss1, err := halfRSS(x, y, 0, n1)
	if err != nil {
		return skipped(AssumptionHomoscedasticity, test, err.Error())
	}
	rss2, err := halfRSS(x, y, n1, n)
	if err != nil {
		return skipped(AssumptionHomoscedasticity, test, err.Error())
	}
	df1 := float64(n1 - p)
	df2 := float64(n2 - p)
	fStat := (rss2 / df2) / (rss1 / df1)
	fP := distuv.F{D1: df2, D2: df1}.Survival(fStat)
	return Result{
		Assumption: AssumptionHomoscedasticity,
		Test:       test,
		Rows: []Row{
			{Name: "F statistic", Value: fmtVal(fStat)},
			{Name: "F p-value", Value: fmtVal(fP)},
		},
		Statistic:      fStat,
		PValue:         fP,
		Interpretation: interpretHomosced(test, fP, in.SigLevel),
		Violated:       fP < in.SigLevel,
	}
}

func halfRSS(x *mat.Dense, y []float64, from, to int) (float64, error) {
	_, p := x.Dims()
	sub := mat.NewDense(to-from, p, nil)
	for i := from; i < to; i++ {
		for j := 0; j < p; j++ {
			sub.Set(i-from, j, x.At(i, j))
		}
	}
	_, _, resid, err := regress.Solve(sub, y[from:to])
	if err != nil {
		return 0, err
	}
	rss := 0.0
	for _, e := range resid {
		rss += e * e
	}
	return rss, nil
}
