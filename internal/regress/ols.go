package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"goassume/internal/dataset"
)

// Coefficient is one row of the regression coefficient table.
type Coefficient struct {
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_err"`
	TValue   float64 `json:"t_value"`
	PValue   float64 `json:"p_value"`
	ConfLow  float64 `json:"conf_low"`
	ConfHigh float64 `json:"conf_high"`
}

// FitResult holds an ordinary least squares fit: the design (constant
// column first), residual diagnostics and the summary statistics the
// dashboard shows.
type FitResult struct {
	Target     string   `json:"target"`
	Predictors []string `json:"predictors"` // excludes the constant

	Coefficients []Coefficient `json:"coefficients"` // constant first

	Residuals []float64 `json:"-"`
	Fitted    []float64 `json:"-"`

	N int `json:"n"` // observations
	P int `json:"p"` // parameters, constant included

	RSquared       float64 `json:"r_squared"`
	AdjRSquared    float64 `json:"adj_r_squared"`
	FStatistic     float64 `json:"f_statistic"`
	FPValue        float64 `json:"f_p_value"`
	ResidualStdErr float64 `json:"residual_std_err"`
	LogLikelihood  float64 `json:"log_likelihood"`
	AIC            float64 `json:"aic"`
	BIC            float64 `json:"bic"`
	Skewness       float64 `json:"skewness"`
	Kurtosis       float64 `json:"kurtosis"` // Pearson, normal = 3
	ConditionNo    float64 `json:"condition_no"`

	x *mat.Dense
	y []float64
}

// Design returns the design matrix with the constant column included.
func (f *FitResult) Design() *mat.Dense { return f.x }

// Response returns the target vector the model was fit on.
func (f *FitResult) Response() []float64 { return f.y }

// DesignMatrix assembles X (constant column first) and y from numeric
// frame columns. Rows with a missing value in any used column are
// dropped, mirroring how the model would otherwise choke on NaNs.
func DesignMatrix(f *dataset.Frame, target string) (x *mat.Dense, y []float64, names []string, err error) {
	tcol, err := f.Column(target)
	if err != nil {
		return nil, nil, nil, err
	}
	if tcol.Kind != dataset.KindNumeric {
		return nil, nil, nil, fmt.Errorf("target %q must be numeric for least squares (got %s)", target, tcol.Kind)
	}
	var preds []dataset.Column
	for _, c := range f.Columns() {
		if c.Name == target {
			continue
		}
		if c.Kind != dataset.KindNumeric {
			return nil, nil, nil, fmt.Errorf("predictor %q is still categorical, encode it first", c.Name)
		}
		preds = append(preds, c)
		names = append(names, c.Name)
	}
	if len(preds) == 0 {
		return nil, nil, nil, fmt.Errorf("no predictor columns left for target %q", target)
	}

	var keep []int
	for i := 0; i < f.Rows(); i++ {
		ok := !math.IsNaN(tcol.Floats[i])
		for _, p := range preds {
			if math.IsNaN(p.Floats[i]) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}
	n := len(keep)
	if n == 0 {
		return nil, nil, nil, fmt.Errorf("no complete rows available for target %q", target)
	}

	x = mat.NewDense(n, len(preds)+1, nil)
	y = make([]float64, n)
	for r, i := range keep {
		x.Set(r, 0, 1)
		for j, p := range preds {
			x.Set(r, j+1, p.Floats[i])
		}
		y[r] = tcol.Floats[i]
	}
	return x, y, names, nil
}

// Solve fits y = Xb by QR least squares and returns the coefficients,
// fitted values and residuals. A rank-deficient design (perfect
// collinearity, constant column) is an error.
func Solve(x mat.Matrix, y []float64) (beta, fitted, resid []float64, err error) {
	n, p := x.Dims()
	if n != len(y) {
		return nil, nil, nil, fmt.Errorf("design has %d rows, response has %d", n, len(y))
	}
	if n <= p {
		return nil, nil, nil, fmt.Errorf("need more than %d observations to fit %d parameters", p, p)
	}
	var qr mat.QR
	qr.Factorize(mat.DenseCopyOf(x))
	b := mat.NewDense(p, 1, nil)
	if err := qr.SolveTo(b, false, mat.NewDense(n, 1, y)); err != nil {
		// mat.Condition here means the design is singular to working
		// precision, which is exactly the case callers must hear about.
		return nil, nil, nil, fmt.Errorf("design matrix is singular (perfectly collinear or constant predictors?): %w", err)
	}
	beta = make([]float64, p)
	for j := 0; j < p; j++ {
		beta[j] = b.At(j, 0)
		if math.IsNaN(beta[j]) || math.IsInf(beta[j], 0) {
			return nil, nil, nil, fmt.Errorf("design matrix is singular (perfectly collinear or constant predictors?)")
		}
	}
	fitted = make([]float64, n)
	resid = make([]float64, n)
	for i := 0; i < n; i++ {
		v := 0.0
		for j := 0; j < p; j++ {
			v += x.At(i, j) * beta[j]
		}
		fitted[i] = v
		resid[i] = y[i] - v
	}
	return beta, fitted, resid, nil
}

// FitOLS runs ordinary least squares of y on x (constant column first)
// and fills in the full summary table.
func FitOLS(target string, predictors []string, x *mat.Dense, y []float64) (*FitResult, error) {
	n, p := x.Dims()
	beta, fitted, resid, err := Solve(x, y)
	if err != nil {
		return nil, err
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
		return nil, fmt.Errorf("target %q is constant, nothing to explain", target)
	}
	dfResid := float64(n - p)
	dfModel := float64(p - 1)
	sigma2 := rss / dfResid

	// Covariance of the estimates: sigma^2 (X'X)^-1.
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("cannot invert X'X (collinear predictors?): %w", err)
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dfResid}
	tCrit := tDist.Quantile(0.975)
	names := append([]string{"const"}, predictors...)
	coeffs := make([]Coefficient, p)
	for j := 0; j < p; j++ {
		se := math.Sqrt(sigma2 * xtxInv.At(j, j))
		t := beta[j] / se
		pv := 2 * tDist.Survival(math.Abs(t))
		coeffs[j] = Coefficient{
			Name:     names[j],
			Estimate: beta[j],
			StdErr:   se,
			TValue:   t,
			PValue:   pv,
			ConfLow:  beta[j] - tCrit*se,
			ConfHigh: beta[j] + tCrit*se,
		}
	}

	r2 := 1 - rss/tss
	adjR2 := 1 - (1-r2)*float64(n-1)/dfResid
	fStat := (tss - rss) / dfModel / sigma2
	fDist := distuv.F{D1: dfModel, D2: dfResid}
	fp := fDist.Survival(fStat)

	logLik := -0.5 * float64(n) * (math.Log(2*math.Pi) + math.Log(rss/float64(n)) + 1)
	res := &FitResult{
		Target:         target,
		Predictors:     predictors,
		Coefficients:   coeffs,
		Residuals:      resid,
		Fitted:         fitted,
		N:              n,
		P:              p,
		RSquared:       r2,
		AdjRSquared:    adjR2,
		FStatistic:     fStat,
		FPValue:        fp,
		ResidualStdErr: math.Sqrt(sigma2),
		LogLikelihood:  logLik,
		AIC:            -2*logLik + 2*float64(p),
		BIC:            -2*logLik + math.Log(float64(n))*float64(p),
		Skewness:       stat.Skew(resid, nil),
		Kurtosis:       stat.ExKurtosis(resid, nil) + 3,
		ConditionNo:    mat.Cond(x, 2),
		x:              x,
		y:              y,
	}
	return res, nil
}

// FitLinear is the frame-level entry point: builds the design from the
// (already encoded) frame and runs OLS.
func FitLinear(f *dataset.Frame, target string) (*FitResult, error) {
	x, y, names, err := DesignMatrix(f, target)
	if err != nil {
		return nil, err
	}
	return FitOLS(target, names, x, y)
}
