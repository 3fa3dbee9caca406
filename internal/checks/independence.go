package checks

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Durbin-Watson statistic bands: within [1.5, 2.5] reads as no
// worrying autocorrelation, the ideal value being 2.
const (
	dwLower = 1.5
	dwIdeal = 2.0
	dwUpper = 2.5
)

// DurbinWatson scores first-order autocorrelation of the residuals.
func DurbinWatson(in Input) Result {
	const test = "Durbin-Watson Test"
	resid := in.Fit.Residuals
	if len(resid) < 2 {
		return skipped(AssumptionIndependence, test, "need at least two residuals")
	}
	num, den := 0.0, 0.0
	for i, e := range resid {
		den += e * e
		if i > 0 {
			d := e - resid[i-1]
			num += d * d
		}
	}
	if den == 0 {
		return skipped(AssumptionIndependence, test, "residuals are identically zero")
	}
	dw := num / den
	var interp string
	switch {
	case dw < dwLower:
		interp = fmt.Sprintf("The %s statistic of %.3f is < %g, suggesting POSITIVE autocorrelation of residuals, and that the assumption of observation independence is VIOLATED", test, dw, dwLower)
	case dw > dwUpper:
		interp = fmt.Sprintf("The %s statistic of %.3f is > %g, suggesting NEGATIVE autocorrelation of residuals, and that the assumption of observation independence is VIOLATED", test, dw, dwUpper)
	default:
		interp = fmt.Sprintf("The %s statistic of %.3f is close to the value of %g, suggesting NO autocorrelation of residuals, and that the assumption of independence is satisfied", test, dw, dwIdeal)
	}
	return Result{
		Assumption:     AssumptionIndependence,
		Test:           test,
		Rows:           []Row{{Name: "Durbin-Watson Statistic", Value: fmtVal(dw)}},
		Statistic:      dw,
		PValue:         math.NaN(),
		Interpretation: interp,
		Violated:       dw < dwLower || dw > dwUpper,
	}
}

// ACF returns autocorrelations of the series at lags 1..maxLag.
func ACF(series []float64, maxLag int) []float64 {
	n := len(series)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 1 {
		return nil
	}
	mean := stat.Mean(series, nil)
	den := 0.0
	for _, v := range series {
		d := v - mean
		den += d * d
	}
	acf := make([]float64, maxLag)
	if den == 0 {
		return acf
	}
	for k := 1; k <= maxLag; k++ {
		num := 0.0
		for t := k; t < n; t++ {
			num += (series[t] - mean) * (series[t-k] - mean)
		}
		acf[k-1] = num / den
	}
	return acf
}

// ljungBoxMaxLag caps the default number of lags tested.
const ljungBoxMaxLag = 10

// LjungBox tests residual autocorrelation jointly over a range of
// lags; the smallest p-value across lags decides the verdict.
func LjungBox(in Input) Result {
	const test = "Ljung-Box Test"
	resid := in.Fit.Residuals
	n := len(resid)
	maxLag := ljungBoxMaxLag
	if maxLag > n-2 {
		maxLag = n - 2
	}
	if maxLag < 1 {
		return skipped(AssumptionIndependence, test, "too few residuals for any lag")
	}
	acf := ACF(resid, maxLag)
	rows := make([]Row, 0, maxLag)
	minP := math.Inf(1)
	q := 0.0
	lastQ := 0.0
	for k := 1; k <= maxLag; k++ {
		r := acf[k-1]
		q += r * r / float64(n-k)
		qStat := float64(n) * float64(n+2) * q
		p := distuv.ChiSquared{K: float64(k)}.Survival(qStat)
		rows = append(rows, Row{
			Name:  fmt.Sprintf("Lag %d", k),
			Value: fmt.Sprintf("Q=%.3f, p=%.3f", qStat, p),
		})
		if p < minP {
			minP = p
		}
		lastQ = qStat
	}
	var interp string
	if minP < in.SigLevel {
		interp = fmt.Sprintf("The p-value of %s (%.3f) is <%g, suggesting that the assumption of observation independence (aka no autocorrelation) is VIOLATED", test, minP, in.SigLevel)
	} else {
		interp = fmt.Sprintf("The p-value of %s (%.3f) is >=%g, suggesting that the assumption of observation independence (aka no autocorrelation) is satisfied", test, minP, in.SigLevel)
	}
	return Result{
		Assumption:     AssumptionIndependence,
		Test:           test,
		Rows:           rows,
		Statistic:      lastQ,
		PValue:         minP,
		Interpretation: interp,
		Violated:       minP < in.SigLevel,
	}
}
