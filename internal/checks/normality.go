package checks

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func interpretNormality(test string, pvalue, sig float64) string {
	if pvalue < sig {
		return fmt.Sprintf("p-value of %s (%.3f) is <%g, suggesting the assumption of residual normality is VIOLATED", test, pvalue, sig)
	}
	return fmt.Sprintf("p-value of %s (%.3f) is >=%g, suggesting the assumption of residual normality is satisfied", test, pvalue, sig)
}

// JarqueBera scores skewness and excess kurtosis of the residuals
// against the chi-squared distribution with two degrees of freedom.
func JarqueBera(in Input) Result {
	const test = "Jarque-Bera Test"
	resid := in.Fit.Residuals
	n := len(resid)
	if n < 4 {
		return skipped(AssumptionNormality, test, "too few residuals")
	}
	skew := stat.Skew(resid, nil)
	exkurt := stat.ExKurtosis(resid, nil)
	jb := float64(n) / 6 * (skew*skew + exkurt*exkurt/4)
	p := distuv.ChiSquared{K: 2}.Survival(jb)
	return Result{
		Assumption: AssumptionNormality,
		Test:       test,
		Rows: []Row{
			{Name: "Jarque-Bera statistic", Value: fmtVal(jb)},
			{Name: "p-value", Value: fmtVal(p)},
			{Name: "Skewness", Value: fmtVal(skew)},
			{Name: "Excess kurtosis", Value: fmtVal(exkurt)},
		},
		Statistic:      jb,
		PValue:         p,
		Interpretation: interpretNormality(test, p, in.SigLevel),
		Violated:       p < in.SigLevel,
	}
}

// AndersonDarling tests residual normality with estimated mean and
// variance; the p-value uses Stephens' small-sample adjustment.
func AndersonDarling(in Input) Result {
	const test = "Anderson-Darling Test"
	resid := in.Fit.Residuals
	n := len(resid)
	if n < 8 {
		return skipped(AssumptionNormality, test, "need at least eight residuals")
	}
	mean := stat.Mean(resid, nil)
	sd := stat.StdDev(resid, nil)
	if sd == 0 {
		return skipped(AssumptionNormality, test, "residuals have zero variance")
	}
	z := make([]float64, n)
	for i, e := range resid {
		z[i] = (e - mean) / sd
	}
	sort.Float64s(z)

	norm := distuv.UnitNormal
	a2 := -float64(n)
	for i := 0; i < n; i++ {
		cdfLo := norm.CDF(z[i])
		cdfHi := norm.CDF(z[n-1-i])
		// clamp away from 0/1 so the logs stay finite
		cdfLo = math.Min(math.Max(cdfLo, 1e-300), 1-1e-16)
		cdfHi = math.Min(math.Max(cdfHi, 1e-300), 1-1e-16)
		a2 -= float64(2*i+1) / float64(n) * (math.Log(cdfLo) + math.Log(1-cdfHi))
	}
	// Adjustment for estimated parameters (Stephens 1974).
	aStar := a2 * (1 + 0.75/float64(n) + 2.25/(float64(n)*float64(n)))

	var p float64
	switch {
	case aStar >= 0.6:
		p = math.Exp(1.2937 - 5.709*aStar + 0.0186*aStar*aStar)
	case aStar > 0.34:
		p = math.Exp(0.9177 - 4.279*aStar - 1.38*aStar*aStar)
	case aStar > 0.2:
		p = 1 - math.Exp(-8.318+42.796*aStar-59.938*aStar*aStar)
	default:
		p = 1 - math.Exp(-13.436+101.14*aStar-223.73*aStar*aStar)
	}
	p = math.Min(math.Max(p, 0), 1)

	return Result{
		Assumption: AssumptionNormality,
		Test:       test,
		Rows: []Row{
			{Name: "Anderson-Darling statistic", Value: fmtVal(a2)},
			{Name: "Adjusted statistic", Value: fmtVal(aStar)},
			{Name: "p-value", Value: fmtVal(p)},
		},
		Statistic:      aStar,
		PValue:         p,
		Interpretation: interpretNormality(test, p, in.SigLevel),
		Violated:       p < in.SigLevel,
	}
}
