// Package checks runs the regression assumption battery: each check
// fits whatever auxiliary regressions it needs, produces a small result
// table and a plain-language interpretation, and flags violations at
// the configured significance level.
package checks

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"goassume/internal/logger"
	"goassume/internal/regress"
)

// Assumption names group checks on the dashboard.
const (
	AssumptionLinearity         = "Linearity"
	AssumptionIndependence      = "Independence"
	AssumptionHomoscedasticity  = "Homoscedasticity"
	AssumptionNormality         = "Normality of Residuals"
	AssumptionMulticollinearity = "No Multicollinearity"
)

// Row is one parameter/value line of a check's result table.
type Row struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Result is the outcome of a single statistical check.
type Result struct {
	Assumption     string  `json:"assumption"`
	Test           string  `json:"test"`
	Rows           []Row   `json:"rows"`
	Statistic      float64 `json:"statistic"`
	PValue         float64 `json:"p_value"` // NaN when the test has no p-value
	Interpretation string  `json:"interpretation"`
	Violated       bool    `json:"violated"`
	Skipped        string  `json:"skipped,omitempty"` // reason the test could not run
}

// Input carries the fitted model and the thresholds shared across the
// battery.
type Input struct {
	Fit          *regress.FitResult
	SigLevel     float64 // default 0.05
	VIFThreshold float64 // default 10
}

func (in Input) withDefaults() Input {
	if in.SigLevel <= 0 || in.SigLevel >= 1 {
		in.SigLevel = 0.05
	}
	if in.VIFThreshold <= 0 {
		in.VIFThreshold = 10
	}
	return in
}

// linear regression battery, in dashboard order.
var linearBattery = []func(Input) Result{
	RamseyRESET,
	DurbinWatson,
	LjungBox,
	BreuschPagan,
	White,
	GoldfeldQuandt,
	JarqueBera,
	AndersonDarling,
	VIF,
}

// Run executes the battery for a linear fit. Checks are independent of
// each other, so they run concurrently; the result slice keeps the
// fixed battery order regardless.
func Run(ctx context.Context, in Input) ([]Result, error) {
	if in.Fit == nil {
		return nil, fmt.Errorf("checks: nil fit result")
	}
	in = in.withDefaults()
	results := make([]Result, len(linearBattery))
	g, ctx := errgroup.WithContext(ctx)
	for i, check := range linearBattery {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = check(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Skipped != "" {
			logger.Warnf("%s skipped: %s", r.Test, r.Skipped)
		} else {
			logger.Debugf("%s: statistic=%.4f p=%.4f violated=%v", r.Test, r.Statistic, r.PValue, r.Violated)
		}
	}
	return results, nil
}

func skipped(assumption, test, reason string) Result {
	return Result{
		Assumption: assumption,
		Test:       test,
		Statistic:  math.NaN(),
		PValue:     math.NaN(),
		Skipped:    reason,
	}
}

func fmtVal(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}
