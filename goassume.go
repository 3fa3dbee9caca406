// Package goassume runs automated assumption checks for regression
// models: point it at a tabular dataset and a target column, and it
// fits the model, runs the statistical battery and renders a
// diagnostics dashboard.
package goassume

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"goassume/internal/checks"
	"goassume/internal/dataset"
	"goassume/internal/encode"
	"goassume/internal/logger"
	"goassume/internal/regress"
	"goassume/internal/report"
	"goassume/internal/server"
)

// Check is the entry point of the library. Frame and Target are the
// only required fields; everything else resolves to a sensible
// default.
type Check struct {
	// Frame is the dataset under diagnosis.
	Frame *dataset.Frame
	// DatasetName labels the dataset in the report.
	DatasetName string
	// Target names the dependent variable. Required.
	Target string
	// Task forces the regression task ("linear regression", "binary
	// logistic regression", "multinomial logistic regression"); empty
	// means infer from the target.
	Task string
	// Predictors restricts the predictor set. Nil means every other
	// column.
	Predictors []string
	// Drop inverts Predictors: when true the listed columns are
	// removed from the predictor set instead of forming it.
	Drop bool
	// CategoricalFeatures overrides automatic categorical detection.
	CategoricalFeatures []string
	// CategoricalEncoder is "ohe" (one-hot) or "ord" (ordinal). Leaving
	// it empty while categorical predictors remain is an error.
	CategoricalEncoder string
	// Mode picks how Report displays the result: "inline" (write
	// HTML), "external" (serve over HTTP) or "snapshot" (PNG).
	Mode string
	// Output is the HTML path for inline mode.
	Output string
	// SnapshotPath is the PNG path for snapshot mode.
	SnapshotPath string
	// Addr is the listen address for external mode.
	Addr string
	// SigLevel is the significance level of the battery (default 0.05).
	SigLevel float64
	// VIFThreshold flags multicollinearity (default 10).
	VIFThreshold float64
}

// Run executes the full pipeline and returns the report without
// displaying it.
func (c Check) Run(ctx context.Context) (*report.Report, error) {
	if c.Frame == nil {
		return nil, fmt.Errorf("goassume: Frame is required")
	}
	if c.Target == "" {
		return nil, fmt.Errorf("goassume: Target is required")
	}
	targetCol, err := c.Frame.Column(c.Target)
	if err != nil {
		return nil, fmt.Errorf("goassume: %w", err)
	}

	task, err := regress.ResolveTask(c.Task, targetCol)
	if err != nil {
		return nil, err
	}

	frame, err := c.selectPredictors()
	if err != nil {
		return nil, err
	}

	features, err := encode.Resolve(frame, c.Target, c.CategoricalFeatures)
	if err != nil {
		return nil, err
	}
	method, err := encode.ParseMethod(c.CategoricalEncoder)
	if err != nil {
		return nil, err
	}
	encoded, err := encode.Apply(frame, features, method)
	if err != nil {
		return nil, err
	}

	sig := c.SigLevel
	if sig <= 0 || sig >= 1 {
		sig = 0.05
	}
	rep := report.New(c.datasetName(), c.Target, task, sig)

	if task != regress.TaskLinear {
		rep.Placeholder = fmt.Sprintf("%s assumption checks: coming soon", task)
		logger.Warnf("task %s is recognized but its battery is not implemented yet", task)
		return rep, nil
	}

	fit, err := regress.FitLinear(encoded, c.Target)
	if err != nil {
		return nil, err
	}
	results, err := checks.Run(ctx, checks.Input{
		Fit:          fit,
		SigLevel:     sig,
		VIFThreshold: c.VIFThreshold,
	})
	if err != nil {
		return nil, err
	}
	rep.Fit = fit
	rep.Checks = results
	logger.Infof("battery finished: %d checks, %d violation(s)", len(results), rep.Violations())
	return rep, nil
}

// Report runs the pipeline and displays the result according to Mode.
// In external mode it blocks serving until ctx is cancelled.
func (c Check) Report(ctx context.Context) (*report.Report, error) {
	rep, err := c.Run(ctx)
	if err != nil {
		return nil, err
	}
	if err := Display(ctx, rep, DisplayOptions{
		Mode:         c.Mode,
		Output:       c.Output,
		SnapshotPath: c.SnapshotPath,
		Addr:         c.Addr,
	}); err != nil {
		return nil, err
	}
	return rep, nil
}

// DisplayOptions routes a finished report to its output surface.
type DisplayOptions struct {
	Mode         string // inline (default), external, snapshot
	Output       string
	SnapshotPath string
	Addr         string
}

// Display renders an already-computed report.
func Display(ctx context.Context, rep *report.Report, opts DisplayOptions) error {
	switch opts.Mode {
	case "", "inline":
		path := opts.Output
		if path == "" {
			path = "goassume_report.html"
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := report.RenderHTML(f, rep); err != nil {
			return err
		}
		logger.Infof("report written to %s", path)
		return nil
	case "snapshot":
		path := opts.SnapshotPath
		if path == "" {
			path = "goassume_report.png"
		}
		png, err := report.Snapshot(ctx, rep)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return err
		}
		logger.Infof("report snapshot written to %s", path)
		return nil
	case "external":
		html, err := renderBytes(rep)
		if err != nil {
			return err
		}
		srv, err := server.New(server.Config{Addr: opts.Addr, Report: rep, HTML: html})
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	default:
		return fmt.Errorf("unknown display mode %q (choose inline, external or snapshot)", opts.Mode)
	}
}

func renderBytes(rep *report.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := report.RenderHTML(&buf, rep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c Check) selectPredictors() (*dataset.Frame, error) {
	if c.Predictors == nil {
		return c.Frame, nil
	}
	if c.Drop {
		for _, name := range c.Predictors {
			if name == c.Target {
				return nil, fmt.Errorf("goassume: cannot drop the target column %q", c.Target)
			}
		}
		logger.Infof("drop variables specified by user: %v", c.Predictors)
		return c.Frame.Drop(c.Predictors...)
	}
	selected := append(append([]string{}, c.Predictors...), c.Target)
	logger.Infof("keep predictor variables specified by user: %v", selected)
	return c.Frame.Select(selected...)
}

func (c Check) datasetName() string {
	if c.DatasetName != "" {
		return c.DatasetName
	}
	return "dataset"
}
