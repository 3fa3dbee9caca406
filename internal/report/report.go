// Package report assembles the diagnostics dashboard: regression
// summary, assumption check results and their companion plots.
package report

import (
	"time"

	"github.com/google/uuid"

	"goassume/internal/checks"
	"goassume/internal/regress"
)

// Report is the full outcome of one diagnostics run.
type Report struct {
	RunID       string    `json:"run_id"`
	Dataset     string    `json:"dataset"`
	Target      string    `json:"target"`
	Task        string    `json:"task"`
	SigLevel    float64   `json:"sig_level"`
	GeneratedAt time.Time `json:"generated_at"`

	// Fit is nil for tasks the battery does not cover yet (logistic
	// flavours get a placeholder dashboard).
	Fit    *regress.FitResult `json:"fit,omitempty"`
	Checks []checks.Result    `json:"checks,omitempty"`

	// Placeholder carries the "coming soon" note for unsupported tasks.
	Placeholder string `json:"placeholder,omitempty"`
}

// New stamps a fresh report envelope.
func New(dataset, target string, task regress.Task, sigLevel float64) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		Dataset:     dataset,
		Target:      target,
		Task:        task.String(),
		SigLevel:    sigLevel,
		GeneratedAt: time.Now().UTC(),
	}
}

// Verdict is the condensed per-check outcome kept in the run history.
type Verdict struct {
	Assumption string  `json:"assumption"`
	Test       string  `json:"test"`
	PValue     float64 `json:"p_value"`
	Violated   bool    `json:"violated"`
	Skipped    string  `json:"skipped,omitempty"`
}

// Verdicts flattens the check results for persistence.
func (r *Report) Verdicts() []Verdict {
	out := make([]Verdict, 0, len(r.Checks))
	for _, c := range r.Checks {
		out = append(out, Verdict{
			Assumption: c.Assumption,
			Test:       c.Test,
			PValue:     c.PValue,
			Violated:   c.Violated,
			Skipped:    c.Skipped,
		})
	}
	return out
}

// Violations counts the checks that flagged their assumption.
func (r *Report) Violations() int {
	n := 0
	for _, c := range r.Checks {
		if c.Violated {
			n++
		}
	}
	return n
}
