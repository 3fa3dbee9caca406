package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goassume/internal/checks"
	"goassume/internal/regress"
)

func TestNewReport(t *testing.T) {
	r := New("houses", "price", regress.TaskLinear, 0.05)
	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, "houses", r.Dataset)
	assert.Equal(t, "price", r.Target)
	assert.Equal(t, "linear regression", r.Task)
	assert.Equal(t, 0.05, r.SigLevel)
	assert.False(t, r.GeneratedAt.IsZero())

	other := New("houses", "price", regress.TaskLinear, 0.05)
	assert.NotEqual(t, r.RunID, other.RunID)
}

func TestVerdictsAndViolations(t *testing.T) {
	r := New("d", "y", regress.TaskLinear, 0.05)
	r.Checks = []checks.Result{
		{Assumption: "A", Test: "t1", PValue: 0.01, Violated: true},
		{Assumption: "B", Test: "t2", PValue: 0.4},
		{Assumption: "C", Test: "t3", PValue: math.NaN(), Skipped: "too few rows"},
	}
	assert.Equal(t, 1, r.Violations())

	v := r.Verdicts()
	require.Len(t, v, 3)
	assert.Equal(t, "t1", v[0].Test)
	assert.True(t, v[0].Violated)
	assert.Equal(t, "too few rows", v[2].Skipped)
}
