package checks

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// VIF computes the variance inflation factor of each predictor by
// regressing it on all the others (constant included, as it is in the
// model being diagnosed). The constant itself is left off the table.
func VIF(in Input) Result {
	const test = "Variance Inflation Factor (VIF)"
	fit := in.Fit
	x := fit.Design()
	n, p := x.Dims()
	if p < 3 {
		return skipped(AssumptionMulticollinearity, test, "need at least two predictors to measure collinearity")
	}
	if n <= p {
		return skipped(AssumptionMulticollinearity, test, "too few observations for the auxiliary regressions")
	}

	type vifEntry struct {
		name string
		vif  float64
	}
	entries := make([]vifEntry, 0, p-1)
	for j := 1; j < p; j++ {
		target := mat.Col(nil, j, x)
		others := mat.NewDense(n, p-1, nil)
		cj := 0
		for k := 0; k < p; k++ {
			if k == j {
				continue
			}
			others.SetCol(cj, mat.Col(nil, k, x))
			cj++
		}
		r2, err := auxRSquared(others, target)
		if err != nil {
			return skipped(AssumptionMulticollinearity, test, err.Error())
		}
		v := math.Inf(1)
		if r2 < 1 {
			v = 1 / (1 - r2)
		}
		entries = append(entries, vifEntry{name: fit.Predictors[j-1], vif: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].vif > entries[j].vif })

	above := 0
	rows := make([]Row, 0, len(entries))
	maxVIF := 0.0
	for _, e := range entries {
		mark := "✓"
		if e.vif >= in.VIFThreshold {
			mark = "X"
			above++
		}
		rows = append(rows, Row{Name: e.name, Value: fmt.Sprintf("%.1f %s", e.vif, mark)})
		if e.vif > maxVIF {
			maxVIF = e.vif
		}
	}

	var interp string
	if above > 0 {
		interp = fmt.Sprintf("Given there are %d features with VIF greater than threshold value of %g, the assumption of no multicollinearity is VIOLATED", above, in.VIFThreshold)
	} else {
		interp = fmt.Sprintf("Given zero features with VIF greater than threshold value of %g, the assumption of no multicollinearity is satisfied", in.VIFThreshold)
	}
	return Result{
		Assumption:     AssumptionMulticollinearity,
		Test:           test,
		Rows:           rows,
		Statistic:      maxVIF,
		PValue:         math.NaN(),
		Interpretation: interp,
		Violated:       above > 0,
	}
}
