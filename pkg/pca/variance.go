package pca

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// VarianceShare is one row of the explained-variance table.
type VarianceShare struct {
	Component  string  `json:"component"`
	Eigenvalue float64 `json:"eigenvalue"`
	Percent    float64 `json:"percent"`
}

// ComponentName returns the label of the i-th (0-based) component: PC1, PC2, ...
func ComponentName(i int) string {
	return "PC" + strconv.Itoa(i+1)
}

// ExplainedVariance converts sorted eigenvalues into percentages of the total.
// The percentages cover every component, so they sum to 100. A zero or
// non-finite total yields zero percentages instead of NaN.
func ExplainedVariance(eigenvalues []float64) []VarianceShare {
	total := floats.Sum(eigenvalues)
	valid := total != 0 && !math.IsNaN(total) && !math.IsInf(total, 0)

	shares := make([]VarianceShare, len(eigenvalues))
	for i, v := range eigenvalues {
		shares[i] = VarianceShare{Component: ComponentName(i), Eigenvalue: v}
		if valid {
			shares[i].Percent = 100 * v / total
		}
	}
	return shares
}
