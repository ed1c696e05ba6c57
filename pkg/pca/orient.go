package pca

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// flippedAxes is the number of leading components whose sign is negated.
// Only PC1 and PC2 are shown to users; later axes keep the solver's sign.
const flippedAxes = 2

// Components are eigenpairs in reporting order.
type Components struct {
	// Values are eigenvalues, non-increasing.
	Values []float64

	// Vectors holds one unit eigenvector per column, aligned with Values.
	// Columns 0 and 1 are negated relative to the solver output.
	Vectors *mat.Dense

	// Order[k] is the solver column that became component k.
	Order []int
}

// Orient sorts the eigenpairs by descending eigenvalue and negates the first
// two eigenvectors. Equal eigenvalues keep the solver's column order.
func Orient(d *Decomposition) *Components {
	m := len(d.Values)
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return d.Values[order[a]] > d.Values[order[b]]
	})

	values := make([]float64, m)
	vectors := mat.NewDense(m, m, nil)
	column := make([]float64, m)

	for k, idx := range order {
		values[k] = d.Values[idx]
		mat.Col(column, idx, d.Vectors)
		if k < flippedAxes {
			floats.Scale(-1, column)
		}
		vectors.SetCol(k, column)
	}

	return &Components{Values: values, Vectors: vectors, Order: order}
}

// Len returns the number of components.
func (c *Components) Len() int { return len(c.Values) }
