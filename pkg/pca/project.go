package pca

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Project returns the N×M score matrix z · V. The sign convention is already
// part of the oriented vectors, so score columns 0 and 1 come out negated
// relative to a projection on the raw sorted eigenvectors, and no other
// column is touched.
func Project(z mat.Matrix, c *Components) *mat.Dense {
	var scores mat.Dense
	scores.Mul(z, c.Vectors)
	return &scores
}

// ProjectRow projects one standardized row onto PC1 and PC2. When there is a
// single attribute, pc2 is zero.
func (c *Components) ProjectRow(z []float64) (pc1, pc2 float64, err error) {
	m := c.Len()
	if len(z) != m {
		return 0, 0, ErrDimensionMismatch
	}
	axis := make([]float64, m)

	mat.Col(axis, 0, c.Vectors)
	pc1 = floats.Dot(z, axis)
	if m > 1 {
		mat.Col(axis, 1, c.Vectors)
		pc2 = floats.Dot(z, axis)
	}
	return pc1, pc2, nil
}
