package pca

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Decomposition is the raw output of the eigensolver: unordered eigenpairs of
// the covariance matrix. The sign of each eigenvector is whatever LAPACK emits.
type Decomposition struct {
	Covariance *mat.SymDense

	// Values[i] is the eigenvalue for column i of Vectors.
	Values  []float64
	Vectors *mat.Dense
}

// Decompose computes the M×M sample covariance of z and factors it with
// mat.EigenSym. The covariance is symmetric by construction, so the symmetric
// solver is both cheaper and more stable than a general one. Eigenvalues come
// back in ascending order; Orient puts them in reporting order.
func Decompose(z mat.Matrix) (*Decomposition, error) {
	rows, cols := z.Dims()
	if cols == 0 {
		return nil, ErrNoAttributes
	}
	if rows < 2 {
		return nil, ErrTooFewRows
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, z, nil)

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return nil, ErrDecompositionFailed
	}

	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	return &Decomposition{
		Covariance: &cov,
		Values:     eig.Values(nil),
		Vectors:    &vectors,
	}, nil
}
