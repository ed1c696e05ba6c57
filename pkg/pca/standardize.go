// Package pca reduces a table of numeric attributes to two principal axes.
//
// The pipeline mirrors a classical covariance PCA:
//
//  1. Standardize every column to zero mean and unit sample standard deviation.
//  2. Build the covariance matrix of the standardized columns (N-1 normalization)
//     and factor it with gonum's symmetric eigensolver.
//  3. Orient the components: sort by descending eigenvalue and negate the first
//     two axes, a fixed display convention.
//  4. Project the standardized rows onto the oriented components.
//
// Every stage is a pure function over gonum matrices. Fit chains them and
// returns an immutable Model that is safe for concurrent readers.
package pca

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Standardized holds z-scored data together with the statistics used to produce it.
type Standardized struct {
	// Z is the N×M matrix of standardized values.
	Z *mat.Dense

	// Means and StdDevs are the per-column statistics, in column order.
	Means   []float64
	StdDevs []float64
}

// Standardize converts each column of raw into (x - mean) / stddev, where
// stddev uses Bessel's correction. It fails with a *DegenerateColumnError
// when a column is constant.
func Standardize(raw mat.Matrix) (*Standardized, error) {
	rows, cols := raw.Dims()
	if cols == 0 {
		return nil, ErrNoAttributes
	}
	if rows < 2 {
		return nil, ErrTooFewRows
	}

	z := mat.NewDense(rows, cols, nil)
	means := make([]float64, cols)
	stds := make([]float64, cols)
	column := make([]float64, rows)

	for j := 0; j < cols; j++ {
		mat.Col(column, j, raw)

		// An exactly constant column can still produce a tiny non-zero stddev
		// through rounding in the mean, so check the range first.
		if floats.Max(column) == floats.Min(column) {
			return nil, &DegenerateColumnError{Column: j}
		}
		mean, std := stat.MeanStdDev(column, nil)
		if std == 0 {
			return nil, &DegenerateColumnError{Column: j}
		}

		for i, v := range column {
			z.Set(i, j, (v-mean)/std)
		}
		means[j] = mean
		stds[j] = std
	}

	return &Standardized{Z: z, Means: means, StdDevs: stds}, nil
}

// Apply standardizes a single raw row with the stored column statistics.
func (s *Standardized) Apply(row []float64) ([]float64, error) {
	if len(row) != len(s.Means) {
		return nil, ErrDimensionMismatch
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Means[j]) / s.StdDevs[j]
	}
	return out, nil
}
