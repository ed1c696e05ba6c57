package pca

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultMaxAttributes bounds the attribute count accepted by Fit.
// The eigendecomposition is O(M³).
const DefaultMaxAttributes = 512

// Options tunes Fit.
type Options struct {
	// MaxAttributes rejects inputs with more columns. Zero means DefaultMaxAttributes.
	MaxAttributes int
}

// Loading is the weight of one original attribute on PC1 and PC2.
type Loading struct {
	Attribute string  `json:"attribute"`
	PC1       float64 `json:"pc1"`
	PC2       float64 `json:"pc2"`
}

// Model is a fitted PCA. It is never mutated after Fit returns.
type Model struct {
	Attributes    []string
	Standardized  *Standardized
	Decomposition *Decomposition
	Components    *Components

	// Scores is the N×M projection of every row.
	Scores *mat.Dense

	Variance []VarianceShare
	Loadings []Loading
}

// Fit runs the full pipeline over raw (N rows × M attributes). attributes
// names the columns and must have length M.
func Fit(raw mat.Matrix, attributes []string, opts Options) (*Model, error) {
	_, cols := raw.Dims()
	if len(attributes) != cols {
		return nil, fmt.Errorf("%w: %d attribute names for %d columns", ErrDimensionMismatch, len(attributes), cols)
	}
	limit := opts.MaxAttributes
	if limit <= 0 {
		limit = DefaultMaxAttributes
	}
	if cols > limit {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyAttributes, cols, limit)
	}

	std, err := Standardize(raw)
	if err != nil {
		var degenerate *DegenerateColumnError
		if errors.As(err, &degenerate) {
			degenerate.Name = attributes[degenerate.Column]
		}
		return nil, err
	}

	dec, err := Decompose(std.Z)
	if err != nil {
		return nil, err
	}
	comps := Orient(dec)

	return &Model{
		Attributes:    append([]string(nil), attributes...),
		Standardized:  std,
		Decomposition: dec,
		Components:    comps,
		Scores:        Project(std.Z, comps),
		Variance:      ExplainedVariance(comps.Values),
		Loadings:      loadings(attributes, comps),
	}, nil
}

func loadings(attributes []string, c *Components) []Loading {
	out := make([]Loading, len(attributes))
	for j, name := range attributes {
		out[j] = Loading{Attribute: name, PC1: c.Vectors.At(j, 0)}
		if c.Len() > 1 {
			out[j].PC2 = c.Vectors.At(j, 1)
		}
	}
	return out
}

// Coordinates returns PC1 and PC2 of row i.
func (m *Model) Coordinates(i int) (pc1, pc2 float64) {
	pc1 = m.Scores.At(i, 0)
	if _, cols := m.Scores.Dims(); cols > 1 {
		pc2 = m.Scores.At(i, 1)
	}
	return pc1, pc2
}

// Transform places a new raw row on the fitted map using the population's
// standardization statistics.
func (m *Model) Transform(raw []float64) (pc1, pc2 float64, err error) {
	z, err := m.Standardized.Apply(raw)
	if err != nil {
		return 0, 0, err
	}
	return m.Components.ProjectRow(z)
}
