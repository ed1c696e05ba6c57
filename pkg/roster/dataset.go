// Package roster defines the player schema and loads season tables from CSV.
//
// A table has one identifier column (the player name), one raw position
// column and any number of numeric attribute columns. Positions are
// normalized on load; attributes are kept in header order so they line up
// with the loadings reported by the PCA.
package roster

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// LoadOptions describes the layout of the source table.
type LoadOptions struct {
	// Delimiter separates fields. Zero means ';'.
	Delimiter rune

	// IDColumn and PositionColumn name the identifier and position columns.
	// Empty values mean "Player" and "Pos".
	IDColumn       string
	PositionColumn string

	// Attributes lists the numeric columns to use, in order. When empty, every
	// other column whose values all parse as numbers is used, in header order.
	Attributes []string
}

// DefaultLoadOptions matches the processed season export: semicolon separated,
// "Player" and "Pos" columns, numeric columns auto-detected.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Delimiter: ';', IDColumn: "Player", PositionColumn: "Pos"}
}

func (o LoadOptions) withDefaults() LoadOptions {
	def := DefaultLoadOptions()
	if o.Delimiter == 0 {
		o.Delimiter = def.Delimiter
	}
	if o.IDColumn == "" {
		o.IDColumn = def.IDColumn
	}
	if o.PositionColumn == "" {
		o.PositionColumn = def.PositionColumn
	}
	return o
}

// Dataset is a parsed season table.
type Dataset struct {
	Attributes []string
	Players    []Player
}

// Matrix returns the N×M attribute matrix, one row per player.
func (d *Dataset) Matrix() *mat.Dense {
	m := mat.NewDense(len(d.Players), len(d.Attributes), nil)
	for i, p := range d.Players {
		m.SetRow(i, p.Attributes)
	}
	return m
}

// LoadFile reads a dataset from path.
func LoadFile(path string, opts LoadOptions) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read dataset '%s': %w", path, err)
	}
	return Parse(data, opts)
}

// Parse decodes a dataset from raw CSV bytes. A leading UTF-8 BOM is ignored.
func Parse(data []byte, opts LoadOptions) (*Dataset, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return Load(bytes.NewReader(data), opts)
}

// Load decodes a dataset from r.
func Load(r io.Reader, opts LoadOptions) (*Dataset, error) {
	opts = opts.withDefaults()

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV syntax error: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrEmptyDataset)
	}
	header, rows := records[0], records[1:]
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	idCol, ok := columns[opts.IDColumn]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, opts.IDColumn)
	}
	posCol, ok := columns[opts.PositionColumn]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, opts.PositionColumn)
	}

	attrNames, attrCols, err := selectAttributes(header, rows, columns, opts, idCol, posCol)
	if err != nil {
		return nil, err
	}

	players := make([]Player, len(rows))
	for i, row := range rows {
		values := make([]float64, len(attrCols))
		for j, c := range attrCols {
			v, err := parseNumber(row[c])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %q", ErrInvalidValue, i+2, attrNames[j], row[c])
			}
			values[j] = v
		}
		raw := strings.TrimSpace(row[posCol])
		players[i] = Player{
			Name:        strings.TrimSpace(row[idCol]),
			RawPosition: raw,
			Position:    NormalizePosition(raw),
			Attributes:  values,
		}
	}

	return &Dataset{Attributes: attrNames, Players: players}, nil
}

func selectAttributes(header []string, rows [][]string, columns map[string]int, opts LoadOptions, idCol, posCol int) ([]string, []int, error) {
	if len(opts.Attributes) > 0 {
		cols := make([]int, len(opts.Attributes))
		for j, name := range opts.Attributes {
			c, ok := columns[name]
			if !ok {
				return nil, nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
			}
			cols[j] = c
		}
		return append([]string(nil), opts.Attributes...), cols, nil
	}

	var names []string
	var cols []int
	for c, name := range header {
		if c == idCol || c == posCol {
			continue
		}
		if numericColumn(rows, c) {
			names = append(names, strings.TrimSpace(name))
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, nil, ErrNoAttributes
	}
	return names, cols, nil
}

func numericColumn(rows [][]string, c int) bool {
	for _, row := range rows {
		if _, err := parseNumber(row[c]); err != nil {
			return false
		}
	}
	return true
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
