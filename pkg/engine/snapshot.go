package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nico916/football-comparator/pkg/neighbors"
	"github.com/nico916/football-comparator/pkg/pca"
	"github.com/nico916/football-comparator/pkg/roster"
)

// ErrMissingAttribute is returned by PlaceNamed when a fitted attribute has no value.
var ErrMissingAttribute = errors.New("engine: missing attribute")

// Extent is the bounding box of the projection, used to draw chart axes.
type Extent struct {
	MinPC1 float64 `json:"min_pc1"`
	MaxPC1 float64 `json:"max_pc1"`
	MinPC2 float64 `json:"min_pc2"`
	MaxPC2 float64 `json:"max_pc2"`
}

// Snapshot is the immutable result of one dataset load.
type Snapshot struct {
	// Key is the hex content hash of the raw dataset.
	Key string

	// FittedAt is when the PCA ran. A reload served from the cache keeps it.
	FittedAt time.Time

	Attributes []string
	Players    []roster.Player
	Variance   []pca.VarianceShare
	Loadings   []pca.Loading
	Extent     Extent

	model *pca.Model
	names *roster.NameIndex
}

// NeighborReport is the answer to a "who plays like X" request.
type NeighborReport struct {
	Player       string            `json:"player"`
	Position     roster.Position   `json:"position,omitempty"`
	Found        bool              `json:"found"`
	Global       []neighbors.Match `json:"global"`
	SamePosition []neighbors.Match `json:"same_position"`
}

func buildSnapshot(data []byte, opts Options) (*Snapshot, error) {
	ds, err := roster.Parse(data, opts.Load)
	if err != nil {
		return nil, err
	}
	model, err := pca.Fit(ds.Matrix(), ds.Attributes, opts.Model)
	if err != nil {
		return nil, err
	}

	players := make([]roster.Player, len(ds.Players))
	extent := Extent{
		MinPC1: math.Inf(1), MaxPC1: math.Inf(-1),
		MinPC2: math.Inf(1), MaxPC2: math.Inf(-1),
	}
	for i, p := range ds.Players {
		p.PC1, p.PC2 = model.Coordinates(i)
		p.Archetype = roster.ArchetypeOf(p.PC1, p.PC2)
		players[i] = p

		extent.MinPC1 = math.Min(extent.MinPC1, p.PC1)
		extent.MaxPC1 = math.Max(extent.MaxPC1, p.PC1)
		extent.MinPC2 = math.Min(extent.MinPC2, p.PC2)
		extent.MaxPC2 = math.Max(extent.MaxPC2, p.PC2)
	}

	return &Snapshot{
		FittedAt:   time.Now(),
		Attributes: ds.Attributes,
		Players:    players,
		Variance:   model.Variance,
		Loadings:   model.Loadings,
		Extent:     extent,
		model:      model,
		names:      roster.NewNameIndex(players),
	}, nil
}

// Names returns the distinct player names in ascending order.
func (s *Snapshot) Names() []string {
	return s.names.Names()
}

// Lookup returns every player row carrying name, in dataset order.
func (s *Snapshot) Lookup(name string) []roster.Player {
	rows := s.names.Rows(name)
	out := make([]roster.Player, len(rows))
	for i, r := range rows {
		out[i] = s.Players[r]
	}
	return out
}

// Neighbors ranks the k nearest players to name, globally and within the
// position of name's first row. Same-position means exact equality of the
// normalized position.
func (s *Snapshot) Neighbors(name string, k int) NeighborReport {
	report := NeighborReport{
		Player:       name,
		Global:       []neighbors.Match{},
		SamePosition: []neighbors.Match{},
	}
	rows := s.names.Rows(name)
	if len(rows) == 0 {
		return report
	}

	report.Found = true
	report.Position = s.Players[rows[0]].Position
	report.Global = neighbors.Find(s.Players, name, k)
	report.SamePosition = neighbors.Find(neighbors.SamePosition(s.Players, report.Position), name, k)
	return report
}

// Place projects a hypothetical player, given raw attribute values in
// Attributes order, onto the fitted map.
func (s *Snapshot) Place(raw []float64) (roster.Player, error) {
	pc1, pc2, err := s.model.Transform(raw)
	if err != nil {
		return roster.Player{}, err
	}
	return roster.Player{
		Attributes: append([]float64(nil), raw...),
		PC1:        pc1,
		PC2:        pc2,
		Archetype:  roster.ArchetypeOf(pc1, pc2),
	}, nil
}

// PlaceNamed is Place with values keyed by attribute name. Every fitted
// attribute must be present; extra keys are ignored.
func (s *Snapshot) PlaceNamed(values map[string]float64) (roster.Player, error) {
	raw := make([]float64, len(s.Attributes))
	for j, name := range s.Attributes {
		v, ok := values[name]
		if !ok {
			return roster.Player{}, fmt.Errorf("%w '%s'", ErrMissingAttribute, name)
		}
		raw[j] = v
	}
	return s.Place(raw)
}
