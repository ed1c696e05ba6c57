package server

import (
	"time"

	"github.com/nico916/football-comparator/pkg/engine"
	"github.com/nico916/football-comparator/pkg/pca"
	"github.com/nico916/football-comparator/pkg/roster"
)

// NeighborsRequest is the body of POST /api/neighbors.
type NeighborsRequest struct {
	Player string `json:"player" jsonschema:"player name exactly as it appears in the dataset"`
	K      int    `json:"k,omitempty" jsonschema:"number of neighbors per list; the configured default when omitted"`
}

// PlaceRequest is the body of POST /api/place.
type PlaceRequest struct {
	Attributes map[string]float64 `json:"attributes" jsonschema:"raw season value for every attribute of the fitted dataset"`
}

// PlayersResponse lists the distinct player names in ascending order.
type PlayersResponse struct {
	Players []string `json:"players"`
	Count   int      `json:"count"`
}

// PlayerResponse holds every row carrying a name.
type PlayerResponse struct {
	Player  string          `json:"player"`
	Entries []roster.Player `json:"entries"`
}

// ProjectionResponse is the full coordinate table, ready for a scatter plot.
type ProjectionResponse struct {
	Key        string          `json:"key"`
	FittedAt   time.Time       `json:"fitted_at"`
	Attributes []string        `json:"attributes"`
	Players    []roster.Player `json:"players"`
	Extent     engine.Extent   `json:"extent"`
}

// VarianceResponse is the explained-variance table over all components.
type VarianceResponse struct {
	Components []pca.VarianceShare `json:"components"`
}

// LoadingsResponse is the M×2 loadings table.
type LoadingsResponse struct {
	Loadings []pca.Loading `json:"loadings"`
}

// PlaceResponse is the projection of a hypothetical player.
type PlaceResponse struct {
	PC1       float64          `json:"pc1"`
	PC2       float64          `json:"pc2"`
	Archetype roster.Archetype `json:"archetype"`
}
