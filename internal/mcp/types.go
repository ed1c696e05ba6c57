package mcp

import (
	"github.com/nico916/football-comparator/pkg/neighbors"
	"github.com/nico916/football-comparator/pkg/pca"
	"github.com/nico916/football-comparator/pkg/roster"
)

// --- Tool Arguments ---

type FindSimilarArgs struct {
	Player string `json:"player" jsonschema:"Player name exactly as it appears in the dataset (e.g. 'Kylian Mbappé')"`
	K      int    `json:"k,omitempty" jsonschema:"Number of neighbors per list (default 5)"`
}

type FindSimilarResult struct {
	Player       string            `json:"player"`
	Position     roster.Position   `json:"position,omitempty"`
	Found        bool              `json:"found"`
	Resource     string            `json:"resource,omitempty"` // PlayerTemplate URI of the queried player
	Global       []neighbors.Match `json:"global"`
	SamePosition []neighbors.Match `json:"same_position"`
	Summary      string            `json:"summary"` // Formatted text for the LLM
}

type DescribeComponentsArgs struct{}

type DescribeComponentsResult struct {
	Variance []pca.VarianceShare `json:"variance"`
	Loadings []pca.Loading       `json:"loadings"`
	Summary  string              `json:"summary"`
}

type ListPlayersArgs struct {
	Position string `json:"position,omitempty" jsonschema:"Optional position filter: GK, DF, MF or FW"`
}

type ListPlayersResult struct {
	Players []string `json:"players"`
	Count   int      `json:"count"`
}

type PlacePlayerArgs struct {
	Attributes map[string]float64 `json:"attributes" jsonschema:"Raw season value for every attribute of the fitted dataset"`
}

type PlacePlayerResult struct {
	PC1       float64          `json:"pc1"`
	PC2       float64          `json:"pc2"`
	Archetype roster.Archetype `json:"archetype"`
}
