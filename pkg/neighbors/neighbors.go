// Package neighbors ranks players by distance on the PC1/PC2 map.
//
// The finder is pool-agnostic: callers pass whatever candidate set they want
// searched (the whole league, or only players sharing a position) and call
// Find once per pool.
package neighbors

import (
	"math"
	"sort"

	"github.com/nico916/football-comparator/pkg/roster"
)

// Match is one ranked neighbor.
type Match struct {
	Player   string          `json:"player"`
	Position roster.Position `json:"position"`
	Distance float64         `json:"distance"`
}

// Distance is the Euclidean distance between two players in projected space.
func Distance(a, b roster.Player) float64 {
	d1 := a.PC1 - b.PC1
	d2 := a.PC2 - b.PC2
	return math.Sqrt(d1*d1 + d2*d2)
}

// Find returns up to k players from pool closest to the player called name,
// nearest first. Every pool entry carrying that name is excluded; when names
// repeat, the first entry supplies the query coordinates. An unknown name, an
// empty pool or k <= 0 yield an empty, non-nil slice. Equal distances keep
// pool order.
func Find(pool []roster.Player, name string, k int) []Match {
	matches := []Match{}
	if k <= 0 {
		return matches
	}

	query := -1
	for i := range pool {
		if pool[i].Name == name {
			query = i
			break
		}
	}
	if query < 0 {
		return matches
	}

	for i := range pool {
		if pool[i].Name == name {
			continue
		}
		matches = append(matches, Match{
			Player:   pool[i].Name,
			Position: pool[i].Position,
			Distance: Distance(pool[query], pool[i]),
		})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Distance < matches[b].Distance
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// SamePosition returns the players whose normalized position is exactly pos.
// There is no fallback to related positions.
func SamePosition(pool []roster.Player, pos roster.Position) []roster.Player {
	var out []roster.Player
	for _, p := range pool {
		if p.Position == pos {
			out = append(out, p)
		}
	}
	return out
}
