package roster

// Archetype names the quadrant of the PC1/PC2 map a player falls in. PC1
// runs from defensive to offensive play, PC2 from stereotyped to creative.
type Archetype string

const (
	OffensiveCreator Archetype = "offensive_creator"
	DefensiveCreator Archetype = "defensive_creator"
	RuggedDefender   Archetype = "rugged_defender"
	Finisher         Archetype = "finisher"
)

// ArchetypeOf classifies a coordinate pair. Zero counts as positive.
func ArchetypeOf(pc1, pc2 float64) Archetype {
	switch {
	case pc1 >= 0 && pc2 >= 0:
		return OffensiveCreator
	case pc1 < 0 && pc2 >= 0:
		return DefensiveCreator
	case pc1 < 0:
		return RuggedDefender
	default:
		return Finisher
	}
}

// Player is one row of the season table. Attributes are aligned with
// Dataset.Attributes. PC1, PC2 and Archetype are zero until the dataset has
// been projected.
type Player struct {
	Name        string    `json:"player"`
	RawPosition string    `json:"raw_position"`
	Position    Position  `json:"position"`
	Attributes  []float64 `json:"attributes,omitempty"`
	PC1         float64   `json:"pc1"`
	PC2         float64   `json:"pc2"`
	Archetype   Archetype `json:"archetype,omitempty"`
}
