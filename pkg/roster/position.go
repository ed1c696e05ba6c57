package roster

// Position is a normalized playing position.
type Position string

const (
	Goalkeeper Position = "GK"
	Defender   Position = "DF"
	Midfielder Position = "MF"
	Forward    Position = "FW"
)

// NormalizePosition collapses composite position codes (a player listed as
// both forward and midfielder, for example) onto a single category. Codes
// outside the merge table pass through unchanged.
func NormalizePosition(raw string) Position {
	switch raw {
	case "MFFW":
		return Midfielder
	case "FWMF":
		return Forward
	case "DFMF":
		return Midfielder
	case "MFDF":
		return Midfielder
	case "FWDF":
		return Forward
	case "DFFW":
		return Defender
	default:
		return Position(raw)
	}
}

// String implements fmt.Stringer.
func (p Position) String() string { return string(p) }
