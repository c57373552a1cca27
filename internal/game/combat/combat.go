// Package combat implements the two-combatant melee engine for duel.
package combat

import "github.com/cory-johannsen/duel/internal/game/dice"

// DefaultMaxTurns is the turn ceiling applied when Policy.MaxTurns is zero.
const DefaultMaxTurns = 1000

// Source is the subset of dice.Source used by the engine.
type Source = dice.Source

// Hand identifies which weapon delivered a swing.
type Hand int

const (
	HandMain Hand = iota
	HandOff
)

// String returns a human-readable hand label.
func (h Hand) String() string {
	switch h {
	case HandMain:
		return "main"
	case HandOff:
		return "off"
	default:
		return "unknown"
	}
}

// Outcome is how a battle ended.
type Outcome int

const (
	// Victory means one combatant's health reached zero.
	Victory Outcome = iota
	// Draw means the turn ceiling was reached with both combatants standing.
	Draw
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case Victory:
		return "victory"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// EdgePolicy selects which weapon's edge drives armour mitigation for an
// off-hand swing.
type EdgePolicy string

const (
	// EdgeMainHand uses the main-hand edge for every swing.
	EdgeMainHand EdgePolicy = "main_hand"
	// EdgeStrikingWeapon uses the edge of the weapon that actually struck.
	EdgeStrikingWeapon EdgePolicy = "striking"
)

// Policy holds the rule switches that have more than one defensible reading.
type Policy struct {
	// ClampMitigation floors dealt damage at zero so armour never heals.
	ClampMitigation bool
	// OffHandEdge selects the mitigation edge for off-hand swings.
	OffHandEdge EdgePolicy
	// MaxTurns ends a battle as a draw after this many turns; 0 = DefaultMaxTurns.
	MaxTurns int
}

// DefaultPolicy returns the clamped, main-hand-edge policy with the default turn ceiling.
func DefaultPolicy() Policy {
	return Policy{
		ClampMitigation: true,
		OffHandEdge:     EdgeMainHand,
		MaxTurns:        DefaultMaxTurns,
	}
}

func (p Policy) maxTurns() int {
	if p.MaxTurns <= 0 {
		return DefaultMaxTurns
	}
	return p.MaxTurns
}
