// Package character defines the duel character model and the derived
// combat attributes computed from it.
package character

import "github.com/cory-johannsen/duel/internal/game/inventory"

// Actor holds a character's intrinsic attributes and equipped items.
//
// Actor is immutable during a battle except for the durability of a held
// shield, which the combat engine wears down in place.
type Actor struct {
	Intelligence int
	Strength     int
	Dexterity    int

	MainHand *inventory.WeaponDef
	OffHand  inventory.OffHand
	Armour   *inventory.ArmourDef
}

// Character is a named fighter whose progression accumulates across every
// battle of a simulation run.
//
// Gold, Experience, Wins, and Losses change only as a consequence of battle outcomes.
type Character struct {
	ID   string
	Name string

	Gold       int
	Experience int
	Wins       int
	Losses     int

	Actor Actor
}

// Snapshot is a read-only copy of a Character's progression counters.
type Snapshot struct {
	ID         string
	Name       string
	Gold       int
	Experience int
	Wins       int
	Losses     int
}

// Snapshot returns the current progression counters of c.
func (c *Character) Snapshot() Snapshot {
	return Snapshot{
		ID:         c.ID,
		Name:       c.Name,
		Gold:       c.Gold,
		Experience: c.Experience,
		Wins:       c.Wins,
		Losses:     c.Losses,
	}
}
