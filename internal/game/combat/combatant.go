package combat

import (
	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/inventory"
)

// Combatant is the per-battle state wrapped around a persistent Character.
// A Combatant is created when a battle starts and discarded when it ends;
// its Character, including shield wear, outlives it.
type Combatant struct {
	Character *character.Character

	// Attacks is the number of actions remaining this turn.
	Attacks int
	// AttackRemainder is the action budget carried into the next turn.
	AttackRemainder float64
	// Weight is the burden computed at the last turn boundary.
	Weight float64
	// Initiative is the turn-order score computed at the last turn boundary.
	Initiative float64
	// Health starts at the derived health pool.
	Health float64

	Stats RoundStats
}

// NewCombatant derives fresh battle state for c.
//
// Precondition: c must be non-nil and fully equipped.
// Postcondition: Health == HealthPool; Attacks, AttackRemainder, Initiative,
// and Weight are derived with no carried budget; Stats is empty.
func NewCombatant(c *character.Character) *Combatant {
	cbt := &Combatant{
		Character: c,
		Health:    character.HealthPool(&c.Actor),
	}
	cbt.refresh()
	return cbt
}

// refresh recomputes the turn-boundary state from the actor and the carried remainder.
func (c *Combatant) refresh() {
	a := c.actor()
	c.Attacks, c.AttackRemainder = character.ActionBudget(a, c.AttackRemainder)
	c.Initiative = character.Initiative(a, c.AttackRemainder)
	c.Weight = character.Burden(a)
}

func (c *Combatant) actor() *character.Actor { return &c.Character.Actor }

// Name returns the wrapped character's name.
func (c *Combatant) Name() string { return c.Character.Name }

// IsDefeated reports whether health has dropped to zero or below.
func (c *Combatant) IsDefeated() bool { return c.Health <= 0 }

// weapon returns the weapon used for a swing with hand.
//
// Precondition: hand == HandMain, or the off hand holds a weapon.
func (c *Combatant) weapon(hand Hand) *inventory.WeaponDef {
	if hand == HandOff {
		return c.actor().OffHand.Weapon
	}
	return c.actor().MainHand
}
