package combat

import "github.com/cory-johannsen/duel/internal/game/character"

// Succeeds is the single success predicate for every check: the roll must
// strictly exceed the required chance.
//
// Postcondition: Succeeds(x, float64(x)) == false.
func Succeeds(roll int, required float64) bool {
	return float64(roll) > required
}

// HitChance returns the roll an attacker must beat to hit the defender,
// before the defender's burden is added.
func HitChance(attacker, defender *character.Actor) float64 {
	dex := float64(attacker.Dexterity-defender.Dexterity) / 10
	intel := float64(attacker.Intelligence-defender.Intelligence) / 10
	return character.Round(50 - dex + intel)
}

// DodgeChance returns the roll a defender must beat to dodge the attacker,
// before the defender's burden is added.
func DodgeChance(defender, attacker *character.Actor) float64 {
	dex := float64(defender.Dexterity-attacker.Dexterity) / 10
	intel := float64(defender.Intelligence-attacker.Intelligence) / 10
	return character.Round(66 - dex + intel)
}

// BurdenPenalty returns how much a defender's burden raises both the hit and
// dodge thresholds.
func BurdenPenalty(defender *character.Actor) float64 {
	return character.Burden(defender) / 10
}

// CriticalChance returns the roll an attacker must beat to land a critical hit. It is not rounded.
func CriticalChance(attacker, defender *character.Actor) float64 {
	return 90 - float64(attacker.Intelligence-defender.Intelligence)/10
}

// BlockChance returns the roll the defender must beat to block. A defender
// without an active shield never attempts a block; the function returns 0.
func BlockChance(defender *character.Actor) float64 {
	s := defender.OffHand.ActiveShield()
	if s == nil {
		return 0
	}
	return float64(100 - s.Def.BlockChance)
}
