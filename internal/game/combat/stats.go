package combat

import "github.com/cory-johannsen/duel/internal/game/inventory"

// AttackStats records one hit check made by the owning combatant.
type AttackStats struct {
	BaseChance            float64
	WeightChanceReduction float64
	Chance                float64
	Rolled                int
	IsSuccessful          bool
	Hand                  Hand
	WasDodged             bool
	// Critical is set only when the attack hit and was not dodged.
	Critical *CriticalHitStats
	// Damage is set only when the attack landed and was not blocked.
	Damage *DamageStats
}

// DodgeStats records one dodge check made by the owning combatant as defender.
type DodgeStats struct {
	BaseChance            float64
	WeightChanceReduction float64
	Chance                float64
	Rolled                int
	IsSuccessful          bool
}

// CriticalHitStats records one critical check.
type CriticalHitStats struct {
	Chance       float64
	Rolled       int
	IsSuccessful bool
}

// BlockStats records one shield block check made by the owning combatant as defender.
type BlockStats struct {
	Chance       float64
	Rolled       int
	Damage       int
	IsSuccessful bool
}

// DamageStats records damage applied to the defender by a landed attack.
type DamageStats struct {
	DamageCaused          int
	AgainstArmourType     inventory.Material
	DamageBlockedByArmour float64
}

// WoundStats records every landed, undodged attack against the owning
// combatant, blocked or not.
type WoundStats struct {
	Weapon                string
	Armour                string
	AttackerStrength      int
	IsCriticalDamage      bool
	DamageTaken           int
	DamageBlockedByArmour float64
}

// RoundStats accumulates one combatant's records over a single battle.
type RoundStats struct {
	Attacks []AttackStats
	Dodges  []DodgeStats
	Blocks  []BlockStats
	Wounds  []WoundStats
	// Winner is nil until the battle ends in a victory.
	Winner *bool
}
