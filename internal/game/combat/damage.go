package combat

import (
	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/inventory"
)

// CriticalMultiplier scales pre-rounding damage on a critical hit.
const CriticalMultiplier = 1.5

// BaseDamage rolls the unrounded damage of one swing. A dual-wielder gets
// half the strength bonus per swing and a narrower variability band.
//
// Precondition: weapon and src must be non-nil; strength >= 0.
// Postcondition: (1-1/4)*nominal < result <= nominal when dualWield, else
// (1-1/5)*nominal < result <= nominal, where nominal is the damage before variability.
func BaseDamage(weapon *inventory.WeaponDef, strength int, dualWield bool, src Source) float64 {
	bonus, divisor := 1.0, 5.0
	if dualWield {
		bonus, divisor = 0.5, 4.0
	}
	nominal := float64(weapon.Damage) + float64(strength)/5*bonus
	return nominal - src.Float64()*nominal/divisor
}

// FinalDamage applies the critical multiplier and rounds.
//
// Postcondition: result == Round(base*1.5) when critical, else Round(base).
func FinalDamage(base float64, critical bool) int {
	if critical {
		base *= CriticalMultiplier
	}
	return int(character.Round(base))
}
