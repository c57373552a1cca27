package combat

import (
	"fmt"

	"github.com/cory-johannsen/duel/internal/game/dice"
)

// Event is a single resolved swing within a battle.
type Event struct {
	Turn     int
	Attacker string
	Defender string
	Hand     Hand
	Hit      bool
	Dodged   bool
	Critical bool
	Blocked  bool
	// Damage is the post-critical damage before mitigation; 0 when the swing did not land.
	Damage int
	// Dealt is the health the defender actually lost.
	Dealt float64
	// DefenderHealth is the defender's health after the swing.
	DefenderHealth float64
	Narrative      string
}

// resolveSwing runs the full check pipeline for one swing of attacker's hand
// against defender, mutating defender health, shield durability, and both
// combatants' stats.
//
// Precondition: attacker and defender are distinct live combatants.
// Postcondition: exactly one AttackStats is appended to attacker and one
// DodgeStats to defender; the Source is consumed in the fixed order hit,
// dodge, then (on a clean hit) critical, damage fraction, block.
func (e *Engine) resolveSwing(turn int, attacker, defender *Combatant, hand Hand) Event {
	a, d := attacker.actor(), defender.actor()
	weapon := attacker.weapon(hand)
	penalty := BurdenPenalty(d)

	hitBase := HitChance(a, d)
	attack := AttackStats{
		BaseChance:            hitBase,
		WeightChanceReduction: penalty,
		Chance:                hitBase + penalty,
		Rolled:                dice.Percentile(e.src),
		Hand:                  hand,
	}
	attack.IsSuccessful = Succeeds(attack.Rolled, attack.Chance)

	dodgeBase := DodgeChance(d, a)
	dodge := DodgeStats{
		BaseChance:            dodgeBase,
		WeightChanceReduction: penalty,
		Chance:                dodgeBase + penalty,
		Rolled:                dice.Percentile(e.src),
	}
	dodge.IsSuccessful = Succeeds(dodge.Rolled, dodge.Chance)
	attack.WasDodged = dodge.IsSuccessful

	ev := Event{
		Turn:     turn,
		Attacker: attacker.Name(),
		Defender: defender.Name(),
		Hand:     hand,
		Hit:      attack.IsSuccessful,
		Dodged:   dodge.IsSuccessful,
	}

	if attack.IsSuccessful && !dodge.IsSuccessful {
		crit := &CriticalHitStats{
			Chance: CriticalChance(a, d),
			Rolled: dice.Percentile(e.src),
		}
		crit.IsSuccessful = Succeeds(crit.Rolled, crit.Chance)
		attack.Critical = crit

		damage := FinalDamage(BaseDamage(weapon, a.Strength, a.OffHand.IsDualWield(), e.src), crit.IsSuccessful)
		mitigation := Mitigation(d.Armour, e.policy.mitigationEdge(a.MainHand, weapon))
		absorbed, dealt := mitigation, float64(damage)-mitigation
		if e.policy.ClampMitigation && dealt < 0 {
			absorbed, dealt = float64(damage), 0
		}

		blocked := false
		if shield := d.OffHand.ActiveShield(); shield != nil {
			block := BlockStats{
				Chance: BlockChance(d),
				Rolled: dice.Percentile(e.src),
				Damage: damage,
			}
			block.IsSuccessful = Succeeds(block.Rolled, block.Chance)
			shield.Absorb(damage)
			defender.Stats.Blocks = append(defender.Stats.Blocks, block)
			blocked = block.IsSuccessful
		}

		if !blocked {
			defender.Health -= dealt
			attack.Damage = &DamageStats{
				DamageCaused:          damage,
				AgainstArmourType:     d.Armour.Material,
				DamageBlockedByArmour: absorbed,
			}
			ev.Dealt = dealt
		}

		defender.Stats.Wounds = append(defender.Stats.Wounds, WoundStats{
			Weapon:                weapon.Name,
			Armour:                d.Armour.Name,
			AttackerStrength:      a.Strength,
			IsCriticalDamage:      crit.IsSuccessful,
			DamageTaken:           damage,
			DamageBlockedByArmour: absorbed,
		})

		ev.Critical = crit.IsSuccessful
		ev.Blocked = blocked
		ev.Damage = damage
	}

	attacker.Stats.Attacks = append(attacker.Stats.Attacks, attack)
	defender.Stats.Dodges = append(defender.Stats.Dodges, dodge)

	ev.DefenderHealth = defender.Health
	ev.Narrative = narrate(ev, weapon.Name)
	return ev
}

func narrate(ev Event, weapon string) string {
	switch {
	case !ev.Hit:
		return fmt.Sprintf("%s swings %s at %s and misses.", ev.Attacker, weapon, ev.Defender)
	case ev.Dodged:
		return fmt.Sprintf("%s dodges %s's %s.", ev.Defender, ev.Attacker, weapon)
	case ev.Blocked:
		return fmt.Sprintf("%s blocks %s's %s.", ev.Defender, ev.Attacker, weapon)
	case ev.Critical:
		return fmt.Sprintf("%s critically hits %s with %s for %d.", ev.Attacker, ev.Defender, weapon, ev.Damage)
	default:
		return fmt.Sprintf("%s hits %s with %s for %d.", ev.Attacker, ev.Defender, weapon, ev.Damage)
	}
}
