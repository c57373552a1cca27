// Package report turns per-battle combat records into summaries, run
// totals, and the console report.
package report

import (
	"math"

	"github.com/google/uuid"

	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
)

// CombatantSummary holds one combatant's figures for one battle.
//
// Rates are ratios over the matching count, rounded to three decimals, and
// 0 when the count is 0. Averages are per attack, rounded half up.
type CombatantSummary struct {
	Name string

	Attacks           int
	SuccessfulAttacks int
	AttackRate        float64
	CriticalHits      int
	CriticalRate      float64

	// TotalDamage is the damage landed before armour.
	TotalDamage   int
	AverageDamage float64
	// TotalDamageGiven is the damage landed after armour.
	TotalDamageGiven   float64
	AverageDamageGiven float64

	Dodges           int
	SuccessfulDodges int
	DodgeRate        float64

	Blocks           int
	SuccessfulBlocks int
	BlockRate        float64

	// Winner is nil for a draw.
	Winner *bool
}

// BattleSummary holds both combatants' figures for one battle.
type BattleSummary struct {
	ID         uuid.UUID
	Index      int
	Outcome    combat.Outcome
	Turns      int
	Combatants [2]CombatantSummary
}

// Rate returns n/d rounded to three decimals, or 0 when d is 0.
func Rate(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return math.Floor(float64(n)/float64(d)*1000+0.5) / 1000
}

func average(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return character.Round(total / float64(count))
}

// SummarizeCombatant computes one combatant's battle figures from its records.
//
// Precondition: c must be non-nil.
func SummarizeCombatant(c *combat.Combatant) CombatantSummary {
	s := CombatantSummary{
		Name:    c.Name(),
		Attacks: len(c.Stats.Attacks),
		Dodges:  len(c.Stats.Dodges),
		Blocks:  len(c.Stats.Blocks),
		Winner:  c.Stats.Winner,
	}
	for _, a := range c.Stats.Attacks {
		if a.IsSuccessful {
			s.SuccessfulAttacks++
		}
		if a.Critical != nil && a.Critical.IsSuccessful {
			s.CriticalHits++
		}
		if a.Damage != nil {
			s.TotalDamage += a.Damage.DamageCaused
			s.TotalDamageGiven += float64(a.Damage.DamageCaused) - a.Damage.DamageBlockedByArmour
		}
	}
	for _, d := range c.Stats.Dodges {
		if d.IsSuccessful {
			s.SuccessfulDodges++
		}
	}
	for _, b := range c.Stats.Blocks {
		if b.IsSuccessful {
			s.SuccessfulBlocks++
		}
	}
	s.AttackRate = Rate(s.SuccessfulAttacks, s.Attacks)
	s.CriticalRate = Rate(s.CriticalHits, s.Attacks)
	s.DodgeRate = Rate(s.SuccessfulDodges, s.Dodges)
	s.BlockRate = Rate(s.SuccessfulBlocks, s.Blocks)
	s.AverageDamage = average(float64(s.TotalDamage), s.Attacks)
	s.AverageDamageGiven = average(s.TotalDamageGiven, s.Attacks)
	return s
}

// Summarize computes the summary of a finished battle.
//
// Precondition: res must be non-nil.
func Summarize(id uuid.UUID, index int, res *combat.Result) BattleSummary {
	return BattleSummary{
		ID:      id,
		Index:   index,
		Outcome: res.Outcome,
		Turns:   res.Turns,
		Combatants: [2]CombatantSummary{
			SummarizeCombatant(res.Combatants[0]),
			SummarizeCombatant(res.Combatants[1]),
		},
	}
}
