package report

import "github.com/cory-johannsen/duel/internal/game/combat"

// CombatantTotals sums one side's battle summaries over a run.
type CombatantTotals struct {
	Name              string
	Wins              int
	Losses            int
	Attacks           int
	SuccessfulAttacks int
	CriticalHits      int
	TotalDamage       int
	TotalDamageGiven  float64
	Dodges            int
	SuccessfulDodges  int
	Blocks            int
	SuccessfulBlocks  int
}

// Totals accumulates battle summaries over a run. It is a value: Add returns
// the updated totals and never mutates its receiver.
type Totals struct {
	Battles    int
	Draws      int
	Combatants [2]CombatantTotals
}

// Add returns t with b folded in.
//
// Postcondition: result.Battles == t.Battles+1.
func (t Totals) Add(b BattleSummary) Totals {
	t.Battles++
	if b.Outcome == combat.Draw {
		t.Draws++
	}
	for i := range t.Combatants {
		t.Combatants[i] = t.Combatants[i].add(b.Combatants[i])
	}
	return t
}

func (c CombatantTotals) add(s CombatantSummary) CombatantTotals {
	c.Name = s.Name
	if s.Winner != nil {
		if *s.Winner {
			c.Wins++
		} else {
			c.Losses++
		}
	}
	c.Attacks += s.Attacks
	c.SuccessfulAttacks += s.SuccessfulAttacks
	c.CriticalHits += s.CriticalHits
	c.TotalDamage += s.TotalDamage
	c.TotalDamageGiven += s.TotalDamageGiven
	c.Dodges += s.Dodges
	c.SuccessfulDodges += s.SuccessfulDodges
	c.Blocks += s.Blocks
	c.SuccessfulBlocks += s.SuccessfulBlocks
	return c
}

// AttackRate returns the run-wide successful attack rate.
func (c CombatantTotals) AttackRate() float64 { return Rate(c.SuccessfulAttacks, c.Attacks) }

// CriticalRate returns the run-wide critical hit rate.
func (c CombatantTotals) CriticalRate() float64 { return Rate(c.CriticalHits, c.Attacks) }

// DodgeRate returns the run-wide dodge rate.
func (c CombatantTotals) DodgeRate() float64 { return Rate(c.SuccessfulDodges, c.Dodges) }

// BlockRate returns the run-wide block rate.
func (c CombatantTotals) BlockRate() float64 { return Rate(c.SuccessfulBlocks, c.Blocks) }
