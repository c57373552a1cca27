package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cory-johannsen/duel/internal/game/character"
)

// Capitalise returns name with the first letter of each word upper-cased.
func Capitalise(name string) string {
	return cases.Title(language.English).String(name)
}

func newPrinter() *message.Printer { return message.NewPrinter(language.English) }

// Render writes the run report: a header naming both characters, then each
// character's cumulative progression and summed battle figures.
//
// Precondition: final holds the characters in the order of totals.Combatants.
// Postcondition: Returns the first write error, if any.
func Render(w io.Writer, totals Totals, final [2]character.Snapshot) error {
	printer := newPrinter()
	var b strings.Builder
	printer.Fprintf(&b, "%s vs %s\n", Capitalise(final[0].Name), Capitalise(final[1].Name))
	b.WriteString("\n================\n\n")
	printer.Fprintf(&b, "Battles: %d\n", totals.Battles)
	printer.Fprintf(&b, "Draws: %d\n\n", totals.Draws)

	separators := [2]string{"\n++++++++++++++++\n\n", "\n~~~~~~~~~~~~~~~~\n"}
	for i, snap := range final {
		writeCombatant(printer, &b, snap, totals.Combatants[i])
		b.WriteString(separators[i])
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("report: writing run report: %w", err)
	}
	return nil
}

func writeCombatant(printer *message.Printer, b *strings.Builder, snap character.Snapshot, t CombatantTotals) {
	printer.Fprintf(b, "%s Stats\n", Capitalise(snap.Name))
	b.WriteString("----------------\n")
	printer.Fprintf(b, "Wins: %d\n", snap.Wins)
	printer.Fprintf(b, "Losses: %d\n", snap.Losses)
	printer.Fprintf(b, "Experience: %d\n", snap.Experience)
	printer.Fprintf(b, "Gold: %d\n", snap.Gold)
	printer.Fprintf(b, "Attacks: %d (hit rate %.3f)\n", t.Attacks, t.AttackRate())
	printer.Fprintf(b, "Critical Hits: %d (rate %.3f)\n", t.CriticalHits, t.CriticalRate())
	printer.Fprintf(b, "Total Damage: %d\n", t.TotalDamage)
	printer.Fprintf(b, "Total Damage Given: %.1f\n", t.TotalDamageGiven)
	printer.Fprintf(b, "Dodges: %d (rate %.3f)\n", t.Dodges, t.DodgeRate())
	printer.Fprintf(b, "Blocks: %d (rate %.3f)\n", t.Blocks, t.BlockRate())
}

// RenderBattle writes a one-paragraph summary of a single battle.
//
// Postcondition: Returns the first write error, if any.
func RenderBattle(w io.Writer, s BattleSummary) error {
	printer := newPrinter()
	var b strings.Builder
	printer.Fprintf(&b, "Battle %d: %s after %d turns\n", s.Index+1, s.Outcome, s.Turns)
	for _, c := range s.Combatants {
		printer.Fprintf(&b, "  %s: attacks %d/%d (%.3f), crits %d (%.3f), damage %d/%.1f (avg %.0f/%.0f), dodges %d/%d (%.3f), blocks %d/%d (%.3f)\n",
			Capitalise(c.Name),
			c.SuccessfulAttacks, c.Attacks, c.AttackRate,
			c.CriticalHits, c.CriticalRate,
			c.TotalDamage, c.TotalDamageGiven, c.AverageDamage, c.AverageDamageGiven,
			c.SuccessfulDodges, c.Dodges, c.DodgeRate,
			c.SuccessfulBlocks, c.Blocks, c.BlockRate,
		)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("report: writing battle %d: %w", s.Index+1, err)
	}
	return nil
}
