// Package simulation runs repeated battles between two characters and
// collects their summaries.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/report"
)

// Fighter resolves one battle between two characters.
type Fighter interface {
	Fight(one, two *character.Character) (*combat.Result, error)
}

// Run is the record of one simulation run.
type Run struct {
	ID         uuid.UUID
	Challenger *character.Character
	Opponent   *character.Character
	// Requested is the number of battles asked for; len(Battles) may be
	// lower when the run was cancelled.
	Requested  int
	Battles    []report.BattleSummary
	Totals     report.Totals
	StartedAt  time.Time
	FinishedAt time.Time
}

// Final returns the characters' progression as it stands after the run.
func (r *Run) Final() [2]character.Snapshot {
	return [2]character.Snapshot{r.Challenger.Snapshot(), r.Opponent.Snapshot()}
}

// Complete reports whether every requested battle was fought.
func (r *Run) Complete() bool { return len(r.Battles) == r.Requested }

// Runner drives a Fighter through a sequence of battles.
type Runner struct {
	fighter Fighter
	logger  *zap.Logger
	// OnBattle, when set, is called after each battle with its summary.
	OnBattle func(report.BattleSummary)
	now      func() time.Time
}

// NewRunner creates a Runner.
//
// Precondition: fighter and logger must be non-nil.
// Postcondition: Returns a non-nil Runner.
func NewRunner(fighter Fighter, logger *zap.Logger) *Runner {
	if fighter == nil {
		panic("simulation.NewRunner: fighter must not be nil")
	}
	if logger == nil {
		panic("simulation.NewRunner: logger must not be nil")
	}
	return &Runner{fighter: fighter, logger: logger, now: time.Now}
}

// Run fights n battles between challenger and opponent in sequence. The same
// two characters fight every battle, so their progression and shield wear
// carry from one battle to the next.
//
// Precondition: n >= 1; challenger and opponent must be distinct characters.
// Postcondition: on success len(run.Battles) == n. When ctx is cancelled
// between battles the partial run is returned together with ctx.Err(). A
// battle error stops the run and is returned wrapped with the battle number.
func (r *Runner) Run(ctx context.Context, challenger, opponent *character.Character, n int) (*Run, error) {
	if n < 1 {
		return nil, fmt.Errorf("simulation: battles must be >= 1, got %d", n)
	}
	if challenger == opponent {
		return nil, errors.New("simulation: a character cannot fight itself")
	}

	run := &Run{
		ID:         uuid.New(),
		Challenger: challenger,
		Opponent:   opponent,
		Requested:  n,
		Battles:    make([]report.BattleSummary, 0, n),
		StartedAt:  r.now(),
	}
	log := r.logger.With(zap.String("run_id", run.ID.String()))
	log.Info("simulation started",
		zap.String("challenger", challenger.ID),
		zap.String("opponent", opponent.ID),
		zap.Int("battles", n),
	)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			run.FinishedAt = r.now()
			log.Warn("simulation cancelled", zap.Int("completed", i), zap.Error(err))
			return run, err
		}

		res, err := r.fighter.Fight(challenger, opponent)
		if err != nil {
			run.FinishedAt = r.now()
			return run, fmt.Errorf("simulation: battle %d: %w", i+1, err)
		}

		summary := report.Summarize(uuid.New(), i, res)
		run.Battles = append(run.Battles, summary)
		run.Totals = run.Totals.Add(summary)
		if r.OnBattle != nil {
			r.OnBattle(summary)
		}
	}

	run.FinishedAt = r.now()
	log.Info("simulation finished",
		zap.Int("battles", run.Totals.Battles),
		zap.Int("draws", run.Totals.Draws),
		zap.Int("challenger_wins", run.Totals.Combatants[0].Wins),
		zap.Int("opponent_wins", run.Totals.Combatants[1].Wins),
		zap.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)),
	)
	return run, nil
}
