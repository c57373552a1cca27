package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/duel/internal/report"
	"github.com/cory-johannsen/duel/internal/simulation"
)

// ErrRunNotFound is returned when a run lookup yields no results.
var ErrRunNotFound = errors.New("simulation run not found")

// ErrRunExists is returned when saving a run whose ID is already stored.
var ErrRunExists = errors.New("simulation run already stored")

// StoredRun is a simulation run row as read back from the database.
type StoredRun struct {
	ID         uuid.UUID
	Challenger string
	Opponent   string
	Requested  int
	Battles    int
	Draws      int
	// Final holds each side's cumulative progression at the end of the run.
	Final      [2]Progression
	StartedAt  time.Time
	FinishedAt time.Time
	CreatedAt  time.Time
}

// Progression is one character's cumulative counters after a run.
type Progression struct {
	Wins       int
	Losses     int
	Experience int
	Gold       int
}

// BattleRow is one combatant's stored figures for one battle.
type BattleRow struct {
	BattleID          uuid.UUID
	Index             int
	Side              int
	Combatant         string
	Outcome           string
	Turns             int
	Attacks           int
	SuccessfulAttacks int
	CriticalHits      int
	TotalDamage       int
	TotalDamageGiven  float64
	Dodges            int
	SuccessfulDodges  int
	Blocks            int
	SuccessfulBlocks  int
	Winner            *bool
}

var battleColumns = []string{
	"battle_id", "run_id", "battle_index", "side", "combatant", "outcome", "turns",
	"attacks", "successful_attacks", "critical_hits", "total_damage", "total_damage_given",
	"dodges", "successful_dodges", "blocks", "successful_blocks", "winner",
}

// ReportRepository stores simulation run reports.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a ReportRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// SaveRun stores the run row and one battle row per battle and side in a
// single transaction.
//
// Precondition: run must be non-nil with both characters set.
// Postcondition: Either every row is stored or none is. Returns ErrRunExists
// when run.ID is already stored.
func (r *ReportRepository) SaveRun(ctx context.Context, run *simulation.Run) error {
	if run == nil || run.Challenger == nil || run.Opponent == nil {
		return errors.New("saving run: run and both characters are required")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	final := run.Final()
	_, err = tx.Exec(ctx, `
		INSERT INTO simulation_runs
			(id, challenger, opponent, requested, battles, draws,
			 challenger_wins, challenger_losses, challenger_experience, challenger_gold,
			 opponent_wins, opponent_losses, opponent_experience, opponent_gold,
			 started_at, finished_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		run.ID, run.Challenger.ID, run.Opponent.ID, run.Requested,
		run.Totals.Battles, run.Totals.Draws,
		final[0].Wins, final[0].Losses, final[0].Experience, final[0].Gold,
		final[1].Wins, final[1].Losses, final[1].Experience, final[1].Gold,
		run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrRunExists
		}
		return fmt.Errorf("inserting run: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"battle_summaries"}, battleColumns,
		pgx.CopyFromRows(battleRows(run.ID, run.Battles))); err != nil {
		return fmt.Errorf("copying battle summaries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

func battleRows(runID uuid.UUID, battles []report.BattleSummary) [][]any {
	rows := make([][]any, 0, len(battles)*2)
	for _, b := range battles {
		for side, c := range b.Combatants {
			rows = append(rows, []any{
				b.ID, runID, b.Index, int16(side), c.Name, b.Outcome.String(), b.Turns,
				c.Attacks, c.SuccessfulAttacks, c.CriticalHits, c.TotalDamage, c.TotalDamageGiven,
				c.Dodges, c.SuccessfulDodges, c.Blocks, c.SuccessfulBlocks, c.Winner,
			})
		}
	}
	return rows
}

// GetRun retrieves a stored run by ID.
//
// Postcondition: Returns the StoredRun or ErrRunNotFound.
func (r *ReportRepository) GetRun(ctx context.Context, id uuid.UUID) (*StoredRun, error) {
	var s StoredRun
	err := r.db.QueryRow(ctx, `
		SELECT id, challenger, opponent, requested, battles, draws,
		       challenger_wins, challenger_losses, challenger_experience, challenger_gold,
		       opponent_wins, opponent_losses, opponent_experience, opponent_gold,
		       started_at, finished_at, created_at
		FROM simulation_runs WHERE id = $1`,
		id,
	).Scan(
		&s.ID, &s.Challenger, &s.Opponent, &s.Requested, &s.Battles, &s.Draws,
		&s.Final[0].Wins, &s.Final[0].Losses, &s.Final[0].Experience, &s.Final[0].Gold,
		&s.Final[1].Wins, &s.Final[1].Losses, &s.Final[1].Experience, &s.Final[1].Gold,
		&s.StartedAt, &s.FinishedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("querying run: %w", err)
	}
	return &s, nil
}

// ListBattles returns the stored battle rows of a run ordered by battle
// index and side.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *ReportRepository) ListBattles(ctx context.Context, runID uuid.UUID) ([]BattleRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT battle_id, battle_index, side, combatant, outcome, turns,
		       attacks, successful_attacks, critical_hits, total_damage, total_damage_given,
		       dodges, successful_dodges, blocks, successful_blocks, winner
		FROM battle_summaries WHERE run_id = $1 ORDER BY battle_index ASC, side ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing battles: %w", err)
	}
	defer rows.Close()

	out := make([]BattleRow, 0)
	for rows.Next() {
		var b BattleRow
		if err := rows.Scan(
			&b.BattleID, &b.Index, &b.Side, &b.Combatant, &b.Outcome, &b.Turns,
			&b.Attacks, &b.SuccessfulAttacks, &b.CriticalHits, &b.TotalDamage, &b.TotalDamageGiven,
			&b.Dodges, &b.SuccessfulDodges, &b.Blocks, &b.SuccessfulBlocks, &b.Winner,
		); err != nil {
			return nil, fmt.Errorf("scanning battle row: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and, by cascade, its battle rows.
//
// Postcondition: Returns ErrRunNotFound when no run has the ID.
func (r *ReportRepository) DeleteRun(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM simulation_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

func isDuplicateKeyError(err error) bool {
	// SQLSTATE 23505 is unique_violation.
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
