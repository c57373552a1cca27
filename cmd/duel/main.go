// Package main provides the duel binary that runs repeated battles between two
// catalog characters and prints the aggregate report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/inventory"
	"github.com/cory-johannsen/duel/internal/observability"
	"github.com/cory-johannsen/duel/internal/report"
	"github.com/cory-johannsen/duel/internal/scripting"
	"github.com/cory-johannsen/duel/internal/simulation"
	"github.com/cory-johannsen/duel/internal/storage/postgres"
)

const (
	// saveTimeout bounds the report write, which runs even after an interrupt.
	saveTimeout = 30 * time.Second
	// healthTimeout bounds the database check made before the report write.
	healthTimeout = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	battles := flag.Int("battles", 0, "number of battles; 0 = simulation.battles")
	challenger := flag.String("challenger", "", "challenger character ID; empty = simulation.challenger")
	opponent := flag.String("opponent", "", "opponent character ID; empty = simulation.opponent")
	seed := flag.Uint64("seed", 0, "dice seed for a reproducible run; 0 = simulation.seed")
	verbose := flag.Bool("verbose", false, "print one line per battle")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	cfg, err = applyFlags(cfg, *battles, *challenger, *opponent, *seed)
	if err != nil {
		log.Fatalf("applying flags: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdout, *verbose); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("run interrupted")
			os.Exit(130)
		}
		logger.Fatal("simulation failed", zap.Error(err))
	}
}

// applyFlags overrides cfg with every non-zero flag value and revalidates.
func applyFlags(cfg config.Config, battles int, challenger, opponent string, seed uint64) (config.Config, error) {
	if battles != 0 {
		cfg.Simulation.Battles = battles
	}
	if challenger != "" {
		cfg.Simulation.Challenger = challenger
	}
	if opponent != "" {
		cfg.Simulation.Opponent = opponent
	}
	if seed != 0 {
		cfg.Simulation.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// run loads the catalog, fights the configured battles, writes the report to
// out and, when enabled, stores it. A cancelled run still renders and stores
// the battles fought so far before returning ctx.Err().
func run(ctx context.Context, cfg config.Config, logger *zap.Logger, out io.Writer, verbose bool) error {
	start := time.Now()
	sim := cfg.Simulation

	reg, err := inventory.LoadRegistry(sim.ContentDir)
	if err != nil {
		return fmt.Errorf("loading item catalog: %w", err)
	}
	defs, err := character.LoadDefs(filepath.Join(sim.ContentDir, "characters"))
	if err != nil {
		return fmt.Errorf("loading characters: %w", err)
	}
	roster, err := character.NewRoster(defs)
	if err != nil {
		return fmt.Errorf("building roster: %w", err)
	}
	one, err := roster.Build(sim.Challenger, reg)
	if err != nil {
		return fmt.Errorf("building challenger: %w", err)
	}
	two, err := roster.Build(sim.Opponent, reg)
	if err != nil {
		return fmt.Errorf("building opponent: %w", err)
	}
	logger.Info("catalog loaded",
		zap.Int("weapons", len(reg.AllWeapons())),
		zap.Int("characters", len(defs)),
		zap.Duration("elapsed", time.Since(start)),
	)

	rewards, closeRewards, err := newRewards(cfg.Rewards, logger)
	if err != nil {
		return err
	}
	defer closeRewards()

	var (
		pool *postgres.Pool
		repo *postgres.ReportRepository
	)
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err = postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		repo = postgres.NewReportRepository(pool.DB())
	}

	policy := combat.Policy{
		ClampMitigation: sim.ClampMitigation,
		OffHandEdge:     combat.EdgePolicy(sim.OffHandEdge),
		MaxTurns:        sim.MaxTurns,
	}
	engine := combat.NewEngine(newSource(sim, logger), policy, rewards, logger)

	runner := simulation.NewRunner(engine, logger)
	if verbose {
		runner.OnBattle = func(s report.BattleSummary) {
			if err := report.RenderBattle(out, s); err != nil {
				logger.Warn("writing battle line", zap.Error(err))
			}
		}
	}

	result, runErr := runner.Run(ctx, one, two, sim.Battles)
	if result == nil {
		return runErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	if err := report.Render(out, result.Totals, result.Final()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if repo != nil && len(result.Battles) > 0 {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
		defer cancel()
		if err := pool.Health(saveCtx, healthTimeout); err != nil {
			return fmt.Errorf("database unavailable after run %s: %w", result.ID, err)
		}
		if err := repo.SaveRun(saveCtx, result); err != nil {
			return fmt.Errorf("storing report: %w", err)
		}
		logger.Info("report stored", zap.String("run_id", result.ID.String()))
	}
	return runErr
}

// newSource returns the dice source for a run: seeded when sim.Seed is set,
// crypto/rand otherwise, logging every draw when sim.LogRolls is set.
func newSource(sim config.SimulationConfig, logger *zap.Logger) dice.Source {
	var src dice.Source
	if sim.Seed != 0 {
		src = dice.NewSeededSource(sim.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	if sim.LogRolls {
		src = dice.NewLoggedSource(src, logger)
	}
	return src
}

// newRewards returns the fixed rewards from cfg, wrapped by the Lua
// battle_rewards hook when cfg.ScriptDir is set. The returned func releases
// the script VM.
func newRewards(cfg config.RewardsConfig, logger *zap.Logger) (combat.Rewards, func(), error) {
	fixed := combat.FixedRewards{
		Winner: combat.Award{Experience: cfg.WinnerExperience, Gold: cfg.WinnerGold},
		Loser:  combat.Award{Experience: cfg.LoserExperience, Gold: cfg.LoserGold},
	}
	if cfg.ScriptDir == "" {
		return fixed, func() {}, nil
	}

	mgr := scripting.NewManager(logger)
	if err := mgr.Load(cfg.ScriptDir, cfg.InstructionLimit); err != nil {
		return nil, nil, fmt.Errorf("loading reward scripts: %w", err)
	}
	return combat.ScriptedRewards{Manager: mgr, Fallback: fixed}, mgr.Close, nil
}
