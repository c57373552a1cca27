package simulation_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/inventory"
	"github.com/cory-johannsen/duel/internal/report"
	"github.com/cory-johannsen/duel/internal/simulation"
)

// repoRoot walks up from the test's working directory to find the module root.
func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatalf("could not find repo root from %s", wd)
		}
		root = parent
	}
}

// catalogPair builds two characters from the shipped catalog.
func catalogPair(t *testing.T, one, two string) (*character.Character, *character.Character) {
	t.Helper()
	content := filepath.Join(repoRoot(t), "content")
	reg, err := inventory.LoadRegistry(content)
	require.NoError(t, err)
	defs, err := character.LoadDefs(filepath.Join(content, "characters"))
	require.NoError(t, err)
	roster, err := character.NewRoster(defs)
	require.NoError(t, err)
	a, err := roster.Build(one, reg)
	require.NoError(t, err)
	b, err := roster.Build(two, reg)
	require.NoError(t, err)
	return a, b
}

func TestRun_ThousandBattles_Aggregate(t *testing.T) {
	one, two := catalogPair(t, "one", "two")
	eng := combat.NewEngine(dice.NewSeededSource(7), combat.DefaultPolicy(), combat.DefaultRewards(), zap.NewNop())

	run, err := simulation.NewRunner(eng, zap.NewNop()).Run(context.Background(), one, two, 1000)
	require.NoError(t, err)
	require.True(t, run.Complete())
	require.Len(t, run.Battles, 1000)

	totals := run.Totals
	assert.Equal(t, 1000, totals.Battles)
	assert.Equal(t, 0, totals.Draws)
	assert.Equal(t, 1000, one.Wins+two.Wins+totals.Draws)
	assert.Equal(t, one.Wins, two.Losses)
	assert.Equal(t, two.Wins, one.Losses)
	assert.Equal(t, one.Wins, totals.Combatants[0].Wins)
	assert.Equal(t, two.Wins, totals.Combatants[1].Wins)

	assert.Equal(t, one.Wins*200+one.Losses*75, one.Experience)
	assert.Equal(t, one.Wins*10+one.Losses*5, one.Gold)
	assert.Equal(t, two.Wins*200+two.Losses*75, two.Experience)
	assert.Equal(t, two.Wins*10+two.Losses*5, two.Gold)

	for i, b := range run.Battles {
		assert.Equal(t, i, b.Index)
		for _, c := range b.Combatants {
			assert.GreaterOrEqual(t, float64(c.TotalDamage), c.TotalDamageGiven, "battle %d %s", i, c.Name)
			assert.GreaterOrEqual(t, c.TotalDamageGiven, 0.0)
		}
	}
	assert.NotEqual(t, run.Battles[0].ID, run.Battles[1].ID)

	// The buckler is worn across battles and eventually breaks.
	s := one.Actor.OffHand.ActiveShield()
	assert.Nil(t, s, "buckler should be broken after 1000 battles")
	assert.Positive(t, totals.Combatants[0].Blocks)
}

func TestRun_SameSeed_SameOutcome(t *testing.T) {
	play := func() [2]character.Snapshot {
		one, two := catalogPair(t, "three", "five")
		eng := combat.NewEngine(dice.NewSeededSource(99), combat.DefaultPolicy(), combat.DefaultRewards(), zap.NewNop())
		run, err := simulation.NewRunner(eng, zap.NewNop()).Run(context.Background(), one, two, 50)
		require.NoError(t, err)
		return run.Final()
	}
	assert.Equal(t, play(), play())
}

type stubFighter struct {
	calls  int
	err    error
	cancel context.CancelFunc
	after  int
}

func (s *stubFighter) Fight(one, two *character.Character) (*combat.Result, error) {
	s.calls++
	if s.cancel != nil && s.calls == s.after {
		s.cancel()
	}
	if s.err != nil {
		return nil, s.err
	}
	c1, c2 := combat.NewCombatant(one), combat.NewCombatant(two)
	return &combat.Result{Outcome: combat.Draw, Turns: 1, Combatants: [2]*combat.Combatant{c1, c2}}, nil
}

func stubPair() (*character.Character, *character.Character) {
	dagger := &inventory.WeaponDef{ID: "dagger", Name: "Dagger", Damage: 10, Weight: 5, Edge: inventory.EdgePierce}
	cloth := &inventory.ArmourDef{ID: "cloth", Name: "Cloth", Weight: 1, Material: inventory.MaterialNone}
	mk := func(id string) *character.Character {
		return &character.Character{ID: id, Name: id, Actor: character.Actor{
			Strength: 50, Dexterity: 50, MainHand: dagger, OffHand: inventory.EmptyOffHand(), Armour: cloth,
		}}
	}
	return mk("a"), mk("b")
}

func TestRun_CancelledBetweenBattles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := &stubFighter{cancel: cancel, after: 3}
	core, logs := observer.New(zap.InfoLevel)

	a, b := stubPair()
	run, err := simulation.NewRunner(f, zap.New(core)).Run(ctx, a, b, 10)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, run)
	assert.Len(t, run.Battles, 3)
	assert.False(t, run.Complete())
	assert.Equal(t, 3, run.Totals.Battles)
	assert.Equal(t, 3, run.Totals.Draws)
	assert.Equal(t, 1, logs.FilterMessage("simulation cancelled").Len())
}

func TestRun_BattleErrorStops(t *testing.T) {
	f := &stubFighter{err: combat.ErrStalemate}
	a, b := stubPair()
	run, err := simulation.NewRunner(f, zap.NewNop()).Run(context.Background(), a, b, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, combat.ErrStalemate))
	assert.Contains(t, err.Error(), "battle 1")
	assert.Empty(t, run.Battles)
	assert.Equal(t, 1, f.calls)
}

func TestRun_InvalidArguments(t *testing.T) {
	a, b := stubPair()
	r := simulation.NewRunner(&stubFighter{}, zap.NewNop())

	_, err := r.Run(context.Background(), a, b, 0)
	assert.Error(t, err)

	_, err = r.Run(context.Background(), a, a, 1)
	assert.Error(t, err)
}

func TestRun_OnBattleAndLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := simulation.NewRunner(&stubFighter{}, zap.New(core))
	var seen []report.BattleSummary
	r.OnBattle = func(s report.BattleSummary) { seen = append(seen, s) }

	a, b := stubPair()
	run, err := r.Run(context.Background(), a, b, 4)
	require.NoError(t, err)
	assert.Len(t, seen, 4)
	assert.Equal(t, run.Battles, seen)

	started := logs.FilterMessage("simulation started").All()
	require.Len(t, started, 1)
	assert.Equal(t, run.ID.String(), started[0].ContextMap()["run_id"])
	assert.Equal(t, 1, logs.FilterMessage("simulation finished").Len())
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
}

func TestNewRunner_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { simulation.NewRunner(nil, zap.NewNop()) })
	assert.Panics(t, func() { simulation.NewRunner(&stubFighter{}, nil) })
}
