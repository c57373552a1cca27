package combat_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/inventory"
	"github.com/cory-johannsen/duel/internal/scripting"
)

func TestDefaultRewards(t *testing.T) {
	win, loss := combat.DefaultRewards().Awards(nil, nil)
	assert.Equal(t, combat.Award{Experience: 200, Gold: 10}, win)
	assert.Equal(t, combat.Award{Experience: 75, Gold: 5}, loss)
}

func scriptedRewards(t *testing.T, src string) combat.ScriptedRewards {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rewards.lua"), []byte(src), 0644))
	mgr := scripting.NewManager(zap.NewNop())
	require.NoError(t, mgr.Load(dir, 0))
	t.Cleanup(mgr.Close)
	return combat.ScriptedRewards{Manager: mgr, Fallback: combat.DefaultRewards()}
}

func TestScriptedRewards_OverridesAndFallback(t *testing.T) {
	r := scriptedRewards(t, `
		function battle_rewards(winner, loser)
			return { winner_gold = 100 + winner.wins, loser_experience = 1 }
		end
	`)
	w := fighter("W", 30, 50, 50, dagger, inventory.EmptyOffHand(), cloth)
	w.Wins = 7
	l := fighter("L", 30, 50, 50, dagger, inventory.EmptyOffHand(), cloth)

	win, loss := r.Awards(w, l)
	assert.Equal(t, combat.Award{Experience: 200, Gold: 107}, win)
	assert.Equal(t, combat.Award{Experience: 1, Gold: 5}, loss)
}

func TestScriptedRewards_RuntimeErrorFallsBack(t *testing.T) {
	r := scriptedRewards(t, `function battle_rewards() error("nope") end`)
	w := fighter("W", 30, 50, 50, dagger, inventory.EmptyOffHand(), cloth)
	l := fighter("L", 30, 50, 50, dagger, inventory.EmptyOffHand(), cloth)

	win, loss := r.Awards(w, l)
	assert.Equal(t, combat.DefaultRewards().Winner, win)
	assert.Equal(t, combat.DefaultRewards().Loser, loss)
}

func TestFight_ScriptedRewardsApplied(t *testing.T) {
	r := scriptedRewards(t, `
		function battle_rewards(winner, loser)
			return { winner_experience = 1, winner_gold = 2, loser_experience = 3, loser_gold = 4 }
		end
	`)
	a, b := pairAB()
	eng := combat.NewEngine(&seqSrc{vals: []int{100, 0, 100}}, combat.DefaultPolicy(), r, zap.NewNop())
	res, err := eng.Fight(a, b)
	require.NoError(t, err)
	require.Equal(t, combat.Victory, res.Outcome)

	assert.Equal(t, 1, a.Experience)
	assert.Equal(t, 2, a.Gold)
	assert.Equal(t, 3, b.Experience)
	assert.Equal(t, 4, b.Gold)
	assert.Equal(t, 1, a.Wins)
	assert.Equal(t, 1, b.Losses)
}

func TestScriptedRewards_InvalidAmountsFallBack(t *testing.T) {
	r := scriptedRewards(t, `
		function battle_rewards(winner, loser)
			return { winner_gold = 0/0, loser_gold = -500, winner_experience = 2.9, loser_experience = 1/0 }
		end
	`)
	w := fighter("W", 30, 50, 50, dagger, inventory.EmptyOffHand(), cloth)
	l := fighter("L", 30, 50, 50, dagger, inventory.EmptyOffHand(), cloth)

	win, loss := r.Awards(w, l)
	assert.Equal(t, combat.DefaultRewards().Winner, win)
	assert.Equal(t, combat.DefaultRewards().Loser, loss)
}
