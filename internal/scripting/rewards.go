package scripting

import (
	"math"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// BattleRewardsHook is the global function consulted after every decisive battle.
const BattleRewardsHook = "battle_rewards"

// CharacterInfo is a snapshot of a character's progression passed to Lua.
type CharacterInfo struct {
	Name       string
	Wins       int
	Losses     int
	Experience int
	Gold       int
}

// RewardOverrides holds the award amounts a script chose to set; nil fields
// were not returned, or were rejected, and fall back to the caller's defaults.
type RewardOverrides struct {
	WinnerExperience *int
	WinnerGold       *int
	LoserExperience  *int
	LoserGold        *int
}

// BattleRewards calls battle_rewards(winner, loser) and reads the numeric
// winner_experience, winner_gold, loser_experience, and loser_gold fields of
// the returned table.
//
// Postcondition: a missing hook, a runtime error, or a non-table result
// yields empty overrides. Runtime errors are logged at Warn level. A field
// that is not a finite, non-negative whole number is logged at Warn level
// and left nil.
func (m *Manager) BattleRewards(winner, loser CharacterInfo) RewardOverrides {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L == nil {
		return RewardOverrides{}
	}

	ret, err := m.callLocked(BattleRewardsHook, characterTable(m.L, winner), characterTable(m.L, loser))
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", BattleRewardsHook),
			zap.Error(err),
		)
		return RewardOverrides{}
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return RewardOverrides{}
	}
	return RewardOverrides{
		WinnerExperience: m.amountField(tbl, "winner_experience"),
		WinnerGold:       m.amountField(tbl, "winner_gold"),
		LoserExperience:  m.amountField(tbl, "loser_experience"),
		LoserGold:        m.amountField(tbl, "loser_gold"),
	}
}

func characterTable(L *lua.LState, c CharacterInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("wins", lua.LNumber(c.Wins))
	t.RawSetString("losses", lua.LNumber(c.Losses))
	t.RawSetString("experience", lua.LNumber(c.Experience))
	t.RawSetString("gold", lua.LNumber(c.Gold))
	return t
}

// maxAmount is the largest award a script may set.
const maxAmount = math.MaxInt32

// amountField reads key as an award amount. Missing and non-numeric fields
// yield nil; NaN, infinite, negative, fractional, or oversized numbers are
// logged and yield nil.
func (m *Manager) amountField(t *lua.LTable, key string) *int {
	n, ok := t.RawGetString(key).(lua.LNumber)
	if !ok {
		return nil
	}
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) || f > maxAmount {
		m.logger.Warn("scripting: invalid reward amount",
			zap.String("hook", BattleRewardsHook),
			zap.String("field", key),
			zap.Float64("value", f),
		)
		return nil
	}
	v := int(f)
	return &v
}
