package combat

import (
	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/scripting"
)

// Award is the experience and gold granted to one side of a battle.
type Award struct {
	Experience int
	Gold       int
}

// Rewards decides the awards for a decisive battle.
type Rewards interface {
	// Awards returns the winner's and loser's awards. winner and loser carry
	// their progression as it stood before the battle.
	Awards(winner, loser *character.Character) (win, loss Award)
}

// FixedRewards grants the same awards after every battle.
type FixedRewards struct {
	Winner Award
	Loser  Award
}

// DefaultRewards returns +200 XP and +10 gold to the winner and +75 XP and
// +5 gold to the loser.
func DefaultRewards() FixedRewards {
	return FixedRewards{
		Winner: Award{Experience: 200, Gold: 10},
		Loser:  Award{Experience: 75, Gold: 5},
	}
}

// Awards implements Rewards.
func (f FixedRewards) Awards(_, _ *character.Character) (Award, Award) {
	return f.Winner, f.Loser
}

// ScriptedRewards consults the battle_rewards Lua hook and falls back to
// Fallback for every amount the script does not return.
type ScriptedRewards struct {
	Manager  *scripting.Manager
	Fallback FixedRewards
}

// Awards implements Rewards.
//
// Precondition: s.Manager must be non-nil.
func (s ScriptedRewards) Awards(winner, loser *character.Character) (Award, Award) {
	o := s.Manager.BattleRewards(characterInfo(winner), characterInfo(loser))
	win, loss := s.Fallback.Winner, s.Fallback.Loser
	override(&win.Experience, o.WinnerExperience)
	override(&win.Gold, o.WinnerGold)
	override(&loss.Experience, o.LoserExperience)
	override(&loss.Gold, o.LoserGold)
	return win, loss
}

func override(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func characterInfo(c *character.Character) scripting.CharacterInfo {
	return scripting.CharacterInfo{
		Name:       c.Name,
		Wins:       c.Wins,
		Losses:     c.Losses,
		Experience: c.Experience,
		Gold:       c.Gold,
	}
}

// apply credits the outcome to both characters exactly once.
func apply(winner, loser *character.Character, win, loss Award) {
	winner.Wins++
	winner.Experience += win.Experience
	winner.Gold += win.Gold
	loser.Losses++
	loser.Experience += loss.Experience
	loser.Gold += loss.Gold
}
