package combat

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/character"
)

// ErrStalemate is returned when neither combatant can ever gain an action.
var ErrStalemate = errors.New("combat: stalemate: neither combatant can ever act")

// Result is the outcome of one battle.
type Result struct {
	Outcome Outcome
	// Turns is the number of turns started, including the last one.
	Turns int
	// Combatants holds the two combatants in the order they were passed to Fight.
	Combatants [2]*Combatant
	// Winner and Loser are nil on a draw.
	Winner *Combatant
	Loser  *Combatant
	// Events lists every resolved swing in order.
	Events []Event
}

// Engine resolves battles between characters.
type Engine struct {
	src     Source
	policy  Policy
	rewards Rewards
	logger  *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: src, rewards, and logger must be non-nil.
// Postcondition: Returns a non-nil Engine.
func NewEngine(src Source, policy Policy, rewards Rewards, logger *zap.Logger) *Engine {
	if src == nil {
		panic("combat.NewEngine: src must not be nil")
	}
	if rewards == nil {
		panic("combat.NewEngine: rewards must not be nil")
	}
	if logger == nil {
		panic("combat.NewEngine: logger must not be nil")
	}
	return &Engine{src: src, policy: policy, rewards: rewards, logger: logger}
}

// Policy returns the rule switches the engine was built with.
func (e *Engine) Policy() Policy { return e.policy }

// Fight runs one battle between one and two to completion.
//
// Precondition: one and two must be distinct, fully equipped characters.
// Postcondition: on Victory the winner gains exactly one win and the loser
// exactly one loss, with their awards; on Draw neither character's
// progression changes. Shield wear persists on the characters either way.
// Returns ErrStalemate, without touching either character, when neither
// combatant can ever act.
func (e *Engine) Fight(one, two *character.Character) (*Result, error) {
	if !character.CanEverAct(&one.Actor) && !character.CanEverAct(&two.Actor) {
		return nil, ErrStalemate
	}

	c1, c2 := NewCombatant(one), NewCombatant(two)
	res := &Result{Combatants: [2]*Combatant{c1, c2}}
	sched := NewScheduler(c1, c2)
	maxTurns := e.policy.maxTurns()

	for {
		attacker, defender, ok := sched.NextAction(maxTurns)
		if !ok {
			res.Outcome = Draw
			res.Turns = sched.Turn()
			e.logger.Info("battle drawn",
				zap.String("one", one.Name),
				zap.String("two", two.Name),
				zap.Int("turns", res.Turns),
			)
			return res, nil
		}

		if e.swing(res, sched.Turn(), attacker, defender, HandMain) {
			e.finish(res, sched.Turn(), attacker, defender)
			return res, nil
		}
		if attacker.actor().OffHand.IsDualWield() {
			if e.swing(res, sched.Turn(), attacker, defender, HandOff) {
				e.finish(res, sched.Turn(), attacker, defender)
				return res, nil
			}
		}
		sched.EndAction()
	}
}

// swing resolves and records one swing and reports whether it was lethal.
func (e *Engine) swing(res *Result, turn int, attacker, defender *Combatant, hand Hand) bool {
	ev := e.resolveSwing(turn, attacker, defender, hand)
	res.Events = append(res.Events, ev)
	e.logger.Debug("swing",
		zap.Int("turn", turn),
		zap.String("attacker", ev.Attacker),
		zap.String("defender", ev.Defender),
		zap.Stringer("hand", hand),
		zap.Bool("hit", ev.Hit),
		zap.Bool("dodged", ev.Dodged),
		zap.Bool("critical", ev.Critical),
		zap.Bool("blocked", ev.Blocked),
		zap.Int("damage", ev.Damage),
		zap.Float64("defender_health", ev.DefenderHealth),
	)
	return defender.IsDefeated()
}

func (e *Engine) finish(res *Result, turn int, winner, loser *Combatant) {
	res.Outcome = Victory
	res.Turns = turn
	res.Winner, res.Loser = winner, loser

	won, lost := true, false
	winner.Stats.Winner = &won
	loser.Stats.Winner = &lost

	win, loss := e.rewards.Awards(winner.Character, loser.Character)
	apply(winner.Character, loser.Character, win, loss)

	e.logger.Info("battle won",
		zap.String("winner", winner.Name()),
		zap.String("loser", loser.Name()),
		zap.Int("turns", turn),
		zap.Float64("winner_health", winner.Health),
	)
}
