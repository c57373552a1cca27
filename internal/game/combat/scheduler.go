package combat

// Scheduler decides which combatant acts next within a battle.
//
// A turn starts with the higher-initiative combatant attacking; ties go to
// the second combatant. Each action consumes one of the attacker's Attacks.
// After an action the roles swap whenever the attacker has fewer actions
// left than the defender, interleaving the two. When both are at zero the
// turn ends, both combatants are refreshed, and the next turn begins.
//
// Invariant: Attacks >= 0 for both combatants.
type Scheduler struct {
	one, two           *Combatant
	attacker, defender *Combatant
	turn               int
}

// NewScheduler starts turn 1 for one and two.
//
// Precondition: one and two must be non-nil, freshly derived combatants.
func NewScheduler(one, two *Combatant) *Scheduler {
	s := &Scheduler{one: one, two: two, turn: 1}
	s.order()
	return s
}

// Turn returns the current 1-based turn number.
func (s *Scheduler) Turn() int { return s.turn }

// Attacker returns the combatant that holds the initiative at this point of the turn.
func (s *Scheduler) Attacker() *Combatant { return s.attacker }

// NextAction returns the pair for the next action and consumes one of the
// attacker's actions, advancing turns as required. It returns ok == false
// when turn maxTurns is exhausted and no further action may be taken.
//
// Precondition: maxTurns >= 1.
// Postcondition: when ok, attacker.Attacks was decremented by exactly one and
// attacker != defender.
func (s *Scheduler) NextAction(maxTurns int) (attacker, defender *Combatant, ok bool) {
	for s.attacker.Attacks == 0 && s.defender.Attacks == 0 {
		if s.turn >= maxTurns {
			return nil, nil, false
		}
		s.endTurn()
	}
	if s.attacker.Attacks == 0 {
		s.swap()
	}
	s.attacker.Attacks--
	return s.attacker, s.defender, true
}

// EndAction hands the initiative to the defender when it has more actions left.
func (s *Scheduler) EndAction() {
	if s.attacker.Attacks < s.defender.Attacks {
		s.swap()
	}
}

func (s *Scheduler) endTurn() {
	s.one.refresh()
	s.two.refresh()
	s.turn++
	s.order()
}

func (s *Scheduler) order() {
	if s.one.Initiative > s.two.Initiative {
		s.attacker, s.defender = s.one, s.two
		return
	}
	s.attacker, s.defender = s.two, s.one
}

func (s *Scheduler) swap() {
	s.attacker, s.defender = s.defender, s.attacker
}
