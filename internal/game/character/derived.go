package character

import "math"

// ActionCost is the budget one attack action consumes.
const ActionCost = 33

// Round rounds x to the nearest integer, halves rounding toward positive infinity.
//
// Postcondition: Round(2.5) == 3, Round(-2.5) == -2.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Burden returns the weight penalty the actor carries: armour, main hand and
// off hand weight, offset by half the actor's strength.
//
// Postcondition: Returns >= 0.
func Burden(a *Actor) float64 {
	carried := float64(a.Armour.Weight + a.MainHand.Weight + a.OffHand.Weight())
	return math.Max(0, carried-float64(a.Strength)/2)
}

// HealthPool returns the starting health of a combatant built from a.
func HealthPool(a *Actor) float64 {
	return float64(a.Strength) * 2
}

// ActionBudget derives the number of actions a gets this turn and the budget
// remainder carried into the next one.
//
// Precondition: carried >= 0.
// Postcondition: actions >= 0; 0 <= remainder < ActionCost.
func ActionBudget(a *Actor, carried float64) (actions int, remainder float64) {
	raw := float64(a.Dexterity) + carried - Burden(a)
	actions = int(math.Max(0, Round(raw/ActionCost)))
	remainder = math.Mod(math.Max(0, raw), ActionCost)
	return actions, remainder
}

// Initiative returns the turn-order score of a given its carried remainder.
func Initiative(a *Actor, remainder float64) float64 {
	return float64(a.Intelligence) - Burden(a) + float64(a.Dexterity)/4 + remainder
}

// CanEverAct reports whether a's action budget can ever produce an action.
// When dexterity does not exceed burden the carried remainder stays at zero
// and every turn yields zero actions.
func CanEverAct(a *Actor) bool {
	return float64(a.Dexterity)-Burden(a) > 0
}
