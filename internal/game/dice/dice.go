// Package dice provides the randomness abstraction used by the duel combat engine.
package dice

// PercentileSides is the number of distinct outcomes of a percentile check.
// A percentile roll is a uniform integer in [0, 100].
const PercentileSides = 101

// Source is the randomness provider for combat checks.
//
// Implementations are not required to be safe for concurrent use; a battle
// draws from its Source on a single goroutine.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float64 in [0.0, 1.0).
	Float64() float64
}

// Percentile draws a uniform integer in [0, 100] from src.
//
// Precondition: src must be non-nil.
// Postcondition: 0 <= result <= 100.
func Percentile(src Source) int {
	return src.Intn(PercentileSides)
}
