package inventory

import (
	"errors"
	"fmt"
)

// ShieldDef defines the static properties of a shield loaded from YAML.
type ShieldDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	BlockChance int    `yaml:"block_chance"` // 0-100
	Weight      int    `yaml:"weight"`
	Durability  int    `yaml:"durability"` // damage absorbed before the shield breaks
	Price       int    `yaml:"price"`
}

// Validate checks that the ShieldDef satisfies its invariants.
// Precondition: s is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (s *ShieldDef) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.BlockChance < 0 || s.BlockChance > 100 {
		errs = append(errs, fmt.Errorf("block_chance must be 0-100, got %d", s.BlockChance))
	}
	if s.Weight < 0 {
		errs = append(errs, errors.New("weight must be >= 0"))
	}
	if s.Durability < 0 {
		errs = append(errs, errors.New("durability must be >= 0"))
	}
	if s.Price < 0 {
		errs = append(errs, errors.New("price must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("shield validation failed: %v", errs)
	}
	return nil
}

// LoadShields reads all *.yaml files from dir, parses each as a ShieldDef,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ShieldDefs or the first encountered error.
func LoadShields(dir string) ([]*ShieldDef, error) {
	return loadDefs[ShieldDef]("LoadShields", "shield", dir)
}

// Shield is one carried shield. Unlike weapons and armour, a Shield wears
// down: Durability starts at the definition's value and only decreases.
//
// Invariant: Durability is non-increasing; once <= 0 the shield is broken for good.
type Shield struct {
	Def        *ShieldDef
	Durability int
}

// NewShield returns a fresh Shield at full durability.
//
// Precondition: def must be non-nil.
func NewShield(def *ShieldDef) *Shield {
	return &Shield{Def: def, Durability: def.Durability}
}

// Active reports whether the shield can still block and still weighs anything.
func (s *Shield) Active() bool {
	return s.Durability > 0
}

// Weight returns the shield's carried weight: its definition weight while
// active, 0 once broken.
func (s *Shield) Weight() int {
	if !s.Active() {
		return 0
	}
	return s.Def.Weight
}

// Absorb wears the shield down by amount.
//
// Precondition: amount >= 0.
// Postcondition: Durability decreases by exactly amount.
func (s *Shield) Absorb(amount int) {
	s.Durability -= amount
}
