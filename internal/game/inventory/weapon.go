// Package inventory provides definitions and loaders for the weapons, shields,
// and armour a duel combatant can carry.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Edge is the striking profile of a weapon; it selects the armour
// effectiveness column used for mitigation.
type Edge string

const (
	// EdgeBlunt crushes: maces, flails.
	EdgeBlunt Edge = "blunt"
	// EdgePierce punctures: daggers, spears.
	EdgePierce Edge = "pierce"
	// EdgeSlash cuts: swords, axes.
	EdgeSlash Edge = "slash"
)

// validEdges is the set of all legal Edge values.
var validEdges = map[Edge]struct{}{
	EdgeBlunt:  {},
	EdgePierce: {},
	EdgeSlash:  {},
}

// Edges returns every legal Edge in declaration order.
func Edges() []Edge { return []Edge{EdgeBlunt, EdgePierce, EdgeSlash} }

// WeaponDef defines the static properties of a weapon loaded from YAML.
// A WeaponDef is immutable once registered and shared by every character
// that equips it.
type WeaponDef struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Damage int    `yaml:"damage"`
	Weight int    `yaml:"weight"`
	Edge   Edge   `yaml:"edge"`
	Price  int    `yaml:"price"`
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if w.Damage < 0 {
		errs = append(errs, errors.New("damage must be >= 0"))
	}
	if w.Weight < 0 {
		errs = append(errs, errors.New("weight must be >= 0"))
	}
	if _, ok := validEdges[w.Edge]; !ok {
		errs = append(errs, fmt.Errorf("edge %q must be one of blunt, pierce, slash", w.Edge))
	}
	if w.Price < 0 {
		errs = append(errs, errors.New("price must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// LoadWeapons reads all *.yaml files from dir, parses each as a WeaponDef,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid WeaponDefs or the first encountered error.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	return loadDefs[WeaponDef]("LoadWeapons", "weapon", dir)
}

// validator is satisfied by every *Def type in this package.
type validator interface {
	Validate() error
}

// loadDefs reads every *.yaml or *.yml file in dir as one T and validates it.
// An empty directory yields an empty, non-nil slice.
func loadDefs[T any, PT interface {
	*T
	validator
}](op, kind, dir string) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot read directory %q: %w", op, dir, err)
	}

	defs := []*T{}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: cannot read file %q: %w", op, path, err)
		}
		var def T
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("%s: cannot parse file %q: %w", op, path, err)
		}
		if err := PT(&def).Validate(); err != nil {
			return nil, fmt.Errorf("%s: invalid %s in %q: %w", op, kind, path, err)
		}
		defs = append(defs, &def)
	}
	return defs, nil
}
