package character

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/duel/internal/game/inventory"
)

// Def is the static description of a character loaded from YAML. Equipment
// is referenced by inventory ID; OffHand may name a weapon, a shield, or be empty.
type Def struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Intelligence int    `yaml:"intelligence"`
	Strength     int    `yaml:"strength"`
	Dexterity    int    `yaml:"dexterity"`
	MainHand     string `yaml:"main_hand"`
	OffHand      string `yaml:"off_hand"`
	Armour       string `yaml:"armour"`
	Gold         int    `yaml:"gold"`
	Experience   int    `yaml:"experience"`
}

// Validate checks the Def's own fields; item references are checked by New.
//
// Postcondition: Returns nil iff the def is well-formed.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.Intelligence < 0 {
		errs = append(errs, errors.New("intelligence must be >= 0"))
	}
	if d.Strength < 0 {
		errs = append(errs, errors.New("strength must be >= 0"))
	}
	if d.Dexterity < 0 {
		errs = append(errs, errors.New("dexterity must be >= 0"))
	}
	if d.MainHand == "" {
		errs = append(errs, errors.New("main_hand must not be empty"))
	}
	if d.Armour == "" {
		errs = append(errs, errors.New("armour must not be empty"))
	}
	if d.Gold < 0 {
		errs = append(errs, errors.New("gold must be >= 0"))
	}
	if d.Experience < 0 {
		errs = append(errs, errors.New("experience must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("character validation failed: %v", errs)
	}
	return nil
}

// New builds a Character from def, resolving its equipment against reg. The
// returned Character owns its equipment instances for the lifetime of a
// simulation run: a shield built here keeps its wear across battles.
//
// Precondition: def and reg must be non-nil.
// Postcondition: Returns a fully equipped Character, or a non-nil error naming
// every invalid field or unknown item reference.
func New(def *Def, reg *inventory.Registry) (*Character, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("character %q: %w", def.ID, err)
	}

	var errs []error
	mainHand := reg.Weapon(def.MainHand)
	if mainHand == nil {
		errs = append(errs, fmt.Errorf("unknown main_hand weapon %q", def.MainHand))
	}
	offHand, err := reg.OffHand(def.OffHand)
	if err != nil {
		errs = append(errs, err)
	}
	armour, ok := reg.Armour(def.Armour)
	if !ok {
		errs = append(errs, fmt.Errorf("unknown armour %q", def.Armour))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("character %q: %w", def.ID, errors.Join(errs...))
	}

	return &Character{
		ID:         def.ID,
		Name:       def.Name,
		Gold:       def.Gold,
		Experience: def.Experience,
		Actor: Actor{
			Intelligence: def.Intelligence,
			Strength:     def.Strength,
			Dexterity:    def.Dexterity,
			MainHand:     mainHand,
			OffHand:      offHand,
			Armour:       armour,
		},
	}, nil
}

// LoadDefs reads all *.yaml files in dir and returns the parsed, validated Defs.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil slice on success, or the first load error.
func LoadDefs(dir string) ([]*Def, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadDefs: cannot read directory %q: %w", dir, err)
	}

	defs := []*Def{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadDefs: cannot read file %q: %w", path, err)
		}
		var d Def
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("LoadDefs: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadDefs: invalid character in %q: %w", path, err)
		}
		defs = append(defs, &d)
	}
	return defs, nil
}

// Roster indexes character definitions by ID.
type Roster struct {
	defs map[string]*Def
}

// ErrUnknownCharacter is returned when a roster lookup names no loaded character.
var ErrUnknownCharacter = errors.New("unknown character")

// NewRoster indexes defs by ID.
//
// Postcondition: returns an error if two defs share an ID.
func NewRoster(defs []*Def) (*Roster, error) {
	r := &Roster{defs: make(map[string]*Def, len(defs))}
	for _, d := range defs {
		if _, exists := r.defs[d.ID]; exists {
			return nil, fmt.Errorf("character: Roster: ID %q already registered", d.ID)
		}
		r.defs[d.ID] = d
	}
	return r, nil
}

// Build constructs the Character with the given id against reg.
//
// Postcondition: returns an error wrapping ErrUnknownCharacter if id was never loaded.
func (r *Roster) Build(id string, reg *inventory.Registry) (*Character, error) {
	d, ok := r.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharacter, id)
	}
	return New(d, reg)
}
