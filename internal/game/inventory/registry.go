package inventory

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Registry holds all loaded weapon, shield, and armour definitions indexed by ID.
// Weapon and shield IDs share one namespace so an off-hand reference is never ambiguous.
type Registry struct {
	weapons map[string]*WeaponDef
	shields map[string]*ShieldDef
	armours map[string]*ArmourDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		weapons: make(map[string]*WeaponDef),
		shields: make(map[string]*ShieldDef),
		armours: make(map[string]*ArmourDef),
	}
}

// RegisterWeapon adds w to the registry.
//
// Precondition:  w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w.ID already registered
// as a weapon or a shield.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	if _, exists := r.shields[w.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: ID %q already registered as a shield", w.ID)
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterShield adds s to the registry.
//
// Precondition:  s must not be nil.
// Postcondition: Shield(s.ID) returns s; returns error if s.ID already registered
// as a shield or a weapon.
func (r *Registry) RegisterShield(s *ShieldDef) error {
	if _, exists := r.shields[s.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterShield: shield ID %q already registered", s.ID)
	}
	if _, exists := r.weapons[s.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterShield: ID %q already registered as a weapon", s.ID)
	}
	r.shields[s.ID] = s
	return nil
}

// RegisterArmour adds a to the registry.
//
// Precondition:  a must not be nil.
// Postcondition: Armour(a.ID) returns (a, true); returns error if a.ID already registered.
func (r *Registry) RegisterArmour(a *ArmourDef) error {
	if _, exists := r.armours[a.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterArmour: armour ID %q already registered", a.ID)
	}
	r.armours[a.ID] = a
	return nil
}

// Weapon returns the WeaponDef for the given id, or nil if not found.
func (r *Registry) Weapon(id string) *WeaponDef {
	return r.weapons[id]
}

// Shield returns the ShieldDef for the given id, or nil if not found.
func (r *Registry) Shield(id string) *ShieldDef {
	return r.shields[id]
}

// Armour returns the ArmourDef for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Armour(id string) (*ArmourDef, bool) {
	a, ok := r.armours[id]
	return a, ok
}

// OffHand resolves an off-hand reference. An empty id is an empty hand, a
// weapon id yields a shared WeaponDef, and a shield id yields a new Shield
// instance owned by the caller.
//
// Postcondition: returns an error iff id is non-empty and unregistered.
func (r *Registry) OffHand(id string) (OffHand, error) {
	if id == "" {
		return EmptyOffHand(), nil
	}
	if w, ok := r.weapons[id]; ok {
		return WeaponOffHand(w), nil
	}
	if s, ok := r.shields[id]; ok {
		return ShieldOffHand(NewShield(s)), nil
	}
	return OffHand{}, fmt.Errorf("inventory: unknown off-hand item %q", id)
}

// AllWeapons returns all registered WeaponDefs sorted by ID.
//
// Postcondition: len(result) == number of registered weapons.
func (r *Registry) AllWeapons() []*WeaponDef {
	out := make([]*WeaponDef, 0, len(r.weapons))
	for _, w := range r.weapons {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadRegistry loads every definition under root/weapons, root/shields, and
// root/armour into a new Registry.
//
// Precondition: the three subdirectories must exist and be readable.
// Postcondition: Returns a populated Registry, or the first load or collision error.
func LoadRegistry(root string) (*Registry, error) {
	reg := NewRegistry()

	weapons, err := LoadWeapons(filepath.Join(root, "weapons"))
	if err != nil {
		return nil, err
	}
	for _, w := range weapons {
		if err := reg.RegisterWeapon(w); err != nil {
			return nil, err
		}
	}

	shields, err := LoadShields(filepath.Join(root, "shields"))
	if err != nil {
		return nil, err
	}
	for _, s := range shields {
		if err := reg.RegisterShield(s); err != nil {
			return nil, err
		}
	}

	armours, err := LoadArmours(filepath.Join(root, "armour"))
	if err != nil {
		return nil, err
	}
	for _, a := range armours {
		if err := reg.RegisterArmour(a); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
