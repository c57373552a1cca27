package inventory

// OffHandKind discriminates the contents of a character's off hand.
type OffHandKind int

const (
	// OffHandNone is an empty off hand; the zero value.
	OffHandNone OffHandKind = iota
	// OffHandWeapon is a second weapon; the character dual-wields.
	OffHandWeapon
	// OffHandShield is a shield.
	OffHandShield
)

// String returns a human-readable kind label.
func (k OffHandKind) String() string {
	switch k {
	case OffHandNone:
		return "none"
	case OffHandWeapon:
		return "weapon"
	case OffHandShield:
		return "shield"
	default:
		return "unknown"
	}
}

// OffHand is a tagged union of the things a character can hold in the off
// hand. Exactly the field named by Kind is set.
type OffHand struct {
	Kind   OffHandKind
	Weapon *WeaponDef
	Shield *Shield
}

// EmptyOffHand returns an OffHand holding nothing.
func EmptyOffHand() OffHand { return OffHand{Kind: OffHandNone} }

// WeaponOffHand returns an OffHand holding w.
//
// Precondition: w must be non-nil.
func WeaponOffHand(w *WeaponDef) OffHand { return OffHand{Kind: OffHandWeapon, Weapon: w} }

// ShieldOffHand returns an OffHand holding s.
//
// Precondition: s must be non-nil.
func ShieldOffHand(s *Shield) OffHand { return OffHand{Kind: OffHandShield, Shield: s} }

// Weight returns the off hand's contribution to carried weight.
//
// Postcondition: weapon weight for a weapon, shield weight while the shield is
// active, 0 otherwise.
func (o OffHand) Weight() int {
	switch o.Kind {
	case OffHandWeapon:
		return o.Weapon.Weight
	case OffHandShield:
		return o.Shield.Weight()
	default:
		return 0
	}
}

// IsDualWield reports whether the off hand holds a weapon.
func (o OffHand) IsDualWield() bool { return o.Kind == OffHandWeapon }

// ActiveShield returns the held shield when it can still block, or nil.
func (o OffHand) ActiveShield() *Shield {
	if o.Kind == OffHandShield && o.Shield.Active() {
		return o.Shield
	}
	return nil
}

// Name returns the held item's display name, or "" for an empty hand.
func (o OffHand) Name() string {
	switch o.Kind {
	case OffHandWeapon:
		return o.Weapon.Name
	case OffHandShield:
		return o.Shield.Def.Name
	default:
		return ""
	}
}
