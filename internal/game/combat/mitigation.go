package combat

import "github.com/cory-johannsen/duel/internal/game/inventory"

// effectiveness maps armour material and weapon edge to the fraction of the
// armour value that absorbs damage.
var effectiveness = map[inventory.Material]map[inventory.Edge]float64{
	inventory.MaterialNone:    {inventory.EdgeBlunt: 1.00, inventory.EdgePierce: 1.00, inventory.EdgeSlash: 1.00},
	inventory.MaterialPadded:  {inventory.EdgeBlunt: 1.00, inventory.EdgePierce: 0.50, inventory.EdgeSlash: 0.75},
	inventory.MaterialLeather: {inventory.EdgeBlunt: 0.85, inventory.EdgePierce: 0.66, inventory.EdgeSlash: 1.00},
	inventory.MaterialMail:    {inventory.EdgeBlunt: 0.90, inventory.EdgePierce: 0.75, inventory.EdgeSlash: 1.00},
	inventory.MaterialPlate:   {inventory.EdgeBlunt: 0.95, inventory.EdgePierce: 0.85, inventory.EdgeSlash: 1.00},
}

// Effectiveness returns the mitigation multiplier for material against edge.
// Unknown combinations yield 1, the unarmoured row.
func Effectiveness(material inventory.Material, edge inventory.Edge) float64 {
	if row, ok := effectiveness[material]; ok {
		if e, ok := row[edge]; ok {
			return e
		}
	}
	return 1
}

// Mitigation returns the damage armour absorbs from a swing with edge.
//
// Precondition: armour must be non-nil.
// Postcondition: result == armour.Value * Effectiveness(armour.Material, edge).
func Mitigation(armour *inventory.ArmourDef, edge inventory.Edge) float64 {
	return float64(armour.Value) * Effectiveness(armour.Material, edge)
}

// mitigationEdge picks the edge that drives mitigation for a swing by striking.
func (p Policy) mitigationEdge(mainHand, striking *inventory.WeaponDef) inventory.Edge {
	if p.OffHandEdge == EdgeStrikingWeapon {
		return striking.Edge
	}
	return mainHand.Edge
}
