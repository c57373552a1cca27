package inventory

import (
	"errors"
	"fmt"
)

// Material classifies armour construction; together with a weapon Edge it
// selects how much of the armour value is effective.
type Material string

const (
	// MaterialNone is unarmoured clothing.
	MaterialNone Material = "none"
	// MaterialPadded is quilted cloth padding.
	MaterialPadded Material = "padded"
	// MaterialLeather covers plain and studded leather.
	MaterialLeather Material = "leather"
	// MaterialMail is riveted chain mail.
	MaterialMail Material = "mail"
	// MaterialPlate is full plate.
	MaterialPlate Material = "plate"
)

// validMaterials is the set of all legal Material values.
var validMaterials = map[Material]struct{}{
	MaterialNone:    {},
	MaterialPadded:  {},
	MaterialLeather: {},
	MaterialMail:    {},
	MaterialPlate:   {},
}

// Materials returns every legal Material from lightest to heaviest.
func Materials() []Material {
	return []Material{MaterialNone, MaterialPadded, MaterialLeather, MaterialMail, MaterialPlate}
}

// ArmourDef defines the static properties of a suit of armour loaded from YAML.
type ArmourDef struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Value    int      `yaml:"value"`
	Weight   int      `yaml:"weight"`
	Material Material `yaml:"material"`
	Price    int      `yaml:"price"`
}

// Validate reports an error if the ArmourDef is missing required fields or contains illegal values.
// Precondition: def is non-nil.
// Postcondition: Returns nil iff the def is well-formed.
func (a *ArmourDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if a.Value < 0 {
		errs = append(errs, errors.New("value must be >= 0"))
	}
	if a.Weight < 0 {
		errs = append(errs, errors.New("weight must be >= 0"))
	}
	if _, ok := validMaterials[a.Material]; !ok {
		errs = append(errs, fmt.Errorf("material %q is not a valid armour material", a.Material))
	}
	if a.Price < 0 {
		errs = append(errs, errors.New("price must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armour validation failed: %v", errs)
	}
	return nil
}

// LoadArmours reads all .yaml files in dir and returns parsed ArmourDef slice.
// Precondition: dir must be a readable directory.
// Postcondition: Returns non-nil slice and nil error on success; all returned defs pass Validate.
func LoadArmours(dir string) ([]*ArmourDef, error) {
	return loadDefs[ArmourDef]("LoadArmours", "armour", dir)
}
