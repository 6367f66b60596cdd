package scoring

import (
	"github.com/4adex/hilabs/internal/domain/errors"
)

// Weights configures how component similarities combine into an overall
// score. The base score is the weighted average of the name, address and
// specialty similarities over the components both records actually have;
// phone and license agreement then add fixed corroboration bonuses so an
// exact match can lift an otherwise borderline name similarity. The
// final score is clamped to [0.0, 1.0].
type Weights struct {
	// Name is the weight of full-name similarity. Range (0.0, 1.0].
	Name float64 `koanf:"name" json:"name"`
	// Address is the weight of practice-address similarity. Range [0.0, 1.0].
	Address float64 `koanf:"address" json:"address"`
	// Specialty is the weight of specialty similarity. Zero for
	// roster-to-roster comparison; used by registry fuzzy linkage.
	// Range [0.0, 1.0].
	Specialty float64 `koanf:"specialty" json:"specialty"`
	// PhoneBonus is added when standardized phones match. Range [0.0, 0.5].
	PhoneBonus float64 `koanf:"phone_bonus" json:"phone_bonus"`
	// LicenseBonus scales with the license agreement score (1.0 exact
	// number+state, 0.5 number only). Range [0.0, 0.5].
	LicenseBonus float64 `koanf:"license_bonus" json:"license_bonus"`
}

// DefaultWeights returns the weight set used for duplicate detection.
// Pinned by the test suite; change deliberately.
func DefaultWeights() Weights {
	return Weights{
		Name:         0.65,
		Address:      0.35,
		Specialty:    0.0,
		PhoneBonus:   0.25,
		LicenseBonus: 0.20,
	}
}

// RegistryWeights returns the weight set used for fuzzy linkage against
// the NPI registry, where specialty agreement carries signal and license
// fields are absent
func RegistryWeights() Weights {
	return Weights{
		Name:         0.55,
		Address:      0.30,
		Specialty:    0.15,
		PhoneBonus:   0.25,
		LicenseBonus: 0.0,
	}
}

// Validate checks every weight against its documented range
func (w Weights) Validate() error {
	if w.Name <= 0 || w.Name > 1 {
		return errors.NewValidationError("INVALID_WEIGHT", "name weight must be in (0.0, 1.0]")
	}
	if w.Address < 0 || w.Address > 1 {
		return errors.NewValidationError("INVALID_WEIGHT", "address weight must be in [0.0, 1.0]")
	}
	if w.Specialty < 0 || w.Specialty > 1 {
		return errors.NewValidationError("INVALID_WEIGHT", "specialty weight must be in [0.0, 1.0]")
	}
	if w.PhoneBonus < 0 || w.PhoneBonus > 0.5 {
		return errors.NewValidationError("INVALID_WEIGHT", "phone bonus must be in [0.0, 0.5]")
	}
	if w.LicenseBonus < 0 || w.LicenseBonus > 0.5 {
		return errors.NewValidationError("INVALID_WEIGHT", "license bonus must be in [0.0, 0.5]")
	}
	return nil
}
