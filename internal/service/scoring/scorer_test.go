package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/4adex/hilabs/internal/domain/linkage"
	"github.com/4adex/hilabs/internal/domain/values"
)

func profile(mods ...func(*Profile)) Profile {
	p := Profile{}
	for _, m := range mods {
		m(&p)
	}
	return p
}

func named(name string) func(*Profile) {
	return func(p *Profile) { p.FullName = name }
}

func at(line1, city, state, zip string) func(*Profile) {
	return func(p *Profile) {
		p.AddressLine1 = line1
		p.City = city
		p.State = state
		p.Zip = zip
	}
}

func phoned(phone string) func(*Profile) {
	return func(p *Profile) { p.Phone = values.NewPhone(phone) }
}

func licensed(number, state string) func(*Profile) {
	return func(p *Profile) {
		p.LicenseNumber = number
		p.LicenseState = state
	}
}

func TestDefaultWeightsPinned(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 0.65, w.Name)
	assert.Equal(t, 0.35, w.Address)
	assert.Equal(t, 0.0, w.Specialty)
	assert.Equal(t, 0.25, w.PhoneBonus)
	assert.Equal(t, 0.20, w.LicenseBonus)
	require.NoError(t, w.Validate())
	require.NoError(t, RegistryWeights().Validate())
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Weights)
	}{
		{"zero name weight", func(w *Weights) { w.Name = 0 }},
		{"name above one", func(w *Weights) { w.Name = 1.1 }},
		{"negative address", func(w *Weights) { w.Address = -0.1 }},
		{"phone bonus too large", func(w *Weights) { w.PhoneBonus = 0.6 }},
		{"negative license bonus", func(w *Weights) { w.LicenseBonus = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWeights()
			tt.mod(&w)
			assert.Error(t, w.Validate())
		})
	}
}

func TestScoreIdenticalProfiles(t *testing.T) {
	s := NewScorer(DefaultWeights())
	p := profile(
		named("John Smith, MD"),
		at("123 Main St", "San Francisco", "CA", "94103"),
		phoned("5551234567"),
		licensed("A12345", "CA"),
	)

	sc := s.Score(p, p)
	assert.Equal(t, 1.0, sc.Overall, "identical profiles max out after clamping")
	assert.Equal(t, 1.0, sc.NameScore)
	assert.Equal(t, 1.0, sc.AddrScore)
	assert.True(t, sc.PhoneMatch)
	assert.Equal(t, 1.0, sc.LicenseScore)
}

func TestScoreAbstainsOnMissingComponents(t *testing.T) {
	s := NewScorer(DefaultWeights())

	// Only names present: address, phone and license all abstain and the
	// overall score is the pure name similarity
	sc := s.Score(profile(named("John Smith")), profile(named("John Smith")))
	assert.True(t, sc.NameCompared)
	assert.False(t, sc.AddrCompared)
	assert.False(t, sc.PhoneCompared)
	assert.False(t, sc.LicenseCompared)
	assert.Equal(t, 1.0, sc.Overall)
}

func TestScoreNameGuard(t *testing.T) {
	s := NewScorer(DefaultWeights())

	// Wildly different names with no corroboration short-circuit to zero
	// even when the address agrees
	sc := s.Score(
		profile(named("John Smith"), at("123 Main St", "Boston", "MA", "02115")),
		profile(named("Mary Jones"), at("123 Main St", "Boston", "MA", "02115")),
	)
	assert.Equal(t, 0.0, sc.Overall)

	// A phone match disables the guard
	sc = s.Score(
		profile(named("John Smith"), phoned("5551234567")),
		profile(named("Mary Jones"), phoned("5551234567")),
	)
	assert.Greater(t, sc.Overall, 0.0)
}

func TestScorePhoneBonus(t *testing.T) {
	s := NewScorer(DefaultWeights())

	base := s.Score(profile(named("John Smith")), profile(named("Jon Smith")))
	boosted := s.Score(
		profile(named("John Smith"), phoned("5551234567")),
		profile(named("Jon Smith"), phoned("5551234567")),
	)

	require.True(t, boosted.PhoneMatch)
	assert.InDelta(t, base.Overall+0.25, boosted.Overall, 1e-9)
}

func TestScoreLicenseAgreement(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Profile
		expected float64
	}{
		{
			name:     "number and state match",
			a:        profile(named("John Smith"), licensed("A12345", "CA")),
			b:        profile(named("John Smith"), licensed("A12345", "CA")),
			expected: 1.0,
		},
		{
			name:     "number only across states",
			a:        profile(named("John Smith"), licensed("A12345", "CA")),
			b:        profile(named("John Smith"), licensed("A12345", "NY")),
			expected: 0.5,
		},
		{
			name:     "different numbers",
			a:        profile(named("John Smith"), licensed("A12345", "CA")),
			b:        profile(named("John Smith"), licensed("B99999", "CA")),
			expected: 0.0,
		},
	}

	s := NewScorer(DefaultWeights())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := s.Score(tt.a, tt.b)
			require.True(t, sc.LicenseCompared)
			assert.Equal(t, tt.expected, sc.LicenseScore)
		})
	}
}

func TestScoreClamped(t *testing.T) {
	s := NewScorer(DefaultWeights())

	// Perfect base plus both bonuses would exceed 1.0 unclamped
	p := profile(
		named("John Smith"),
		phoned("5551234567"),
		licensed("A12345", "CA"),
	)
	sc := s.Score(p, p)
	assert.Equal(t, 1.0, sc.Overall)
}

func TestScoreAddressBlend(t *testing.T) {
	s := NewScorer(DefaultWeights())

	// Same address but for the state: line1, city and zip agree fully,
	// state contributes zero, so the blend is 0.85
	sc := s.Score(
		profile(named("John Smith"), at("123 Main St", "Springfield", "IL", "62701")),
		profile(named("John Smith"), at("123 Main St", "Springfield", "MO", "62701")),
	)
	require.True(t, sc.AddrCompared)
	assert.InDelta(t, 0.85, sc.AddrScore, 1e-9)
}

func TestScoreAddressAbstainsPerSubfield(t *testing.T) {
	s := NewScorer(DefaultWeights())

	// Only cities present: the blend renormalizes over the city weight
	sc := s.Score(
		profile(named("John Smith"), at("", "Springfield", "", "")),
		profile(named("John Smith"), at("", "Springfield", "", "")),
	)
	require.True(t, sc.AddrCompared)
	assert.Equal(t, 1.0, sc.AddrScore)
}

func TestScorePairStampsIdentity(t *testing.T) {
	s := NewScorer(DefaultWeights())
	p := profile(named("John Smith"))

	sc := s.ScorePair(linkage.NewCandidatePair(7, 3), p, p)
	assert.Equal(t, 3, sc.Pair.I)
	assert.Equal(t, 7, sc.Pair.J)
}
