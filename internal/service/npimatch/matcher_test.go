package npimatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/4adex/hilabs/internal/domain/roster"
	"github.com/4adex/hilabs/internal/domain/values"
	"github.com/4adex/hilabs/internal/infrastructure/telemetry"
	"github.com/4adex/hilabs/internal/service/scoring"
)

func registry() *roster.NPITable {
	return roster.NewNPITable([]roster.NPIRecord{
		{
			NPI:          "1234567890",
			ProviderName: "John Smith, MD",
			Phone:        values.NewPhone("5551234567"),
			AddressLine1: "123 Main St",
			City:         "San Francisco",
			State:        "CA",
			Zip:          values.NewZipCode("94103"),
			Specialty:    "Cardiology",
		},
		{
			NPI:          "9876543210",
			ProviderName: "Mary Jones, DO",
			Phone:        values.NewPhone("5559876543"),
			AddressLine1: "9 Elm Ave",
			City:         "Albany",
			State:        "NY",
			Zip:          values.NewZipCode("12207"),
			Specialty:    "Dermatology",
		},
	})
}

func newTestMatcher() *Matcher {
	return NewMatcher(registry(),
		scoring.NewScorer(scoring.RegistryWeights()),
		0.85, 2, telemetry.NewNopLogger())
}

func TestMatchExactLookup(t *testing.T) {
	m := newTestMatcher()

	rec := roster.ProviderRecord{NPI: "1234567890", FullName: "Someone Else"}
	present, suggested := m.Match(&rec)

	assert.True(t, present, "registry membership is exact on the identifier")
	assert.Empty(t, suggested, "an exact hit needs no suggestion")
}

func TestMatchFuzzyLinkage(t *testing.T) {
	m := newTestMatcher()

	// No identifier on the roster side, but the profile is nearly
	// identical to a registry row
	rec := roster.ProviderRecord{
		FullName:             "John Smith, MD",
		PracticeAddressLine1: "123 Main St",
		PracticeCity:         "San Francisco",
		PracticeState:        "CA",
		PracticeZip:          values.NewZipCode("94103"),
		PracticePhone:        values.NewPhone("5551234567"),
		PrimarySpecialty:     "Cardiology",
	}
	present, suggested := m.Match(&rec)

	assert.True(t, present)
	assert.Equal(t, "1234567890", suggested)
}

func TestMatchBelowThreshold(t *testing.T) {
	m := newTestMatcher()

	rec := roster.ProviderRecord{
		FullName:      "Robert Brown, MD",
		PracticeCity:  "Chicago",
		PracticeState: "IL",
	}
	present, suggested := m.Match(&rec)

	assert.False(t, present)
	assert.Empty(t, suggested)
}

func TestMatchWrongNPIFallsToFuzzy(t *testing.T) {
	m := newTestMatcher()

	// The roster identifier is not in the registry; the fuzzy pass still
	// links the record and suggests the registry identifier
	rec := roster.ProviderRecord{
		NPI:                  "0000000000",
		FullName:             "John Smith, MD",
		PracticeAddressLine1: "123 Main St",
		PracticeCity:         "San Francisco",
		PracticeState:        "CA",
		PracticeZip:          values.NewZipCode("94103"),
		PracticePhone:        values.NewPhone("5551234567"),
		PrimarySpecialty:     "Cardiology",
	}
	present, suggested := m.Match(&rec)

	assert.True(t, present)
	assert.Equal(t, "1234567890", suggested)
}

func TestMatchAll(t *testing.T) {
	m := newTestMatcher()

	records := []roster.ProviderRecord{
		{NPI: "1234567890"},
		{FullName: "Robert Brown, MD", PracticeCity: "Chicago"},
	}

	missing := m.MatchAll(records)
	assert.Equal(t, 1, missing)
	assert.True(t, records[0].NPIPresent)
	assert.False(t, records[1].NPIPresent)
}
