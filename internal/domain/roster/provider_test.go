package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/4adex/hilabs/internal/domain/values"
)

func TestNormalizeLicenseNumber(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"lowercase and hyphen", "a-12345", "A12345"},
		{"embedded spaces", " c 987 65 ", "C98765"},
		{"already normalized", "A12345", "A12345"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeLicenseNumber(tt.in))
		})
	}
}

func TestLicenseKey(t *testing.T) {
	rec := ProviderRecord{LicenseNumber: "a-12345", LicenseState: "ca"}
	assert.Equal(t, "CA|A12345", rec.LicenseKey())

	assert.Empty(t, (&ProviderRecord{LicenseNumber: "A12345"}).LicenseKey())
	assert.Empty(t, (&ProviderRecord{LicenseState: "CA"}).LicenseKey())
}

func TestCompletenessAndEmptyFieldCount(t *testing.T) {
	empty := ProviderRecord{}
	assert.Equal(t, 0.0, empty.Completeness())
	assert.Equal(t, 19, empty.EmptyFieldCount())

	partial := ProviderRecord{ProviderID: "P001", FirstName: "Jane", LastName: "Doe"}
	assert.InDelta(t, 3.0/19.0, partial.Completeness(), 1e-9)
	assert.Equal(t, 16, partial.EmptyFieldCount())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
		ok       bool
	}{
		{"iso date", "2027-06-30", "2027-06-30", true},
		{"us date", "06/30/2027", "2027-06-30", true},
		{"datetime", "2027-06-30 08:15:00", "2027-06-30", true},
		{"blank is fine", "", "", true},
		{"whitespace only", "  ", "", true},
		{"garbage", "soon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.expected == "" {
				assert.Nil(t, parsed)
				return
			}
			assert.Equal(t, tt.expected, parsed.Format("2006-01-02"))
		})
	}
}

func TestLicenseTableLookups(t *testing.T) {
	exp := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	other := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	table := NewLicenseTable("CA", []LicenseRecord{
		{LicenseNumber: "A-12345", ExpirationDate: &exp},
		{LicenseNumber: "B99999", ExpirationDate: &other},
	})

	// Normalized on both sides of the join
	assert.Len(t, table.LookupByNumber("a12345"), 1)
	assert.Empty(t, table.LookupByNumber("Z00000"))

	assert.NotNil(t, table.LookupByNumberAndExpiration("A12345", &exp))
	assert.Nil(t, table.LookupByNumberAndExpiration("A12345", &other))
	assert.Nil(t, table.LookupByNumberAndExpiration("A12345", nil))
}

func TestNPITableLookup(t *testing.T) {
	table := NewNPITable([]NPIRecord{
		{NPI: "1234567890", ProviderName: "John Smith, MD", Zip: values.NewZipCode("94103")},
	})

	assert.NotNil(t, table.Lookup("1234567890"))
	assert.Nil(t, table.Lookup("0000000000"))
	assert.Equal(t, 1, table.Len())
}
