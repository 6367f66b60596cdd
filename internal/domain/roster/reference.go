package roster

import (
	"time"

	"github.com/4adex/hilabs/internal/domain/values"
)

// LicenseRecord is one row of a state medical-license registry.
// Reference data, read-only during a run.
type LicenseRecord struct {
	LicenseNumber  string
	State          string
	ExpirationDate *time.Time
	ProviderName   string
	Specialty      string
}

// NPIRecord is one row of the national identifier registry. Read-only.
type NPIRecord struct {
	NPI          string
	ProviderName string
	Phone        values.Phone
	AddressLine1 string
	City         string
	State        string
	Zip          values.ZipCode
	Specialty    string
}

// LicenseTable holds one state's registry with lookup indexes built once
// at load time
type LicenseTable struct {
	State   string
	Records []LicenseRecord

	byNumber map[string][]*LicenseRecord
}

// NewLicenseTable indexes registry rows by normalized license number
func NewLicenseTable(state string, records []LicenseRecord) *LicenseTable {
	t := &LicenseTable{
		State:    state,
		Records:  records,
		byNumber: make(map[string][]*LicenseRecord, len(records)),
	}
	for i := range t.Records {
		key := NormalizeLicenseNumber(t.Records[i].LicenseNumber)
		if key == "" {
			continue
		}
		t.byNumber[key] = append(t.byNumber[key], &t.Records[i])
	}
	return t
}

// LookupByNumber returns all registry entries with the given license
// number (normalized before lookup)
func (t *LicenseTable) LookupByNumber(number string) []*LicenseRecord {
	return t.byNumber[NormalizeLicenseNumber(number)]
}

// LookupByNumberAndExpiration returns the registry entry matching both
// the license number and the exact expiration date, or nil
func (t *LicenseTable) LookupByNumberAndExpiration(number string, expiration *time.Time) *LicenseRecord {
	if expiration == nil {
		return nil
	}
	for _, rec := range t.LookupByNumber(number) {
		if rec.ExpirationDate != nil && rec.ExpirationDate.Equal(*expiration) {
			return rec
		}
	}
	return nil
}

// Len returns the number of registry rows
func (t *LicenseTable) Len() int {
	return len(t.Records)
}

// NPITable holds the national identifier registry with an exact-match index
type NPITable struct {
	Records []NPIRecord

	byNPI map[string]*NPIRecord
}

// NewNPITable indexes registry rows by identifier
func NewNPITable(records []NPIRecord) *NPITable {
	t := &NPITable{
		Records: records,
		byNPI:   make(map[string]*NPIRecord, len(records)),
	}
	for i := range t.Records {
		if t.Records[i].NPI != "" {
			t.byNPI[t.Records[i].NPI] = &t.Records[i]
		}
	}
	return t
}

// Lookup returns the registry entry for an identifier, or nil
func (t *NPITable) Lookup(npi string) *NPIRecord {
	return t.byNPI[npi]
}

// Len returns the number of registry rows
func (t *NPITable) Len() int {
	return len(t.Records)
}
