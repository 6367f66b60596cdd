package roster

import (
	"strings"
	"time"

	"github.com/4adex/hilabs/internal/domain/values"
)

// ProviderRecord is one row of the provider directory. Raw rows are
// mutable until standardization completes; derived annotations
// (license status, NPI presence, outlier flag) are written exactly once
// per run and never retroactively changed.
type ProviderRecord struct {
	ProviderID string
	NPI        string

	FirstName  string
	LastName   string
	Credential string
	FullName   string

	PrimarySpecialty string
	TaxonomyCode     string

	PracticeAddressLine1 string
	PracticeAddressLine2 string
	PracticeCity         string
	PracticeState        string
	PracticeZip          values.ZipCode

	MailingAddressLine1 string
	MailingAddressLine2 string
	MailingCity         string
	MailingState        string
	MailingZip          values.ZipCode

	PracticePhone values.Phone

	LicenseNumber     string
	LicenseState      string
	LicenseExpiration *time.Time

	YearsInPractice      *int
	AcceptingNewPatients bool

	MedicalSchool    string
	ResidencyProgram string
	LastUpdated      *time.Time

	// SourceCellsChecked counts the raw source cells that were subject
	// to canonical-form checks during standardization;
	// SourceCellsCanonical counts how many needed no repair. The
	// consistency dimension reads the ratio.
	SourceCellsChecked   int
	SourceCellsCanonical int

	// Annotations computed during a run
	LicenseStatus LicenseStatus
	NPIPresent    bool
	SuggestedNPI  string
	Outlier       bool
}

// HasNPI checks if the record carries an identifier
func (r *ProviderRecord) HasNPI() bool {
	return strings.TrimSpace(r.NPI) != ""
}

// HasLicense checks if both license number and state are present
func (r *ProviderRecord) HasLicense() bool {
	return strings.TrimSpace(r.LicenseNumber) != "" && strings.TrimSpace(r.LicenseState) != ""
}

// LicenseKey returns the normalized "STATE|NUMBER" composite used for
// exact license comparison, or "" when either part is missing
func (r *ProviderRecord) LicenseKey() string {
	if !r.HasLicense() {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(r.LicenseState)) + "|" + NormalizeLicenseNumber(r.LicenseNumber)
}

// expectedFields enumerates the values counted for completeness. Address
// line 2 is optional in practice and deliberately excluded.
func (r *ProviderRecord) expectedFields() []string {
	years := ""
	if r.YearsInPractice != nil {
		years = "set"
	}
	expiration := ""
	if r.LicenseExpiration != nil {
		expiration = "set"
	}
	return []string{
		r.ProviderID, r.NPI, r.FirstName, r.LastName, r.Credential,
		r.PrimarySpecialty,
		r.PracticeAddressLine1, r.PracticeCity, r.PracticeState, r.PracticeZip.String(),
		r.MailingAddressLine1, r.MailingCity, r.MailingState, r.MailingZip.String(),
		r.PracticePhone.String(),
		r.LicenseNumber, r.LicenseState, expiration,
		years,
	}
}

// Completeness returns the fraction of expected fields that are populated
func (r *ProviderRecord) Completeness() float64 {
	fields := r.expectedFields()
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(fields))
}

// EmptyFieldCount returns how many expected fields are missing; used by
// the cluster representative policy (fewest empty fields wins)
func (r *ProviderRecord) EmptyFieldCount() int {
	empty := 0
	for _, f := range r.expectedFields() {
		if strings.TrimSpace(f) == "" {
			empty++
		}
	}
	return empty
}

// NormalizeLicenseNumber upper-cases a license number and strips spaces
// and hyphens so registry joins tolerate formatting drift
func NormalizeLicenseNumber(number string) string {
	s := strings.ToUpper(strings.TrimSpace(number))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
