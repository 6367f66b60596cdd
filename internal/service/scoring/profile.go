package scoring

import (
	"github.com/4adex/hilabs/internal/domain/roster"
	"github.com/4adex/hilabs/internal/domain/values"
)

// Profile is the comparable view of a record. Both roster records and
// NPI registry rows project onto it, so duplicate detection and registry
// fuzzy linkage share one comparison path.
type Profile struct {
	FullName      string
	AddressLine1  string
	City          string
	State         string
	Zip           string
	Phone         values.Phone
	LicenseNumber string
	LicenseState  string
	Specialty     string
}

// ProfileFromProvider projects a roster record
func ProfileFromProvider(rec *roster.ProviderRecord) Profile {
	return Profile{
		FullName:      rec.FullName,
		AddressLine1:  rec.PracticeAddressLine1,
		City:          rec.PracticeCity,
		State:         rec.PracticeState,
		Zip:           rec.PracticeZip.String(),
		Phone:         rec.PracticePhone,
		LicenseNumber: roster.NormalizeLicenseNumber(rec.LicenseNumber),
		LicenseState:  rec.LicenseState,
		Specialty:     rec.PrimarySpecialty,
	}
}

// ProfileFromNPIRecord projects a registry row. Registry rows carry no
// license fields, so those sub-scores abstain.
func ProfileFromNPIRecord(rec *roster.NPIRecord) Profile {
	return Profile{
		FullName:     rec.ProviderName,
		AddressLine1: rec.AddressLine1,
		City:         rec.City,
		State:        rec.State,
		Zip:          rec.Zip.String(),
		Phone:        rec.Phone,
		Specialty:    rec.Specialty,
	}
}
