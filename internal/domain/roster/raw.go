package roster

// RawProviderRow is one provider-directory row exactly as read from the
// source table, before any standardization. Every field is the verbatim
// cell text; empty string means the cell was blank.
type RawProviderRow struct {
	ProviderID           string
	NPI                  string
	FirstName            string
	LastName             string
	Credential           string
	FullName             string
	PrimarySpecialty     string
	PracticeAddressLine1 string
	PracticeAddressLine2 string
	PracticeCity         string
	PracticeState        string
	PracticeZip          string
	MailingAddressLine1  string
	MailingAddressLine2  string
	MailingCity          string
	MailingState         string
	MailingZip           string
	PracticePhone        string
	LicenseNumber        string
	LicenseState         string
	LicenseExpiration    string
	YearsInPractice      string
	AcceptingNewPatients string
	MedicalSchool        string
	ResidencyProgram     string
	TaxonomyCode         string
	LastUpdated          string
}
