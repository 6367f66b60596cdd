// Package standardize normalizes raw provider rows into canonical
// records: digit-only phones, padded ZIP codes, title-cased names and
// addresses, and a deterministically rebuilt full name. Standardization
// never fails; unparsable values are preserved in best-effort form and
// counted as formatting issues.
package standardize

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/4adex/hilabs/internal/domain/roster"
	"github.com/4adex/hilabs/internal/domain/values"
)

// Standardizer converts raw rows into canonical ProviderRecords.
// It is a pure transformation: no I/O, deterministic for a given input.
type Standardizer struct {
	logger *zap.Logger
	caser  cases.Caser
}

// Result carries the standardized records plus the tally of values that
// could not be fully repaired
type Result struct {
	Records          []roster.ProviderRecord
	FormattingIssues int
}

// NewStandardizer creates a new Standardizer
func NewStandardizer(logger *zap.Logger) *Standardizer {
	return &Standardizer{
		logger: logger,
		caser:  cases.Title(language.English),
	}
}

// All standardizes every row and aggregates the formatting-issue count
func (s *Standardizer) All(rows []roster.RawProviderRow) Result {
	res := Result{Records: make([]roster.ProviderRecord, 0, len(rows))}
	for i := range rows {
		rec, issues := s.Record(&rows[i])
		res.Records = append(res.Records, rec)
		res.FormattingIssues += issues
	}
	s.logger.Info("standardized roster",
		zap.Int("records", len(res.Records)),
		zap.Int("formatting_issues", res.FormattingIssues),
	)
	return res
}

// Record standardizes a single row, returning the canonical record and
// the number of values that remained degraded
func (s *Standardizer) Record(row *roster.RawProviderRow) (roster.ProviderRecord, int) {
	issues := 0

	phone := values.NewPhone(row.PracticePhone)
	if !phone.IsEmpty() && !phone.Valid() {
		issues++
	}
	practiceZip := values.NewZipCode(row.PracticeZip)
	if practiceZip.Malformed() {
		issues++
	}
	mailingZip := values.NewZipCode(row.MailingZip)
	if mailingZip.Malformed() {
		issues++
	}

	npi := strings.TrimSpace(row.NPI)
	if npi != "" && !validNPIFormat(npi) {
		issues++
	}

	expiration, ok := roster.ParseDate(row.LicenseExpiration)
	if !ok {
		issues++
	}
	lastUpdated, ok := roster.ParseDate(row.LastUpdated)
	if !ok {
		issues++
	}

	years, ok := parseYears(row.YearsInPractice)
	if !ok {
		issues++
	}

	accepting, ok := parseBool(row.AcceptingNewPatients)
	if !ok {
		issues++
	}

	first := s.titleCase(row.FirstName)
	last := s.titleCase(row.LastName)
	credential := strings.TrimSpace(row.Credential)

	rec := roster.ProviderRecord{
		ProviderID: strings.TrimSpace(row.ProviderID),
		NPI:        npi,

		FirstName:  first,
		LastName:   last,
		Credential: credential,
		FullName:   buildFullName(first, last, credential),

		PrimarySpecialty: strings.TrimSpace(row.PrimarySpecialty),
		TaxonomyCode:     strings.TrimSpace(row.TaxonomyCode),

		PracticeAddressLine1: s.titleCase(row.PracticeAddressLine1),
		PracticeAddressLine2: s.titleCase(row.PracticeAddressLine2),
		PracticeCity:         s.titleCase(row.PracticeCity),
		PracticeState:        strings.ToUpper(strings.TrimSpace(row.PracticeState)),
		PracticeZip:          practiceZip,

		MailingAddressLine1: s.titleCase(row.MailingAddressLine1),
		MailingAddressLine2: s.titleCase(row.MailingAddressLine2),
		MailingCity:         s.titleCase(row.MailingCity),
		MailingState:        strings.ToUpper(strings.TrimSpace(row.MailingState)),
		MailingZip:          mailingZip,

		PracticePhone: phone,

		LicenseNumber:     strings.TrimSpace(row.LicenseNumber),
		LicenseState:      strings.ToUpper(strings.TrimSpace(row.LicenseState)),
		LicenseExpiration: expiration,

		YearsInPractice:      years,
		AcceptingNewPatients: accepting,

		MedicalSchool:    s.titleCase(row.MedicalSchool),
		ResidencyProgram: s.titleCase(row.ResidencyProgram),
		LastUpdated:      lastUpdated,
	}
	rec.SourceCellsChecked, rec.SourceCellsCanonical = s.sourceConsistency(row)
	return rec, issues
}

// sourceConsistency counts the raw cells subject to canonical-form
// checks and how many already satisfied them: title-cased name,
// address, city, school and program cells, plus a digit-only phone.
// The counts survive on the record because the canonical form erases
// the drift this measures.
func (s *Standardizer) sourceConsistency(row *roster.RawProviderRow) (checked, canonical int) {
	titleCells := []string{
		row.FirstName, row.LastName,
		row.PracticeCity, row.MailingCity,
		row.PracticeAddressLine1, row.PracticeAddressLine2,
		row.MailingAddressLine1, row.MailingAddressLine2,
		row.MedicalSchool, row.ResidencyProgram,
	}
	for _, v := range titleCells {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		checked++
		if trimmed == s.caser.String(strings.ToLower(trimmed)) {
			canonical++
		}
	}
	if phone := strings.TrimSpace(row.PracticePhone); phone != "" {
		checked++
		if digitsOnly(phone) {
			canonical++
		}
	}
	return checked, canonical
}

// titleCase folds a value to title case per word. Hyphenated surnames
// keep both capitals because the caser treats the hyphen as a word
// boundary; a letter after an apostrophe stays lower.
func (s *Standardizer) titleCase(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	return s.caser.String(strings.ToLower(v))
}

// buildFullName rebuilds "{first} {last}, {credential}" deterministically;
// the source full_name column is never trusted
func buildFullName(first, last, credential string) string {
	if first == "" && last == "" {
		return ""
	}
	full := strings.TrimSpace(first + " " + last)
	if credential != "" {
		full += ", " + credential
	}
	return full
}

func parseYears(v string) (*int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, true
	}
	// Some sources export integers as floats ("12.0")
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		n := int(f)
		return &n, true
	}
	return nil, false
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true":
		return true, true
	case "no", "n", "false", "":
		return false, true
	}
	return false, false
}

func validNPIFormat(npi string) bool {
	return len(npi) == 10 && digitsOnly(npi)
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
