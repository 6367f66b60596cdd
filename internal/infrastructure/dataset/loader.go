// Package dataset reads the four input tables and writes the three run
// artifacts. Structural problems (unreadable file, missing required
// column, empty table) are fatal input errors raised before any output
// is produced; cell-level problems are left for the standardizer.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/4adex/hilabs/internal/domain/errors"
	"github.com/4adex/hilabs/internal/domain/roster"
	"github.com/4adex/hilabs/internal/domain/values"
)

// Loader reads delimited input tables
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a Loader
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// table is a parsed CSV with case-insensitive header lookup
type table struct {
	columns map[string]int
	rows    [][]string
}

func (l *Loader) readTable(path string, required []string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewInputError("UNREADABLE_FILE",
			fmt.Sprintf("cannot open input table %s", path)).WithCause(err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewInputError("MALFORMED_TABLE",
			fmt.Sprintf("cannot parse input table %s", path)).WithCause(err)
	}
	if len(all) == 0 {
		return nil, errors.NewInputError("EMPTY_TABLE",
			fmt.Sprintf("input table %s has no header row", path))
	}

	t := &table{columns: make(map[string]int), rows: all[1:]}
	for i, name := range all[0] {
		t.columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewInputError("MISSING_COLUMN",
			fmt.Sprintf("input table %s is missing required columns: %s",
				path, strings.Join(missing, ", ")))
	}
	if len(t.rows) == 0 {
		return nil, errors.NewInputError("EMPTY_TABLE",
			fmt.Sprintf("input table %s has no data rows", path))
	}

	l.logger.Debug("loaded input table",
		zap.String("path", path),
		zap.Int("rows", len(t.rows)),
	)
	return t, nil
}

// cell returns the named column's value in a row, or "" when the row is
// short or the column absent
func (t *table) cell(row []string, col string) string {
	idx, ok := t.columns[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// rosterRequired are the columns a roster upload must carry; everything
// else degrades to empty cells
var rosterRequired = []string{"provider_id", "first_name", "last_name"}

// LoadRoster reads the raw provider directory
func (l *Loader) LoadRoster(path string) ([]roster.RawProviderRow, error) {
	t, err := l.readTable(path, rosterRequired)
	if err != nil {
		return nil, err
	}

	rows := make([]roster.RawProviderRow, 0, len(t.rows))
	for _, r := range t.rows {
		rows = append(rows, roster.RawProviderRow{
			ProviderID:           t.cell(r, "provider_id"),
			NPI:                  t.cell(r, "npi"),
			FirstName:            t.cell(r, "first_name"),
			LastName:             t.cell(r, "last_name"),
			Credential:           t.cell(r, "credential"),
			FullName:             t.cell(r, "full_name"),
			PrimarySpecialty:     t.cell(r, "primary_specialty"),
			PracticeAddressLine1: t.cell(r, "practice_address_line1"),
			PracticeAddressLine2: t.cell(r, "practice_address_line2"),
			PracticeCity:         t.cell(r, "practice_city"),
			PracticeState:        t.cell(r, "practice_state"),
			PracticeZip:          t.cell(r, "practice_zip"),
			MailingAddressLine1:  t.cell(r, "mailing_address_line1"),
			MailingAddressLine2:  t.cell(r, "mailing_address_line2"),
			MailingCity:          t.cell(r, "mailing_city"),
			MailingState:         t.cell(r, "mailing_state"),
			MailingZip:           t.cell(r, "mailing_zip"),
			PracticePhone:        t.cell(r, "practice_phone"),
			LicenseNumber:        t.cell(r, "license_number"),
			LicenseState:         t.cell(r, "license_state"),
			LicenseExpiration:    t.cell(r, "license_expiration"),
			YearsInPractice:      t.cell(r, "years_in_practice"),
			AcceptingNewPatients: t.cell(r, "accepting_new_patients"),
			MedicalSchool:        t.cell(r, "medical_school"),
			ResidencyProgram:     t.cell(r, "residency_program"),
			TaxonomyCode:         t.cell(r, "taxonomy_code"),
			LastUpdated:          t.cell(r, "last_updated"),
		})
	}
	return rows, nil
}

var licenseRequired = []string{"license_number", "expiration_date"}

// LoadLicenseTable reads one state registry
func (l *Loader) LoadLicenseTable(path, state string) (*roster.LicenseTable, error) {
	t, err := l.readTable(path, licenseRequired)
	if err != nil {
		return nil, err
	}

	records := make([]roster.LicenseRecord, 0, len(t.rows))
	for _, r := range t.rows {
		expiration, _ := roster.ParseDate(t.cell(r, "expiration_date"))
		records = append(records, roster.LicenseRecord{
			LicenseNumber:  strings.TrimSpace(t.cell(r, "license_number")),
			State:          state,
			ExpirationDate: expiration,
			ProviderName:   strings.TrimSpace(t.cell(r, "provider_name")),
			Specialty:      strings.TrimSpace(t.cell(r, "specialty")),
		})
	}
	return roster.NewLicenseTable(state, records), nil
}

var npiRequired = []string{"npi"}

// LoadNPITable reads the national identifier registry
func (l *Loader) LoadNPITable(path string) (*roster.NPITable, error) {
	t, err := l.readTable(path, npiRequired)
	if err != nil {
		return nil, err
	}

	records := make([]roster.NPIRecord, 0, len(t.rows))
	for _, r := range t.rows {
		records = append(records, roster.NPIRecord{
			NPI:          strings.TrimSpace(t.cell(r, "npi")),
			ProviderName: strings.TrimSpace(t.cell(r, "provider_name")),
			Phone:        values.NewPhone(t.cell(r, "phone")),
			AddressLine1: strings.TrimSpace(t.cell(r, "address_line1")),
			City:         strings.TrimSpace(t.cell(r, "city")),
			State:        strings.ToUpper(strings.TrimSpace(t.cell(r, "state"))),
			Zip:          values.NewZipCode(t.cell(r, "zip")),
			Specialty:    strings.TrimSpace(t.cell(r, "specialty")),
		})
	}
	return roster.NewNPITable(records), nil
}
