package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/4adex/hilabs/internal/domain/errors"
	"github.com/4adex/hilabs/internal/domain/linkage"
	"github.com/4adex/hilabs/internal/domain/roster"
	"github.com/4adex/hilabs/internal/service/quality"
)

// Writer publishes run artifacts. Every artifact is written to a
// temporary file in the target directory and renamed into place, so a
// failed run never leaves a partially written file behind.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a Writer
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

var finalHeader = []string{
	"provider_id", "npi",
	"first_name", "last_name", "credential", "full_name",
	"primary_specialty", "taxonomy_code",
	"practice_address_line1", "practice_address_line2",
	"practice_city", "practice_state", "practice_zip",
	"mailing_address_line1", "mailing_address_line2",
	"mailing_city", "mailing_state", "mailing_zip",
	"practice_phone",
	"license_number", "license_state", "license_expiration",
	"years_in_practice", "accepting_new_patients",
	"medical_school", "residency_program", "last_updated",
	"license_status", "npi_present", "suggested_npi", "outlier",
}

// WriteFinal publishes the annotated final provider table as CSV
func (w *Writer) WriteFinal(path string, records []roster.ProviderRecord) error {
	return w.atomically(path, func(f *os.File) error {
		cw := csv.NewWriter(f)
		if err := cw.Write(finalHeader); err != nil {
			return err
		}
		for i := range records {
			if err := cw.Write(finalRow(&records[i])); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func finalRow(r *roster.ProviderRecord) []string {
	return []string{
		r.ProviderID, r.NPI,
		r.FirstName, r.LastName, r.Credential, r.FullName,
		r.PrimarySpecialty, r.TaxonomyCode,
		r.PracticeAddressLine1, r.PracticeAddressLine2,
		r.PracticeCity, r.PracticeState, r.PracticeZip.String(),
		r.MailingAddressLine1, r.MailingAddressLine2,
		r.MailingCity, r.MailingState, r.MailingZip.String(),
		r.PracticePhone.String(),
		r.LicenseNumber, r.LicenseState, formatDate(r.LicenseExpiration),
		formatYears(r.YearsInPractice), formatBool(r.AcceptingNewPatients),
		r.MedicalSchool, r.ResidencyProgram, formatDate(r.LastUpdated),
		string(r.LicenseStatus), formatBool(r.NPIPresent), r.SuggestedNPI,
		formatBool(r.Outlier),
	}
}

// ClusterReport is the JSON artifact describing every duplicate cluster,
// with member provider IDs resolved for readability
type ClusterReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Threshold   float64         `json:"duplicate_threshold"`
	Clusters    []ClusterDetail `json:"clusters"`
}

type ClusterDetail struct {
	linkage.Cluster
	MemberIDs        []string `json:"member_ids"`
	RepresentativeID string   `json:"representative_id"`
}

// WriteClusters publishes the cluster report JSON
func (w *Writer) WriteClusters(path string, clusters []linkage.Cluster, records []roster.ProviderRecord, threshold float64) error {
	report := ClusterReport{
		GeneratedAt: time.Now().UTC(),
		Threshold:   threshold,
		Clusters:    make([]ClusterDetail, 0, len(clusters)),
	}
	for _, c := range clusters {
		detail := ClusterDetail{
			Cluster:          c,
			MemberIDs:        make([]string, 0, len(c.Members)),
			RepresentativeID: records[c.Representative].ProviderID,
		}
		for _, m := range c.Members {
			detail.MemberIDs = append(detail.MemberIDs, records[m].ProviderID)
		}
		report.Clusters = append(report.Clusters, detail)
	}
	return w.writeJSON(path, report)
}

// WriteSummary publishes the run summary JSON
func (w *Writer) WriteSummary(path string, summary quality.RunSummary) error {
	return w.writeJSON(path, summary)
}

func (w *Writer) writeJSON(path string, v interface{}) error {
	return w.atomically(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

// atomically runs write against a temp file in path's directory, then
// renames it into place on success
func (w *Writer) atomically(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewInternalError(
			fmt.Sprintf("cannot create output directory %s", dir)).WithCause(err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.NewInternalError(
			fmt.Sprintf("cannot create temporary file in %s", dir)).WithCause(err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return errors.NewInternalError(
			fmt.Sprintf("cannot write artifact %s", path)).WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewInternalError(
			fmt.Sprintf("cannot finalize artifact %s", path)).WithCause(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.NewInternalError(
			fmt.Sprintf("cannot publish artifact %s", path)).WithCause(err)
	}

	w.logger.Debug("published artifact", zap.String("path", path))
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatYears(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
