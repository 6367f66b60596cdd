// Package quality computes per-record compliance scores and the
// aggregate run summary. The per-record score is a composite of
// independent dimensions; the run aggregates keep data_quality_score
// (population mean of overall scores) and compliance_rate (fraction of
// records with a valid license) strictly separate.
package quality

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/4adex/hilabs/internal/domain/errors"
	"github.com/4adex/hilabs/internal/domain/linkage"
	"github.com/4adex/hilabs/internal/domain/roster"
	"github.com/4adex/hilabs/internal/domain/values"
)

var stateCodeRe = regexp.MustCompile(`^[A-Z]{2}$`)

// Config tunes the scoring of non-binary dimensions
type Config struct {
	// NonRepresentativeScore is the uniqueness score of cluster members
	// that were not chosen representative, surfacing them for review.
	// Range [0.0, 1.0].
	NonRepresentativeScore float64 `koanf:"non_representative_score"`
	// UnknownLicenseCredit is the accuracy credit for records whose
	// license state has no reference registry. Range [0.0, 1.0].
	UnknownLicenseCredit float64 `koanf:"unknown_license_credit"`
	// ExpiredLicenseCredit is the accuracy credit for expired licenses.
	// Range [0.0, 1.0].
	ExpiredLicenseCredit float64 `koanf:"expired_license_credit"`
}

// DefaultConfig returns the production scoring configuration
func DefaultConfig() Config {
	return Config{
		NonRepresentativeScore: 0.5,
		UnknownLicenseCredit:   0.5,
		ExpiredLicenseCredit:   0.0,
	}
}

// Validate checks every credit against its documented range. Credits
// feed NewComplianceScore directly, so out-of-range values must be
// rejected at startup, not mid-run.
func (c Config) Validate() error {
	if c.NonRepresentativeScore < 0 || c.NonRepresentativeScore > 1 {
		return errors.NewValidationError("INVALID_QUALITY_CREDIT", "non_representative_score must be in [0.0, 1.0]")
	}
	if c.UnknownLicenseCredit < 0 || c.UnknownLicenseCredit > 1 {
		return errors.NewValidationError("INVALID_QUALITY_CREDIT", "unknown_license_credit must be in [0.0, 1.0]")
	}
	if c.ExpiredLicenseCredit < 0 || c.ExpiredLicenseCredit > 1 {
		return errors.NewValidationError("INVALID_QUALITY_CREDIT", "expired_license_credit must be in [0.0, 1.0]")
	}
	return nil
}

// Calculator derives ComplianceScores from annotated records
type Calculator struct {
	logger *zap.Logger
	config Config
}

// NewCalculator creates a Calculator
func NewCalculator(config Config, logger *zap.Logger) *Calculator {
	return &Calculator{logger: logger, config: config}
}

// membership classifies a record's role in the duplicate graph
type membership int

const (
	notClustered membership = iota
	representative
	duplicateMember
)

// AssessAll scores every record; the returned slice is index-aligned
// with the input roster
func (c *Calculator) AssessAll(records []roster.ProviderRecord, clusters []linkage.Cluster) []values.ComplianceScore {
	roles := make(map[int]membership)
	for _, cl := range clusters {
		for _, m := range cl.Members {
			if m == cl.Representative {
				roles[m] = representative
			} else {
				roles[m] = duplicateMember
			}
		}
	}

	scores := make([]values.ComplianceScore, len(records))
	for i := range records {
		scores[i] = c.Assess(&records[i], roles[i])
	}
	c.logger.Info("assessed compliance", zap.Int("records", len(records)))
	return scores
}

// Assess computes the dimension scores for one record
func (c *Calculator) Assess(rec *roster.ProviderRecord, role membership) values.ComplianceScore {
	score, err := values.NewComplianceScore(
		rec.Completeness(),
		c.validity(rec),
		c.consistency(rec),
		c.uniqueness(role),
		c.accuracy(rec),
		boolScore(rec.NPIPresent),
	)
	if err != nil {
		// Dimensions are computed, not parsed; out-of-range here is a bug
		panic(err)
	}
	return score
}

// validity is the fraction of populated fields passing format checks
func (c *Calculator) validity(rec *roster.ProviderRecord) float64 {
	checks, passed := 0, 0
	applicable := func(present, ok bool) {
		if present {
			checks++
			if ok {
				passed++
			}
		}
	}

	applicable(rec.HasNPI(), len(rec.NPI) == 10 && allDigits(rec.NPI))
	applicable(!rec.PracticePhone.IsEmpty(), rec.PracticePhone.Valid())
	applicable(!rec.PracticeZip.IsEmpty(), rec.PracticeZip.Valid())
	applicable(!rec.MailingZip.IsEmpty(), rec.MailingZip.Valid())
	applicable(rec.LicenseState != "", stateCodeRe.MatchString(rec.LicenseState))

	if checks == 0 {
		return 1.0
	}
	return float64(passed) / float64(checks)
}

// consistency measures how much of the record's source data already
// satisfied canonical form before standardization repaired it, plus
// plausibility of the state codes when both addresses carry one.
// Standardization erases the drift, so the raw-cell tallies stamped on
// the record are the only place it remains visible.
func (c *Calculator) consistency(rec *roster.ProviderRecord) float64 {
	var sum, checks float64

	if rec.SourceCellsChecked > 0 {
		checks++
		sum += float64(rec.SourceCellsCanonical) / float64(rec.SourceCellsChecked)
	}

	if rec.PracticeState != "" && rec.MailingState != "" {
		checks++
		if stateCodeRe.MatchString(rec.PracticeState) && stateCodeRe.MatchString(rec.MailingState) {
			sum++
		}
	}

	if checks == 0 {
		return 1.0
	}
	return sum / checks
}

// uniqueness scores 1.0 unless the record is a redundant cluster member
func (c *Calculator) uniqueness(role membership) float64 {
	if role == duplicateMember {
		return c.config.NonRepresentativeScore
	}
	return 1.0
}

// accuracy maps the license status to credit
func (c *Calculator) accuracy(rec *roster.ProviderRecord) float64 {
	switch rec.LicenseStatus {
	case roster.LicenseValid:
		return 1.0
	case roster.LicenseUnknown:
		return c.config.UnknownLicenseCredit
	case roster.LicenseExpired:
		return c.config.ExpiredLicenseCredit
	default:
		return 0.0
	}
}

func boolScore(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
