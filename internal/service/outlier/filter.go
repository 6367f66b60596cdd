// Package outlier applies deterministic plausibility rules to derived
// values. The rules are fixed bounds, not statistical tests: a value is
// an outlier because it is physically impossible, not because it is
// rare. Malformed-but-possible values are flagged upstream by the
// standardizer and never dropped here.
package outlier

import (
	"go.uber.org/zap"

	"github.com/4adex/hilabs/internal/domain/errors"
	"github.com/4adex/hilabs/internal/domain/roster"
)

// Policy selects the disposition for outlier records
type Policy string

const (
	// PolicyFlag keeps outlier records in the final table with the
	// Outlier annotation set
	PolicyFlag Policy = "flag"
	// PolicyDrop removes outlier records from the final table; removals
	// are counted so totals still reconcile
	PolicyDrop Policy = "drop"
)

// Config bounds years_in_practice and selects the disposition
type Config struct {
	MinYears int    `koanf:"min_years"`
	MaxYears int    `koanf:"max_years"`
	Policy   Policy `koanf:"policy"`
}

// DefaultConfig flags rather than drops; dropping is an explicit opt-in
func DefaultConfig() Config {
	return Config{MinYears: 0, MaxYears: 60, Policy: PolicyFlag}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Policy != PolicyFlag && c.Policy != PolicyDrop {
		return errors.NewValidationError("INVALID_OUTLIER_POLICY", "outlier policy must be \"flag\" or \"drop\"")
	}
	if c.MinYears > c.MaxYears {
		return errors.NewValidationError("INVALID_OUTLIER_BOUNDS", "min_years cannot exceed max_years")
	}
	return nil
}

// Filter flags or removes records with implausible derived values
type Filter struct {
	logger *zap.Logger
	config Config
}

// Result carries the surviving records and the outlier disposition counts
type Result struct {
	Records []roster.ProviderRecord
	Flagged int
	Removed int
}

// NewFilter creates a Filter
func NewFilter(config Config, logger *zap.Logger) *Filter {
	return &Filter{logger: logger, config: config}
}

// IsOutlier applies the plausibility rules to one record. Records with
// no years value are not outliers; absence is a completeness concern.
func (f *Filter) IsOutlier(rec *roster.ProviderRecord) bool {
	if rec.YearsInPractice == nil {
		return false
	}
	years := *rec.YearsInPractice
	return years < f.config.MinYears || years > f.config.MaxYears
}

// Apply processes the roster under the configured policy
func (f *Filter) Apply(records []roster.ProviderRecord) Result {
	res := Result{Records: make([]roster.ProviderRecord, 0, len(records))}
	for i := range records {
		if !f.IsOutlier(&records[i]) {
			res.Records = append(res.Records, records[i])
			continue
		}
		if f.config.Policy == PolicyDrop {
			res.Removed++
			continue
		}
		records[i].Outlier = true
		res.Flagged++
		res.Records = append(res.Records, records[i])
	}
	f.logger.Info("applied outlier rules",
		zap.String("policy", string(f.config.Policy)),
		zap.Int("flagged", res.Flagged),
		zap.Int("removed", res.Removed),
	)
	return res
}
