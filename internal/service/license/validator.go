// Package license reconciles roster records against state medical-license
// registries. The join key is state-specific, so validation dispatches
// over a small closed set of named join strategies rather than branching
// per call site: California joins on license number alone, New York
// requires the expiration date to match exactly as well. States without
// a registry resolve to "unknown", never silently to "valid".
package license

import (
	"time"

	"go.uber.org/zap"

	"github.com/4adex/hilabs/internal/domain/roster"
)

// joinFunc is one state's pure join strategy: given a record and that
// state's registry, return the matched entry or nil
type joinFunc func(rec *roster.ProviderRecord, table *roster.LicenseTable) *roster.LicenseRecord

// Validator resolves license_status for every record exactly once per run
type Validator struct {
	logger     *zap.Logger
	strategies map[string]joinFunc
	tables     map[string]*roster.LicenseTable
	now        time.Time
}

// NewValidator creates a Validator over the loaded state registries.
// The reference time fixes "expired" semantics for the whole run.
func NewValidator(tables map[string]*roster.LicenseTable, now time.Time, logger *zap.Logger) *Validator {
	return &Validator{
		logger: logger,
		strategies: map[string]joinFunc{
			"CA": joinByNumber,
			"NY": joinByNumberAndExpiration,
		},
		tables: tables,
		now:    now,
	}
}

// Validate resolves the categorical license status for one record
func (v *Validator) Validate(rec *roster.ProviderRecord) roster.LicenseStatus {
	if !rec.HasLicense() {
		return roster.LicenseNotFound
	}

	join, ok := v.strategies[rec.LicenseState]
	if !ok {
		// No reference registry for this state
		return roster.LicenseUnknown
	}
	table, ok := v.tables[rec.LicenseState]
	if !ok || table.Len() == 0 {
		return roster.LicenseUnknown
	}

	matched := join(rec, table)
	if matched == nil {
		return roster.LicenseNotFound
	}
	if matched.ExpirationDate != nil && matched.ExpirationDate.Before(v.now) {
		return roster.LicenseExpired
	}
	return roster.LicenseValid
}

// ValidateAll stamps license_status on every record and returns the
// expired count for the run summary
func (v *Validator) ValidateAll(records []roster.ProviderRecord) int {
	expired := 0
	for i := range records {
		records[i].LicenseStatus = v.Validate(&records[i])
		if records[i].LicenseStatus == roster.LicenseExpired {
			expired++
		}
	}
	v.logger.Info("validated licenses",
		zap.Int("records", len(records)),
		zap.Int("expired", expired),
	)
	return expired
}

// joinByNumber is the California strategy: the normalized license number
// alone identifies a registry entry. Registries occasionally carry the
// same number more than once (renewal rows); the entry with the latest
// expiration wins so the resolved status never depends on row order.
func joinByNumber(rec *roster.ProviderRecord, table *roster.LicenseTable) *roster.LicenseRecord {
	var best *roster.LicenseRecord
	for _, m := range table.LookupByNumber(rec.LicenseNumber) {
		if best == nil || expiresAfter(m, best) {
			best = m
		}
	}
	return best
}

// expiresAfter reports whether a expires strictly later than b; a
// missing expiration sorts earliest
func expiresAfter(a, b *roster.LicenseRecord) bool {
	if a.ExpirationDate == nil {
		return false
	}
	if b.ExpirationDate == nil {
		return true
	}
	return a.ExpirationDate.After(*b.ExpirationDate)
}

// joinByNumberAndExpiration is the New York strategy: the registry entry
// must match on both license number and exact expiration date. A number
// match with a differing expiration is NOT a validated match; stale
// expiration data must not validate an expired license.
func joinByNumberAndExpiration(rec *roster.ProviderRecord, table *roster.LicenseTable) *roster.LicenseRecord {
	return table.LookupByNumberAndExpiration(rec.LicenseNumber, rec.LicenseExpiration)
}
