// Package npimatch determines identifier presence against the NPI
// registry. Matching is two-phase: an exact identifier lookup first,
// then fuzzy linkage through the shared similarity scorer (name, phone,
// address, specialty) under a stricter threshold. A fuzzy hit records
// the registry identifier as a suggestion rather than overwriting the
// roster value.
package npimatch

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/4adex/hilabs/internal/domain/roster"
	"github.com/4adex/hilabs/internal/service/scoring"
)

// Matcher resolves npi_present for every record exactly once per run
type Matcher struct {
	logger    *zap.Logger
	registry  *roster.NPITable
	scorer    *scoring.Scorer
	threshold float64
	workers   int
}

// NewMatcher creates a Matcher. The scorer should carry registry
// weights (specialty enabled, license disabled); threshold is stricter
// than the duplicate threshold because a fuzzy registry hit asserts
// identity, not mere duplication.
func NewMatcher(registry *roster.NPITable, scorer *scoring.Scorer, threshold float64, workers int, logger *zap.Logger) *Matcher {
	if workers < 1 {
		workers = 1
	}
	return &Matcher{
		logger:    logger,
		registry:  registry,
		scorer:    scorer,
		threshold: threshold,
		workers:   workers,
	}
}

// Match resolves one record: present reports registry membership,
// suggested carries the fuzzy-matched identifier when the roster value
// was absent or wrong
func (m *Matcher) Match(rec *roster.ProviderRecord) (present bool, suggested string) {
	// Phase 1: exact identifier lookup
	if rec.HasNPI() && m.registry.Lookup(rec.NPI) != nil {
		return true, ""
	}

	// Phase 2: fuzzy linkage against the registry
	profile := scoring.ProfileFromProvider(rec)
	bestScore := 0.0
	bestNPI := ""
	for i := range m.registry.Records {
		entry := &m.registry.Records[i]
		sc := m.scorer.Score(profile, scoring.ProfileFromNPIRecord(entry))
		if sc.Overall > bestScore {
			bestScore = sc.Overall
			bestNPI = entry.NPI
		}
	}
	if bestScore >= m.threshold {
		return true, bestNPI
	}
	return false, ""
}

// MatchAll stamps npi_present and any suggested identifier on every
// record and returns the missing count for the run summary. The fuzzy
// pass scans the whole registry per record, so records fan out across
// workers; each worker writes only its own indices.
func (m *Matcher) MatchAll(records []roster.ProviderRecord) int {
	var missing atomic.Int64
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < m.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				present, suggested := m.Match(&records[i])
				records[i].NPIPresent = present
				records[i].SuggestedNPI = suggested
				if !present {
					missing.Add(1)
				}
			}
		}()
	}
	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	m.logger.Info("matched identifiers",
		zap.Int("records", len(records)),
		zap.Int64("missing_npi", missing.Load()),
	)
	return int(missing.Load())
}
