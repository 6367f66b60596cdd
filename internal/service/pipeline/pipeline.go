// Package pipeline orchestrates a full engine run: standardize, block,
// score, cluster, validate licenses, match identifiers, assess quality,
// apply outlier rules, summarize. The pipeline is pure with respect to
// I/O: callers load the input tables and publish the returned artifacts.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/4adex/hilabs/internal/domain/linkage"
	"github.com/4adex/hilabs/internal/domain/roster"
	"github.com/4adex/hilabs/internal/domain/values"
	"github.com/4adex/hilabs/internal/infrastructure/config"
	"github.com/4adex/hilabs/internal/metrics"
	"github.com/4adex/hilabs/internal/service/blocking"
	"github.com/4adex/hilabs/internal/service/clustering"
	"github.com/4adex/hilabs/internal/service/license"
	"github.com/4adex/hilabs/internal/service/npimatch"
	"github.com/4adex/hilabs/internal/service/outlier"
	"github.com/4adex/hilabs/internal/service/quality"
	"github.com/4adex/hilabs/internal/service/scoring"
	"github.com/4adex/hilabs/internal/service/standardize"
)

// Datasets bundles the loaded input tables for one run
type Datasets struct {
	Roster   []roster.RawProviderRow
	Licenses map[string]*roster.LicenseTable
	Registry *roster.NPITable
}

// Outcome carries everything a run produces. Final retains every record
// (minus outlier drops); duplicates stay in the table and are surfaced
// through the cluster report and the uniqueness dimension. Records is
// the full annotated roster, index-aligned with cluster members even
// when the drop policy shrank the final table.
type Outcome struct {
	Records  []roster.ProviderRecord
	Final    []roster.ProviderRecord
	Clusters []linkage.Cluster
	Scores   []values.ComplianceScore
	Summary  quality.RunSummary
}

// Engine wires the run stages together
type Engine struct {
	logger  *zap.Logger
	metrics *metrics.Registry
	cfg     config.EngineConfig
	now     time.Time

	standardizer *standardize.Standardizer
	blocker      *blocking.Builder
	scorer       *scoring.Scorer
	resolver     *clustering.Resolver
	calculator   *quality.Calculator
	filter       *outlier.Filter
}

// NewEngine assembles an Engine from validated configuration. The
// reference time fixes expiration semantics for the whole run.
func NewEngine(cfg config.EngineConfig, now time.Time, reg *metrics.Registry, logger *zap.Logger) *Engine {
	return &Engine{
		logger:       logger.Named("pipeline"),
		metrics:      reg,
		cfg:          cfg,
		now:          now,
		standardizer: standardize.NewStandardizer(logger.Named("standardize")),
		blocker:      blocking.NewBuilder(blocking.Config{MaxBlockSize: cfg.MaxBlockSize}, logger.Named("blocking")),
		scorer:       scoring.NewScorer(cfg.Weights),
		resolver:     clustering.NewResolver(cfg.DuplicateThreshold, logger.Named("clustering")),
		calculator:   quality.NewCalculator(cfg.Quality, logger.Named("quality")),
		filter:       outlier.NewFilter(cfg.Outlier, logger.Named("outlier")),
	}
}

// Run executes every stage in order and returns the assembled outcome.
// The run is deterministic for a given input and reference time.
func (e *Engine) Run(ctx context.Context, data Datasets) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()
	runID := uuid.New().String()
	e.logger.Info("starting run",
		zap.String("run_id", runID),
		zap.Int("records", len(data.Roster)),
	)

	summary := quality.RunSummary{
		RunID:        runID,
		TotalRecords: len(data.Roster),
	}
	e.metrics.RecordsLoaded.Add(float64(len(data.Roster)))

	// Standardization
	var std standardize.Result
	e.stage("standardize", func() {
		std = e.standardizer.All(data.Roster)
	})
	records := std.Records
	summary.FormattingIssues = std.FormattingIssues
	e.metrics.FormattingFlags.Add(float64(std.FormattingIssues))

	// Blocking
	var pairs []linkage.CandidatePair
	e.stage("blocking", func() {
		pairs = e.blocker.Build(records).CandidatePairs()
	})
	summary.CandidatePairs = len(pairs)
	e.metrics.CandidatePairs.Add(float64(len(pairs)))

	// Pairwise scoring fans out across workers; results land in an
	// index-aligned slice so concurrency never perturbs the output
	var scores []linkage.SimilarityScore
	var err error
	e.stage("scoring", func() {
		scores, err = e.scorePairs(ctx, records, pairs)
	})
	if err != nil {
		return nil, err
	}
	e.metrics.PairsScored.Add(float64(len(scores)))

	// Cluster resolution is the single-writer merge step
	var clusters clustering.Result
	e.stage("clustering", func() {
		clusters = e.resolver.Resolve(records, scores)
	})
	summary.DuplicatePairs = clusters.DuplicatePairs
	summary.UniqueInvolved = clusters.UniqueInvolved
	summary.Clusters = len(clusters.Clusters)
	e.metrics.DuplicatePairs.Add(float64(clusters.DuplicatePairs))
	e.metrics.ClustersFormed.Add(float64(len(clusters.Clusters)))

	// License validation
	validator := license.NewValidator(data.Licenses, e.now, e.logger.Named("license"))
	e.stage("license", func() {
		summary.ExpiredLicenses = validator.ValidateAll(records)
	})

	// Identifier matching uses registry weights: specialty participates,
	// license corroboration does not
	matcher := npimatch.NewMatcher(data.Registry,
		scoring.NewScorer(scoring.RegistryWeights()),
		e.cfg.NPIMatchThreshold, e.cfg.Workers, e.logger.Named("npimatch"))
	e.stage("npimatch", func() {
		summary.MissingNPI = matcher.MatchAll(records)
	})

	// Compliance assessment runs over the full annotated roster so that
	// dropped outliers still carry scores in the cluster report
	var complianceScores []values.ComplianceScore
	e.stage("quality", func() {
		complianceScores = e.calculator.AssessAll(records, clusters.Clusters)
	})

	// Outlier disposition is last so that every other annotation is
	// already stamped on records that get dropped
	var filtered outlier.Result
	e.stage("outlier", func() {
		filtered = e.filter.Apply(records)
	})
	summary.OutliersFlagged = filtered.Flagged
	summary.OutliersRemoved = filtered.Removed
	e.metrics.OutlierRecords.Add(float64(filtered.Flagged + filtered.Removed))

	finalScores := finalAligned(records, filtered.Records, complianceScores, e.filter)
	summary.DurationMS = time.Since(started).Milliseconds()
	summary = quality.Summarize(summary, filtered.Records, finalScores)

	e.logger.Info("run complete",
		zap.String("run_id", runID),
		zap.Int64("duration_ms", summary.DurationMS),
		zap.Int("final_records", summary.FinalRecords),
		zap.Int("clusters", summary.Clusters),
	)

	return &Outcome{
		Records:  records,
		Final:    filtered.Records,
		Clusters: clusters.Clusters,
		Scores:   finalScores,
		Summary:  summary,
	}, nil
}

// stage runs one pipeline stage, timing it into the metrics registry
func (e *Engine) stage(name string, fn func()) {
	start := time.Now()
	fn()
	d := time.Since(start)
	e.metrics.ObserveStage(name, d)
	e.logger.Debug("stage complete",
		zap.String("stage", name),
		zap.Duration("duration", d),
	)
}

// scorePairs computes similarity for every candidate pair using a
// bounded worker pool. Profiles are extracted once per record up front.
func (e *Engine) scorePairs(ctx context.Context, records []roster.ProviderRecord, pairs []linkage.CandidatePair) ([]linkage.SimilarityScore, error) {
	profiles := make([]scoring.Profile, len(records))
	for i := range records {
		profiles[i] = scoring.ProfileFromProvider(&records[i])
	}

	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	scores := make([]linkage.SimilarityScore, len(pairs))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				p := pairs[idx]
				scores[idx] = e.scorer.ScorePair(p, profiles[p.I], profiles[p.J])
			}
		}()
	}

	var err error
dispatch:
	for i := range pairs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return scores, nil
}

// finalAligned projects the full-roster compliance scores onto the final
// table, preserving index alignment after outlier drops
func finalAligned(all, final []roster.ProviderRecord, scores []values.ComplianceScore, f *outlier.Filter) []values.ComplianceScore {
	if len(final) == len(all) {
		return scores
	}
	out := make([]values.ComplianceScore, 0, len(final))
	for i := range all {
		if f.IsOutlier(&all[i]) {
			continue
		}
		out = append(out, scores[i])
	}
	return out
}
