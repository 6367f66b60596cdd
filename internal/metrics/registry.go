// Package metrics exposes run-progress instrumentation for long batch
// runs. Counters cover every record disposition the summary reports;
// the registry can be served over a debug listener while a run executes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all engine metrics on an isolated prometheus registry
type Registry struct {
	registry *prometheus.Registry

	// Pipeline stage timings
	StageDuration *prometheus.HistogramVec

	// Record linkage metrics
	RecordsLoaded   prometheus.Counter
	CandidatePairs  prometheus.Counter
	PairsScored     prometheus.Counter
	DuplicatePairs  prometheus.Counter
	ClustersFormed  prometheus.Counter
	OutlierRecords  prometheus.Counter
	FormattingFlags prometheus.Counter
}

// NewRegistry creates and registers all engine metrics
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roster_engine",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"stage"}),
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roster_engine",
			Name:      "records_loaded_total",
			Help:      "Provider records loaded from the source roster",
		}),
		CandidatePairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roster_engine",
			Name:      "candidate_pairs_total",
			Help:      "Candidate pairs produced by the blocking index",
		}),
		PairsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roster_engine",
			Name:      "pairs_scored_total",
			Help:      "Candidate pairs run through the similarity scorer",
		}),
		DuplicatePairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roster_engine",
			Name:      "duplicate_pairs_total",
			Help:      "Scored pairs at or above the duplicate threshold",
		}),
		ClustersFormed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roster_engine",
			Name:      "clusters_formed_total",
			Help:      "Duplicate clusters resolved by union-find",
		}),
		OutlierRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roster_engine",
			Name:      "outlier_records_total",
			Help:      "Records flagged or removed by outlier rules",
		}),
		FormattingFlags: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roster_engine",
			Name:      "formatting_issues_total",
			Help:      "Field values standardization could not fully repair",
		}),
	}

	reg.MustRegister(
		r.StageDuration,
		r.RecordsLoaded,
		r.CandidatePairs,
		r.PairsScored,
		r.DuplicatePairs,
		r.ClustersFormed,
		r.OutlierRecords,
		r.FormattingFlags,
	)
	return r
}

// ObserveStage records one stage's wall time
func (r *Registry) ObserveStage(stage string, d time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Handler serves the registry in the prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
