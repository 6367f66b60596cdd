package quality

import (
	"github.com/shopspring/decimal"

	"github.com/4adex/hilabs/internal/domain/roster"
	"github.com/4adex/hilabs/internal/domain/values"
)

// RunSummary is the flat aggregate emitted at the end of a run. All
// counts reconcile: every record disposition (kept, flagged, removed)
// is accounted for, so final_records + outliers_removed == total_records
// whenever the drop policy is active.
type RunSummary struct {
	RunID      string `json:"run_id"`
	DurationMS int64  `json:"duration_ms"`

	TotalRecords   int `json:"total_records"`
	CandidatePairs int `json:"candidate_pairs"`
	DuplicatePairs int `json:"duplicate_pairs"`
	UniqueInvolved int `json:"unique_involved"`
	Clusters       int `json:"clusters"`

	OutliersRemoved int `json:"outliers_removed"`
	OutliersFlagged int `json:"outliers_flagged"`
	FinalRecords    int `json:"final_records"`

	ExpiredLicenses    int `json:"expired_licenses"`
	MissingNPI         int `json:"missing_npi"`
	ProvidersAvailable int `json:"providers_available"`

	StateCounts      map[string]int `json:"state_counts"`
	FormattingIssues int            `json:"formatting_issues"`

	// ComplianceRate is the fraction of final records with a valid
	// license, as a percentage. DataQualityScore is the population mean
	// of per-record overall compliance scores, also a percentage. They
	// measure different things and are never conflated.
	ComplianceRate   float64 `json:"compliance_rate"`
	DataQualityScore float64 `json:"data_quality_score"`
	QualityGrade     string  `json:"quality_grade"`
}

// Summarize finalizes the aggregate metrics from the per-record scores
// and the final table
func Summarize(summary RunSummary, final []roster.ProviderRecord, scores []values.ComplianceScore) RunSummary {
	summary.FinalRecords = len(final)

	summary.StateCounts = make(map[string]int)
	validLicenses := 0
	for i := range final {
		if final[i].PracticeState != "" {
			summary.StateCounts[final[i].PracticeState]++
		}
		if final[i].AcceptingNewPatients {
			summary.ProvidersAvailable++
		}
		if final[i].LicenseStatus == roster.LicenseValid {
			validLicenses++
		}
	}

	if len(final) > 0 {
		rate := decimal.NewFromInt(int64(validLicenses)).
			Div(decimal.NewFromInt(int64(len(final)))).
			Mul(decimal.NewFromInt(100))
		summary.ComplianceRate = rate.Round(2).InexactFloat64()
	}

	if len(scores) > 0 {
		total := decimal.Zero
		for _, sc := range scores {
			total = total.Add(decimal.NewFromFloat(sc.OverallPercent()))
		}
		mean := total.Div(decimal.NewFromInt(int64(len(scores))))
		summary.DataQualityScore = mean.Round(2).InexactFloat64()
		summary.QualityGrade = gradeFor(summary.DataQualityScore)
	}

	return summary
}

// gradeFor converts a 0-100 quality score to a letter grade
func gradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A (Excellent)"
	case score >= 80:
		return "B (Good)"
	case score >= 70:
		return "C (Fair)"
	case score >= 60:
		return "D (Poor)"
	default:
		return "F (Critical Issues)"
	}
}
