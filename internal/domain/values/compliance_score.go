package values

import (
	"encoding/json"
	"fmt"
	"math"
)

// ComplianceScore represents the per-record data-quality and regulatory
// readiness assessment as a value object. Every dimension is scored in
// [0.0, 1.0]; the overall score is their mean, reported as a percentage.
type ComplianceScore struct {
	// Quality dimensions (0.0 - 1.0 scale)
	Completeness float64 `json:"completeness"`
	Validity     float64 `json:"validity"`
	Consistency  float64 `json:"consistency"`
	Uniqueness   float64 `json:"uniqueness"`
	Accuracy     float64 `json:"accuracy"`

	// Identifier presence, converted to 1.0/0.0
	NPIPresence float64 `json:"npi_presence"`
}

// NewComplianceScore creates a new ComplianceScore value object with validation
func NewComplianceScore(completeness, validity, consistency, uniqueness, accuracy, npiPresence float64) (ComplianceScore, error) {
	dims := map[string]float64{
		"completeness": completeness,
		"validity":     validity,
		"consistency":  consistency,
		"uniqueness":   uniqueness,
		"accuracy":     accuracy,
		"npi_presence": npiPresence,
	}
	for name, v := range dims {
		if err := validateDimension(v, name); err != nil {
			return ComplianceScore{}, err
		}
	}

	return ComplianceScore{
		Completeness: completeness,
		Validity:     validity,
		Consistency:  consistency,
		Uniqueness:   uniqueness,
		Accuracy:     accuracy,
		NPIPresence:  npiPresence,
	}, nil
}

// MustNewComplianceScore creates a ComplianceScore and panics on error (for tests)
func MustNewComplianceScore(completeness, validity, consistency, uniqueness, accuracy, npiPresence float64) ComplianceScore {
	score, err := NewComplianceScore(completeness, validity, consistency, uniqueness, accuracy, npiPresence)
	if err != nil {
		panic(err)
	}
	return score
}

// Overall calculates the unweighted mean of all dimensions (0.0 - 1.0)
func (c ComplianceScore) Overall() float64 {
	return (c.Completeness + c.Validity + c.Consistency + c.Uniqueness + c.Accuracy + c.NPIPresence) / 6.0
}

// OverallPercent returns the overall score on a 0-100 scale
func (c ComplianceScore) OverallPercent() float64 {
	return c.Overall() * 100.0
}

// Grade converts the overall score to a letter grade
func (c ComplianceScore) Grade() string {
	switch score := c.OverallPercent(); {
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

// IsHighQuality checks if the record scores at least a B grade
func (c ComplianceScore) IsHighQuality() bool {
	return c.OverallPercent() >= 80.0
}

// NeedsReview checks if any single dimension falls below 0.5
func (c ComplianceScore) NeedsReview() bool {
	return c.Completeness < 0.5 || c.Validity < 0.5 || c.Consistency < 0.5 ||
		c.Uniqueness < 0.5 || c.Accuracy < 0.5 || c.NPIPresence < 0.5
}

// Equal checks if two ComplianceScore values are equal
func (c ComplianceScore) Equal(other ComplianceScore) bool {
	return c == other
}

// String returns a string representation of the compliance score
func (c ComplianceScore) String() string {
	return fmt.Sprintf("ComplianceScore{Overall: %.1f%%, Completeness: %.2f, Uniqueness: %.2f, Accuracy: %.2f}",
		c.OverallPercent(), c.Completeness, c.Uniqueness, c.Accuracy)
}

// MarshalJSON implements JSON marshaling, including the derived overall score
func (c ComplianceScore) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Completeness float64 `json:"completeness"`
		Validity     float64 `json:"validity"`
		Consistency  float64 `json:"consistency"`
		Uniqueness   float64 `json:"uniqueness"`
		Accuracy     float64 `json:"accuracy"`
		NPIPresence  float64 `json:"npi_presence"`
		Overall      float64 `json:"overall"`
	}{
		Completeness: c.Completeness,
		Validity:     c.Validity,
		Consistency:  c.Consistency,
		Uniqueness:   c.Uniqueness,
		Accuracy:     c.Accuracy,
		NPIPresence:  c.NPIPresence,
		Overall:      c.Overall(),
	})
}

// UnmarshalJSON implements JSON unmarshaling
func (c *ComplianceScore) UnmarshalJSON(data []byte) error {
	var raw struct {
		Completeness float64 `json:"completeness"`
		Validity     float64 `json:"validity"`
		Consistency  float64 `json:"consistency"`
		Uniqueness   float64 `json:"uniqueness"`
		Accuracy     float64 `json:"accuracy"`
		NPIPresence  float64 `json:"npi_presence"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	score, err := NewComplianceScore(raw.Completeness, raw.Validity, raw.Consistency, raw.Uniqueness, raw.Accuracy, raw.NPIPresence)
	if err != nil {
		return err
	}

	*c = score
	return nil
}

// Helper function to validate dimension ranges
func validateDimension(score float64, name string) error {
	if math.IsNaN(score) {
		return fmt.Errorf("%s cannot be NaN", name)
	}
	if math.IsInf(score, 0) {
		return fmt.Errorf("%s cannot be infinite", name)
	}
	if score < 0.0 || score > 1.0 {
		return fmt.Errorf("%s must be between 0.0 and 1.0", name)
	}
	return nil
}
