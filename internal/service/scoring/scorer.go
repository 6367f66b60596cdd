// Package scoring computes multi-factor similarity between record
// profiles. Component scores abstain when either side is missing the
// compared field: the component's weight drops out of the average
// instead of contributing zero, so sparse records are not artificially
// dissimilar.
package scoring

import (
	"github.com/4adex/hilabs/internal/domain/linkage"
	"github.com/4adex/hilabs/internal/similarity"
)

const ngramSize = 2

// nameGuardThreshold short-circuits scoring when names share almost no
// tokens and no corroborating phone or license signal exists
const nameGuardThreshold = 0.2

// Scorer computes pairwise similarity under a fixed weight set
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer; weights must already be validated
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Weights returns the active weight set
func (s *Scorer) Weights() Weights {
	return s.weights
}

// ScorePair scores two profiles and stamps the pair identity on the result
func (s *Scorer) ScorePair(pair linkage.CandidatePair, a, b Profile) linkage.SimilarityScore {
	score := s.Score(a, b)
	score.Pair = pair
	return score
}

// Score computes the full similarity breakdown for two profiles
func (s *Scorer) Score(a, b Profile) linkage.SimilarityScore {
	var out linkage.SimilarityScore

	out.PhoneCompared = !a.Phone.IsEmpty() && !b.Phone.IsEmpty()
	if out.PhoneCompared {
		out.PhoneMatch = a.Phone.Matches(b.Phone)
	}

	out.LicenseCompared = a.LicenseNumber != "" && b.LicenseNumber != ""
	if out.LicenseCompared {
		out.LicenseScore = licenseAgreement(a, b)
	}

	out.NameCompared = a.FullName != "" && b.FullName != ""
	if out.NameCompared {
		tok := similarity.TokenOverlap(a.FullName, b.FullName)
		// Cheap guard before the n-gram pass: wildly different names
		// with no corroboration cannot be duplicates
		if tok < nameGuardThreshold && !out.PhoneMatch && out.LicenseScore == 0 {
			out.NameScore = tok
			out.Overall = 0
			return out
		}
		big := similarity.Jaccard(
			similarity.NGrams(a.FullName, ngramSize),
			similarity.NGrams(b.FullName, ngramSize),
		)
		out.NameScore = max(tok, big)
	}

	out.AddrScore, out.AddrCompared = addressSimilarity(a, b)

	out.SpecialtyCompared = a.Specialty != "" && b.Specialty != ""
	if out.SpecialtyCompared {
		out.SpecialtyScore = similarity.TokenOverlap(a.Specialty, b.Specialty)
	}

	out.Overall = s.combine(&out)
	return out
}

// combine folds the component scores into [0.0, 1.0]: weighted average
// of the compared base components, plus corroboration bonuses, clamped
func (s *Scorer) combine(sc *linkage.SimilarityScore) float64 {
	var sum, weight float64
	if sc.NameCompared {
		sum += sc.NameScore * s.weights.Name
		weight += s.weights.Name
	}
	if sc.AddrCompared {
		sum += sc.AddrScore * s.weights.Address
		weight += s.weights.Address
	}
	if sc.SpecialtyCompared && s.weights.Specialty > 0 {
		sum += sc.SpecialtyScore * s.weights.Specialty
		weight += s.weights.Specialty
	}

	var overall float64
	if weight > 0 {
		overall = sum / weight
	}
	if sc.PhoneCompared && sc.PhoneMatch {
		overall += s.weights.PhoneBonus
	}
	if sc.LicenseCompared {
		overall += sc.LicenseScore * s.weights.LicenseBonus
	}

	if overall > 1 {
		return 1
	}
	if overall < 0 {
		return 0
	}
	return overall
}

// licenseAgreement scores license identity: 1.0 when number and state
// both match, 0.5 when only the number matches across differing states
func licenseAgreement(a, b Profile) float64 {
	if a.LicenseNumber != b.LicenseNumber {
		return 0
	}
	if a.LicenseState != "" && b.LicenseState != "" && a.LicenseState == b.LicenseState {
		return 1.0
	}
	return 0.5
}

// addressSimilarity blends line1, city, state and ZIP agreement over the
// sub-fields both profiles carry
func addressSimilarity(a, b Profile) (float64, bool) {
	const (
		wLine1 = 0.50
		wCity  = 0.20
		wState = 0.15
		wZip   = 0.15
	)

	var sum, weight float64

	if a.AddressLine1 != "" && b.AddressLine1 != "" {
		sum += wLine1 * similarity.Jaccard(
			similarity.NGrams(a.AddressLine1, ngramSize),
			similarity.NGrams(b.AddressLine1, ngramSize),
		)
		weight += wLine1
	}
	if a.City != "" && b.City != "" {
		sum += wCity * similarity.TokenOverlap(a.City, b.City)
		weight += wCity
	}
	if a.State != "" && b.State != "" {
		if a.State == b.State {
			sum += wState
		}
		weight += wState
	}
	az, bz := zip5(a.Zip), zip5(b.Zip)
	if az != "" && bz != "" {
		if az == bz {
			sum += wZip
		}
		weight += wZip
	}

	if weight == 0 {
		return 0, false
	}
	return sum / weight, true
}

// zip5 reduces a standardized ZIP to its 5-digit prefix
func zip5(z string) string {
	if len(z) >= 5 {
		return z[:5]
	}
	return ""
}
