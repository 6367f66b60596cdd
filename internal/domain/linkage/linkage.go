package linkage

// CandidatePair is an unordered pair of roster indices placed in a
// common block. The canonical form always has I < J so that the same
// pair discovered under different blocking keys has one identity.
type CandidatePair struct {
	I int `json:"i"`
	J int `json:"j"`
}

// NewCandidatePair builds the canonical unordered pair
func NewCandidatePair(a, b int) CandidatePair {
	if a > b {
		a, b = b, a
	}
	return CandidatePair{I: a, J: b}
}

// SimilarityScore is the multi-factor comparison result for one pair.
// Compared flags record which sub-scores actually participated: a record
// missing a field abstains from that sub-score instead of scoring zero.
type SimilarityScore struct {
	Pair CandidatePair `json:"pair"`

	NameScore    float64 `json:"name_score"`
	NameCompared bool    `json:"name_compared"`

	AddrScore    float64 `json:"addr_score"`
	AddrCompared bool    `json:"addr_compared"`

	PhoneMatch    bool `json:"phone_match"`
	PhoneCompared bool `json:"phone_compared"`

	LicenseScore    float64 `json:"license_score"`
	LicenseCompared bool    `json:"license_compared"`

	SpecialtyScore    float64 `json:"specialty_score,omitempty"`
	SpecialtyCompared bool    `json:"specialty_compared,omitempty"`

	Overall float64 `json:"overall_score"`
}

// Cluster is a connected component of the duplicate graph: every member
// is linked to at least one other member by a pair at or above the
// duplicate threshold (chaining allowed, not full-clique).
type Cluster struct {
	ID             string            `json:"cluster_id"`
	Members        []int             `json:"members"`
	Representative int               `json:"representative"`
	Pairs          []SimilarityScore `json:"pairs"`
}

// Size returns the member count
func (c Cluster) Size() int {
	return len(c.Members)
}

// Contains checks membership of a roster index
func (c Cluster) Contains(idx int) bool {
	for _, m := range c.Members {
		if m == idx {
			return true
		}
	}
	return false
}
