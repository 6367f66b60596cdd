// Package clustering converts pairwise similarity evidence into
// duplicate clusters. Records connected by any chain of pairs at or
// above the duplicate threshold merge into one cluster (connected
// components, not cliques); each cluster designates one representative.
package clustering

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/4adex/hilabs/internal/domain/linkage"
	"github.com/4adex/hilabs/internal/domain/roster"
)

// Resolver merges scored pairs into clusters
type Resolver struct {
	logger    *zap.Logger
	threshold float64
}

// Result carries the resolved clusters and the pairwise reporting
// numbers. DuplicatePairs counts every pair meeting the threshold;
// clusters count connected components. They are different numbers and
// both are reported.
type Result struct {
	Clusters       []linkage.Cluster
	DuplicatePairs int
	UniqueInvolved int
}

// NewResolver creates a Resolver with the given duplicate threshold
func NewResolver(threshold float64, logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger, threshold: threshold}
}

// Resolve runs union-find over qualifying pairs and assembles clusters.
// This is the single-writer merge step: it must run after all pairwise
// scores are available.
func (r *Resolver) Resolve(records []roster.ProviderRecord, scores []linkage.SimilarityScore) Result {
	uf := NewUnionFind(len(records))

	qualifying := make([]linkage.SimilarityScore, 0)
	for _, sc := range scores {
		if sc.Overall >= r.threshold {
			qualifying = append(qualifying, sc)
			uf.Union(sc.Pair.I, sc.Pair.J)
		}
	}

	// Group members by component root
	components := make(map[int][]int)
	for _, sc := range qualifying {
		for _, idx := range []int{sc.Pair.I, sc.Pair.J} {
			root := uf.Find(idx)
			if !containsInt(components[root], idx) {
				components[root] = append(components[root], idx)
			}
		}
	}

	clusters := make([]linkage.Cluster, 0, len(components))
	involved := 0
	for _, members := range components {
		if len(members) < 2 {
			continue
		}
		sort.Ints(members)
		cluster := linkage.Cluster{
			// Smallest member index keys the ID so reruns on identical
			// input produce identical IDs
			ID:             fmt.Sprintf("cluster_%d", members[0]),
			Members:        members,
			Representative: r.selectRepresentative(records, members),
		}
		for _, sc := range qualifying {
			if containsInt(members, sc.Pair.I) {
				cluster.Pairs = append(cluster.Pairs, sc)
			}
		}
		clusters = append(clusters, cluster)
		involved += len(members)
	}

	sort.Slice(clusters, func(a, b int) bool {
		return clusters[a].Members[0] < clusters[b].Members[0]
	})

	r.logger.Info("resolved duplicate clusters",
		zap.Int("duplicate_pairs", len(qualifying)),
		zap.Int("clusters", len(clusters)),
		zap.Int("unique_involved", involved),
	)

	return Result{
		Clusters:       clusters,
		DuplicatePairs: len(qualifying),
		UniqueInvolved: involved,
	}
}

// selectRepresentative picks the most complete member (fewest empty
// fields); ties break to the lowest provider_id for determinism
func (r *Resolver) selectRepresentative(records []roster.ProviderRecord, members []int) int {
	best := members[0]
	bestEmpty := records[best].EmptyFieldCount()
	for _, idx := range members[1:] {
		empty := records[idx].EmptyFieldCount()
		switch {
		case empty < bestEmpty:
			best, bestEmpty = idx, empty
		case empty == bestEmpty && records[idx].ProviderID < records[best].ProviderID:
			best = idx
		}
	}
	return best
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
