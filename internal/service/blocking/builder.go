// Package blocking reduces O(n²) pair generation to near-linear by only
// comparing records that share at least one cheap blocking key. Each
// record is inserted into every matching block (multi-key blocking); a
// pair discovered under several keys is emitted once via its canonical
// unordered identity.
package blocking

import (
	"sort"

	"go.uber.org/zap"

	"github.com/4adex/hilabs/internal/domain/linkage"
	"github.com/4adex/hilabs/internal/domain/roster"
	"github.com/4adex/hilabs/internal/similarity"
)

// Config bounds block sizes. Blocks above MaxBlockSize are almost always
// degenerate key collisions (shared office phone lines, PO boxes) whose
// quadratic pair count would defeat the point of blocking; they are
// skipped rather than expanded.
type Config struct {
	MaxBlockSize int
}

// DefaultConfig returns the block-size bound used in production runs
func DefaultConfig() Config {
	return Config{MaxBlockSize: 500}
}

// Builder groups standardized records into candidate blocks
type Builder struct {
	logger *zap.Logger
	config Config
}

// Index maps blocking keys to the roster indices they contain
type Index struct {
	Blocks map[string][]int

	maxBlockSize int
}

// NewBuilder creates a new blocking index builder
func NewBuilder(config Config, logger *zap.Logger) *Builder {
	if config.MaxBlockSize <= 0 {
		config.MaxBlockSize = DefaultConfig().MaxBlockSize
	}
	return &Builder{logger: logger, config: config}
}

// Build inserts every record into each block whose key it can produce:
// exact NPI, exact standardized phone, zip3 plus normalized last name,
// and normalized practice address line 1.
func (b *Builder) Build(records []roster.ProviderRecord) *Index {
	idx := &Index{
		Blocks:       make(map[string][]int),
		maxBlockSize: b.config.MaxBlockSize,
	}

	for i := range records {
		rec := &records[i]

		if rec.HasNPI() {
			idx.add("npi:"+rec.NPI, i)
		}
		if !rec.PracticePhone.IsEmpty() {
			idx.add("phone:"+rec.PracticePhone.String(), i)
		}
		zip3 := rec.PracticeZip.Zip3()
		last := similarity.CleanText(rec.LastName)
		if zip3 != "" && last != "" {
			idx.add("zipname:"+zip3+"_"+last, i)
		}
		if addr := similarity.CleanText(rec.PracticeAddressLine1); addr != "" {
			idx.add("addr:"+addr, i)
		}
	}

	b.logger.Info("built blocking index",
		zap.Int("records", len(records)),
		zap.Int("blocks", len(idx.Blocks)),
	)
	return idx
}

func (ix *Index) add(key string, i int) {
	ix.Blocks[key] = append(ix.Blocks[key], i)
}

// CandidatePairs emits all C(k,2) pairs of every block with at least two
// members, de-duplicated across keys and sorted for deterministic output.
// Oversized blocks are skipped entirely.
func (ix *Index) CandidatePairs() []linkage.CandidatePair {
	seen := make(map[linkage.CandidatePair]struct{})
	for _, members := range ix.Blocks {
		if len(members) < 2 || len(members) > ix.maxBlockSize {
			continue
		}
		for a := 0; a < len(members); a++ {
			for b := a + 1; b < len(members); b++ {
				seen[linkage.NewCandidatePair(members[a], members[b])] = struct{}{}
			}
		}
	}

	pairs := make([]linkage.CandidatePair, 0, len(seen))
	for p := range seen {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].I != pairs[b].I {
			return pairs[a].I < pairs[b].I
		}
		return pairs[a].J < pairs[b].J
	})
	return pairs
}
