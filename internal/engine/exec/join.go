package exec

import (
	"github.com/zeebo/xxh3"

	"github.com/aleksaelezovic/rdfquery/internal/engine/plan"
	"github.com/aleksaelezovic/rdfquery/pkg/query"
)

// joinIterator is a two-phase hash join: the build phase drains Left
// into buckets keyed by the join variables, then the probe phase pulls
// Right one mapping at a time and yields a merged mapping for each
// same-key bucket entry (spec.md §4.2 invariant iii).
type joinIterator struct {
	left, right Iterator
	joinVars    []query.Variable

	buckets map[uint64][]bucketEntry
	built   bool

	current  []bucketEntry
	probe    *plan.Mapping
	probeKey string
}

// bucketEntry retains the join key string alongside its mapping so a
// probe can confirm an exact key match after an xxh3 bucket hit,
// rather than trusting the 64-bit hash alone (hash collisions between
// two distinct key strings would otherwise merge incompatible rows).
type bucketEntry struct {
	key string
	m   *plan.Mapping
}

func newJoinIterator(o plan.Join) *joinIterator {
	return &joinIterator{
		left:     Build(o.Left),
		right:    Build(o.Right),
		joinVars: joinVariables(o.Left, o.Right),
		buckets:  make(map[uint64][]bucketEntry),
	}
}

// bucketHash hashes a join key string with xxh3, used only to pick a
// bucket; bucketEntry.key is still compared for an exact match.
func bucketHash(key string) uint64 {
	return xxh3.HashString(key)
}

func (j *joinIterator) Next() (*plan.Mapping, bool) {
	if !j.built {
		j.build()
		j.built = true
	}

	for {
		for len(j.current) > 0 {
			entry := j.current[len(j.current)-1]
			j.current = j.current[:len(j.current)-1]
			if entry.key == j.probeKey {
				return j.probe.Merge(entry.m), true
			}
		}

		next, ok := j.right.Next()
		if !ok {
			return nil, false
		}
		j.probe = next
		j.probeKey = next.Key(j.joinVars)
		j.current = j.buckets[bucketHash(j.probeKey)]
	}
}

func (j *joinIterator) build() {
	for {
		m, ok := j.left.Next()
		if !ok {
			return
		}
		key := m.Key(j.joinVars)
		hash := bucketHash(key)
		j.buckets[hash] = append(j.buckets[hash], bucketEntry{key: key, m: m})
	}
}
