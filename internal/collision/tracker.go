// Package collision detects when a block sequence number is re-inserted
// with different content — a silent corruption or resend anomaly that
// plain sequence-keyed dedup cannot distinguish from a benign exact
// duplicate.
package collision

import "github.com/mikee47/datalog/internal/hash"

// Tracker records the content digest observed for each block sequence
// number and reports whether a later insertion under the same sequence
// carries different content.
type Tracker struct {
	digests map[uint32]uint64
}

// NewTracker creates a new, empty content-collision tracker.
func NewTracker() *Tracker {
	return &Tracker{digests: make(map[uint32]uint64)}
}

// Observe records the digest of content for sequence, returning true if a
// different digest was previously recorded for the same sequence. The
// first digest observed for a sequence always returns false and is kept;
// later calls never overwrite it: content served equals whichever was
// inserted first.
func (t *Tracker) Observe(sequence uint32, content []byte) (collided bool) {
	digest := hash.Digest(content)
	existing, ok := t.digests[sequence]
	if !ok {
		t.digests[sequence] = digest
		return false
	}

	return existing != digest
}

// Count returns the number of distinct sequences observed.
func (t *Tracker) Count() int {
	return len(t.digests)
}
