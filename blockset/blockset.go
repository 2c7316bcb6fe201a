// Package blockset deduplicates blocks by sequence number across one or
// more input files and iterates them in ascending sequence order.
package blockset

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mikee47/datalog/block"
	"github.com/mikee47/datalog/internal/collision"
)

// Set is a sequence-keyed collection of blocks, deduplicated by sequence
// number. The first block inserted under a given sequence wins; later
// insertions under the same sequence are counted as dupes and discarded.
type Set struct {
	blocks    map[uint32]block.Block
	dupes     int
	collided  int
	collision *collision.Tracker
}

// New creates an empty block set.
func New() *Set {
	return &Set{
		blocks:    make(map[uint32]block.Block),
		collision: collision.NewTracker(),
	}
}

// Add inserts b, returning true if it was newly added. A block whose
// sequence is already present is discarded and counted as a dupe; if its
// content additionally differs from what's already stored, it is also
// counted as a content collision (see Collisions), a sign of in-place
// corruption or a device resending a sequence with different data.
func (s *Set) Add(b block.Block) bool {
	if s.collision.Observe(b.Sequence, b.Payload) {
		s.collided++
	}

	if _, exists := s.blocks[b.Sequence]; exists {
		s.dupes++
		return false
	}

	s.blocks[b.Sequence] = b
	return true
}

// Get retrieves the block stored for sequence, if any.
func (s *Set) Get(sequence uint32) (block.Block, bool) {
	b, ok := s.blocks[sequence]
	return b, ok
}

// Len returns the number of distinct blocks held.
func (s *Set) Len() int {
	return len(s.blocks)
}

// Dupes returns the number of insertions discarded because their
// sequence was already present.
func (s *Set) Dupes() int {
	return s.dupes
}

// Collisions returns the number of later insertions whose content
// differed from the first block stored under the same sequence. A
// sequence re-sent with different content twice counts twice.
func (s *Set) Collisions() int {
	return s.collided
}

// Sequences returns all stored sequence numbers in ascending order.
func (s *Set) Sequences() []uint32 {
	seqs := make([]uint32, 0, len(s.blocks))
	for seq := range s.blocks {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })

	return seqs
}

// Gaps reports sequence numbers missing between the minimum and maximum
// stored sequence, in ascending order. An empty or single-block set has
// no gaps.
func (s *Set) Gaps() []uint32 {
	seqs := s.Sequences()
	if len(seqs) < 2 {
		return nil
	}

	var gaps []uint32
	for n := seqs[0] + 1; n < seqs[len(seqs)-1]; n++ {
		if _, ok := s.blocks[n]; !ok {
			gaps = append(gaps, n)
		}
	}

	return gaps
}

// LoadFile reads every valid block from path and adds it to the set. It
// returns the number of newly added blocks and the number of dupes seen in
// this file specifically, plus any non-block read error: an I/O error, or
// an error wrapping errs.ErrTornTail when the file ends in a partial block
// (the blocks before it are still added). Malformed blocks (bad
// magic/kind) are skipped and not counted as errors.
func (s *Set) LoadFile(path string) (added, dupes int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	return s.LoadReader(f)
}

// LoadReader is the io.Reader-based counterpart of LoadFile.
func (s *Set) LoadReader(r io.Reader) (added, dupes int, err error) {
	results, readErr := block.ReadAll(r)
	for _, res := range results {
		if res.Err != nil {
			// Malformed block header: skip it entirely, not fatal.
			continue
		}
		if s.Add(res.Block) {
			added++
		} else {
			dupes++
		}
	}

	// ReadAll's error is returned as is, including a torn tail; callers
	// check errors.Is(err, errs.ErrTornTail) to treat it as a warning.
	return added, dupes, readErr
}

// Save serializes the set's blocks in ascending sequence order as
// concatenated raw block frames (header + payload, block.Size bytes
// each) to path.
func (s *Set) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, seq := range s.Sequences() {
		b := s.blocks[seq]
		if _, err := f.Write(b.Bytes()); err != nil {
			return fmt.Errorf("blockset: writing sequence %d: %w", seq, err)
		}
	}

	return nil
}
