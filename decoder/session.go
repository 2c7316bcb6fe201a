// Package decoder implements the top-level state machine that walks
// blocks, feeds entries into the entry parser, updates schema and time
// state, and emits a chronologically ordered entry stream.
package decoder

import (
	"fmt"

	"github.com/mikee47/datalog/block"
	"github.com/mikee47/datalog/blockset"
	"github.com/mikee47/datalog/endian"
	"github.com/mikee47/datalog/entry"
	"github.com/mikee47/datalog/fieldval"
	"github.com/mikee47/datalog/internal/options"
	"github.com/mikee47/datalog/schema"
	"github.com/mikee47/datalog/timeref"
)

// Session is the per-decoder decode context. A Session is owned by a
// single caller and must not be used concurrently.
type Session struct {
	registry *schema.Registry
	tracker  *timeref.Tracker
	anchor   *timeref.Anchor

	output          []entry.Entry
	firstUnanchored int

	hasLastBlock      bool
	lastBlockSequence uint32
	lastBlockLength   int

	byteOrder      endian.EndianEngine
	maxEntrySize   int
	diagnosticSink func(Diagnostic)
	traceVerbosity bool

	// Warnings accumulates non-fatal diagnostics: corrupt regions,
	// missing sequences, and entries that degraded to Unknown.
	Warnings []error
	// Diagnostics accumulates the same events as Warnings in structured
	// form, plus a DiagTrace entry per decoded entry when the session was
	// built with WithTraceVerbosity(true).
	Diagnostics []Diagnostic
}

// NewSession returns an empty decode session configured by opts. The
// default byte order is little-endian; there is no default entry-size
// limit.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{
		registry:  schema.NewRegistry(),
		tracker:   timeref.NewTracker(),
		byteOrder: endian.GetLittleEndianEngine(),
	}

	if err := options.Apply(s, opts...); err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}

	return s, nil
}

// recordDiagnostic appends a structured Diagnostic and forwards it to
// the diagnostic sink, if one was installed with WithDiagnosticSink.
// Every kind except DiagTrace also gets its flattened error form
// appended to Warnings; a trace entry is routine, not a warning.
func (s *Session) recordDiagnostic(kind DiagnosticKind, blockSequence uint32, offset int, err error) {
	d := Diagnostic{Kind: kind, BlockSequence: blockSequence, Offset: offset, Err: err}
	s.Diagnostics = append(s.Diagnostics, d)
	if kind != DiagTrace {
		s.Warnings = append(s.Warnings, err)
	}
	if s.diagnosticSink != nil {
		s.diagnosticSink(d)
	}
}

// FieldValue decodes the value of field f within data's payload, using
// the session's configured byte order (see WithByteOrder).
func (s *Session) FieldValue(data *entry.Data, f *entry.Field) (any, error) {
	return fieldval.Value(s.byteOrder, data.Payload, data.Table, f)
}

// Output returns the entries emitted so far, in the order they were
// decoded. The backing slice is owned by the session; anchors on data
// entries may still be mutated in place by later back-fill passes.
func (s *Session) Output() []entry.Entry {
	return s.output
}

// Registry exposes the session's schema registry for inspection
// (persistence, diagnostics).
func (s *Session) Registry() *schema.Registry {
	return s.registry
}

// LoadBlock feeds one physical block into the session. A block older
// than the last-loaded sequence is ignored. A block equal to the
// last-loaded sequence resumes parsing from the previously recorded
// intra-block offset, supporting incremental decoding as a block grows.
func (s *Session) LoadBlock(b block.Block) {
	offset := 0
	if s.hasLastBlock {
		if b.Sequence < s.lastBlockSequence {
			return
		}
		if b.Sequence == s.lastBlockSequence {
			offset = s.lastBlockLength
		}
	}

	for {
		if s.maxEntrySize > 0 {
			if sz, ok := entry.PeekSize(b.Payload, offset); ok && sz > s.maxEntrySize {
				s.recordDiagnostic(DiagCorruptRegion, b.Sequence, offset,
					fmt.Errorf("decoder: block %#x offset %#x: declared size %d exceeds max %d", b.Sequence, offset, sz, s.maxEntrySize))
				break
			}
		}

		e, consumed, err := entry.Decode(b.Payload, offset, b.Sequence)
		if err != nil {
			s.recordDiagnostic(DiagCorruptRegion, b.Sequence, offset, err)
			break
		}
		if e == nil && consumed == 0 {
			break
		}

		if u, ok := e.(*entry.Unknown); ok && u.Cause != nil {
			s.recordDiagnostic(DiagMalformedEntry, b.Sequence, offset, u.Cause)
		}

		if s.traceVerbosity {
			s.recordDiagnostic(DiagTrace, b.Sequence, offset,
				fmt.Errorf("decoder: block %#x offset %#x: kind=%s size=%d", b.Sequence, offset, e.Kind(), consumed))
		}

		s.handle(e)
		offset += entry.AlignUp4(consumed)
	}

	s.hasLastBlock = true
	s.lastBlockSequence = b.Sequence
	s.lastBlockLength = offset
}

// DecodeAll loads every block in set, in ascending sequence order. Gaps
// are reported as warnings but do not stop decoding.
func (s *Session) DecodeAll(set *blockset.Set) {
	sequences := set.Sequences()
	for _, gap := range set.Gaps() {
		s.recordDiagnostic(DiagMissingSequence, gap, 0, missingSequenceError(gap))
	}

	for _, seq := range sequences {
		b, ok := set.Get(seq)
		if !ok {
			continue
		}
		s.LoadBlock(b)
	}
}

func (s *Session) handle(e entry.Entry) {
	switch v := e.(type) {
	case *entry.Boot:
		idx := len(s.output)
		s.output = append(s.output, v)
		s.reset()
		s.firstUnanchored = idx

	case *entry.Time:
		corrected := s.tracker.CheckTime(v.SystemTime)
		s.anchor = &timeref.Anchor{CorrectedSystemTime: corrected, UTC: v.UTC}
		s.output = append(s.output, v)
		s.backfill()

	case *entry.Table:
		s.registry.RegisterTable(v)
		s.output = append(s.output, v)

	case *entry.Field:
		s.registry.RegisterField(v)
		s.output = append(s.output, v)

	case *entry.Data:
		v.CorrectedSystemTime = s.tracker.CheckTime(v.SystemTime)
		if tbl, ok := s.registry.Table(v.TableID); ok {
			v.Table = tbl
		}
		if s.anchor != nil {
			v.Anchor = s.anchor
		}
		s.output = append(s.output, v)

	case *entry.Exception:
		if s.anchor != nil {
			v.UTC = s.anchor.GetUTC(0)
			v.HasUTC = true
		}
		s.output = append(s.output, v)

	case *entry.Unknown:
		s.output = append(s.output, v)

	default:
		s.output = append(s.output, e)
	}
}

// backfill assigns the current anchor to every entry in
// [firstUnanchored, len(output)) that does not yet have one, then
// advances firstUnanchored past them.
func (s *Session) backfill() {
	for i := s.firstUnanchored; i < len(s.output); i++ {
		switch v := s.output[i].(type) {
		case *entry.Data:
			if v.Anchor == nil {
				v.Anchor = s.anchor
			}
		case *entry.Boot:
			if !v.HasUTC {
				v.UTC = s.anchor.GetUTC(0)
				v.HasUTC = true
			}
		case *entry.Exception:
			if !v.HasUTC {
				v.UTC = s.anchor.GetUTC(0)
				v.HasUTC = true
			}
		}
	}

	s.firstUnanchored = len(s.output)
}

// reset clears table registry, current table, anchor and wrap state.
// Called on every boot entry.
func (s *Session) reset() {
	s.registry.Reset()
	s.tracker.Reset()
	s.anchor = nil
}
