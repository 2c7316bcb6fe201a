package decoder

import (
	"fmt"

	"github.com/mikee47/datalog/endian"
	"github.com/mikee47/datalog/internal/options"
)

// Option configures a Session at construction time.
type Option = options.Option[*Session]

// WithDiagnosticSink registers a callback invoked synchronously for
// every Diagnostic recorded during decoding, in addition to it being
// appended to Session.Diagnostics.
func WithDiagnosticSink(sink func(Diagnostic)) Option {
	return options.NoError(func(s *Session) {
		s.diagnosticSink = sink
	})
}

// WithByteOrder overrides the engine used to decode multi-byte fields.
// The default is little-endian; this is an escape hatch for
// non-conformant producers, not part of the canonical format.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.NoError(func(s *Session) {
		s.byteOrder = engine
	})
}

// WithTraceVerbosity emits a DiagTrace diagnostic for every entry as it
// is decoded, reporting its kind, origin and size. It is off by default
// since a full trace is too verbose for routine decoding.
func WithTraceVerbosity(enabled bool) Option {
	return options.NoError(func(s *Session) {
		s.traceVerbosity = enabled
	})
}

// WithMaxEntrySize rejects entries declaring a payload larger than max,
// treating them as corrupt rather than trusting an attacker- or
// corruption-controlled size field to drive an oversized allocation.
func WithMaxEntrySize(max int) Option {
	return options.New(func(s *Session) error {
		if max <= 0 {
			return fmt.Errorf("decoder: WithMaxEntrySize: max must be positive, got %d", max)
		}
		s.maxEntrySize = max

		return nil
	})
}
