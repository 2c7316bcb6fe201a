package decoder

// DiagnosticKind classifies a non-fatal condition observed while
// decoding.
type DiagnosticKind int

const (
	DiagMalformedEntry DiagnosticKind = iota
	DiagCorruptRegion
	DiagMissingSequence
	// DiagTrace reports the kind and size of every entry as it is decoded.
	// It is only emitted when the session was built with
	// WithTraceVerbosity, the structured equivalent of the running
	// hex-offset trace the original tool printed unconditionally.
	DiagTrace
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagMalformedEntry:
		return "malformed-entry"
	case DiagCorruptRegion:
		return "corrupt-region"
	case DiagMissingSequence:
		return "missing-sequence"
	case DiagTrace:
		return "trace"
	default:
		return "unknown"
	}
}

// Diagnostic is a single non-fatal event recorded during decoding. The
// decoder never aborts on these; it degrades gracefully and keeps a
// structured trail instead of writing to a logger deep in the call
// stack.
type Diagnostic struct {
	Kind          DiagnosticKind
	BlockSequence uint32
	Offset        int
	Err           error
}
