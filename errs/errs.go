// Package errs holds the sentinel errors shared by the datalog packages.
//
// Callers should compare against these with errors.Is; functions that need
// to add context wrap them with fmt.Errorf("...: %w", ...).
package errs

import "errors"

var (
	// ErrInvalidBlockMagic is returned when a block's magic number does not
	// match the expected constant.
	ErrInvalidBlockMagic = errors.New("datalog: invalid block magic")
	// ErrInvalidBlockKind is returned when a block's kind tag is not the
	// block sentinel kind.
	ErrInvalidBlockKind = errors.New("datalog: invalid block kind")
	// ErrTornTail is a warning-level condition: the input length is not a
	// multiple of the block size.
	ErrTornTail = errors.New("datalog: file size is not a multiple of block size")

	// ErrCorruptEntry is returned when an entry's flags byte is neither the
	// committed nor the erased sentinel.
	ErrCorruptEntry = errors.New("datalog: corrupt entry flags")
	// ErrShortEntry is returned when a block does not have enough remaining
	// bytes to hold the entry's declared size.
	ErrShortEntry = errors.New("datalog: entry payload truncated")

	// ErrZeroFieldSize is returned when a field entry declares size 0.
	ErrZeroFieldSize = errors.New("datalog: field element size is zero")
	// ErrUnknownFieldType is returned when a (type, size) pair has no wire
	// format mapping.
	ErrUnknownFieldType = errors.New("datalog: unknown field type/size combination")

	// ErrMissingSequence reports a gap between loaded block sequence numbers.
	ErrMissingSequence = errors.New("datalog: missing block sequence")

	// ErrSnapshotVersion is returned when a persisted context document has an
	// unrecognized schema version.
	ErrSnapshotVersion = errors.New("datalog: unsupported snapshot version")

	// ErrTableNotFound is returned when a data entry references a table id
	// that has never been registered in this session.
	ErrTableNotFound = errors.New("datalog: table not found")
	// ErrFieldNotFound is returned when the requested field id is not part
	// of a table's layout.
	ErrFieldNotFound = errors.New("datalog: field not found")
)
