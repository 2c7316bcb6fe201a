// Package block slices a byte source into fixed-size physical blocks and
// validates them.
//
// A block is the unit the producer erases and rewrites on flash; its
// payload holds a run of type-tagged entries decoded by the entry
// package.
package block

import (
	"fmt"

	"github.com/mikee47/datalog/endian"
	"github.com/mikee47/datalog/errs"
)

const (
	// Size is the fixed physical block size in bytes.
	Size = 16384
	// HeaderSize is the size in bytes of the block header preceding the
	// entry payload.
	HeaderSize = 12
	// PayloadSize is the number of payload bytes in a full block.
	PayloadSize = Size - HeaderSize
	// Kind is the sentinel kind tag a valid block header must carry.
	Kind = 1
	// Magic is the fixed magic constant identifying a valid block header.
	Magic uint32 = 0xA78BE044
)

// Block is a validated, fixed-size physical unit read from a log file.
type Block struct {
	// Sequence is the monotonically assigned sequence number of this
	// block, as produced by the device.
	Sequence uint32
	// Flags is the block-level flags byte. Its meaning is producer-defined
	// and not otherwise interpreted by the decoder.
	Flags uint8
	// FirstEntrySize is the raw 16-bit "entry size" field at header offset
	// 0. It participates in the producer's definition of a "full" block
	// (see IsFull) but is not needed to walk the payload, since entries
	// are self-delimiting.
	FirstEntrySize uint16
	// Payload holds the entry stream for this block. It shares the
	// backing array passed to Parse and must not outlive it.
	Payload []byte
}

// IsFull reports whether the block satisfies the producer's definition of
// a fully written block: 4 + FirstEntrySize + len(Payload) == Size.
func (b Block) IsFull() bool {
	return 4+int(b.FirstEntrySize)+len(b.Payload) == Size
}

// Bytes serializes the block back into a Size-byte frame, inverse of
// Parse. The returned slice is newly allocated.
func (b Block) Bytes() []byte {
	frame := make([]byte, Size)
	engine := endian.GetLittleEndianEngine()

	engine.PutUint16(frame[0:2], b.FirstEntrySize)
	frame[2] = Kind
	frame[3] = b.Flags
	engine.PutUint32(frame[4:8], Magic)
	engine.PutUint32(frame[8:12], b.Sequence)
	copy(frame[HeaderSize:], b.Payload)

	return frame
}

// Parse validates and decodes a block header plus payload from a
// Size-byte frame. It returns errs.ErrInvalidBlockMagic or
// errs.ErrInvalidBlockKind if the frame is not a valid block.
func Parse(frame []byte) (Block, error) {
	if len(frame) != Size {
		return Block{}, fmt.Errorf("block: frame is %d bytes, want %d", len(frame), Size)
	}

	engine := endian.GetLittleEndianEngine()

	entrySize := engine.Uint16(frame[0:2])
	kind := frame[2]
	flags := frame[3]
	magic := engine.Uint32(frame[4:8])
	sequence := engine.Uint32(frame[8:12])

	if magic != Magic {
		return Block{}, fmt.Errorf("block: sequence %#x: %w", sequence, errs.ErrInvalidBlockMagic)
	}
	if kind != Kind {
		return Block{}, fmt.Errorf("block: sequence %#x: %w", sequence, errs.ErrInvalidBlockKind)
	}

	return Block{
		Sequence:       sequence,
		Flags:          flags,
		FirstEntrySize: entrySize,
		Payload:        frame[HeaderSize:],
	}, nil
}
