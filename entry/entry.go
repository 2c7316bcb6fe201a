package entry

import (
	"fmt"

	"github.com/mikee47/datalog/endian"
	"github.com/mikee47/datalog/errs"
)

// Origin annotates an entry with the block and intra-block offset it was
// decoded from, for diagnostics.
type Origin struct {
	BlockSequence uint32
	Offset        int
}

// Entry is the tagged-variant interface implemented by every decoded
// entry kind, including Unknown.
type Entry interface {
	Kind() Kind
	Origin() Origin
}

// Unknown wraps the raw payload of an entry this module failed to parse
// as its declared kind (invalid UTF-8, short payload, or another
// malformed-structure condition). Decoding never aborts on this; it
// degrades to Unknown and continues.
type Unknown struct {
	Origin_ Origin
	RawKind Kind
	Payload []byte
	// Cause is the error that caused this entry to degrade to Unknown.
	Cause error
}

func (u *Unknown) Kind() Kind     { return u.RawKind }
func (u *Unknown) Origin() Origin { return u.Origin_ }

// PeekSize reads the declared payload byte count of the entry header at
// offset without constructing the entry, so a caller can reject an
// oversized declared size (decoder.WithMaxEntrySize) before Decode commits
// to reading it.
func PeekSize(payload []byte, offset int) (size int, ok bool) {
	if offset+4 > len(payload) {
		return 0, false
	}

	engine := endian.GetLittleEndianEngine()

	return int(engine.Uint16(payload[offset : offset+2])), true
}

// Decode reads one entry's common header at offset within payload and
// dispatches to the kind-specific constructor.
//
// It returns (nil, 0, nil) when the caller should stop parsing this block
// without error (a pad entry, an erased region, or simply running out of
// header bytes). It returns (nil, 0, err) when the caller should stop
// parsing this block because of corruption (entry flags neither
// committed nor erased, or a declared size that overruns the block). A
// malformed kind-specific payload never produces an error return: it
// yields a valid *Unknown entry with Cause set, and parsing continues
// normally with consumed > 0.
func Decode(payload []byte, offset int, blockSequence uint32) (Entry, int, error) {
	if offset+4 > len(payload) {
		return nil, 0, nil
	}

	engine := endian.GetLittleEndianEngine()
	size := engine.Uint16(payload[offset : offset+2])
	kind := Kind(payload[offset+2])
	flags := payload[offset+3]

	if kind == KindPad {
		return nil, 0, nil
	}

	// Erased flash reads as all 0xFF, so an erased header also declares
	// size 0xFFFF; check the flags before the size can overrun the block.
	if flags == FlagErased {
		return nil, 0, nil
	}

	origin := Origin{BlockSequence: blockSequence, Offset: offset}

	contentStart := offset + 4
	contentEnd := contentStart + int(size)
	if contentEnd > len(payload) {
		return nil, 0, fmt.Errorf("entry: block %#x offset %#x: %w", blockSequence, offset, errs.ErrShortEntry)
	}
	content := payload[contentStart:contentEnd]
	consumed := 4 + int(size)

	switch flags {
	case FlagCommitted:
		e, err := construct(kind, content, origin)
		if err != nil {
			e = &Unknown{Origin_: origin, RawKind: kind, Payload: content, Cause: err}
		}

		return e, consumed, nil
	default:
		return nil, 0, fmt.Errorf("entry: block %#x offset %#x: %w (flags %#x)", blockSequence, offset, errs.ErrCorruptEntry, flags)
	}
}

// construct dispatches to the kind-specific parser. An unrecognized kind
// (one with no constructor, but committed flags) is returned as Unknown
// with no error, same as the original tool's fall-through behavior.
func construct(kind Kind, content []byte, origin Origin) (Entry, error) {
	switch kind {
	case KindBoot:
		return decodeBoot(content, origin)
	case KindTime:
		return decodeTime(content, origin)
	case KindTable:
		return decodeTable(content, origin)
	case KindField:
		return decodeField(content, origin)
	case KindData:
		return decodeData(content, origin)
	case KindException:
		return decodeException(content, origin)
	case KindMap:
		return decodeMap(content, origin)
	default:
		return &Unknown{Origin_: origin, RawKind: kind, Payload: content}, nil
	}
}
