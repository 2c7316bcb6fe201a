package compress

import "fmt"

// Type identifies a compression algorithm usable for archival sidecar
// output produced by the compactor (see the compact package).
type Type uint8

const (
	None Type = iota + 1
	Zstd
	S2
	LZ4
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Compressor compresses a byte payload. The input slice is never modified;
// the result may share memory with it (NoOpCompressor returns the input
// slice itself).
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor's transform.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of a compression algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory that returns a Codec for the named algorithm.
func CreateCodec(t Type) (Codec, error) {
	switch t {
	case None:
		return NewNoOpCompressor(), nil
	case Zstd:
		return NewZstdCompressor(), nil
	case S2:
		return NewS2Compressor(), nil
	case LZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("compress: unknown compression type %v", t)
	}
}
