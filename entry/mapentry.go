package entry

import (
	"fmt"

	"github.com/mikee47/datalog/endian"
)

// Map is the device's view of the log extents it believes it has
// written: an array of block sequence numbers. Consumed opaquely; the
// decoder does not interpret it.
type Map struct {
	Origin_   Origin
	Sequences []uint32
}

func (m *Map) Kind() Kind     { return KindMap }
func (m *Map) Origin() Origin { return m.Origin_ }

func decodeMap(content []byte, origin Origin) (Entry, error) {
	if len(content)%4 != 0 {
		return nil, fmt.Errorf("map: payload not a whole number of u32 words (%d bytes)", len(content))
	}

	engine := endian.GetLittleEndianEngine()
	seqs := make([]uint32, len(content)/4)
	for i := range seqs {
		seqs[i] = engine.Uint32(content[i*4 : i*4+4])
	}

	return &Map{Origin_: origin, Sequences: seqs}, nil
}
