package entry

import (
	"fmt"

	"github.com/mikee47/datalog/endian"
)

// Exception is a crash snapshot: the CPU register file at the fault and
// the call stack leading to it. Like Boot, it has no system-time reading
// of its own; back-fill assigns it UTC = anchor.GetUTC(0) once an anchor
// becomes available, the same as a boot entry.
type Exception struct {
	Origin_ Origin

	Cause    uint32
	EPC1     uint32
	EPC2     uint32
	EPC3     uint32
	ExcVAddr uint32
	DEPC     uint32
	Stack    []uint32

	HasUTC bool
	UTC    float64
}

func (e *Exception) Kind() Kind     { return KindException }
func (e *Exception) Origin() Origin { return e.Origin_ }

func decodeException(content []byte, origin Origin) (Entry, error) {
	const headerWords = 6
	if len(content) < headerWords*4 {
		return nil, fmt.Errorf("exception: payload too short (%d bytes)", len(content))
	}
	if len(content)%4 != 0 {
		return nil, fmt.Errorf("exception: payload not a whole number of u32 words (%d bytes)", len(content))
	}

	engine := endian.GetLittleEndianEngine()
	e := &Exception{
		Origin_:  origin,
		Cause:    engine.Uint32(content[0:4]),
		EPC1:     engine.Uint32(content[4:8]),
		EPC2:     engine.Uint32(content[8:12]),
		EPC3:     engine.Uint32(content[12:16]),
		ExcVAddr: engine.Uint32(content[16:20]),
		DEPC:     engine.Uint32(content[20:24]),
	}

	stackBytes := content[headerWords*4:]
	e.Stack = make([]uint32, len(stackBytes)/4)
	for i := range e.Stack {
		e.Stack[i] = engine.Uint32(stackBytes[i*4 : i*4+4])
	}

	return e, nil
}
