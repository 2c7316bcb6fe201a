package entry

import (
	"fmt"

	"github.com/mikee47/datalog/endian"
)

// Time is a time-synchronization anchor: a device system-time reading
// (ms) paired with the absolute UTC second it corresponds to. Decoding a
// Time entry installs it as the session's current anchor and triggers a
// back-fill pass over recently buffered entries.
type Time struct {
	Origin_    Origin
	SystemTime uint32
	UTC        uint32
}

func (t *Time) Kind() Kind     { return KindTime }
func (t *Time) Origin() Origin { return t.Origin_ }

func decodeTime(content []byte, origin Origin) (Entry, error) {
	if len(content) < 8 {
		return nil, fmt.Errorf("time: payload too short (%d bytes)", len(content))
	}

	engine := endian.GetLittleEndianEngine()

	return &Time{
		Origin_:    origin,
		SystemTime: engine.Uint32(content[0:4]),
		UTC:        engine.Uint32(content[4:8]),
	}, nil
}
