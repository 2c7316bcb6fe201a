package entry

import (
	"fmt"

	"github.com/mikee47/datalog/endian"
	"github.com/mikee47/datalog/timeref"
)

// Data is a measurement record. Table and Anchor are resolved by the
// decoder driver, not by decodeData: a data entry may arrive before its
// table is declared (Table stays nil) or before any time anchor exists
// (Anchor stays nil until back-fill assigns one).
type Data struct {
	Origin_ Origin

	SystemTime uint32
	// CorrectedSystemTime is SystemTime after wrap compensation
	// (timeref.Tracker.CheckTime), set by the decoder driver.
	CorrectedSystemTime int64

	TableID  uint16
	Reserved uint16
	Payload  []byte

	Table  *Table
	Anchor *timeref.Anchor
}

func (d *Data) Kind() Kind     { return KindData }
func (d *Data) Origin() Origin { return d.Origin_ }

// UTC reports the reconstructed absolute timestamp and whether an anchor
// has been bound yet.
func (d *Data) UTC() (utc float64, ok bool) {
	if d.Anchor == nil {
		return 0, false
	}

	return d.Anchor.GetUTC(d.CorrectedSystemTime), true
}

func decodeData(content []byte, origin Origin) (Entry, error) {
	if len(content) < 8 {
		return nil, fmt.Errorf("data: payload too short (%d bytes)", len(content))
	}

	engine := endian.GetLittleEndianEngine()

	return &Data{
		Origin_:    origin,
		SystemTime: engine.Uint32(content[0:4]),
		TableID:    engine.Uint16(content[4:6]),
		Reserved:   engine.Uint16(content[6:8]),
		Payload:    content[8:],
	}, nil
}
