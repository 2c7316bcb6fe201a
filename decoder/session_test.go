package decoder

import (
	"math"
	"testing"

	"github.com/mikee47/datalog/block"
	"github.com/mikee47/datalog/endian"
	"github.com/mikee47/datalog/entry"
	"github.com/stretchr/testify/require"
)

func appendEntry(buf []byte, kind entry.Kind, flags byte, content []byte) []byte {
	header := []byte{byte(len(content)), byte(len(content) >> 8), byte(kind), flags}
	buf = append(buf, header...)
	buf = append(buf, content...)
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}

	return buf
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	endian.GetLittleEndianEngine().PutUint32(b, v)
	return b
}

func u16le(v uint16) []byte {
	b := make([]byte, 2)
	endian.GetLittleEndianEngine().PutUint16(b, v)
	return b
}

func f32le(v float32) []byte {
	return u32le(math.Float32bits(v))
}

func testBlock(sequence uint32, payload []byte) block.Block {
	full := make([]byte, block.PayloadSize)
	copy(full, payload)
	return block.Block{Sequence: sequence, Flags: 0, Payload: full}
}

func TestSessionMinimalSession(t *testing.T) {
	var p []byte
	p = appendEntry(p, entry.KindBoot, entry.FlagCommitted, []byte{byte(entry.ReasonDefault)})
	p = appendEntry(p, entry.KindTime, entry.FlagCommitted, append(u32le(1000), u32le(1_700_000_000)...))
	p = appendEntry(p, entry.KindTable, entry.FlagCommitted, append(u16le(1), "sensor"...))
	p = appendEntry(p, entry.KindField, entry.FlagCommitted, append([]byte{0, 0, byte(entry.Float), 4}, "t"...))
	dataContent := append(u32le(1500), append(u16le(1), append(u16le(0), f32le(23.5)...)...)...)
	p = appendEntry(p, entry.KindData, entry.FlagCommitted, dataContent)

	s, err := NewSession()
	require.NoError(t, err)
	s.LoadBlock(testBlock(0, p))

	out := s.Output()
	require.Len(t, out, 5)

	boot := out[0].(*entry.Boot)
	require.True(t, boot.HasUTC)
	require.InDelta(t, 1_700_000_000-1.0, boot.UTC, 1e-9)

	data := out[4].(*entry.Data)
	utc, ok := data.UTC()
	require.True(t, ok)
	require.InDelta(t, 1_700_000_000.5, utc, 1e-9)
	require.NotNil(t, data.Table)
	require.Equal(t, "sensor", data.Table.Name)
}

func TestSessionBackfill(t *testing.T) {
	const U = 1_700_050_000

	var p []byte
	p = appendEntry(p, entry.KindBoot, entry.FlagCommitted, []byte{byte(entry.ReasonDefault)})
	p = appendEntry(p, entry.KindData, entry.FlagCommitted, append(u32le(500), append(u16le(0), u16le(0)...)...))
	p = appendEntry(p, entry.KindTime, entry.FlagCommitted, append(u32le(1000), u32le(U)...))
	p = appendEntry(p, entry.KindData, entry.FlagCommitted, append(u32le(1500), append(u16le(0), u16le(0)...)...))

	s, err := NewSession()
	require.NoError(t, err)
	s.LoadBlock(testBlock(0, p))

	out := s.Output()
	first := out[1].(*entry.Data)
	second := out[3].(*entry.Data)

	u1, ok := first.UTC()
	require.True(t, ok)
	require.InDelta(t, float64(U)-0.5, u1, 1e-9)

	u2, ok := second.UTC()
	require.True(t, ok)
	require.InDelta(t, float64(U)+0.5, u2, 1e-9)
}

func TestSessionWrapCompensation(t *testing.T) {
	var p []byte
	p = appendEntry(p, entry.KindData, entry.FlagCommitted, append(u32le(0xFFFF_F000), append(u16le(0), u16le(0)...)...))
	p = appendEntry(p, entry.KindData, entry.FlagCommitted, append(u32le(0x0000_1000), append(u16le(0), u16le(0)...)...))

	s, err := NewSession()
	require.NoError(t, err)
	s.LoadBlock(testBlock(0, p))

	out := s.Output()
	first := out[0].(*entry.Data)
	second := out[1].(*entry.Data)

	require.Greater(t, second.CorrectedSystemTime, first.CorrectedSystemTime)
}

func TestSessionCorruptEntryStopsBlockButNotNextBlock(t *testing.T) {
	var p []byte
	p = appendEntry(p, entry.KindBoot, entry.FlagCommitted, []byte{byte(entry.ReasonDefault)})
	corruptOffset := len(p)
	// Hand-craft a corrupt entry (flags neither committed nor erased).
	p = append(p, 1, 0, byte(entry.KindBoot), 0x55)
	p = append(p, 0) // pad to 4-byte alignment

	s, err := NewSession()
	require.NoError(t, err)
	s.LoadBlock(testBlock(1, p))
	require.Len(t, s.Output(), 1, "only the entry before the corrupt one is retained")
	require.NotEmpty(t, s.Warnings)
	_ = corruptOffset

	var p2 []byte
	p2 = appendEntry(p2, entry.KindBoot, entry.FlagCommitted, []byte{byte(entry.ReasonDefault)})
	s.LoadBlock(testBlock(2, p2))
	require.Len(t, s.Output(), 2, "the next block parses normally")
}

func TestSessionBootResetsSchema(t *testing.T) {
	var p []byte
	p = appendEntry(p, entry.KindTable, entry.FlagCommitted, append(u16le(1), "sensor"...))
	p = appendEntry(p, entry.KindBoot, entry.FlagCommitted, []byte{byte(entry.ReasonWDT)})

	s, err := NewSession()
	require.NoError(t, err)
	s.LoadBlock(testBlock(0, p))

	_, ok := s.Registry().Table(1)
	require.False(t, ok, "boot clears the table registry")
}

func TestSessionBootDoesNotInheritPriorSessionAnchor(t *testing.T) {
	var p []byte
	p = appendEntry(p, entry.KindBoot, entry.FlagCommitted, []byte{byte(entry.ReasonDefault)})
	p = appendEntry(p, entry.KindTime, entry.FlagCommitted, append(u32le(1000), u32le(1_700_000_000)...))
	// A second boot, still in the same session's anchor scope, followed by
	// a later time entry with an unrelated clock rate.
	p = appendEntry(p, entry.KindBoot, entry.FlagCommitted, []byte{byte(entry.ReasonWDT)})
	p = appendEntry(p, entry.KindTime, entry.FlagCommitted, append(u32le(5000), u32le(1_800_000_000)...))

	s, err := NewSession()
	require.NoError(t, err)
	s.LoadBlock(testBlock(0, p))

	out := s.Output()
	secondBoot := out[2].(*entry.Boot)
	require.True(t, secondBoot.HasUTC)
	require.InDelta(t, 1_800_000_000-5.0, secondBoot.UTC, 1e-9,
		"boot UTC must come from the following session's anchor, never the prior one")
}

func TestSessionIgnoresOlderBlock(t *testing.T) {
	var p []byte
	p = appendEntry(p, entry.KindBoot, entry.FlagCommitted, []byte{byte(entry.ReasonDefault)})

	s, err := NewSession()
	require.NoError(t, err)
	s.LoadBlock(testBlock(5, p))
	s.LoadBlock(testBlock(3, p))
	require.Len(t, s.Output(), 1, "a block older than the last loaded sequence is ignored")
}

func TestSessionResumesGrowingBlock(t *testing.T) {
	var p []byte
	p = appendEntry(p, entry.KindBoot, entry.FlagCommitted, []byte{byte(entry.ReasonDefault)})

	s, err := NewSession()
	require.NoError(t, err)
	s.LoadBlock(testBlock(0, p))
	require.Len(t, s.Output(), 1)

	p = appendEntry(p, entry.KindBoot, entry.FlagCommitted, []byte{byte(entry.ReasonWDT)})
	s.LoadBlock(testBlock(0, p))
	require.Len(t, s.Output(), 2, "resumes from the recorded offset instead of re-decoding")
}
