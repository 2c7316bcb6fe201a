package dump

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mikee47/datalog/entry"
)

func TestWriteEntryBoot(t *testing.T) {
	var buf bytes.Buffer
	b := &entry.Boot{Reason: entry.ReasonWDT, HasUTC: true, UTC: 1700000000.25}

	require.NoError(t, WriteEntry(&buf, b))
	require.Equal(t, "[boot] reason=wdt utc=1700000000.250\n", buf.String())
}

func TestWriteEntryBootWithoutUTC(t *testing.T) {
	var buf bytes.Buffer
	b := &entry.Boot{Reason: entry.ReasonDefault}

	require.NoError(t, WriteEntry(&buf, b))
	require.Equal(t, "[boot] reason=default utc=?\n", buf.String())
}

func TestWriteEntryDataRoundsFloatsForDisplay(t *testing.T) {
	table := &entry.Table{ID: 1, Name: "sensor"}
	field := &entry.Field{ID: 0, Name: "t", Type: entry.Float, Size: 4, Offset: 0, Table: table}
	table.Fields = append(table.Fields, field)
	table.FieldDataSize = 4

	d := &entry.Data{
		TableID: 1,
		Table:   table,
		Payload: []byte{0x00, 0x00, 0xbc, 0x41}, // float32(23.5) little-endian
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEntry(&buf, d))
	require.Equal(t, "[data] table=1 utc=? t=23.500\n", buf.String())
}

func TestWriteEntryUnknown(t *testing.T) {
	var buf bytes.Buffer
	u := &entry.Unknown{RawKind: entry.KindField, Payload: []byte{1, 2, 3}}

	require.NoError(t, WriteEntry(&buf, u))
	require.Equal(t, "[unknown] kind=field bytes=3 cause=<nil>\n", buf.String())
}
