package fieldval

import (
	"testing"

	"github.com/mikee47/datalog/entry"
	"github.com/stretchr/testify/require"
)

func TestWireCodeKnownCombinations(t *testing.T) {
	cases := []struct {
		t        entry.FieldType
		size     uint8
		wantCode string
		wantSQL  string
	}{
		{entry.Float, 4, "f", "REAL"},
		{entry.Float, 8, "d", "DOUBLE"},
		{entry.Unsigned, 1, "B", "TINYINT"},
		{entry.Unsigned, 8, "Q", "BIGINT"},
		{entry.Signed, 4, "i", "INT"},
		{entry.Char, 1, "s", "TEXT"},
	}

	for _, c := range cases {
		code, sql, ok := WireCode(c.t, c.size)
		require.True(t, ok)
		require.Equal(t, c.wantCode, code)
		require.Equal(t, c.wantSQL, sql)
	}
}

func TestWireCodeUnmapped(t *testing.T) {
	_, _, ok := WireCode(entry.Unsigned, 3)
	require.False(t, ok)
}
