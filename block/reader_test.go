package block

import (
	"bytes"
	"testing"

	"github.com/mikee47/datalog/errs"
	"github.com/stretchr/testify/require"
)

func TestReadAllValidBlocks(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(buildFrame(0, Kind, Magic, nil))
	buf.Write(buildFrame(1, Kind, Magic, nil))

	results, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.Equal(t, uint32(0), results[0].Block.Sequence)
	require.Equal(t, uint32(1), results[1].Block.Sequence)
}

func TestReadAllSkipsMalformedButContinues(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(buildFrame(0, Kind, Magic, nil))
	buf.Write(buildFrame(1, Kind, 0xbadc0de, nil)) // bad magic
	buf.Write(buildFrame(2, Kind, Magic, nil))

	results, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, errs.ErrInvalidBlockMagic)
	require.NoError(t, results[2].Err)
}

func TestReadAllTornTail(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(buildFrame(0, Kind, Magic, nil))
	buf.Write(make([]byte, 100)) // partial trailing chunk

	results, err := ReadAll(&buf)
	require.ErrorIs(t, err, errs.ErrTornTail)
	require.Len(t, results, 1)
}

func TestReadAllDoesNotAliasBuffers(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(buildFrame(0, Kind, Magic, []byte{0x01}))
	buf.Write(buildFrame(1, Kind, Magic, []byte{0x02}))

	results, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Equal(t, byte(0x01), results[0].Block.Payload[0])
	require.Equal(t, byte(0x02), results[1].Block.Payload[0])
}
