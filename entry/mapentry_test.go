package entry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeMap(t *testing.T) {
	content := []byte{1, 0, 0, 0, 2, 0, 0, 0}
	e, err := decodeMap(content, Origin{})
	require.NoError(t, err)

	m := e.(*Map)
	require.Equal(t, []uint32{1, 2}, m.Sequences)
}

func TestDecodeMapRejectsMisalignedPayload(t *testing.T) {
	_, err := decodeMap([]byte{1, 2, 3}, Origin{})
	require.Error(t, err)
}

func TestDecodeMapEmpty(t *testing.T) {
	e, err := decodeMap(nil, Origin{})
	require.NoError(t, err)
	require.Empty(t, e.(*Map).Sequences)
}
