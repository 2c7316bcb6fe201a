package compress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateCodec(t *testing.T) {
	cases := []struct {
		name string
		typ  Type
	}{
		{"none", None},
		{"zstd", Zstd},
		{"s2", S2},
		{"lz4", LZ4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			codec, err := CreateCodec(tc.typ)
			require.NoError(t, err)
			require.NotNil(t, codec)
		})
	}
}

func TestCreateCodecUnknown(t *testing.T) {
	_, err := CreateCodec(Type(0xFF))
	require.Error(t, err)
}

func TestCodecRoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog, repeated: the quick brown fox jumps over the lazy dog")

	for _, typ := range []Type{None, Zstd, S2, LZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := CreateCodec(typ)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, decompressed)
		})
	}
}

func TestCodecRoundTripEmpty(t *testing.T) {
	for _, typ := range []Type{None, Zstd, S2, LZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := CreateCodec(typ)
			require.NoError(t, err)

			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}
