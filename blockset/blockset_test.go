package blockset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikee47/datalog/block"
	"github.com/mikee47/datalog/endian"
	"github.com/stretchr/testify/require"
)

func frame(sequence uint32, firstByte byte) []byte {
	engine := endian.GetLittleEndianEngine()
	f := make([]byte, block.Size)
	engine.PutUint32(f[4:8], block.Magic)
	f[2] = block.Kind
	engine.PutUint32(f[8:12], sequence)
	f[block.HeaderSize] = firstByte

	return f
}

func TestAddDedup(t *testing.T) {
	s := New()
	b, err := block.Parse(frame(5, 0xAA))
	require.NoError(t, err)

	require.True(t, s.Add(b))
	require.False(t, s.Add(b))
	require.Equal(t, 1, s.Len())
	require.Equal(t, 1, s.Dupes())
}

func TestAddKeepsFirstContentOnCollision(t *testing.T) {
	s := New()
	first, _ := block.Parse(frame(5, 0xAA))
	second, _ := block.Parse(frame(5, 0xBB))

	require.True(t, s.Add(first))
	require.False(t, s.Add(second))
	require.Equal(t, 1, s.Collisions())

	got, ok := s.Get(5)
	require.True(t, ok)
	require.Equal(t, byte(0xAA), got.Payload[0], "content served equals whichever was inserted first")
}

func TestGaps(t *testing.T) {
	s := New()
	for _, seq := range []uint32{0, 1, 3, 5} {
		b, _ := block.Parse(frame(seq, 0))
		s.Add(b)
	}

	require.Equal(t, []uint32{2, 4}, s.Gaps())
}

func TestGapsEmptyOrSingle(t *testing.T) {
	s := New()
	require.Nil(t, s.Gaps())

	b, _ := block.Parse(frame(0, 0))
	s.Add(b)
	require.Nil(t, s.Gaps())
}

func TestLoadReaderDedupAcrossFiles(t *testing.T) {
	s := New()

	var file1 bytes.Buffer
	file1.Write(frame(0, 1))
	file1.Write(frame(1, 1))

	var file2 bytes.Buffer
	file2.Write(frame(1, 1)) // duplicate of file1's sequence 1
	file2.Write(frame(2, 1))

	added1, dupes1, err := s.LoadReader(&file1)
	require.NoError(t, err)
	require.Equal(t, 2, added1)
	require.Equal(t, 0, dupes1)

	added2, dupes2, err := s.LoadReader(&file2)
	require.NoError(t, err)
	require.Equal(t, 1, added2)
	require.Equal(t, 1, dupes2)

	require.Equal(t, 3, s.Len())
	require.Equal(t, 1, s.Dupes())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New()
	for _, seq := range []uint32{2, 0, 1} {
		b, _ := block.Parse(frame(seq, byte(seq)))
		s.Add(b)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "blocks.bin")
	require.NoError(t, s.Save(path))

	reloaded := New()
	added, dupes, err := reloaded.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, added)
	require.Equal(t, 0, dupes)

	require.Equal(t, s.Sequences(), reloaded.Sequences())
	for _, seq := range s.Sequences() {
		orig, _ := s.Get(seq)
		round, _ := reloaded.Get(seq)
		require.Equal(t, orig.Payload, round.Payload)
	}
}

func TestSaveWritesAscendingOrder(t *testing.T) {
	s := New()
	for _, seq := range []uint32{9, 1, 5} {
		b, _ := block.Parse(frame(seq, 0))
		s.Add(b)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "blocks.bin")
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 3*block.Size)

	engine := endian.GetLittleEndianEngine()
	var seqs []uint32
	for i := 0; i < 3; i++ {
		off := i * block.Size
		seqs = append(seqs, engine.Uint32(data[off+8:off+12]))
	}
	require.Equal(t, []uint32{1, 5, 9}, seqs)
}
