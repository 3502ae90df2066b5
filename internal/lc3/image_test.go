package lc3

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// image builds an object file: origin word followed by the payload,
// all big-endian.
func image(origin uint16, words ...uint16) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, origin)
	for _, w := range words {
		binary.Write(&buf, binary.BigEndian, w)
	}
	return buf.Bytes()
}

func TestReadImageFile(t *testing.T) {
	mem := NewMemory()

	err := ReadImageFile(mem, bytes.NewReader(image(0x3000, 0x1025, 0xF025, 0xBEEF)))
	require.NoError(t, err)

	assert.Equal(t, uint16(0x1025), mem.Read(0x3000))
	assert.Equal(t, uint16(0xF025), mem.Read(0x3001))
	assert.Equal(t, uint16(0xBEEF), mem.Read(0x3002))
	assert.Equal(t, uint16(0), mem.Read(0x3003))
}

func TestReadImageFileOriginOnly(t *testing.T) {
	mem := NewMemory()

	err := ReadImageFile(mem, bytes.NewReader(image(0x3000)))
	require.NoError(t, err)
	assert.Equal(t, uint16(0), mem.Read(0x3000))
}

func TestReadImageFileLaterImageWins(t *testing.T) {
	mem := NewMemory()

	require.NoError(t, ReadImageFile(mem, bytes.NewReader(image(0x3000, 0x1111, 0x2222))))
	require.NoError(t, ReadImageFile(mem, bytes.NewReader(image(0x3001, 0x3333))))

	assert.Equal(t, uint16(0x1111), mem.Read(0x3000))
	assert.Equal(t, uint16(0x3333), mem.Read(0x3001))
}

func TestReadImageFileTruncatesAtEndOfMemory(t *testing.T) {
	mem := NewMemory()

	// four words at 0xFFFE: only the first two fit
	err := ReadImageFile(mem, bytes.NewReader(image(0xFFFE, 0x0001, 0x0002, 0x0003, 0x0004)))
	require.NoError(t, err)

	assert.Equal(t, uint16(0x0001), mem.Read(0xFFFE))
	assert.Equal(t, uint16(0x0002), mem.Read(0xFFFF))
	assert.Equal(t, uint16(0), mem.Read(0x0000))
}

func TestReadImageFileEmpty(t *testing.T) {
	err := ReadImageFile(NewMemory(), bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestReadImageFileMidWord(t *testing.T) {
	data := append(image(0x3000, 0x1025), 0xAB)
	err := ReadImageFile(NewMemory(), bytes.NewReader(data))
	assert.Error(t, err)
}

func TestReadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "halt.obj")
	require.NoError(t, os.WriteFile(path, image(0x3000, 0xF025), 0o644))

	mem := NewMemory()
	require.NoError(t, ReadImage(mem, path))
	assert.Equal(t, uint16(0xF025), mem.Read(0x3000))
}

func TestReadImageMissingFile(t *testing.T) {
	err := ReadImage(NewMemory(), filepath.Join(t.TempDir(), "nope.obj"))
	assert.Error(t, err)
}
