package lc3

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// ReadImage loads an LC-3 object file into memory. The format is a
// stream of big-endian 16-bit words: the first is the origin address,
// the rest are placed contiguously starting there. Images loaded later
// overwrite earlier ones where they overlap.
func ReadImage(m *Memory, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return ReadImageFile(m, f)
}

// ReadImageFile loads an object image from r. Loading stops at EOF or
// at the end of memory, whichever comes first; an oversized image is
// silently truncated. A stray trailing byte is an error: images are
// whole words.
func ReadImageFile(m *Memory, r io.Reader) error {
	// origin tells us where in memory to place the image
	var origin uint16
	if err := binary.Read(r, binary.BigEndian, &origin); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("image too short: no origin word")
		}
		return err
	}

	buf := make([]byte, 2)
	for addr := int(origin); addr < len(m.cells); addr++ {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			return nil
		}
		if err == io.ErrUnexpectedEOF {
			return fmt.Errorf("image truncated mid-word at 0x%04X", addr)
		}
		if err != nil {
			return err
		}

		m.cells[addr] = binary.BigEndian.Uint16(buf)
	}
	return nil
}
