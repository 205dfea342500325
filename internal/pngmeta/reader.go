package pngmeta

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strconv"

	"github.com/thumbcache/thumbcache/internal/checksum"
)

// VerifyProvenance reports whether the PNG container at path carries
// checksum-valid Thumb::URI and Thumb::MTime records matching expectedURI
// and mtime. It fails closed: any open error, signature mismatch, truncated
// read, or end-of-stream before both records matched yields false.
//
// Value comparison is a prefix comparison: a stored value matches when its
// leading bytes equal the expected value. Entries written by other
// conforming applications rely on this behavior, so it is preserved rather
// than tightened to exact equality.
func VerifyProvenance(path, expectedURI string, mtime int64) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	return verify(f, []byte(expectedURI), []byte(strconv.FormatInt(mtime, 10)))
}

func verify(r io.ReadSeeker, expectedURI, expectedMTime []byte) bool {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false
	}
	if buf != signature {
		return false
	}

	uriMatch := false
	mtimeMatch := false

	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			// End of stream before both records matched.
			return false
		}
		length := binary.BigEndian.Uint32(buf[:4])
		if length > maxChunkLength {
			return false
		}

		if string(buf[4:8]) != textChunkType {
			// Skip payload plus its checksum.
			if _, err := r.Seek(int64(length)+4, io.SeekCurrent); err != nil {
				return false
			}
			continue
		}

		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return false
		}
		var crcBuf [4]byte
		if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
			return false
		}
		stored := binary.BigEndian.Uint32(crcBuf[:])
		actual := checksum.Sum(checksum.Sum(0, buf[4:8]), payload)
		if stored != actual {
			continue
		}

		key, value, ok := bytes.Cut(payload, []byte{0})
		if !ok {
			continue
		}
		switch string(key) {
		case uriKey:
			uriMatch = bytes.HasPrefix(value, expectedURI)
		case mtimeKey:
			mtimeMatch = bytes.HasPrefix(value, expectedMTime)
		}

		if uriMatch && mtimeMatch {
			return true
		}
	}
}
