package pngmeta

import (
	"encoding/binary"
	"io"

	"github.com/thumbcache/thumbcache/internal/checksum"
)

// Injector wraps the byte sink fed by a streaming PNG encoder and splices
// one Thumb::URI and one Thumb::MTime text chunk into the stream right
// after the IHDR chunk. All other bytes pass through unmodified, whatever
// write granularity the encoder uses; the injection point may fall in the
// middle of a single Write call.
//
// Precondition: the wrapped encoder emits the 8-byte signature followed
// immediately by an IHDR chunk with its fixed 13-byte payload. This holds
// for every conforming encoder and is not re-validated here.
type Injector struct {
	w       io.Writer
	uri     string
	mtime   string
	written int64
}

// NewInjector returns a sink that forwards to w, injecting provenance
// records carrying the given URI and decimal mtime values.
func NewInjector(w io.Writer, uri, mtime string) *Injector {
	return &Injector{w: w, uri: uri, mtime: mtime}
}

// Write implements io.Writer. A short write to the underlying sink aborts
// the current store operation via the returned error.
func (in *Injector) Write(p []byte) (n int, err error) {
	if in.written < injectOffset && in.written+int64(len(p)) >= injectOffset {
		head := int(injectOffset - in.written)
		m, err := in.w.Write(p[:head])
		n += m
		in.written += int64(m)
		if err != nil {
			return n, err
		}
		if err := in.writeTextChunk(uriKey, in.uri); err != nil {
			return n, err
		}
		if err := in.writeTextChunk(mtimeKey, in.mtime); err != nil {
			return n, err
		}
		p = p[head:]
	}

	if len(p) > 0 {
		m, err := in.w.Write(p)
		n += m
		in.written += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// writeTextChunk emits one complete tEXt chunk: big-endian payload length,
// type tag, key, NUL, value, and the checksum over type tag plus payload.
func (in *Injector) writeTextChunk(key, value string) error {
	payload := make([]byte, 0, len(key)+1+len(value))
	payload = append(payload, key...)
	payload = append(payload, 0)
	payload = append(payload, value...)

	chunk := make([]byte, 0, 8+len(payload)+4)
	var word [4]byte
	binary.BigEndian.PutUint32(word[:], uint32(len(payload)))
	chunk = append(chunk, word[:]...)
	chunk = append(chunk, textChunkType...)
	chunk = append(chunk, payload...)

	sum := checksum.Sum(checksum.Sum(0, []byte(textChunkType)), payload)
	binary.BigEndian.PutUint32(word[:], sum)
	chunk = append(chunk, word[:]...)

	_, err := in.w.Write(chunk)
	return err
}
