package pngmeta

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thumbcache/thumbcache/internal/checksum"
)

// rawChunk assembles a chunk with a correct checksum.
func rawChunk(typ string, payload []byte) []byte {
	var buf bytes.Buffer
	var word [4]byte
	binary.BigEndian.PutUint32(word[:], uint32(len(payload)))
	buf.Write(word[:])
	buf.WriteString(typ)
	buf.Write(payload)
	binary.BigEndian.PutUint32(word[:], checksum.Sum(checksum.Sum(0, []byte(typ)), payload))
	buf.Write(word[:])
	return buf.Bytes()
}

func textPayload(key, value string) []byte {
	p := append([]byte(key), 0)
	return append(p, value...)
}

// encoderOutput builds the byte stream a minimal PNG encoder would emit:
// signature, 13-byte-payload IHDR, then the given chunks, then IEND.
func encoderOutput(chunks ...[]byte) []byte {
	var buf bytes.Buffer
	buf.Write(signature[:])
	buf.Write(rawChunk("IHDR", make([]byte, 13)))
	for _, c := range chunks {
		buf.Write(c)
	}
	buf.Write(rawChunk("IEND", nil))
	return buf.Bytes()
}

func TestInjectorSplitInsensitive(t *testing.T) {
	src := encoderOutput(rawChunk("IDAT", []byte{1, 2, 3, 4, 5}))

	var bulk bytes.Buffer
	inj := NewInjector(&bulk, "file:///srv/pics/cat.png", "1700000000")
	n, err := inj.Write(src)
	require.NoError(t, err)
	require.Equal(t, len(src), n)

	var bytewise bytes.Buffer
	inj = NewInjector(&bytewise, "file:///srv/pics/cat.png", "1700000000")
	for i := range src {
		n, err := inj.Write(src[i : i+1])
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}

	assert.Equal(t, bulk.Bytes(), bytewise.Bytes(),
		"single-byte and bulk writes must produce identical output")

	// Odd split straddling the injection point.
	var straddle bytes.Buffer
	inj = NewInjector(&straddle, "file:///srv/pics/cat.png", "1700000000")
	_, err = inj.Write(src[:30])
	require.NoError(t, err)
	_, err = inj.Write(src[30:])
	require.NoError(t, err)
	assert.Equal(t, bulk.Bytes(), straddle.Bytes())
}

func TestInjectorPlacesChunksAfterHeader(t *testing.T) {
	src := encoderOutput()

	var out bytes.Buffer
	inj := NewInjector(&out, "file:///a", "42")
	_, err := inj.Write(src)
	require.NoError(t, err)

	got := out.Bytes()
	// Signature and IHDR pass through unchanged.
	assert.Equal(t, src[:injectOffset], got[:injectOffset])

	// The first injected chunk is Thumb::URI.
	wantURI := rawChunk("tEXt", textPayload("Thumb::URI", "file:///a"))
	assert.Equal(t, wantURI, got[injectOffset:injectOffset+len(wantURI)])

	// Followed by Thumb::MTime.
	off := injectOffset + len(wantURI)
	wantMTime := rawChunk("tEXt", textPayload("Thumb::MTime", "42"))
	assert.Equal(t, wantMTime, got[off:off+len(wantMTime)])

	// Remainder of the encoder output follows unmodified.
	assert.Equal(t, src[injectOffset:], got[off+len(wantMTime):])
}

func TestVerifyRoundTrip(t *testing.T) {
	src := encoderOutput(rawChunk("IDAT", []byte{9, 9, 9}))

	var out bytes.Buffer
	inj := NewInjector(&out, "file:///srv/pics/cat.png", "1700000000")
	_, err := inj.Write(src)
	require.NoError(t, err)

	stream := out.Bytes()
	assert.True(t, verify(bytes.NewReader(stream),
		[]byte("file:///srv/pics/cat.png"), []byte("1700000000")))
	assert.False(t, verify(bytes.NewReader(stream),
		[]byte("file:///srv/pics/cat.png"), []byte("1700000001")),
		"different mtime must not verify")
	assert.False(t, verify(bytes.NewReader(stream),
		[]byte("file:///srv/pics/dog.png"), []byte("1700000000")),
		"different URI must not verify")
}

// The stored value matches when the expected value is a prefix of it. This
// mirrors the behavior of the implementations that populated existing
// caches and must not be tightened.
func TestVerifyUsesPrefixComparison(t *testing.T) {
	var out bytes.Buffer
	inj := NewInjector(&out, "file:///srv/pics/cat.png", "1700000000")
	_, err := inj.Write(encoderOutput())
	require.NoError(t, err)

	assert.True(t, verify(bytes.NewReader(out.Bytes()),
		[]byte("file:///srv/pics/cat"), []byte("17000")))
}

func TestVerifyRejectsCorruptChecksum(t *testing.T) {
	var out bytes.Buffer
	inj := NewInjector(&out, "file:///a", "42")
	_, err := inj.Write(encoderOutput())
	require.NoError(t, err)

	stream := out.Bytes()
	require.True(t, verify(bytes.NewReader(stream), []byte("file:///a"), []byte("42")))

	// Flip one byte inside the URI chunk's value without fixing its
	// checksum: the chunk must be ignored, so verification fails.
	tampered := append([]byte{}, stream...)
	tampered[injectOffset+8+len("Thumb::URI")+2] ^= 0xFF
	assert.False(t, verify(bytes.NewReader(tampered), []byte("file:///a"), []byte("42")))
}

func TestVerifyRejectsBadStreams(t *testing.T) {
	tests := []struct {
		name   string
		stream []byte
	}{
		{"empty", nil},
		{"short signature", signature[:5]},
		{"wrong signature", []byte("GIF89a..")},
		{"signature only", signature[:]},
		{"truncated chunk header", append(append([]byte{}, signature[:]...), 0, 0)},
		{"no provenance chunks", encoderOutput()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, verify(bytes.NewReader(tt.stream), []byte("file:///a"), []byte("42")))
		})
	}
}

func TestVerifyStopsAtFirstFullMatch(t *testing.T) {
	// Both provenance chunks followed by a chunk with a length field that
	// would run past the stream: if verification reads that far, it fails,
	// so success proves the reader returned at the second match.
	var buf bytes.Buffer
	buf.Write(signature[:])
	buf.Write(rawChunk("IHDR", make([]byte, 13)))
	buf.Write(rawChunk("tEXt", textPayload("Thumb::URI", "file:///a")))
	buf.Write(rawChunk("tEXt", textPayload("Thumb::MTime", "42")))
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'I', 'D', 'A', 'T'})

	assert.True(t, verify(bytes.NewReader(buf.Bytes()), []byte("file:///a"), []byte("42")))
}

func TestVerifyProvenanceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entry.png")

	var out bytes.Buffer
	inj := NewInjector(&out, "file:///srv/pics/cat.png", "1700000000")
	_, err := inj.Write(encoderOutput())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0600))

	assert.True(t, VerifyProvenance(path, "file:///srv/pics/cat.png", 1700000000))
	assert.False(t, VerifyProvenance(path, "file:///srv/pics/cat.png", 1700000001))
	assert.False(t, VerifyProvenance(filepath.Join(dir, "missing.png"), "file:///a", 1))
}
