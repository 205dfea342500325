// Package pngmeta reads and writes the thumbnail provenance records
// embedded in PNG containers: two tEXt chunks, Thumb::URI and Thumb::MTime,
// that record which source file a cached thumbnail was rendered from and
// when that file was last modified. The package never touches pixel data;
// decoding is the codec's job.
package pngmeta

// PNG file signature, first 8 bytes of every container.
var signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

const (
	// textChunkType is the chunk type tag carrying key/value text records.
	textChunkType = "tEXt"

	// Provenance record keys defined by the shared thumbnail convention.
	uriKey   = "Thumb::URI"
	mtimeKey = "Thumb::MTime"

	// injectOffset is where the provenance chunks are spliced into an
	// encoder's output: right after the signature and the IHDR chunk.
	// IHDR is required, always comes first, and always has a 13-byte
	// payload, so the offset is fixed: 8 + (4 length + 4 type + 13
	// payload + 4 checksum).
	injectOffset = 8 + 4 + 4 + 13 + 4

	// maxChunkLength is the largest payload length the container format
	// permits; anything above it is a corrupt stream.
	maxChunkLength = 1<<31 - 1
)
