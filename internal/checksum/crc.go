// Package checksum implements the chunk-integrity checksum of the PNG
// container format (ISO/IEC 15948 Annex D): the reflected CRC-32 with
// polynomial 0xEDB88320 and initial/final XOR of 0xFFFFFFFF.
package checksum

import "sync"

var (
	tableOnce sync.Once
	table     [256]uint32
)

func buildTable() {
	for n := 0; n < 256; n++ {
		c := uint32(n)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = 0xedb88320 ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		table[n] = c
	}
}

// Sum returns the CRC-32 of p chained onto seed. A seed of 0 starts a fresh
// checksum; passing a previous Sum result as the seed continues it, so a
// region split across two buffers checksums as if it were contiguous:
//
//	Sum(Sum(0, typeTag), payload) == Sum(0, append(typeTag, payload...))
func Sum(seed uint32, p []byte) uint32 {
	tableOnce.Do(buildTable)

	c := seed ^ 0xffffffff
	for _, b := range p {
		c = table[(c^uint32(b))&0xff] ^ (c >> 8)
	}
	return c ^ 0xffffffff
}
