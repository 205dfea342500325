package types

import (
	"image"
	"io"
)

// Surface is a decoded raster image with queryable pixel dimensions.
type Surface interface {
	Width() int
	Height() int

	// Image exposes the underlying pixels for the codec. Hosts wrapping a
	// non-stdlib surface type provide a conversion here.
	Image() image.Image
}

// Codec is the image engine consumed by the cache core. It owns all pixel
// work: container decode, container encode, and scaled copies.
type Codec interface {
	// Decode reads the PNG container at path into a surface.
	Decode(path string) (Surface, error)

	// Encode streams s as a PNG container into w. The cache wraps w with
	// the provenance injector, so Encode must never buffer the whole
	// output before writing.
	Encode(s Surface, w io.Writer) error

	// Scale returns a scaled copy of s with the exact given dimensions.
	Scale(s Surface, width, height int) (Surface, error)
}

// PathResolver turns a command-line style file reference into an absolute
// local path. It returns an error for references with no local path
// (non-file URI schemes, virtual locations).
type PathResolver func(ref string) (string, error)
