/*
Package types provides the core interfaces and data structures shared across
the thumbnail cache.

This package defines the contracts between the cache orchestrators and the
capabilities they consume, keeping the binary-format and policy code free of
any dependency on a particular image engine:

	┌─────────────────────────────────────────────┐
	│              Host Application               │
	│        (cmd/thumbcache, GUI viewer)         │
	└─────────────────────────────────────────────┘
	                      │
	┌─────────────────────────────────────────────┐
	│           Thumbnail Cache Core              │
	│            (internal/cache)                 │
	└─────────────────────────────────────────────┘
	          │             │             │
	┌─────────┴───┐ ┌───────┴─────┐ ┌─────┴──────┐
	│   Codec     │ │  Resolver   │ │  Metrics   │
	│ (pixels)    │ │  (paths)    │ │            │
	└─────────────┘ └─────────────┘ └────────────┘

# Core Interfaces

Surface:
A decoded raster image with queryable pixel dimensions. The cache never
touches pixels directly; it only compares dimensions and hands surfaces to
the codec.

Codec:
The image engine consumed by the cache: decode a PNG container into a
surface, encode a surface into a caller-supplied byte sink, and produce a
scaled copy of a surface. internal/codec provides the default stdlib-backed
implementation; hosts with their own rendering pipeline can substitute it.

PathResolver:
Turns a command-line style file reference into an absolute local path, or
reports that the reference has no local path (remote URIs, virtual files).

# Data Structures

SourceFile is the minimal slice of the host's document model the cache
consumes: display name, canonical path, the in-memory flag, and the
destination slot for a loaded thumbnail. Tier enumerates the two supported
thumbnail size classes of the shared on-disk convention. CacheStats carries
hit/miss/store counters for the host.
*/
package types
