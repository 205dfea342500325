/*
Package cache implements the thumbnail cache orchestrators: looking up a
previously rendered preview for a source file, and persisting a freshly
rendered one so conforming applications can reuse it.

# Lookup policy

A lookup derives the cache key from the source file's canonical location,
enumerates candidate entries in precedence order, and returns the first one
that survives validation:

	┌──────────────────────────────────────────────┐
	│ request (file, width ≤ 256, height ≤ 256)    │
	└──────────────────────────────────────────────┘
	                     │
	     reject in-memory files and files whose
	     display name diverges from their path
	                     │
	┌──────────────────────────────────────────────┐
	│ primary root: large*, normal                  │
	│ shared root (.sh_thumbnails): large*, normal  │  * only when a
	└──────────────────────────────────────────────┘    dimension > 128
	                     │
	     per candidate: provenance check →
	     pixel decode → size-fit scale
	                     │
	           hit, or miss after the last

Every failure on the read path (missing file, checksum mismatch, stale
provenance, decode error) demotes the candidate and scanning continues;
nothing on the read path is fatal.

# Store policy

A store classifies the tier strictly from the rendered surface's exact
pixel dimensions (one side must be exactly 256 or 128), writes the entry
under the primary root only, and splices the provenance records into the
encoder's output stream. A failed encode removes the partial file.

Stores use plain create-and-truncate, not write-to-temp-and-rename: a
concurrent lookup of the same key may observe a partially written entry and
will treat it as a miss through the normal validation path.
*/
package cache
