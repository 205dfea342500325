package types

// Tier identifies one of the two thumbnail size classes of the shared
// on-disk convention. Tiers are ordered: TierLarge is tried before
// TierNormal whenever both are candidates.
type Tier int

const (
	// TierLarge holds thumbnails whose width or height is exactly 256.
	TierLarge Tier = iota
	// TierNormal holds thumbnails whose width or height is exactly 128.
	TierNormal
)

// Dir returns the tier's directory name below a cache root.
func (t Tier) Dir() string {
	switch t {
	case TierLarge:
		return "large"
	case TierNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// MaxDimension returns the exact pixel bound a stored thumbnail must have
// on at least one side to belong to this tier.
func (t Tier) MaxDimension() int {
	switch t {
	case TierLarge:
		return 256
	case TierNormal:
		return 128
	default:
		return 0
	}
}

// String returns the tier's directory name.
func (t Tier) String() string {
	return t.Dir()
}

// SourceFile is the minimal view of the host's file model the cache
// consumes. Thumbnail is the destination slot populated by a successful
// Load and read by Store.
type SourceFile struct {
	// DisplayName is the name the host shows for the file. For archive
	// members and multi-page documents it differs from the base name of
	// Path, which makes the file uncacheable.
	DisplayName string

	// Path is the canonical file reference as the host knows it. It is
	// turned into an absolute local path by a PathResolver.
	Path string

	// InMemory marks images with no backing file. They are never cached.
	InMemory bool

	// Thumbnail receives the decoded surface on a cache hit and supplies
	// the rendered surface on store.
	Thumbnail Surface
}

// CacheStats represents thumbnail cache performance counters.
type CacheStats struct {
	Hits          uint64  `json:"hits"`
	Misses        uint64  `json:"misses"`
	Stores        uint64  `json:"stores"`
	StoreFailures uint64  `json:"store_failures"`
	HitRate       float64 `json:"hit_rate"`
}
