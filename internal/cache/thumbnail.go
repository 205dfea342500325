package cache

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/thumbcache/thumbcache/internal/codec"
	"github.com/thumbcache/thumbcache/internal/location"
	"github.com/thumbcache/thumbcache/internal/metrics"
	"github.com/thumbcache/thumbcache/internal/pngmeta"
	"github.com/thumbcache/thumbcache/pkg/errors"
	"github.com/thumbcache/thumbcache/pkg/types"
	"github.com/thumbcache/thumbcache/pkg/utils"
)

// maxRequestDimension is the largest bounding box the cache serves;
// requests beyond it are unconditional misses.
const maxRequestDimension = 256

const defaultFileMode = os.FileMode(0600)

// outcome classifies a candidate evaluation on the read path. The
// distinction between miss and fault stays internal; both continue the
// candidate scan and both collapse to false at the public boundary.
type outcome int

const (
	outcomeHit outcome = iota
	outcomeMiss
	outcomeFault
)

// Options configures a ThumbnailCache. Zero-value fields get defaults.
type Options struct {
	// Resolver locates cache roots and entry paths. Nil means a resolver
	// driven purely by the environment, with shared lookup enabled.
	Resolver *location.Resolver

	// Codec performs pixel decode, encode, and scaling. Nil means the
	// stdlib-backed PNG codec.
	Codec types.Codec

	// ResolvePath canonicalizes source file references. Nil means
	// DefaultResolvePath.
	ResolvePath types.PathResolver

	// Logger receives operational logging. Nil disables logging.
	Logger *utils.Logger

	// Metrics receives lookup/store outcome counters. Nil disables them.
	Metrics *metrics.Collector

	// FileMode is the permission mode for created cache entries. Zero
	// means owner-only.
	FileMode os.FileMode
}

// ThumbnailCache is the on-disk, content-addressed thumbnail cache. All
// operations are synchronous; the only shared mutable state is the
// resolver's memoized root and the local stats counters.
type ThumbnailCache struct {
	resolver    *location.Resolver
	codec       types.Codec
	resolvePath types.PathResolver
	logger      *utils.Logger
	metrics     *metrics.Collector
	fileMode    os.FileMode

	mu    sync.Mutex
	stats types.CacheStats
}

// New creates a thumbnail cache with the given options.
func New(opts Options) *ThumbnailCache {
	if opts.Resolver == nil {
		opts.Resolver = location.NewResolver(location.Options{SharedLookup: true})
	}
	if opts.Codec == nil {
		opts.Codec = codec.NewPNG()
	}
	if opts.ResolvePath == nil {
		opts.ResolvePath = DefaultResolvePath
	}
	if opts.FileMode == 0 {
		opts.FileMode = defaultFileMode
	}
	return &ThumbnailCache{
		resolver:    opts.Resolver,
		codec:       opts.Codec,
		resolvePath: opts.ResolvePath,
		logger:      opts.Logger.WithComponent("cache"),
		metrics:     opts.Metrics,
		fileMode:    opts.FileMode,
	}
}

// DefaultResolvePath turns a command-line style file reference into an
// absolute local path. file:// URIs are unwrapped; references with any
// other scheme have no local path.
func DefaultResolvePath(ref string) (string, error) {
	if strings.HasPrefix(ref, "file://") {
		ref = strings.TrimPrefix(ref, "file://")
	} else if i := strings.Index(ref, "://"); i >= 0 {
		return "", errors.NewError(errors.ErrCodePathUnavailable, "reference has no local path").
			WithContext("ref", ref)
	}
	return filepath.Abs(ref)
}

// Load looks up a cached thumbnail for f at the requested bounding box and
// assigns it to f.Thumbnail on a hit. It returns false for every
// non-applicable or failed case; no lookup condition is an error.
func (c *ThumbnailCache) Load(f *types.SourceFile, width, height int) bool {
	start := time.Now()

	if width > maxRequestDimension || height > maxRequestDimension {
		return c.miss(metrics.SourceNone, "", start)
	}

	local := c.localPathFor(f)
	if local == "" {
		return c.miss(metrics.SourceNone, "", start)
	}

	info, err := os.Stat(local)
	if err != nil {
		return c.miss(metrics.SourceNone, "", start)
	}
	mtime := info.ModTime().Unix()

	candidates, err := c.resolver.Candidates(local, width, height)
	if err != nil {
		c.logger.Warn("candidate enumeration failed: %v", err)
		return c.miss(metrics.SourceNone, "", start)
	}

	for _, cand := range candidates {
		if _, err := os.Stat(cand.Path); err != nil {
			continue
		}
		surface, out := c.evaluate(cand, mtime, width, height)
		if out != outcomeHit {
			continue
		}
		f.Thumbnail = surface
		c.recordHit(cand, start)
		return true
	}

	return c.miss(metrics.SourceNone, "", start)
}

// evaluate validates and decodes one candidate, applying the size-fit rule.
func (c *ThumbnailCache) evaluate(cand location.Candidate, mtime int64, width, height int) (types.Surface, outcome) {
	if !pngmeta.VerifyProvenance(cand.Path, cand.ExpectedURI, mtime) {
		return nil, outcomeMiss
	}

	surface, err := c.codec.Decode(cand.Path)
	if err != nil {
		c.logger.Debug("decode failed for %s: %v", cand.Path, err)
		return nil, outcomeFault
	}

	if surface.Width() == width || surface.Height() == height {
		return surface, outcomeHit
	}

	// Size-fit rule: the factor derives from decoded-over-requested
	// ratios and is applied to the requested bounds, never upscaling
	// past them.
	factor := math.Min(1, math.Min(
		float64(surface.Width())/float64(width),
		float64(surface.Height())/float64(height)))
	targetWidth := int(float64(width) * factor)
	targetHeight := int(float64(height) * factor)

	scaled, err := c.codec.Scale(surface, targetWidth, targetHeight)
	if err != nil {
		c.logger.Debug("scale to %dx%d failed for %s: %v", targetWidth, targetHeight, cand.Path, err)
		return nil, outcomeFault
	}
	return scaled, outcomeHit
}

// Store persists f.Thumbnail under the primary cache root so other
// conforming applications can reuse it. It returns false when the surface
// is not a cacheable thumbnail size, the file has no canonical local
// location, or the write fails; a failed write leaves no partial entry
// behind.
func (c *ThumbnailCache) Store(f *types.SourceFile) bool {
	start := time.Now()

	if f.Thumbnail == nil {
		return c.storeRejected("", start)
	}

	tier, ok := tierForDimensions(f.Thumbnail.Width(), f.Thumbnail.Height())
	if !ok {
		c.logger.Debug("surface %dx%d is not a cacheable thumbnail size",
			f.Thumbnail.Width(), f.Thumbnail.Height())
		return c.storeRejected("", start)
	}

	local := c.localPathFor(f)
	if local == "" {
		return c.storeRejected(tier.Dir(), start)
	}

	info, err := os.Stat(local)
	if err != nil {
		return c.storeRejected(tier.Dir(), start)
	}

	uri := "file://" + local
	target, err := c.resolver.EntryPath(tier, location.Key(uri))
	if err != nil {
		c.logger.Warn("entry path resolution failed: %v", err)
		return c.storeFailed(tier.Dir(), start)
	}

	if err := os.MkdirAll(filepath.Dir(target), c.resolver.DirMode()); err != nil {
		c.logger.Warn("failed to create tier directory: %v", err)
		return c.storeFailed(tier.Dir(), start)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, c.fileMode)
	if err != nil {
		c.logger.Warn("failed to open cache entry %s: %v", target, err)
		return c.storeFailed(tier.Dir(), start)
	}

	mtime := strconv.FormatInt(info.ModTime().Unix(), 10)
	encodeErr := c.codec.Encode(f.Thumbnail, pngmeta.NewInjector(out, uri, mtime))
	closeErr := out.Close()
	if encodeErr != nil || closeErr != nil {
		// A half-written entry must not survive the failed store.
		if err := os.Remove(target); err != nil {
			c.logger.Warn("failed to remove partial entry %s: %v", target, err)
		}
		c.logger.Warn("store of %s failed: encode=%v close=%v", target, encodeErr, closeErr)
		return c.storeFailed(tier.Dir(), start)
	}

	c.logger.Debug("stored %s thumbnail for %s", tier, local)
	c.mu.Lock()
	c.stats.Stores++
	c.mu.Unlock()
	c.metrics.RecordStore(metrics.StatusStored, tier.Dir(), time.Since(start))
	return true
}

// Stats returns a snapshot of the cache's operation counters.
func (c *ThumbnailCache) Stats() types.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

// localPathFor returns the absolute local path for f, or "" when the file
// has no unambiguous on-disk location: in-memory images, and files whose
// display name diverges from their path's base name, such as archive
// members and multi-page documents.
func (c *ThumbnailCache) localPathFor(f *types.SourceFile) string {
	if f.InMemory {
		return ""
	}
	if f.DisplayName != "" && filepath.Base(f.DisplayName) != filepath.Base(f.Path) {
		return ""
	}
	local, err := c.resolvePath(f.Path)
	if err != nil {
		return ""
	}
	return local
}

// tierForDimensions classifies a rendered surface by its exact pixel
// dimensions. Anything without a side of exactly 256 or 128 is not
// representable in the cache.
func tierForDimensions(width, height int) (types.Tier, bool) {
	switch {
	case width == types.TierLarge.MaxDimension() || height == types.TierLarge.MaxDimension():
		return types.TierLarge, true
	case width == types.TierNormal.MaxDimension() || height == types.TierNormal.MaxDimension():
		return types.TierNormal, true
	default:
		return 0, false
	}
}

func (c *ThumbnailCache) miss(source, tier string, start time.Time) bool {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
	c.metrics.RecordLookup(metrics.ResultMiss, source, tier, time.Since(start))
	return false
}

func (c *ThumbnailCache) recordHit(cand location.Candidate, start time.Time) {
	source := metrics.SourcePrimary
	if cand.Shared {
		source = metrics.SourceShared
	}
	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
	c.metrics.RecordLookup(metrics.ResultHit, source, cand.Tier.Dir(), time.Since(start))
}

func (c *ThumbnailCache) storeRejected(tier string, start time.Time) bool {
	c.metrics.RecordStore(metrics.StatusRejected, tier, time.Since(start))
	return false
}

func (c *ThumbnailCache) storeFailed(tier string, start time.Time) bool {
	c.mu.Lock()
	c.stats.StoreFailures++
	c.mu.Unlock()
	c.metrics.RecordStore(metrics.StatusFailed, tier, time.Since(start))
	return false
}
