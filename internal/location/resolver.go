// Package location computes where thumbnails live on disk: the user-wide
// cache root below the environment's cache-home directory, and the ordered
// candidate entry paths for a given source file and requested size.
package location

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/thumbcache/thumbcache/pkg/errors"
	"github.com/thumbcache/thumbcache/pkg/types"
	"github.com/thumbcache/thumbcache/pkg/utils"
)

const (
	// sharedDirName is the sibling directory, colocated with source
	// files, that conforming applications may populate with thumbnails
	// keyed by base name. It is only ever read, never written.
	sharedDirName = ".sh_thumbnails"

	// entrySuffix is the file extension of every cache entry.
	entrySuffix = ".png"

	defaultDirMode = os.FileMode(0700)
)

// Candidate is one cache file to try during lookup, together with the
// provenance URI value a valid entry at that path must carry.
type Candidate struct {
	Path        string
	ExpectedURI string
	Tier        types.Tier
	Shared      bool
}

// Options configures a Resolver.
type Options struct {
	// Directory overrides environment-driven root resolution when set.
	Directory string

	// SharedLookup enables scanning the sibling shared-cache directory
	// of the source file during candidate enumeration.
	SharedLookup bool

	// DirMode is the permission mode for created cache directories.
	// Zero means owner-only access.
	DirMode os.FileMode

	// LookupEnv substitutes the environment for tests. Nil means
	// os.Getenv.
	LookupEnv func(string) string
}

// Resolver computes cache entry paths. The primary root is resolved once
// per Resolver and reused; the environment is never re-read after the
// first call.
type Resolver struct {
	opts Options

	once    sync.Once
	root    string
	rootErr error
}

// NewResolver creates a resolver with the given options.
func NewResolver(opts Options) *Resolver {
	if opts.DirMode == 0 {
		opts.DirMode = defaultDirMode
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.Getenv
	}
	return &Resolver{opts: opts}
}

// Root returns the primary cache root, creating it with parents on first
// use. Resolution order: the configured directory override, then
// $XDG_CACHE_HOME/thumbnails, then $HOME/.cache/thumbnails.
func (r *Resolver) Root() (string, error) {
	r.once.Do(func() {
		dir := r.opts.Directory
		if dir == "" {
			if cacheHome := r.opts.LookupEnv("XDG_CACHE_HOME"); cacheHome != "" {
				dir = filepath.Join(cacheHome, "thumbnails")
			} else {
				dir = filepath.Join(r.opts.LookupEnv("HOME"), ".cache", "thumbnails")
			}
		}
		if err := os.MkdirAll(dir, r.opts.DirMode); err != nil {
			r.rootErr = errors.NewError(errors.ErrCodeCacheRoot, "failed to create cache root").
				WithComponent("location").
				WithContext("directory", dir).
				WithCause(err)
			return
		}
		r.root = dir
	})
	return r.root, r.rootErr
}

// Candidates returns the cache files to try for localPath at the requested
// bounding box, in precedence order: the primary root's tiers first, then
// the shared root's tiers when a sibling shared directory exists and shared
// lookup is enabled.
//
// Primary entries are keyed by the MD5 of "file://" + localPath and must
// carry that URI as provenance. Shared entries are keyed by the MD5 of the
// bare base name, and their expected provenance value is the base name
// itself, not the full URI. That asymmetry is baked into the on-disk
// shared-cache convention and is preserved exactly.
func (r *Resolver) Candidates(localPath string, width, height int) ([]Candidate, error) {
	root, err := r.Root()
	if err != nil {
		return nil, err
	}

	tiers := tiersFor(width, height)
	uri := "file://" + localPath
	key := Key(uri)

	candidates := make([]Candidate, 0, 2*len(tiers))
	for _, tier := range tiers {
		candidates = append(candidates, Candidate{
			Path:        filepath.Join(root, tier.Dir(), key+entrySuffix),
			ExpectedURI: uri,
			Tier:        tier,
		})
	}

	if !r.opts.SharedLookup {
		return candidates, nil
	}

	sharedRoot := filepath.Join(filepath.Dir(localPath), sharedDirName)
	if info, err := os.Stat(sharedRoot); err != nil || !info.IsDir() {
		return candidates, nil
	}

	base := filepath.Base(localPath)
	sharedKey := Key(base)
	for _, tier := range tiers {
		candidates = append(candidates, Candidate{
			Path:        filepath.Join(sharedRoot, tier.Dir(), sharedKey+entrySuffix),
			ExpectedURI: base,
			Tier:        tier,
			Shared:      true,
		})
	}
	return candidates, nil
}

// EntryPath returns the primary-root path where a thumbnail with the given
// key is stored at the given tier. Store never writes to the shared root,
// so only primary paths are handed out.
func (r *Resolver) EntryPath(tier types.Tier, key string) (string, error) {
	root, err := r.Root()
	if err != nil {
		return "", err
	}
	path := filepath.Join(root, tier.Dir(), key+entrySuffix)
	if err := utils.ValidatePathWithinBase(root, path); err != nil {
		return "", errors.NewError(errors.ErrCodePathInvalid, "entry path escapes cache root").
			WithComponent("location").
			WithContext("path", path).
			WithCause(err)
	}
	return path, nil
}

// DirMode returns the directory permission mode the resolver creates
// directories with.
func (r *Resolver) DirMode() os.FileMode {
	return r.opts.DirMode
}

// Key returns the cache key for a provenance value: the lowercase hex MD5
// digest of its UTF-8 bytes.
func Key(value string) string {
	sum := md5.Sum([]byte(value))
	return hex.EncodeToString(sum[:])
}

// tiersFor selects the tiers to try for a requested bounding box. Requests
// exceeding the normal bound on either side try large before normal;
// anything else tries normal only, never large.
func tiersFor(width, height int) []types.Tier {
	normal := types.TierNormal.MaxDimension()
	if width > normal || height > normal {
		return []types.Tier{types.TierLarge, types.TierNormal}
	}
	return []types.Tier{types.TierNormal}
}
