//go:build benchmark

package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thumbcache/thumbcache/internal/location"
	"github.com/thumbcache/thumbcache/pkg/types"
)

func benchEnv(b *testing.B) (*ThumbnailCache, *types.SourceFile) {
	base := b.TempDir()
	srcPath := filepath.Join(base, "pics", "bench.png")
	if err := os.MkdirAll(filepath.Dir(srcPath), 0755); err != nil {
		b.Fatal(err)
	}
	if err := os.WriteFile(srcPath, []byte("source pixels"), 0644); err != nil {
		b.Fatal(err)
	}

	resolver := location.NewResolver(location.Options{
		Directory: filepath.Join(base, "cache"),
	})
	c := New(Options{Resolver: resolver})
	return c, &types.SourceFile{
		DisplayName: "bench.png",
		Path:        srcPath,
	}
}

// BenchmarkLoad measures a validated cache hit end to end: provenance
// check, checksum verification, pixel decode, and scaling.
func BenchmarkLoad(b *testing.B) {
	c, f := benchEnv(b)
	f.Thumbnail = testSurface(256, 256)
	if !c.Store(f) {
		b.Fatal("seed store failed")
	}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			probe := &types.SourceFile{DisplayName: f.DisplayName, Path: f.Path}
			if !c.Load(probe, 200, 200) {
				b.Fatal("expected hit")
			}
		}
	})
}

// BenchmarkStore measures encoding, provenance injection, and the write
// of one large-tier entry.
func BenchmarkStore(b *testing.B) {
	c, f := benchEnv(b)
	f.Thumbnail = testSurface(256, 256)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if !c.Store(f) {
			b.Fatal("store failed")
		}
	}
}

// BenchmarkLoadMiss measures the cost of a lookup with no entries on
// disk, the common case for a cold cache.
func BenchmarkLoadMiss(b *testing.B) {
	c, f := benchEnv(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		probe := &types.SourceFile{DisplayName: f.DisplayName, Path: f.Path}
		if c.Load(probe, 128, 128) {
			b.Fatal("expected miss")
		}
	}
}
