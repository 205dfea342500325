// Package status reports the on-disk state of a thumbnail cache root.
package status

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thumbcache/thumbcache/internal/location"
	"github.com/thumbcache/thumbcache/pkg/types"
)

// TierStatus summarizes one tier directory under the cache root.
type TierStatus struct {
	Name    string     `json:"name"`
	Path    string     `json:"path"`
	Entries int        `json:"entries"`
	Bytes   int64      `json:"bytes"`
	Oldest  *time.Time `json:"oldest,omitempty"`
	Newest  *time.Time `json:"newest,omitempty"`
}

// Report describes the cache root and its tiers at a point in time.
type Report struct {
	Root         string       `json:"root"`
	Tiers        []TierStatus `json:"tiers"`
	TotalEntries int          `json:"total_entries"`
	TotalBytes   int64        `json:"total_bytes"`
	GeneratedAt  time.Time    `json:"generated_at"`
}

// Collect walks the resolver's primary root and summarizes each tier.
// A tier directory that does not exist yet reports zero entries; only
// ".png" entries are counted, other files are another application's
// business.
func Collect(resolver *location.Resolver) (*Report, error) {
	root, err := resolver.Root()
	if err != nil {
		return nil, err
	}

	report := &Report{
		Root:        root,
		GeneratedAt: time.Now(),
	}

	for _, tier := range []types.Tier{types.TierLarge, types.TierNormal} {
		ts, err := collectTier(root, tier)
		if err != nil {
			return nil, err
		}
		report.Tiers = append(report.Tiers, ts)
		report.TotalEntries += ts.Entries
		report.TotalBytes += ts.Bytes
	}
	return report, nil
}

func collectTier(root string, tier types.Tier) (TierStatus, error) {
	ts := TierStatus{
		Name: tier.Dir(),
		Path: filepath.Join(root, tier.Dir()),
	}

	entries, err := os.ReadDir(ts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return ts, nil
		}
		return ts, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		ts.Entries++
		ts.Bytes += info.Size()

		mtime := info.ModTime()
		if ts.Oldest == nil || mtime.Before(*ts.Oldest) {
			t := mtime
			ts.Oldest = &t
		}
		if ts.Newest == nil || mtime.After(*ts.Newest) {
			t := mtime
			ts.Newest = &t
		}
	}
	return ts, nil
}
