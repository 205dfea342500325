package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thumbcache/thumbcache/internal/location"
)

func TestCollectEmptyRoot(t *testing.T) {
	root := t.TempDir()
	resolver := location.NewResolver(location.Options{Directory: root})

	report, err := Collect(resolver)
	require.NoError(t, err)

	assert.Equal(t, root, report.Root)
	require.Len(t, report.Tiers, 2)
	assert.Equal(t, "large", report.Tiers[0].Name)
	assert.Equal(t, "normal", report.Tiers[1].Name)
	assert.Equal(t, 0, report.TotalEntries)
	assert.Equal(t, int64(0), report.TotalBytes)
}

func TestCollectCountsEntriesPerTier(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "large"), 0700))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "normal"), 0700))

	write := func(tier, name string, size int) {
		require.NoError(t, os.WriteFile(
			filepath.Join(root, tier, name), make([]byte, size), 0600))
	}
	write("large", "aaaa.png", 100)
	write("large", "bbbb.png", 200)
	write("normal", "cccc.png", 50)

	// Non-PNG files and subdirectories are skipped.
	write("large", "stray.txt", 10)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "large", "nested"), 0700))

	resolver := location.NewResolver(location.Options{Directory: root})
	report, err := Collect(resolver)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Tiers[0].Entries)
	assert.Equal(t, int64(300), report.Tiers[0].Bytes)
	assert.Equal(t, 1, report.Tiers[1].Entries)
	assert.Equal(t, int64(50), report.Tiers[1].Bytes)
	assert.Equal(t, 3, report.TotalEntries)
	assert.Equal(t, int64(350), report.TotalBytes)

	require.NotNil(t, report.Tiers[0].Oldest)
	require.NotNil(t, report.Tiers[0].Newest)
	assert.False(t, report.Tiers[0].Newest.Before(*report.Tiers[0].Oldest))
}
