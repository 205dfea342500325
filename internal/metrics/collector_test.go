package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollectorDefaults(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "thumbcache", c.config.Namespace)
	assert.Equal(t, "/metrics", c.config.Path)
	assert.True(t, c.config.Enabled)
}

func TestRecordLookup(t *testing.T) {
	c, err := NewCollector(&Config{Enabled: true})
	require.NoError(t, err)

	c.RecordLookup(ResultHit, SourcePrimary, "large", time.Millisecond)
	c.RecordLookup(ResultHit, SourcePrimary, "large", time.Millisecond)
	c.RecordLookup(ResultMiss, SourceNone, "", time.Millisecond)

	hits := testutil.ToFloat64(c.lookupCounter.WithLabelValues(ResultHit, SourcePrimary, "large"))
	assert.Equal(t, 2.0, hits)

	misses := testutil.ToFloat64(c.lookupCounter.WithLabelValues(ResultMiss, SourceNone, "none"))
	assert.Equal(t, 1.0, misses)
}

func TestRecordStore(t *testing.T) {
	c, err := NewCollector(&Config{Enabled: true})
	require.NoError(t, err)

	c.RecordStore(StatusStored, "normal", time.Millisecond)
	c.RecordStore(StatusRejected, "", time.Millisecond)

	stored := testutil.ToFloat64(c.storeCounter.WithLabelValues(StatusStored, "normal"))
	assert.Equal(t, 1.0, stored)

	rejected := testutil.ToFloat64(c.storeCounter.WithLabelValues(StatusRejected, "none"))
	assert.Equal(t, 1.0, rejected)
}

func TestDisabledCollectorIsNoOp(t *testing.T) {
	c, err := NewCollector(&Config{Enabled: false})
	require.NoError(t, err)

	// Must not panic despite uninitialized metric vectors.
	c.RecordLookup(ResultHit, SourcePrimary, "large", time.Millisecond)
	c.RecordStore(StatusStored, "large", time.Millisecond)
	assert.NoError(t, c.Start(context.Background()))
}

func TestNilCollectorIsNoOp(t *testing.T) {
	var c *Collector
	c.RecordLookup(ResultHit, SourcePrimary, "large", time.Millisecond)
	c.RecordStore(StatusStored, "large", time.Millisecond)
	assert.Nil(t, c.Registry())
}
