package listener

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/catalog"
	"finboard/internal/config"
)

type countingSyncer struct {
	calls  atomic.Int32
	maxAge atomic.Int64
	err    error
}

func (c *countingSyncer) SyncIfStale(_ context.Context, maxAge time.Duration) (catalog.SyncResult, error) {
	c.calls.Add(1)
	c.maxAge.Store(int64(maxAge))
	return catalog.SyncResult{Companies: 1}, c.err
}

func TestRunRepeatsUntilCancelled(t *testing.T) {
	syncer := &countingSyncer{err: errors.New("transient")}
	svc := NewService(syncer, config.Config{
		DirectoryRefreshInterval: 5 * time.Millisecond,
		DirectoryMaxAge:          time.Hour,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool { return syncer.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	assert.Equal(t, int64(time.Hour), syncer.maxAge.Load())
}
