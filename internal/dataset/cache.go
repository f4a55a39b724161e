package dataset

import (
	"context"
	"sync"
	"sync/atomic"
)

// SnapshotLoader produces a snapshot.
type SnapshotLoader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Cache memoizes the first load for the lifetime of the process. The
// outcome is cached whether it succeeded or failed; there is no
// invalidation short of a restart.
type Cache struct {
	loader SnapshotLoader

	once sync.Once
	done atomic.Bool
	snap *Snapshot
	err  error
}

// NewCache wraps a loader.
func NewCache(loader SnapshotLoader) *Cache {
	return &Cache{loader: loader}
}

// Get returns the shared snapshot, loading it on first use. The load is
// detached from ctx cancellation so an abandoned request cannot poison
// the cache.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.once.Do(func() {
		c.snap, c.err = c.loader.Load(context.WithoutCancel(ctx))
		c.done.Store(true)
	})
	return c.snap, c.err
}

// Loaded reports whether the load has completed and, if so, its error.
// It never triggers a load.
func (c *Cache) Loaded() (bool, error) {
	if !c.done.Load() {
		return false, nil
	}
	return true, c.err
}
