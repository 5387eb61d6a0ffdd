package modelstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultRefreshInterval = 300 * time.Second

// Handle is one loaded model. A reload publishes a new Handle; existing
// handles are never modified.
type Handle struct {
	Model      Model
	LoadedAt   time.Time
	Generation uint64
}

// Cache holds the current model and reloads it when it is older than the
// refresh interval. It is safe for concurrent use.
type Cache struct {
	loader   Loader
	interval time.Duration
	clock    func() time.Time
	logger   *zap.Logger

	mu          sync.RWMutex
	handle      *Handle
	generations uint64
}

func NewCache(loader Loader, interval time.Duration, clock func() time.Time, logger *zap.Logger) *Cache {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{loader: loader, interval: interval, clock: clock, logger: logger}
}

// Get returns the cached model, loading it first when none is cached, when it
// has expired or when forceRefresh is set.
func (c *Cache) Get(ctx context.Context, forceRefresh bool) (*Handle, error) {
	return c.load(ctx, c.clock(), forceRefresh)
}

// GetOrLoad is Get against an explicit time.
func (c *Cache) GetOrLoad(ctx context.Context, now time.Time) (*Handle, error) {
	return c.load(ctx, now, false)
}

func (c *Cache) load(ctx context.Context, now time.Time, force bool) (*Handle, error) {
	if !force {
		c.mu.RLock()
		h := c.handle
		fresh := c.freshLocked(now)
		c.mu.RUnlock()
		if fresh {
			return h, nil
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have reloaded while we waited for the lock
	if !force && c.freshLocked(now) {
		return c.handle, nil
	}

	m, err := c.loader.Load(ctx)
	if err != nil {
		c.logger.Error("error loading model", zap.Error(err))
		return nil, fmt.Errorf("load model: %w", err)
	}

	c.generations++
	c.handle = &Handle{Model: m, LoadedAt: now, Generation: c.generations}
	c.logger.Info("model refreshed",
		zap.String("version", m.Version()),
		zap.Uint64("generation", c.generations),
	)
	return c.handle, nil
}

func (c *Cache) freshLocked(now time.Time) bool {
	return c.handle != nil && now.Sub(c.handle.LoadedAt) <= c.interval
}

// Generations reports how many times a model has been loaded.
func (c *Cache) Generations() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations
}
