package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"courier-bridge/internal/core/apperrors"
	"courier-bridge/internal/core/logger"
	"courier-bridge/internal/features/statuses/domain"
	"courier-bridge/internal/features/statuses/ports"

	"go.uber.org/zap"
)

// Cache serves the courier status definitions. Readers share an immutable set
// that a refresh replaces as a whole.
type Cache struct {
	source ports.DefinitionSource
	repo   ports.DefinitionRepository
	now    func() time.Time
	logger *zap.Logger

	current atomic.Pointer[domain.Set]
	loaded  atomic.Bool
	// refreshMu serializes refreshes and the initial load.
	refreshMu sync.Mutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a Cache reading from source and persisting through repo.
func NewCache(source ports.DefinitionSource, repo ports.DefinitionRepository, opts ...Option) *Cache {
	c := &Cache{
		source: source,
		repo:   repo,
		now:    time.Now,
		logger: logger.Named("statuses"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// All returns the current definition set, refreshing it when forced, when fewer
// than domain.MinEntries are stored, or when older than domain.TTL. If a refresh
// caused only by age fails, the populated stale set is served instead.
func (c *Cache) All(ctx context.Context, force bool) (*domain.Set, error) {
	set := c.snapshot(ctx)

	now := c.now()
	if !force && set.Populated() && !set.Expired(now) {
		return set, nil
	}

	var fresh *domain.Set
	var err error
	if force {
		fresh, err = c.Refresh(ctx)
	} else {
		fresh, err = c.refreshStale(ctx, set)
	}
	if err != nil {
		if !force && set.Populated() {
			c.logger.Warn("Status definition refresh failed, serving stale set",
				zap.Time("updated_at", set.UpdatedAt),
				zap.Error(err),
			)
			return set, nil
		}
		return nil, err
	}
	return fresh, nil
}

// Get returns the definition of code. A code missing from the set triggers exactly
// one forced refresh before failing with *apperrors.NotFoundError.
func (c *Cache) Get(ctx context.Context, code string, force bool) (domain.Definition, error) {
	set, err := c.All(ctx, force)
	if err != nil {
		return domain.Definition{}, err
	}
	if def, ok := set.Lookup(code); ok {
		return def, nil
	}

	c.logger.Info("Unknown status code, refreshing definitions", zap.String("code", code))
	set, err = c.Refresh(ctx)
	if err != nil {
		return domain.Definition{}, err
	}
	if def, ok := set.Lookup(code); ok {
		return def, nil
	}
	return domain.Definition{}, &apperrors.NotFoundError{Kind: "status definition", Key: code}
}

// Refresh fetches the definitions from the courier, persists them and swaps them in.
func (c *Cache) Refresh(ctx context.Context) (*domain.Set, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.refresh(ctx)
}

// refreshStale refreshes a set found stale, unless a concurrent caller already
// replaced it with a usable one while this caller waited for the lock.
func (c *Cache) refreshStale(ctx context.Context, seen *domain.Set) (*domain.Set, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current := c.current.Load(); current != seen && current.Populated() && !current.Expired(c.now()) {
		return current, nil
	}
	return c.refresh(ctx)
}

// refresh must be called with refreshMu held.
func (c *Cache) refresh(ctx context.Context) (*domain.Set, error) {
	remote, err := c.source.StatusDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status definitions: %w", err)
	}

	defs := make(map[string]domain.Definition, len(remote))
	for _, r := range remote {
		if r.Code == "" {
			continue
		}
		defs[r.Code] = domain.Definition{Level: r.Level, Description: r.Description}
	}
	set := domain.NewSet(defs, c.now())

	if err := c.repo.Save(ctx, set); err != nil {
		c.logger.Error("Failed to persist status definitions", zap.Error(err))
	}

	c.current.Store(set)
	c.loaded.Store(true)

	c.logger.Info("Status definitions refreshed", zap.Int("count", len(set.Definitions)))
	return set, nil
}

// snapshot returns the in-memory set, loading the persisted one on first use.
func (c *Cache) snapshot(ctx context.Context) *domain.Set {
	if c.loaded.Load() {
		return c.current.Load()
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if !c.loaded.Load() {
		set, err := c.repo.Load(ctx)
		if err != nil {
			c.logger.Warn("Failed to load stored status definitions", zap.Error(err))
		}
		if set != nil {
			c.current.Store(set)
		}
		c.loaded.Store(true)
	}
	return c.current.Load()
}
