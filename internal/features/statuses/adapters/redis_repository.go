package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"courier-bridge/internal/core/cache"
	"courier-bridge/internal/features/statuses/domain"
)

const definitionsCacheKey = "status_definitions"

// RedisDefinitionRepository implements ports.DefinitionRepository on the cache port.
type RedisDefinitionRepository struct {
	cache cache.Cache
}

// NewRedisDefinitionRepository creates a new RedisDefinitionRepository.
func NewRedisDefinitionRepository(c cache.Cache) *RedisDefinitionRepository {
	return &RedisDefinitionRepository{
		cache: c,
	}
}

// Save stores the whole set under a single key without expiration; staleness is
// decided by the set's own timestamp.
func (r *RedisDefinitionRepository) Save(ctx context.Context, set *domain.Set) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal status definitions: %w", err)
	}

	if err := r.cache.Set(ctx, definitionsCacheKey, data, 0); err != nil {
		return fmt.Errorf("failed to save status definitions to cache: %w", err)
	}

	return nil
}

// Load retrieves the stored set. A missing key yields nil, nil.
func (r *RedisDefinitionRepository) Load(ctx context.Context) (*domain.Set, error) {
	data, err := r.cache.Get(ctx, definitionsCacheKey)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get status definitions from cache: %w", err)
	}

	var set domain.Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status definitions: %w", err)
	}

	return &set, nil
}
