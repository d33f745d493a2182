package ports

import (
	"context"

	"courier-bridge/internal/core/courier"
	"courier-bridge/internal/features/statuses/domain"
)

// DefinitionSource fetches the status definitions from the courier.
type DefinitionSource interface {
	StatusDefinitions(ctx context.Context) ([]courier.StatusDefinition, error)
}

// DefinitionRepository persists the definition set as a single unit.
type DefinitionRepository interface {
	// Load returns the stored set, or nil when nothing is stored.
	Load(ctx context.Context) (*domain.Set, error)
	Save(ctx context.Context, set *domain.Set) error
}
