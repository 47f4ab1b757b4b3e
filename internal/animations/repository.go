package animations

import (
	"context"

	"github.com/goliatone/go-cms-animations/animation"
	"github.com/google/uuid"
)

// DefinitionRepository exposes persistence operations for animation definitions.
type DefinitionRepository interface {
	Create(ctx context.Context, definition *animation.Definition) (*animation.Definition, error)
	GetByID(ctx context.Context, id uuid.UUID) (*animation.Definition, error)
	GetByKey(ctx context.Context, key string) (*animation.Definition, error)
	// List returns every definition ordered by label.
	List(ctx context.Context) ([]*animation.Definition, error)
	// ListEligible returns enabled definitions that allow blockType, ordered
	// by label, in a single query.
	ListEligible(ctx context.Context, blockType string) ([]*animation.Definition, error)
	// ListByKeys returns the definitions registered under keys. Missing keys
	// are skipped.
	ListByKeys(ctx context.Context, keys []string) ([]*animation.Definition, error)
	Update(ctx context.Context, definition *animation.Definition) (*animation.Definition, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const definitionResource = "animation_definition"
