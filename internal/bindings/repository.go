package bindings

import (
	"context"

	"github.com/goliatone/go-cms-animations/animation"
)

// Repository persists the animation selected for each block.
type Repository interface {
	// GetByBlockID returns the binding of blockID or an animation.NotFoundError.
	GetByBlockID(ctx context.Context, blockID string) (*animation.Binding, error)
	// Save inserts or replaces the binding of binding.BlockID.
	Save(ctx context.Context, binding *animation.Binding) (*animation.Binding, error)
	// ListByAnimation returns the bindings that reference animationKey,
	// ordered by block ID.
	ListByAnimation(ctx context.Context, animationKey string) ([]*animation.Binding, error)
	Delete(ctx context.Context, blockID string) error
}

const bindingResource = "animation_binding"
