package bindings

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-animations/animation"
	"github.com/goliatone/go-cms-animations/internal/identity"
)

// NewBindingStore creates the generic go-repository-bun store for bindings.
func NewBindingStore(db *bun.DB) repository.Repository[*animation.Binding] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*animation.Binding]{
		NewRecord:          func() *animation.Binding { return &animation.Binding{} },
		GetID:              func(b *animation.Binding) uuid.UUID { return b.ID },
		SetID:              func(b *animation.Binding, id uuid.UUID) { b.ID = id },
		GetIdentifier:      func() string { return "block_id" },
		GetIdentifierValue: func(b *animation.Binding) string { return b.BlockID },
	})
}

// BunRepository implements Repository with optional caching. Only lookups by
// block id are cached; ListByAnimation queries raw.
type BunRepository struct {
	repo repository.Repository[*animation.Binding]
	raw  repository.Repository[*animation.Binding]
}

// NewBunRepository creates a binding repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a binding repository with caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	raw := NewBindingStore(db)
	base := raw
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(raw, cacheService, serializer)
	}
	return &BunRepository{repo: base, raw: raw}
}

func (r *BunRepository) GetByBlockID(ctx context.Context, blockID string) (*animation.Binding, error) {
	record, err := r.repo.GetByIdentifier(ctx, blockID)
	if err != nil {
		return nil, mapRepositoryError(err, bindingResource, blockID)
	}
	return record, nil
}

func (r *BunRepository) Save(ctx context.Context, binding *animation.Binding) (*animation.Binding, error) {
	existing, err := r.GetByBlockID(ctx, binding.BlockID)
	if err != nil && !animation.IsNotFound(err) {
		return nil, err
	}
	if existing == nil {
		record := *binding
		if record.ID == uuid.Nil {
			record.ID = identity.BindingUUID(record.BlockID)
		}
		created, err := r.repo.Create(ctx, &record)
		if err != nil {
			return nil, mapRepositoryError(err, bindingResource, binding.BlockID)
		}
		return created, nil
	}

	record := *binding
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	updated, err := r.repo.Update(ctx, &record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"block_type",
			"animation_key",
			"options",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, bindingResource, binding.BlockID)
	}
	return updated, nil
}

func (r *BunRepository) ListByAnimation(ctx context.Context, animationKey string) ([]*animation.Binding, error) {
	records, _, err := r.raw.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.animation_key = ?", animationKey).
			OrderExpr("?TableAlias.block_id ASC")
	}))
	return records, err
}

func (r *BunRepository) Delete(ctx context.Context, blockID string) error {
	existing, err := r.GetByBlockID(ctx, blockID)
	if err != nil {
		return err
	}
	return r.repo.Delete(ctx, existing)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &animation.NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
