package animations

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-cms-animations/animation"
)

// NewDefinitionStore creates the generic go-repository-bun store for definitions.
func NewDefinitionStore(db *bun.DB) repository.Repository[*animation.Definition] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*animation.Definition]{
		NewRecord:          func() *animation.Definition { return &animation.Definition{} },
		GetID:              func(def *animation.Definition) uuid.UUID { return def.ID },
		SetID:              func(def *animation.Definition, id uuid.UUID) { def.ID = id },
		GetIdentifier:      func() string { return "key" },
		GetIdentifierValue: func(def *animation.Definition) string { return def.Key },
	})
}

// BunDefinitionRepository implements DefinitionRepository with optional
// caching. Lookups by id or key go through repo; list queries run on raw, since
// their criteria live in query processors the cache key cannot see.
type BunDefinitionRepository struct {
	db   *bun.DB
	repo repository.Repository[*animation.Definition]
	raw  repository.Repository[*animation.Definition]
}

// NewBunDefinitionRepository creates a definition repository without caching.
func NewBunDefinitionRepository(db *bun.DB) *BunDefinitionRepository {
	return NewBunDefinitionRepositoryWithCache(db, nil, nil)
}

// NewBunDefinitionRepositoryWithCache creates a definition repository with caching.
func NewBunDefinitionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunDefinitionRepository {
	raw := NewDefinitionStore(db)
	base := raw
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(raw, cacheService, serializer)
	}
	return &BunDefinitionRepository{db: db, repo: base, raw: raw}
}

func (r *BunDefinitionRepository) Create(ctx context.Context, definition *animation.Definition) (*animation.Definition, error) {
	record, err := r.repo.Create(ctx, definition)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunDefinitionRepository) GetByID(ctx context.Context, id uuid.UUID) (*animation.Definition, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, definitionResource, id.String())
	}
	return record, nil
}

func (r *BunDefinitionRepository) GetByKey(ctx context.Context, key string) (*animation.Definition, error) {
	record, err := r.repo.GetByIdentifier(ctx, key)
	if err != nil {
		return nil, mapRepositoryError(err, definitionResource, key)
	}
	return record, nil
}

func (r *BunDefinitionRepository) List(ctx context.Context) ([]*animation.Definition, error) {
	records, _, err := r.raw.List(ctx, repository.SelectRawProcessor(orderByLabel))
	return records, err
}

func (r *BunDefinitionRepository) ListEligible(ctx context.Context, blockType string) ([]*animation.Definition, error) {
	records, _, err := r.raw.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.status = ?", animation.StatusEnabled)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return allowsBlockType(q, r.dialectName(), blockType)
		}),
		repository.SelectRawProcessor(orderByLabel),
	)
	return records, err
}

func (r *BunDefinitionRepository) ListByKeys(ctx context.Context, keys []string) ([]*animation.Definition, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	records, _, err := r.raw.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.key IN (?)", bun.In(keys))
	}))
	return records, err
}

func (r *BunDefinitionRepository) Update(ctx context.Context, definition *animation.Definition) (*animation.Definition, error) {
	updated, err := r.repo.Update(ctx, definition,
		repository.UpdateByID(definition.ID.String()),
		repository.UpdateColumns(
			"key",
			"label",
			"description",
			"icon",
			"status",
			"allowed_block_types",
			"fields",
			"code",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, definitionResource, definition.Key)
	}
	return updated, nil
}

// Delete removes the definition with id. The stored record is passed to the
// store so cached lookups by key are dropped as well.
func (r *BunDefinitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := r.raw.GetByID(ctx, id.String())
	if err != nil {
		return mapRepositoryError(err, definitionResource, id.String())
	}
	return r.repo.Delete(ctx, existing)
}

func (r *BunDefinitionRepository) dialectName() dialect.Name {
	if r.db == nil {
		return dialect.Invalid
	}
	return r.db.Dialect().Name()
}

// allowsBlockType filters on membership in the allowed_block_types JSON array.
func allowsBlockType(q *bun.SelectQuery, name dialect.Name, blockType string) *bun.SelectQuery {
	if name == dialect.PG {
		return q.Where("jsonb_exists(?TableAlias.allowed_block_types, ?)", blockType)
	}
	return q.Where("EXISTS (SELECT 1 FROM json_each(?TableAlias.allowed_block_types) AS allowed WHERE allowed.value = ?)", blockType)
}

func orderByLabel(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.label ASC, ?TableAlias.key ASC")
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
