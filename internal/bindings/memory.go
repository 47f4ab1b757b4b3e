package bindings

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-animations/animation"
	"github.com/goliatone/go-cms-animations/internal/identity"
)

// NewMemoryRepository constructs an in-memory binding repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{byBlock: make(map[string]*animation.Binding)}
}

type memoryRepository struct {
	mu      sync.RWMutex
	byBlock map[string]*animation.Binding
}

func (m *memoryRepository) GetByBlockID(_ context.Context, blockID string) (*animation.Binding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byBlock[blockID]
	if !ok {
		return nil, &animation.NotFoundError{Resource: bindingResource, Key: blockID}
	}
	return cloneBinding(record), nil
}

func (m *memoryRepository) Save(_ context.Context, binding *animation.Binding) (*animation.Binding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneBinding(binding)
	if existing, ok := m.byBlock[cloned.BlockID]; ok {
		cloned.ID = existing.ID
		cloned.CreatedAt = existing.CreatedAt
	} else if cloned.ID == uuid.Nil {
		cloned.ID = identity.BindingUUID(cloned.BlockID)
	}
	m.byBlock[cloned.BlockID] = cloned
	return cloneBinding(cloned), nil
}

func (m *memoryRepository) ListByAnimation(_ context.Context, animationKey string) ([]*animation.Binding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*animation.Binding
	for _, record := range m.byBlock {
		if record.AnimationKey == animationKey {
			records = append(records, cloneBinding(record))
		}
	}
	slices.SortFunc(records, func(a, b *animation.Binding) int {
		return cmp.Compare(a.BlockID, b.BlockID)
	})
	return records, nil
}

func (m *memoryRepository) Delete(_ context.Context, blockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byBlock[blockID]; !ok {
		return &animation.NotFoundError{Resource: bindingResource, Key: blockID}
	}
	delete(m.byBlock, blockID)
	return nil
}

func cloneBinding(src *animation.Binding) *animation.Binding {
	if src == nil {
		return nil
	}
	cloned := *src
	return &cloned
}
