package animations

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/goliatone/go-cms-animations/animation"
	"github.com/google/uuid"
)

// NewMemoryDefinitionRepository constructs an in-memory definition repository.
func NewMemoryDefinitionRepository() DefinitionRepository {
	return &memoryDefinitionRepository{
		byID:  make(map[uuid.UUID]*animation.Definition),
		byKey: make(map[string]uuid.UUID),
	}
}

type memoryDefinitionRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*animation.Definition
	byKey map[string]uuid.UUID
}

func (m *memoryDefinitionRepository) Create(_ context.Context, definition *animation.Definition) (*animation.Definition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneDefinition(definition)
	m.byID[cloned.ID] = cloned
	m.byKey[cloned.Key] = cloned.ID
	return cloneDefinition(cloned), nil
}

func (m *memoryDefinitionRepository) GetByID(_ context.Context, id uuid.UUID) (*animation.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &animation.NotFoundError{Resource: definitionResource, Key: id.String()}
	}
	return cloneDefinition(record), nil
}

func (m *memoryDefinitionRepository) GetByKey(_ context.Context, key string) (*animation.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byKey[key]
	if !ok {
		return nil, &animation.NotFoundError{Resource: definitionResource, Key: key}
	}
	return cloneDefinition(m.byID[id]), nil
}

func (m *memoryDefinitionRepository) List(_ context.Context) ([]*animation.Definition, error) {
	return m.collect(func(*animation.Definition) bool { return true }), nil
}

func (m *memoryDefinitionRepository) ListEligible(_ context.Context, blockType string) ([]*animation.Definition, error) {
	return m.collect(func(record *animation.Definition) bool {
		return record.Enabled() && record.AllowsBlockType(blockType)
	}), nil
}

func (m *memoryDefinitionRepository) ListByKeys(_ context.Context, keys []string) ([]*animation.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*animation.Definition, 0, len(keys))
	for _, key := range keys {
		if id, ok := m.byKey[key]; ok {
			records = append(records, cloneDefinition(m.byID[id]))
		}
	}
	return records, nil
}

func (m *memoryDefinitionRepository) Update(_ context.Context, definition *animation.Definition) (*animation.Definition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[definition.ID]
	if !ok {
		return nil, &animation.NotFoundError{Resource: definitionResource, Key: definition.ID.String()}
	}
	if existing.Key != definition.Key {
		delete(m.byKey, existing.Key)
	}
	cloned := cloneDefinition(definition)
	m.byID[cloned.ID] = cloned
	m.byKey[cloned.Key] = cloned.ID
	return cloneDefinition(cloned), nil
}

func (m *memoryDefinitionRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &animation.NotFoundError{Resource: definitionResource, Key: id.String()}
	}
	delete(m.byKey, existing.Key)
	delete(m.byID, id)
	return nil
}

func (m *memoryDefinitionRepository) collect(keep func(*animation.Definition) bool) []*animation.Definition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*animation.Definition, 0, len(m.byID))
	for _, record := range m.byID {
		if keep(record) {
			records = append(records, cloneDefinition(record))
		}
	}
	sortByLabel(records)
	return records
}

func sortByLabel(records []*animation.Definition) {
	slices.SortFunc(records, func(a, b *animation.Definition) int {
		return cmp.Or(cmp.Compare(a.Label, b.Label), cmp.Compare(a.Key, b.Key))
	})
}

func cloneDefinition(src *animation.Definition) *animation.Definition {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.AllowedBlockTypes = slices.Clone(src.AllowedBlockTypes)
	cloned.Fields = slices.Clone(src.Fields)
	cloned.Description = cloneString(src.Description)
	cloned.Icon = cloneString(src.Icon)
	return &cloned
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
