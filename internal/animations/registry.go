package animations

import (
	"sort"
	"strings"
	"sync"
)

// Registry stores definitions declared by the host (configuration, definition
// files, code) so SyncRegistry can make sure they exist in storage.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]RegisterInput
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]RegisterInput)}
}

// Register adds or replaces a declared definition. Entries without a key or
// label are ignored.
func (r *Registry) Register(input RegisterInput) {
	name := canonicalKey(input.Key)
	if name == "" {
		name = canonicalKey(input.Label)
	}
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]RegisterInput)
	}
	r.entries[name] = input
}

// List returns the declared definitions ordered by key.
func (r *Registry) List() []RegisterInput {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]RegisterInput, 0, len(names))
	for _, name := range names {
		out = append(out, r.entries[name])
	}
	return out
}

// Len reports how many definitions are declared.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func canonicalKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
