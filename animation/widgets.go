package animation

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Widget is one kind of form input a field can use. ValueSchema is a JSON
// schema fragment describing the string values the widget produces.
type Widget struct {
	Type        string
	Input       string
	ValueSchema map[string]any
}

// Built-in widget types.
const (
	WidgetTextfield = "textfield"
	WidgetTextarea  = "textarea"
	WidgetNumber    = "number"
	WidgetRange     = "range"
	WidgetColor     = "color"
	WidgetCheckbox  = "checkbox"
)

// numericPattern accepts a blank value so optional numeric fields can be left
// empty.
const numericPattern = `^(|-?[0-9]*\.?[0-9]+)$`

// fieldIDForbidden are the option string and template token delimiters.
const fieldIDForbidden = "|=[]"

func builtinWidgets() []Widget {
	return []Widget{
		{Type: WidgetTextfield, Input: "text", ValueSchema: map[string]any{"type": "string"}},
		{Type: WidgetTextarea, Input: "textarea", ValueSchema: map[string]any{"type": "string"}},
		{Type: WidgetNumber, Input: "number", ValueSchema: map[string]any{"type": "string", "pattern": numericPattern}},
		{Type: WidgetRange, Input: "range", ValueSchema: map[string]any{"type": "string", "pattern": numericPattern}},
		{Type: WidgetColor, Input: "color", ValueSchema: map[string]any{"type": "string", "pattern": `^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`}},
		{Type: WidgetCheckbox, Input: "checkbox", ValueSchema: map[string]any{"type": "string", "enum": []any{"", "0", "1"}}},
	}
}

// WidgetRegistry resolves widget type strings to Widget kinds.
type WidgetRegistry struct {
	mu    sync.RWMutex
	kinds map[string]Widget
}

// NewWidgetRegistry returns a registry preloaded with the built-in widgets.
func NewWidgetRegistry() *WidgetRegistry {
	r := &WidgetRegistry{kinds: make(map[string]Widget)}
	for _, w := range builtinWidgets() {
		r.kinds[w.Type] = w
	}
	return r
}

// Register adds a host-defined widget kind.
func (r *WidgetRegistry) Register(w Widget) error {
	key := normalizeWidgetType(w.Type)
	if key == "" {
		return fmt.Errorf("%w: empty type", ErrUnknownWidget)
	}
	w.Type = key
	if w.ValueSchema == nil {
		w.ValueSchema = map[string]any{"type": "string"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateWidget, key)
	}
	r.kinds[key] = w
	return nil
}

// Resolve returns the widget registered for widgetType.
func (r *WidgetRegistry) Resolve(widgetType string) (Widget, error) {
	key := normalizeWidgetType(widgetType)
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.kinds[key]
	if !ok {
		return Widget{}, fmt.Errorf("%w: %q", ErrUnknownWidget, widgetType)
	}
	return w, nil
}

// Types lists the registered widget types in name order.
func (r *WidgetRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.kinds))
	for key := range r.kinds {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// ValidateFields checks a field schema: ids present, unique and free of
// surrounding space and delimiters, not one of the reserved tokens, and every
// widget type known to the registry.
func (r *WidgetRegistry) ValidateFields(fields []Field) error {
	seen := make(map[string]struct{}, len(fields))
	for i, field := range fields {
		id := field.ID
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: position %d", ErrFieldIDRequired, i)
		}
		if id != strings.TrimSpace(id) || strings.ContainsAny(id, fieldIDForbidden) {
			return fmt.Errorf("%w: %q", ErrFieldIDInvalid, id)
		}
		if id == TokenSectionID || id == TokenTimeline {
			return fmt.Errorf("%w: %s", ErrFieldIDReserved, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s", ErrFieldDuplicate, id)
		}
		seen[id] = struct{}{}
		if _, err := r.Resolve(field.Widget); err != nil {
			return fmt.Errorf("field %s: %w", id, err)
		}
	}
	return nil
}

func normalizeWidgetType(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
