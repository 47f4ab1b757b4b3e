package editor

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-cms-animations/animation"
	"github.com/goliatone/go-cms-animations/internal/assembler"
	"github.com/goliatone/go-cms-animations/internal/bindings"
	"github.com/goliatone/go-cms-animations/internal/logging"
	"github.com/goliatone/go-cms-animations/internal/options"
	"github.com/goliatone/go-cms-animations/pkg/interfaces"
)

// DefinitionSource is the read side of the definition catalogue.
type DefinitionSource interface {
	Get(ctx context.Context, key string) (*animation.Definition, error)
	ListEligible(ctx context.Context, blockType string) ([]*animation.Definition, error)
}

// FieldSupport reports whether blocks of blockType can store a selection.
type FieldSupport func(blockType string) bool

// Option configures the editor service.
type Option func(*Service)

// WithClock overrides the time source used to stamp bindings.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger sets the editor logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWidgets sets the widget registry used to resolve field inputs and
// validate submitted values.
func WithWidgets(widgets *animation.WidgetRegistry) Option {
	return func(s *Service) {
		if widgets != nil {
			s.widgets = widgets
		}
	}
}

// WithRedirectResolver sets how the post-save redirect URL is built.
func WithRedirectResolver(resolver RedirectResolver) Option {
	return func(s *Service) {
		if resolver != nil {
			s.redirects = resolver
		}
	}
}

// WithDescriptionRenderer replaces the Markdown renderer of the details panel.
func WithDescriptionRenderer(renderer DescriptionRenderer) Option {
	return func(s *Service) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithFieldSupport restricts which block types can store a selection. By
// default every block type can.
func WithFieldSupport(support FieldSupport) Option {
	return func(s *Service) {
		if support != nil {
			s.supports = support
		}
	}
}

// Service implements the option-entry flow used by the block editing form.
type Service struct {
	definitions DefinitionSource
	bindings    bindings.Repository
	widgets     *animation.WidgetRegistry
	renderer    DescriptionRenderer
	redirects   RedirectResolver
	supports    FieldSupport
	now         func() time.Time
	logger      interfaces.Logger
}

// NewService constructs the editor service.
func NewService(definitions DefinitionSource, store bindings.Repository, opts ...Option) *Service {
	s := &Service{
		definitions: definitions,
		bindings:    store,
		widgets:     animation.NewWidgetRegistry(),
		renderer:    NewGoldmarkRenderer(),
		supports:    func(string) bool { return true },
		now:         time.Now,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EligibleAnimations lists the enabled definitions that allow blockType,
// ordered by label. No match yields an empty slice.
func (s *Service) EligibleAnimations(ctx context.Context, blockType string) ([]*animation.Definition, error) {
	if strings.TrimSpace(blockType) == "" {
		return nil, invalidBlockContext("block type required")
	}
	return s.definitions.ListEligible(ctx, blockType)
}

// CurrentSelection returns the animation key stored for blockID. The boolean
// is false when the block has no binding or no selection.
func (s *Service) CurrentSelection(ctx context.Context, blockID string) (string, bool, error) {
	if strings.TrimSpace(blockID) == "" {
		return "", false, invalidBlockContext("block id required")
	}
	binding, err := s.binding(ctx, blockID)
	if err != nil {
		return "", false, err
	}
	if !binding.Bound() {
		return "", false, nil
	}
	return binding.AnimationKey, true, nil
}

// FieldDescriptors projects the fields of animationKey for blockID. Stored
// option values are used only when the block's stored selection is the same
// animation; otherwise every field shows its default.
func (s *Service) FieldDescriptors(ctx context.Context, animationKey, blockID string) ([]FieldDescriptor, error) {
	if strings.TrimSpace(blockID) == "" {
		return nil, invalidBlockContext("block id required")
	}
	definition, err := s.definitions.Get(ctx, animationKey)
	if err != nil {
		return nil, err
	}
	binding, err := s.binding(ctx, blockID)
	if err != nil {
		return nil, err
	}
	return s.describe(definition, binding), nil
}

// BuildSelectForm assembles the editing form of block. pending is the
// selection the editor made in the current session and wins over the stored
// one when non-nil.
func (s *Service) BuildSelectForm(ctx context.Context, block BlockContext, pending *string) (*SelectForm, error) {
	if err := validateBlock(block); err != nil {
		return nil, err
	}
	logger := logging.WithBlockContext(s.logger.WithContext(ctx), block.BlockID, "")

	form := &SelectForm{
		BlockID:      block.BlockID,
		SectionLabel: assembler.SectionLabel(&assembler.Block{ID: block.BlockID, Title: block.Title}),
	}

	eligible, err := s.definitions.ListEligible(ctx, block.BlockType)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		form.Empty = true
		form.Message = emptyStateMessage
		logger.Debug("editor.form.empty", "block_type", block.BlockType)
		return form, nil
	}

	form.Options = make([]Choice, 0, len(eligible)+1)
	form.Options = append(form.Options, NoneChoice())
	byKey := make(map[string]*animation.Definition, len(eligible))
	for _, definition := range eligible {
		form.Options = append(form.Options, Choice{Value: definition.Key, Label: definition.Label})
		byKey[definition.Key] = definition
	}

	binding, err := s.binding(ctx, block.BlockID)
	if err != nil {
		return nil, err
	}
	selected := ""
	if binding.Bound() {
		selected = binding.AnimationKey
	}
	if pending != nil {
		selected = strings.TrimSpace(*pending)
	}
	if selected == "" {
		return form, nil
	}

	definition, ok := byKey[selected]
	if !ok {
		logger.Debug("editor.form.selection_ineligible", "animation", selected)
		return form, nil
	}
	form.Selected = selected
	form.Fields = s.describe(definition, binding)

	details, err := buildDetails(definition, s.renderer)
	if err != nil {
		logger.Warn("editor.details.render_failed", "animation", selected, "error", err)
	} else {
		form.Details = details
	}
	return form, nil
}

// Details renders the information panel of animationKey.
func (s *Service) Details(ctx context.Context, animationKey string) (*Details, error) {
	definition, err := s.definitions.Get(ctx, animationKey)
	if err != nil {
		return nil, err
	}
	return buildDetails(definition, s.renderer)
}

func (s *Service) describe(definition *animation.Definition, binding *animation.Binding) []FieldDescriptor {
	var stored map[string]string
	if binding != nil && binding.AnimationKey == definition.Key {
		stored = options.Decode(binding.Options)
	}

	descriptors := make([]FieldDescriptor, 0, len(definition.Fields))
	for _, field := range definition.Fields {
		descriptor := FieldDescriptor{
			ID:          field.ID,
			Widget:      field.Widget,
			Label:       field.Label,
			Description: field.Description,
			Value:       field.Default,
		}
		if widget, err := s.widgets.Resolve(field.Widget); err == nil {
			descriptor.Input = widget.Input
		}
		if value, ok := stored[field.ID]; ok {
			descriptor.Value = value
			descriptor.FromBinding = true
		}
		descriptors = append(descriptors, descriptor)
	}
	return descriptors
}

// binding returns the stored binding of blockID, or nil when there is none.
func (s *Service) binding(ctx context.Context, blockID string) (*animation.Binding, error) {
	binding, err := s.bindings.GetByBlockID(ctx, blockID)
	if err != nil {
		if animation.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return binding, nil
}

func validateBlock(block BlockContext) error {
	if strings.TrimSpace(block.BlockID) == "" {
		return invalidBlockContext("block id required")
	}
	if strings.TrimSpace(block.BlockType) == "" {
		return invalidBlockContext("block type required")
	}
	return nil
}
