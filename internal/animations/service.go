package animations

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-cms-animations/animation"
	"github.com/goliatone/go-cms-animations/internal/identity"
	"github.com/goliatone/go-cms-animations/internal/logging"
	fieldvalidation "github.com/goliatone/go-cms-animations/internal/validation"
	"github.com/goliatone/go-cms-animations/pkg/interfaces"
)

// Service manages the catalogue of animation definitions.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*animation.Definition, error)
	Update(ctx context.Context, input UpdateInput) (*animation.Definition, error)
	SetStatus(ctx context.Context, key string, status animation.Status) (*animation.Definition, error)
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (*animation.Definition, error)
	List(ctx context.Context) ([]*animation.Definition, error)
	ListEligible(ctx context.Context, blockType string) ([]*animation.Definition, error)
	ListByKeys(ctx context.Context, keys []string) ([]*animation.Definition, error)
	SyncRegistry(ctx context.Context) error
	Widgets() *animation.WidgetRegistry
}

// RegisterInput describes a new definition. Key defaults to the label.
type RegisterInput struct {
	Key               string            `json:"key" yaml:"key"`
	Label             string            `json:"label" yaml:"label"`
	Description       *string           `json:"description,omitempty" yaml:"description"`
	Icon              *string           `json:"icon,omitempty" yaml:"icon"`
	Status            animation.Status  `json:"status,omitempty" yaml:"status"`
	AllowedBlockTypes []string          `json:"allowed_block_types" yaml:"allowed_block_types"`
	Fields            []animation.Field `json:"fields" yaml:"fields"`
	Code              string            `json:"code" yaml:"code"`
}

// UpdateInput changes an existing definition. Nil members are left as they are.
type UpdateInput struct {
	Key               string
	Label             *string
	Description       *string
	Icon              *string
	AllowedBlockTypes []string
	Fields            []animation.Field
	Code              *string
}

var (
	ErrDefinitionKeyRequired   = errors.New("animations: definition key required")
	ErrDefinitionInvalid       = errors.New("animations: definition invalid")
	ErrDefinitionExists        = errors.New("animations: definition already exists")
	ErrDefinitionFieldsInvalid = errors.New("animations: definition fields invalid")
	ErrStatusInvalid           = errors.New("animations: status must be enabled or disabled")
)

// IDGenerator derives the row id of a definition from its key.
type IDGenerator func(key string) uuid.UUID

// ServiceOption configures the definition service.
type ServiceOption func(*service)

// WithClock overrides the time source used by the service.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithRegistry injects definitions that SyncRegistry keeps registered.
func WithRegistry(reg *Registry) ServiceOption {
	return func(s *service) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithWidgets replaces the widget registry used to validate field schemas.
func WithWidgets(widgets *animation.WidgetRegistry) ServiceOption {
	return func(s *service) {
		if widgets != nil {
			s.widgets = widgets
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	definitions DefinitionRepository
	registry    *Registry
	widgets     *animation.WidgetRegistry
	now         func() time.Time
	id          IDGenerator
	logger      interfaces.Logger
}

// NewService constructs a definition service.
func NewService(definitions DefinitionRepository, opts ...ServiceOption) Service {
	s := &service{
		definitions: definitions,
		widgets:     animation.NewWidgetRegistry(),
		now:         time.Now,
		id:          identity.AnimationUUID,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Widgets() *animation.WidgetRegistry {
	return s.widgets
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*animation.Definition, error) {
	key, err := normalizeKey(input.Key, input.Label)
	if err != nil {
		return nil, err
	}
	if input.Status == "" {
		input.Status = animation.StatusEnabled
	}
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}
	input.Fields = normalizeFields(input.Fields)
	if err := s.validateFields(input.Fields); err != nil {
		return nil, err
	}

	if existing, err := s.definitions.GetByKey(ctx, key); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDefinitionExists, key)
	} else if err != nil && !animation.IsNotFound(err) {
		return nil, err
	}

	now := s.now()
	definition := &animation.Definition{
		ID:                s.id(key),
		Key:               key,
		Label:             strings.TrimSpace(input.Label),
		Description:       cloneString(input.Description),
		Icon:              cloneString(input.Icon),
		Status:            input.Status,
		AllowedBlockTypes: normalizeBlockTypes(input.AllowedBlockTypes),
		Fields:            input.Fields,
		Code:              input.Code,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.definitions.Create(ctx, definition)
	if err != nil {
		return nil, err
	}
	s.logger.WithContext(ctx).Info("definitions.registered", "animation", key, "fields", len(created.Fields))
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*animation.Definition, error) {
	definition, err := s.Get(ctx, input.Key)
	if err != nil {
		return nil, err
	}

	if input.Label != nil {
		definition.Label = strings.TrimSpace(*input.Label)
	}
	if input.Description != nil {
		definition.Description = cloneString(input.Description)
	}
	if input.Icon != nil {
		definition.Icon = cloneString(input.Icon)
	}
	if input.AllowedBlockTypes != nil {
		definition.AllowedBlockTypes = normalizeBlockTypes(input.AllowedBlockTypes)
	}
	if input.Fields != nil {
		fields := normalizeFields(input.Fields)
		if err := s.validateFields(fields); err != nil {
			return nil, err
		}
		definition.Fields = fields
	}
	if input.Code != nil {
		definition.Code = *input.Code
	}
	if err := validateRegisterInput(RegisterInput{Label: definition.Label, Code: definition.Code, Status: definition.Status}); err != nil {
		return nil, err
	}

	definition.UpdatedAt = s.now()
	updated, err := s.definitions.Update(ctx, definition)
	if err != nil {
		return nil, err
	}
	s.logger.WithContext(ctx).Info("definitions.updated", "animation", updated.Key)
	return updated, nil
}

func (s *service) SetStatus(ctx context.Context, key string, status animation.Status) (*animation.Definition, error) {
	if status != animation.StatusEnabled && status != animation.StatusDisabled {
		return nil, ErrStatusInvalid
	}
	definition, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if definition.Status == status {
		return definition, nil
	}
	definition.Status = status
	definition.UpdatedAt = s.now()
	updated, err := s.definitions.Update(ctx, definition)
	if err != nil {
		return nil, err
	}
	s.logger.WithContext(ctx).Info("definitions.status_changed", "animation", updated.Key, "status", string(status))
	return updated, nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	definition, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := s.definitions.Delete(ctx, definition.ID); err != nil {
		return err
	}
	s.logger.WithContext(ctx).Info("definitions.deleted", "animation", definition.Key)
	return nil
}

func (s *service) Get(ctx context.Context, key string) (*animation.Definition, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, ErrDefinitionKeyRequired
	}
	return s.definitions.GetByKey(ctx, trimmed)
}

func (s *service) List(ctx context.Context) ([]*animation.Definition, error) {
	return s.definitions.List(ctx)
}

func (s *service) ListEligible(ctx context.Context, blockType string) ([]*animation.Definition, error) {
	if strings.TrimSpace(blockType) == "" {
		return nil, nil
	}
	return s.definitions.ListEligible(ctx, blockType)
}

func (s *service) ListByKeys(ctx context.Context, keys []string) ([]*animation.Definition, error) {
	return s.definitions.ListByKeys(ctx, keys)
}

// SyncRegistry registers every registry entry that is not stored yet.
// Existing definitions are left untouched.
func (s *service) SyncRegistry(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.registry == nil {
		return nil
	}
	var errs []error
	for _, entry := range s.registry.List() {
		if _, err := s.Register(ctx, entry); err != nil {
			if errors.Is(err, ErrDefinitionExists) {
				continue
			}
			s.logger.WithContext(ctx).Warn("definitions.sync.failed", "animation", entry.Key, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *service) validateFields(fields []animation.Field) error {
	if err := s.widgets.ValidateFields(fields); err != nil {
		return fmt.Errorf("%w: %w", ErrDefinitionFieldsInvalid, err)
	}
	if err := fieldvalidation.ValidateDefaults(fields, s.widgets); err != nil {
		return fmt.Errorf("%w: defaults: %w", ErrDefinitionFieldsInvalid, err)
	}
	return nil
}

func validateRegisterInput(input RegisterInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Label, validation.Required),
		validation.Field(&input.Code, validation.Required),
		validation.Field(&input.Status, validation.In(animation.StatusEnabled, animation.StatusDisabled)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDefinitionInvalid, err)
	}
	return nil
}

func normalizeKey(key, label string) (string, error) {
	candidate := strings.TrimSpace(key)
	if candidate == "" {
		candidate = strings.TrimSpace(label)
	}
	if candidate == "" {
		return "", ErrDefinitionKeyRequired
	}
	normalized, err := slug.Normalize(candidate)
	if err != nil || normalized == "" {
		return "", fmt.Errorf("%w: %q", ErrDefinitionKeyRequired, candidate)
	}
	return normalized, nil
}

func normalizeBlockTypes(types []string) []string {
	out := make([]string, 0, len(types))
	for _, blockType := range types {
		trimmed := strings.TrimSpace(blockType)
		if trimmed == "" || slices.Contains(out, trimmed) {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func normalizeFields(fields []animation.Field) []animation.Field {
	out := make([]animation.Field, len(fields))
	for i, field := range fields {
		field.ID = strings.TrimSpace(field.ID)
		field.Widget = strings.ToLower(strings.TrimSpace(field.Widget))
		out[i] = field
	}
	return out
}
