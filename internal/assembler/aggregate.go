package assembler

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-animations/animation"
	"github.com/goliatone/go-cms-animations/internal/logging"
	"github.com/goliatone/go-cms-animations/internal/options"
	"github.com/goliatone/go-cms-animations/pkg/interfaces"
)

const (
	scriptOpen  = "<script>"
	scriptClose = "</script>"
)

// DefinitionSnapshotter loads the definitions referenced by a page in one query.
type DefinitionSnapshotter interface {
	ListByKeys(ctx context.Context, keys []string) ([]*animation.Definition, error)
}

// BindingLookup finds the stored binding of a block that arrives without one.
type BindingLookup interface {
	GetByBlockID(ctx context.Context, blockID string) (*animation.Binding, error)
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithRandomSource overrides the source used for timeline names.
func WithRandomSource(source RandomSource) Option {
	return func(a *Assembler) {
		if source != nil {
			a.namer = NewTimelineNamer(source)
		}
	}
}

// WithSectionPrefix overrides the prefix used to derive section anchors. An
// empty prefix uses the block ID as the anchor.
func WithSectionPrefix(prefix string) Option {
	return func(a *Assembler) {
		a.sectionPrefix = prefix
	}
}

// WithLogger sets the logger used to report skipped blocks.
func WithLogger(logger interfaces.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Assembler turns bound blocks into page script. It keeps no state between
// calls apart from its configuration.
type Assembler struct {
	namer         *TimelineNamer
	sectionPrefix string
	logger        interfaces.Logger
}

// New constructs an Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		namer:         NewTimelineNamer(nil),
		sectionPrefix: DefaultSectionPrefix,
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SectionID returns the anchor id of blockID using the configured prefix.
func (a *Assembler) SectionID(blockID string) string {
	return SectionID(a.sectionPrefix, blockID)
}

// Assemble concatenates the fragments of every bound block whose definition
// is present in definitions (keyed by animation key) and wraps the result in a
// single script element.
func (a *Assembler) Assemble(blocks []*Block, definitions map[string]*animation.Definition) string {
	var body strings.Builder
	for _, block := range blocks {
		if block == nil || !block.Binding.Bound() {
			continue
		}
		definition, ok := definitions[block.Binding.AnimationKey]
		if !ok || definition == nil {
			logging.WithBlockContext(a.logger, block.ID, block.Binding.AnimationKey).
				Debug("assembler.block.skipped", "reason", "definition_missing")
			continue
		}
		body.WriteString(a.Fragment(block, definition))
	}
	return scriptOpen + body.String() + scriptClose
}

// Fragment renders the code of a single block: the expanded template, the
// scroll refresh listener and, when needed, the eager image snippet.
func (a *Assembler) Fragment(block *Block, definition *animation.Definition) string {
	sectionID := a.SectionID(block.ID)
	timeline := a.namer.Next()
	values := resolveValues(definition, block.Binding.Options)

	var fragment strings.Builder
	fragment.WriteString(Expand(definition.Code, values, sectionID, timeline))
	fragment.WriteString(refreshSnippet(timeline))
	if needsEagerImages(sectionID, block.ID) {
		fragment.WriteString(eagerImagesSnippet(sectionID))
	}

	logging.WithBlockContext(a.logger, block.ID, definition.Key).
		Trace("assembler.block.expanded", "section_id", sectionID, "timeline", timeline)
	return fragment.String()
}

// resolveValues keeps the decoded options that match a declared field of the
// definition.
func resolveValues(definition *animation.Definition, raw string) map[string]string {
	decoded := options.Decode(raw)
	values := make(map[string]string, len(definition.Fields))
	for _, field := range definition.Fields {
		if value, ok := decoded[field.ID]; ok {
			values[field.ID] = value
		}
	}
	return values
}

// ServiceOption configures the page script service.
type ServiceOption func(*Service)

// WithContainerFields overrides the fields walked to find blocks.
func WithContainerFields(fields ...string) ServiceOption {
	return func(s *Service) {
		cleaned := make([]string, 0, len(fields))
		for _, field := range fields {
			if trimmed := strings.TrimSpace(field); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			s.containerFields = cleaned
		}
	}
}

// WithServiceLogger sets the logger used by the service.
func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBindingLookup fills in the binding of blocks that carry none from
// lookup. Missing bindings leave the block unbound.
func WithBindingLookup(lookup BindingLookup) ServiceOption {
	return func(s *Service) {
		s.bindings = lookup
	}
}

// Service produces page scripts from page trees.
type Service struct {
	assembler       *Assembler
	definitions     DefinitionSnapshotter
	bindings        BindingLookup
	containerFields []string
	logger          interfaces.Logger
}

// NewService wires an assembler to the definition store.
func NewService(assembler *Assembler, definitions DefinitionSnapshotter, opts ...ServiceOption) *Service {
	if assembler == nil {
		assembler = New()
	}
	s := &Service{
		assembler:       assembler,
		definitions:     definitions,
		containerFields: append([]string(nil), DefaultContainerFields...),
		logger:          logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assembler exposes the underlying pure assembler.
func (s *Service) Assembler() *Assembler {
	return s.assembler
}

// PageScript collects the blocks of page, snapshots the definitions they
// reference and returns the page's script element.
func (s *Service) PageScript(ctx context.Context, page *Page) (string, error) {
	blocks := CollectBlocks(page, s.containerFields)
	if err := s.attachBindings(ctx, blocks); err != nil {
		s.logger.WithContext(ctx).Error("assembler.bindings.load_failed", "error", err, "page_id", pageID(page))
		return "", err
	}
	keys := BoundKeys(blocks)

	definitions := make(map[string]*animation.Definition, len(keys))
	if len(keys) > 0 && s.definitions != nil {
		records, err := s.definitions.ListByKeys(ctx, keys)
		if err != nil {
			s.logger.WithContext(ctx).Error("assembler.definitions.load_failed", "error", err, "keys", keys)
			return "", err
		}
		for _, record := range records {
			if record != nil {
				definitions[record.Key] = record
			}
		}
	}

	script := s.assembler.Assemble(blocks, definitions)
	s.logger.WithContext(ctx).Debug("assembler.page.assembled",
		"page_id", pageID(page),
		"blocks", len(blocks),
		"animations", len(keys),
	)
	return script, nil
}

// attachBindings replaces blocks lacking a binding with copies carrying the
// stored one. The caller's tree is left untouched.
func (s *Service) attachBindings(ctx context.Context, blocks []*Block) error {
	if s.bindings == nil {
		return nil
	}
	for i, block := range blocks {
		if block.Binding != nil {
			continue
		}
		binding, err := s.bindings.GetByBlockID(ctx, block.ID)
		if err != nil {
			if animation.IsNotFound(err) {
				continue
			}
			return err
		}
		attached := *block
		attached.Binding = binding
		blocks[i] = &attached
	}
	return nil
}

func pageID(page *Page) string {
	if page == nil {
		return ""
	}
	return page.ID
}
