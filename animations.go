package animations

import (
	"context"

	"github.com/goliatone/go-cms-animations/animation"
	defs "github.com/goliatone/go-cms-animations/internal/animations"
	"github.com/goliatone/go-cms-animations/internal/assembler"
	animationscmd "github.com/goliatone/go-cms-animations/internal/commands/animations"
	"github.com/goliatone/go-cms-animations/internal/di"
	"github.com/goliatone/go-cms-animations/internal/editor"
	"github.com/goliatone/go-cms-animations/internal/options"
)

// DefinitionService exports the definition admin contract.
type DefinitionService = defs.Service

// RegisterDefinitionInput exports the input of DefinitionService.Register.
type RegisterDefinitionInput = defs.RegisterInput

// UpdateDefinitionInput exports the input of DefinitionService.Update.
type UpdateDefinitionInput = defs.UpdateInput

// Page and Block describe the rendered page tree handed to PageScript.
type (
	Page  = assembler.Page
	Block = assembler.Block
)

// Assembler exports the pure script assembler.
type Assembler = *assembler.Assembler

// PageScriptService exports the page script aggregator.
type PageScriptService = *assembler.Service

// EditorService exports the option-entry flow of the block editing form.
type EditorService = *editor.Service

// Editor DTOs.
type (
	BlockContext    = editor.BlockContext
	SelectForm      = editor.SelectForm
	FieldDescriptor = editor.FieldDescriptor
	SubmitInput     = editor.SubmitInput
	SubmitResult    = editor.SubmitResult
)

// OptionValues is the ordered key/value list stored behind an option string.
type OptionValues = options.Values

// OptionPair is one entry of OptionValues.
type OptionPair = options.Pair

// CommandHandlers exports the go-command handlers of the module.
type CommandHandlers = *animationscmd.HandlerSet

// Command messages.
type (
	SaveBindingCommand         = animationscmd.SaveBindingCommand
	SyncDefinitionsCommand     = animationscmd.SyncDefinitionsCommand
	LoadDefinitionFilesCommand = animationscmd.LoadDefinitionFilesCommand
)

// Option customises the module container.
type Option = di.Option

var (
	WithBunDB                = di.WithBunDB
	WithCache                = di.WithCache
	WithLoggerProvider       = di.WithLoggerProvider
	WithRandomSource         = di.WithRandomSource
	WithClock                = di.WithClock
	WithWidgetRegistry       = di.WithWidgetRegistry
	WithDefinitionRepository = di.WithDefinitionRepository
	WithBindingRepository    = di.WithBindingRepository
	WithRedirectResolver     = di.WithRedirectResolver
	WithCommandRegistry      = di.WithCommandRegistry
)

// Module is the top level façade of the animations runtime.
type Module struct {
	container *di.Container
}

// New builds a module from cfg. The embedded migrations are applied by
// Bootstrap when cfg.Storage.AutoMigrate is set.
func New(cfg Config, opts ...Option) (*Module, error) {
	all := append([]Option{di.WithMigrations(MigrationsFS())}, opts...)
	container, err := di.NewContainer(cfg, all...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Bootstrap migrates storage when configured and registers the configured
// definitions and definition files. It is safe to call more than once.
func (m *Module) Bootstrap(ctx context.Context) error {
	return m.container.Bootstrap(ctx)
}

// Close releases resources the module opened itself.
func (m *Module) Close() error {
	return m.container.Close()
}

// Container exposes the DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Definitions() DefinitionService {
	return m.container.DefinitionService()
}

func (m *Module) Widgets() *animation.WidgetRegistry {
	return m.container.DefinitionService().Widgets()
}

func (m *Module) Assembler() Assembler {
	return m.container.Assembler()
}

func (m *Module) PageScripts() PageScriptService {
	return m.container.PageScripts()
}

func (m *Module) Editor() EditorService {
	return m.container.EditorService()
}

func (m *Module) Commands() CommandHandlers {
	return m.container.Commands()
}

// PageScript returns the script element of page.
func (m *Module) PageScript(ctx context.Context, page *Page) (string, error) {
	return m.container.PageScripts().PageScript(ctx, page)
}
