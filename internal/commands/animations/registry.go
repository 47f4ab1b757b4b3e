package animationscmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-cms-animations/internal/animations"
	"github.com/goliatone/go-cms-animations/internal/commands"
	"github.com/goliatone/go-cms-animations/pkg/interfaces"
)

// CommandRegistry receives the built handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the registration function of go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the animation command handlers.
type HandlerSet struct {
	SaveBinding         *SaveBindingHandler
	SyncDefinitions     *SyncDefinitionsHandler
	LoadDefinitionFiles *LoadDefinitionFilesHandler
}

// Option customises handler construction.
type Option func(*registrationOptions)

type registrationOptions struct {
	saveOpts []commands.HandlerOption[SaveBindingCommand]
	syncOpts []commands.HandlerOption[SyncDefinitionsCommand]
	loadOpts []commands.HandlerOption[LoadDefinitionFilesCommand]
}

func WithSaveBindingOptions(opts ...commands.HandlerOption[SaveBindingCommand]) Option {
	return func(cfg *registrationOptions) { cfg.saveOpts = append(cfg.saveOpts, opts...) }
}

func WithSyncDefinitionsOptions(opts ...commands.HandlerOption[SyncDefinitionsCommand]) Option {
	return func(cfg *registrationOptions) { cfg.syncOpts = append(cfg.syncOpts, opts...) }
}

func WithLoadDefinitionFilesOptions(opts ...commands.HandlerOption[LoadDefinitionFilesCommand]) Option {
	return func(cfg *registrationOptions) { cfg.loadOpts = append(cfg.loadOpts, opts...) }
}

// RegisterAnimationCommands builds the handlers and, when reg is not nil,
// registers them in save, sync, load order.
func RegisterAnimationCommands(reg CommandRegistry, editorService BindingEditor, definitions animations.Service, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if editorService == nil {
		return nil, errors.New("animations command registration: editor service is nil")
	}
	if definitions == nil {
		return nil, errors.New("animations command registration: definitions service is nil")
	}
	cfg := registrationOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "animations")
	set := &HandlerSet{
		SaveBinding:         NewSaveBindingHandler(editorService, logger, cfg.saveOpts...),
		SyncDefinitions:     NewSyncDefinitionsHandler(definitions, logger, cfg.syncOpts...),
		LoadDefinitionFiles: NewLoadDefinitionFilesHandler(definitions, logger, cfg.loadOpts...),
	}
	if reg != nil {
		for _, handler := range []any{set.SaveBinding, set.SyncDefinitions, set.LoadDefinitionFiles} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// RegisterSyncCron schedules handler with cfg. The handler runs with a
// background context.
func RegisterSyncCron(reg CronRegistrar, handler *SyncDefinitionsHandler, cfg command.HandlerConfig) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), SyncDefinitionsCommand{})
	})
}
