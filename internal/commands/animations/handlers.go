package animationscmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-cms-animations/internal/animations"
	"github.com/goliatone/go-cms-animations/internal/commands"
	"github.com/goliatone/go-cms-animations/internal/editor"
	"github.com/goliatone/go-cms-animations/internal/logging"
	"github.com/goliatone/go-cms-animations/pkg/interfaces"
)

const (
	saveBindingOperation         = "bindings.save"
	syncDefinitionsOperation     = "definitions.sync"
	loadDefinitionFilesOperation = "definitions.load_files"
)

// ErrBindingNotSaved is returned when the editor reported a warning instead
// of storing the selection.
var ErrBindingNotSaved = errors.New("animations command: binding not saved")

var (
	_ command.Commander[SaveBindingCommand]         = (*SaveBindingHandler)(nil)
	_ command.Commander[SyncDefinitionsCommand]     = (*SyncDefinitionsHandler)(nil)
	_ command.Commander[LoadDefinitionFilesCommand] = (*LoadDefinitionFilesHandler)(nil)
)

// BindingEditor is the part of the editor service the save command drives.
type BindingEditor interface {
	Submit(ctx context.Context, input editor.SubmitInput) (editor.SubmitResult, error)
}

// SaveBindingHandler executes SaveBindingCommand.
type SaveBindingHandler struct {
	inner *commands.Handler[SaveBindingCommand]
}

// NewSaveBindingHandler builds the handler around the editor service.
func NewSaveBindingHandler(service BindingEditor, logger interfaces.Logger, opts ...commands.HandlerOption[SaveBindingCommand]) *SaveBindingHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(ctx context.Context, msg SaveBindingCommand) error {
		result, err := service.Submit(ctx, editor.SubmitInput{
			Block: editor.BlockContext{
				BlockID:   msg.BlockID,
				BlockType: msg.BlockType,
				ParentID:  msg.ParentID,
			},
			AnimationKey: msg.AnimationKey,
			Values:       msg.Options,
		})
		if err != nil {
			return err
		}
		if result.Status != editor.StatusSaved {
			return fmt.Errorf("%w: %s", ErrBindingNotSaved, result.Message)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SaveBindingCommand]{
		commands.WithLogger[SaveBindingCommand](logger),
		commands.WithOperation[SaveBindingCommand](saveBindingOperation),
		commands.WithMessageFields(func(msg SaveBindingCommand) map[string]any {
			fields := map[string]any{"block_id": msg.BlockID}
			if msg.AnimationKey != "" {
				fields["animation"] = msg.AnimationKey
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &SaveBindingHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

func (h *SaveBindingHandler) Execute(ctx context.Context, msg SaveBindingCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncDefinitionsHandler executes SyncDefinitionsCommand.
type SyncDefinitionsHandler struct {
	inner *commands.Handler[SyncDefinitionsCommand]
}

// NewSyncDefinitionsHandler builds the handler around the definitions service.
func NewSyncDefinitionsHandler(service animations.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SyncDefinitionsCommand]) *SyncDefinitionsHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(ctx context.Context, _ SyncDefinitionsCommand) error {
		return service.SyncRegistry(ctx)
	}
	handlerOpts := []commands.HandlerOption[SyncDefinitionsCommand]{
		commands.WithLogger[SyncDefinitionsCommand](logger),
		commands.WithOperation[SyncDefinitionsCommand](syncDefinitionsOperation),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &SyncDefinitionsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

func (h *SyncDefinitionsHandler) Execute(ctx context.Context, msg SyncDefinitionsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LoadDefinitionFilesHandler executes LoadDefinitionFilesCommand.
type LoadDefinitionFilesHandler struct {
	inner *commands.Handler[LoadDefinitionFilesCommand]
}

// NewLoadDefinitionFilesHandler builds the handler around the definitions
// service. Directories are read from the local filesystem.
func NewLoadDefinitionFilesHandler(service animations.Service, logger interfaces.Logger, opts ...commands.HandlerOption[LoadDefinitionFilesCommand]) *LoadDefinitionFilesHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(ctx context.Context, msg LoadDefinitionFilesCommand) error {
		inputs, err := animations.LoadDir(ctx, os.DirFS(msg.Directory), ".")
		if err != nil {
			return err
		}
		if err := animations.EnsureDefinitions(ctx, service, inputs); err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{
			"directory": msg.Directory,
			"files":     len(inputs),
		}).Info("animations.command.load_files.completed")
		return nil
	}
	handlerOpts := []commands.HandlerOption[LoadDefinitionFilesCommand]{
		commands.WithLogger[LoadDefinitionFilesCommand](logger),
		commands.WithOperation[LoadDefinitionFilesCommand](loadDefinitionFilesOperation),
		commands.WithMessageFields(func(msg LoadDefinitionFilesCommand) map[string]any {
			return map[string]any{"directory": msg.Directory}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &LoadDefinitionFilesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

func (h *LoadDefinitionFilesHandler) Execute(ctx context.Context, msg LoadDefinitionFilesCommand) error {
	return h.inner.Execute(ctx, msg)
}
