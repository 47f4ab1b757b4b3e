package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-cms-animations/pkg/interfaces"
)

const (
	rootModule        = "animations"
	assemblerModule   = "animations.assembler"
	editorModule      = "animations.editor"
	definitionsModule = "animations.definitions"
	bindingsModule    = "animations.bindings"
)

// ModuleLogger returns a module-scoped logger. A nil provider, or a provider
// that has nothing for the module, yields the no-op logger. The module name is
// attached as the "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	var logger interfaces.Logger = NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// AssemblerLogger returns the logger used while building page scripts.
func AssemblerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, assemblerModule)
}

// EditorLogger returns the logger used by the option-entry flow.
func EditorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, editorModule)
}

// DefinitionsLogger returns the logger used by the definition admin service.
func DefinitionsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, definitionsModule)
}

// BindingsLogger returns the logger used by block binding persistence.
func BindingsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, bindingsModule)
}

// WithFields attaches structured fields when the logger implements
// interfaces.FieldsLogger, otherwise it returns the logger unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fieldsLogger.WithFields(copied)
}

// WithBlockContext annotates the logger with the block and animation being
// processed. Empty values are skipped.
func WithBlockContext(logger interfaces.Logger, blockID, animationKey string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(blockID); trimmed != "" {
		fields["block_id"] = trimmed
	}
	if trimmed := strings.TrimSpace(animationKey); trimmed != "" {
		fields["animation"] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
