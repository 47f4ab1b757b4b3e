package commands

import (
	"strings"

	"github.com/goliatone/go-cms-animations/internal/logging"
	"github.com/goliatone/go-cms-animations/pkg/interfaces"
)

const commandModuleRoot = "animations.commands"

// CommandLogger returns the logger command handlers of module write to.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.ModuleLogger(provider, commandModuleRoot+"."+name), map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
