package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-cms-animations/internal/logging"
	"github.com/goliatone/go-cms-animations/pkg/interfaces"
)

// TelemetryStatus is the outcome class of a command execution.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes one finished execution.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is invoked once after every execution that passed validation.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs the outcome of each execution to logger. Caller
// cancellation is reported as a warning; deadlines and failures as errors.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(ctx context.Context, _ T, info TelemetryInfo) {
		entry := logger.WithContext(ctx)
		if len(info.Fields) > 0 {
			entry = logging.WithFields(entry, info.Fields)
		}
		args := []any{"status", string(info.Status), "duration_ms", info.Duration.Milliseconds()}
		switch {
		case info.Status == TelemetryStatusSuccess:
			entry.Info("command.execute.success", args...)
		case info.Status == TelemetryStatusContextError && errors.Is(info.Error, context.Canceled):
			entry.Warn("command.execute.canceled", append(args, "error", info.Error)...)
		case info.Status == TelemetryStatusContextError:
			entry.Error("command.execute.context_error", append(args, "error", info.Error)...)
		default:
			entry.Error("command.execute.failed", append(args, "error", info.Error)...)
		}
	}
}
