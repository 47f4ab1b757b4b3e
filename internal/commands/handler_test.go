package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type testMessage struct {
	BlockID string
}

func (testMessage) Type() string { return "animations.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "animations.test.invalid" }

func (invalidMessage) Validate() error { return errors.New("invalid") }

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	telemetryCalled := false
	h := NewHandler(func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	}, WithTelemetry(func(context.Context, invalidMessage, TelemetryInfo) {
		telemetryCalled = true
	}))

	err := h.Execute(context.Background(), invalidMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called || telemetryCalled {
		t.Fatal("expected nothing to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	var status TelemetryStatus
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	}, WithTelemetry(func(_ context.Context, _ testMessage, info TelemetryInfo) {
		status = info.Status
	}))

	err := h.Execute(ctx, testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation cause, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
	if status != TelemetryStatusContextError {
		t.Fatalf("expected context error telemetry, got %q", status)
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, execErr) {
		t.Fatalf("expected original error to be preserved, got %v", err)
	}
}

func TestHandlerKeepsCategorisedErrors(t *testing.T) {
	validationErr := goerrors.Wrap(errors.New("bad"), goerrors.CategoryValidation, "bad input")
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		return validationErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category to survive, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline cause, got %v", err)
	}
}

func TestHandlerTelemetryReceivesMessageFields(t *testing.T) {
	var got TelemetryInfo
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithOperation[testMessage]("bindings.save"),
		WithMessageFields(func(msg testMessage) map[string]any {
			return map[string]any{"block_id": msg.BlockID}
		}),
		WithTelemetry(func(_ context.Context, _ testMessage, info TelemetryInfo) {
			got = info
		}),
	)

	if err := h.Execute(context.Background(), testMessage{BlockID: "42"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.Status != TelemetryStatusSuccess || got.Command != "animations.test.message" || got.Operation != "bindings.save" {
		t.Fatalf("unexpected telemetry %+v", got)
	}
	if got.Fields["block_id"] != "42" || got.Fields["operation"] != "bindings.save" {
		t.Fatalf("expected message fields, got %+v", got.Fields)
	}
}
