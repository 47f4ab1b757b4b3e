package animations

import (
	"context"
	"errors"
)

// EnsureDefinitions idempotently registers definitions with the service.
// Definitions that already exist are skipped.
func EnsureDefinitions(ctx context.Context, svc Service, definitions []RegisterInput) error {
	if svc == nil {
		return nil
	}
	for _, definition := range definitions {
		if definition.Key == "" && definition.Label == "" {
			continue
		}
		if _, err := svc.Register(ctx, definition); err != nil {
			if errors.Is(err, ErrDefinitionExists) {
				continue
			}
			return err
		}
	}
	return nil
}
