package editor

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const blockContextInvalidCode = "ANIMATION_BLOCK_CONTEXT_INVALID"

var (
	// ErrInvalidBlockContext is returned when the editing request does not
	// identify a block.
	ErrInvalidBlockContext = errors.New("editor: invalid block context")
	// ErrBindingFieldMissing is reported when the block type cannot store an
	// animation selection.
	ErrBindingFieldMissing = errors.New("editor: no animation field was present")
)

func invalidBlockContext(detail string) error {
	message := "block context invalid"
	if trimmed := strings.TrimSpace(detail); trimmed != "" {
		message = message + ": " + trimmed
	}
	return goerrors.Wrap(ErrInvalidBlockContext, goerrors.CategoryValidation, message).
		WithTextCode(blockContextInvalidCode)
}
