package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-animations/animation"
	"github.com/goliatone/go-cms-animations/internal/logging"
	"github.com/goliatone/go-cms-animations/internal/options"
	"github.com/goliatone/go-cms-animations/internal/validation"
)

// SubmitStatus is the severity of the message shown after a submission.
type SubmitStatus string

const (
	StatusSaved   SubmitStatus = "status"
	StatusWarning SubmitStatus = "warning"
)

const (
	savedMessage        = "Animation was saved successfully."
	saveProblemMessage  = "There was a problem saving your animation. Please contact an administrator."
	fieldMissingMessage = "No animation field was present."
	invalidValueMessage = "Some animation options are invalid:"
	ineligibleMessage   = "The selected animation is not available for this story section type."
)

// SubmitInput is a submission of the editing form.
type SubmitInput struct {
	Block        BlockContext
	AnimationKey string
	// Values are the processed form values in submission order.
	Values options.Values
	// RawInput is the unprocessed user input. A key present here overrides
	// the processed value.
	RawInput map[string]string
}

// SubmitResult reports the outcome of a submission. Storage problems are
// reported as a warning, never as an error.
type SubmitResult struct {
	Status      SubmitStatus                 `json:"status"`
	Message     string                       `json:"message"`
	RedirectURL string                       `json:"redirect_url,omitempty"`
	Binding     *animation.Binding           `json:"binding,omitempty"`
	Issues      []validation.ValidationIssue `json:"issues,omitempty"`
}

// Submit stores the selected animation and its option values on the block.
// Selecting no animation, or one that no longer exists, clears the binding.
// A disabled animation, or one not allowed for the block type, is refused
// with a warning. Only an invalid block context is returned as an error.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (SubmitResult, error) {
	if err := validateBlock(input.Block); err != nil {
		return SubmitResult{}, err
	}
	block := input.Block
	key := strings.TrimSpace(input.AnimationKey)
	logger := logging.WithBlockContext(s.logger.WithContext(ctx), block.BlockID, key)

	if !s.supports(block.BlockType) {
		logger.Warn("editor.save.failed", "error", ErrBindingFieldMissing)
		return warning(saveProblemMessage + " " + fieldMissingMessage), nil
	}

	binding := &animation.Binding{
		BlockID:   block.BlockID,
		BlockType: block.BlockType,
		UpdatedAt: s.now(),
	}

	if key != "" {
		definition, err := s.definitions.Get(ctx, key)
		switch {
		case err == nil:
			if !definition.Enabled() || !definition.AllowsBlockType(block.BlockType) {
				logger.Warn("editor.save.ineligible", "block_type", block.BlockType, "status", definition.Status)
				return warning(ineligibleMessage), nil
			}
			values := mergeValues(definition, input.Values, input.RawInput)
			if err := validation.ValidateValues(definition.Fields, s.widgets, values.Map()); err != nil {
				logger.Warn("editor.save.invalid_values", "error", err)
				result := warning(fmt.Sprintf("%s %s", invalidValueMessage, err.Error()))
				result.Issues = validation.Issues(err)
				return result, nil
			}
			binding.AnimationKey = definition.Key
			binding.Options = options.Encode(values)
		case animation.IsNotFound(err):
			logger.Debug("editor.save.unknown_animation")
		default:
			logger.Warn("editor.save.failed", "error", err)
			return warning(saveProblemMessage), nil
		}
	}

	saved, err := s.bindings.Save(ctx, binding)
	if err != nil {
		logger.Warn("editor.save.failed", "error", err)
		return warning(saveProblemMessage), nil
	}

	result := SubmitResult{
		Status:  StatusSaved,
		Message: savedMessage,
		Binding: saved,
	}
	if s.redirects != nil {
		url, err := s.redirects.ParentURL(ctx, block.ParentID)
		if err != nil {
			logger.Warn("editor.redirect.failed", "parent_id", block.ParentID, "error", err)
		} else {
			result.RedirectURL = url
		}
	}
	logger.Info("editor.save.succeeded", "options", saved.Options)
	return result, nil
}

// mergeValues keeps the submitted values of declared fields in submission
// order, with raw input taking precedence. Declared fields only present in
// the raw input are appended in field order.
func mergeValues(definition *animation.Definition, submitted options.Values, raw map[string]string) options.Values {
	declared := make(map[string]struct{}, len(definition.Fields))
	for _, field := range definition.Fields {
		declared[field.ID] = struct{}{}
	}

	var merged options.Values
	for _, pair := range submitted {
		if _, ok := declared[pair.Key]; !ok {
			continue
		}
		value := pair.Value
		if override, ok := raw[pair.Key]; ok {
			value = override
		}
		merged.Set(pair.Key, value)
	}
	for _, field := range definition.Fields {
		if _, seen := merged.Get(field.ID); seen {
			continue
		}
		if value, ok := raw[field.ID]; ok {
			merged.Set(field.ID, value)
		}
	}
	return merged
}

func warning(message string) SubmitResult {
	return SubmitResult{Status: StatusWarning, Message: message}
}
