package animationscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-animations/internal/options"
)

const (
	saveBindingMessageType         = "animations.binding.save"
	syncDefinitionsMessageType     = "animations.definitions.sync"
	loadDefinitionFilesMessageType = "animations.definitions.load_files"
)

// SaveBindingCommand stores an animation selection on a block, exactly as a
// submission of the block editing form would.
type SaveBindingCommand struct {
	BlockID   string `json:"block_id"`
	BlockType string `json:"block_type"`
	// ParentID identifies the page the block belongs to.
	ParentID string `json:"parent_id,omitempty"`
	// AnimationKey selects the animation. Empty clears the selection.
	AnimationKey string `json:"animation_key,omitempty"`
	// Options are the field values in the order they should be stored.
	Options options.Values `json:"options,omitempty"`
}

func (SaveBindingCommand) Type() string { return saveBindingMessageType }

func (cmd SaveBindingCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.BlockID, validation.Required, validation.By(notBlank("animations.binding.block_id_required", "block id is required"))),
		validation.Field(&cmd.BlockType, validation.Required, validation.By(notBlank("animations.binding.block_type_required", "block type is required"))),
	)
}

// SyncDefinitionsCommand registers every code-registered definition that is
// not stored yet.
type SyncDefinitionsCommand struct{}

func (SyncDefinitionsCommand) Type() string { return syncDefinitionsMessageType }

func (SyncDefinitionsCommand) Validate() error { return nil }

// LoadDefinitionFilesCommand imports the definition files found under
// Directory. Definitions that already exist are skipped.
type LoadDefinitionFilesCommand struct {
	Directory string `json:"directory"`
}

func (LoadDefinitionFilesCommand) Type() string { return loadDefinitionFilesMessageType }

func (cmd LoadDefinitionFilesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(notBlank("animations.definitions.directory_required", "directory is required"))),
	)
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
