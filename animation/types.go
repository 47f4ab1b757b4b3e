package animation

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status toggles whether a definition can be offered to editors.
type Status string

const (
	StatusEnabled  Status = "enabled"
	StatusDisabled Status = "disabled"
)

// Reserved template tokens. Every other bracketed name is only a token when it
// matches a field ID of the definition.
const (
	TokenSectionID = "section_id"
	TokenTimeline  = "timeline"
)

// Definition is a reusable animation: a code template with [token]
// placeholders plus the ordered schema of fields editors may customise.
type Definition struct {
	bun.BaseModel `bun:"table:animation_definitions,alias:ad"`

	ID                uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Key               string    `bun:"key,notnull,unique" json:"key"`
	Label             string    `bun:"label,notnull" json:"label"`
	Description       *string   `bun:"description" json:"description,omitempty"`
	Icon              *string   `bun:"icon" json:"icon,omitempty"`
	Status            Status    `bun:"status,notnull,default:'enabled'" json:"status"`
	AllowedBlockTypes []string  `bun:"allowed_block_types,type:jsonb,notnull" json:"allowed_block_types"`
	Fields            []Field   `bun:"fields,type:jsonb,notnull" json:"fields"`
	Code              string    `bun:"code,notnull" json:"code"`
	CreatedAt         time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Enabled reports whether the definition may be offered to editors.
func (d *Definition) Enabled() bool {
	return d != nil && d.Status != StatusDisabled
}

// AllowsBlockType reports whether the definition can attach to blocks of the
// given type.
func (d *Definition) AllowsBlockType(blockType string) bool {
	if d == nil {
		return false
	}
	for _, allowed := range d.AllowedBlockTypes {
		if allowed == blockType {
			return true
		}
	}
	return false
}

// Field describes one customisable parameter of an animation.
type Field struct {
	ID          string `json:"id" yaml:"id"`
	Widget      string `json:"type" yaml:"type"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description"`
	Default     string `json:"default_value,omitempty" yaml:"default_value"`
}

// Binding is the block-level record of the selected animation and the option
// string chosen for it. Options only make sense for AnimationKey.
type Binding struct {
	bun.BaseModel `bun:"table:animation_bindings,alias:ab"`

	ID           uuid.UUID `bun:",pk,type:uuid" json:"id"`
	BlockID      string    `bun:"block_id,notnull,unique" json:"block_id"`
	BlockType    string    `bun:"block_type" json:"block_type,omitempty"`
	AnimationKey string    `bun:"animation_key" json:"animation_key,omitempty"`
	Options      string    `bun:"options" json:"options,omitempty"`
	CreatedAt    time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Bound reports whether an animation is selected.
func (b *Binding) Bound() bool {
	return b != nil && b.AnimationKey != ""
}
