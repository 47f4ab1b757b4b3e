package editor

// BlockContext identifies the block being edited.
type BlockContext struct {
	BlockID   string
	BlockType string
	// Title is the block's display title. It may contain markup.
	Title string
	// ParentID is the page that owns the block. Used for the redirect after
	// a save.
	ParentID string
}

// Choice is one entry of the animation selector.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDescriptor is the projection of one definition field into the form.
type FieldDescriptor struct {
	ID          string `json:"id"`
	Widget      string `json:"widget"`
	Input       string `json:"input"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value"`
	// FromBinding is true when Value came from the stored option string
	// rather than the field default.
	FromBinding bool `json:"from_binding"`
}

// SelectForm is the state of the animation editing form for one block.
// When Empty is set no animation applies to the block type and only Message
// is meaningful.
type SelectForm struct {
	BlockID      string            `json:"block_id"`
	SectionLabel string            `json:"section_label"`
	Empty        bool              `json:"empty"`
	Message      string            `json:"message,omitempty"`
	Options      []Choice          `json:"options,omitempty"`
	Selected     string            `json:"selected"`
	Fields       []FieldDescriptor `json:"fields,omitempty"`
	Details      *Details          `json:"details,omitempty"`
}

// Details is the information panel shown for the selected animation.
type Details struct {
	Key             string `json:"key"`
	Label           string `json:"label"`
	Icon            string `json:"icon,omitempty"`
	DescriptionHTML string `json:"description_html,omitempty"`
}

const (
	noneChoiceLabel   = "-Select an Animation-"
	emptyStateMessage = "There are currently no animations available for this story section type."
)

// NoneChoice is the explicit "no animation" entry of the selector.
func NoneChoice() Choice {
	return Choice{Value: "", Label: noneChoiceLabel}
}
