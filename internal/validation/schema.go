package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-cms-animations/animation"
)

var (
	ErrSchemaInvalid    = errors.New("validation: schema invalid")
	ErrSchemaValidation = errors.New("validation: values do not match field widgets")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError lists the fields whose values were rejected.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// FieldSchema builds the JSON schema of an option payload: an object keyed by
// field id whose properties are the value schemas of the field widgets.
func FieldSchema(fields []animation.Field, widgets *animation.WidgetRegistry) (map[string]any, error) {
	if widgets == nil {
		widgets = animation.NewWidgetRegistry()
	}
	properties := make(map[string]any, len(fields))
	for _, field := range fields {
		widget, err := widgets.Resolve(field.Widget)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.ID, err)
		}
		properties[field.ID] = cloneMap(widget.ValueSchema)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": map[string]any{"type": "string"},
	}, nil
}

// ValidateValues checks submitted option values against the widgets of
// fields. Values for undeclared keys only need to be strings.
func ValidateValues(fields []animation.Field, widgets *animation.WidgetRegistry, values map[string]string) error {
	schema, err := FieldSchema(fields, widgets)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	payload := make(map[string]any, len(values))
	for key, value := range values {
		payload[key] = value
	}
	if err := compiled.Validate(payload); err != nil {
		return &PayloadValidationError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

// ValidateDefaults checks the non-empty default values of fields.
func ValidateDefaults(fields []animation.Field, widgets *animation.WidgetRegistry) error {
	defaults := make(map[string]string, len(fields))
	for _, field := range fields {
		if field.Default != "" {
			defaults[field.ID] = field.Default
		}
	}
	return ValidateValues(fields, widgets, defaults)
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		switch typed := value.(type) {
		case map[string]any:
			out[key] = cloneMap(typed)
		case []any:
			out[key] = append([]any(nil), typed...)
		default:
			out[key] = value
		}
	}
	return out
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("options.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("options.json")
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
