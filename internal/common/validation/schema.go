package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for input/output schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Description          string              `json:"description,omitempty"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
	// AnyOfRequired lists alternative sets of required fields; at least one set must be
	// fully present.
	AnyOfRequired [][]string `json:"anyOfRequired,omitempty"`
}

type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Default     interface{}         `json:"default,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	MinItems    *int                `json:"minItems,omitempty"`
	MaxItems    *int                `json:"maxItems,omitempty"`
	Items       *Property           `json:"items,omitempty"`      // For array validation
	Properties  map[string]Property `json:"properties,omitempty"` // For nested objects
	Required    []string            `json:"required,omitempty"`   // For nested objects
	// Values constrains every value of a free-form object (JSON Schema additionalProperties).
	Values *Property `json:"values,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ToMap renders the schema as a draft-07 JSON Schema document.
func (s JSONSchema) ToMap() map[string]interface{} {
	out := map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 s.Type,
		"additionalProperties": s.AdditionalProperties,
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		out["properties"] = propertiesToMap(s.Properties)
	}
	if len(s.Required) > 0 {
		out["required"] = toInterfaces(s.Required)
	}
	if len(s.AnyOfRequired) > 0 {
		alternatives := make([]interface{}, 0, len(s.AnyOfRequired))
		for _, set := range s.AnyOfRequired {
			alternatives = append(alternatives, map[string]interface{}{"required": toInterfaces(set)})
		}
		out["anyOf"] = alternatives
	}
	return out
}

func (p Property) toMap() map[string]interface{} {
	out := map[string]interface{}{}
	if p.Type != "" {
		out["type"] = p.Type
	}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if p.Default != nil {
		out["default"] = p.Default
	}
	if p.Minimum != nil {
		out["minimum"] = *p.Minimum
	}
	if p.Maximum != nil {
		out["maximum"] = *p.Maximum
	}
	if len(p.Enum) > 0 {
		out["enum"] = toInterfaces(p.Enum)
	}
	if p.Pattern != nil {
		out["pattern"] = *p.Pattern
	}
	if p.MinLength != nil {
		out["minLength"] = *p.MinLength
	}
	if p.MaxLength != nil {
		out["maxLength"] = *p.MaxLength
	}
	if p.MinItems != nil {
		out["minItems"] = *p.MinItems
	}
	if p.MaxItems != nil {
		out["maxItems"] = *p.MaxItems
	}
	if p.Items != nil {
		out["items"] = p.Items.toMap()
	}
	if len(p.Properties) > 0 {
		out["properties"] = propertiesToMap(p.Properties)
	}
	if len(p.Required) > 0 {
		out["required"] = toInterfaces(p.Required)
	}
	if p.Values != nil {
		out["additionalProperties"] = p.Values.toMap()
	}
	return out
}

func propertiesToMap(props map[string]Property) map[string]interface{} {
	out := make(map[string]interface{}, len(props))
	for name, prop := range props {
		out[name] = prop.toMap()
	}
	return out
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Compile checks that the schema is itself a valid JSON Schema document.
func Compile(schema JSONSchema) error {
	if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema.ToMap())); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	return nil
}

// CompileMap is Compile for a schema already in document form.
func CompileMap(schema map[string]interface{}) error {
	if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	return nil
}

// ValidateInput validates input against JSON schema with detailed errors
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	if input == nil {
		input = map[string]interface{}{}
	}

	schemaLoader := gojsonschema.NewGoLoader(schema.ToMap())
	documentLoader := gojsonschema.NewGoLoader(input)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "SCHEMA_ERROR",
			}},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errors := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errors = append(errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}

	return &ValidationResult{
		Valid:  false,
		Errors: errors,
	}
}

var taskTypePattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)+$`)

// ValidateTaskTypeNaming validates a task type follows the kebab-case convention
// (e.g. compare-institutions).
func ValidateTaskTypeNaming(taskType string) error {
	if !taskTypePattern.MatchString(taskType) {
		return fmt.Errorf("task type must be lower-case words joined by dashes (e.g., compare-institutions), got %q", taskType)
	}
	return nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

func IntPtr(i int) *int {
	return &i
}

func FloatPtr(f float64) *float64 {
	return &f
}

