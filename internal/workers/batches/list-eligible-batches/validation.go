package listeligiblebatches

import "accreditation-workers/internal/common/validation"

// GetInputSchema describes the job variables read by the worker. Other process variables
// are allowed through.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"mode": {
				Type:        "string",
				Description: "Evaluation framework to filter by",
				Enum:        []string{"aicte", "nba", "naac", "nirf"},
			},
			"dataSource": {
				Type:        "string",
				Description: "Origin of the batch data",
				Enum:        []string{"user", "system"},
			},
			"departmentName": {
				Type:        "string",
				Description: "Department to filter by",
				MaxLength:   validation.IntPtr(200),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"batches": {
				Type:        "array",
				Description: "Completed, valid batches with at least one processed document",
				Items:       &validation.Property{Type: "object"},
			},
			"count": {
				Type:        "integer",
				Description: "Number of batches returned",
			},
		},
		AdditionalProperties: false,
	}
}
