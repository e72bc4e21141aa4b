package compareinstitutions

import "accreditation-workers/internal/common/validation"

// GetInputSchema only checks the shape of batchIds. The count limits are reported in the
// comparison result instead of failing the job.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"batchIds"},
		Properties: map[string]validation.Property{
			"batchIds": {
				Type:        "array",
				Description: "Batches to compare, in the order the user selected them",
				Items: &validation.Property{
					Type:      "string",
					MinLength: validation.IntPtr(1),
				},
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"validForComparison", "institutions", "skippedBatches", "comparisonMatrix", "categoryWinners", "notes"},
		Properties: map[string]validation.Property{
			"validForComparison": {Type: "boolean", Description: "Whether the matrix and winners were computed"},
			"validationMessage":  {Type: "string", Description: "Why the comparison is invalid"},
			"institutions": {
				Type:        "array",
				Description: "Compared institutions, best overall score first",
				Items:       &validation.Property{Type: "object"},
			},
			"skippedBatches": {
				Type:        "array",
				Description: "Requested batches left out, with a reason code",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"batchId", "reason"},
					Properties: map[string]validation.Property{
						"batchId": {Type: "string"},
						"reason":  {Type: "string"},
					},
				},
			},
			"comparisonMatrix": {
				Type:        "object",
				Description: "KPI to institution label to value; null when absent",
			},
			"winner":          {Type: "object", Description: "Overall score winner"},
			"categoryWinners": {Type: "array", Items: &validation.Property{Type: "object"}},
			"highlights":      {Type: "object", Description: "Best and worst cells per KPI"},
			"notes":           {Type: "array", Items: &validation.Property{Type: "string"}},
		},
		AdditionalProperties: false,
	}
}
