package rankinstitutions

import (
	"accreditation-workers/internal/common/validation"
	"accreditation-workers/internal/models"
)

// GetInputSchema checks variable shapes only. Batch counts, topN and weight ranges are
// reported in the ranking result.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"batchIds", "kpi"},
		Properties: map[string]validation.Property{
			"batchIds": {
				Type:        "array",
				Description: "Batches to rank",
				Items: &validation.Property{
					Type:      "string",
					MinLength: validation.IntPtr(1),
				},
			},
			"kpi": {
				Type:        "string",
				Description: "KPI to rank by, or all/weighted for the composite score",
				Enum:        models.SelectorValues(),
			},
			"topN": {
				Type:        "integer",
				Description: "Number of institutions to return",
			},
			"weights": {
				Type:        "object",
				Description: "Per-KPI weights for the composite score",
				Values:      &validation.Property{Type: "number"},
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	skipped := &validation.Property{
		Type:     "object",
		Required: []string{"batchId", "reason"},
		Properties: map[string]validation.Property{
			"batchId": {Type: "string"},
			"reason":  {Type: "string"},
		},
	}

	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"valid", "kpi", "rankingLabel", "topN", "institutions", "insufficientBatches", "skippedBatches"},
		Properties: map[string]validation.Property{
			"valid":               {Type: "boolean"},
			"validationMessage":   {Type: "string"},
			"kpi":                 {Type: "string", Description: "Canonical selector"},
			"rankingLabel":        {Type: "string", Description: "Heading shown above the ranking"},
			"topN":                {Type: "integer"},
			"weights":             {Type: "object", Values: &validation.Property{Type: "number"}},
			"institutions":        {Type: "array", Items: &validation.Property{Type: "object"}},
			"insufficientBatches": {Type: "array", Items: skipped},
			"skippedBatches":      {Type: "array", Items: skipped},
		},
		AdditionalProperties: false,
	}
}
