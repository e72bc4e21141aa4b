package gettrends

import "accreditation-workers/internal/common/validation"

// GetInputSchema requires either a batch id or an institution name.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"batchId": {
				Type:        "string",
				Description: "Batch whose institution to analyse",
				MinLength:   validation.IntPtr(1),
			},
			"institutionName": {
				Type:        "string",
				Description: "Institution to analyse",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(300),
			},
			"departmentName": {
				Type:        "string",
				Description: "Restricts the history to one department",
				MaxLength:   validation.IntPtr(200),
			},
		},
		AnyOfRequired:        [][]string{{"batchId"}, {"institutionName"}},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"institutionName", "yearsAvailable", "kpisPerYear", "trends", "hasHistoricalData", "insufficientData"},
		Properties: map[string]validation.Property{
			"institutionName":        {Type: "string"},
			"departmentName":         {Type: "string"},
			"yearsAvailable":         {Type: "array", Items: &validation.Property{Type: "integer"}},
			"kpisPerYear":            {Type: "object", Description: "Academic year to KPI values"},
			"trends":                 {Type: "object", Description: "KPI to trend summary"},
			"hasHistoricalData":      {Type: "boolean"},
			"insufficientData":       {Type: "boolean"},
			"insufficientDataReason": {Type: "string"},
		},
		AdditionalProperties: false,
	}
}
