package getforecast

import (
	"accreditation-workers/internal/common/validation"
	"accreditation-workers/internal/models"
)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"kpi"},
		Properties: map[string]validation.Property{
			"batchId": {
				Type:        "string",
				Description: "Batch whose institution to forecast",
				MinLength:   validation.IntPtr(1),
			},
			"institutionName": {
				Type:        "string",
				Description: "Institution to forecast",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(300),
			},
			"departmentName": {
				Type:      "string",
				MaxLength: validation.IntPtr(200),
			},
			"kpi": {
				Type:        "string",
				Description: "KPI to project",
				Enum:        models.KPIAliases(),
			},
			"yearsAhead": {
				Type:        "integer",
				Description: "Number of future years to project",
				Minimum:     validation.FloatPtr(1),
			},
			"confidenceBand": {
				Type:        "number",
				Description: "Explicit half-width of the confidence band",
				Minimum:     validation.FloatPtr(0),
			},
		},
		AnyOfRequired:        [][]string{{"batchId"}, {"institutionName"}},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	point := &validation.Property{
		Type:     "object",
		Required: []string{"year", "predictedValue", "lowerBound", "upperBound", "confidence"},
		Properties: map[string]validation.Property{
			"year":           {Type: "integer"},
			"predictedValue": {Type: "number"},
			"lowerBound":     {Type: "number"},
			"upperBound":     {Type: "number"},
			"confidence":     {Type: "number", Minimum: validation.FloatPtr(0), Maximum: validation.FloatPtr(1)},
		},
	}

	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"institutionName", "kpi", "kpiName", "hasForecast", "canForecast", "insufficientData", "history", "explanation"},
		Properties: map[string]validation.Property{
			"institutionName":  {Type: "string"},
			"departmentName":   {Type: "string"},
			"kpi":              {Type: "string"},
			"kpiName":          {Type: "string"},
			"hasForecast":      {Type: "boolean"},
			"canForecast":      {Type: "boolean"},
			"insufficientData": {Type: "boolean"},
			"history":          {Type: "array", Items: &validation.Property{Type: "object"}},
			"forecast":         {Type: "array", Items: point},
			"confidenceBand":   {Type: "number"},
			"explanation":      {Type: "string"},
			"modelInfo":        {Type: "object"},
		},
		AdditionalProperties: false,
	}
}
