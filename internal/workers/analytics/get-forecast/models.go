package getforecast

import "accreditation-workers/internal/engine"

type Input struct {
	BatchID         string   `json:"batchId,omitempty"`
	InstitutionName string   `json:"institutionName,omitempty"`
	DepartmentName  string   `json:"departmentName,omitempty"`
	KPI             string   `json:"kpi"`
	YearsAhead      *int     `json:"yearsAhead,omitempty"`
	ConfidenceBand  *float64 `json:"confidenceBand,omitempty"`
}

type Output struct {
	InstitutionName string `json:"institutionName"`
	DepartmentName  string `json:"departmentName,omitempty"`
	engine.ForecastResult
}
