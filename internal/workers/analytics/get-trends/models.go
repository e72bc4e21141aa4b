package gettrends

import "accreditation-workers/internal/engine"

type Input struct {
	BatchID         string `json:"batchId,omitempty"`
	InstitutionName string `json:"institutionName,omitempty"`
	DepartmentName  string `json:"departmentName,omitempty"`
}

type Output struct {
	InstitutionName string `json:"institutionName"`
	DepartmentName  string `json:"departmentName,omitempty"`
	engine.TrendReport
}
