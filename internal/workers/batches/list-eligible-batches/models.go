package listeligiblebatches

import "accreditation-workers/internal/models"

type Input struct {
	Mode           string `json:"mode,omitempty"`
	DataSource     string `json:"dataSource,omitempty"`
	DepartmentName string `json:"departmentName,omitempty"`
}

type Output struct {
	Batches []models.Batch `json:"batches"`
	Count   int            `json:"count"`
}
