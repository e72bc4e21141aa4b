// internal/models/batch.go
package models

import "time"

// EvaluationMode is the accreditation framework a batch was evaluated under.
type EvaluationMode string

const (
	ModeAICTE EvaluationMode = "aicte"
	ModeNBA   EvaluationMode = "nba"
	ModeNAAC  EvaluationMode = "naac"
	ModeNIRF  EvaluationMode = "nirf"
)

func (m EvaluationMode) Valid() bool {
	switch m {
	case ModeAICTE, ModeNBA, ModeNAAC, ModeNIRF:
		return true
	}
	return false
}

type BatchStatus string

const (
	BatchStatusPending    BatchStatus = "pending"
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
)

// DataSource tags where a batch came from.
type DataSource string

const (
	DataSourceUser   DataSource = "user"
	DataSourceSystem DataSource = "system"
)

// Batch is one evaluated accreditation record as held by the batch registry.
// Completed batches are never modified.
type Batch struct {
	ID              string         `json:"batchId"`
	Mode            EvaluationMode `json:"mode"`
	Status          BatchStatus    `json:"status"`
	DocumentCount   int            `json:"documentCount"`
	InstitutionName string         `json:"institutionName"`
	DepartmentName  string         `json:"departmentName,omitempty"`
	AcademicYear    string         `json:"academicYear,omitempty"`
	IsInvalid       bool           `json:"isInvalid"`
	DataSource      DataSource     `json:"dataSource"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
