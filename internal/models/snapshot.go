// internal/models/snapshot.go
package models

// KPISnapshot is the evaluated state of one batch as reported by the evaluation pipeline.
// Incomplete is set when the pipeline has not produced KPI results for the batch.
type KPISnapshot struct {
	BatchID            string    `json:"batchId"`
	KPIs               KPIValues `json:"kpis"`
	SufficiencyPercent float64   `json:"sufficiencyPercent"`
	ComplianceCount    int       `json:"complianceCount"`
	OverallScore       *float64  `json:"overallScore"`
	Incomplete         bool      `json:"incomplete"`
}

// YearlyKPIs is the KPI state of an institution for one academic year.
type YearlyKPIs struct {
	Year int       `json:"year"`
	KPIs KPIValues `json:"kpis"`
}
