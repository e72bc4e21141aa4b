// internal/models/query_types.go
package models

// QueryType names a batch registry read. Used as a metrics and log label.
type QueryType string

const (
	QueryTypeEligibleBatches QueryType = "eligible_batches"
	QueryTypeBatch           QueryType = "batch"
	QueryTypeKpiSnapshot     QueryType = "kpi_snapshot"
	QueryTypeYearlyKpis      QueryType = "yearly_kpis"
)
