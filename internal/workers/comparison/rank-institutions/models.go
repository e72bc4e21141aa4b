package rankinstitutions

import "accreditation-workers/internal/engine"

// Input is the ranking request. Weights only apply to the composite selector; keys may
// be full KPI keys or their short names.
type Input struct {
	BatchIDs []string           `json:"batchIds"`
	KPI      string             `json:"kpi"`
	TopN     *int               `json:"topN,omitempty"`
	Weights  map[string]float64 `json:"weights,omitempty"`
}

type Output struct {
	engine.RankingResult
}
