package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"accreditation-workers/internal/models"
)

// decodeKPIResults reads the kpi_results column. Each KPI may be stored as a bare number
// or as {"value": n}; non-positive and non-numeric values are treated as absent. ok is
// false when the column holds no results at all.
func decodeKPIResults(raw []byte) (models.KPIValues, bool, error) {
	var kpis models.KPIValues

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return kpis, false, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return kpis, false, fmt.Errorf("decode kpi_results: %w", err)
	}

	for _, k := range models.AllKPIs {
		field, ok := fields[string(k)]
		if !ok {
			continue
		}
		if v, ok := kpiNumber(field); ok && v > 0 {
			kpis.Set(k, models.Float(v))
		}
	}
	return kpis, true, nil
}

func kpiNumber(raw json.RawMessage) (float64, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	var wrapped struct {
		Value *float64 `json:"value"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Value != nil {
		return *wrapped.Value, true
	}
	return 0, false
}

// decodeSufficiency reads sufficiency_result, stored as {"percentage": n} or a bare number.
func decodeSufficiency(raw []byte) float64 {
	if len(bytes.TrimSpace(raw)) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var wrapped struct {
		Percentage *float64 `json:"percentage"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Percentage != nil {
		return *wrapped.Percentage
	}
	return 0
}

// ParseAcademicYear returns the starting calendar year of an academic year such as
// "2024-25" or "2024".
func ParseAcademicYear(s string) (int, bool) {
	if len(s) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

type yearlyRecord struct {
	year      int
	kpis      models.KPIValues
	createdAt time.Time
}

// latestPerYear keeps the most recently created record for each year, ordered by year.
func latestPerYear(records []yearlyRecord) []models.YearlyKPIs {
	latest := make(map[int]yearlyRecord, len(records))
	for _, r := range records {
		cur, seen := latest[r.year]
		if !seen || r.createdAt.After(cur.createdAt) {
			latest[r.year] = r
		}
	}

	out := make([]models.YearlyKPIs, 0, len(latest))
	for year, r := range latest {
		out = append(out, models.YearlyKPIs{Year: year, KPIs: r.kpis})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
