package engine

import "accreditation-workers/internal/models"

// KPIReading is one present KPI value with its display name.
type KPIReading struct {
	KPI   models.KPI `json:"kpi"`
	Name  string     `json:"name"`
	Value float64    `json:"value"`
}

// Classify splits the present KPIs into strengths and weaknesses. Missing KPIs land in
// neither list. Both lists follow canonical KPI order and are never capped here.
func Classify(kpis models.KPIValues, th Thresholds) (strengths, weaknesses []KPIReading) {
	strengths = make([]KPIReading, 0)
	weaknesses = make([]KPIReading, 0)
	for _, k := range models.AllKPIs {
		v := kpis.Get(k)
		if v == nil {
			continue
		}
		reading := KPIReading{KPI: k, Name: k.DisplayName(), Value: *v}
		switch {
		case *v >= th.Strength:
			strengths = append(strengths, reading)
		case *v < th.Weakness:
			weaknesses = append(weaknesses, reading)
		}
	}
	return strengths, weaknesses
}
