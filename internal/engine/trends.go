package engine

import (
	"math"
	"sort"

	"accreditation-workers/internal/models"
)

// TrendSummary describes one KPI over the available academic years. Slope and Volatility
// are nil when fewer than two years carry a value.
type TrendSummary struct {
	Slope             *float64 `json:"slope"`
	Volatility        *float64 `json:"volatility"`
	Min               float64  `json:"min"`
	Max               float64  `json:"max"`
	Avg               float64  `json:"avg"`
	Insight           string   `json:"insight"`
	DataPoints        int      `json:"dataPoints"`
	HasHistoricalData bool     `json:"hasHistoricalData"`
}

type TrendReport struct {
	YearsAvailable         []int                       `json:"yearsAvailable"`
	KPIsPerYear            map[int]models.KPIValues    `json:"kpisPerYear"`
	Trends                 map[models.KPI]TrendSummary `json:"trends"`
	HasHistoricalData      bool                        `json:"hasHistoricalData"`
	InsufficientData       bool                        `json:"insufficientData"`
	InsufficientDataReason string                      `json:"insufficientDataReason,omitempty"`
}

// point is one (year index, value) pair of a KPI series.
type point struct {
	year int
	x    float64
	y    float64
}

// ComputeTrends summarises every KPI that has at least one value in series.
func ComputeTrends(series []models.YearlyKPIs) *TrendReport {
	report := &TrendReport{
		YearsAvailable: []int{},
		KPIsPerYear:    map[int]models.KPIValues{},
		Trends:         map[models.KPI]TrendSummary{},
	}

	ordered := sortedSeries(series)
	for _, y := range ordered {
		report.YearsAvailable = append(report.YearsAvailable, y.Year)
		report.KPIsPerYear[y.Year] = y.KPIs
	}
	if len(ordered) == 0 {
		report.InsufficientData = true
		report.InsufficientDataReason = "No completed evaluations found for this institution."
		return report
	}

	for _, k := range models.AllKPIs {
		pts := kpiPoints(ordered, k)
		if len(pts) == 0 {
			continue
		}
		summary := summarise(pts)
		report.Trends[k] = summary
		if summary.HasHistoricalData {
			report.HasHistoricalData = true
		}
	}

	if !report.HasHistoricalData {
		report.InsufficientData = true
		report.InsufficientDataReason = "At least 2 academic years of KPI data are required for trends."
	}
	return report
}

func summarise(pts []point) TrendSummary {
	ys := make([]float64, len(pts))
	xs := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.x, p.y
	}

	s := TrendSummary{
		Min:        math.Inf(1),
		Max:        math.Inf(-1),
		Avg:        mean(ys),
		DataPoints: len(pts),
		Insight:    "Insufficient history",
	}
	for _, v := range ys {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}

	if fit, ok := FitLinear(xs, ys); ok {
		slope := fit.Slope
		vol := stddev(ys)
		s.Slope = &slope
		s.Volatility = &vol
		s.Insight = insight(slope)
		s.HasHistoricalData = true
	}
	return s
}

func insight(slope float64) string {
	switch {
	case slope > 2:
		return "Strong growth"
	case slope > 0.5:
		return "Improving steadily"
	case slope >= -0.5:
		return "Stable"
	case slope >= -2:
		return "Gradual decline"
	default:
		return "Sharp decline"
	}
}

// sortedSeries orders by year and keeps the first entry of a repeated year.
func sortedSeries(series []models.YearlyKPIs) []models.YearlyKPIs {
	out := make([]models.YearlyKPIs, 0, len(series))
	seen := make(map[int]bool, len(series))
	for _, y := range series {
		if seen[y.Year] {
			continue
		}
		seen[y.Year] = true
		out = append(out, y)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// kpiPoints extracts the present values of k. The x coordinate is the year offset from the
// first year of the series, so gaps between years are kept.
func kpiPoints(ordered []models.YearlyKPIs, k models.KPI) []point {
	if len(ordered) == 0 {
		return nil
	}
	base := ordered[0].Year
	pts := make([]point, 0, len(ordered))
	for _, y := range ordered {
		if v := y.KPIs.Get(k); v != nil {
			pts = append(pts, point{year: y.Year, x: float64(y.Year - base), y: *v})
		}
	}
	return pts
}

// InvalidBatchReason is reported when history is requested through a batch that the
// pipeline marked invalid.
const InvalidBatchReason = "Batch marked as invalid due to insufficient extracted data. Please upload documents with complete institutional information."

// InsufficientTrends returns an empty report flagged with reason.
func InsufficientTrends(reason string) *TrendReport {
	return &TrendReport{
		YearsAvailable:         []int{},
		KPIsPerYear:            map[int]models.KPIValues{},
		Trends:                 map[models.KPI]TrendSummary{},
		InsufficientData:       true,
		InsufficientDataReason: reason,
	}
}
