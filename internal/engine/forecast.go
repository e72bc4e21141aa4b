package engine

import (
	"fmt"
	"math"

	"accreditation-workers/internal/models"
)

const (
	ForecastMethod = "linear_regression"

	lowFitRSquared = 0.5

	// Confidence of the first projected year under a perfect fit; each further year
	// loses confidenceDecay.
	confidenceStart = 0.85
	confidenceDecay = 0.10
	confidenceFloor = 0.05
	scoreFloor     = 0
	scoreCeiling   = 100
)

// ForecastOptions controls one forecast. Band, when set, is an explicit half-width that
// replaces Z times the residual standard error.
type ForecastOptions struct {
	YearsAhead int
	Z          float64
	Band       *float64
	MinPoints  int
}

func DefaultForecastOptions() ForecastOptions {
	return ForecastOptions{
		YearsAhead: 3,
		Z:          1.96,
		MinPoints:  3,
	}
}

type ForecastPoint struct {
	Year           int     `json:"year"`
	PredictedValue float64 `json:"predictedValue"`
	LowerBound     float64 `json:"lowerBound"`
	UpperBound     float64 `json:"upperBound"`
	Confidence     float64 `json:"confidence"`
}

type ModelInfo struct {
	Method           string  `json:"method"`
	Slope            float64 `json:"slope"`
	Intercept        float64 `json:"intercept"`
	RSquared         float64 `json:"rSquared"`
	HistoricalPoints int     `json:"historicalPoints"`
}

type HistoricalPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

type ForecastResult struct {
	KPI              models.KPI        `json:"kpi"`
	KPIName          string            `json:"kpiName"`
	HasForecast      bool              `json:"hasForecast"`
	CanForecast      bool              `json:"canForecast"`
	InsufficientData bool              `json:"insufficientData"`
	History          []HistoricalPoint `json:"history"`
	Forecast         []ForecastPoint   `json:"forecast"`
	ConfidenceBand   float64           `json:"confidenceBand"`
	Explanation      string            `json:"explanation"`
	ModelInfo        *ModelInfo        `json:"modelInfo,omitempty"`
}

// Forecast projects kpi forward with an ordinary least-squares line over the available
// years. With fewer than opts.MinPoints values it returns a flagged result and no points.
func Forecast(series []models.YearlyKPIs, kpi models.KPI, opts ForecastOptions) *ForecastResult {
	res := &ForecastResult{
		KPI:      kpi,
		KPIName:  kpi.DisplayName(),
		History:  []HistoricalPoint{},
		Forecast: []ForecastPoint{},
	}

	ordered := sortedSeries(series)
	pts := kpiPoints(ordered, kpi)
	for _, p := range pts {
		res.History = append(res.History, HistoricalPoint{Year: p.year, Value: p.y})
	}

	minPoints := opts.MinPoints
	if minPoints < 3 {
		minPoints = 3
	}
	if len(pts) < minPoints {
		res.InsufficientData = true
		res.Explanation = fmt.Sprintf(
			"At least %d years of %s data are required to forecast; found %d.",
			minPoints, res.KPIName, len(pts),
		)
		return res
	}

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.x, p.y
	}
	fit, ok := FitLinear(xs, ys)
	if !ok {
		res.InsufficientData = true
		res.Explanation = fmt.Sprintf("%s history does not span enough distinct years to forecast.", res.KPIName)
		return res
	}

	band := opts.Z * fit.RSE
	if opts.Band != nil {
		band = *opts.Band
	}

	base := ordered[0].Year
	last := pts[len(pts)-1].year
	res.Forecast = make([]ForecastPoint, 0, opts.YearsAhead)
	for i := 1; i <= opts.YearsAhead; i++ {
		year := last + i
		predicted := fit.Predict(float64(year - base))
		res.Forecast = append(res.Forecast, ForecastPoint{
			Year:           year,
			PredictedValue: clamp(predicted),
			LowerBound:     clamp(predicted - band),
			UpperBound:     clamp(predicted + band),
			Confidence:     confidence(i, fit.RSquared),
		})
	}

	res.HasForecast = len(res.Forecast) > 0
	res.CanForecast = true
	res.ConfidenceBand = band
	res.ModelInfo = &ModelInfo{
		Method:           ForecastMethod,
		Slope:            fit.Slope,
		Intercept:        fit.Intercept,
		RSquared:         fit.RSquared,
		HistoricalPoints: fit.N,
	}
	res.Explanation = explain(res.KPIName, fit)
	return res
}

func explain(name string, fit LinearFit) string {
	direction := "remain stable"
	switch {
	case fit.Slope > 0.5:
		direction = "increase"
	case fit.Slope < -0.5:
		direction = "decrease"
	}
	msg := fmt.Sprintf(
		"Based on %d years of historical data, %s is projected to %s (%+.2f per year, R² %.2f).",
		fit.N, name, direction, fit.Slope, fit.RSquared,
	)
	if fit.RSquared < lowFitRSquared {
		msg += " The linear fit is weak; treat the projection with caution."
	}
	return msg
}

// confidence is the horizon-decayed start value scaled by the fit's R², rounded to
// two places.
func confidence(yearsAhead int, rSquared float64) float64 {
	fit := math.Max(0, math.Min(1, rSquared))
	c := (confidenceStart - confidenceDecay*float64(yearsAhead-1)) * fit
	c = math.Max(confidenceFloor, c)
	return math.Round(c*100) / 100
}

func clamp(v float64) float64 {
	return math.Max(scoreFloor, math.Min(scoreCeiling, v))
}

// InsufficientForecast returns a result for kpi with no history, flagged with explanation.
func InsufficientForecast(kpi models.KPI, explanation string) *ForecastResult {
	return &ForecastResult{
		KPI:              kpi,
		KPIName:          kpi.DisplayName(),
		InsufficientData: true,
		History:          []HistoricalPoint{},
		Forecast:         []ForecastPoint{},
		Explanation:      explanation,
	}
}
