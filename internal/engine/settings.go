package engine

import (
	"fmt"

	"accreditation-workers/internal/common/config"
	"accreditation-workers/internal/models"
)

// Thresholds drive the strength/weakness classification.
type Thresholds struct {
	Strength float64 // present and >= Strength
	Weakness float64 // present and < Weakness
}

// Settings is the per-call configuration of the engine.
type Settings struct {
	Thresholds      Thresholds
	MinInstitutions int
	MaxInstitutions int
	TopNOptions     []int
	DefaultWeights  Weights
	WeightMax       float64
	WeightStep      float64
}

// DefaultSettings returns a fresh Settings value. Callers may modify the result freely.
func DefaultSettings() Settings {
	return Settings{
		Thresholds: Thresholds{
			Strength: 75,
			Weakness: 60,
		},
		MinInstitutions: 2,
		MaxInstitutions: 10,
		TopNOptions:     []int{2, 3, 5, 10},
		DefaultWeights:  DefaultWeights(),
		WeightMax:       3,
		WeightStep:      0.5,
	}
}

// DefaultWeights returns weight 1 for every KPI.
func DefaultWeights() Weights {
	w := make(Weights, len(models.AllKPIs))
	for _, k := range models.AllKPIs {
		w[k] = 1
	}
	return w
}

func (s Settings) validTopN(n int) bool {
	for _, opt := range s.TopNOptions {
		if opt == n {
			return true
		}
	}
	return false
}

// SettingsFromConfig builds Settings from the engine section of the application config.
// Zero values fall back to DefaultSettings.
func SettingsFromConfig(cfg config.EngineConfig) (Settings, error) {
	s := DefaultSettings()

	if cfg.StrengthThreshold > 0 {
		s.Thresholds.Strength = cfg.StrengthThreshold
	}
	if cfg.WeaknessThreshold > 0 {
		s.Thresholds.Weakness = cfg.WeaknessThreshold
	}
	if cfg.MinInstitutions > 0 {
		s.MinInstitutions = cfg.MinInstitutions
	}
	if cfg.MaxInstitutions > 0 {
		s.MaxInstitutions = cfg.MaxInstitutions
	}
	if len(cfg.TopNOptions) > 0 {
		s.TopNOptions = append([]int(nil), cfg.TopNOptions...)
	}
	if cfg.WeightMax > 0 {
		s.WeightMax = cfg.WeightMax
	}
	if cfg.WeightStep > 0 {
		s.WeightStep = cfg.WeightStep
	}

	weights, err := ParseWeights(cfg.DefaultWeights, DefaultWeights(), s.WeightMax, s.WeightStep)
	if err != nil {
		return Settings{}, fmt.Errorf("engine.default_weights: %w", err)
	}
	s.DefaultWeights = weights
	return s, nil
}

// ForecastOptionsFromConfig returns the forecast defaults of the application config.
func ForecastOptionsFromConfig(cfg config.ForecastConfig) ForecastOptions {
	opts := DefaultForecastOptions()
	if cfg.DefaultYearsAhead > 0 {
		opts.YearsAhead = cfg.DefaultYearsAhead
	}
	if cfg.Z > 0 {
		opts.Z = cfg.Z
	}
	if cfg.MinPoints > 0 {
		opts.MinPoints = cfg.MinPoints
	}
	return opts
}
