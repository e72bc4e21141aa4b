package engine

import (
	"testing"

	"accreditation-workers/internal/common/config"
	"accreditation-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFromConfig(t *testing.T) {
	t.Run("zero config gives defaults", func(t *testing.T) {
		s, err := SettingsFromConfig(config.EngineConfig{})
		require.NoError(t, err)
		assert.Equal(t, DefaultSettings(), s)
	})

	t.Run("overrides", func(t *testing.T) {
		s, err := SettingsFromConfig(config.EngineConfig{
			StrengthThreshold: 80,
			WeaknessThreshold: 55,
			MaxInstitutions:   6,
			TopNOptions:       []int{3, 5},
			DefaultWeights:    map[string]float64{"fsr": 2, "overall_score": 0},
		})
		require.NoError(t, err)

		assert.Equal(t, Thresholds{Strength: 80, Weakness: 55}, s.Thresholds)
		assert.Equal(t, 2, s.MinInstitutions)
		assert.Equal(t, 6, s.MaxInstitutions)
		assert.Equal(t, []int{3, 5}, s.TopNOptions)
		assert.Equal(t, 2.0, s.DefaultWeights[models.KPIFSR])
		assert.Equal(t, 0.0, s.DefaultWeights[models.KPIOverall])
		assert.Equal(t, 1.0, s.DefaultWeights[models.KPIPlacement])
	})

	t.Run("invalid default weights", func(t *testing.T) {
		_, err := SettingsFromConfig(config.EngineConfig{DefaultWeights: map[string]float64{"fsr": 1.25}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "engine.default_weights")
		assert.Contains(t, err.Error(), "multiple of 0.5")
	})
}

func TestForecastOptionsFromConfig(t *testing.T) {
	assert.Equal(t, DefaultForecastOptions(), ForecastOptionsFromConfig(config.ForecastConfig{}))

	opts := ForecastOptionsFromConfig(config.ForecastConfig{DefaultYearsAhead: 2, Z: 1.645, MinPoints: 4})
	assert.Equal(t, 2, opts.YearsAhead)
	assert.Equal(t, 1.645, opts.Z)
	assert.Equal(t, 4, opts.MinPoints)
	assert.Nil(t, opts.Band)
}
