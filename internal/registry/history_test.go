package registry

import (
	"context"
	"testing"

	commonerrors "accreditation-workers/internal/common/errors"
	"accreditation-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyRegistry struct {
	memoryRegistry
	series          []models.YearlyKPIs
	gotInstitution  string
	gotDepartment   string
	yearlyCallCount int
}

func (r *historyRegistry) GetYearlyKpis(ctx context.Context, institution, department string) ([]models.YearlyKPIs, error) {
	r.yearlyCallCount++
	r.gotInstitution = institution
	r.gotDepartment = department
	return r.series, nil
}

func newHistoryRegistry() *historyRegistry {
	return &historyRegistry{
		memoryRegistry: memoryRegistry{
			batches: map[string]models.Batch{
				"b-1": {ID: "b-1", InstitutionName: "Alpha Institute", DepartmentName: "CSE", Status: models.BatchStatusCompleted, DocumentCount: 2},
				"b-2": {ID: "b-2", InstitutionName: "Beta College", DepartmentName: "ECE", Status: models.BatchStatusCompleted, IsInvalid: true},
			},
		},
		series: []models.YearlyKPIs{
			{Year: 2022, KPIs: models.KPIValues{Overall: models.Float(70)}},
			{Year: 2023, KPIs: models.KPIValues{Overall: models.Float(75)}},
		},
	}
}

func TestLoadHistory(t *testing.T) {
	t.Run("by batch", func(t *testing.T) {
		reg := newHistoryRegistry()
		h, err := LoadHistory(context.Background(), reg, HistoryRequest{BatchID: "b-1"})
		require.NoError(t, err)
		assert.Equal(t, "Alpha Institute", reg.gotInstitution)
		assert.Equal(t, "CSE", reg.gotDepartment)
		assert.Len(t, h.Series, 2)
		assert.False(t, h.InvalidBatch)
	})

	t.Run("by institution", func(t *testing.T) {
		reg := newHistoryRegistry()
		_, err := LoadHistory(context.Background(), reg, HistoryRequest{InstitutionName: " Alpha Institute ", DepartmentName: "Mech"})
		require.NoError(t, err)
		assert.Equal(t, "Alpha Institute", reg.gotInstitution)
		assert.Equal(t, "Mech", reg.gotDepartment)
		assert.Zero(t, reg.batchCalls)
	})

	t.Run("invalid batch", func(t *testing.T) {
		reg := newHistoryRegistry()
		h, err := LoadHistory(context.Background(), reg, HistoryRequest{BatchID: "b-2"})
		require.NoError(t, err)
		assert.True(t, h.InvalidBatch)
		assert.Empty(t, h.Series)
		assert.Zero(t, reg.yearlyCallCount)
	})

	t.Run("unknown batch", func(t *testing.T) {
		_, err := LoadHistory(context.Background(), newHistoryRegistry(), HistoryRequest{BatchID: "b-404"})
		require.Error(t, err)
		assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeBatchNotFound))
	})

	t.Run("nothing to resolve", func(t *testing.T) {
		_, err := LoadHistory(context.Background(), newHistoryRegistry(), HistoryRequest{})
		require.Error(t, err)
		assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeValidationFailed))
	})
}
