package registry

import (
	"context"
	"errors"
	"testing"

	commonerrors "accreditation-workers/internal/common/errors"
	"accreditation-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRegistry struct {
	batches       map[string]models.Batch
	snapshots     map[string]models.KPISnapshot
	err           error
	batchCalls    int
	snapshotCalls int
}

func (m *memoryRegistry) ListEligibleBatches(ctx context.Context, filter BatchFilter) ([]models.Batch, error) {
	return nil, nil
}

func (m *memoryRegistry) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	m.batchCalls++
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.batches[id]
	if !ok {
		return nil, ErrBatchNotFound
	}
	return &b, nil
}

func (m *memoryRegistry) GetKpiSnapshot(ctx context.Context, id string) (*models.KPISnapshot, error) {
	m.snapshotCalls++
	s, ok := m.snapshots[id]
	if !ok {
		return nil, ErrBatchNotFound
	}
	return &s, nil
}

func (m *memoryRegistry) GetYearlyKpis(ctx context.Context, institution, department string) ([]models.YearlyKPIs, error) {
	return nil, nil
}

func newMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{
		batches: map[string]models.Batch{
			"b-1": {ID: "b-1", Status: models.BatchStatusCompleted, DocumentCount: 2},
			"b-2": {ID: "b-2", Status: models.BatchStatusProcessing, DocumentCount: 2},
			"b-3": {ID: "b-3", Status: models.BatchStatusCompleted, DocumentCount: 1},
		},
		snapshots: map[string]models.KPISnapshot{
			"b-1": {BatchID: "b-1", OverallScore: models.Float(70), SufficiencyPercent: 80},
		},
	}
}

func TestLoadCandidates(t *testing.T) {
	reg := newMemoryRegistry()

	candidates, err := LoadCandidates(context.Background(), reg, []string{"b-1", "missing", "b-2", "b-3", "b-1"}, 2, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 5)

	assert.Equal(t, "b-1", candidates[0].BatchID)
	require.NotNil(t, candidates[0].Snapshot)
	assert.Equal(t, 70.0, *candidates[0].Snapshot.OverallScore)

	assert.Equal(t, "missing", candidates[1].BatchID)
	assert.Nil(t, candidates[1].Batch)

	require.NotNil(t, candidates[2].Batch, "ineligible batches keep their record")
	assert.Nil(t, candidates[2].Snapshot, "no snapshot fetched for ineligible batches")

	require.NotNil(t, candidates[3].Batch)
	assert.Nil(t, candidates[3].Snapshot, "snapshot missing")

	assert.Equal(t, candidates[0], candidates[4], "repeated ids reuse the first load")
	assert.Equal(t, 4, reg.batchCalls)
	assert.Equal(t, 2, reg.snapshotCalls)
}

func TestLoadCandidates_OutOfRangeSkipsFetching(t *testing.T) {
	reg := newMemoryRegistry()

	candidates, err := LoadCandidates(context.Background(), reg, []string{"b-1"}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, "b-1", candidates[0].BatchID)
	assert.Nil(t, candidates[0].Batch)
	assert.Zero(t, reg.batchCalls)
}

func TestLoadCandidates_RegistryFailure(t *testing.T) {
	reg := newMemoryRegistry()
	reg.err = commonerrors.NewRegistryUnavailableError(string(models.QueryTypeBatch), errors.New("connection reset"))

	_, err := LoadCandidates(context.Background(), reg, []string{"b-1", "b-3"}, 2, 10)
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeRegistryUnavailable))
}
