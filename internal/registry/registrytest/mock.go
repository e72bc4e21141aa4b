// Package registrytest provides a testify mock of registry.Registry for worker tests.
package registrytest

import (
	"context"

	"accreditation-workers/internal/models"
	"accreditation-workers/internal/registry"

	"github.com/stretchr/testify/mock"
)

type MockRegistry struct {
	mock.Mock
}

var _ registry.Registry = (*MockRegistry)(nil)

func (m *MockRegistry) ListEligibleBatches(ctx context.Context, filter registry.BatchFilter) ([]models.Batch, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Batch), args.Error(1)
}

func (m *MockRegistry) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *MockRegistry) GetKpiSnapshot(ctx context.Context, id string) (*models.KPISnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KPISnapshot), args.Error(1)
}

func (m *MockRegistry) GetYearlyKpis(ctx context.Context, institution, department string) ([]models.YearlyKPIs, error) {
	args := m.Called(ctx, institution, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.YearlyKPIs), args.Error(1)
}

// CompletedBatch returns an eligible NBA batch for tests.
func CompletedBatch(id, institution, department, academicYear string) *models.Batch {
	return &models.Batch{
		ID:              id,
		Mode:            models.ModeNBA,
		Status:          models.BatchStatusCompleted,
		DocumentCount:   3,
		InstitutionName: institution,
		DepartmentName:  department,
		AcademicYear:    academicYear,
		DataSource:      models.DataSourceUser,
	}
}

// Snapshot returns a complete KPI snapshot whose overall score mirrors kpis.Overall.
func Snapshot(id string, kpis models.KPIValues) *models.KPISnapshot {
	return &models.KPISnapshot{
		BatchID:            id,
		KPIs:               kpis,
		SufficiencyPercent: 85,
		OverallScore:       kpis.Overall,
	}
}
