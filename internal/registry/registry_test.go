package registry

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	commonerrors "accreditation-workers/internal/common/errors"
	"accreditation-workers/internal/common/logger"
	"accreditation-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var batchRowColumns = []string{
	"id", "mode", "status", "institution_name", "department_name", "academic_year",
	"is_invalid", "data_source", "created_at", "updated_at", "document_count",
}

func newTestRegistry(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db, logger.NewTestLogger(t)), mock
}

var created = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// ==========================
// ListEligibleBatches
// ==========================

func TestPostgres_ListEligibleBatches(t *testing.T) {
	tests := []struct {
		name         string
		filter       BatchFilter
		expectedArgs []driver.Value
	}{
		{
			name:         "no filter",
			filter:       BatchFilter{},
			expectedArgs: []driver.Value{"completed", 0},
		},
		{
			name:         "mode and department",
			filter:       BatchFilter{Mode: models.ModeNBA, DepartmentName: "CSE"},
			expectedArgs: []driver.Value{"completed", 0, "nba", "CSE"},
		},
		{
			name:         "data source",
			filter:       BatchFilter{DataSource: models.DataSourceSystem},
			expectedArgs: []driver.Value{"completed", 0, "system"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, mock := newTestRegistry(t)

			rows := sqlmock.NewRows(batchRowColumns).
				AddRow("b-2", "nba", "completed", "IIT Delhi", "CSE", "2024-25", 0, "user", created, created, 4).
				AddRow("b-1", "nba", "completed", "NIT Trichy", "CSE", "2023-24", 0, "system", created.Add(-time.Hour), created, 2)
			mock.ExpectQuery("SELECT (.+) FROM batches b WHERE (.+) ORDER BY b.created_at DESC, b.id").
				WithArgs(tt.expectedArgs...).
				WillReturnRows(rows)

			batches, err := reg.ListEligibleBatches(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, batches, 2)

			assert.Equal(t, "b-2", batches[0].ID)
			assert.Equal(t, models.ModeNBA, batches[0].Mode)
			assert.Equal(t, models.BatchStatusCompleted, batches[0].Status)
			assert.Equal(t, 4, batches[0].DocumentCount)
			assert.Equal(t, "2024-25", batches[0].AcademicYear)
			assert.False(t, batches[0].IsInvalid)
			assert.Equal(t, models.DataSourceSystem, batches[1].DataSource)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgres_ListEligibleBatches_Empty(t *testing.T) {
	reg, mock := newTestRegistry(t)
	mock.ExpectQuery("SELECT (.+) FROM batches b").WillReturnRows(sqlmock.NewRows(batchRowColumns))

	batches, err := reg.ListEligibleBatches(context.Background(), BatchFilter{})
	require.NoError(t, err)
	assert.NotNil(t, batches)
	assert.Empty(t, batches)
}

// ==========================
// GetBatch
// ==========================

func TestPostgres_GetBatch(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		reg, mock := newTestRegistry(t)
		mock.ExpectQuery("SELECT (.+) FROM batches b WHERE b.id = \\$1").
			WithArgs("b-7").
			WillReturnRows(sqlmock.NewRows(batchRowColumns).
				AddRow("b-7", "naac", "failed", "IIT Delhi", "", "2022-23", 1, "user", created, created, 0))

		b, err := reg.GetBatch(context.Background(), "b-7")
		require.NoError(t, err)
		assert.Equal(t, models.BatchStatusFailed, b.Status)
		assert.True(t, b.IsInvalid)
		assert.Equal(t, 0, b.DocumentCount)
		assert.Equal(t, created, b.CreatedAt)
	})

	t.Run("not found", func(t *testing.T) {
		reg, mock := newTestRegistry(t)
		mock.ExpectQuery("SELECT (.+) FROM batches b").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(batchRowColumns))

		_, err := reg.GetBatch(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrBatchNotFound)
	})
}

// ==========================
// GetKpiSnapshot
// ==========================

func TestPostgres_GetKpiSnapshot(t *testing.T) {
	snapshotColumns := []string{"kpi_results", "sufficiency_result", "compliance_count"}

	t.Run("mixed value encodings", func(t *testing.T) {
		reg, mock := newTestRegistry(t)
		kpis := `{"fsr_score": 82.5, "infrastructure_score": {"value": 70}, "placement_index": 0,
			"lab_compliance_index": "n/a", "overall_score": {"value": 76.4, "band": "good"}}`
		mock.ExpectQuery("SELECT (.+) FROM batches b WHERE b.id = \\$1").
			WithArgs("b-1").
			WillReturnRows(sqlmock.NewRows(snapshotColumns).AddRow([]byte(kpis), []byte(`{"percentage": 91.5}`), 2))

		snap, err := reg.GetKpiSnapshot(context.Background(), "b-1")
		require.NoError(t, err)

		assert.False(t, snap.Incomplete)
		assert.Equal(t, "b-1", snap.BatchID)
		assert.Equal(t, 91.5, snap.SufficiencyPercent)
		assert.Equal(t, 2, snap.ComplianceCount)
		require.NotNil(t, snap.KPIs.FSR)
		assert.Equal(t, 82.5, *snap.KPIs.FSR)
		require.NotNil(t, snap.KPIs.Infrastructure)
		assert.Equal(t, 70.0, *snap.KPIs.Infrastructure)
		assert.Nil(t, snap.KPIs.Placement, "zero is treated as absent")
		assert.Nil(t, snap.KPIs.LabCompliance, "non-numeric is treated as absent")
		require.NotNil(t, snap.OverallScore)
		assert.Equal(t, 76.4, *snap.OverallScore)
	})

	t.Run("null results are incomplete", func(t *testing.T) {
		reg, mock := newTestRegistry(t)
		mock.ExpectQuery("SELECT (.+) FROM batches b").
			WithArgs("b-2").
			WillReturnRows(sqlmock.NewRows(snapshotColumns).AddRow(nil, []byte(`40`), 0))

		snap, err := reg.GetKpiSnapshot(context.Background(), "b-2")
		require.NoError(t, err)
		assert.True(t, snap.Incomplete)
		assert.Equal(t, 40.0, snap.SufficiencyPercent)
		assert.Nil(t, snap.OverallScore)
	})

	t.Run("malformed results are incomplete", func(t *testing.T) {
		reg, mock := newTestRegistry(t)
		mock.ExpectQuery("SELECT (.+) FROM batches b").
			WithArgs("b-3").
			WillReturnRows(sqlmock.NewRows(snapshotColumns).AddRow([]byte(`[1,2`), nil, 0))

		snap, err := reg.GetKpiSnapshot(context.Background(), "b-3")
		require.NoError(t, err)
		assert.True(t, snap.Incomplete)
		assert.Equal(t, 0.0, snap.SufficiencyPercent)
	})

	t.Run("not found", func(t *testing.T) {
		reg, mock := newTestRegistry(t)
		mock.ExpectQuery("SELECT (.+) FROM batches b").
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows(snapshotColumns))

		_, err := reg.GetKpiSnapshot(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrBatchNotFound)
	})
}

// ==========================
// GetYearlyKpis
// ==========================

func TestPostgres_GetYearlyKpis(t *testing.T) {
	reg, mock := newTestRegistry(t)

	rows := sqlmock.NewRows([]string{"id", "academic_year", "kpi_results", "created_at"}).
		AddRow("b-new", "2023-24", []byte(`{"fsr_score": 80}`), created).
		AddRow("b-old", "2023-24", []byte(`{"fsr_score": 60}`), created.Add(-48*time.Hour)).
		AddRow("b-21", "2021-22", []byte(`{"fsr_score": 70, "overall_score": {"value": 65}}`), created.Add(-72*time.Hour)).
		AddRow("b-bad", "unknown", []byte(`{"fsr_score": 99}`), created.Add(-96*time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM batches b WHERE (.+) ORDER BY b.created_at DESC, b.id").
		WithArgs("IIT Delhi", "completed", 0, "CSE").
		WillReturnRows(rows)

	series, err := reg.GetYearlyKpis(context.Background(), "IIT Delhi", "CSE")
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, 2021, series[0].Year)
	assert.Equal(t, 70.0, *series[0].KPIs.FSR)
	assert.Equal(t, 65.0, *series[0].KPIs.Overall)

	assert.Equal(t, 2023, series[1].Year)
	assert.Equal(t, 80.0, *series[1].KPIs.FSR, "latest batch of the year wins")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetYearlyKpis_NoDepartment(t *testing.T) {
	reg, mock := newTestRegistry(t)
	mock.ExpectQuery("SELECT (.+) FROM batches b").
		WithArgs("IIT Delhi", "completed", 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "academic_year", "kpi_results", "created_at"}))

	series, err := reg.GetYearlyKpis(context.Background(), "IIT Delhi", "")
	require.NoError(t, err)
	assert.Empty(t, series)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Mapping
// ==========================

func TestPostgres_ErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		dbErr        error
		expectedCode commonerrors.ErrorCode
		retryable    bool
	}{
		{name: "connection failure", dbErr: errors.New("dial tcp: connection refused"), expectedCode: commonerrors.ErrCodeRegistryUnavailable, retryable: true},
		{name: "deadline", dbErr: context.DeadlineExceeded, expectedCode: commonerrors.ErrCodeQueryTimeout, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, mock := newTestRegistry(t)
			mock.ExpectQuery("SELECT (.+) FROM batches b").WillReturnError(tt.dbErr)

			_, err := reg.ListEligibleBatches(context.Background(), BatchFilter{})
			require.Error(t, err)

			stdErr, ok := commonerrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestParseAcademicYear(t *testing.T) {
	tests := []struct {
		in   string
		year int
		ok   bool
	}{
		{"2024-25", 2024, true},
		{"2019", 2019, true},
		{"24-25", 0, false},
		{"", 0, false},
		{"AY 2024", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			year, ok := ParseAcademicYear(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.year, year)
		})
	}
}
