package gettrends

import (
	"context"
	"encoding/json"
	"testing"

	"accreditation-workers/internal/common/camunda"
	commonerrors "accreditation-workers/internal/common/errors"
	"accreditation-workers/internal/common/logger"
	"accreditation-workers/internal/common/validation"
	"accreditation-workers/internal/engine"
	"accreditation-workers/internal/models"
	"accreditation-workers/internal/registry"
	"accreditation-workers/internal/registry/registrytest"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "accreditation-analytics",
		ElementId:          "Activity_GetTrends",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func overallSeries(values map[int]float64) []models.YearlyKPIs {
	out := make([]models.YearlyKPIs, 0, len(values))
	for year := 2020; year <= 2030; year++ {
		if v, ok := values[year]; ok {
			out = append(out, models.YearlyKPIs{Year: year, KPIs: models.KPIValues{Overall: models.Float(v)}})
		}
	}
	return out
}

func createTestHandler(t *testing.T, reg registry.Registry) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Registry:     reg,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: DefaultConfig()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry is required")

	h, err := NewHandler(HandlerOptions{Registry: &registrytest.MockRegistry{}})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), h.GetConfig())
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ByBatch(t *testing.T) {
	reg := &registrytest.MockRegistry{}
	reg.On("GetBatch", mock.Anything, "b-1").
		Return(registrytest.CompletedBatch("b-1", "Alpha Institute", "CSE", "2023-24"), nil).Once()
	reg.On("GetYearlyKpis", mock.Anything, "Alpha Institute", "CSE").
		Return(overallSeries(map[int]float64{2021: 70, 2022: 75, 2023: 80}), nil).Once()

	h := createTestHandler(t, reg)
	output, err := h.Execute(context.Background(), &Input{BatchID: "b-1"})

	require.NoError(t, err)
	assert.Equal(t, "Alpha Institute", output.InstitutionName)
	assert.Equal(t, []int{2021, 2022, 2023}, output.YearsAvailable)
	assert.True(t, output.HasHistoricalData)
	assert.False(t, output.InsufficientData)

	overall, ok := output.Trends[models.KPIOverall]
	require.True(t, ok)
	require.NotNil(t, overall.Slope)
	assert.InDelta(t, 5.0, *overall.Slope, 1e-9)
	assert.Equal(t, "Strong growth", overall.Insight)
	reg.AssertExpectations(t)
}

func TestHandler_Execute_ByInstitution(t *testing.T) {
	reg := &registrytest.MockRegistry{}
	reg.On("GetYearlyKpis", mock.Anything, "Beta College", "").
		Return(overallSeries(map[int]float64{2023: 72}), nil).Once()

	h := createTestHandler(t, reg)
	output, err := h.Execute(context.Background(), &Input{InstitutionName: "Beta College"})

	require.NoError(t, err)
	assert.True(t, output.InsufficientData)
	assert.False(t, output.HasHistoricalData)
	assert.Equal(t, "At least 2 academic years of KPI data are required for trends.", output.InsufficientDataReason)
	reg.AssertNotCalled(t, "GetBatch", mock.Anything, mock.Anything)
}

func TestHandler_Execute_InvalidBatch(t *testing.T) {
	batch := registrytest.CompletedBatch("b-2", "Beta College", "ECE", "2023-24")
	batch.IsInvalid = true

	reg := &registrytest.MockRegistry{}
	reg.On("GetBatch", mock.Anything, "b-2").Return(batch, nil).Once()

	h := createTestHandler(t, reg)
	output, err := h.Execute(context.Background(), &Input{BatchID: "b-2"})

	require.NoError(t, err)
	assert.True(t, output.InsufficientData)
	assert.Equal(t, engine.InvalidBatchReason, output.InsufficientDataReason)
	assert.Empty(t, output.YearsAvailable)
	reg.AssertNotCalled(t, "GetYearlyKpis", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(reg *registrytest.MockRegistry)
		input    *Input
		wantCode commonerrors.ErrorCode
	}{
		{
			name: "unknown batch",
			setup: func(reg *registrytest.MockRegistry) {
				reg.On("GetBatch", mock.Anything, "b-404").Return(nil, registry.ErrBatchNotFound)
			},
			input:    &Input{BatchID: "b-404"},
			wantCode: commonerrors.ErrCodeBatchNotFound,
		},
		{
			name: "registry unavailable",
			setup: func(reg *registrytest.MockRegistry) {
				reg.On("GetYearlyKpis", mock.Anything, "Alpha Institute", "").
					Return(nil, commonerrors.NewRegistryUnavailableError(string(models.QueryTypeYearlyKpis), assert.AnError))
			},
			input:    &Input{InstitutionName: "Alpha Institute"},
			wantCode: commonerrors.ErrCodeRegistryUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &registrytest.MockRegistry{}
			tt.setup(reg)

			output, err := createTestHandler(t, reg).Execute(context.Background(), tt.input)

			require.Error(t, err)
			assert.Nil(t, output)
			assert.True(t, commonerrors.HasCode(err, tt.wantCode))
		})
	}
}

func TestOutput_JSON(t *testing.T) {
	reg := &registrytest.MockRegistry{}
	reg.On("GetYearlyKpis", mock.Anything, "Alpha Institute", "CSE").
		Return(overallSeries(map[int]float64{2022: 70, 2023: 74}), nil)

	output, err := createTestHandler(t, reg).Execute(context.Background(), &Input{InstitutionName: "Alpha Institute", DepartmentName: "CSE"})
	require.NoError(t, err)

	raw, err := json.Marshal(output)
	require.NoError(t, err)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &vars))
	assert.Equal(t, "Alpha Institute", vars["institutionName"])
	assert.Contains(t, vars, "trends")

	result := validation.ValidateInput(vars, GetOutputSchema())
	assert.True(t, result.Valid, result.GetErrorMessages())
}

// ==========================
// Input Decoding Tests
// ==========================

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name      string
		variables map[string]interface{}
		wantErr   bool
	}{
		{name: "batch id", variables: map[string]interface{}{"batchId": "b-1"}},
		{name: "institution", variables: map[string]interface{}{"institutionName": "Alpha Institute", "departmentName": "CSE"}},
		{name: "neither", variables: map[string]interface{}{"departmentName": "CSE"}, wantErr: true},
		{name: "empty batch id", variables: map[string]interface{}{"batchId": ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var input Input
			err := camunda.DecodeVariables(createMockJob(1, tt.variables), GetInputSchema(), &input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeValidationFailed))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSchemasCompile(t *testing.T) {
	require.NoError(t, validation.Compile(GetInputSchema()))
	require.NoError(t, validation.Compile(GetOutputSchema()))
}
