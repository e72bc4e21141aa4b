package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"accreditation-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registryFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "activity-registry.json")
}

// ==========================
// Command Tests
// ==========================

func TestRun_GenerateThenCheck(t *testing.T) {
	path := registryFile(t)
	var out bytes.Buffer

	require.NoError(t, run("generate", []string{"-path", path, "-version", "2.0.0"}, &out))
	assert.Contains(t, out.String(), "Generated 5 activities")

	out.Reset()
	require.NoError(t, run("check", []string{"-path", path}, &out))
	assert.Contains(t, out.String(), "up to date")

	require.NoError(t, run("validate", []string{"-path", path}, &out))
}

func TestRun_CheckReportsDrift(t *testing.T) {
	path := registryFile(t)
	require.NoError(t, run("generate", []string{"-path", path}, &bytes.Buffer{}))
	require.NoError(t, run("update", []string{"-path", path, "-id", "get-forecast", "-field", "timeout", "-value", "1m"}, &bytes.Buffer{}))

	var out bytes.Buffer
	err := run("check", []string{"-path", path}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 difference(s) found")
	assert.Contains(t, out.String(), "get-forecast: timeout differs")
}

func TestRun_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := run("publish", nil, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "Usage: registry-updater")
}

// ==========================
// Add / Update Tests
// ==========================

func TestAddActivity(t *testing.T) {
	path := registryFile(t)
	now := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	activity := registry.Activity{
		ID:          "export-comparison",
		DisplayName: "Export Comparison",
		Category:    "comparison",
		TaskType:    "export-comparison",
		Timeout:     "10s",
	}

	require.NoError(t, addActivity(path, activity, now))

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-02T08:00:00Z", reg.LastUpdated)
	_, ok := reg.Find("export-comparison")
	assert.True(t, ok)

	err = addActivity(path, activity, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestUpdateActivity(t *testing.T) {
	path := registryFile(t)
	require.NoError(t, registry.SaveRegistry(generateRegistry("1.0.0", time.Now()), path))

	tests := []struct {
		name   string
		id     string
		field  string
		value  string
		errMsg string
	}{
		{name: "status", id: "rank-institutions", field: "status", value: "verified"},
		{name: "max jobs", id: "rank-institutions", field: "maxJobsActive", value: "8"},
		{name: "bad timeout", id: "rank-institutions", field: "timeout", value: "soon", errMsg: "invalid timeout"},
		{name: "bad retries", id: "rank-institutions", field: "retries", value: "many", errMsg: "invalid retries"},
		{name: "unknown field", id: "rank-institutions", field: "owner", value: "x", errMsg: "unknown field"},
		{name: "unknown activity", id: "send-digest", field: "status", value: "verified", errMsg: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := updateActivity(path, tt.id, tt.field, tt.value, time.Now())
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	rank, ok := reg.Find("rank-institutions")
	require.True(t, ok)
	assert.Equal(t, "verified", rank.ImplementationStatus)
	assert.Equal(t, 8, rank.MaxJobsActive)
}
