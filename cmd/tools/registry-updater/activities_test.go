package main

import (
	"path/filepath"
	"testing"
	"time"

	"accreditation-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRegistry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg := generateRegistry("1.0.0", now)

	require.NoError(t, reg.Validate())
	assert.Equal(t, "2026-03-01T12:00:00Z", reg.LastUpdated)
	require.Len(t, reg.Activities, 5)

	compare, ok := reg.Find("compare-institutions")
	require.True(t, ok)
	assert.Equal(t, "comparison", compare.Category)
	assert.Equal(t, 3, compare.Retries)
	assert.Equal(t, "30s", compare.Timeout)
	assert.Contains(t, compare.InputSchema["required"], "batchIds")

	trends, ok := reg.Find("get-trends")
	require.True(t, ok)
	assert.Contains(t, trends.ErrorCodes, "BATCH_NOT_FOUND")
	assert.Contains(t, trends.InputSchema, "anyOf")
}

func TestGenerateRegistry_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "activity-registry.json")
	reg := generateRegistry("1.0.0", time.Now())

	require.NoError(t, registry.SaveRegistry(reg, path))

	loaded, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate())
	assert.Len(t, loaded.Activities, len(reg.Activities))
}
