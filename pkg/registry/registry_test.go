package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validActivity(id string) Activity {
	return Activity{
		ID:          id,
		DisplayName: "Compare Institutions",
		Category:    "comparison",
		TaskType:    id,
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"batchIds"},
		},
	}
}

func TestActivityRegistry_Validate(t *testing.T) {
	tests := []struct {
		name       string
		activities []Activity
		errMsg     string
	}{
		{
			name:       "valid",
			activities: []Activity{validActivity("compare-institutions"), validActivity("rank-institutions")},
		},
		{
			name:       "empty",
			activities: nil,
			errMsg:     "no activities",
		},
		{
			name:       "duplicate id",
			activities: []Activity{validActivity("compare-institutions"), validActivity("compare-institutions")},
			errMsg:     "duplicate activity ID",
		},
		{
			name: "shared task type",
			activities: func() []Activity {
				other := validActivity("compare-v2")
				other.TaskType = "compare-institutions"
				return []Activity{validActivity("compare-institutions"), other}
			}(),
			errMsg: "share task type",
		},
		{
			name: "bad task type",
			activities: func() []Activity {
				a := validActivity("compare")
				return []Activity{a}
			}(),
			errMsg: "task type must be lower-case words",
		},
		{
			name: "broken schema",
			activities: func() []Activity {
				a := validActivity("compare-institutions")
				a.InputSchema = map[string]interface{}{"type": 12}
				return []Activity{a}
			}(),
			errMsg: "invalid schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Version: "1.0.0", Activities: tt.activities}
			err := reg.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadRegistry_ShippedDocument(t *testing.T) {
	reg, err := LoadRegistry("../../configs/activity-registry.json")
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{
		"list-eligible-batches",
		"compare-institutions",
		"rank-institutions",
		"get-trends",
		"get-forecast",
	} {
		activity, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.Equal(t, taskType, activity.TaskType)
	}

	_, ok := reg.Find("send-notification")
	assert.False(t, ok)
}

func TestActivityRegistry_ValidateTimeoutAndRetries(t *testing.T) {
	a := validActivity("compare-institutions")
	a.Timeout = "thirty seconds"
	err := (&ActivityRegistry{Activities: []Activity{a}}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive duration")

	a.Timeout = "30s"
	a.Retries = -1
	err = (&ActivityRegistry{Activities: []Activity{a}}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retries must not be negative")

	a.Retries = 3
	assert.NoError(t, (&ActivityRegistry{Activities: []Activity{a}}).Validate())
}

// ==========================
// Diff Tests
// ==========================

func TestDiff(t *testing.T) {
	expected := &ActivityRegistry{Activities: []Activity{
		validActivity("compare-institutions"),
		validActivity("rank-institutions"),
	}}

	t.Run("up to date", func(t *testing.T) {
		current := &ActivityRegistry{Version: "0.9.0", Activities: []Activity{
			validActivity("rank-institutions"),
			validActivity("compare-institutions"),
		}}
		assert.Empty(t, Diff(current, expected))
	})

	t.Run("numbers decoded from disk compare equal", func(t *testing.T) {
		withInt := validActivity("compare-institutions")
		withInt.InputSchema = map[string]interface{}{"type": "object", "minProperties": 1}
		withFloat := validActivity("compare-institutions")
		withFloat.InputSchema = map[string]interface{}{"type": "object", "minProperties": 1.0}

		changes := Diff(&ActivityRegistry{Activities: []Activity{withFloat}}, &ActivityRegistry{Activities: []Activity{withInt}})
		assert.Empty(t, changes)
	})

	t.Run("drift", func(t *testing.T) {
		changed := validActivity("compare-institutions")
		changed.Timeout = "5s"
		changed.InputSchema = map[string]interface{}{"type": "object"}

		current := &ActivityRegistry{Activities: []Activity{changed, validActivity("send-digest")}}
		assert.Equal(t, []string{
			"compare-institutions: inputSchema differs",
			"compare-institutions: timeout differs",
			"rank-institutions: missing",
			"send-digest: not served by any worker",
		}, Diff(current, expected))
	})
}
