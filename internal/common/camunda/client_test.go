package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"accreditation-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var fastRetry = &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestExecuteWithRetry_RecoversFromTransientError(t *testing.T) {
	calls := 0
	result, err := executeWithRetry(context.Background(), fastRetry, func(ctx context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, fmt.Errorf("rpc error: code = Unavailable desc = connection refused")
		}
		return "topology", nil
	}, "topology")

	require.NoError(t, err)
	assert.Equal(t, "topology", result)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_GivesUp(t *testing.T) {
	calls := 0
	_, err := executeWithRetry(context.Background(), fastRetry, func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, fmt.Errorf("context deadline exceeded")
	}, "topology")

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBrokerUnavailable))
}

func TestExecuteWithRetry_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	_, err := executeWithRetry(context.Background(), fastRetry, func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, fmt.Errorf("rpc error: code = NotFound desc = job not found")
	}, "complete-job")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	slow := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}

	_, err := executeWithRetry(ctx, slow, func(ctx context.Context) (interface{}, error) {
		cancel()
		return nil, fmt.Errorf("unavailable")
	}, "topology")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		msg      string
		expected bool
	}{
		{"connection refused", true},
		{"rpc error: code = DeadlineExceeded desc = context deadline exceeded", true},
		{"Unavailable: broker is unreachable", true},
		{"write: broken pipe", true},
		{"job not found", false},
		{"permission denied", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.expected, isRetryableZeebeError(fmt.Errorf("%s", tt.msg)))
		})
	}
}

func TestIsRetryableZeebeError_StatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"unavailable", status.Error(codes.Unavailable, "gateway restarting"), true},
		{"resource exhausted", status.Error(codes.ResourceExhausted, "backpressure"), true},
		{"not found", status.Error(codes.NotFound, "job 42 not found"), false},
		{"invalid argument mentioning timeout", status.Error(codes.InvalidArgument, "timeout must be positive"), false},
		{"wrapped deadline", fmt.Errorf("send: %w", context.DeadlineExceeded), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isRetryableZeebeError(tt.err))
		})
	}
}
