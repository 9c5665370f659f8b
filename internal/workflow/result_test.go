package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/louipr/spark/internal/types"
)

func TestTaskResult_Validate(t *testing.T) {
	tests := []struct {
		name    string
		result  TaskResult
		wantErr bool
	}{
		{
			name:    "valid success",
			result:  TaskResult{StepID: "s1", Success: true, Result: map[string]any{"out": 1}},
			wantErr: false,
		},
		{
			name:    "valid failure",
			result:  TaskResult{StepID: "s1", Success: false, Error: "boom"},
			wantErr: false,
		},
		{
			name:    "success carrying an error",
			result:  TaskResult{StepID: "s1", Success: true, Error: "boom"},
			wantErr: true,
		},
		{
			name:    "failure without an error",
			result:  TaskResult{StepID: "s1", Success: false},
			wantErr: true,
		},
		{
			name:    "missing step id",
			result:  TaskResult{Success: false, Error: "boom"},
			wantErr: true,
		},
		{
			name:    "negative duration",
			result:  TaskResult{StepID: "s1", Success: false, Error: "boom", Duration: -time.Second},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFailureResult_CarriesErrorCode(t *testing.T) {
	s := Step{ID: "s1", Tool: "shell"}

	r := FailureResult(s, types.NewError(types.SHELL_COMMAND_NOT_FOUND, "command not found: frob"), time.Millisecond)
	assert.False(t, r.Success)
	assert.Equal(t, types.SHELL_COMMAND_NOT_FOUND, r.ErrorCode)
	assert.NoError(t, r.Validate())

	untyped := FailureResult(s, errors.New("plain failure"), 0)
	assert.Empty(t, untyped.ErrorCode)
	assert.Equal(t, "plain failure", untyped.Error)
}

func TestRetryPolicy_Delay(t *testing.T) {
	tests := []struct {
		name    string
		policy  RetryPolicy
		attempt int
		want    time.Duration
	}{
		{
			name:    "flat backoff",
			policy:  RetryPolicy{Backoff: 100 * time.Millisecond},
			attempt: 3,
			want:    100 * time.Millisecond,
		},
		{
			name:    "exponential first attempt",
			policy:  RetryPolicy{Backoff: time.Second, Exponential: true},
			attempt: 0,
			want:    time.Second,
		},
		{
			name:    "exponential third attempt",
			policy:  RetryPolicy{Backoff: time.Second, Exponential: true},
			attempt: 2,
			want:    4 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Delay(tt.attempt))
		})
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, 3, p.MaxRetries)
	assert.Equal(t, time.Second, p.Backoff)
	assert.True(t, p.Exponential)
}
