package workflow

import (
	"time"

	"github.com/louipr/spark/internal/types"
)

// TaskResult is the outcome of executing one step. Exactly one of Result and
// Error is meaningful: Result is present iff Success, Error iff not.
type TaskResult struct {
	StepID  string         `json:"step_id"`
	Tool    string         `json:"tool"`
	Success bool           `json:"success"`
	Result  map[string]any `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`

	// ErrorCode carries the typed classification of a failure so the
	// failure-decision policy does not have to pattern-match Error text.
	ErrorCode types.ErrorCode `json:"error_code,omitempty"`

	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Validate enforces the result/error exclusivity invariant.
func (r TaskResult) Validate() error {
	if r.StepID == "" {
		return types.NewError(types.PLAN_INVALID, "task result missing step id")
	}
	if r.Success && r.Error != "" {
		return types.NewError(types.PLAN_INVALID, "successful task result carries an error message")
	}
	if !r.Success && r.Error == "" {
		return types.NewError(types.PLAN_INVALID, "failed task result carries no error message")
	}
	if r.Duration < 0 {
		return types.NewError(types.PLAN_INVALID, "task result duration is negative")
	}
	return nil
}

// SuccessResult builds a successful TaskResult for a step.
func SuccessResult(step Step, output map[string]any, duration time.Duration) TaskResult {
	return TaskResult{
		StepID:    step.ID,
		Tool:      step.Tool,
		Success:   true,
		Result:    output,
		Duration:  duration,
		Timestamp: time.Now(),
	}
}

// FailureResult builds a failed TaskResult for a step, extracting the typed
// error code when err is (or wraps) a SparkError.
func FailureResult(step Step, err error, duration time.Duration) TaskResult {
	return TaskResult{
		StepID:    step.ID,
		Tool:      step.Tool,
		Success:   false,
		Error:     err.Error(),
		ErrorCode: types.CodeOf(err),
		Duration:  duration,
		Timestamp: time.Now(),
	}
}

// RetryPolicy bounds the executor's retry loop. It is constructed fresh per
// execution call and never persisted.
type RetryPolicy struct {
	MaxRetries  int           `json:"max_retries"`
	Backoff     time.Duration `json:"backoff"`
	Exponential bool          `json:"exponential"`
}

// DefaultRetryPolicy returns the engine default: 3 retries, 1s base delay,
// exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:  3,
		Backoff:     time.Second,
		Exponential: true,
	}
}

// Delay returns the wait before the attempt following attemptIndex
// (zero-based): backoff * 2^attemptIndex when exponential, flat otherwise.
func (p RetryPolicy) Delay(attemptIndex int) time.Duration {
	if !p.Exponential {
		return p.Backoff
	}
	return p.Backoff * (1 << attemptIndex)
}
