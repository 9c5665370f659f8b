package tool

import "time"

// Metrics tracks execution statistics for one registered tool.
type Metrics struct {
	ExecutionCount int64         `json:"execution_count"`
	SuccessCount   int64         `json:"success_count"`
	FailureCount   int64         `json:"failure_count"`
	TotalDuration  time.Duration `json:"total_duration"`
	LastDuration   time.Duration `json:"last_duration"`
	LastExecutedAt time.Time     `json:"last_executed_at"`
}

func (m *Metrics) recordSuccess(d time.Duration) {
	m.ExecutionCount++
	m.SuccessCount++
	m.record(d)
}

func (m *Metrics) recordFailure(d time.Duration) {
	m.ExecutionCount++
	m.FailureCount++
	m.record(d)
}

func (m *Metrics) record(d time.Duration) {
	m.TotalDuration += d
	m.LastDuration = d
	m.LastExecutedAt = time.Now()
}

// AverageDuration returns the mean execution duration, or zero before the
// first execution.
func (m Metrics) AverageDuration() time.Duration {
	if m.ExecutionCount == 0 {
		return 0
	}
	return m.TotalDuration / time.Duration(m.ExecutionCount)
}

// SuccessRate returns the fraction of executions that succeeded, in [0, 1].
func (m Metrics) SuccessRate() float64 {
	if m.ExecutionCount == 0 {
		return 0
	}
	return float64(m.SuccessCount) / float64(m.ExecutionCount)
}
