package service

import "sync/atomic"

// Metrics tracks task pipeline counters
type Metrics struct {
	tasksStarted   int64
	tasksCompleted int64
	tasksFailed    int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the current metrics snapshot
func GetMetrics() Metrics {
	return Metrics{
		tasksStarted:   atomic.LoadInt64(&globalMetrics.tasksStarted),
		tasksCompleted: atomic.LoadInt64(&globalMetrics.tasksCompleted),
		tasksFailed:    atomic.LoadInt64(&globalMetrics.tasksFailed),
	}
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.tasksStarted, 0)
	atomic.StoreInt64(&globalMetrics.tasksCompleted, 0)
	atomic.StoreInt64(&globalMetrics.tasksFailed, 0)
}

func recordTaskStarted()   { atomic.AddInt64(&globalMetrics.tasksStarted, 1) }
func recordTaskCompleted() { atomic.AddInt64(&globalMetrics.tasksCompleted, 1) }
func recordTaskFailed()    { atomic.AddInt64(&globalMetrics.tasksFailed, 1) }

// Started returns how many tasks entered a pipeline.
func (m Metrics) Started() int64 { return m.tasksStarted }

// Completed returns how many tasks finished successfully.
func (m Metrics) Completed() int64 { return m.tasksCompleted }

// Failed returns how many tasks ended in failure.
func (m Metrics) Failed() int64 { return m.tasksFailed }
