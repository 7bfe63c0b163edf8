package ai

import (
	"sync/atomic"
	"time"
)

// Metrics tracks provider call metrics
type Metrics struct {
	providerCalls   int64
	providerErrors  int64
	providerLatency int64 // Total latency in nanoseconds
	imageCalls      int64
	imageErrors     int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the current metrics snapshot
func GetMetrics() Metrics {
	return Metrics{
		providerCalls:   atomic.LoadInt64(&globalMetrics.providerCalls),
		providerErrors:  atomic.LoadInt64(&globalMetrics.providerErrors),
		providerLatency: atomic.LoadInt64(&globalMetrics.providerLatency),
		imageCalls:      atomic.LoadInt64(&globalMetrics.imageCalls),
		imageErrors:     atomic.LoadInt64(&globalMetrics.imageErrors),
	}
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.providerCalls, 0)
	atomic.StoreInt64(&globalMetrics.providerErrors, 0)
	atomic.StoreInt64(&globalMetrics.providerLatency, 0)
	atomic.StoreInt64(&globalMetrics.imageCalls, 0)
	atomic.StoreInt64(&globalMetrics.imageErrors, 0)
}

func recordTextCall(duration time.Duration, err error) {
	atomic.AddInt64(&globalMetrics.providerCalls, 1)
	atomic.AddInt64(&globalMetrics.providerLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.providerErrors, 1)
	}
}

func recordImageCall(err error) {
	atomic.AddInt64(&globalMetrics.imageCalls, 1)
	if err != nil {
		atomic.AddInt64(&globalMetrics.imageErrors, 1)
	}
}

// TextCalls returns how many text generations were attempted.
func (m Metrics) TextCalls() int64 { return m.providerCalls }

// ImageCalls returns how many image generations were attempted.
func (m Metrics) ImageCalls() int64 { return m.imageCalls }

// AverageTextLatency returns the average text call latency in milliseconds.
func (m Metrics) AverageTextLatency() float64 {
	if m.providerCalls == 0 {
		return 0
	}
	avgNs := float64(m.providerLatency) / float64(m.providerCalls)
	return avgNs / 1e6
}

// TextErrorRate returns the text call error rate as a percentage.
func (m Metrics) TextErrorRate() float64 {
	if m.providerCalls == 0 {
		return 0
	}
	return float64(m.providerErrors) / float64(m.providerCalls) * 100
}

// ImageErrors returns how many image generations failed.
func (m Metrics) ImageErrors() int64 { return m.imageErrors }
