package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStats holds the request and item counters for one collection run.
// A fresh value is created per run and threaded through the collector;
// there is no shared global state.
type RunStats struct {
	RunID     string    `json:"run_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	TotalRequests      int `json:"total_requests"`
	SuccessfulRequests int `json:"successful_requests"`
	FailedRequests     int `json:"failed_requests"`

	// TotalApps counts every raw record seen, duplicates included.
	// UniqueApps counts the records retained after deduplication.
	TotalApps  int `json:"total_apps"`
	UniqueApps int `json:"unique_apps"`
}

// NewRunStats creates zeroed statistics stamped with a run identifier.
func NewRunStats() *RunStats {
	return &RunStats{
		RunID:     uuid.New().String(),
		StartTime: time.Now().UTC(),
	}
}

// Finalize stamps the end of the run.
func (s *RunStats) Finalize() {
	s.EndTime = time.Now().UTC()
}

// Duration returns the wall-clock duration of the run.
func (s *RunStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// SuccessRate returns the fraction of requests that succeeded, in
// percent. Zero requests yields zero.
func (s *RunStats) SuccessRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.SuccessfulRequests) / float64(s.TotalRequests) * 100
}
