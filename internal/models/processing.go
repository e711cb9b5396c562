package models

import (
	"sync"
	"time"
)

// ProcessingStats summarises the operations run since start-up.
type ProcessingStats struct {
	TotalProcessed int
	TotalFailed    int
	TotalTime      time.Duration
	AverageTime    time.Duration
	LastOperation  string
	LastDuration   time.Duration
	LastError      string
}

// ProcessingStatsRepository accumulates ProcessingStats.
type ProcessingStatsRepository struct {
	mu    sync.RWMutex
	stats ProcessingStats
}

func NewProcessingStatsRepository() *ProcessingStatsRepository {
	return &ProcessingStatsRepository{}
}

func (r *ProcessingStatsRepository) RecordSuccess(operation string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.TotalProcessed++
	r.stats.TotalTime += d
	r.stats.AverageTime = r.stats.TotalTime / time.Duration(r.stats.TotalProcessed)
	r.stats.LastOperation = operation
	r.stats.LastDuration = d
	r.stats.LastError = ""
}

func (r *ProcessingStatsRepository) RecordFailure(operation string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.TotalFailed++
	r.stats.LastOperation = operation
	r.stats.LastDuration = 0
	if err != nil {
		r.stats.LastError = err.Error()
	}
}

func (r *ProcessingStatsRepository) GetStats() ProcessingStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}
