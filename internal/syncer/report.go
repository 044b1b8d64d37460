package syncer

import (
	"sync"
	"time"
)

// CollectionError is one recorded per-record or per-collection failure.
type CollectionError struct {
	Collection string `json:"collection"`
	Message    string `json:"error"`
}

// Report summarizes one sync run. It lives only for the duration of the
// invocation and is returned to the caller, never persisted. The four
// collection tasks append concurrently, so all mutation goes through
// the mutex-guarded methods.
type Report struct {
	mu sync.Mutex

	RunID          string            `json:"run_id"`
	Skipped        bool              `json:"skipped"`
	Counts         map[string]int    `json:"counts"`
	Errors         []CollectionError `json:"errors"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        time.Time         `json:"end_time"`
	DurationMillis int64             `json:"duration_ms"`
}

func newReport(runID string, start time.Time, collections []string) *Report {
	counts := make(map[string]int, len(collections))
	for _, name := range collections {
		counts[name] = 0
	}
	return &Report{
		RunID:     runID,
		Counts:    counts,
		Errors:    []CollectionError{},
		StartTime: start,
	}
}

func (r *Report) addSuccess(collection string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Counts[collection]++
}

func (r *Report) addError(collection string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, CollectionError{Collection: collection, Message: err.Error()})
}

func (r *Report) finish(end time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.EndTime = end
	r.DurationMillis = end.Sub(r.StartTime).Milliseconds()
}

// Total returns the number of successfully synced records across all
// collections.
func (r *Report) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, count := range r.Counts {
		total += count
	}
	return total
}
