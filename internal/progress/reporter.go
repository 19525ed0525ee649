package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/johndauphine/db-volumetry/internal/logging"
)

// ProgressUpdate is one JSON progress line for automation.
type ProgressUpdate struct {
	Timestamp     string  `json:"timestamp"`
	Phase         string  `json:"phase"`
	File          string  `json:"file"`
	ChunksDone    int64   `json:"chunks_done"`
	RowsRead      int64   `json:"rows_read"`
	BytesRead     int64   `json:"bytes_read"`
	BytesTotal    int64   `json:"bytes_total,omitempty"`
	ProgressPct   float64 `json:"progress_pct"`
	RowsPerSecond int64   `json:"rows_per_second,omitempty"`
}

// Reporter defines the interface for progress reporting.
type Reporter interface {
	// Report emits a progress update (may be throttled)
	Report(update ProgressUpdate)
	// ReportImmediate emits a progress update immediately, bypassing throttling
	ReportImmediate(update ProgressUpdate)
	// Close cleans up any resources
	Close()
}

// JSONReporter writes one JSON object per line (typically to stderr).
type JSONReporter struct {
	writer     io.Writer
	mu         sync.Mutex
	interval   time.Duration
	lastReport time.Time
	closed     bool
}

// NewJSONReporter creates a JSON reporter. Report calls closer together
// than interval are dropped.
func NewJSONReporter(writer io.Writer, interval time.Duration) *JSONReporter {
	if writer == nil {
		writer = os.Stderr
	}
	return &JSONReporter{
		writer:   writer,
		interval: interval,
	}
}

// Report emits update unless the previous line is younger than the interval.
func (r *JSONReporter) Report(update ProgressUpdate) {
	r.emit(update, false)
}

// ReportImmediate emits update regardless of the interval.
// Use for chunk boundaries and completion.
func (r *JSONReporter) ReportImmediate(update ProgressUpdate) {
	r.emit(update, true)
}

func (r *JSONReporter) emit(update ProgressUpdate, force bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	now := time.Now()
	if !force && r.interval > 0 && now.Sub(r.lastReport) < r.interval {
		return
	}
	if update.Timestamp == "" {
		update.Timestamp = now.UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(update)
	if err != nil {
		logging.Warn("Failed to marshal progress update: %v", err)
		return
	}
	fmt.Fprintln(r.writer, string(data))
	r.lastReport = now
}

// Close stops all further output.
func (r *JSONReporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// NullReporter is a no-op reporter for when progress reporting is disabled.
type NullReporter struct{}

// Report does nothing.
func (r *NullReporter) Report(update ProgressUpdate) {}

// ReportImmediate does nothing.
func (r *NullReporter) ReportImmediate(update ProgressUpdate) {}

// Close does nothing.
func (r *NullReporter) Close() {}
