// Package progress reports how far a file load has got, as a terminal bar
// or as JSON lines for automation.
package progress

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/johndauphine/db-volumetry/internal/logging"
)

// Tracker tracks bytes, rows and chunks read from one file.
type Tracker struct {
	bar       *progressbar.ProgressBar
	out       io.Writer
	name      string
	total     int64
	bytes     atomic.Int64
	rows      atomic.Int64
	chunks    atomic.Int64
	startTime time.Time
	reporter  Reporter
}

// New creates a tracker for the file name of sizeBytes bytes (-1 if unknown).
// The bar is drawn on out; a nil out disables it. A nil reporter reports nothing.
func New(name string, sizeBytes int64, out io.Writer, reporter Reporter) *Tracker {
	if reporter == nil {
		reporter = &NullReporter{}
	}
	t := &Tracker{
		out:       out,
		name:      name,
		total:     sizeBytes,
		startTime: time.Now(),
		reporter:  reporter,
	}
	if out != nil {
		t.bar = progressbar.NewOptions64(
			sizeBytes,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("Reading "+name),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	return t
}

// Reader wraps r so every byte read advances the tracker.
func (t *Tracker) Reader(r io.Reader) io.Reader {
	return io.TeeReader(r, t)
}

// Write counts p as read. It never fails.
func (t *Tracker) Write(p []byte) (int, error) {
	t.bytes.Add(int64(len(p)))
	if t.bar != nil {
		t.bar.Add(len(p))
	}
	return len(p), nil
}

// SetRows records the running row count. It matches tabular.Options.Progress.
func (t *Tracker) SetRows(rows int64) {
	t.rows.Store(rows)
	if t.bar != nil {
		t.bar.Describe(fmt.Sprintf("Reading %s (%s rows)", t.name, humanize.Comma(rows)))
	}
	t.reporter.Report(t.update("reading"))
}

// ChunkDone marks one more chunk as measured.
func (t *Tracker) ChunkDone(rows int) {
	n := t.chunks.Add(1)
	logging.Debug("Chunk %d of %s: %d rows", n, t.name, rows)
	t.reporter.ReportImmediate(t.update("chunk"))
}

// Bytes returns the number of bytes read so far.
func (t *Tracker) Bytes() int64 {
	return t.bytes.Load()
}

// Rows returns the last recorded row count.
func (t *Tracker) Rows() int64 {
	return t.rows.Load()
}

// Chunks returns the number of chunks marked done.
func (t *Tracker) Chunks() int64 {
	return t.chunks.Load()
}

func (t *Tracker) update(phase string) ProgressUpdate {
	u := ProgressUpdate{
		Phase:         phase,
		File:          t.name,
		ChunksDone:    t.chunks.Load(),
		RowsRead:      t.rows.Load(),
		BytesRead:     t.bytes.Load(),
		RowsPerSecond: t.rowsPerSecond(),
	}
	if t.total > 0 {
		u.BytesTotal = t.total
		u.ProgressPct = float64(u.BytesRead) / float64(t.total) * 100
	}
	return u
}

func (t *Tracker) rowsPerSecond() int64 {
	elapsed := time.Since(t.startTime).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return int64(float64(t.rows.Load()) / elapsed)
}

// Finish completes the bar and logs the read rate.
func (t *Tracker) Finish() {
	if t.bar != nil {
		t.bar.Finish()
		fmt.Fprintln(t.out)
	}
	t.reporter.ReportImmediate(t.update("complete"))

	elapsed := time.Since(t.startTime)
	logging.Info("Read %s: %s rows, %s in %s (%d rows/sec)",
		t.name, humanize.Comma(t.rows.Load()), humanize.IBytes(uint64(t.bytes.Load())),
		elapsed.Round(time.Millisecond), t.rowsPerSecond())
}
