package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/johndauphine/db-volumetry/internal/config"
	"github.com/johndauphine/db-volumetry/internal/exitcodes"
	"github.com/johndauphine/db-volumetry/internal/logging"
	"github.com/johndauphine/db-volumetry/internal/progress"
	"github.com/johndauphine/db-volumetry/internal/render"
	"github.com/johndauphine/db-volumetry/internal/tabular"
)

func runFileReport(c *cli.Context) error {
	if c.NArg() != 1 {
		return exitcodes.NewExitError(errors.New("file: exactly one <path> argument is required"), exitcodes.ConfigError)
	}
	path := c.Args().First()

	// Reject unsupported extensions before touching the file.
	if _, err := tabular.DetectFormat(path); err != nil {
		return err
	}

	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	opts, err := loaderOptions(c, cfg)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	name := filepath.Base(path)
	tracker := newTracker(c, name, size)
	opts.Progress = tracker.SetRows

	if opts.ChunkSize == 0 {
		return measureWholeFile(c, path, f, size, tracker, opts)
	}
	return measureChunks(c, path, f, tracker, opts)
}

// loaderOptions merges the file flags over the config file section.
// Without --chunk-size or --chunked the file is read whole.
func loaderOptions(c *cli.Context, cfg *config.Config) (tabular.Options, error) {
	opts := cfg.LoaderOptions()
	opts.ChunkSize = 0
	switch {
	case c.IsSet("chunk-size"):
		opts.ChunkSize = c.Int("chunk-size")
	case c.Bool("chunked"):
		opts.ChunkSize = cfg.File.ChunkSize
	}
	if opts.ChunkSize < 0 {
		return opts, exitcodes.NewExitError(fmt.Errorf("--chunk-size must not be negative, got %d", opts.ChunkSize), exitcodes.ConfigError)
	}
	if c.IsSet("preview-rows") {
		opts.PreviewRows = c.Int("preview-rows")
		if opts.PreviewRows <= 0 {
			return opts, exitcodes.NewExitError(fmt.Errorf("--preview-rows must be positive, got %d", opts.PreviewRows), exitcodes.ConfigError)
		}
	}
	if c.IsSet("sheet") {
		opts.Sheet = c.String("sheet")
	}
	return opts, nil
}

// newTracker draws a bar on an interactive stderr, or emits JSON progress
// lines when logs are JSON.
func newTracker(c *cli.Context, name string, size int64) *progress.Tracker {
	if c.String("log-format") == "json" {
		return progress.New(name, size, nil, progress.NewJSONReporter(os.Stderr, time.Second))
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return progress.New(name, size, os.Stderr, nil)
	}
	return progress.New(name, size, nil, nil)
}

func measureWholeFile(c *cli.Context, path string, f *os.File, size int64, tracker *progress.Tracker, opts tabular.Options) error {
	if limit := config.WholeFileWarnMB(); size > 0 && size/1024/1024 >= limit {
		logging.Warn("%s is %d MB, over a quarter of system memory; consider --chunked", filepath.Base(path), size/1024/1024)
	}

	res, err := tabular.LoadReader(path, tracker.Reader(f), opts)
	tracker.Finish()

	if wantsJSON(c) {
		doc := render.FileDocument{Name: filepath.Base(path)}
		if res != nil {
			doc = render.NewFileDocument(res)
		}
		if err != nil {
			doc.Error = err.Error()
		}
		if jerr := outputJSON(c, doc); jerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to output JSON: %v\n", jerr)
		}
	}
	if err != nil {
		return err
	}
	if !c.Bool("output-json") {
		return render.FileResult(os.Stdout, res)
	}
	return nil
}

func measureChunks(c *cli.Context, path string, f *os.File, tracker *progress.Tracker, opts tabular.Options) error {
	ctx, cancel := signalContext()
	defer cancel()

	cr, err := tabular.NewChunkReader(path, tracker.Reader(f), opts)
	if err != nil {
		return err
	}
	defer cr.Close()

	text := !c.Bool("output-json")
	doc := render.FileDocument{Name: cr.Name(), Format: cr.Format().String()}
	stats := render.ChunkStats{Name: cr.Name()}

	for cr.Next() {
		chunk := cr.Chunk()
		if doc.Columns == nil {
			doc.Columns = render.ColumnsOf(chunk.Frame)
		}
		stats.Add(chunk)
		tracker.ChunkDone(chunk.Rows())
		doc.Chunks = append(doc.Chunks, render.NewChunkDocument(chunk))
		if text {
			if err := render.Chunk(os.Stdout, chunk); err != nil {
				return err
			}
		}
		if ctx.Err() != nil {
			break
		}
	}
	tracker.Finish()

	runErr := cr.Err()
	if runErr == nil {
		runErr = ctx.Err()
	}
	doc.Rows = stats.Rows
	doc.Summary = &stats

	if wantsJSON(c) {
		if runErr != nil {
			doc.Error = runErr.Error()
		}
		if err := outputJSON(c, doc); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to output JSON: %v\n", err)
		}
	}
	if text {
		if err := render.ChunkSummary(os.Stdout, stats); err != nil {
			return err
		}
	}
	return runErr
}
