// Package render writes volumetry reports and file measurements as text
// tables or JSON documents.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/johndauphine/db-volumetry/internal/tabular"
	"github.com/johndauphine/db-volumetry/internal/volumetry"
)

// Megabytes formats a size with two decimals, as the catalogs round it.
func Megabytes(mb float64) string {
	return strconv.FormatFloat(mb, 'f', 2, 64)
}

// Human formats a size in megabytes as a binary byte count ("1.5 MiB").
func Human(mb float64) string {
	if mb < 0 || math.IsNaN(mb) {
		return "-"
	}
	return humanize.IBytes(uint64(math.Round(mb * 1024 * 1024)))
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(header)
	return table
}

// Report writes the per-table sizes followed by the database total.
func Report(w io.Writer, r *volumetry.Report) error {
	title := fmt.Sprintf("%s database %q", r.Engine, r.Database)
	if r.Target != "" && r.Target != r.Database {
		title += fmt.Sprintf(" (schema %q)", r.Target)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	table := newTable(w, []string{"Table Name", "Size (MB)", "Size"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, t := range r.Tables {
		table.Append([]string{t.Name, Megabytes(t.Megabytes), Human(t.Megabytes)})
	}
	table.Render()

	total := "unknown"
	if r.Total.Known {
		total = fmt.Sprintf("%s MB (%s)", Megabytes(r.Total.Megabytes), Human(r.Total.Megabytes))
	}
	_, err := fmt.Fprintf(w, "Tables: %d\nTotal database size: %s\n", len(r.Tables), total)
	return err
}

// Frame writes every row of f as a table.
func Frame(w io.Writer, f *tabular.Frame) {
	table := newTable(w, f.Header())
	for i := 0; i < f.Rows(); i++ {
		table.Append(f.Row(i))
	}
	table.Render()
}

// FileResult writes the preview and footprint of a whole-file load.
func FileResult(w io.Writer, res *tabular.Result) error {
	if _, err := fmt.Fprintf(w, "%s (%s): %s rows, %d columns\n",
		res.Name, res.Format, humanize.Comma(int64(res.Rows())), len(res.Frame.Columns())); err != nil {
		return err
	}
	Frame(w, res.Preview)
	_, err := fmt.Fprintf(w, "Memory footprint: %s MB (%s)\n", Megabytes(res.FootprintMB()), Human(res.FootprintMB()))
	return err
}

// Chunk writes one chunk's preview and its own footprint.
func Chunk(w io.Writer, c *tabular.Chunk) error {
	first := c.Offset + 1
	last := c.Offset + int64(c.Rows())
	if _, err := fmt.Fprintf(w, "Chunk %d: rows %s-%s\n",
		c.Index+1, humanize.Comma(first), humanize.Comma(last)); err != nil {
		return err
	}
	Frame(w, c.Preview)
	_, err := fmt.Fprintf(w, "Chunk footprint: %s MB (%s)\n", Megabytes(c.FootprintMB()), Human(c.FootprintMB()))
	return err
}

// ChunkSummary writes the totals of a chunked read.
func ChunkSummary(w io.Writer, s ChunkStats) error {
	_, err := fmt.Fprintf(w, "%s: %d chunks, %s rows, largest chunk %s MB, sum of chunks %s MB\n",
		s.Name, s.Chunks, humanize.Comma(s.Rows), Megabytes(s.PeakMB), Megabytes(s.SumMB))
	return err
}

// ChunkStats accumulates totals over the chunks of one file.
type ChunkStats struct {
	Name   string  `json:"name"`
	Chunks int     `json:"chunks"`
	Rows   int64   `json:"rows"`
	PeakMB float64 `json:"peak_footprint_mb"`
	SumMB  float64 `json:"sum_footprint_mb"`
}

// Add folds one chunk into the totals.
func (s *ChunkStats) Add(c *tabular.Chunk) {
	mb := c.FootprintMB()
	s.Chunks++
	s.Rows += int64(c.Rows())
	s.SumMB += mb
	if mb > s.PeakMB {
		s.PeakMB = mb
	}
}

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
