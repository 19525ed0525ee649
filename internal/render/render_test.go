package render

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/johndauphine/db-volumetry/internal/tabular"
	"github.com/johndauphine/db-volumetry/internal/volumetry"
)

func TestHuman(t *testing.T) {
	tests := []struct {
		mb   float64
		want string
	}{
		{0, "0 B"},
		{1.5, "1.5 MiB"},
		{1024, "1.0 GiB"},
		{-1, "-"},
		{math.NaN(), "-"},
	}
	for _, tt := range tests {
		if got := Human(tt.mb); got != tt.want {
			t.Errorf("Human(%v) = %q, want %q", tt.mb, got, tt.want)
		}
	}
}

func TestMegabytes(t *testing.T) {
	if got := Megabytes(2.25); got != "2.25" {
		t.Errorf("Megabytes(2.25) = %q", got)
	}
	if got := Megabytes(3); got != "3.00" {
		t.Errorf("Megabytes(3) = %q", got)
	}
}

func sampleReport(total volumetry.TotalSize) *volumetry.Report {
	return &volumetry.Report{
		ID:       uuid.New(),
		Engine:   "PostgreSQL",
		Database: "backend",
		Target:   "public",
		Tables:   []volumetry.TableSize{{Name: "t1", Megabytes: 1.50}, {Name: "t2", Megabytes: 2.25}},
		Total:    total,
	}
}

func TestReportText(t *testing.T) {
	var buf bytes.Buffer
	if err := Report(&buf, sampleReport(volumetry.TotalSize{Megabytes: 3.75, Known: true})); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{`PostgreSQL database "backend" (schema "public")`, "Table Name", "t1", "1.50", "2.25", "Total database size: 3.75 MB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "t1") > strings.Index(out, "t2") {
		t.Error("tables should keep catalog order")
	}
}

func TestReportUnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	if err := Report(&buf, sampleReport(volumetry.TotalSize{})); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Total database size: unknown") {
		t.Errorf("output should show unknown total:\n%s", buf.String())
	}
}

func loadSample(t *testing.T) *tabular.Result {
	t.Helper()
	res, err := tabular.LoadReader("people.csv",
		strings.NewReader("name,age\nann,31\nbob,42\ncid,27\n"), tabular.Options{PreviewRows: 2})
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}
	return res
}

func TestFileResultText(t *testing.T) {
	var buf bytes.Buffer
	if err := FileResult(&buf, loadSample(t)); err != nil {
		t.Fatalf("FileResult() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"people.csv (csv): 3 rows, 2 columns", "ann", "bob", "Memory footprint:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "cid") {
		t.Error("preview should stop at two rows")
	}
}

func TestFileDocumentJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, NewFileDocument(loadSample(t))); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var doc FileDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc.Rows != 3 || doc.Format != "csv" || len(doc.Preview) != 2 {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.Columns) != 2 || doc.Columns[1].Type != "int64" {
		t.Errorf("columns = %+v", doc.Columns)
	}
}

func TestChunkStats(t *testing.T) {
	cr, err := tabular.NewChunkReader("n.csv",
		strings.NewReader("n,label\n1,a\n2,bb\n3,ccc\n4,dddd\n5,eeeee\n"), tabular.Options{ChunkSize: 2})
	if err != nil {
		t.Fatalf("NewChunkReader() error = %v", err)
	}
	defer cr.Close()

	stats := ChunkStats{Name: "n.csv"}
	var buf bytes.Buffer
	for cr.Next() {
		stats.Add(cr.Chunk())
		if err := Chunk(&buf, cr.Chunk()); err != nil {
			t.Fatalf("Chunk() error = %v", err)
		}
	}
	if stats.Chunks != 3 || stats.Rows != 5 {
		t.Errorf("stats = %+v, want 3 chunks and 5 rows", stats)
	}
	if stats.PeakMB <= 0 || stats.SumMB < stats.PeakMB {
		t.Errorf("footprints = peak %v sum %v", stats.PeakMB, stats.SumMB)
	}
	if !strings.Contains(buf.String(), "Chunk 3: rows 5-5") {
		t.Errorf("chunk output:\n%s", buf.String())
	}
}

func TestEngines(t *testing.T) {
	var buf bytes.Buffer
	Engines(&buf)
	out := buf.String()
	for _, want := range []string{"mysql", "postgres", "sqlite", "oracle", "mssql", "SQL Server", "5432", "1433"} {
		if !strings.Contains(out, want) {
			t.Errorf("engines output missing %q:\n%s", want, out)
		}
	}
}
