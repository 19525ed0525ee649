package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johndauphine/db-volumetry/internal/exitcodes"
	"github.com/johndauphine/db-volumetry/internal/fault"
	"github.com/johndauphine/db-volumetry/internal/render"
)

func writeCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "people.csv")
	if err := os.WriteFile(path, []byte("name,age\nann,31\nbob,42\ncid,27\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func readDocument(t *testing.T, path string) render.FileDocument {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}
	var doc render.FileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, data)
	}
	return doc
}

func TestFileCommandWholeFile(t *testing.T) {
	dir := t.TempDir()
	csv := writeCSV(t, dir)
	out := filepath.Join(dir, "result.json")

	if err := newApp().Run([]string{"volumetry", "--output-file", out, "file", csv}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	doc := readDocument(t, out)
	if doc.Name != "people.csv" || doc.Rows != 3 || len(doc.Chunks) != 0 {
		t.Errorf("doc = %+v", doc)
	}
	if doc.FootprintMB <= 0 {
		t.Error("footprint should be positive")
	}
}

func TestFileCommandChunked(t *testing.T) {
	dir := t.TempDir()
	csv := writeCSV(t, dir)
	out := filepath.Join(dir, "result.json")

	if err := newApp().Run([]string{"volumetry", "--output-file", out, "file", "--chunk-size", "2", csv}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	doc := readDocument(t, out)
	if len(doc.Chunks) != 2 || doc.Chunks[0].Rows != 2 || doc.Chunks[1].Rows != 1 {
		t.Fatalf("chunks = %+v", doc.Chunks)
	}
	if doc.Chunks[1].Offset != 2 {
		t.Errorf("second chunk offset = %d, want 2", doc.Chunks[1].Offset)
	}
	if doc.Summary == nil || doc.Summary.Chunks != 2 || doc.Rows != 3 {
		t.Errorf("summary = %+v rows = %d", doc.Summary, doc.Rows)
	}
}

func TestCommandExitCodes(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unsupported file type", []string{"file", filepath.Join(dir, "missing", "report.txt")}, exitcodes.UnsupportedFileType},
		{"missing file", []string{"file", filepath.Join(dir, "gone.csv")}, exitcodes.IOError},
		{"bad chunk size", []string{"file", "--chunk-size", "-1", writeCSV(t, dir)}, exitcodes.ConfigError},
		{"no file argument", []string{"file"}, exitcodes.ConfigError},
		{"unsupported engine", []string{"db", "--engine", "db2", "--host", "localhost", "--database", "app"}, exitcodes.UnsupportedEngine},
		{"missing database", []string{"db", "--engine", "mysql", "--host", "localhost"}, exitcodes.ConfigError},
		{"missing sqlite file", []string{"db", "--engine", "sqlite", "--database", filepath.Join(dir, "nope.db")}, exitcodes.ConnectionError},
		{"bad verbosity", []string{"--verbosity", "loud", "engines"}, exitcodes.ConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newApp().Run(append([]string{"volumetry"}, tt.args...))
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := exitcodes.FromError(err); got != tt.want {
				t.Errorf("exit code = %d (%v), want %d", got, err, tt.want)
			}
		})
	}
}

func TestClassifyConfigError(t *testing.T) {
	plain := classifyConfigError(errors.New("database.host is required"))
	if exitcodes.FromError(plain) != exitcodes.ConfigError {
		t.Errorf("plain validation error should be a config error")
	}
	classified := fault.Newf(fault.UnsupportedEngine, "unsupported engine", "%q", "db2")
	if classifyConfigError(classified) != error(classified) {
		t.Error("classified errors should pass through unchanged")
	}
}

func TestReadLine(t *testing.T) {
	got, err := readLine(strings.NewReader("s3cret\r\nignored\n"))
	if err != nil || got != "s3cret" {
		t.Errorf("readLine() = %q, %v", got, err)
	}
	got, err = readLine(strings.NewReader("no-newline"))
	if err != nil || got != "no-newline" {
		t.Errorf("readLine() = %q, %v", got, err)
	}
	if _, err := readLine(strings.NewReader("")); err == nil {
		t.Error("empty input should fail")
	}
}
