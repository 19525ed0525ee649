package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/johndauphine/db-volumetry/internal/config"
	"github.com/johndauphine/db-volumetry/internal/connect"
	"github.com/johndauphine/db-volumetry/internal/driver"
	"github.com/johndauphine/db-volumetry/internal/fault"
	"github.com/johndauphine/db-volumetry/internal/volumetry"
)

type fakeReporter struct {
	requests []connect.Request
	report   *volumetry.Report
	err      error
}

func (f *fakeReporter) Report(_ context.Context, req connect.Request) (*volumetry.Report, error) {
	f.requests = append(f.requests, req)
	return f.report, f.err
}

func newTestModel(t *testing.T, rep Reporter) Model {
	t.Helper()
	m := InitialModel(Options{Config: config.Default(), Reporter: rep})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

// submit types value and presses enter, running the resulting command once.
func submit(t *testing.T, m Model, value string) Model {
	t.Helper()
	m.textInput.SetValue(value)
	m.suggestions = nil
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			switch msg.(type) {
			case ReportDoneMsg, FileDoneMsg:
				updated, _ = m.Update(msg)
				m = updated.(Model)
			}
		}
	}
	return m
}

func TestNextStepSkipsUnusedPrompts(t *testing.T) {
	walk := func(kind driver.Kind) []wizardStep {
		var steps []wizardStep
		for s := stepEngine; s != stepDone; s = nextStep(kind, s) {
			steps = append(steps, s)
		}
		return steps
	}

	tests := []struct {
		kind driver.Kind
		want []wizardStep
	}{
		{driver.SQLite, []wizardStep{stepEngine, stepDatabase}},
		{driver.MySQL, []wizardStep{stepEngine, stepHost, stepPort, stepDatabase, stepUser, stepPassword}},
		{driver.Oracle, []wizardStep{stepEngine, stepHost, stepPort, stepDatabase, stepUser, stepPassword}},
		{driver.SQLServer, []wizardStep{stepEngine, stepHost, stepPort, stepDatabase, stepUser, stepPassword, stepSSL}},
		{driver.PostgreSQL, []wizardStep{stepEngine, stepHost, stepPort, stepDatabase, stepUser, stepPassword, stepSSL, stepSchema}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got := walk(tt.kind)
			if len(got) != len(tt.want) {
				t.Fatalf("steps = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("step %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseEngineChoice(t *testing.T) {
	tests := []struct {
		input   string
		want    driver.Kind
		wantErr bool
	}{
		{"", driver.PostgreSQL, false},
		{"1", driver.MySQL, false},
		{"5", driver.SQLServer, false},
		{"sqlserver", driver.SQLServer, false},
		{"SQLite3", driver.SQLite, false},
		{"9", driver.KindUnknown, true},
		{"db2", driver.KindUnknown, true},
	}
	for _, tt := range tests {
		got, err := parseEngineChoice(tt.input, driver.PostgreSQL)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseEngineChoice(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseEngineChoice(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWizardBuildsRequestAndRunsReport(t *testing.T) {
	rep := &fakeReporter{report: &volumetry.Report{
		ID:       uuid.New(),
		Engine:   "MySQL",
		Database: "backend",
		Tables:   []volumetry.TableSize{{Name: "t1", Megabytes: 1.50}, {Name: "t2", Megabytes: 2.25}},
	}}
	m := newTestModel(t, rep)

	m = submit(t, m, "/db")
	if m.mode != modeWizard {
		t.Fatal("/db should start the wizard")
	}
	for _, input := range []string{"mysql", "db.internal", "", "backend", "report", "s3cret"} {
		m = submit(t, m, input)
	}

	if m.mode != modeNormal || m.busy {
		t.Fatalf("mode=%v busy=%v after wizard", m.mode, m.busy)
	}
	if len(rep.requests) != 1 {
		t.Fatalf("reports run = %d, want 1", len(rep.requests))
	}
	req := rep.requests[0]
	if req.Engine != "mysql" || req.Host != "db.internal" || req.Port != 3306 || req.Database != "backend" || req.User != "report" || req.Password != "s3cret" {
		t.Errorf("request = %+v", req)
	}
	if strings.Contains(m.logBuffer, "s3cret") {
		t.Error("password must not be echoed")
	}
	if !strings.Contains(m.logBuffer, "t1") || !strings.Contains(m.logBuffer, "Total database size: unknown") {
		t.Errorf("report not rendered:\n%s", m.logBuffer)
	}
}

func TestWizardRejectsUnknownEngine(t *testing.T) {
	m := newTestModel(t, &fakeReporter{})
	m = submit(t, m, "/db")
	m = submit(t, m, "cassandra")

	if m.step != stepEngine {
		t.Errorf("step = %v, want engine step repeated", m.step)
	}
	if !strings.Contains(m.logBuffer, "cassandra") {
		t.Errorf("rejection not shown:\n%s", m.logBuffer)
	}
}

func TestWizardSQLiteAsksOnlyForPath(t *testing.T) {
	rep := &fakeReporter{err: fault.New(fault.ConnectionFailure, "connect to SQLite", errors.New("no such file"))}
	m := newTestModel(t, rep)

	m = submit(t, m, "/db")
	m = submit(t, m, "sqlite")
	if m.step != stepDatabase {
		t.Fatalf("step = %v, want database", m.step)
	}
	m = submit(t, m, "/tmp/app.db")

	if len(rep.requests) != 1 || rep.requests[0].Database != "/tmp/app.db" {
		t.Fatalf("requests = %+v", rep.requests)
	}
	if !strings.Contains(m.logBuffer, "connection failed") {
		t.Errorf("error banner missing:\n%s", m.logBuffer)
	}
}

func TestEscCancelsWizard(t *testing.T) {
	m := newTestModel(t, &fakeReporter{})
	m = submit(t, m, "/db")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.mode != modeNormal {
		t.Error("Esc should leave wizard mode")
	}
}

func TestFileCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.csv")
	if err := os.WriteFile(path, []byte("name,age\nann,31\nbob,42\n"), 0600); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, &fakeReporter{})
	m = submit(t, m, "/file @"+path)
	if m.busy {
		t.Error("action should be finished")
	}
	if !strings.Contains(m.logBuffer, "2 rows, 2 columns") || !strings.Contains(m.logBuffer, "Memory footprint") {
		t.Errorf("file result not rendered:\n%s", m.logBuffer)
	}

	m = submit(t, m, "/file @"+path+" --chunk 1")
	if !strings.Contains(m.logBuffer, "2 chunks, 2 rows") {
		t.Errorf("chunk summary not rendered:\n%s", m.logBuffer)
	}

	m = submit(t, m, "/file @"+filepath.Join(dir, "report.txt"))
	if !strings.Contains(m.logBuffer, "unsupported file type") {
		t.Errorf("unsupported type not reported:\n%s", m.logBuffer)
	}
}

func TestParseFileArgs(t *testing.T) {
	defaults := config.Default().LoaderOptions()

	args, err := parseFileArgs([]string{"@data/big.csv", "--chunk", "500", "--preview", "3"}, defaults)
	if err != nil {
		t.Fatalf("parseFileArgs() error = %v", err)
	}
	if args.path != "data/big.csv" || !args.chunked || args.opts.ChunkSize != 500 || args.opts.PreviewRows != 3 {
		t.Errorf("args = %+v", args)
	}

	args, err = parseFileArgs([]string{"book.xlsx", "--sheet", "Sales", "--chunked"}, defaults)
	if err != nil {
		t.Fatalf("parseFileArgs() error = %v", err)
	}
	if args.opts.Sheet != "Sales" || args.opts.ChunkSize != defaults.ChunkSize || !args.chunked {
		t.Errorf("args = %+v", args)
	}

	for _, bad := range [][]string{{}, {"a.csv", "--chunk"}, {"a.csv", "--chunk", "0"}, {"a.csv", "--bogus"}, {"a.csv", "b.csv"}} {
		if _, err := parseFileArgs(bad, defaults); err == nil {
			t.Errorf("parseFileArgs(%v) should fail", bad)
		}
	}
}

func TestBusyIgnoresNewActions(t *testing.T) {
	m := newTestModel(t, &fakeReporter{})
	m.busy = true
	m.action = "report on mysql"

	m.textInput.SetValue("/file @x.csv")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd != nil {
		t.Error("no command should start while busy")
	}
	if !strings.Contains(m.logBuffer, "Busy with report on mysql") {
		t.Errorf("busy notice missing:\n%s", m.logBuffer)
	}
}

func TestSuggestions(t *testing.T) {
	got := suggestionsFor("/fi")
	if len(got) != 1 || !strings.HasPrefix(got[0], "/file") {
		t.Errorf("suggestionsFor(/fi) = %v", got)
	}
	if completeInput("/fi", got[0]) != "/file" {
		t.Errorf("completeInput = %q", completeInput("/fi", got[0]))
	}
	if completeInput("/file @da", "data/") != "/file @data/" {
		t.Errorf("path completion = %q", completeInput("/file @da", "data/"))
	}
}

func TestEnginesText(t *testing.T) {
	out := enginesText()
	for _, want := range []string{"mysql", "postgres", "sqlite", "oracle", "mssql", "SQL Server"} {
		if !strings.Contains(out, want) {
			t.Errorf("engines output missing %q:\n%s", want, out)
		}
	}
}

func TestWrapLine(t *testing.T) {
	got := wrapLine("alpha beta gamma", 11)
	if got != "alpha beta \ngamma" {
		t.Errorf("wrapLine() = %q", got)
	}
	if wrapLine("short", 0) != "short" {
		t.Error("zero width should not wrap")
	}
}
