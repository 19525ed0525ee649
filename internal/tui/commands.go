package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/johndauphine/db-volumetry/internal/config"
	"github.com/johndauphine/db-volumetry/internal/connect"
	"github.com/johndauphine/db-volumetry/internal/fault"
	"github.com/johndauphine/db-volumetry/internal/render"
	"github.com/johndauphine/db-volumetry/internal/tabular"
	"github.com/johndauphine/db-volumetry/internal/volumetry"
)

type commandInfo struct {
	Name        string
	Description string
}

var availableCommands = []commandInfo{
	{"/db", "Measure a database (wizard, or /db run with the loaded config)"},
	{"/file", "Measure a CSV or XLSX file: /file @path [--chunked] [--chunk N] [--sheet S]"},
	{"/engines", "List supported database engines"},
	{"/config", "Load a config file: /config @volumetry.yaml"},
	{"/about", "Show application information"},
	{"/help", "Show available commands"},
	{"/clear", "Clear screen"},
	{"/quit", "Exit application"},
}

func (m *Model) handleCommand(cmdStr string) tea.Cmd {
	parts := strings.Fields(cmdStr)
	if len(parts) == 0 {
		return nil
	}

	switch parts[0] {
	case "/quit", "/exit":
		return tea.Quit

	case "/clear":
		m.logBuffer = m.welcomeMessage()
		m.viewport.SetContent(m.logBuffer)
		return nil

	case "/help":
		var b strings.Builder
		b.WriteString("Available commands:\n")
		for _, c := range availableCommands {
			fmt.Fprintf(&b, "  %-9s %s\n", c.Name, c.Description)
		}
		m.appendOutput(b.String())
		return nil

	case "/about":
		m.appendOutput(styleSystemOutput.Render(
			"volumetry measures database table sizes from the engine catalogs\n"+
				"and the in-memory footprint of CSV and XLSX files.") + "\n")
		return nil

	case "/engines":
		m.appendOutput(enginesText())
		return nil

	case "/config":
		path := config.DefaultPath
		if len(parts) > 1 {
			path = strings.TrimPrefix(parts[1], "@")
		}
		cfg, err := config.LoadWithOptions(path, config.LoadOptions{SuppressWarnings: true})
		if err != nil {
			m.appendOutput(styleError.Render(err.Error()) + "\n")
			return nil
		}
		m.cfg = cfg
		m.configPath = path
		m.appendOutput(styleSuccess.Render("Loaded "+path) + "\n")
		return nil

	case "/db":
		if m.busy {
			m.appendOutput(styleWarning.Render("Busy with "+m.action+"; wait for it to finish") + "\n")
			return nil
		}
		if len(parts) > 1 && parts[1] == "run" {
			if err := m.cfg.ValidateDatabase(); err != nil {
				m.appendOutput(styleError.Render(err.Error()) + "\n")
				return nil
			}
			return m.startReport(m.cfg.ConnectRequest())
		}
		m.startWizard()
		return nil

	case "/file":
		if m.busy {
			m.appendOutput(styleWarning.Render("Busy with "+m.action+"; wait for it to finish") + "\n")
			return nil
		}
		args, err := parseFileArgs(parts[1:], m.cfg.LoaderOptions())
		if err != nil {
			m.appendOutput(styleError.Render(err.Error()) + "\n")
			return nil
		}
		if !args.chunked {
			if warn := wholeFileWarning(args.path); warn != "" {
				m.appendOutput(styleWarning.Render(warn) + "\n")
			}
		}
		ctx := m.startAction("file " + filepath.Base(args.path))
		m.appendOutput(styleSystemOutput.Render("Reading "+args.path+"...") + "\n")
		return runFileCmd(ctx, args)
	}

	m.appendOutput(styleError.Render("Unknown command: "+parts[0]+" (try /help)") + "\n")
	return nil
}

func (m *Model) startReport(req connect.Request) tea.Cmd {
	ctx := m.startAction("report on " + req.String())
	m.appendOutput(styleSystemOutput.Render("Connecting to "+req.String()+"...") + "\n")
	return runReportCmd(ctx, m.reporter, req)
}

func runReportCmd(ctx context.Context, reporter Reporter, req connect.Request) tea.Cmd {
	return func() tea.Msg {
		report, err := reporter.Report(ctx, req)
		return ReportDoneMsg{Report: report, Err: err}
	}
}

type fileArgs struct {
	path    string
	chunked bool
	opts    tabular.Options
}

// parseFileArgs reads "@path [--chunked] [--chunk N] [--sheet S] [--preview N]".
func parseFileArgs(parts []string, defaults tabular.Options) (fileArgs, error) {
	args := fileArgs{opts: defaults}
	for i := 0; i < len(parts); i++ {
		p := parts[i]
		switch {
		case p == "--chunked":
			args.chunked = true
		case p == "--chunk" || p == "--preview" || p == "--sheet":
			if i+1 >= len(parts) {
				return args, fmt.Errorf("%s needs a value", p)
			}
			i++
			if p == "--sheet" {
				args.opts.Sheet = parts[i]
				continue
			}
			n, err := strconv.Atoi(parts[i])
			if err != nil || n <= 0 {
				return args, fmt.Errorf("%s must be a positive number, got %q", p, parts[i])
			}
			if p == "--chunk" {
				args.chunked = true
				args.opts.ChunkSize = n
			} else {
				args.opts.PreviewRows = n
			}
		case strings.HasPrefix(p, "--"):
			return args, fmt.Errorf("unknown option %s", p)
		case args.path == "":
			args.path = strings.TrimPrefix(p, "@")
		default:
			return args, fmt.Errorf("unexpected argument %q", p)
		}
	}
	if args.path == "" {
		return args, errors.New("usage: /file @path/to/file.csv [--chunked] [--chunk N] [--sheet S]")
	}
	return args, nil
}

func runFileCmd(ctx context.Context, args fileArgs) tea.Cmd {
	return func() tea.Msg {
		var b strings.Builder
		if !args.chunked {
			res, err := tabular.Load(args.path, args.opts)
			if err != nil {
				return FileDoneMsg{Err: err}
			}
			render.FileResult(&b, res)
			return FileDoneMsg{Output: b.String()}
		}

		cr, err := tabular.OpenChunks(args.path, args.opts)
		if err != nil {
			return FileDoneMsg{Err: err}
		}
		defer cr.Close()

		stats := render.ChunkStats{Name: cr.Name()}
		for cr.Next() {
			if ctx.Err() != nil {
				break
			}
			render.Chunk(&b, cr.Chunk())
			stats.Add(cr.Chunk())
		}
		render.ChunkSummary(&b, stats)
		if err := ctx.Err(); err != nil {
			return FileDoneMsg{Output: b.String(), Err: err}
		}
		return FileDoneMsg{Output: b.String(), Err: cr.Err()}
	}
}

// wholeFileWarning flags files larger than a quarter of system memory.
func wholeFileWarning(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	limit := config.WholeFileWarnMB()
	if info.Size()/1024/1024 < limit {
		return ""
	}
	return fmt.Sprintf("%s is %d MB; loading it whole may exhaust memory (try --chunked)",
		filepath.Base(path), info.Size()/1024/1024)
}

func renderReport(r *volumetry.Report) string {
	var b strings.Builder
	render.Report(&b, r)
	return b.String()
}

func enginesText() string {
	var b strings.Builder
	b.WriteString("Supported engines:\n")
	render.Engines(&b)
	return b.String()
}

// describeError prefixes the failure class so the banner says what went wrong.
func describeError(err error) string {
	switch fault.KindOf(err) {
	case fault.UnsupportedEngine:
		return "unsupported engine: " + err.Error()
	case fault.ConnectionFailure:
		return "connection failed: " + err.Error()
	case fault.QueryFailure:
		return "query failed: " + err.Error()
	case fault.UnsupportedFileType:
		return "unsupported file type: " + err.Error()
	case fault.FileParseFailure:
		return "could not read file: " + err.Error()
	}
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	return err.Error()
}

func (m *Model) updateSuggestions() {
	m.suggestions = suggestionsFor(m.textInput.Value())
	m.suggestionIdx = 0
}

// suggestionsFor completes commands after "/" and paths after "@".
func suggestionsFor(input string) []string {
	if idx := strings.LastIndex(input, "@"); idx != -1 && (idx == 0 || input[idx-1] == ' ') {
		return pathSuggestions(input[idx+1:])
	}
	if strings.HasPrefix(input, "/") && !strings.Contains(input, " ") {
		var out []string
		for _, c := range availableCommands {
			if strings.HasPrefix(c.Name, input) && c.Name != input {
				out = append(out, c.Name+"  "+c.Description)
			}
		}
		return out
	}
	return nil
}

func pathSuggestions(prefix string) []string {
	matches, err := filepath.Glob(prefix + "*")
	if err != nil {
		return nil
	}
	var out []string
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil && info.IsDir() {
			match += string(filepath.Separator)
		} else if _, err := tabular.DetectFormat(match); err != nil && !strings.HasSuffix(match, ".yaml") && !strings.HasSuffix(match, ".yml") {
			continue
		}
		out = append(out, match)
		if len(out) == 8 {
			break
		}
	}
	return out
}

// completeInput replaces the word being completed with the first field of
// the selected suggestion.
func completeInput(input, selection string) string {
	completion := strings.Fields(selection)[0]
	if idx := strings.LastIndex(input, "@"); idx != -1 && (idx == 0 || input[idx-1] == ' ') {
		return input[:idx+1] + completion
	}
	if strings.HasPrefix(input, "/") {
		return completion
	}
	return input
}
