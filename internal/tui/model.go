// Package tui is the interactive volumetry dashboard: a scrolling output
// pane, a command line with completion, and a step-by-step connection wizard.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/johndauphine/db-volumetry/internal/config"
	"github.com/johndauphine/db-volumetry/internal/connect"
	"github.com/johndauphine/db-volumetry/internal/volumetry"
)

type sessionMode int

const (
	modeNormal sessionMode = iota
	modeWizard
)

// Reporter collects a database report; *volumetry.Service satisfies it.
type Reporter interface {
	Report(ctx context.Context, req connect.Request) (*volumetry.Report, error)
}

// Options configures a dashboard session.
type Options struct {
	// Config seeds the wizard defaults and the file loader options.
	Config *config.Config
	// ConfigPath is shown in the status bar when set.
	ConfigPath string
	// Reporter runs database reports. Defaults to a real connection factory.
	Reporter Reporter
}

// Model is the main TUI model
type Model struct {
	viewport      viewport.Model
	textInput     textinput.Model
	ready         bool
	width         int
	height        int
	history       []string
	historyIdx    int
	logBuffer     string   // Persistent buffer for output and logs
	lineBuffer    string   // Buffer for incoming partial log lines
	suggestions   []string // Auto-completion suggestions
	suggestionIdx int      // Currently selected suggestion index
	lastInput     string   // Last input value to prevent unnecessary suggestion regeneration

	// Action state; one action at a time.
	busy   bool
	action string
	cancel context.CancelFunc

	// Wizard state
	mode       sessionMode
	step       wizardStep
	wizardData connect.Request

	cfg        *config.Config
	configPath string
	reporter   Reporter
}

// LogMsg carries log output written while the program runs.
type LogMsg string

// ReportDoneMsg signals that a database report finished.
type ReportDoneMsg struct {
	Report *volumetry.Report
	Err    error
}

// FileDoneMsg signals that a file measurement finished.
type FileDoneMsg struct {
	Output string
	Err    error
}

// InitialModel returns the initial model state
func InitialModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Type /db, /file @path/to/file.csv or /help"
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 20
	ti.Prompt = "❯ "
	ti.PromptStyle = stylePrompt

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = volumetry.NewService(connect.NewFactory())
	}

	return Model{
		textInput:  ti,
		history:    []string{},
		historyIdx: -1,
		cfg:        cfg,
		configPath: opts.ConfigPath,
		reporter:   reporter,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if len(m.suggestions) > 0 {
			if handled := m.handleSuggestionKey(msg); handled {
				return m, nil
			}
		}

		switch msg.Type {
		case tea.KeyCtrlC:
			if m.mode == modeWizard {
				m.cancelWizard()
				return m, nil
			}
			if m.busy {
				if m.cancel != nil {
					m.cancel()
				}
				m.appendOutput(styleSystemOutput.Render("Cancelling "+m.action+"... please wait") + "\n")
				return m, nil
			}
			return m, tea.Quit
		case tea.KeyEsc:
			if m.mode == modeWizard {
				m.cancelWizard()
				return m, nil
			}
			return m, tea.Quit
		case tea.KeyEnter:
			value := m.textInput.Value()
			if m.mode == modeWizard {
				return m, m.handleWizardStep(value)
			}
			if strings.TrimSpace(value) == "" {
				return m, nil
			}
			m.appendOutput(styleUserInput.Render("> "+value) + "\n")
			m.textInput.Reset()
			m.history = append(m.history, value)
			m.historyIdx = len(m.history)
			return m, m.handleCommand(value)
		case tea.KeyUp:
			if m.mode == modeNormal && len(m.history) > 0 && m.historyIdx > 0 {
				m.historyIdx--
				m.textInput.SetValue(m.history[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil
		case tea.KeyDown:
			if m.mode == modeNormal && m.historyIdx < len(m.history)-1 {
				m.historyIdx++
				m.textInput.SetValue(m.history[m.historyIdx])
				m.textInput.CursorEnd()
			} else if m.mode == modeNormal {
				m.historyIdx = len(m.history)
				m.textInput.Reset()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		footerHeight := 7 // Bordered input (3) + Status bar (1) + Separator (1) + Suggestions (1) + Safety (1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-footerHeight)
			if m.logBuffer == "" {
				m.logBuffer = m.welcomeMessage()
			}
			m.viewport.SetContent(m.logBuffer)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - footerHeight
		}
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 4

	case LogMsg:
		m.appendLog(string(msg))
		return m, nil

	case ReportDoneMsg:
		m.finishAction()
		if msg.Err != nil {
			m.appendOutput(styleError.Render("Database report failed: "+describeError(msg.Err)) + "\n")
			return m, nil
		}
		m.appendOutput(styleResultBox.Render(strings.TrimRight(renderReport(msg.Report), "\n")) + "\n")
		return m, nil

	case FileDoneMsg:
		m.finishAction()
		if msg.Output != "" {
			m.appendOutput(styleResultBox.Render(strings.TrimRight(msg.Output, "\n")) + "\n")
		}
		if msg.Err != nil {
			m.appendOutput(styleError.Render("File measurement failed: "+describeError(msg.Err)) + "\n")
		}
		return m, nil
	}

	m.textInput, tiCmd = m.textInput.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	if m.mode == modeNormal && m.textInput.Value() != m.lastInput {
		m.lastInput = m.textInput.Value()
		m.updateSuggestions()
	}

	return m, tea.Batch(tiCmd, vpCmd)
}

// handleSuggestionKey moves through or accepts suggestions. It reports
// whether the key was consumed.
func (m *Model) handleSuggestionKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		m.suggestionIdx--
		if m.suggestionIdx < 0 {
			m.suggestionIdx = len(m.suggestions) - 1
		}
		return true
	case tea.KeyDown:
		m.suggestionIdx++
		if m.suggestionIdx >= len(m.suggestions) {
			m.suggestionIdx = 0
		}
		return true
	case tea.KeyTab, tea.KeyEnter:
		if m.suggestionIdx < 0 || m.suggestionIdx >= len(m.suggestions) {
			return false
		}
		input := m.textInput.Value()
		newValue := completeInput(input, m.suggestions[m.suggestionIdx])
		m.suggestions = nil
		m.suggestionIdx = 0
		if newValue == input && msg.Type == tea.KeyEnter {
			return false
		}
		m.textInput.SetValue(newValue)
		m.textInput.CursorEnd()
		m.lastInput = newValue
		return true
	case tea.KeyEsc:
		m.suggestions = nil
		return true
	}
	return false
}

func (m *Model) startAction(name string) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	m.busy = true
	m.action = name
	m.cancel = cancel
	return ctx
}

func (m *Model) finishAction() {
	if m.cancel != nil {
		m.cancel()
	}
	m.busy = false
	m.action = ""
	m.cancel = nil
}

// appendOutput adds rendered text to the output pane and scrolls to it.
func (m *Model) appendOutput(text string) {
	m.logBuffer += text
	m.viewport.SetContent(m.logBuffer)
	m.viewport.GotoBottom()
}

// appendLog adds log output, holding back a trailing partial line.
func (m *Model) appendLog(chunk string) {
	m.lineBuffer += chunk
	idx := strings.LastIndex(m.lineBuffer, "\n")
	if idx < 0 {
		return
	}
	complete := m.lineBuffer[:idx+1]
	m.lineBuffer = m.lineBuffer[idx+1:]

	var b strings.Builder
	for _, line := range strings.SplitAfter(complete, "\n") {
		if line == "" {
			continue
		}
		b.WriteString(styleSystemOutput.Render(wrapLine(strings.TrimRight(line, "\n"), m.viewport.Width-4)))
		b.WriteString("\n")
	}
	m.appendOutput(b.String())
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	suggestionsView := ""
	if len(m.suggestions) > 0 {
		var lines []string
		for i, s := range m.suggestions {
			style := styleSuggestion
			if i == m.suggestionIdx {
				style = styleSuggestionSelected
			}
			lines = append(lines, style.Render(s))
		}
		suggestionsView = strings.Join(lines, "\n") + "\n"
	}

	vp := styleViewport.Width(m.viewport.Width + 2).Render(m.viewport.View())
	return fmt.Sprintf("%s\n%s\n%s%s",
		vp,
		styleInputContainer.Width(m.width-2).Render(m.textInput.View()),
		suggestionsView,
		m.statusBarView(),
	)
}

func (m Model) statusBarView() string {
	w := lipgloss.Width

	source := "config: defaults"
	if m.configPath != "" {
		source = "config: " + m.configPath
	}
	left := styleStatusSource.Render(source)

	engine := ""
	if m.cfg.Database.Type != "" {
		engine = styleStatusEngine.Render(m.cfg.Database.Type)
	}

	var status string
	switch {
	case m.mode == modeWizard:
		status = styleStatusBusy.Render("Wizard (Esc to cancel)")
	case m.busy:
		status = styleStatusBusy.Render("Running " + m.action)
	default:
		status = styleStatusIdle.Render("Ready")
	}

	usedWidth := w(left) + w(engine) + w(status)
	if usedWidth > m.width {
		usedWidth = m.width
	}
	spacerWidth := m.width - usedWidth
	if spacerWidth < 0 {
		spacerWidth = 0
	}
	spacer := styleStatusBar.Width(spacerWidth).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, engine, spacer, status)
}

func (m Model) welcomeMessage() string {
	logo := `
 __     __    _                      _
 \ \   / /__ | |_   _ _ __ ___   ___| |_ _ __ _   _
  \ \ / / _ \| | | | | '_ ' _ \ / _ \ __| '__| | | |
   \ V / (_) | | |_| | | | | | |  __/ |_| |  | |_| |
    \_/ \___/|_|\__,_|_| |_| |_|\___|\__|_|   \__, |
                                             |___/
  DATABASE AND FILE VOLUMETRY DASHBOARD
`

	welcome := styleTitle.Render(logo)

	body := `
 Measure how much space the tables of a database take, or how much
 memory a CSV or XLSX file needs once loaded.

 Type /help to see available commands.
`

	tips := lipgloss.NewStyle().Foreground(colorGray).Render(`
 Tip: /file @big.csv --chunked reads a large file in bounded chunks.
      Hold Shift to select text with mouse.`)

	return welcome + body + tips + "\n"
}

// Start launches the TUI program
func Start(opts Options) error {
	m := InitialModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	restore := captureLogs(p)
	defer restore()

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
