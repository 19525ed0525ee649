package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/johndauphine/db-volumetry/internal/driver"
)

type wizardStep int

const (
	stepEngine wizardStep = iota
	stepHost
	stepPort
	stepDatabase
	stepUser
	stepPassword
	stepSSL
	stepSchema
	stepDone
)

const defaultWizardEngine = driver.PostgreSQL

func (m *Model) startWizard() {
	m.mode = modeWizard
	m.step = stepEngine
	m.wizardData = m.cfg.ConnectRequest()
	m.suggestions = nil
	m.appendOutput(styleTitle.Render("Database connection") + "\n" + m.renderWizardPrompt())
}

func (m *Model) cancelWizard() {
	m.mode = modeNormal
	m.textInput.EchoMode = textinput.EchoNormal
	m.textInput.Reset()
	m.appendOutput("\n" + styleSystemOutput.Render("Wizard cancelled") + "\n")
}

// wizardKind returns the engine picked so far, or the default.
func (m *Model) wizardKind() driver.Kind {
	if kind, err := driver.ParseKind(m.wizardData.Engine); err == nil {
		return kind
	}
	return defaultWizardEngine
}

// nextStep skips the prompts an engine does not use. SQLite only needs a
// file path; only PostgreSQL and SQL Server ask about TLS; only PostgreSQL
// filters on a schema.
func nextStep(kind driver.Kind, step wizardStep) wizardStep {
	for {
		step++
		switch step {
		case stepHost, stepPort, stepUser, stepPassword:
			if kind == driver.SQLite {
				continue
			}
		case stepSSL:
			if kind != driver.PostgreSQL && kind != driver.SQLServer {
				continue
			}
		case stepSchema:
			if kind != driver.PostgreSQL {
				continue
			}
		}
		return step
	}
}

// processWizardInput stores input for the current step and advances. An
// empty input keeps the default shown in the prompt. It returns an error
// message when the input is rejected and the step repeats.
func (m *Model) processWizardInput(input string) string {
	kind := m.wizardKind()
	switch m.step {
	case stepEngine:
		picked, err := parseEngineChoice(input, kind)
		if err != nil {
			return err.Error()
		}
		if m.wizardData.Engine == "" || picked != kind {
			m.switchEngine(picked)
		}
		kind = picked
	case stepHost:
		if input != "" {
			m.wizardData.Host = input
		}
		if m.wizardData.Host == "" {
			m.wizardData.Host = "localhost"
		}
	case stepPort:
		if input != "" {
			port, err := strconv.Atoi(input)
			if err != nil || port < 1 || port > 65535 {
				return fmt.Sprintf("invalid port %q", input)
			}
			m.wizardData.Port = port
		}
	case stepDatabase:
		if input != "" {
			m.wizardData.Database = input
		}
		if m.wizardData.Database == "" {
			if kind == driver.SQLite {
				return "a database file path is required"
			}
			return "a database name is required"
		}
	case stepUser:
		if input != "" {
			m.wizardData.User = input
		}
	case stepPassword:
		if input != "" {
			m.wizardData.Password = input
		}
		m.textInput.EchoMode = textinput.EchoNormal
	case stepSSL:
		if input != "" {
			if kind == driver.PostgreSQL {
				m.wizardData.SSLMode = input
			} else {
				m.wizardData.TrustServerCert = isYes(input)
			}
		}
	case stepSchema:
		if input != "" {
			m.wizardData.Schema = input
		}
	}
	m.step = nextStep(kind, m.step)
	return ""
}

// switchEngine resets engine-specific fields to the new engine's defaults.
func (m *Model) switchEngine(kind driver.Kind) {
	m.wizardData.Engine = kind.String()
	m.wizardData.Port = 0
	m.wizardData.Schema = ""
	m.wizardData.SSLMode = ""
	m.wizardData.Encrypt = ""
	if d, err := driver.Get(kind); err == nil {
		defaults := d.Defaults()
		m.wizardData.Port = defaults.Port
		m.wizardData.Schema = defaults.Schema
		m.wizardData.SSLMode = defaults.SSLMode
		m.wizardData.Encrypt = defaults.Encrypt
	}
}

// parseEngineChoice accepts a list number, a name or an alias.
func parseEngineChoice(input string, def driver.Kind) (driver.Kind, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return def, nil
	}
	kinds := driver.Kinds()
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(kinds) {
			return driver.KindUnknown, fmt.Errorf("choose 1-%d", len(kinds))
		}
		return kinds[n-1], nil
	}
	return driver.ParseKind(input)
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true":
		return true
	}
	return false
}

func (m *Model) renderWizardPrompt() string {
	kind := m.wizardKind()
	var prompt string
	switch m.step {
	case stepEngine:
		var b strings.Builder
		for i, k := range driver.Kinds() {
			fmt.Fprintf(&b, "  %d) %s\n", i+1, k.Label())
		}
		prompt = b.String() + fmt.Sprintf("Engine [%s]: ", kind.String())
	case stepHost:
		def := m.wizardData.Host
		if def == "" {
			def = "localhost"
		}
		prompt = fmt.Sprintf("%s Host [%s]: ", kind.Label(), def)
	case stepPort:
		prompt = fmt.Sprintf("%s Port [%d]: ", kind.Label(), m.wizardData.Port)
	case stepDatabase:
		label := "Database"
		switch kind {
		case driver.SQLite:
			label = "Database file"
		case driver.Oracle:
			label = "Service name"
		}
		prompt = fmt.Sprintf("%s [%s]: ", label, m.wizardData.Database)
	case stepUser:
		prompt = fmt.Sprintf("User [%s]: ", m.wizardData.User)
	case stepPassword:
		prompt = "Password [******]: "
		m.textInput.EchoMode = textinput.EchoPassword
	case stepSSL:
		if kind == driver.PostgreSQL {
			def := m.wizardData.SSLMode
			if def == "" {
				def = "prefer"
			}
			prompt = fmt.Sprintf("SSL Mode [%s]: ", def)
		} else {
			def := "n"
			if m.wizardData.TrustServerCert {
				def = "y"
			}
			prompt = fmt.Sprintf("Trust Server Certificate? (y/n) [%s]: ", def)
		}
	case stepSchema:
		prompt = fmt.Sprintf("Schema [%s]: ", m.wizardData.Schema)
	}
	return prompt
}

func (m *Model) handleWizardStep(input string) tea.Cmd {
	if input != "" {
		shown := input
		if m.step == stepPassword {
			shown = strings.Repeat("*", len(input))
		}
		m.appendOutput(styleUserInput.Render("> "+shown) + "\n")
		m.textInput.Reset()
	} else {
		m.appendOutput(styleUserInput.Render("  (default)") + "\n")
	}

	if problem := m.processWizardInput(strings.TrimSpace(input)); problem != "" {
		m.appendOutput(styleError.Render(problem) + "\n" + m.renderWizardPrompt())
		return nil
	}

	if m.step == stepDone {
		return m.finishWizard()
	}
	m.appendOutput(m.renderWizardPrompt())
	return nil
}

func (m *Model) finishWizard() tea.Cmd {
	m.mode = modeNormal
	m.textInput.EchoMode = textinput.EchoNormal
	return m.startReport(m.wizardData)
}
