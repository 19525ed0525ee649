package tui

import (
	"io"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/johndauphine/db-volumetry/internal/logging"
)

// logWriter forwards log output into the program as LogMsg values.
type logWriter struct {
	p *tea.Program
}

func (w logWriter) Write(b []byte) (int, error) {
	w.p.Send(LogMsg(string(b)))
	return len(b), nil
}

// captureLogs routes the global logger into p until the returned func runs.
func captureLogs(p *tea.Program) func() {
	prev := logging.Output()
	logging.SetOutput(logWriter{p: p})
	return func() {
		logging.SetOutput(prev)
	}
}

var _ io.Writer = logWriter{}

// wrapLine wraps a line of text to fit within the specified width.
// It preserves word boundaries when possible.
func wrapLine(line string, width int) string {
	if width <= 0 || len(line) <= width {
		return line
	}

	var result strings.Builder
	currentLine := ""

	for _, word := range splitIntoWords(line) {
		if len(currentLine)+len(word) <= width {
			currentLine += word
			continue
		}
		if currentLine != "" {
			result.WriteString(currentLine)
			result.WriteString("\n")
		}
		for len(word) > width {
			result.WriteString(word[:width])
			result.WriteString("\n")
			word = word[width:]
		}
		currentLine = word
	}

	if currentLine != "" {
		result.WriteString(currentLine)
	}
	return result.String()
}

// splitIntoWords splits text into words while preserving whitespace.
func splitIntoWords(s string) []string {
	var words []string
	var current strings.Builder

	for _, r := range s {
		if unicode.IsSpace(r) {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
			words = append(words, string(r))
		} else {
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}
