// Package logging is the process-wide leveled logger. Lines are plain
// "2006-01-02 15:04:05 [INFO] msg" text or one JSON object each.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents logging verbosity level. Higher levels are chattier.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{"ERROR", "WARN", "INFO", "DEBUG"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel converts a verbosity name to a Level. "warning" is accepted
// for warn.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		name = "WARN"
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown verbosity level: %s (valid: debug, info, warn, error)", s)
}

type logger struct {
	mu     sync.Mutex
	level  Level
	json   bool
	output io.Writer
	now    func() time.Time
}

var std = &logger{level: LevelInfo, output: os.Stdout, now: time.Now}

// SetLevel sets the global log level.
func SetLevel(level Level) {
	std.mu.Lock()
	std.level = level
	std.mu.Unlock()
}

// Enabled reports whether messages at level are written.
func Enabled(level Level) bool {
	std.mu.Lock()
	defer std.mu.Unlock()
	return level <= std.level
}

// SetFormat selects "json" lines; anything else means text.
func SetFormat(format string) {
	std.mu.Lock()
	std.json = strings.EqualFold(format, "json")
	std.mu.Unlock()
}

// SetOutput redirects log lines. nil restores stdout.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	std.mu.Lock()
	std.output = w
	std.mu.Unlock()
}

// Output returns the current destination.
func Output() io.Writer {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.output
}

func Debug(format string, args ...any) { std.write(LevelDebug, format, args) }
func Info(format string, args ...any)  { std.write(LevelInfo, format, args) }
func Warn(format string, args ...any)  { std.write(LevelWarn, format, args) }
func Error(format string, args ...any) { std.write(LevelError, format, args) }

type jsonLine struct {
	TS    string `json:"ts"`
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

func (l *logger) write(level Level, format string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level > l.level {
		return
	}
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	now := l.now()

	if l.json {
		line, err := json.Marshal(jsonLine{
			TS:    now.UTC().Format(time.RFC3339Nano),
			Level: strings.ToLower(level.String()),
			Msg:   msg,
		})
		if err == nil {
			l.output.Write(append(line, '\n'))
		}
		return
	}
	fmt.Fprintf(l.output, "%s [%s] %s\n", now.Format("2006-01-02 15:04:05"), level, msg)
}
