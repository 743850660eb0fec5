package lib

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level orders diagnostic messages by importance.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

var levelStyles = map[Level]lipgloss.Style{
	LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	LevelInfo:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36")),
	LevelWarn:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
}

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
}

// Logger writes human diagnostics, normally to stderr, so that stdout only
// carries command output. Messages below the minimum level are dropped.
type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	min Level
}

// NewLogger returns a Logger that writes messages at min or above to w.
func NewLogger(w io.Writer, min Level) *Logger {
	return &Logger{w: w, min: min}
}

func (l *Logger) SetLevel(min Level) {
	l.mu.Lock()
	l.min = min
	l.mu.Unlock()
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.min {
		return
	}
	label := levelStyles[level].Render(levelNames[level] + ":")
	fmt.Fprintf(l.w, "%s %s\n", label, fmt.Sprintf(format, args...))
}
