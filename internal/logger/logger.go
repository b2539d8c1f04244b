package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FilePath is the default log file, relative to the working directory.
const FilePath = "logs/deck.txt"

// historySize bounds the lines kept in memory for the console.
const historySize = 256

// Logger stores recent lines in memory for the in-window console and appends
// everything to a file on disk. It is an io.Writer so a slog handler can sit
// on top of it.
type Logger struct {
	mu     sync.Mutex
	path   string
	mirror io.Writer
	lines  []string
}

// New returns a Logger appending to path (no file when empty) and copying
// every write to mirror (usually os.Stderr; nil for none). The log directory
// is created if needed.
func New(path string, mirror io.Writer) *Logger {
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	return &Logger{path: path, mirror: mirror, lines: make([]string, 0)}
}

// Write records each newline-terminated line of p.
func (l *Logger) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\n")
	l.mu.Lock()
	for _, line := range strings.Split(text, "\n") {
		l.lines = append(l.lines, line)
	}
	if over := len(l.lines) - historySize; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
	}
	l.mu.Unlock()

	if l.mirror != nil {
		_, _ = l.mirror.Write(p)
	}
	l.appendFile(p)
	return len(p), nil
}

func (l *Logger) appendFile(p []byte) {
	if l.path == "" {
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.Write(p)
	_ = f.Close()
}

// Log records a free-form line (console input), prefixed with [timestamp].
func (l *Logger) Log(line string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	_, _ = l.Write([]byte("[" + ts + "] " + line + "\n"))
}

// Lines returns a copy of the stored lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Slog returns a structured logger writing text records through l.
func (l *Logger) Slog(level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(l, &slog.HandlerOptions{Level: level}))
}

// Discard returns a structured logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
