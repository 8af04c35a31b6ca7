package logger

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes one JSON object per line. Safe for concurrent use.
type Logger struct {
	service string
	mu      *sync.Mutex
	out     io.Writer
	base    map[string]any
}

func New(service string) *Logger {
	return &Logger{service: service, mu: &sync.Mutex{}, out: os.Stdout}
}

// NewWriter is for tests that want to capture output.
func NewWriter(service string, w io.Writer) *Logger {
	return &Logger{service: service, mu: &sync.Mutex{}, out: w}
}

// With returns a logger that attaches fields to every entry.
func (l *Logger) With(fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{service: l.service, mu: l.mu, out: l.out, base: merged}
}

func (l *Logger) log(level, action string, fields map[string]any, err error) {
	entry := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"level":     level,
		"service":   l.service,
		"action":    action,
		"hostname":  hostname(),
	}
	for k, v := range l.base {
		entry[k] = v
	}
	for k, v := range fields {
		entry[k] = v
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = json.NewEncoder(l.out).Encode(entry)
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log("INFO", action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log("DEBUG", action, fields, nil) }
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log("ERROR", action, fields, err)
}

func hostname() string { h, _ := os.Hostname(); return h }
