package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// level is shared by every Logger so SetLevel applies process-wide.
var level = new(slog.LevelVar)

var hostname = sync.OnceValue(func() string { h, _ := os.Hostname(); return h })

// Logger writes one JSON object per line with timestamp, level, service,
// action, message, hostname and request_id, plus caller fields.
type Logger struct {
	service   string
	requestID string
	fields    map[string]any
	base      *slog.Logger
}

func New(service string) *Logger { return NewWithWriter(service, os.Stdout) }

func NewWithWriter(service string, w io.Writer) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAttr})
	return &Logger{service: service, base: slog.New(h)}
}

// SetLevel accepts debug, info, warn or error.
func SetLevel(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "", "info":
		level.Set(slog.LevelInfo)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level %q", s)
	}
	return nil
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	c := *l
	c.fields = merged
	return &c
}

func (l *Logger) WithRequestID(id string) *Logger {
	c := *l
	c.requestID = id
	return &c
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(slog.LevelInfo, action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(slog.LevelDebug, action, fields, nil) }
func (l *Logger) Warn(action string, fields map[string]any)  { l.log(slog.LevelWarn, action, fields, nil) }
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(slog.LevelError, action, fields, err)
}

func (l *Logger) log(lvl slog.Level, action string, fields map[string]any, err error) {
	ctx := context.Background()
	if !l.base.Enabled(ctx, lvl) {
		return
	}

	entry := map[string]any{
		"service":    l.service,
		"action":     action,
		"hostname":   hostname(),
		"request_id": l.requestID,
	}
	for k, v := range l.fields {
		entry[k] = v
	}
	for k, v := range fields {
		entry[k] = v
	}

	keys := make([]string, 0, len(entry))
	for k := range entry {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys)+1)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, entry[k]))
	}
	if err != nil {
		attrs = append(attrs, slog.Group("error",
			slog.String("msg", err.Error()),
			slog.String("stack", fmt.Sprintf("%T", err)),
		))
	}
	l.base.LogAttrs(ctx, lvl, action, attrs...)
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		return slog.String("timestamp", a.Value.Time().UTC().Format(time.RFC3339Nano))
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}
