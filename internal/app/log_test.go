package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCatalogHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		runID   string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "info message",
			runID:   "serve-1",
			level:   slog.LevelInfo,
			message: "topic created",
			want:    "2024-06-15T14:30:45Z\tINFO\tserve-1\ttopic created\n",
		},
		{
			name:    "warn with attrs",
			runID:   "serve-2",
			level:   slog.LevelWarn,
			message: "update part: unknown id",
			attrs:   []slog.Attr{slog.String("id", "p9"), slog.Int("status", 404)},
			want:    "2024-06-15T14:30:45Z\tWARN\tserve-2\tupdate part: unknown id\tid=p9\tstatus=404\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &catalogHandler{w: &buf, runID: tt.runID, level: slog.LevelDebug}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			r.AddAttrs(tt.attrs...)

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestCatalogHandler_Enabled(t *testing.T) {
	h := &catalogHandler{level: slog.LevelInfo}
	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, true},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		if got := h.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestCatalogHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &catalogHandler{w: &buf, runID: "r", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "server")}).(*catalogHandler)
	if len(h.attrs) != 1 || len(h2.attrs) != 2 {
		t.Fatalf("attrs = %d/%d, want 1/2", len(h.attrs), len(h2.attrs))
	}

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "listening", 0)
	r.AddAttrs(slog.String("addr", ":8080"))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	for _, want := range []string{"component=server", "addr=:8080"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output %q missing %s", buf.String(), want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	logger, f, err := newLogger(dir, "test-run", slog.LevelInfo)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	(&slogAdapter{l: logger}).Info("hello", "k", "v")
	(&slogAdapter{l: logger}).Debug("hidden")

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "\ttest-run\thello\tk=v") {
		t.Errorf("log file = %q", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("debug line written at info level")
	}
}
