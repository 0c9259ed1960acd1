package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	now := time.Now()
	logger.Info("validating", "path", "/tmp/a.docx")

	output := buf.String()
	for _, want := range []string{"INFO", "validating", "path=/tmp/a.docx", now.Format(time.Kitchen)} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %q", want, output)
		}
	}
}

func TestHandler_QuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil))

	logger.Info("failed", "err", "zip: not a valid zip file")

	if !strings.Contains(buf.String(), `err="zip: not a valid zip file"`) {
		t.Errorf("expected quoted value, got: %q", buf.String())
	}
}

func TestHandler_TruncatesLongValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil))

	logger.Info("part", "xml", strings.Repeat("x", 500))

	if strings.Contains(buf.String(), strings.Repeat("x", maxValueLen)) {
		t.Error("long value should be truncated")
	}
	if !strings.Contains(buf.String(), "...") {
		t.Errorf("truncated value should end with ellipsis: %q", buf.String())
	}
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil)).With("run", "abc").WithGroup("target")

	logger.Info("done", "count", 3)

	output := buf.String()
	if !strings.Contains(output, "run=abc") {
		t.Errorf("expected common attribute, got: %q", output)
	}
	if !strings.Contains(output, "target.count=3") {
		t.Errorf("expected grouped attribute, got: %q", output)
	}
}

func TestHandler_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))

	logger.Log(t.Context(), LevelTrace, "rule finished")

	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("expected TRACE level name, got: %q", buf.String())
	}
}

func TestHandler_Enabled(t *testing.T) {
	h := NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	ctx := t.Context()
	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("expected Info level to be disabled when min level is Warn")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Error("expected Error level to be enabled")
	}
}
