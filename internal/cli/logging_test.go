package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestLogger(level logrus.Level) (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(level)
	l.SetFormatter(&formatter{DisableColors: true})
	return l, &buf
}

func TestFormatterPlain(t *testing.T) {
	l, buf := newTestLogger(logrus.InfoLevel)
	l.WithFields(logrus.Fields{"b": 2, "a": 1}).Warn("careful")
	want := "[sinew] WARNING careful {a=1, b=2}\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestSlogHandlerForwards(t *testing.T) {
	l, buf := newTestLogger(logrus.DebugLevel)
	log := slog.New(newSlogHandler(l))
	log.With("joint", "mElbowLeft").WithGroup("ik").Debug("solve skipped", "reason", "zero length")

	got := buf.String()
	for _, want := range []string{"DEBUG", "solve skipped", "joint=mElbowLeft", "ik.reason=zero length"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestSlogHandlerLevels(t *testing.T) {
	l, buf := newTestLogger(logrus.WarnLevel)
	h := newSlogHandler(l)
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}

	log := slog.New(h)
	log.Info("hidden")
	log.Warn("shown", slog.Group("cap", "max", 4))
	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("info record should be filtered: %q", got)
	}
	if !strings.Contains(got, "cap.max=4") {
		t.Errorf("output %q missing group attribute", got)
	}
}

func TestToLogrusLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want logrus.Level
	}{
		{slog.LevelDebug - 4, logrus.DebugLevel},
		{slog.LevelDebug, logrus.DebugLevel},
		{slog.LevelInfo, logrus.InfoLevel},
		{slog.LevelWarn, logrus.WarnLevel},
		{slog.LevelError, logrus.ErrorLevel},
		{slog.LevelError + 4, logrus.ErrorLevel},
	}
	for _, tt := range tests {
		if got := toLogrusLevel(tt.in); got != tt.want {
			t.Errorf("toLogrusLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
