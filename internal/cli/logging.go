package cli

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// formatter prints "[sinew] LEVEL message {k=v, ...}" with colored levels.
type formatter struct {
	DisableColors bool
}

func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var levelColor *color.Color
	switch entry.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		levelColor = color.New(color.FgRed, color.Bold)
	case logrus.WarnLevel:
		levelColor = color.New(color.FgYellow, color.Bold)
	case logrus.InfoLevel:
		levelColor = color.New(color.FgCyan)
	default:
		levelColor = color.New(color.FgWhite, color.Faint)
	}
	level := strings.ToUpper(entry.Level.String())

	var b strings.Builder
	if f.DisableColors {
		fmt.Fprintf(&b, "[sinew] %s %s", level, entry.Message)
	} else {
		fmt.Fprintf(&b, "%s %s %s", color.MagentaString("[sinew]"), levelColor.Sprint(level), entry.Message)
	}

	if len(entry.Data) > 0 {
		keys := slices.Sorted(maps.Keys(entry.Data))
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, entry.Data[k])
		}
		fields := " {" + strings.Join(parts, ", ") + "}"
		if f.DisableColors {
			b.WriteString(fields)
		} else {
			b.WriteString(color.New(color.FgWhite, color.Faint).Sprint(fields))
		}
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// slogHandler forwards slog records from the sinew packages to logrus.
type slogHandler struct {
	log    *logrus.Logger
	fields logrus.Fields
	prefix string
}

func newSlogHandler(log *logrus.Logger) *slogHandler {
	return &slogHandler{log: log, fields: logrus.Fields{}}
}

func toLogrusLevel(l slog.Level) logrus.Level {
	switch {
	case l >= slog.LevelError:
		return logrus.ErrorLevel
	case l >= slog.LevelWarn:
		return logrus.WarnLevel
	case l >= slog.LevelInfo:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}

func (h *slogHandler) Enabled(_ context.Context, l slog.Level) bool {
	return h.log.IsLevelEnabled(toLogrusLevel(l))
}

func (h *slogHandler) Handle(_ context.Context, r slog.Record) error {
	fields := maps.Clone(h.fields)
	r.Attrs(func(a slog.Attr) bool {
		addAttr(fields, h.prefix, a)
		return true
	})
	h.log.WithFields(fields).Log(toLogrusLevel(r.Level), r.Message)
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := maps.Clone(h.fields)
	for _, a := range attrs {
		addAttr(fields, h.prefix, a)
	}
	return &slogHandler{log: h.log, fields: fields, prefix: h.prefix}
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &slogHandler{log: h.log, fields: h.fields, prefix: h.prefix + name + "."}
}

func addAttr(fields logrus.Fields, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := prefix
		if a.Key != "" {
			sub = prefix + a.Key + "."
		}
		for _, g := range a.Value.Group() {
			addAttr(fields, sub, g)
		}
		return
	}
	fields[prefix+a.Key] = a.Value.Any()
}
