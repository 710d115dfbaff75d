package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
)

// shortRequestIDLen is how much of a correlation id the console shows.
const shortRequestIDLen = 8

type field struct {
	key   string
	value slog.Value
}

// consoleHandler renders one human-readable line per record:
//
//	15:04:05 INFO  resolver[resolve]: message key=value req=1a2b3c4d
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	preset    []field
	groups    []string
	addSource bool
	color     bool
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource, color bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: lvl, addSource: addSource, color: color}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	fields := make([]field, 0, len(h.preset)+record.NumAttrs())
	fields = append(fields, h.preset...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, h.groups, attr)
		return true
	})

	var component, stage, requestID string
	rest := fields[:0]
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			component = attrString(f.value)
		case FieldStage:
			stage = attrString(f.value)
		case FieldCorrelationID:
			requestID = attrString(f.value)
		default:
			rest = append(rest, f)
		}
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	b.WriteString(formatTimestamp(ts))
	b.WriteByte(' ')
	b.WriteString(h.paintLevel(record.Level))
	b.WriteByte(' ')
	if component != "" {
		b.WriteString(component)
		if stage != "" {
			b.WriteString("[" + stage + "]")
		}
		b.WriteString(": ")
	} else if stage != "" {
		b.WriteString("[" + stage + "] ")
	}

	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(msg)

	if h.addSource {
		if src := record.Source(); src != nil {
			b.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
		}
	}
	for _, f := range rest {
		if f.key == "" {
			continue
		}
		b.WriteString(" " + f.key + "=" + formatValue(f.value))
	}
	if requestID != "" {
		if len(requestID) > shortRequestIDLen {
			requestID = requestID[:shortRequestIDLen]
		}
		b.WriteString(" req=" + requestID)
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.derive()
	for _, attr := range attrs {
		next.preset = appendField(next.preset, next.groups, attr)
	}
	return next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	next := h.derive()
	if name != "" {
		next.groups = append(next.groups, name)
	}
	return next
}

func (h *consoleHandler) derive() *consoleHandler {
	next := *h
	next.preset = append([]field(nil), h.preset...)
	next.groups = append([]string(nil), h.groups...)
	return &next
}

// appendField flattens groups into dotted keys.
func appendField(dst []field, prefix []string, attr slog.Attr) []field {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix = append(append([]string(nil), prefix...), attr.Key)
		}
		for _, child := range attr.Value.Group() {
			dst = appendField(dst, prefix, child)
		}
		return dst
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(prefix, ".") + "." + key
	}
	return append(dst, field{key: key, value: attr.Value})
}

func (h *consoleHandler) paintLevel(level slog.Level) string {
	label, colors := levelLabel(level)
	label = text.Pad(label, 5, ' ')
	if !h.color {
		return label
	}
	return colors.Sprint(label)
}

func levelLabel(level slog.Level) (string, text.Colors) {
	switch {
	case level >= slog.LevelError:
		return "ERROR", text.Colors{text.FgRed, text.Bold}
	case level >= slog.LevelWarn:
		return "WARN", text.Colors{text.FgYellow}
	case level >= slog.LevelInfo:
		return "INFO", text.Colors{text.FgCyan}
	default:
		return "DEBUG", text.Colors{text.FgHiBlack}
	}
}
