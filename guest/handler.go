package guest

import (
	"context"
	"encoding/json"
	"log/slog"

	wheellog "github.com/wheelkit/wheelhost/log"
)

// Handler is a slog.Handler that ships records to the host's log_message
// export.
type Handler struct {
	level  slog.Leveler
	send   func([]byte)
	attrs  []slog.Attr
	prefix string
}

func newHandler(level slog.Leveler, send func([]byte)) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{level: level, send: send}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle serializes record and sends it to the host.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	r := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	r.AddAttrs(h.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		r.AddAttrs(h.qualify(a))
		return true
	})

	data, err := json.Marshal(wheellog.NewMessage(r))
	if err != nil {
		return err
	}
	h.send(data)
	return nil
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(a))
	}
	return &clone
}

// WithGroup returns a handler that prefixes later attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *Handler) qualify(a slog.Attr) slog.Attr {
	if h.prefix == "" {
		return a
	}
	a.Key = h.prefix + a.Key
	return a
}
