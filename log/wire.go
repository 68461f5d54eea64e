package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Message is the JSON wire format of a log record sent from a guest to the host.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Attrs     []Attr    `json:"attrs,omitempty"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Attr is a single slog attribute in wire form.
type Attr struct {
	Key   string `json:"key"`
	Type  string `json:"type"` // string, int64, uint64, bool, float64, time, duration, error, json, group, any
	Value string `json:"value"`
}

// NewMessage converts a slog.Record to its wire form.
func NewMessage(record slog.Record) Message {
	msg := Message{
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}
	record.Attrs(func(attr slog.Attr) bool {
		msg.Attrs = append(msg.Attrs, EncodeAttr(attr))
		return true
	})
	return msg
}

// EncodeAttr converts a slog.Attr to its wire form.
func EncodeAttr(attr slog.Attr) Attr {
	wire := Attr{Key: attr.Key}
	attr.Value = attr.Value.Resolve()

	switch attr.Value.Kind() {
	case slog.KindString:
		wire.Type = "string"
		wire.Value = attr.Value.String()
	case slog.KindInt64:
		wire.Type = "int64"
		wire.Value = strconv.FormatInt(attr.Value.Int64(), 10)
	case slog.KindUint64:
		wire.Type = "uint64"
		wire.Value = strconv.FormatUint(attr.Value.Uint64(), 10)
	case slog.KindBool:
		wire.Type = "bool"
		wire.Value = strconv.FormatBool(attr.Value.Bool())
	case slog.KindFloat64:
		wire.Type = "float64"
		wire.Value = strconv.FormatFloat(attr.Value.Float64(), 'g', -1, 64)
	case slog.KindTime:
		wire.Type = "time"
		wire.Value = attr.Value.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		wire.Type = "duration"
		wire.Value = attr.Value.Duration().String()
	case slog.KindGroup:
		wire.Type = "group"
		wire.Value = attr.Value.String()
	default:
		v := attr.Value.Any()
		switch {
		case v == nil:
			wire.Type = "any"
			wire.Value = "<nil>"
		case isError(v):
			wire.Type = "error"
			wire.Value = v.(error).Error()
		default:
			if data, err := json.Marshal(v); err == nil {
				wire.Type = "json"
				wire.Value = string(data)
			} else {
				wire.Type = "any"
				wire.Value = fmt.Sprintf("%v", v)
			}
		}
	}
	return wire
}

func isError(v any) bool {
	_, ok := v.(error)
	return ok
}

// Decode converts a wire attribute back to a slog.Attr. Values that fail to
// parse are kept as strings.
func (a Attr) Decode() slog.Attr {
	switch a.Type {
	case "int64":
		if n, err := strconv.ParseInt(a.Value, 10, 64); err == nil {
			return slog.Int64(a.Key, n)
		}
	case "uint64":
		if n, err := strconv.ParseUint(a.Value, 10, 64); err == nil {
			return slog.Uint64(a.Key, n)
		}
	case "bool":
		if b, err := strconv.ParseBool(a.Value); err == nil {
			return slog.Bool(a.Key, b)
		}
	case "float64":
		if f, err := strconv.ParseFloat(a.Value, 64); err == nil {
			return slog.Float64(a.Key, f)
		}
	case "time":
		if ts, err := time.Parse(time.RFC3339Nano, a.Value); err == nil {
			return slog.Time(a.Key, ts)
		}
	case "duration":
		if d, err := time.ParseDuration(a.Value); err == nil {
			return slog.Duration(a.Key, d)
		}
	case "json":
		return slog.Any(a.Key, json.RawMessage(a.Value))
	}
	return slog.String(a.Key, a.Value)
}

// Replay writes a guest log message to logger at its original level.
// Extra attributes are appended after the decoded guest attributes.
func Replay(ctx context.Context, logger *slog.Logger, msg Message, extra ...slog.Attr) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(msg.Level)); err != nil {
		level = slog.LevelInfo
	}
	if !logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(msg.Attrs)+len(extra))
	for _, a := range msg.Attrs {
		attrs = append(attrs, a.Decode())
	}
	attrs = append(attrs, extra...)
	logger.LogAttrs(ctx, level, msg.Message, attrs...)
}
