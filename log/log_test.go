package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Level: "warn", Format: FormatJSON})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "command", "greet")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "greet", line["command"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Level: "debug", NoColor: true})
	require.NoError(t, err)

	logger.Debug("spin", "index", 3)
	assert.Contains(t, buf.String(), "spin")
	assert.Contains(t, buf.String(), "index=3")
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)

	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestEncodeAttr(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		wantType string
		wantVal  string
	}{
		{"string", slog.String("key", "value"), "string", "value"},
		{"int64", slog.Int64("key", 123), "int64", "123"},
		{"uint64", slog.Uint64("key", 7), "uint64", "7"},
		{"bool", slog.Bool("key", true), "bool", "true"},
		{"float64", slog.Float64("key", 1.25), "float64", "1.25"},
		{"time", slog.Time("key", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), "time", "2024-01-01T00:00:00Z"},
		{"duration", slog.Duration("key", time.Hour), "duration", "1h0m0s"},
		{"error", slog.Any("key", errors.New("test error")), "error", "test error"},
		{"nil", slog.Any("key", nil), "any", "<nil>"},
		{"json", slog.Any("key", map[string]int{"a": 1}), "json", `{"a":1}`},
		{"valuer", slog.Any("key", logValuer{val: "resolved"}), "string", "resolved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := EncodeAttr(tt.attr)
			assert.Equal(t, "key", wire.Key)
			assert.Equal(t, tt.wantType, wire.Type)
			assert.Equal(t, tt.wantVal, wire.Value)
		})
	}
}

type logValuer struct {
	val string
}

func (l logValuer) LogValue() slog.Value {
	return slog.StringValue(l.val)
}

func TestAttr_Decode(t *testing.T) {
	attrs := []slog.Attr{
		slog.Int64("n", -4),
		slog.Bool("ok", false),
		slog.Float64("f", 0.5),
		slog.Duration("d", 2*time.Second),
		slog.String("s", "x"),
	}
	for _, attr := range attrs {
		got := EncodeAttr(attr).Decode()
		assert.True(t, attr.Equal(got), "%v != %v", attr, got)
	}

	bad := Attr{Key: "n", Type: "int64", Value: "nope"}
	assert.Equal(t, slog.String("n", "nope"), bad.Decode())
}

func TestReplay(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	record := slog.NewRecord(time.Now(), slog.LevelWarn, "guest says hi", 0)
	record.AddAttrs(slog.Int("count", 2))
	Replay(context.Background(), logger, NewMessage(record), slog.String("guest", "spinner"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "guest says hi", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, float64(2), line["count"])
	assert.Equal(t, "spinner", line["guest"])
}

func TestReplay_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	Replay(context.Background(), logger, Message{Level: "LOUD", Message: "m"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "INFO", line["level"])
}
