//go:build !wasip1

package guest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelkit/wheelhost/hostfuncs"
	wheellog "github.com/wheelkit/wheelhost/log"
)

func TestPackUnpackPtrLen(t *testing.T) {
	ptr, length := UnpackPtrLen(PackPtrLen(0x1000, 42))
	assert.Equal(t, uint32(0x1000), ptr)
	assert.Equal(t, uint32(42), length)

	ptr, length = UnpackPtrLen(PackPtrLen(0, 0))
	assert.Zero(t, ptr)
	assert.Zero(t, length)
}

func TestPackPtrLen_NullPointerPanics(t *testing.T) {
	assert.Panics(t, func() { PackPtrLen(0, 3) })
	assert.Panics(t, func() { UnpackPtrLen(3) })
}

func TestEncodeRequest(t *testing.T) {
	data, err := encodeRequest("wheel_view", nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	data, err = encodeRequest("greet", map[string]string{"name": "Ada"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ada"}`, string(data))

	_, err = encodeRequest("greet", func() {})
	assert.Error(t, err)
}

func TestDecodeResponse(t *testing.T) {
	var s string
	require.NoError(t, decodeResponse("greet", []byte(`"Hello"`), &s))
	assert.Equal(t, "Hello", s)

	require.NoError(t, decodeResponse("wheel_view", []byte(`{"items":[]}`), nil))

	err := decodeResponse("read_file_base64", hostfuncs.NewCommandError(errors.New("open x: no such file")).ToJSON(), &s)
	var guestErr *Error
	require.ErrorAs(t, err, &guestErr)
	assert.Equal(t, hostfuncs.KindCommand, guestErr.Kind)
	assert.Equal(t, 422, guestErr.Code)
	assert.Equal(t, "read_file_base64: COMMAND_ERROR: open x: no such file", err.Error())

	assert.Error(t, decodeResponse("greet", nil, &s))
	assert.Error(t, decodeResponse("greet", []byte(`{`), &s))
}

func TestCall_Unsupported(t *testing.T) {
	assert.ErrorIs(t, Call("greet", nil, nil), ErrUnsupported)
}

func TestHandler(t *testing.T) {
	var sent [][]byte
	h := newHandler(slog.LevelInfo, func(b []byte) { sent = append(sent, b) })
	logger := slog.New(h).With("guest", "spinner").WithGroup("wheel")

	logger.Debug("hidden")
	logger.Info("spun", "index", 2)

	require.Len(t, sent, 1)
	var msg wheellog.Message
	require.NoError(t, json.Unmarshal(sent[0], &msg))
	assert.Equal(t, "spun", msg.Message)
	assert.Equal(t, "INFO", msg.Level)
	assert.Equal(t, []wheellog.Attr{
		{Key: "guest", Type: "string", Value: "spinner"},
		{Key: "wheel.index", Type: "int64", Value: "2"},
	}, msg.Attrs)
}

func TestHandler_DefaultLevel(t *testing.T) {
	h := newHandler(nil, func([]byte) {})
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
}
