package wazero

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"

	"github.com/wheelkit/wheelhost/hostfuncs"
	"github.com/wheelkit/wheelhost/internal/testutil"
	wheellog "github.com/wheelkit/wheelhost/log"
)

type greetRequest struct {
	Name string `json:"name" validate:"required"`
}

func newTestRegistry(t *testing.T) *hostfuncs.HandlerRegistry {
	t.Helper()
	registry, err := hostfuncs.NewRegistry(
		hostfuncs.WithHandler("greet", func(_ context.Context, req greetRequest) (string, error) {
			return "Hello, " + req.Name + "!", nil
		}),
	)
	require.NoError(t, err)
	return registry
}

func callGuest(t *testing.T, ctx context.Context, rt wazero.Runtime, bin []byte, request []byte) []byte {
	t.Helper()
	mod, err := rt.InstantiateWithConfig(ctx, bin, wazero.NewModuleConfig().WithName("spinner"))
	require.NoError(t, err)

	require.True(t, mod.Memory().Write(testutil.RequestOffset, request))
	results, err := mod.ExportedFunction("call").Call(ctx, packPtrLen(testutil.RequestOffset, uint32(len(request))))
	require.NoError(t, err)
	if len(results) == 0 {
		return nil
	}

	ptr, length := unpackPtrLen(results[0])
	require.Equal(t, uint32(testutil.ResponseOffset), ptr)
	out, ok := mod.Memory().Read(ptr, length)
	require.True(t, ok)
	return append([]byte(nil), out...)
}

func TestRegisterWithRuntime_InvokesCommand(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	require.NoError(t, RegisterWithRuntime(ctx, rt, newTestRegistry(t)))

	resp := callGuest(t, ctx, rt, testutil.GuestModule(DefaultModuleName, "greet", true), []byte(`{"name":"Ada"}`))
	assert.JSONEq(t, `"Hello, Ada!"`, string(resp))
}

func TestRegisterWithRuntime_ValidationEnvelope(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	require.NoError(t, RegisterWithRuntime(ctx, rt, newTestRegistry(t)))

	resp := callGuest(t, ctx, rt, testutil.GuestModule(DefaultModuleName, "greet", true), []byte(`{}`))
	errResp, ok := hostfuncs.ParseErrorResponse(resp)
	require.True(t, ok, string(resp))
	assert.Equal(t, hostfuncs.KindValidation, errResp.Error)
}

func TestRegisterWithRuntime_RequestTooLarge(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	require.NoError(t, RegisterWithRuntime(ctx, rt, newTestRegistry(t), WithMaxRequestSize(8)))

	resp := callGuest(t, ctx, rt, testutil.GuestModule(DefaultModuleName, "greet", true), []byte(`{"name":"Grace Hopper"}`))
	errResp, ok := hostfuncs.ParseErrorResponse(resp)
	require.True(t, ok)
	assert.Equal(t, hostfuncs.KindValidation, errResp.Error)
	assert.Contains(t, errResp.Message, "exceeds maximum 8 bytes")
}

func TestRegisterWithRuntime_CustomModuleName(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	require.NoError(t, RegisterWithRuntime(ctx, rt, newTestRegistry(t), WithModuleName("custom_host")))

	resp := callGuest(t, ctx, rt, testutil.GuestModule("custom_host", "greet", true), []byte(`{"name":"Lin"}`))
	assert.JSONEq(t, `"Hello, Lin!"`, string(resp))
}

func TestRegisterWithRuntime_UnknownImportFails(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	require.NoError(t, RegisterWithRuntime(ctx, rt, newTestRegistry(t)))

	_, err := rt.Instantiate(ctx, testutil.GuestModule(DefaultModuleName, "launch_rockets", true))
	assert.Error(t, err)
}

func TestRegisterWithRuntime_GuestLogs(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	require.NoError(t, RegisterWithRuntime(ctx, rt, newTestRegistry(t), WithLogger(logger)))

	msg, err := json.Marshal(wheellog.Message{
		Level:   "WARN",
		Message: "wheel is empty",
		Attrs:   []wheellog.Attr{{Key: "items", Type: "int64", Value: "0"}},
	})
	require.NoError(t, err)
	callGuest(t, ctx, rt, testutil.GuestModule(DefaultModuleName, LogFunctionName, false), msg)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "wheel is empty", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, float64(0), line["items"])
	assert.Equal(t, "spinner", line["guest"])
}

func TestRegisterWithRuntime_GuestLogsDisabled(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	require.NoError(t, RegisterWithRuntime(ctx, rt, newTestRegistry(t), WithGuestLogs(false)))

	_, err := rt.Instantiate(ctx, testutil.GuestModule(DefaultModuleName, LogFunctionName, false))
	assert.Error(t, err)
}

func TestDefaultAdapterConfig(t *testing.T) {
	cfg := defaultAdapterConfig()

	assert.Equal(t, "wheel_host", cfg.ModuleName)
	assert.Equal(t, uint32(1<<20), cfg.MaxRequestSize)
	assert.True(t, cfg.GuestLogs)
}

func TestPackUnpackPtrLen(t *testing.T) {
	tests := []struct {
		ptr    uint32
		length uint32
	}{
		{0, 0},
		{1, 1},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{0x12345678, 0x9ABCDEF0},
		{100, 50},
	}

	for _, tt := range tests {
		gotPtr, gotLen := unpackPtrLen(packPtrLen(tt.ptr, tt.length))
		assert.Equal(t, tt.ptr, gotPtr)
		assert.Equal(t, tt.length, gotLen)
	}
}

func TestGuestName(t *testing.T) {
	assert.Equal(t, "guest", GuestName(context.Background(), nil))
	assert.Equal(t, "spinner", GuestName(WithGuestName(context.Background(), "spinner"), nil))

	_, ok := GuestNameFromContext(WithGuestName(context.Background(), ""))
	assert.False(t, ok)
}
