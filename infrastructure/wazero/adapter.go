package wazero

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wheelkit/wheelhost/hostfuncs"
	wheellog "github.com/wheelkit/wheelhost/log"
)

const (
	// DefaultModuleName is the host module guests import commands from.
	DefaultModuleName = "wheel_host"

	// DefaultMaxRequestSize bounds a single request read from guest memory.
	DefaultMaxRequestSize uint32 = 1 << 20

	// LogFunctionName is the export guests call to forward slog records.
	LogFunctionName = "log_message"
)

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	// Logger receives adapter diagnostics and forwarded guest logs.
	Logger *slog.Logger

	// ModuleName is the host module name (default: "wheel_host").
	ModuleName string

	// MaxRequestSize limits the size of incoming requests from guest memory.
	MaxRequestSize uint32

	// GuestLogs exports log_message so guests can forward slog records.
	GuestLogs bool
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name.
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithMaxRequestSize sets the maximum request size from guest memory.
func WithMaxRequestSize(size uint32) AdapterOption {
	return func(c *AdapterConfig) {
		c.MaxRequestSize = size
	}
}

// WithLogger sets the logger used for diagnostics and guest logs.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		c.Logger = logger
	}
}

// WithGuestLogs toggles the log_message export.
func WithGuestLogs(enabled bool) AdapterOption {
	return func(c *AdapterConfig) {
		c.GuestLogs = enabled
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		ModuleName:     DefaultModuleName,
		MaxRequestSize: DefaultMaxRequestSize,
		GuestLogs:      true,
	}
}

// RegisterWithRuntime instantiates a host module exporting every command of
// registry as func(i64) i64.
//
// Each export:
//   - reads the request from guest memory using the packed i64 ptr+len format
//   - invokes the command through the registry
//   - allocates response memory through the guest's "allocate" export
//   - returns the packed i64 ptr+len of the response
//
// Example:
//
//	registry, _ := hostfuncs.NewRegistry(
//	    hostfuncs.WithBundle(commands.AppBundle(files)),
//	)
//	err := wazero.RegisterWithRuntime(ctx, runtime, registry)
func RegisterWithRuntime(ctx context.Context, runtime wazero.Runtime, registry *hostfuncs.HandlerRegistry, opts ...AdapterOption) error {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	builder := runtime.NewHostModuleBuilder(cfg.ModuleName)

	for _, name := range registry.Names() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				stack[0] = handleRegistryCall(ctx, mod, stack[0], registry, name, cfg)
			}), []api.ValueType{api.ValueTypeI64}, []api.ValueType{api.ValueTypeI64}).
			Export(name)
	}

	if cfg.GuestLogs && !registry.Has(LogFunctionName) {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				handleGuestLog(ctx, mod, stack[0], cfg)
			}), []api.ValueType{api.ValueTypeI64}, []api.ValueType{}).
			Export(LogFunctionName)
	}

	if _, err := builder.Instantiate(ctx); err != nil {
		return fmt.Errorf("instantiate host module %q: %w", cfg.ModuleName, err)
	}
	return nil
}

// handleRegistryCall reads the request from guest memory, invokes the command
// and writes the response back. It returns the packed response or 0.
func handleRegistryCall(ctx context.Context, mod api.Module, packed uint64, registry *hostfuncs.HandlerRegistry, name string, cfg AdapterConfig) uint64 {
	logger := cfg.Logger.With("guest", GuestName(ctx, mod), "command", name)
	ptr, length := unpackPtrLen(packed)

	if length > cfg.MaxRequestSize {
		msg := fmt.Sprintf("request size %d exceeds maximum %d bytes", length, cfg.MaxRequestSize)
		logger.WarnContext(ctx, "wazero: "+msg)
		return writeErrorResponse(ctx, mod, logger, hostfuncs.NewValidationError(msg))
	}

	var request []byte
	if length > 0 {
		data, ok := mod.Memory().Read(ptr, length)
		if !ok {
			msg := "failed to read request from guest memory"
			logger.ErrorContext(ctx, "wazero: "+msg)
			return writeErrorResponse(ctx, mod, logger, hostfuncs.NewInternalError(msg))
		}
		// Guest memory may be reused once we call back into allocate.
		request = append([]byte(nil), data...)
	}

	response, err := registry.Invoke(WithGuestName(ctx, GuestName(ctx, mod)), name, request)
	if err != nil {
		logger.ErrorContext(ctx, "wazero: command invocation failed", "error", err)
		return writeErrorResponse(ctx, mod, logger, hostfuncs.NewInternalError(err.Error()))
	}

	return writeResponse(ctx, mod, logger, response)
}

// handleGuestLog replays a wire log message from the guest on the host logger.
func handleGuestLog(ctx context.Context, mod api.Module, packed uint64, cfg AdapterConfig) {
	ptr, length := unpackPtrLen(packed)
	if length == 0 || length > cfg.MaxRequestSize {
		return
	}

	data, ok := mod.Memory().Read(ptr, length)
	if !ok {
		cfg.Logger.ErrorContext(ctx, "wazero: failed to read log message from guest memory")
		return
	}

	var msg wheellog.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		cfg.Logger.WarnContext(ctx, "wazero: malformed guest log message", "error", err)
		return
	}
	wheellog.Replay(ctx, cfg.Logger, msg, slog.String("guest", GuestName(ctx, mod)))
}

// writeResponse allocates memory in the guest and writes data into it.
// Returns packed ptr+len or 0 on failure.
func writeResponse(ctx context.Context, mod api.Module, logger *slog.Logger, data []byte) uint64 {
	allocateFn := mod.ExportedFunction("allocate")
	if allocateFn == nil {
		logger.ErrorContext(ctx, "wazero: guest module missing 'allocate' export")
		return 0
	}

	results, err := allocateFn.Call(ctx, uint64(len(data)))
	if err != nil {
		logger.ErrorContext(ctx, "wazero: failed to call guest allocate", "error", err)
		return 0
	}
	ptr := uint32(results[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit

	if !mod.Memory().Write(ptr, data) {
		logger.ErrorContext(ctx, "wazero: failed to write response to guest memory")
		return 0
	}

	return packPtrLen(ptr, uint32(len(data))) //nolint:gosec // G115: response length fits guest memory
}

func writeErrorResponse(ctx context.Context, mod api.Module, logger *slog.Logger, errResp hostfuncs.ErrorResponse) uint64 {
	return writeResponse(ctx, mod, logger, errResp.ToJSON())
}

// packPtrLen packs a pointer and length into a single i64.
// Upper 32 bits: pointer, lower 32 bits: length.
func packPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << 32) | uint64(length)
}

// unpackPtrLen unpacks a pointer and length from a packed i64.
func unpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32)           //nolint:gosec // G115: packed format stores 32-bit values
	length = uint32(packed & 0xFFFFFFFF) //nolint:gosec // G115: packed format stores 32-bit values
	return ptr, length
}
