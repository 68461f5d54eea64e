package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/wheelkit/wheelhost/hostfuncs"
	wheelwazero "github.com/wheelkit/wheelhost/infrastructure/wazero"
)

// Executor manages a wazero runtime with the command host module installed.
type Executor struct {
	runtime     wazero.Runtime
	registry    *hostfuncs.HandlerRegistry
	logger      *slog.Logger
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	adapterOpts []wheelwazero.AdapterOption
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.registry == nil {
		reg, err := hostfuncs.NewRegistry()
		if err != nil {
			return nil, fmt.Errorf("failed to create default registry: %w", err)
		}
		e.registry = reg
	}

	rt := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}

	adapterOpts := append([]wheelwazero.AdapterOption{wheelwazero.WithLogger(e.logger)}, e.adapterOpts...)
	if err := wheelwazero.RegisterWithRuntime(ctx, rt, e.registry, adapterOpts...); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	e.runtime = rt
	return e, nil
}

// Close releases resources held by the executor and every guest it started.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Run executes a command-style guest to completion. args are passed after the
// program name. A guest exit code is returned as-is; err reports failures to
// compile or instantiate and traps.
func (e *Executor) Run(ctx context.Context, name string, wasmBytes []byte, args ...string) (int, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return 0, fmt.Errorf("failed to compile %s: %w", name, err)
	}
	defer compiled.Close(ctx)

	cfg := e.moduleConfig(name).WithArgs(append([]string{name}, args...)...)

	e.logger.DebugContext(ctx, "running guest", "guest", name, "args", args)
	mod, err := e.runtime.InstantiateModule(wheelwazero.WithGuestName(ctx, name), compiled, cfg)
	if mod != nil {
		defer mod.Close(ctx)
	}

	var exitErr *sys.ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.ExitCode()), nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return 0, nil
}

// Guest is an instantiated reactor-style module.
type Guest struct {
	module api.Module
	name   string
}

// Load instantiates a guest without running _start. Exports are invoked with
// Guest.Call. A guest built as a reactor is initialised through _initialize.
func (e *Executor) Load(ctx context.Context, name string, wasmBytes []byte) (*Guest, error) {
	cfg := e.moduleConfig(name).WithStartFunctions()

	mod, err := e.runtime.InstantiateWithConfig(wheelwazero.WithGuestName(ctx, name), wasmBytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate %s: %w", name, err)
	}

	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			_ = mod.Close(ctx)
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}

	return &Guest{module: mod, name: name}, nil
}

func (e *Executor) moduleConfig(name string) wazero.ModuleConfig {
	cfg := wazero.NewModuleConfig().WithName(name)
	if e.stdin != nil {
		cfg = cfg.WithStdin(e.stdin)
	}
	if e.stdout != nil {
		cfg = cfg.WithStdout(e.stdout)
	}
	if e.stderr != nil {
		cfg = cfg.WithStderr(e.stderr)
	}
	return cfg
}

// Close releases the guest instance.
func (g *Guest) Close(ctx context.Context) error {
	return g.module.Close(ctx)
}

// Call invokes a func(i64) i64 export with input copied into guest memory via
// allocate, and returns a copy of the bytes the packed result points to.
func (g *Guest) Call(ctx context.Context, export string, input []byte) ([]byte, error) {
	f := g.module.ExportedFunction(export)
	if f == nil {
		return nil, fmt.Errorf("export %q not found", export)
	}

	var arg uint64
	if len(input) > 0 {
		ptr, err := g.write(ctx, input)
		if err != nil {
			return nil, err
		}
		arg = uint64(ptr)<<32 | uint64(len(input))
	}

	results, err := f.Call(wheelwazero.WithGuestName(ctx, g.name), arg)
	if err != nil {
		return nil, fmt.Errorf("call %s.%s: %w", g.name, export, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return g.read(results[0])
}

func (g *Guest) write(ctx context.Context, data []byte) (uint32, error) {
	allocate := g.module.ExportedFunction("allocate")
	if allocate == nil {
		return 0, errors.New("guest does not export 'allocate'")
	}
	res, err := allocate.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to allocate in guest: %w", err)
	}
	if len(res) == 0 {
		return 0, errors.New("allocate returned no results")
	}
	ptr := uint32(res[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit
	if !g.module.Memory().Write(ptr, data) {
		return 0, errors.New("failed to write input to guest memory")
	}
	return ptr, nil
}

func (g *Guest) read(packed uint64) ([]byte, error) {
	ptr := uint32(packed >> 32) //nolint:gosec // G115: packed format stores 32-bit values
	length := uint32(packed)    //nolint:gosec // G115: packed format stores 32-bit values
	if length == 0 {
		return nil, nil
	}
	data, ok := g.module.Memory().Read(ptr, length)
	if !ok {
		return nil, errors.New("failed to read response from guest memory")
	}
	return append([]byte(nil), data...), nil
}
