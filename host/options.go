package host

import (
	"io"
	"log/slog"

	"github.com/wheelkit/wheelhost/hostfuncs"
	"github.com/wheelkit/wheelhost/infrastructure/wazero"
)

// Option defines a functional option for configuring the Executor.
type Option func(*Executor)

// WithHostFunctions configures the executor with a command registry.
func WithHostFunctions(registry *hostfuncs.HandlerRegistry) Option {
	return func(e *Executor) {
		e.registry = registry
	}
}

// WithAdapterOptions passes options through to the wazero host module adapter.
func WithAdapterOptions(opts ...wazero.AdapterOption) Option {
	return func(e *Executor) {
		e.adapterOpts = append(e.adapterOpts, opts...)
	}
}

// WithLogger sets the logger for executor and guest log output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithStdio wires the guest's standard streams. Nil streams are discarded.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(e *Executor) {
		e.stdin = stdin
		e.stdout = stdout
		e.stderr = stderr
	}
}
