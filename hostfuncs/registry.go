package hostfuncs

import (
	"context"
	"fmt"
	"sort"
)

// HandlerRegistry is an immutable collection of named commands.
// Once created via NewRegistry, commands cannot be added or removed.
// This keeps lookups lock-free when transports invoke concurrently.
type HandlerRegistry struct {
	handlers   map[string]ByteHandler
	commands   map[string]Command
	names      []string // sorted for consistent iteration
	middleware []Middleware
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	commands   map[string]Command
	middleware []Middleware
	errors     []error
}

// NewRegistry creates an immutable HandlerRegistry with the given options.
// Returns an error if any command name is registered twice.
//
// Example usage:
//
//	registry, err := NewRegistry(
//	    WithMiddleware(PanicRecoveryMiddleware()),
//	    WithBundle(commands.AppBundle(files)),
//	    WithHandler("ping", ping),
//	)
func NewRegistry(opts ...RegistryOption) (*HandlerRegistry, error) {
	b := &registryBuilder{
		commands: make(map[string]Command),
	}

	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	names := make([]string, 0, len(b.commands))
	for name := range b.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	// Apply middleware chain to all handlers (FIFO order)
	wrappedHandlers := make(map[string]ByteHandler, len(b.commands))
	for name, cmd := range b.commands {
		wrapped := cmd.Handler
		// Apply middleware in reverse order so first middleware wraps outermost
		for i := len(b.middleware) - 1; i >= 0; i-- {
			wrapped = b.middleware[i](wrapped)
		}
		wrappedHandlers[name] = wrapped
	}

	return &HandlerRegistry{
		handlers:   wrappedHandlers,
		commands:   b.commands,
		names:      names,
		middleware: b.middleware,
	}, nil
}

// Invoke dispatches a command call by name.
// Returns the JSON response bytes, or an ErrorResponse JSON if the command is not found.
func (r *HandlerRegistry) Invoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return NewNotFoundError(name).ToJSON(), nil
	}

	// Wrap context with command name for middleware access
	hctx := HostContextFrom(ctx, name)
	return handler(hctx, payload)
}

// Call is Invoke with the envelope already decoded. On success it returns the
// JSON value and a nil *ErrorResponse. A transport-level Go error is folded
// into an INTERNAL_ERROR envelope.
func (r *HandlerRegistry) Call(ctx context.Context, name string, payload []byte) ([]byte, *ErrorResponse) {
	resp, err := r.Invoke(ctx, name, payload)
	if err != nil {
		e := NewInternalError(err.Error())
		return nil, &e
	}
	if e, ok := ParseErrorResponse(resp); ok {
		return nil, &e
	}
	return resp, nil
}

// Has returns true if a command with the given name is registered.
func (r *HandlerRegistry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns a sorted list of all registered command names.
func (r *HandlerRegistry) Names() []string {
	result := make([]string, len(r.names))
	copy(result, r.names)
	return result
}

// Describe returns the registered Command (unwrapped by middleware) so callers
// can reflect its request and response types.
func (r *HandlerRegistry) Describe(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// addCommand registers a command with the given name.
// Returns an error if the name is already registered.
func (b *registryBuilder) addCommand(name string, cmd Command) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if cmd.Handler == nil {
		return fmt.Errorf("command %q has no handler", name)
	}
	if _, exists := b.commands[name]; exists {
		return fmt.Errorf("duplicate command name: %q", name)
	}
	b.commands[name] = cmd
	return nil
}

// WithByteHandler registers a raw ByteHandler with the given name.
// Use WithHandler for type-safe registration with automatic JSON handling.
func WithByteHandler(name string, handler ByteHandler) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addCommand(name, Command{Handler: handler}); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}
