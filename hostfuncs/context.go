package hostfuncs

import (
	"context"
)

// HostContext wraps a standard context.Context with the name of the command
// being invoked, so middleware can label logs and errors.
type HostContext interface {
	context.Context

	// CommandName returns the name of the command being invoked.
	CommandName() string
}

type hostContext struct {
	context.Context
	name string
}

// NewHostContext creates a new HostContext wrapping the given context.
func NewHostContext(ctx context.Context, name string) HostContext {
	return &hostContext{Context: ctx, name: name}
}

func (c *hostContext) CommandName() string {
	return c.name
}

// HostContextFrom extracts a HostContext from a context.Context.
// If the context is already a HostContext, it is returned directly.
// Otherwise, a new HostContext is created wrapping the given context.
func HostContextFrom(ctx context.Context, name string) HostContext {
	if hc, ok := ctx.(HostContext); ok {
		return hc
	}
	return NewHostContext(ctx, name)
}

// CommandNameFrom returns the command name carried by ctx, or "unknown".
func CommandNameFrom(ctx context.Context) string {
	if hc, ok := ctx.(HostContext); ok {
		return hc.CommandName()
	}
	return "unknown"
}
