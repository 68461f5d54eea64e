package hostfuncs

// HostFuncBundle is a pre-configured set of related commands.
// Bundles allow registering multiple commands at once.
type HostFuncBundle interface {
	// Commands returns a map of command names to commands.
	Commands() map[string]Command
}

// StaticBundle implements HostFuncBundle with a fixed set of commands.
type StaticBundle map[string]Command

// Commands returns the bundle's commands.
func (b StaticBundle) Commands() map[string]Command {
	return b
}

// compositeBundle combines multiple bundles into one.
type compositeBundle struct {
	bundles []HostFuncBundle
}

func (b *compositeBundle) Commands() map[string]Command {
	result := make(map[string]Command)
	for _, bundle := range b.bundles {
		for name, cmd := range bundle.Commands() {
			result[name] = cmd
		}
	}
	return result
}

// Combine returns a bundle containing the commands of every given bundle.
// Later bundles win on name clashes; use separate WithBundle options to have
// clashes reported instead.
func Combine(bundles ...HostFuncBundle) HostFuncBundle {
	return &compositeBundle{bundles: bundles}
}

// WithBundle registers all commands from a bundle.
func WithBundle(bundle HostFuncBundle) RegistryOption {
	return func(b *registryBuilder) {
		for name, cmd := range bundle.Commands() {
			if err := b.addCommand(name, cmd); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}

// WithHandler registers a typed command with automatic JSON handling.
//
// Example usage:
//
//	WithHandler("echo", func(ctx context.Context, req EchoRequest) (string, error) {
//	    return req.Text, nil
//	})
func WithHandler[Req any, Resp any](name string, fn HostFunc[Req, Resp]) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addCommand(name, NewCommand(fn)); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}
