// Package wazero exports the command registry to WebAssembly guests running
// in the wazero runtime.
//
// Every registered command becomes a host function func(i64) i64 in the host
// module (default "wheel_host"). The i64 packs a guest pointer in the upper
// 32 bits and a length in the lower 32 bits. Responses are written into memory
// obtained from the guest's "allocate" export, so guests must export
//
//	allocate(size i32) i32
//
// # Basic Usage
//
//	registry, err := hostfuncs.NewRegistry(
//	    hostfuncs.WithBundle(commands.AppBundle(files)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	runtime := wazero.NewRuntime(ctx)
//	err = wazero.RegisterWithRuntime(ctx, runtime, registry,
//	    wazero.WithMaxRequestSize(64 << 10),
//	)
//
// # Guest Logs
//
// Unless disabled with WithGuestLogs(false), the host module also exports
// log_message(i64), which accepts a JSON encoded log.Message and replays it on
// the configured logger with a "guest" attribute.
package wazero
