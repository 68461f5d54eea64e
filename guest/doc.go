// Package guest is the WebAssembly side of the wheelhost command ABI.
//
// Built with GOOS=wasip1 GOARCH=wasm, it exports the allocate and deallocate
// functions the host needs, imports every command from the "wheel_host"
// module and offers Call to invoke them with Go values:
//
//	var view entities.WheelView
//	if err := guest.Call("wheel_view", nil, &view); err != nil {
//	    return err
//	}
//
// slog output can be forwarded to the host logger with
// slog.SetDefault(slog.New(guest.NewHandler(slog.LevelInfo))).
//
// On other platforms Call returns ErrUnsupported so packages importing guest
// still build and test natively.
package guest
