// Package hostfuncs is the command runtime of wheelhost.
//
// Commands are named handlers that take a JSON request and return a JSON
// value. They are collected into an immutable HandlerRegistry which every
// transport (HTTP bridge, WASM host module, CLI) dispatches through, so a
// command behaves the same no matter who invokes it.
//
// Failures never cross the boundary as Go errors or panics. A handler that
// fails returns an ErrorResponse envelope instead, and transports use
// ParseErrorResponse to tell the two apart.
package hostfuncs
