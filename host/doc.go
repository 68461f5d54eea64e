// Package host runs WebAssembly guests that call wheelhost commands.
//
// An Executor owns a wazero runtime with WASI preview 1 and the command host
// module installed. Command-style guests (a main with _start) are executed
// with Run; reactor-style guests are instantiated with Load and driven
// through their exports with Guest.Call.
package host
