// Package testutil assembles tiny WebAssembly binaries for tests that need a
// real guest without a wasm toolchain.
package testutil

// Offsets used by the modules built here.
const (
	// RequestOffset is a free address tests write request bytes to.
	RequestOffset = 16

	// ResponseOffset is what the generated allocate export always returns.
	ResponseOffset = 1024
)

// GuestModule returns a guest that imports importName from hostModule, exports
// one page of memory, an allocate that always returns ResponseOffset and a
// "call" function forwarding its i64 argument to the import. When returns is
// false the import and "call" have no result.
func GuestModule(hostModule, importName string, returns bool) []byte {
	callType := []byte{0x60, 0x01, 0x7e, 0x01, 0x7e} // (i64) -> i64
	if !returns {
		callType = []byte{0x60, 0x01, 0x7e, 0x00} // (i64) -> ()
	}

	types := concat([]byte{0x02}, callType, []byte{0x60, 0x01, 0x7f, 0x01, 0x7f})
	imports := concat([]byte{0x01}, name(hostModule), name(importName), []byte{0x00, 0x00})
	funcs := []byte{0x02, 0x01, 0x00}
	memory := []byte{0x01, 0x00, 0x01}
	exports := concat([]byte{0x03},
		name("memory"), []byte{0x02, 0x00},
		name("allocate"), []byte{0x00, 0x01},
		name("call"), []byte{0x00, 0x02},
	)
	code := concat([]byte{0x02},
		[]byte{0x05, 0x00, 0x41, 0x80, 0x08, 0x0b},       // i32.const 1024
		[]byte{0x06, 0x00, 0x20, 0x00, 0x10, 0x00, 0x0b}, // local.get 0; call 0
	)

	return concat(header(),
		section(1, types),
		section(2, imports),
		section(3, funcs),
		section(5, memory),
		section(7, exports),
		section(10, code),
	)
}

// CommandModule returns a module exporting memory and a _start function.
// When trap is true _start executes unreachable.
func CommandModule(trap bool) []byte {
	body := []byte{0x02, 0x00, 0x0b} // no locals; end
	if trap {
		body = []byte{0x03, 0x00, 0x00, 0x0b} // no locals; unreachable; end
	}

	types := []byte{0x01, 0x60, 0x00, 0x00} // () -> ()
	funcs := []byte{0x01, 0x00}
	memory := []byte{0x01, 0x00, 0x01}
	exports := concat([]byte{0x02},
		name("memory"), []byte{0x02, 0x00},
		name("_start"), []byte{0x00, 0x00},
	)
	code := concat([]byte{0x01}, body)

	return concat(header(),
		section(1, types),
		section(3, funcs),
		section(5, memory),
		section(7, exports),
		section(10, code),
	)
}

func header() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
}

// section encodes a section whose content is shorter than 128 bytes.
func section(id byte, content []byte) []byte {
	return concat([]byte{id, byte(len(content))}, content)
}

func name(s string) []byte {
	return concat([]byte{byte(len(s))}, []byte(s))
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
