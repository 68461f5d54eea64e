//go:build wasip1

package guest

import (
	"fmt"
	"log/slog"
)

// Call invokes a host command, marshalling req (nil means {}) and decoding the
// JSON result into out. Failure envelopes are returned as *Error.
func Call(command string, req, out any) error {
	payload, err := encodeRequest(command, req)
	if err != nil {
		return err
	}

	packed := PtrFromBytes(payload)
	defer DeallocatePacked(packed)

	result, ok := invoke(command, packed)
	if !ok {
		return fmt.Errorf("%s: command not imported by this guest", command)
	}
	defer DeallocatePacked(result)

	return decodeResponse(command, BytesFromPtr(result), out)
}

// NewHandler returns a handler forwarding records to the host.
func NewHandler(level slog.Leveler) *Handler {
	return newHandler(level, func(data []byte) {
		packed := PtrFromBytes(data)
		hostLogMessage(packed)
		DeallocatePacked(packed)
	})
}
