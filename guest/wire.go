package guest

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wheelkit/wheelhost/hostfuncs"
)

// ErrUnsupported is returned by Call outside a wasip1 build.
var ErrUnsupported = errors.New("guest: host commands are only available in wasip1 builds")

// Error is a failure envelope returned by the host.
type Error struct {
	Command string
	Kind    string
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Command, e.Kind, e.Message)
}

// PackPtrLen packs a pointer and length into a single uint64.
// Pointer is stored in the high 32 bits, length in the low 32 bits.
func PackPtrLen(ptr, length uint32) uint64 {
	if ptr == 0 && length > 0 {
		panic(fmt.Sprintf("guest: invalid pack - null pointer with non-zero length (%d)", length))
	}
	return (uint64(ptr) << 32) | uint64(length)
}

// UnpackPtrLen unpacks a uint64 into its pointer and length.
func UnpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32)
	length = uint32(packed)
	if ptr == 0 && length > 0 {
		panic(fmt.Sprintf("guest: invalid unpack - null pointer with non-zero length (%d)", length))
	}
	return ptr, length
}

// encodeRequest marshals req, treating nil as an empty object.
func encodeRequest(command string, req any) ([]byte, error) {
	if req == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", command, err)
	}
	return data, nil
}

// decodeResponse turns a host response into either out or an *Error.
func decodeResponse(command string, resp []byte, out any) error {
	if len(resp) == 0 {
		return fmt.Errorf("%s: empty response from host", command)
	}
	if e, ok := hostfuncs.ParseErrorResponse(resp); ok {
		return &Error{Command: command, Kind: e.Error, Message: e.Message, Code: e.Code}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", command, err)
	}
	return nil
}
