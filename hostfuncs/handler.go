package hostfuncs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a package-level singleton; building a validator per call is expensive.
var validate = validator.New(validator.WithRequiredStructEnabled())

// HostFunc is the signature of a typed command.
// It accepts a context and a decoded request, and returns a value or an error.
// A returned error becomes a COMMAND_ERROR envelope carrying err.Error().
type HostFunc[Req any, Resp any] func(context.Context, Req) (Resp, error)

// ByteHandler is a function that accepts raw bytes (JSON) and returns raw bytes (JSON).
// This is the common interface every transport dispatches through.
// The error return is reserved for transport-level faults; command failures
// are reported as ErrorResponse JSON with a nil error.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// Command pairs a ByteHandler with zero values of its request and response
// types. The zero values are only used to reflect schemas.
type Command struct {
	Handler  ByteHandler
	Request  any
	Response any
}

// NewCommand wraps a typed HostFunc into a Command.
func NewCommand[Req any, Resp any](fn HostFunc[Req, Resp]) Command {
	var req Req
	var resp Resp
	return Command{
		Handler:  NewJSONHandler(fn),
		Request:  req,
		Response: resp,
	}
}

// NewJSONHandler wraps a typed HostFunc into a ByteHandler.
// It decodes the request, runs struct validation tags, calls fn and encodes
// the result. An empty payload decodes as "{}".
//
// Usage:
//
//	greet := hostfuncs.NewJSONHandler(func(ctx context.Context, req entities.GreetRequest) (string, error) {
//	    return greeting.Greet(req.Name), nil
//	})
//	resp, _ := greet(ctx, []byte(`{"name":"Ada"}`))
func NewJSONHandler[Req any, Resp any](fn HostFunc[Req, Resp]) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req Req
		if len(bytes.TrimSpace(payload)) > 0 {
			if err := json.Unmarshal(payload, &req); err != nil {
				return NewValidationError(fmt.Sprintf("failed to unmarshal request: %v", err)).ToJSON(), nil
			}
		}

		if err := validateRequest(req); err != nil {
			return NewValidationError(err.Error()).ToJSON(), nil
		}

		resp, err := fn(ctx, req)
		if err != nil {
			return NewCommandError(err).ToJSON(), nil
		}

		respBytes, err := json.Marshal(resp)
		if err != nil {
			return NewInternalError(fmt.Sprintf("failed to marshal response: %v", err)).ToJSON(), nil
		}

		return respBytes, nil
	}
}

// validateRequest runs go-playground validation on struct requests.
// Non-struct requests (strings, maps) carry no tags and pass through.
func validateRequest(req any) error {
	v := reflect.ValueOf(req)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("request validation failed: %w", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("request validation failed: %s", strings.Join(fields, "; "))
}
