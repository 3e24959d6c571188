package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies a ProtocolError.
type ErrorKind string

const (
	// NoToolCalled means the response carried no tool invocation.
	NoToolCalled ErrorKind = "no_tool_called"
	// UnknownTool means the model named a tool that was never registered.
	UnknownTool ErrorKind = "unknown_tool"
	// InvalidArguments means the arguments failed to decode or did not
	// match the tool's input schema.
	InvalidArguments ErrorKind = "invalid_arguments"
	// MalformedResponse means a 2xx response body could not be parsed.
	MalformedResponse ErrorKind = "malformed_response"
)

// ProtocolError is returned when the vendor answered but the answer cannot
// be turned into exactly one valid tool call.
type ProtocolError struct {
	Vendor Vendor
	Kind   ErrorKind
	Tool   string
	Err    error
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Vendor, e.Kind)
	if e.Tool != "" {
		msg += fmt.Sprintf(" (tool %q)", e.Tool)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// TransportError covers network failures, timeouts and non-2xx statuses.
// StatusCode is zero when no response was received.
type TransportError struct {
	Vendor     Vendor
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: http %d: %v", e.Vendor, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: transport: %v", e.Vendor, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Kind returns a short label for err suitable for metrics, or "" when err
// is not a dispatcher error.
func Kind(err error) string {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return string(pe.Kind)
	}
	var te *TransportError
	if errors.As(err, &te) {
		return "transport"
	}
	return ""
}

// sdkFailure classifies an SDK error that is not an API error. A 2xx
// response the SDK could not decode is malformed; anything else, including
// a body read cut short by a timeout, is a transport failure.
func sdkFailure(vendor Vendor, res *http.Response, err error) error {
	var netErr net.Error
	interrupted := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.As(err, &netErr)
	if res != nil && res.StatusCode >= 200 && res.StatusCode < 300 && !interrupted {
		return &ProtocolError{Vendor: vendor, Kind: MalformedResponse, Err: err}
	}
	status := 0
	if res != nil {
		status = res.StatusCode
	}
	return &TransportError{Vendor: vendor, StatusCode: status, Err: err}
}
