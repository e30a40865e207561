// Package apierr defines the failure kinds returned by the ReportingCloud client.
//
// Every error surfaced by the client is one of InvalidArgumentError,
// InvalidConfigurationError or RuntimeError. Callers classify them with
// errors.Is against the sentinel values or errors.As against the types.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrRuntime              = errors.New("runtime failure")
)

// InvalidArgumentError reports a caller-supplied value rejected before any
// request was dispatched.
type InvalidArgumentError struct {
	Kind string
	Err  error
}

func (e *InvalidArgumentError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *InvalidArgumentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// InvalidConfigurationError reports missing or malformed client configuration.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Field) == "" {
		return "invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// RuntimeError reports a transport failure or an unexpected response status.
// StatusCode is zero when no response was received.
type RuntimeError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("request %s %s failed: %v", e.Method, e.Path, e.Err)
		}
		return fmt.Sprintf("request %s %s failed", e.Method, e.Path)
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("request %s %s failed: status=%d message=%s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *RuntimeError) Is(target error) bool {
	return target == ErrRuntime
}

// IsNotFound reports whether the service answered 404.
func (e *RuntimeError) IsNotFound() bool {
	return e != nil && e.StatusCode == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by a RuntimeError in err's chain,
// or zero.
func StatusCode(err error) int {
	var rt *RuntimeError
	if errors.As(err, &rt) {
		return rt.StatusCode
	}
	return 0
}
