package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestRuntimeError_Classification(t *testing.T) {
	err := fmt.Errorf("get template: %w", &RuntimeError{
		Method:     http.MethodGet,
		Path:       "/v1/templates/list",
		StatusCode: http.StatusInternalServerError,
		Message:    "boom",
	})
	if !errors.Is(err, ErrRuntime) {
		t.Fatalf("expected ErrRuntime")
	}
	if errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("runtime error must not match ErrInvalidArgument")
	}
	if got := StatusCode(err); got != http.StatusInternalServerError {
		t.Fatalf("status=%d", got)
	}
	if !strings.Contains(err.Error(), "status=500 message=boom") {
		t.Fatalf("err=%q", err.Error())
	}
}

func TestRuntimeError_TransportMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := &RuntimeError{Method: http.MethodDelete, Path: "/v1/templates/delete", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
	if got := err.Error(); got != "request DELETE /v1/templates/delete failed: connection refused" {
		t.Fatalf("err=%q", got)
	}
	if err.IsNotFound() {
		t.Fatalf("transport failure is not a 404")
	}
}

func TestRuntimeError_EmptyMessageFallsBackToStatusText(t *testing.T) {
	err := &RuntimeError{Method: http.MethodGet, Path: "/v1/fonts/list", StatusCode: http.StatusNotFound}
	if !err.IsNotFound() {
		t.Fatalf("expected not found")
	}
	if !strings.HasSuffix(err.Error(), "message=Not Found") {
		t.Fatalf("err=%q", err.Error())
	}
}

func TestInvalidArgumentError(t *testing.T) {
	cause := errors.New(`"abc" must be of type int`)
	err := &InvalidArgumentError{Kind: "Page", Err: cause}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
	if err.Error() != cause.Error() {
		t.Fatalf("err=%q", err.Error())
	}
}

func TestInvalidConfigurationError(t *testing.T) {
	err := &InvalidConfigurationError{Field: "base_uri", Reason: "must be an absolute URL"}
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration")
	}
	if got := err.Error(); got != "invalid configuration: base_uri must be an absolute URL" {
		t.Fatalf("err=%q", got)
	}
	if StatusCode(err) != 0 {
		t.Fatalf("configuration errors carry no status")
	}
}
