package logx

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCompileRequestLogFormat(t *testing.T) {
	t.Run("empty returns nil", func(t *testing.T) {
		f, err := CompileRequestLogFormat("   ")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if f != nil {
			t.Fatalf("expected nil formatter")
		}
		if got := f.Format(RequestLogEntry{}, false); got != "" {
			t.Fatalf("nil formatter rendered %q", got)
		}
	})

	t.Run("unknown variable fails", func(t *testing.T) {
		if _, err := CompileRequestLogFormat("$unknown"); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("bare dollar fails", func(t *testing.T) {
		if _, err := CompileRequestLogFormat("cost $ 5"); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("render with missing var uses dash", func(t *testing.T) {
		f, err := CompileRequestLogFormat("$method $path $request_id")
		if err != nil {
			t.Fatalf("compile: %v", err)
		}
		out := f.Format(RequestLogEntry{Method: "GET", Path: "/v1/templates/list", Status: 200}, false)
		if out != "GET /v1/templates/list -" {
			t.Fatalf("unexpected out: %q", out)
		}
	})

	t.Run("dollar escape", func(t *testing.T) {
		f, err := CompileRequestLogFormat("$$ $status")
		if err != nil {
			t.Fatalf("compile: %v", err)
		}
		out := f.Format(RequestLogEntry{Status: 204}, false)
		if out != "$ 204" {
			t.Fatalf("unexpected out: %q", out)
		}
	})

	t.Run("transport error", func(t *testing.T) {
		f, err := CompileRequestLogFormat("$status $latency_ms $error")
		if err != nil {
			t.Fatalf("compile: %v", err)
		}
		out := f.Format(RequestLogEntry{Latency: 1500 * time.Millisecond, Err: errors.New("dial tcp: refused")}, false)
		if out != "- 1500 dial tcp: refused" {
			t.Fatalf("unexpected out: %q", out)
		}
	})
}

func TestResolveRequestLogFormat(t *testing.T) {
	got, err := ResolveRequestLogFormat("", "")
	if err != nil || got != DefaultRequestLogFormat {
		t.Fatalf("got=%q err=%v", got, err)
	}
	got, err = ResolveRequestLogFormat("rc_minimal", "")
	if err != nil || !strings.HasPrefix(got, "$method") {
		t.Fatalf("got=%q err=%v", got, err)
	}
	if _, err := ResolveRequestLogFormat("", "nope"); err == nil {
		t.Fatalf("expected preset error")
	}
	for name, format := range requestLogFormatPresets {
		if _, err := CompileRequestLogFormat(format); err != nil {
			t.Fatalf("preset %s does not compile: %v", name, err)
		}
	}
}

func TestColorizeStatusWith(t *testing.T) {
	if got := ColorizeStatusWith(404, false); got != "404" {
		t.Fatalf("got=%q", got)
	}
	if got := ColorizeStatusWith(500, true); !strings.Contains(got, colorRed) || !strings.Contains(got, "500") {
		t.Fatalf("got=%q", got)
	}
	if IsTerminal(&bytes.Buffer{}) {
		t.Fatalf("buffer is not a terminal")
	}
}

func TestRequestLogAllowedVars_Sorted(t *testing.T) {
	vars := RequestLogAllowedVars()
	for i := 1; i < len(vars); i++ {
		if vars[i-1] > vars[i] {
			t.Fatalf("not sorted: %v", vars)
		}
	}
}
