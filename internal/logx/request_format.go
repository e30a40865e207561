package logx

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
)

// DefaultRequestLogFormat is used when no format is configured.
const DefaultRequestLogFormat = "$time_local | $status | $latency | $method $path | request_id=$request_id bytes=$bytes"

type formatPart struct {
	literal string
	varName string
}

// RequestLogFormatter renders one line per dispatched request from a format
// string made of literals and $variables ("$$" is a literal dollar).
type RequestLogFormatter struct {
	parts []formatPart
}

var requestLogFormatPresets = map[string]string{
	"rc_default": DefaultRequestLogFormat,
	"rc_minimal": "$method $path $status $latency_ms",
	"rc_debug":   "debug upstream_response method=$method url=$url status=$status request_id=$request_id body=$body",
}

var allowedRequestLogVars = map[string]struct{}{
	"time_local": {},
	"status":     {},
	"latency":    {},
	"latency_ms": {},
	"method":     {},
	"path":       {},
	"url":        {},
	"request_id": {},
	"bytes":      {},
	"body":       {},
	"error":      {},
}

// ResolveRequestLogFormat returns format, the named preset, or the default.
func ResolveRequestLogFormat(format string, preset string) (string, error) {
	if strings.TrimSpace(format) != "" {
		if out, ok := requestLogFormatPresets[strings.ToLower(strings.TrimSpace(format))]; ok {
			return out, nil
		}
		return format, nil
	}
	p := strings.ToLower(strings.TrimSpace(preset))
	if p == "" {
		return DefaultRequestLogFormat, nil
	}
	out, ok := requestLogFormatPresets[p]
	if !ok {
		return "", fmt.Errorf("invalid request log format preset: %q", preset)
	}
	return out, nil
}

func CompileRequestLogFormat(format string) (*RequestLogFormatter, error) {
	s := strings.TrimSpace(format)
	if s == "" {
		return nil, nil
	}
	parts := make([]formatPart, 0, 8)
	var lit strings.Builder

	flushLiteral := func() {
		if lit.Len() == 0 {
			return
		}
		parts = append(parts, formatPart{literal: lit.String()})
		lit.Reset()
	}

	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '$' {
			lit.WriteByte(ch)
			continue
		}
		if i+1 < len(format) && format[i+1] == '$' {
			lit.WriteByte('$')
			i++
			continue
		}
		flushLiteral()
		j := i + 1
		for j < len(format) {
			r := rune(format[j])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			j++
		}
		if j == i+1 {
			return nil, fmt.Errorf("invalid request log format: missing variable name after '$' at pos %d", i)
		}
		name := format[i+1 : j]
		if _, ok := allowedRequestLogVars[name]; !ok {
			return nil, fmt.Errorf("invalid request log format: unknown variable $%s", name)
		}
		parts = append(parts, formatPart{varName: name})
		i = j - 1
	}
	flushLiteral()
	return &RequestLogFormatter{parts: parts}, nil
}

// RequestLogEntry carries the values a format may reference.
type RequestLogEntry struct {
	Time      time.Time
	Method    string
	Path      string
	URL       string
	Status    int
	Latency   time.Duration
	RequestID string
	Bytes     int
	Body      string
	Err       error
}

func (f *RequestLogFormatter) Format(e RequestLogEntry, color bool) string {
	if f == nil || len(f.parts) == 0 {
		return ""
	}
	vars := map[string]string{
		"time_local": e.Time.Format("2006/01/02 - 15:04:05"),
		"latency":    e.Latency.String(),
		"latency_ms": fmt.Sprintf("%d", e.Latency.Milliseconds()),
		"method":     strings.TrimSpace(e.Method),
		"path":       e.Path,
		"url":        e.URL,
		"request_id": e.RequestID,
		"bytes":      fmt.Sprintf("%d", e.Bytes),
		"body":       e.Body,
	}
	if e.Status > 0 {
		vars["status"] = ColorizeStatusWith(e.Status, color)
	}
	if e.Err != nil {
		vars["error"] = e.Err.Error()
	}

	var b strings.Builder
	for _, p := range f.parts {
		if p.literal != "" {
			b.WriteString(p.literal)
			continue
		}
		v := strings.TrimSpace(vars[p.varName])
		if v == "" {
			b.WriteByte('-')
			continue
		}
		b.WriteString(v)
	}
	return b.String()
}

func RequestLogAllowedVars() []string {
	keys := make([]string, 0, len(allowedRequestLogVars))
	for k := range allowedRequestLogVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
