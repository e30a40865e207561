package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DecodeObject parses a JSON object, keeping numbers as json.Number so integer
// fields are not widened to float64.
func DecodeObject(b []byte, what string) (map[string]any, error) {
	var out map[string]any
	if err := decode(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	if out == nil {
		return nil, fmt.Errorf("decode %s: not a JSON object", what)
	}
	return out, nil
}

// DecodeArray parses a JSON array with the same number handling as DecodeObject.
func DecodeArray(b []byte, what string) ([]any, error) {
	var out []any
	if err := decode(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	if out == nil {
		return nil, fmt.Errorf("decode %s: not a JSON array", what)
	}
	return out, nil
}

func decode(b []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON value")
	}
	return nil
}

// Int64 reports v as an int64 when it is an integer: any Go integer kind, or a
// json.Number without fraction or exponent. Strings and floats are rejected.
func Int64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return uintToInt64(uint64(t))
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return uintToInt64(t)
	case json.Number:
		if strings.ContainsAny(t.String(), ".eE") {
			return 0, false
		}
		i, err := strconv.ParseInt(t.String(), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func uintToInt64(u uint64) (int64, bool) {
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

// String returns v when it is a string.
func String(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// Bool returns v when it is a bool.
func Bool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// GetStringByPath reads a string from a restricted JSONPath subset.
// Supported syntax: $.a.b, $.items[0].x, $.items[*].x (first non-empty match).
func GetStringByPath(root map[string]any, path string) string {
	p := strings.TrimSpace(path)
	if p == "" || !strings.HasPrefix(p, "$.") {
		return ""
	}
	parts := strings.Split(strings.TrimPrefix(p, "$."), ".")
	return getStringByParts(root, parts)
}

func getStringByParts(cur any, parts []string) string {
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return ""
		}
		name, idx, hasIdx, isStar := splitIndex(part)
		if name != "" {
			m, ok := cur.(map[string]any)
			if !ok {
				return ""
			}
			if cur, ok = m[name]; !ok {
				return ""
			}
		}
		if !hasIdx {
			continue
		}
		arr, ok := cur.([]any)
		if !ok {
			return ""
		}
		if isStar {
			for _, item := range arr {
				if v := getStringByParts(item, parts[i+1:]); strings.TrimSpace(v) != "" {
					return v
				}
			}
			return ""
		}
		if idx < 0 || idx >= len(arr) {
			return ""
		}
		cur = arr[idx]
	}
	v, _ := cur.(string)
	return v
}

func splitIndex(s string) (name string, idx int, hasIdx bool, isStar bool) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		return s, 0, false, false
	}
	end := strings.IndexByte(s, ']')
	if end < open {
		return s, 0, false, false
	}
	name = s[:open]
	inner := strings.TrimSpace(s[open+1 : end])
	if inner == "*" {
		return name, 0, true, true
	}
	n, err := strconv.Atoi(inner)
	if err != nil {
		return name, 0, false, false
	}
	return name, n, true, false
}
