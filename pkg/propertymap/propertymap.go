// Package propertymap translates between typed option structs and the flat,
// snake_case keyed maps the ReportingCloud service sends and receives.
//
// A Map declares a closed set of fields. ToWire drops anything not declared;
// FromWire ignores undeclared keys and leaves absent fields nil.
package propertymap

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/r9s-ai/reportingcloud/pkg/jsonutil"
)

// Field maps one internal struct field to one wire key.
type Field[T any] struct {
	Internal string
	Wire     string

	get func(*T) (any, bool)
	set func(*T, any) error
}

// Map is an ordered, bijective list of fields for T.
type Map[T any] struct {
	name   string
	fields []Field[T]
}

// New builds a Map. Duplicate internal or wire names panic.
func New[T any](name string, fields ...Field[T]) *Map[T] {
	internal := make(map[string]struct{}, len(fields))
	wire := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := internal[f.Internal]; dup {
			panic(fmt.Sprintf("propertymap %s: duplicate internal name %q", name, f.Internal))
		}
		if _, dup := wire[f.Wire]; dup {
			panic(fmt.Sprintf("propertymap %s: duplicate wire name %q", name, f.Wire))
		}
		internal[f.Internal] = struct{}{}
		wire[f.Wire] = struct{}{}
	}
	return &Map[T]{name: name, fields: fields}
}

func (m *Map[T]) Name() string { return m.name }

// WireKeys returns the declared wire keys in declaration order.
func (m *Map[T]) WireKeys() []string {
	out := make([]string, len(m.fields))
	for i, f := range m.fields {
		out[i] = f.Wire
	}
	return out
}

// WireName returns the wire key declared for an internal field name.
func (m *Map[T]) WireName(internal string) (string, bool) {
	for _, f := range m.fields {
		if f.Internal == internal {
			return f.Wire, true
		}
	}
	return "", false
}

// ToWire encodes the set fields of v.
func (m *Map[T]) ToWire(v T) map[string]any {
	out := make(map[string]any, len(m.fields))
	for _, f := range m.fields {
		if w, ok := f.get(&v); ok {
			out[f.Wire] = w
		}
	}
	return out
}

// FromWire decodes the declared keys present in w. JSON null counts as absent.
func (m *Map[T]) FromWire(w map[string]any) (T, error) {
	var out T
	for _, f := range m.fields {
		raw, ok := w[f.Wire]
		if !ok || raw == nil {
			continue
		}
		if err := f.set(&out, raw); err != nil {
			return out, fmt.Errorf("%s.%s: %w", m.name, f.Wire, err)
		}
	}
	return out, nil
}

// FromWireList decodes a JSON array of objects.
func (m *Map[T]) FromWireList(items []any) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected object, got %T", m.name, i, it)
		}
		v, err := m.FromWire(obj)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", m.name, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Ptr returns a pointer to v, for filling optional fields.
func Ptr[V any](v V) *V { return &v }

func scalar[T, V any](internal, wire string, field func(*T) **V, enc func(V) any, dec func(any) (V, error)) Field[T] {
	return Field[T]{
		Internal: internal,
		Wire:     wire,
		get: func(t *T) (any, bool) {
			p := *field(t)
			if p == nil {
				return nil, false
			}
			return enc(*p), true
		},
		set: func(t *T, raw any) error {
			v, err := dec(raw)
			if err != nil {
				return err
			}
			*field(t) = &v
			return nil
		},
	}
}

func typeError(want string, raw any) error {
	return fmt.Errorf("expected %s, got %T", want, raw)
}

func identity[V any](v V) any { return v }

// String maps a *string field.
func String[T any](internal, wire string, field func(*T) **string) Field[T] {
	return scalar(internal, wire, field, identity[string], func(raw any) (string, error) {
		s, ok := jsonutil.String(raw)
		if !ok {
			return "", typeError("string", raw)
		}
		return s, nil
	})
}

// Bool maps a *bool field.
func Bool[T any](internal, wire string, field func(*T) **bool) Field[T] {
	return scalar(internal, wire, field, identity[bool], func(raw any) (bool, error) {
		b, ok := jsonutil.Bool(raw)
		if !ok {
			return false, typeError("bool", raw)
		}
		return b, nil
	})
}

// Int maps a *int64 field to a JSON integer.
func Int[T any](internal, wire string, field func(*T) **int64) Field[T] {
	return scalar(internal, wire, field, identity[int64], func(raw any) (int64, error) {
		n, ok := jsonutil.Int64(raw)
		if !ok {
			return 0, typeError("integer", raw)
		}
		return n, nil
	})
}

// EpochTime maps a *time.Time field to integer Unix seconds.
func EpochTime[T any](internal, wire string, field func(*T) **time.Time) Field[T] {
	enc := func(t time.Time) any { return t.Unix() }
	return scalar(internal, wire, field, enc, func(raw any) (time.Time, error) {
		n, ok := jsonutil.Int64(raw)
		if !ok || n < 0 {
			return time.Time{}, typeError("unix timestamp", raw)
		}
		return time.Unix(n, 0).UTC(), nil
	})
}

// RFC3339Time maps a *time.Time field to an RFC 3339 string.
func RFC3339Time[T any](internal, wire string, field func(*T) **time.Time) Field[T] {
	enc := func(t time.Time) any { return t.UTC().Format(time.RFC3339) }
	return scalar(internal, wire, field, enc, func(raw any) (time.Time, error) {
		s, ok := jsonutil.String(raw)
		if !ok {
			return time.Time{}, typeError("RFC 3339 string", raw)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
		return t.UTC(), nil
	})
}

// Base64 maps a *[]byte field to a standard base64 string.
func Base64[T any](internal, wire string, field func(*T) **[]byte) Field[T] {
	enc := func(b []byte) any { return base64.StdEncoding.EncodeToString(b) }
	return scalar(internal, wire, field, enc, func(raw any) ([]byte, error) {
		s, ok := jsonutil.String(raw)
		if !ok {
			return nil, typeError("base64 string", raw)
		}
		return base64.StdEncoding.DecodeString(s)
	})
}
