// Package validator holds the single-purpose constraints and the composite
// rules built from them that guard every ReportingCloud request argument.
//
// Constraints are stateless values. A Rule evaluates its constraints in order
// and stops at the first Violation.
package validator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Violation codes. Composite rules may rewrite the message but keep the code.
const (
	CodeInvalidType      = "invalid_type"
	CodeInvalidTimestamp = "invalid_timestamp"
	CodeInvalidLength    = "invalid_length"
	CodeOutOfRange       = "out_of_range"
	CodeNotInSet         = "not_in_set"
	CodeEmpty            = "empty"
	CodeInvalidExtension = "invalid_extension"
	CodePathTraversal    = "path_traversal"
	CodeFileNotReadable  = "file_not_readable"
	CodeInvalidStructure = "invalid_structure"
)

// Violation describes the first constraint a value failed.
type Violation struct {
	Code    string
	Value   any
	Message string
}

func (v *Violation) Error() string {
	if v == nil {
		return ""
	}
	return v.Message
}

func violation(code string, value any, format string, args ...any) *Violation {
	return &Violation{Code: code, Value: value, Message: fmt.Sprintf(format, args...)}
}

// Constraint validates a single primitive property of a value.
type Constraint interface {
	Check(v any) error
}

// ConstraintFunc adapts a function to Constraint.
type ConstraintFunc func(v any) error

func (f ConstraintFunc) Check(v any) error { return f(v) }

// Rule is an ordered list of constraints evaluated fail-fast.
type Rule []Constraint

func (r Rule) Check(v any) error {
	for _, c := range r {
		if err := c.Check(v); err != nil {
			return err
		}
	}
	return nil
}

// Describe keeps c's verdict and code but replaces the message produced on
// failure.
func Describe(c Constraint, message func(v any) string) Constraint {
	return ConstraintFunc(func(v any) error {
		err := c.Check(v)
		if err == nil {
			return nil
		}
		out := &Violation{Code: CodeInvalidStructure, Value: v, Message: message(v)}
		if vio, ok := err.(*Violation); ok {
			out.Code = vio.Code
		}
		return out
	})
}

// ValueToString renders v for violation messages: strings are double quoted,
// nil is "null", everything else uses its default format.
func ValueToString(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return `"` + t + `"`
	case json.Number:
		return t.String()
	case []string:
		return "[" + strings.Join(t, ", ") + "]"
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
