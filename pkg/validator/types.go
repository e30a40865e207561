package validator

import (
	"strings"

	"github.com/r9s-ai/reportingcloud/pkg/jsonutil"
)

// TypeInteger accepts Go integer kinds and integral json.Number values only.
type TypeInteger struct{}

func (TypeInteger) Check(v any) error {
	if _, ok := jsonutil.Int64(v); !ok {
		return violation(CodeInvalidType, v, "%s must be of type int", ValueToString(v))
	}
	return nil
}

// TypeBoolean accepts bool values only.
type TypeBoolean struct{}

func (TypeBoolean) Check(v any) error {
	if _, ok := jsonutil.Bool(v); !ok {
		return violation(CodeInvalidType, v, "%s must be of type bool", ValueToString(v))
	}
	return nil
}

// TypeString accepts string values only.
type TypeString struct{}

func (TypeString) Check(v any) error {
	if _, ok := jsonutil.String(v); !ok {
		return violation(CodeInvalidType, v, "%s must be of type string", ValueToString(v))
	}
	return nil
}

// TypeTimestamp accepts integers that are a non-negative count of Unix seconds.
type TypeTimestamp struct{}

func (TypeTimestamp) Check(v any) error {
	n, ok := jsonutil.Int64(v)
	if !ok || n < 0 {
		return violation(CodeInvalidTimestamp, v, "%s must be a valid Unix timestamp", ValueToString(v))
	}
	return nil
}

// NotEmpty rejects strings that are empty after trimming whitespace.
type NotEmpty struct{}

func (NotEmpty) Check(v any) error {
	s, ok := jsonutil.String(v)
	if !ok {
		return violation(CodeInvalidType, v, "%s must be of type string", ValueToString(v))
	}
	if strings.TrimSpace(s) == "" {
		return violation(CodeEmpty, v, "%s must not be empty", ValueToString(v))
	}
	return nil
}
