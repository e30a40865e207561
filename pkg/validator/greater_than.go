package validator

import "github.com/r9s-ai/reportingcloud/pkg/jsonutil"

// GreaterThan accepts integers above Min, or equal to Min when Inclusive.
// Non-integers fail with CodeInvalidType.
type GreaterThan struct {
	Min       int64
	Inclusive bool
}

func (c GreaterThan) Check(v any) error {
	n, ok := jsonutil.Int64(v)
	if !ok {
		return violation(CodeInvalidType, v, "%s must be of type int", ValueToString(v))
	}
	if c.Inclusive {
		if n < c.Min {
			return violation(CodeOutOfRange, v, "%s must be greater than or equal to %d", ValueToString(v), c.Min)
		}
		return nil
	}
	if n <= c.Min {
		return violation(CodeOutOfRange, v, "%s must be greater than %d", ValueToString(v), c.Min)
	}
	return nil
}

// Range accepts integers within [Min, Max].
type Range struct {
	Min int64
	Max int64
}

func (c Range) Check(v any) error {
	n, ok := jsonutil.Int64(v)
	if !ok {
		return violation(CodeInvalidType, v, "%s must be of type int", ValueToString(v))
	}
	if n < c.Min || n > c.Max {
		return violation(CodeOutOfRange, v, "%s must be in the range [%d..%d]", ValueToString(v), c.Min, c.Max)
	}
	return nil
}
