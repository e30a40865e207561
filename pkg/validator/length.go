package validator

import (
	"unicode/utf8"

	"github.com/r9s-ai/reportingcloud/pkg/jsonutil"
)

// LengthRange accepts strings whose rune count is within [Min, Max].
type LengthRange struct {
	Min int
	Max int
}

func (c LengthRange) Check(v any) error {
	s, ok := jsonutil.String(v)
	if !ok {
		return violation(CodeInvalidType, v, "%s must be of type string", ValueToString(v))
	}
	n := utf8.RuneCountInString(s)
	if n < c.Min || n > c.Max {
		return violation(CodeInvalidLength, v, "length of %s (%d) must be in the range [%d..%d]", ValueToString(v), n, c.Min, c.Max)
	}
	return nil
}
