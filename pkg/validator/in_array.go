package validator

import (
	"strings"

	"github.com/r9s-ai/reportingcloud/pkg/jsonutil"
)

// InArray accepts strings equal to one member of Haystack. Comparison ignores
// case unless CaseSensitive is set.
type InArray struct {
	Haystack      []string
	CaseSensitive bool
}

func (c InArray) Check(v any) error {
	s, ok := jsonutil.String(v)
	if !ok {
		return violation(CodeInvalidType, v, "%s must be of type string", ValueToString(v))
	}
	if c.contains(s) {
		return nil
	}
	return violation(CodeNotInSet, v, "%s must be one of %s", ValueToString(v), ValueToString(c.Haystack))
}

func (c InArray) contains(s string) bool {
	for _, h := range c.Haystack {
		if c.CaseSensitive {
			if h == s {
				return true
			}
			continue
		}
		if strings.EqualFold(h, s) {
			return true
		}
	}
	return false
}
