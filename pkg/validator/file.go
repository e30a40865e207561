package validator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/r9s-ai/reportingcloud/pkg/jsonutil"
)

// FileExtension accepts names whose extension (without the dot) is one of
// Allowed, compared case-insensitively.
type FileExtension struct {
	Allowed []string
}

func (c FileExtension) Check(v any) error {
	s, ok := jsonutil.String(v)
	if !ok {
		return violation(CodeInvalidType, v, "%s must be of type string", ValueToString(v))
	}
	ext := strings.TrimPrefix(filepath.Ext(s), ".")
	if ext != "" && (InArray{Haystack: c.Allowed}).contains(ext) {
		return nil
	}
	return violation(CodeInvalidExtension, v, "%s contains an unsupported file extension, allowed are %s", ValueToString(v), ValueToString(c.Allowed))
}

// NoPathTraversal rejects names containing a parent-directory reference or a
// path separator.
type NoPathTraversal struct{}

func (NoPathTraversal) Check(v any) error {
	s, ok := jsonutil.String(v)
	if !ok {
		return violation(CodeInvalidType, v, "%s must be of type string", ValueToString(v))
	}
	if strings.Contains(s, "..") || strings.ContainsAny(s, `/\`) {
		return violation(CodePathTraversal, v, "%s contains path information", ValueToString(v))
	}
	return nil
}

// FileReadable accepts paths naming an existing regular file.
type FileReadable struct{}

func (FileReadable) Check(v any) error {
	s, ok := jsonutil.String(v)
	if !ok {
		return violation(CodeInvalidType, v, "%s must be of type string", ValueToString(v))
	}
	info, err := os.Stat(s)
	if err != nil || !info.Mode().IsRegular() {
		return violation(CodeFileNotReadable, v, "%s is not a readable file", ValueToString(v))
	}
	return nil
}
