// Package assert maps a symbolic argument kind to its composite validator and
// turns violations into *apierr.InvalidArgumentError.
package assert

import (
	"fmt"

	"github.com/r9s-ai/reportingcloud/pkg/apierr"
	"github.com/r9s-ai/reportingcloud/pkg/validator"
)

// Kind names a registered composite validator.
type Kind int

const (
	APIKey Kind = iota
	TemplateName
	TemplateFilename
	DocumentFilename
	DocumentExtension
	ReturnFormat
	Page
	ZoomFactor
	ImageFormat
	Culture
	MergeSettings
	MergeData
	FindAndReplaceData
	Boolean
	Timestamp

	kindCount
)

var kindNames = [kindCount]string{
	APIKey:             "APIKey",
	TemplateName:       "TemplateName",
	TemplateFilename:   "TemplateFilename",
	DocumentFilename:   "DocumentFilename",
	DocumentExtension:  "DocumentExtension",
	ReturnFormat:       "ReturnFormat",
	Page:               "Page",
	ZoomFactor:         "ZoomFactor",
	ImageFormat:        "ImageFormat",
	Culture:            "Culture",
	MergeSettings:      "MergeSettings",
	MergeData:          "MergeData",
	FindAndReplaceData: "FindAndReplaceData",
	Boolean:            "Boolean",
	Timestamp:          "Timestamp",
}

var registry = [...]validator.Rule{
	APIKey:             validator.APIKey,
	TemplateName:       validator.TemplateName,
	TemplateFilename:   validator.TemplateFilename,
	DocumentFilename:   validator.DocumentFilename,
	DocumentExtension:  validator.DocumentExtension,
	ReturnFormat:       validator.ReturnFormat,
	Page:               validator.Page,
	ZoomFactor:         validator.ZoomFactor,
	ImageFormat:        validator.ImageFormat,
	Culture:            validator.CultureName,
	MergeSettings:      validator.MergeSettings,
	MergeData:          validator.MergeData,
	FindAndReplaceData: validator.FindAndReplaceData,
	Boolean:            validator.Boolean,
	Timestamp:          validator.Timestamp,
}

// Fails to compile when a Kind is added without a registry entry.
var _ = [1]int{}[len(registry)-int(kindCount)]

func init() {
	for k, r := range registry {
		if len(r) == 0 {
			panic(fmt.Sprintf("assert: kind %s has an empty rule", Kind(k)))
		}
	}
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// That validates value against the composite registered for kind.
// An unknown kind is a programming error and panics.
func That(kind Kind, value any) error {
	if kind < 0 || kind >= kindCount {
		panic(fmt.Sprintf("assert: unregistered validator kind %s", kind))
	}
	if err := registry[kind].Check(value); err != nil {
		return &apierr.InvalidArgumentError{Kind: kind.String(), Err: err}
	}
	return nil
}

// Check is a deferred assertion, evaluated by All.
type Check struct {
	Kind  Kind
	Value any
}

// Arg builds a Check.
func Arg(kind Kind, value any) Check {
	return Check{Kind: kind, Value: value}
}

// All runs checks in order and returns the first failure.
func All(checks ...Check) error {
	for _, c := range checks {
		if err := That(c.Kind, c.Value); err != nil {
			return err
		}
	}
	return nil
}
