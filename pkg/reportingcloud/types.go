package reportingcloud

import "github.com/r9s-ai/reportingcloud/pkg/propertymap"

type (
	MergeSettings   = propertymap.MergeSettings
	AccountSettings = propertymap.AccountSettings
	TemplateInfo    = propertymap.TemplateInfo
	APIKey          = propertymap.APIKey
	Thumbnail       = propertymap.Thumbnail
)

// MergeRequest describes a merge. Exactly one of TemplateName (a stored
// template) or TemplateFilename (a local file sent inline) must be set.
type MergeRequest struct {
	MergeData        []map[string]any
	ReturnFormat     string
	TemplateName     string
	TemplateFilename string
	Append           bool
	Settings         *MergeSettings
}

// FindAndReplaceRequest describes a find-and-replace run over a template.
type FindAndReplaceRequest struct {
	FindAndReplaceData [][2]string
	ReturnFormat       string
	TemplateName       string
	TemplateFilename   string
	Settings           *MergeSettings
}
