package propertymap

import "time"

// MergeSettings are the document options sent with a merge request.
type MergeSettings struct {
	Author                   *string
	CreationDate             *time.Time
	CreatorApplication       *string
	Culture                  *string
	DocumentSubject          *string
	DocumentTitle            *string
	LastModificationDate     *time.Time
	MergeHTML                *bool
	RemoveEmptyBlocks        *bool
	RemoveEmptyFields        *bool
	RemoveEmptyImages        *bool
	RemoveTrailingWhitespace *bool
	UserPassword             *string
}

// AccountSettings describes the account quota.
type AccountSettings struct {
	SerialNumber      *string
	CreatedDocuments  *int64
	UploadedTemplates *int64
	MaxDocuments      *int64
	MaxTemplates      *int64
	ValidUntil        *time.Time
}

// TemplateInfo is one entry of the template storage listing.
type TemplateInfo struct {
	TemplateName *string
	Modified     *time.Time
	Size         *int64
}

// APIKey is an account API key.
type APIKey struct {
	Key    *string
	Active *bool
}

// Thumbnail is one rendered template page.
type Thumbnail struct {
	Page  *int64
	Image *[]byte
}

var MergeSettingsMap = New("merge_settings",
	String("Author", "author", func(s *MergeSettings) **string { return &s.Author }),
	EpochTime("CreationDate", "creation_date", func(s *MergeSettings) **time.Time { return &s.CreationDate }),
	String("CreatorApplication", "creator_application", func(s *MergeSettings) **string { return &s.CreatorApplication }),
	String("Culture", "culture", func(s *MergeSettings) **string { return &s.Culture }),
	String("DocumentSubject", "document_subject", func(s *MergeSettings) **string { return &s.DocumentSubject }),
	String("DocumentTitle", "document_title", func(s *MergeSettings) **string { return &s.DocumentTitle }),
	EpochTime("LastModificationDate", "last_modification_date", func(s *MergeSettings) **time.Time { return &s.LastModificationDate }),
	Bool("MergeHTML", "merge_html", func(s *MergeSettings) **bool { return &s.MergeHTML }),
	Bool("RemoveEmptyBlocks", "remove_empty_blocks", func(s *MergeSettings) **bool { return &s.RemoveEmptyBlocks }),
	Bool("RemoveEmptyFields", "remove_empty_fields", func(s *MergeSettings) **bool { return &s.RemoveEmptyFields }),
	Bool("RemoveEmptyImages", "remove_empty_images", func(s *MergeSettings) **bool { return &s.RemoveEmptyImages }),
	Bool("RemoveTrailingWhitespace", "remove_trailing_whitespace", func(s *MergeSettings) **bool { return &s.RemoveTrailingWhitespace }),
	String("UserPassword", "user_password", func(s *MergeSettings) **string { return &s.UserPassword }),
)

var AccountSettingsMap = New("account_settings",
	String("SerialNumber", "serial_number", func(s *AccountSettings) **string { return &s.SerialNumber }),
	Int("CreatedDocuments", "created_documents", func(s *AccountSettings) **int64 { return &s.CreatedDocuments }),
	Int("UploadedTemplates", "uploaded_templates", func(s *AccountSettings) **int64 { return &s.UploadedTemplates }),
	Int("MaxDocuments", "max_documents", func(s *AccountSettings) **int64 { return &s.MaxDocuments }),
	Int("MaxTemplates", "max_templates", func(s *AccountSettings) **int64 { return &s.MaxTemplates }),
	RFC3339Time("ValidUntil", "valid_until", func(s *AccountSettings) **time.Time { return &s.ValidUntil }),
)

var TemplateInfoMap = New("template_info",
	String("TemplateName", "template_name", func(s *TemplateInfo) **string { return &s.TemplateName }),
	RFC3339Time("Modified", "modified", func(s *TemplateInfo) **time.Time { return &s.Modified }),
	Int("Size", "size", func(s *TemplateInfo) **int64 { return &s.Size }),
)

var APIKeyMap = New("api_key",
	String("Key", "key", func(s *APIKey) **string { return &s.Key }),
	Bool("Active", "active", func(s *APIKey) **bool { return &s.Active }),
)

var ThumbnailMap = New("thumbnail",
	Int("Page", "page", func(s *Thumbnail) **int64 { return &s.Page }),
	Base64("Image", "image", func(s *Thumbnail) **[]byte { return &s.Image }),
)
