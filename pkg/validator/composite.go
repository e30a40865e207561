package validator

import "fmt"

// Format sets understood by the service.
var (
	TemplateFormats = []string{"DOC", "DOCX", "RTF", "TX"}
	DocumentFormats = []string{"DOC", "DOCX", "HTM", "HTML", "PDF", "RTF", "TX"}
	ReturnFormats   = []string{"DOC", "DOCX", "HTML", "PDF", "PDFA", "RTF", "TX", "TXT"}
	ImageFormats    = []string{"BMP", "GIF", "JPG", "PNG"}
)

const (
	APIKeyMinLength = 20
	APIKeyMaxLength = 45
	ZoomFactorMin   = 1
	ZoomFactorMax   = 400
)

var (
	APIKey = Rule{
		TypeString{},
		Describe(LengthRange{Min: APIKeyMinLength, Max: APIKeyMaxLength}, func(v any) string {
			return fmt.Sprintf("length of API key (%s) must be in the range [%d..%d]", ValueToString(v), APIKeyMinLength, APIKeyMaxLength)
		}),
	}

	TemplateName = Rule{
		TypeString{},
		NotEmpty{},
		NoPathTraversal{},
		FileExtension{Allowed: TemplateFormats},
	}

	TemplateFilename = Rule{
		TypeString{},
		NotEmpty{},
		FileExtension{Allowed: TemplateFormats},
		FileReadable{},
	}

	DocumentFilename = Rule{
		TypeString{},
		NotEmpty{},
		FileExtension{Allowed: DocumentFormats},
		FileReadable{},
	}

	DocumentExtension = Rule{
		TypeString{},
		NotEmpty{},
		NoPathTraversal{},
		FileExtension{Allowed: DocumentFormats},
	}

	ReturnFormat = Rule{InArray{Haystack: ReturnFormats}}

	// Page reports a wrong type before an out-of-range number.
	Page = Rule{
		Describe(TypeInteger{}, func(v any) string {
			return fmt.Sprintf("%s must be an integer", ValueToString(v))
		}),
		Describe(GreaterThan{Min: 1, Inclusive: true}, func(v any) string {
			return fmt.Sprintf("%s contains an invalid page number", ValueToString(v))
		}),
	}

	ZoomFactor = Rule{
		Describe(TypeInteger{}, func(v any) string {
			return fmt.Sprintf("%s must be an integer", ValueToString(v))
		}),
		Describe(Range{Min: ZoomFactorMin, Max: ZoomFactorMax}, func(v any) string {
			return fmt.Sprintf("%s contains an invalid zoom factor, allowed is [%d..%d]", ValueToString(v), ZoomFactorMin, ZoomFactorMax)
		}),
	}

	ImageFormat = Rule{InArray{Haystack: ImageFormats}}

	CultureName = Rule{TypeString{}, Culture{}}

	MergeSettings = Rule{MergeSettingsRule{}}

	MergeData = Rule{ConstraintFunc(checkMergeData)}

	FindAndReplaceData = Rule{ConstraintFunc(checkFindAndReplaceData)}

	Boolean = Rule{TypeBoolean{}}

	Timestamp = Rule{TypeTimestamp{}}
)

// checkMergeData accepts a non-empty list of JSON objects.
func checkMergeData(v any) error {
	var records []any
	switch t := v.(type) {
	case []map[string]any:
		for _, r := range t {
			records = append(records, r)
		}
	case []any:
		records = t
	default:
		return violation(CodeInvalidStructure, v, "merge data must be a list of records, got %T", v)
	}
	if len(records) == 0 {
		return violation(CodeEmpty, v, "merge data must contain at least one record")
	}
	for i, r := range records {
		if _, ok := r.(map[string]any); !ok {
			return violation(CodeInvalidStructure, v, "merge data record %d must be an object, got %T", i, r)
		}
	}
	return nil
}

// checkFindAndReplaceData accepts a non-empty list of [find, replace] string
// pairs with a non-empty find term.
func checkFindAndReplaceData(v any) error {
	var pairs [][]any
	switch t := v.(type) {
	case [][2]string:
		for _, p := range t {
			pairs = append(pairs, []any{p[0], p[1]})
		}
	case [][]string:
		for _, p := range t {
			row := make([]any, len(p))
			for i := range p {
				row[i] = p[i]
			}
			pairs = append(pairs, row)
		}
	case []any:
		for i, p := range t {
			row, ok := p.([]any)
			if !ok {
				return violation(CodeInvalidStructure, v, "find and replace entry %d must be a [find, replace] pair, got %T", i, p)
			}
			pairs = append(pairs, row)
		}
	default:
		return violation(CodeInvalidStructure, v, "find and replace data must be a list of pairs, got %T", v)
	}
	if len(pairs) == 0 {
		return violation(CodeEmpty, v, "find and replace data must contain at least one pair")
	}
	for i, p := range pairs {
		if len(p) != 2 {
			return violation(CodeInvalidStructure, v, "find and replace entry %d must have exactly 2 elements, got %d", i, len(p))
		}
		find, ok1 := p[0].(string)
		_, ok2 := p[1].(string)
		if !ok1 || !ok2 {
			return violation(CodeInvalidType, v, "find and replace entry %d must contain strings", i)
		}
		if find == "" {
			return violation(CodeEmpty, v, "find and replace entry %d has an empty search term", i)
		}
	}
	return nil
}
