package validator

import "fmt"

type settingRule struct {
	key        string
	constraint Constraint
}

// Recognized merge-settings keys in validation order.
var mergeSettingsRules = []settingRule{
	{"remove_empty_blocks", TypeBoolean{}},
	{"remove_empty_fields", TypeBoolean{}},
	{"remove_empty_images", TypeBoolean{}},
	{"remove_trailing_whitespace", TypeBoolean{}},
	{"creation_date", TypeTimestamp{}},
	{"last_modification_date", TypeTimestamp{}},
	{"author", TypeString{}},
	{"creator_application", TypeString{}},
	{"document_subject", TypeString{}},
	{"document_title", TypeString{}},
	{"user_password", TypeString{}},
	{"culture", Culture{}},
	{"merge_html", TypeBoolean{}},
}

// MergeSettingsKeys lists the wire keys checked by MergeSettingsRule.
func MergeSettingsKeys() []string {
	out := make([]string, 0, len(mergeSettingsRules))
	for _, r := range mergeSettingsRules {
		out = append(out, r.key)
	}
	return out
}

// MergeSettingsRule validates a wire-shaped merge settings object. Keys are
// checked in a fixed order regardless of map iteration; unknown keys pass.
type MergeSettingsRule struct{}

func (MergeSettingsRule) Check(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return violation(CodeInvalidStructure, v, "merge settings must be an object, got %T", v)
	}
	for _, r := range mergeSettingsRules {
		val, present := m[r.key]
		if !present {
			continue
		}
		if err := r.constraint.Check(val); err != nil {
			vio, ok := err.(*Violation)
			if !ok {
				return fmt.Errorf("merge settings %s: %w", r.key, err)
			}
			return &Violation{
				Code:    vio.Code,
				Value:   val,
				Message: fmt.Sprintf("merge settings %s: %s", r.key, vio.Message),
			}
		}
	}
	return nil
}
