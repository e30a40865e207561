package validator

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMergeSettings_Valid(t *testing.T) {
	settings := map[string]any{
		"author":                     "Text Control GmbH",
		"creation_date":              json.Number("1700000000"),
		"creator_application":        "ReportingCloud",
		"document_subject":           "Subject",
		"document_title":             "Title",
		"last_modification_date":     int64(1700000100),
		"remove_empty_blocks":        true,
		"remove_empty_fields":        true,
		"remove_empty_images":        false,
		"remove_trailing_whitespace": true,
		"user_password":              "secret",
		"culture":                    "en-US",
		"merge_html":                 false,
	}
	if err := MergeSettings.Check(settings); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestMergeSettings_UnknownKeysIgnored(t *testing.T) {
	if err := MergeSettings.Check(map[string]any{"future_option": 42}); err != nil {
		t.Fatalf("unknown key rejected: %v", err)
	}
}

func TestMergeSettings_FirstRecognizedKeyWins(t *testing.T) {
	// Both values are invalid; remove_empty_fields precedes author in the
	// recognized-key order no matter how the map iterates.
	settings := map[string]any{
		"author":              123,
		"remove_empty_fields": "yes",
	}
	for i := 0; i < 20; i++ {
		err := MergeSettings.Check(settings)
		if err == nil {
			t.Fatalf("expected failure")
		}
		if !strings.HasPrefix(err.Error(), "merge settings remove_empty_fields:") {
			t.Fatalf("err=%q", err.Error())
		}
	}
}

func TestMergeSettings_Types(t *testing.T) {
	cases := []struct {
		key  string
		v    any
		code string
	}{
		{key: "remove_empty_blocks", v: "true", code: CodeInvalidType},
		{key: "creation_date", v: -5, code: CodeInvalidTimestamp},
		{key: "last_modification_date", v: "2024-01-01", code: CodeInvalidTimestamp},
		{key: "document_title", v: 1, code: CodeInvalidType},
		{key: "culture", v: "xx-XX", code: CodeNotInSet},
		{key: "merge_html", v: 1, code: CodeInvalidType},
	}
	for _, tc := range cases {
		err := MergeSettings.Check(map[string]any{tc.key: tc.v})
		if got := codeOf(t, err); got != tc.code {
			t.Fatalf("%s=%#v code=%q want=%q", tc.key, tc.v, got, tc.code)
		}
	}
}

func TestMergeSettings_NotAnObject(t *testing.T) {
	if got := codeOf(t, MergeSettings.Check([]any{})); got != CodeInvalidStructure {
		t.Fatalf("code=%q", got)
	}
}

func TestMergeSettingsKeys_Order(t *testing.T) {
	keys := MergeSettingsKeys()
	if keys[0] != "remove_empty_blocks" || keys[len(keys)-1] != "merge_html" {
		t.Fatalf("keys=%v", keys)
	}
}
