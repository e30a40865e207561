package propertymap

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMergeSettings_RoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	in := MergeSettings{
		Author:                   Ptr("James Henry Trotter"),
		CreationDate:             &created,
		CreatorApplication:       Ptr("The Giant Peach"),
		Culture:                  Ptr("en-GB"),
		DocumentSubject:          Ptr("The Old Green Grasshopper"),
		DocumentTitle:            Ptr("James and the Giant Peach"),
		LastModificationDate:     Ptr(created.Add(time.Hour)),
		MergeHTML:                Ptr(false),
		RemoveEmptyBlocks:        Ptr(true),
		RemoveEmptyFields:        Ptr(true),
		RemoveEmptyImages:        Ptr(true),
		RemoveTrailingWhitespace: Ptr(true),
		UserPassword:             Ptr("1"),
	}
	wire := MergeSettingsMap.ToWire(in)
	if got := wire["creation_date"]; got != created.Unix() {
		t.Fatalf("creation_date=%#v", got)
	}
	if got := wire["remove_empty_blocks"]; got != true {
		t.Fatalf("remove_empty_blocks=%#v", got)
	}
	out, err := MergeSettingsMap.FromWire(wire)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestToWire_OmitsUnsetFields(t *testing.T) {
	wire := MergeSettingsMap.ToWire(MergeSettings{Author: Ptr("a")})
	if diff := cmp.Diff(map[string]any{"author": "a"}, wire); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestFromWire_DropsUndeclaredAndKeepsAbsentNil(t *testing.T) {
	var wire map[string]any
	if err := json.Unmarshal([]byte(`{"key":"abc","extra":1,"active":null}`), &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, err := APIKeyMap.FromWire(wire)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if diff := cmp.Diff(APIKey{Key: Ptr("abc")}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestAccountSettings_FromWire(t *testing.T) {
	body := `{"serial_number":"TRIAL","created_documents":12,"uploaded_templates":3,` +
		`"max_documents":1000,"max_templates":100,"valid_until":"2030-01-02T03:04:05Z"}`
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var wire map[string]any
	if err := dec.Decode(&wire); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := AccountSettingsMap.FromWire(wire)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	want := AccountSettings{
		SerialNumber:      Ptr("TRIAL"),
		CreatedDocuments:  Ptr[int64](12),
		UploadedTemplates: Ptr[int64](3),
		MaxDocuments:      Ptr[int64](1000),
		MaxTemplates:      Ptr[int64](100),
		ValidUntil:        Ptr(time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestFromWire_TypeMismatch(t *testing.T) {
	_, err := TemplateInfoMap.FromWire(map[string]any{"size": "12"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "template_info.size: expected integer, got string"; err.Error() != want {
		t.Fatalf("err=%q want=%q", err.Error(), want)
	}
	if _, err := MergeSettingsMap.FromWire(map[string]any{"creation_date": -1}); err == nil {
		t.Fatalf("negative timestamp must fail")
	}
}

func TestFromWireList(t *testing.T) {
	items := []any{
		map[string]any{"template_name": "a.tx", "size": json.Number("10")},
		map[string]any{"template_name": "b.docx"},
	}
	got, err := TemplateInfoMap.FromWireList(items)
	if err != nil {
		t.Fatalf("FromWireList: %v", err)
	}
	want := []TemplateInfo{
		{TemplateName: Ptr("a.tx"), Size: Ptr[int64](10)},
		{TemplateName: Ptr("b.docx")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if _, err := TemplateInfoMap.FromWireList([]any{"x"}); err == nil {
		t.Fatalf("expected error for non-object item")
	}
}

func TestThumbnail_Base64(t *testing.T) {
	in := Thumbnail{Page: Ptr[int64](2), Image: Ptr([]byte{0x89, 'P', 'N', 'G'})}
	wire := ThumbnailMap.ToWire(in)
	if wire["image"] != "iVBORw==" {
		t.Fatalf("image=%#v", wire["image"])
	}
	out, err := ThumbnailMap.FromWire(wire)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestNew_PanicsOnDuplicateNames(t *testing.T) {
	mustPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s: expected panic", name)
			}
		}()
		fn()
	}
	mustPanic("internal", func() {
		New("dup",
			String("Key", "key", func(s *APIKey) **string { return &s.Key }),
			String("Key", "other", func(s *APIKey) **string { return &s.Key }),
		)
	})
	mustPanic("wire", func() {
		New("dup",
			String("Key", "key", func(s *APIKey) **string { return &s.Key }),
			Bool("Active", "key", func(s *APIKey) **bool { return &s.Active }),
		)
	})
}

func TestDeclaredMapsAreBijective(t *testing.T) {
	keys := MergeSettingsMap.WireKeys()
	if len(keys) != 13 {
		t.Fatalf("merge settings keys=%v", keys)
	}
	if w, ok := MergeSettingsMap.WireName("RemoveEmptyBlocks"); !ok || w != "remove_empty_blocks" {
		t.Fatalf("WireName=%q ok=%v", w, ok)
	}
	if _, ok := MergeSettingsMap.WireName("Unknown"); ok {
		t.Fatalf("unknown internal name resolved")
	}
}
