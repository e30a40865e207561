package jsonutil

import (
	"encoding/json"
	"math"
	"testing"
)

func TestInt64_StrictIntegers(t *testing.T) {
	accept := []any{1, int8(-2), int16(3), int32(4), int64(5), uint(6), uint8(7), uint16(8), uint32(9), uint64(10), json.Number("42")}
	for _, v := range accept {
		if _, ok := Int64(v); !ok {
			t.Fatalf("expected %T(%v) to be accepted", v, v)
		}
	}
	reject := []any{"12", 1.0, float32(2), json.Number("1.5"), json.Number("1e3"), uint64(math.MaxUint64), nil, true}
	for _, v := range reject {
		if _, ok := Int64(v); ok {
			t.Fatalf("expected %T(%v) to be rejected", v, v)
		}
	}
}

func TestDecodeObject_KeepsNumbers(t *testing.T) {
	obj, err := DecodeObject([]byte(`{"size":1024,"name":"a.tx"}`), "template")
	if err != nil {
		t.Fatalf("DecodeObject err=%v", err)
	}
	n, ok := Int64(obj["size"])
	if !ok || n != 1024 {
		t.Fatalf("size=%v ok=%v", obj["size"], ok)
	}
}

func TestDecodeObject_Errors(t *testing.T) {
	if _, err := DecodeObject([]byte(`[1,2]`), "payload"); err == nil {
		t.Fatalf("expected error for array")
	}
	if _, err := DecodeObject([]byte(`null`), "payload"); err == nil {
		t.Fatalf("expected error for null")
	}
	if _, err := DecodeObject([]byte(`{} {}`), "payload"); err == nil {
		t.Fatalf("expected error for trailing data")
	}
}

func TestDecodeArray(t *testing.T) {
	arr, err := DecodeArray([]byte(`["a","b"]`), "list")
	if err != nil {
		t.Fatalf("DecodeArray err=%v", err)
	}
	if len(arr) != 2 {
		t.Fatalf("len=%d", len(arr))
	}
	if _, err := DecodeArray([]byte(`{"a":1}`), "list"); err == nil {
		t.Fatalf("expected error for object")
	}
}

func TestGetStringByPath_SupportsWildcardAndIndex(t *testing.T) {
	root := map[string]any{
		"message": "top",
		"items": []any{
			map[string]any{"v": ""},
			map[string]any{"v": "x"},
		},
		"one": []any{
			map[string]any{"name": "first"},
		},
	}

	if got := GetStringByPath(root, "$.message"); got != "top" {
		t.Fatalf("plain got %q, want top", got)
	}
	if got := GetStringByPath(root, "$.items[*].v"); got != "x" {
		t.Fatalf("wildcard string got %q, want x", got)
	}
	if got := GetStringByPath(root, "$.one[0].name"); got != "first" {
		t.Fatalf("index string got %q, want first", got)
	}
	if got := GetStringByPath(root, "$.one[3].name"); got != "" {
		t.Fatalf("out of range got %q", got)
	}
	if got := GetStringByPath(root, "message"); got != "" {
		t.Fatalf("missing $. prefix got %q", got)
	}
}
