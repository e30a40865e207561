package requestid

import "testing"

func TestGen(t *testing.T) {
	a, b := Gen(), Gen()
	if !Valid(a) || !Valid(b) {
		t.Fatalf("invalid ids: %q %q", a, b)
	}
	if a == b {
		t.Fatalf("ids must differ")
	}
}

func TestValid(t *testing.T) {
	for _, s := range []string{"", "abc", "20240101120000123456"} {
		if Valid(s) {
			t.Fatalf("Valid(%q)=true", s)
		}
	}
}

func TestResolveHeaderKey(t *testing.T) {
	if got := ResolveHeaderKey(" "); got != DefaultHeaderKey {
		t.Fatalf("got=%q", got)
	}
	if got := ResolveHeaderKey("X-Trace"); got != "X-Trace" {
		t.Fatalf("got=%q", got)
	}
}
