package domain

import "testing"

func TestNormalizeCode(t *testing.T) {
	cases := map[string]string{
		"sfl":   "SFL",
		" Sfl ": "SFL",
		"IBM":   "IBM",
		"":      "",
	}
	for in, want := range cases {
		if got := NormalizeCode(in); got != want {
			t.Fatalf("NormalizeCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFactoryCodeMatches(t *testing.T) {
	f := &Factory{ID: "f1", Name: "Sunflower", Code: "SFL"}

	for _, code := range []string{"SFL", "sfl", " sfl "} {
		if !f.CodeMatches(code) {
			t.Fatalf("expected %q to match SFL", code)
		}
	}
	if f.CodeMatches("IBM") {
		t.Fatalf("IBM should not match SFL")
	}

	var nilFactory *Factory
	if nilFactory.CodeMatches("SFL") {
		t.Fatalf("nil factory must match nothing")
	}
}
