package token_test

import (
	"testing"

	"vuec/internal/token"
)

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.StartTag:      "StartTag",
		token.Interpolation: "Interpolation",
		token.Kind(200):     "Invalid",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d: got %q want %q", k, got, want)
		}
	}
}

func TestAttrLookup(t *testing.T) {
	tok := token.Token{Kind: token.StartTag, Name: "div", Attrs: []token.Attr{
		{Name: "id", Value: "a", HasValue: true},
		{Name: "disabled"},
	}}
	if a, ok := tok.Attr("disabled"); !ok || a.HasValue {
		t.Fatalf("disabled lookup: %+v %v", a, ok)
	}
	if _, ok := tok.Attr("class"); ok {
		t.Fatalf("unexpected class attr")
	}
	if !tok.IsTag() {
		t.Fatalf("start tag must be a tag")
	}
}
