package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(info Info) []string {
	var out []string
	for _, id := range info.Idents {
		out = append(out, id.Name)
	}
	return out
}

func TestAnalyzeFreeIdentifiers(t *testing.T) {
	cases := []struct {
		src  string
		want []string
	}{
		{"msg", []string{"msg"}},
		{"a.b.c + d?.e", []string{"a", "d"}},
		{"items.map(item => item.id + offset)", []string{"items", "offset"}},
		{"(x, { y: z }) => x + z + w", []string{"w"}},
		{"({ a: b = c }) => a", []string{"c", "a"}},
		{"{ color: active ? 'red' : base, size }", []string{"active", "base", "size"}},
		{"`hi ${user.name}!`", []string{"user"}},
		{"'str' + \"x\" + count", []string{"count"}},
		{"Math.max(a, 1) + JSON.stringify(b)", []string{"a", "b"}},
		{"function (e) { return e.target + other }", []string{"other"}},
		{"typeof x === 'undefined' && this.y", []string{"x"}},
		{"[...list, extra]", []string{"list", "extra"}},
		{"ok?.5:1", []string{"ok"}},
		{"1e-3 * rate", []string{"rate"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, names(Analyze(tc.src))); diff != "" {
			t.Errorf("Analyze(%q) (-want +got):\n%s", tc.src, diff)
		}
	}
}

func TestAnalyzeShorthandAndOffsets(t *testing.T) {
	info := Analyze("{ foo, bar: baz }")
	want := []Ident{
		{Name: "foo", Start: 2, End: 5, Shorthand: true},
		{Name: "baz", Start: 12, End: 15},
	}
	if diff := cmp.Diff(want, info.Idents); diff != "" {
		t.Fatalf("idents (-want +got):\n%s", diff)
	}
	got := Rewrite("{ foo, bar: baz }", info.Idents, func(id Ident) (string, bool) {
		return "_ctx." + id.Name, true
	})
	if got != "{ foo: _ctx.foo, bar: _ctx.baz }" {
		t.Fatalf("Rewrite = %q", got)
	}
}

func TestLiteral(t *testing.T) {
	for _, src := range []string{"1", " 'a' ", "-2.5", "true", "null", "`plain`", "0x1F"} {
		if !Analyze(src).Literal {
			t.Errorf("%q should be a literal", src)
		}
	}
	for _, src := range []string{"a", "1 + 1", "`a${b}`", "[1]", "{}"} {
		if Analyze(src).Literal {
			t.Errorf("%q should not be a literal", src)
		}
	}
	if !Analyze("   ").Empty {
		t.Errorf("blank input should be empty")
	}
}

func TestHandlerShapes(t *testing.T) {
	if !IsMemberExpression("foo.bar[baz]") || IsMemberExpression("foo()") {
		t.Errorf("member expression detection")
	}
	for _, src := range []string{"() => go()", "e => go(e)", "async (a) => a", "function (x) { x }"} {
		if !IsFunctionExpression(src) {
			t.Errorf("%q should be a function expression", src)
		}
	}
	if IsFunctionExpression("go($event)") {
		t.Errorf("call is not a function expression")
	}
	if !IsSimpleIdentifier("$item") || IsSimpleIdentifier("a.b") {
		t.Errorf("simple identifier detection")
	}
}

func TestBoundNames(t *testing.T) {
	cases := map[string][]string{
		"item":                     {"item"},
		"{ id, name: n }":          {"id", "n"},
		"[a, b = fallback]":        {"a", "b"},
		"{ item: { x }, ...rest }": {"x", "rest"},
	}
	for src, want := range cases {
		if diff := cmp.Diff(want, BoundNames(src)); diff != "" {
			t.Errorf("BoundNames(%q) (-want +got):\n%s", src, diff)
		}
	}
}

func TestParseFor(t *testing.T) {
	src := "(item, key, idx) in list.items"
	p, ok := ParseFor(src)
	if !ok {
		t.Fatalf("ParseFor failed")
	}
	if p.Value.Text != "item" || p.Key.Text != "key" || p.Index.Text != "idx" || p.Source.Text != "list.items" {
		t.Fatalf("unexpected parts: %+v", p)
	}
	if src[p.Key.Start:p.Key.End] != "key" || src[p.Source.Start:p.Source.End] != "list.items" {
		t.Fatalf("offsets do not point at the parts: %+v", p)
	}

	p, ok = ParseFor("{ id, label } of rows")
	if !ok || p.Value.Text != "{ id, label }" || !p.Key.IsZero() {
		t.Fatalf("destructured alias: %+v", p)
	}
	if _, ok := ParseFor("items"); ok {
		t.Fatalf("missing alias must fail")
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		src  string
		want string
		ok   bool
	}{
		{`'hello'`, "hello", true},
		{` "a b" `, "a b", true},
		{`42`, "42", true},
		{`-7`, "-7", true},
		{`1.5`, "", false},
		{`'it\'s'`, "", false},
		{`true`, "", false},
		{`msg`, "", false},
		{`'a' + 'b'`, "", false},
	}
	for _, tt := range tests {
		got, ok := Fold(tt.src)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Fold(%q) = %q, %v; want %q, %v", tt.src, got, ok, tt.want, tt.ok)
		}
	}
}
