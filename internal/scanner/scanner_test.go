package scanner

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vuec/internal/diag"
	"vuec/internal/source"
	"vuec/internal/token"
)

type tokView struct {
	Kind    token.Kind
	Name    string
	Content string
	Attrs   []string
	Self    bool
}

func scanAll(t *testing.T, src string) ([]tokView, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.vue", []byte(src))
	bag := diag.NewBag(20)
	var out []tokView
	for tok := range Scan(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}}) {
		v := tokView{Kind: tok.Kind, Name: tok.Name, Content: tok.Content, Self: tok.SelfClosing}
		for _, a := range tok.Attrs {
			if a.HasValue {
				v.Attrs = append(v.Attrs, a.Name+"="+a.Value)
			} else {
				v.Attrs = append(v.Attrs, a.Name)
			}
		}
		out = append(out, v)
	}
	return out, bag
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestScanBasic(t *testing.T) {
	got, bag := scanAll(t, `<div id="app" :class='c' disabled @click=go><p>hi {{ msg }}</p><br/><!-- note --></div>`)
	want := []tokView{
		{Kind: token.StartTag, Name: "div", Attrs: []string{"id=app", ":class=c", "disabled", "@click=go"}},
		{Kind: token.StartTag, Name: "p"},
		{Kind: token.Text, Content: "hi "},
		{Kind: token.Interpolation, Content: " msg "},
		{Kind: token.EndTag, Name: "p"},
		{Kind: token.StartTag, Name: "br", Self: true},
		{Kind: token.Comment, Content: " note "},
		{Kind: token.EndTag, Name: "div"},
		{Kind: token.EOF},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens (-want +got):\n%s", diff)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
}

func TestScanSpansBorrowSource(t *testing.T) {
	src := `<a href="x">{{ a + b }}</a>`
	fs := source.NewFileSet()
	id := fs.AddVirtual("s.vue", []byte(src))
	f := fs.Get(id)
	var toks []token.Token
	for tok := range Scan(f, Options{}) {
		toks = append(toks, tok)
	}
	href := toks[0].Attrs[0]
	if f.Slice(href.ValueSpan) != "x" || f.Slice(href.NameSpan) != "href" || f.Slice(href.Span) != `href="x"` {
		t.Fatalf("attr spans: %+v", href)
	}
	if f.Slice(toks[1].ContentSpan) != " a + b " || f.Slice(toks[1].Span) != "{{ a + b }}" {
		t.Fatalf("interpolation spans: %+v", toks[1])
	}
}

func TestScanErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"unterminated comment", "<div><!-- oops", []diag.Code{diag.ScnUnterminatedComment}},
		{"unterminated interpolation", "<p>{{ msg</p>", []diag.Code{diag.ScnUnterminatedInterp}},
		{"eof in tag", `<div class="a"`, []diag.Code{diag.ScnEOFInTag}},
		{"missing end tag name", "<p></></p>", []diag.Code{diag.ScnMissingTagName}},
		{"duplicate attribute", `<p id="a" id="b"></p>`, []diag.Code{diag.ScnDuplicateAttribute}},
		{"missing value", `<p id=></p>`, []diag.Code{diag.ScnMissingAttributeValue}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toks, bag := scanAll(t, tc.src)
			if diff := cmp.Diff(tc.want, codes(bag)); diff != "" {
				t.Fatalf("codes (-want +got):\n%s", diff)
			}
			if toks[len(toks)-1].Kind != token.EOF {
				t.Fatalf("scanner must always finish with EOF")
			}
		})
	}
}

func TestScanRawText(t *testing.T) {
	got, _ := scanAll(t, "<style>a < b {}</STYLE><p>x</p>")
	kinds := make([]token.Kind, 0, len(got))
	for _, v := range got {
		kinds = append(kinds, v.Kind)
	}
	want := []token.Kind{token.StartTag, token.Text, token.EndTag, token.StartTag, token.Text, token.EndTag, token.EOF}
	if !slices.Equal(kinds, want) {
		t.Fatalf("kinds = %v", kinds)
	}
	if got[1].Content != "a < b {}" {
		t.Fatalf("raw text = %q", got[1].Content)
	}
}

func TestScanCustomDelimiters(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("d.vue", []byte("${ x } {{ y }}"))
	var kinds []token.Kind
	for tok := range Scan(fs.Get(id), Options{Delimiters: [2]string{"${", "}"}}) {
		kinds = append(kinds, tok.Kind)
	}
	if !slices.Equal(kinds, []token.Kind{token.Interpolation, token.Text, token.EOF}) {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestScanStopsEarly(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("e.vue", []byte("<a></a><b></b>"))
	n := 0
	for range Scan(fs.Get(id), Options{}) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("consumer break not honoured")
	}
}
