package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vuec/internal/ast"
	"vuec/internal/diag"
	"vuec/internal/scanner"
	"vuec/internal/source"
	"vuec/internal/testkit"
)

func parse(t *testing.T, src string, opts Options) (*ast.Root, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.vue", []byte(src)))
	bag := diag.NewBag(20)
	rep := diag.BagReporter{Bag: bag}
	opts.Reporter = rep
	root := Parse(f, scanner.Scan(f, scanner.Options{Reporter: rep}), opts)
	return root, bag
}

// render prints the tree in a compact s-expression form.
func render(nodes []ast.Node) string {
	var sb strings.Builder
	for i, n := range nodes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch n.Kind {
		case ast.KindElement:
			fmt.Fprintf(&sb, "(%s:%s", n.Element.Tag, n.Element.Type)
			if len(n.Element.Children) > 0 {
				sb.WriteByte(' ')
				sb.WriteString(render(n.Element.Children))
			}
			sb.WriteByte(')')
		case ast.KindText:
			if n.Text.Condense {
				fmt.Fprintf(&sb, "~%q", n.Text.Content)
			} else {
				fmt.Fprintf(&sb, "%q", n.Text.Content)
			}
		case ast.KindInterpolation:
			fmt.Fprintf(&sb, "{%s}", strings.TrimSpace(n.Text.Content))
		case ast.KindComment:
			fmt.Fprintf(&sb, "<!%s>", strings.TrimSpace(n.Text.Content))
		}
	}
	return sb.String()
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

type dirView struct {
	Name    string
	Arg     string
	Dynamic bool
	Mods    []string
	Expr    string
}

func TestParseDirectives(t *testing.T) {
	root, bag := parse(t, `<div id="a" :class="c" @click.stop.prevent="go" #item.name="p" v-model:[key].trim="x" .foo="y" v-show="ok" v-on="handlers"></div>`, Options{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	el := root.Children[0].Element
	var got []dirView
	for _, d := range el.Directives {
		v := dirView{Name: d.Name, Arg: d.Arg, Dynamic: d.ArgDynamic, Mods: d.Modifiers}
		if d.Expr != nil {
			v.Expr = d.Expr.Content
		}
		got = append(got, v)
	}
	want := []dirView{
		{Name: "bind", Arg: "class", Expr: "c"},
		{Name: "on", Arg: "click", Mods: []string{"stop", "prevent"}, Expr: "go"},
		{Name: "slot", Arg: "item.name", Expr: "p"},
		{Name: "model", Arg: "key", Dynamic: true, Mods: []string{"trim"}, Expr: "x"},
		{Name: "bind", Arg: "foo", Mods: []string{"prop"}, Expr: "y"},
		{Name: "show", Expr: "ok"},
		{Name: "on", Expr: "handlers"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("directives mismatch (-want +got):\n%s", diff)
	}
	if len(el.Attrs) != 1 || el.Attrs[0].Name != "id" || el.Attrs[0].Value.Content != "a" {
		t.Fatalf("static attrs = %+v", el.Attrs)
	}
}

func TestParseDirectiveArgSpan(t *testing.T) {
	src := `<a v-bind:href="u" :[name]="v"></a>`
	root, _ := parse(t, src, Options{})
	ds := root.Children[0].Element.Directives
	if got := src[ds[0].ArgSpan.Start:ds[0].ArgSpan.End]; got != "href" {
		t.Fatalf("arg span = %q", got)
	}
	if got := src[ds[1].ArgSpan.Start:ds[1].ArgSpan.End]; got != "name" {
		t.Fatalf("dynamic arg span = %q", got)
	}
}

func TestParseDirectiveErrors(t *testing.T) {
	tests := []struct {
		src  string
		want []diag.Code
	}{
		{`<div v-="x"></div>`, []diag.Code{diag.PrsInvalidDirective}},
		{`<div :[foo="x"></div>`, []diag.Code{diag.PrsUnclosedDynamicArg}},
		{`<div @="x"></div>`, []diag.Code{diag.PrsInvalidDirective}},
	}
	for _, tt := range tests {
		_, bag := parse(t, tt.src, Options{})
		if diff := cmp.Diff(tt.want, codes(bag)); diff != "" {
			t.Errorf("%s: codes mismatch (-want +got):\n%s", tt.src, diff)
		}
	}
}

func TestParseEndTags(t *testing.T) {
	tests := []struct {
		src  string
		tree string
		want []diag.Code
	}{
		{`<div><span>a</div>`, `(div:plain (span:plain ~"a"))`, []diag.Code{diag.PrsMissingEndTag}},
		{`<div></p></div>`, `(div:plain)`, []diag.Code{diag.PrsUnexpectedEndTag}},
		{`<br></br>`, `(br:plain)`, []diag.Code{diag.PrsVoidEndTag}},
		{`<div><p>x`, `(div:plain (p:plain ~"x"))`, []diag.Code{diag.PrsMissingEndTag, diag.PrsMissingEndTag}},
		{`<DIV>x</div>`, `(DIV:component ~"x")`, nil},
	}
	for _, tt := range tests {
		root, bag := parse(t, tt.src, Options{})
		if got := render(root.Children); got != tt.tree {
			t.Errorf("%s: tree = %s, want %s", tt.src, got, tt.tree)
		}
		if diff := cmp.Diff(tt.want, codes(bag)); diff != "" {
			t.Errorf("%s: codes mismatch (-want +got):\n%s", tt.src, diff)
		}
	}
}

func TestParseWhitespace(t *testing.T) {
	tests := []struct {
		name string
		src  string
		mode WhitespaceMode
		want string
	}{
		{"drops newline between elements", "<div>\n  <p>a</p>\n  <p>b</p>\n</div>", WhitespaceCondense, `(div:plain (p:plain ~"a") (p:plain ~"b"))`},
		{"keeps single space between inline", `<span>a</span> <span>b</span>`, WhitespaceCondense, `(span:plain ~"a") ~" " (span:plain ~"b")`},
		{"space next to interpolation", `<p>{{ a }} <b>x</b></p>`, WhitespaceCondense, `(p:plain {a} ~" " (b:plain ~"x"))`},
		{"preserve mode", "<div>\n  <p>a</p>\n  <p>b</p>\n</div>", WhitespacePreserve, `(div:plain (p:plain "a") ~"\n  " (p:plain "b"))`},
		{"pre keeps text", "<pre>\nline\n  x</pre>", WhitespaceCondense, `(pre:plain "line\n  x")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := parse(t, tt.src, Options{Whitespace: tt.mode})
			if got := render(root.Children); got != tt.want {
				t.Fatalf("tree = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseComments(t *testing.T) {
	src := "<div><!-- a -->\n<p>x</p></div>"
	root, _ := parse(t, src, Options{})
	if got, want := render(root.Children), `(div:plain (p:plain ~"x"))`; got != want {
		t.Fatalf("tree = %s, want %s", got, want)
	}
	root, _ = parse(t, src, Options{Comments: true})
	if got, want := render(root.Children), `(div:plain <!a> (p:plain ~"x"))`; got != want {
		t.Fatalf("tree = %s, want %s", got, want)
	}
}

func TestParseClassify(t *testing.T) {
	src := `<Foo/><my-comp></my-comp><div></div><template v-if="a"></template><template></template><slot></slot><component is="x"></component><svg><circle/></svg><Transition></Transition><button is="vue:x"></button>`
	root, _ := parse(t, src, Options{})
	want := `(Foo:component) (my-comp:component) (div:plain) (template:template) (template:plain) (slot:slot) (component:component) (svg:plain (circle:plain)) (Transition:component) (button:component)`
	if got := render(root.Children); got != want {
		t.Fatalf("tree = %s\nwant %s", got, want)
	}

	root, _ = parse(t, `<my-comp></my-comp>`, Options{IsCustomElement: func(tag string) bool { return strings.HasPrefix(tag, "my-") }})
	if got := root.Children[0].Element.Type; got != ast.ElementPlain {
		t.Fatalf("custom element type = %v", got)
	}
}

func TestParseNamespaces(t *testing.T) {
	root, _ := parse(t, `<svg><foreignObject><div></div></foreignObject></svg><math><mi></mi></math>`, Options{})
	svg := root.Children[0].Element
	fo := svg.Children[0].Element
	div := fo.Children[0].Element
	if svg.NS != ast.NSSVG || fo.NS != ast.NSSVG || div.NS != ast.NSHTML {
		t.Fatalf("namespaces = %v %v %v", svg.NS, fo.NS, div.NS)
	}
	if mi := root.Children[1].Element.Children[0].Element; mi.NS != ast.NSMathML {
		t.Fatalf("mi namespace = %v", mi.NS)
	}
}

func TestParseVPre(t *testing.T) {
	root, bag := parse(t, `<div v-pre><span :a="b">{{ x }}</span></div>`, Options{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	div := root.Children[0].Element
	if len(div.Attrs) != 0 || len(div.Directives) != 0 {
		t.Fatalf("v-pre should be consumed: %+v %+v", div.Attrs, div.Directives)
	}
	span := div.Children[0].Element
	if !span.InVPre || len(span.Directives) != 0 || len(span.Attrs) != 1 || span.Attrs[0].Name != ":a" {
		t.Fatalf("span inside v-pre = %+v", span)
	}
	if got := render(span.Children); got != `~"{{ x }}"` {
		t.Fatalf("span children = %s", got)
	}
}

func TestSpansStayInsideParents(t *testing.T) {
	for _, src := range []string{
		`<div id="a" :class="c" @click.stop="go()"><p>{{ msg }}</p>text</div>`,
		`<ul><li v-for="(item, i) in items" :key="item.id">{{ i }}: {{ item.name }}</li></ul>`,
		`<comp v-slot:[name]="{ x }"><template #footer>f</template></comp>`,
		"<pre>\n  keep  </pre>\n<br><img src=x>",
	} {
		fs := source.NewFileSet()
		f := fs.Get(fs.AddVirtual("t.vue", []byte(src)))
		root := Parse(f, scanner.Scan(f, scanner.Options{}), Options{})
		if err := testkit.CheckSpanInvariants(root, f); err != nil {
			t.Errorf("%s:\n%v", src, err)
		}
	}
}
