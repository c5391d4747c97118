package dump

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"vuec/internal/converter"
	"vuec/internal/ir"
	"vuec/internal/parser"
	"vuec/internal/scanner"
	"vuec/internal/source"
	"vuec/internal/token"
	"vuec/internal/transform"
)

func compile(t *testing.T, src string) (*ir.Root, []token.Token) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.vue", []byte(src)))
	toks := slices.Collect(scanner.Scan(f, scanner.Options{}))
	root := converter.Convert(parser.Parse(f, slices.Values(toks), parser.Options{}), converter.Options{})
	if err := transform.Run(context.Background(), root, transform.Options{}); err != nil {
		t.Fatalf("transform: %v", err)
	}
	return root, toks
}

func TestIRView(t *testing.T) {
	root, _ := compile(t, `<div :class="c">{{ msg }}</div>`)
	v := IR(root, nil)
	if diff := cmp.Diff([]string{"openBlock", "createElementBlock", "toDisplayString", "normalizeClass"}, v.Helpers); diff != "" {
		t.Fatalf("helpers (-want +got):\n%s", diff)
	}
	div := v.Children[0].VNode
	if div == nil || !div.Block || div.Tag.Raw != "div" {
		t.Fatalf("div view = %+v", div)
	}
	if div.Patch == nil || div.Patch.Value != 3 || !slices.Equal(div.Patch.Names, []string{"TEXT", "CLASS"}) {
		t.Fatalf("div patch = %+v", div.Patch)
	}
	text := div.Children[0].Text
	if text.Call || text.Parts[0].Expr.Content != " msg " || !slices.Equal(text.Parts[0].Expr.Free, []string{"msg"}) {
		t.Fatalf("text view = %+v", text)
	}
}

func TestFormats(t *testing.T) {
	root, _ := compile(t, `<p v-for="item in items" :key="item.id">{{ item }}</p>`)
	v := IR(root, nil)

	var buf bytes.Buffer
	if err := Encode(&buf, FormatYAML, v); err != nil {
		t.Fatal(err)
	}
	var fromYAML map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("yaml: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "- renderList") {
		t.Fatalf("yaml lacks helper list:\n%s", buf.String())
	}

	buf.Reset()
	if err := Encode(&buf, FormatJSON, v); err != nil {
		t.Fatal(err)
	}
	var fromJSON Root
	if err := json.Unmarshal(buf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("json: %v", err)
	}
	if diff := cmp.Diff(v, fromJSON); diff != "" {
		t.Fatalf("json view differs (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := Encode(&buf, FormatMsgpack, v); err != nil {
		t.Fatal(err)
	}
	var fromMsgpack map[string]any
	if err := msgpack.Unmarshal(buf.Bytes(), &fromMsgpack); err != nil {
		t.Fatalf("msgpack: %v", err)
	}
	if _, ok := fromMsgpack["helpers"]; !ok {
		t.Fatalf("msgpack keys = %v", fromMsgpack)
	}
}

func TestTokensAndAST(t *testing.T) {
	root, toks := compile(t, `<a href="x" @click="go">hi</a>`)
	_ = root
	tv := Tokens(toks)
	kinds := make([]string, len(tv))
	for i, tk := range tv {
		kinds[i] = tk.Kind
	}
	if diff := cmp.Diff([]string{"StartTag", "Text", "EndTag", "EOF"}, kinds); diff != "" {
		t.Fatalf("token kinds (-want +got):\n%s", diff)
	}
	if len(tv[0].Attrs) != 2 || tv[0].Attrs[1].Name != "@click" {
		t.Fatalf("attrs = %+v", tv[0].Attrs)
	}

	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.vue", []byte(`<a href="x" @click="go">hi</a>`)))
	nodes := AST(parser.Parse(f, scanner.Scan(f, scanner.Options{}), parser.Options{}))
	el := nodes[0].Element
	if el.Tag != "a" || len(el.Attrs) != 1 || len(el.Directives) != 1 || el.Directives[0].Name != "on" {
		t.Fatalf("element view = %+v", el)
	}
	if got := *el.Children[0].Content; got != "hi" {
		t.Fatalf("text = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatYAML, "yaml": FormatYAML, "json": FormatJSON, "msgpack": FormatMsgpack} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("toml"); err == nil {
		t.Fatalf("toml accepted")
	}
}
