package dump

import (
	"vuec/internal/ast"
	"vuec/internal/token"
)

type TokenAttr struct {
	Name     string `json:"name" yaml:"name"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	HasValue bool   `json:"has_value,omitempty" yaml:"has_value,omitempty"`
}

type Token struct {
	Kind        string      `json:"kind" yaml:"kind"`
	Span        string      `json:"span" yaml:"span"`
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Attrs       []TokenAttr `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	SelfClosing bool        `json:"self_closing,omitempty" yaml:"self_closing,omitempty"`
	Content     string      `json:"content,omitempty" yaml:"content,omitempty"`
}

// Tokens mirrors the scanner output.
func Tokens(toks []token.Token) []Token {
	out := make([]Token, 0, len(toks))
	for _, t := range toks {
		v := Token{Kind: t.Kind.String(), Span: span(t.Span), Name: t.Name, SelfClosing: t.SelfClosing, Content: t.Content}
		for _, a := range t.Attrs {
			v.Attrs = append(v.Attrs, TokenAttr{Name: a.Name, Value: a.Value, HasValue: a.HasValue})
		}
		out = append(out, v)
	}
	return out
}

type Attr struct {
	Name  string  `json:"name" yaml:"name"`
	Value *string `json:"value,omitempty" yaml:"value,omitempty"`
}

type Directive struct {
	Name      string   `json:"name" yaml:"name"`
	Arg       string   `json:"arg,omitempty" yaml:"arg,omitempty"`
	Dynamic   bool     `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	Modifiers []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Expr      *string  `json:"expr,omitempty" yaml:"expr,omitempty"`
}

type Element struct {
	Tag         string      `json:"tag" yaml:"tag"`
	Type        string      `json:"type" yaml:"type"`
	NS          string      `json:"ns,omitempty" yaml:"ns,omitempty"`
	Attrs       []Attr      `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Directives  []Directive `json:"directives,omitempty" yaml:"directives,omitempty"`
	SelfClosing bool        `json:"self_closing,omitempty" yaml:"self_closing,omitempty"`
	InVPre      bool        `json:"in_v_pre,omitempty" yaml:"in_v_pre,omitempty"`
	Children    []Node      `json:"children,omitempty" yaml:"children,omitempty"`
}

type Node struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Span     string   `json:"span" yaml:"span"`
	Element  *Element `json:"element,omitempty" yaml:"element,omitempty"`
	Content  *string  `json:"content,omitempty" yaml:"content,omitempty"`
	Condense bool     `json:"condense,omitempty" yaml:"condense,omitempty"`
}

// AST mirrors the parsed element tree.
func AST(root *ast.Root) []Node {
	if root == nil {
		return nil
	}
	return astNodes(root.Children)
}

func astNodes(nodes []ast.Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Node, 0, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		v := Node{Kind: n.Kind.String(), Span: span(n.Span)}
		if n.Text != nil {
			content := n.Text.Content
			v.Content = &content
			v.Condense = n.Text.Condense
		}
		if el := n.Element; el != nil {
			e := &Element{Tag: el.Tag, Type: el.Type.String(), SelfClosing: el.SelfClosing, InVPre: el.InVPre}
			if el.NS != ast.NSHTML {
				e.NS = el.NS.String()
			}
			for _, a := range el.Attrs {
				attr := Attr{Name: a.Name}
				if a.Value != nil {
					value := a.Value.Content
					attr.Value = &value
				}
				e.Attrs = append(e.Attrs, attr)
			}
			for _, d := range el.Directives {
				dv := Directive{Name: d.Name, Arg: d.Arg, Dynamic: d.ArgDynamic, Modifiers: d.Modifiers}
				if d.Expr != nil {
					content := d.Expr.Content
					dv.Expr = &content
				}
				e.Directives = append(e.Directives, dv)
			}
			e.Children = astNodes(el.Children)
			v.Element = e
		}
		out = append(out, v)
	}
	return out
}
