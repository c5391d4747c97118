package codegen

import (
	"html"
	"strings"

	"vuec/internal/ast"
	"vuec/internal/expr"
	"vuec/internal/ir"
)

// staticHTML serialises a stringifiable hoist run.
func staticHTML(nodes []ir.Node) string {
	var sb strings.Builder
	for i := range nodes {
		writeHTML(&sb, &nodes[i])
	}
	return sb.String()
}

func writeHTML(sb *strings.Builder, n *ir.Node) {
	switch n.Kind {
	case ir.KindText:
		for _, p := range n.Text.Parts {
			if p.Expr == nil {
				sb.WriteString(html.EscapeString(p.Text.String()))
				continue
			}
			s, _ := expr.Fold(p.Expr.Content)
			sb.WriteString(html.EscapeString(s))
		}
	case ir.KindComment:
		sb.WriteString("<!--")
		sb.WriteString(n.Comment.String())
		sb.WriteString("-->")
	case ir.KindVNode:
		v := n.VNode
		tag := v.Tag.String()
		sb.WriteByte('<')
		sb.WriteString(tag)
		for i := range v.Props {
			p := &v.Props[i]
			value := p.Value.String()
			if p.Kind == ir.PropBind {
				value, _ = expr.Fold(p.Expr.Content)
			}
			sb.WriteByte(' ')
			sb.WriteString(p.Name.String())
			if value == "" && p.Kind == ir.PropAttr {
				continue
			}
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(value))
			sb.WriteByte('"')
		}
		sb.WriteByte('>')
		if ast.IsVoidTag(tag) {
			return
		}
		for i := range v.Children {
			writeHTML(sb, &v.Children[i])
		}
		sb.WriteString("</")
		sb.WriteString(tag)
		sb.WriteByte('>')
	}
}
