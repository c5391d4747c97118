// Package converter lowers the template AST into IR and seeds the helper
// collector. Structural directives stay pending on the IR nodes; the
// transform pipeline expands them.
package converter

import (
	"fmt"
	"strings"

	"vuec/internal/ast"
	"vuec/internal/diag"
	"vuec/internal/flags"
	"vuec/internal/ir"
	"vuec/internal/source"
	"vuec/internal/vstr"
)

type converter struct {
	file *source.File
	opts Options
	root *ir.Root
}

// Convert builds the IR of root.
func Convert(root *ast.Root, opts Options) *ir.Root {
	c := &converter{
		file: root.File,
		opts: opts,
		root: &ir.Root{File: root.File},
	}
	for _, h := range opts.Inject {
		c.root.Helpers.Insert(h)
	}
	c.root.Children = c.children(root.Children)
	return c.root
}

func (c *converter) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	if c.opts.Reporter == nil {
		return
	}
	diag.ReportError(c.opts.Reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

func (c *converter) warnf(code diag.Code, sp source.Span, format string, args ...any) {
	if c.opts.Reporter == nil {
		return
	}
	diag.ReportWarning(c.opts.Reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

func (c *converter) children(nodes []ast.Node) []ir.Node {
	out := make([]ir.Node, 0, len(nodes))
	for i := range nodes {
		if n, ok := c.node(&nodes[i]); ok {
			out = append(out, n)
		}
	}
	return out
}

func (c *converter) node(n *ast.Node) (ir.Node, bool) {
	switch n.Kind {
	case ast.KindText:
		s := vstr.FromSpan(c.file, n.Text.Span).Decode(false)
		if n.Text.Condense {
			s = s.CompressWhitespace()
		}
		return ir.Node{Kind: ir.KindText, Span: n.Span, Text: &ir.TextCall{Parts: []ir.TextPart{{Text: s}}}}, true
	case ast.KindInterpolation:
		e := ir.NewExpr(c.file, n.Text.Span)
		if e.Info.Empty {
			c.errorf(diag.CnvMissingExpression, n.Span, "interpolation is empty")
			return ir.Node{}, false
		}
		return ir.Node{Kind: ir.KindText, Span: n.Span, Text: &ir.TextCall{Parts: []ir.TextPart{{Expr: e}}}}, true
	case ast.KindComment:
		return ir.Node{Kind: ir.KindComment, Span: n.Span, Comment: vstr.FromSpan(c.file, n.Text.Span)}, true
	case ast.KindElement:
		return c.element(n)
	}
	return ir.Node{}, false
}

func (c *converter) element(n *ast.Node) (ir.Node, bool) {
	el := n.Element
	if el.InVPre {
		return c.rawElement(n), true
	}
	out := ir.Node{Span: n.Span}
	b := &propBuilder{c: c, el: el}

	var v *ir.VNode
	if el.Type != ast.ElementSlot {
		v = &ir.VNode{Tag: vstr.FromSpan(c.file, el.TagSpan), NS: el.NS}
		switch el.Type {
		case ast.ElementComponent:
			v.Type = ir.VNodeComponent
			c.component(v, el)
			b.component = true
		case ast.ElementTemplate:
			v.Type = ir.VNodeFragment
		default:
			v.Type = ir.VNodeElement
		}
	}
	inOrder(el, func(a *ast.Attribute) {
		switch {
		case v == nil && a.Name == "name":
		case v != nil && v.Type == ir.VNodeComponent && a.Name == "is":
		default:
			b.attr(a)
		}
	}, func(d *ast.Directive) {
		if isStructural(d.Name) {
			if st, ok := c.structural(d); ok {
				out.Structural = append(out.Structural, st)
			}
			return
		}
		if v != nil && v.Comp == ir.CompDynamic && d.Name == "bind" && !d.ArgDynamic && d.Arg == "is" {
			return
		}
		b.directive(d)
	})

	if v == nil {
		out.Kind = ir.KindSlotOutlet
		out.Outlet = c.slotOutlet(el, b)
		return out, true
	}
	v.Props = b.props
	v.Directives = b.dirs
	v.SlotDir = b.slot
	if !b.dropChildren {
		v.Children = c.children(el.Children)
	}
	out.Kind = ir.KindVNode
	out.VNode = v
	return out, true
}

// rawElement keeps a v-pre subtree as plain elements with static attributes.
func (c *converter) rawElement(n *ast.Node) ir.Node {
	el := n.Element
	v := &ir.VNode{Type: ir.VNodeElement, Tag: vstr.FromSpan(c.file, el.TagSpan), NS: el.NS}
	for i := range el.Attrs {
		a := &el.Attrs[i]
		v.Props = append(v.Props, staticProp(c.file, a))
	}
	v.Children = c.children(el.Children)
	return ir.Node{Kind: ir.KindVNode, Span: n.Span, VNode: v}
}

func (c *converter) component(v *ir.VNode, el *ast.Element) {
	tag := el.Tag
	if name, ok := ast.CoreComponent(tag); ok {
		h, _ := flags.LookupHelper(name)
		v.Comp = ir.CompBuiltin
		v.Builtin = h
		c.root.Helpers.Insert(h)
		return
	}
	if is, ok := el.Attr("is"); ok && is.Value != nil {
		if target, ok := strings.CutPrefix(is.Value.Content, "vue:"); ok {
			v.Tag = vstr.Literal(target)
			return
		}
		if tag == "component" {
			v.Comp = ir.CompDynamic
			v.Is = ir.SyntheticExpr(quote(is.Value.Content))
			return
		}
	}
	if tag == "component" {
		if d, ok := el.BoundAttr("is"); ok && d.Expr != nil {
			v.Comp = ir.CompDynamic
			v.Is = ir.NewExpr(c.file, d.Expr.Span)
			return
		}
		c.errorf(diag.CnvMissingIs, el.TagSpan, "<component> needs an is binding")
		return
	}
	if c.opts.SelfName != "" && pascal(tag) == pascal(c.opts.SelfName) {
		v.Comp = ir.CompSelf
	}
}

func isStructural(name string) bool {
	switch name {
	case "if", "else-if", "else", "for":
		return true
	}
	return false
}

// structural returns false when the directive is dropped after an error.
func (c *converter) structural(d *ast.Directive) (ir.Structural, bool) {
	var kind ir.StructKind
	switch d.Name {
	case "if":
		kind = ir.StructIf
	case "else-if":
		kind = ir.StructElseIf
	case "else":
		kind = ir.StructElse
	default:
		kind = ir.StructFor
	}
	st := ir.Structural{Kind: kind, Span: d.Span}
	if d.Arg != "" {
		c.errorf(diag.CnvUnexpectedArgument, d.ArgSpan, "v-%s does not take an argument", d.Name)
	}
	if kind == ir.StructElse {
		return st, true
	}
	if d.Expr == nil || strings.TrimSpace(d.Expr.Content) == "" {
		c.errorf(diag.CnvMissingExpression, d.Span, "v-%s needs an expression", d.Name)
		if kind == ir.StructFor {
			return ir.Structural{}, false
		}
		// пустое условие считаем ложным, чтобы цепочка осталась целой
		st.Expr = ir.SyntheticExpr("false")
		return st, true
	}
	st.Expr = ir.NewExpr(c.file, d.Expr.Span)
	return st, true
}

func (c *converter) slotOutlet(el *ast.Element, b *propBuilder) *ir.SlotOutlet {
	o := &ir.SlotOutlet{Name: vstr.Literal("default")}
	if b.slot != nil {
		c.errorf(diag.CnvInvalidSlotOutlet, b.slot.Span, "v-slot cannot be used on a <slot> outlet")
	}
	if a, ok := el.Attr("name"); ok && a.Value != nil {
		o.Name = vstr.FromSpan(c.file, a.Value.Span).Decode(true)
	}
	props := b.props[:0]
	for _, p := range b.props {
		if p.Kind == ir.PropBind && p.NameExpr == nil && p.Name.Raw() == "name" {
			o.NameExpr = p.Expr
			continue
		}
		props = append(props, p)
	}
	o.Props = props
	if len(b.dirs) > 0 {
		c.errorf(diag.CnvInvalidSlotOutlet, b.dirs[0].Span, "custom directives are not allowed on <slot>")
	}
	o.Fallback = c.children(el.Children)
	return o
}

// inOrder walks attributes and directives of el in source order.
func inOrder(el *ast.Element, attr func(*ast.Attribute), dir func(*ast.Directive)) {
	i, j := 0, 0
	for i < len(el.Attrs) || j < len(el.Directives) {
		if j < len(el.Directives) && (i == len(el.Attrs) || el.Directives[j].Span.Start < el.Attrs[i].Span.Start) {
			dir(&el.Directives[j])
			j++
			continue
		}
		attr(&el.Attrs[i])
		i++
	}
}

func staticProp(f *source.File, a *ast.Attribute) ir.Prop {
	p := ir.Prop{Kind: ir.PropAttr, Name: vstr.FromSpan(f, a.NameSpan), Span: a.Span}
	if a.Value != nil {
		p.Value = vstr.FromSpan(f, a.Value.Span).Decode(true)
	} else {
		p.Value = vstr.Literal("")
	}
	return p
}

func pascal(s string) string {
	return vstr.Literal(s).Camelize().Capitalize().String()
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s) + `"`
}
