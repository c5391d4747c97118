package codegen

import (
	"strings"

	"vuec/internal/expr"
	"vuec/internal/flags"
	"vuec/internal/ir"
)

func (e *Emitter) call(callee string, args ...piece) {
	for len(args) > 0 && args[len(args)-1] == nil {
		args = args[:len(args)-1]
	}
	e.w.str(callee)
	e.w.str("(")
	for i, a := range args {
		if i > 0 {
			e.w.str(", ")
		}
		if a == nil {
			e.w.str("null")
			continue
		}
		a()
	}
	e.w.str(")")
}

// block wraps a creation call in (openBlock(), ...).
func (e *Emitter) block(callee string, args ...piece) {
	e.blockOpen(false, callee, args...)
}

func (e *Emitter) blockOpen(untracked bool, callee string, args ...piece) {
	e.w.str("(" + e.helper(flags.OpenBlock) + "(")
	if untracked {
		e.w.str("true")
	}
	e.w.str("), ")
	e.call(callee, args...)
	e.w.str(")")
}

func (e *Emitter) array(nodes []ir.Node) {
	e.w.str("[")
	e.w.in()
	for i := range nodes {
		e.w.line()
		e.node(&nodes[i])
		if i < len(nodes)-1 {
			e.w.str(",")
		}
	}
	e.w.out()
	e.w.line()
	e.w.str("]")
}

func (e *Emitter) children(nodes []ir.Node) piece {
	return func() { e.array(nodes) }
}

func (e *Emitter) node(n *ir.Node) {
	switch n.Kind {
	case ir.KindText:
		e.text(n.Text)
	case ir.KindComment:
		e.call(e.helper(flags.CreateComment), e.lit(jsString(n.Comment.String())))
	case ir.KindVNode:
		e.vnode(n.VNode)
	case ir.KindIf:
		e.ifChain(n.If)
	case ir.KindFor:
		e.forList(n.For)
	case ir.KindSlotOutlet:
		e.outlet(n.Outlet)
	case ir.KindHoisted:
		e.w.str(hoistName(n.Hoist))
	}
}

// textValue is the string expression of a text node; foldable literals are
// inlined.
func (e *Emitter) textValue(t *ir.TextCall) string {
	parts := make([]string, 0, len(t.Parts))
	for _, p := range t.Parts {
		if p.Expr == nil {
			parts = append(parts, jsString(p.Text.String()))
			continue
		}
		if s, ok := expr.Fold(p.Expr.Content); ok {
			parts = append(parts, jsString(s))
			continue
		}
		parts = append(parts, e.helper(flags.ToDisplayString)+"("+e.expr(p.Expr)+")")
	}
	return strings.Join(parts, " + ")
}

func (e *Emitter) text(t *ir.TextCall) {
	if !t.Call {
		e.w.str(e.textValue(t))
		return
	}
	e.call(e.helper(flags.CreateText), e.lit(e.textValue(t)), e.flag(t.Patch))
}

func (e *Emitter) tag(v *ir.VNode) string {
	switch v.Type {
	case ir.VNodeFragment:
		return e.helper(flags.Fragment)
	case ir.VNodeComponent:
		switch v.Comp {
		case ir.CompBuiltin:
			return e.helper(v.Builtin)
		case ir.CompDynamic:
			return e.helper(flags.ResolveDynamicComponent) + "(" + e.expr(v.Is) + ")"
		case ir.CompSelf:
			return componentVar(v.Tag.Raw(), true)
		}
		return componentVar(v.Tag.Raw(), false)
	}
	return jsString(v.Tag.String())
}

func (e *Emitter) vnode(v *ir.VNode) {
	if len(v.Directives) == 0 {
		e.vnodeCall(v)
		return
	}
	e.w.str(e.helper(flags.WithDirectives) + "(")
	e.vnodeCall(v)
	e.w.str(", [")
	for i := range v.Directives {
		if i > 0 {
			e.w.str(", ")
		}
		e.w.str(e.directiveTuple(&v.Directives[i]))
	}
	e.w.str("])")
}

func (e *Emitter) vnodeCall(v *ir.VNode) {
	args := []piece{e.lit(e.tag(v)), e.props(v), e.vnodeChildren(v), e.flag(v.Patch), e.dynamicProps(v)}
	comp := v.IsComponent()
	switch {
	case v.Block && comp:
		e.block(e.helper(flags.CreateBlock), args...)
	case v.Block:
		e.block(e.helper(flags.CreateElementBlock), args...)
	case comp:
		e.call(e.helper(flags.CreateVNode), args...)
	default:
		e.call(e.helper(flags.CreateElementVNode), args...)
	}
}

func (e *Emitter) dynamicProps(v *ir.VNode) piece {
	if len(v.DynamicProps) == 0 {
		return nil
	}
	names := make([]string, len(v.DynamicProps))
	for i, n := range v.DynamicProps {
		names[i] = jsString(n)
	}
	return e.lit("[" + strings.Join(names, ", ") + "]")
}

func (e *Emitter) vnodeChildren(v *ir.VNode) piece {
	if v.Slots != nil {
		return func() { e.slots(v) }
	}
	switch {
	case len(v.Children) == 0:
		return nil
	case len(v.Children) == 1 && v.Children[0].Kind == ir.KindText && !v.Children[0].Text.Call:
		return e.lit(e.textValue(v.Children[0].Text))
	}
	return e.children(v.Children)
}

// directiveTuple renders [dir, value, arg, modifiers], trimming unused tail
// entries.
func (e *Emitter) directiveTuple(d *ir.Directive) string {
	parts := []string{directiveVar(d.Name), "", "", ""}
	if d.Expr != nil {
		parts[1] = e.expr(d.Expr)
	}
	switch {
	case d.ArgExpr != nil:
		parts[2] = e.expr(d.ArgExpr)
	case !d.Arg.IsEmpty():
		parts[2] = jsString(d.Arg.String())
	}
	if len(d.Modifiers) > 0 {
		mods := make([]string, len(d.Modifiers))
		for i, m := range d.Modifiers {
			mods[i] = objectKey(m) + ": true"
		}
		parts[3] = "{ " + strings.Join(mods, ", ") + " }"
	}
	n := len(parts)
	for n > 1 && parts[n-1] == "" {
		n--
	}
	for i := 1; i < n; i++ {
		if parts[i] == "" {
			parts[i] = "void 0"
		}
	}
	return "[" + strings.Join(parts[:n], ", ") + "]"
}

// ifChain renders a conditional chain as nested ternaries.
func (e *Emitter) ifChain(n *ir.If) {
	opened := 0
	for i := range n.Branches {
		b := &n.Branches[i]
		if b.Cond == nil {
			e.node(&b.Node)
			e.closeTernary(opened)
			return
		}
		e.w.str("(" + e.expr(b.Cond) + ")")
		e.w.in()
		opened++
		e.w.line()
		e.w.str("? ")
		e.node(&b.Node)
		e.w.line()
		e.w.str(": ")
	}
	e.call(e.helper(flags.CreateComment), e.lit(`"v-if"`), e.lit("true"))
	e.closeTernary(opened)
}

func (e *Emitter) closeTernary(n int) {
	for range n {
		e.w.out()
	}
}

func (e *Emitter) forList(f *ir.For) {
	list := func() {
		e.w.str(e.helper(flags.RenderList) + "(" + e.expr(f.Source) + ", (" + f.Params() + ") => {")
		e.w.in()
		e.w.line()
		e.w.str("return ")
		e.node(&f.Node)
		e.w.out()
		e.w.line()
		e.w.str("})")
	}
	e.blockOpen(!f.Stable(), e.helper(flags.CreateElementBlock), e.lit(e.helper(flags.Fragment)), nil, list, e.flag(f.Patch))
}

func (e *Emitter) slotsRef() string {
	if e.opts.Mode == ModeFunction {
		return "$slots"
	}
	return "_ctx.$slots"
}

func (e *Emitter) outlet(o *ir.SlotOutlet) {
	name := jsString(o.Name.String())
	if o.NameExpr != nil {
		name = e.expr(o.NameExpr)
	}
	var props, fallback piece
	if s := e.propsExpr(o.Props, ""); s != "" {
		props = e.lit(s)
	}
	if len(o.Fallback) > 0 {
		if props == nil {
			props = e.lit("{}")
		}
		fallback = func() {
			e.w.str("() => ")
			e.array(o.Fallback)
		}
	}
	e.call(e.helper(flags.RenderSlot), e.lit(e.slotsRef()), e.lit(name), props, fallback)
}
