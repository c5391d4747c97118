package converter

import (
	"strings"
	"unicode"

	"vuec/internal/ast"
	"vuec/internal/diag"
	"vuec/internal/expr"
	"vuec/internal/ir"
	"vuec/internal/vstr"
)

// propBuilder collects the props and runtime directives of one element.
type propBuilder struct {
	c         *converter
	el        *ast.Element
	component bool

	props        []ir.Prop
	dirs         []ir.Directive
	slot         *ir.SlotDirective
	dropChildren bool
}

func (b *propBuilder) attr(a *ast.Attribute) {
	b.props = append(b.props, staticProp(b.c.file, a))
}

func (b *propBuilder) hasExpr(d *ast.Directive) bool {
	return d.Expr != nil && strings.TrimSpace(d.Expr.Content) != ""
}

func (b *propBuilder) expr(d *ast.Directive) *ir.Expr {
	return ir.NewExpr(b.c.file, d.Expr.Span)
}

func (b *propBuilder) directive(d *ast.Directive) {
	switch d.Name {
	case "bind":
		b.bind(d)
	case "on":
		b.on(d)
	case "slot":
		b.slotDir(d)
	case "model":
		b.model(d)
	case "show":
		if !b.hasExpr(d) {
			b.c.errorf(diag.CnvMissingExpression, d.Span, "v-show needs an expression")
			return
		}
		b.props = append(b.props, ir.Prop{Kind: ir.PropShow, Expr: b.expr(d), Span: d.Span})
	case "html", "text":
		if !b.hasExpr(d) {
			b.c.errorf(diag.CnvMissingExpression, d.Span, "v-%s needs an expression", d.Name)
			return
		}
		name := "innerHTML"
		if d.Name == "text" {
			name = "textContent"
		}
		b.props = append(b.props, ir.Prop{Kind: ir.PropBind, Name: vstr.Literal(name), Expr: b.expr(d), Span: d.Span})
		b.dropChildren = true
	case "cloak":
	case "once", "memo", "is":
		b.c.warnf(diag.CnvUnsupportedDirective, d.NameSpan, "v-%s is not supported and is ignored", d.Name)
	default:
		b.custom(d)
	}
}

func (b *propBuilder) bind(d *ast.Directive) {
	if d.Arg == "" && !d.ArgDynamic {
		if !b.hasExpr(d) {
			b.c.errorf(diag.CnvMissingExpression, d.Span, "v-bind without an argument needs an object expression")
			return
		}
		b.props = append(b.props, ir.Prop{Kind: ir.PropSpread, Expr: b.expr(d), Span: d.Span})
		return
	}
	p := ir.Prop{Kind: ir.PropBind, Modifiers: d.Modifiers, Span: d.Span}
	if d.ArgDynamic {
		p.NameExpr = ir.NewExpr(b.c.file, d.ArgSpan)
	} else {
		p.Name = vstr.FromSpan(b.c.file, d.ArgSpan)
		if d.HasModifier("camel") {
			p.Name = p.Name.Camelize()
		}
	}
	switch {
	case b.hasExpr(d):
		p.Expr = b.expr(d)
	case d.ArgDynamic:
		b.c.errorf(diag.CnvMissingExpression, d.Span, "v-bind with a dynamic argument needs an expression")
		return
	default:
		// :foo-bar без значения читает fooBar
		p.Expr = ir.SyntheticExpr(vstr.Literal(d.Arg).Camelize().String())
		p.Expr.Span = d.ArgSpan
	}
	b.props = append(b.props, p)
}

func (b *propBuilder) on(d *ast.Directive) {
	if d.Arg == "" && !d.ArgDynamic {
		if !b.hasExpr(d) {
			b.c.errorf(diag.CnvMissingExpression, d.Span, "v-on without an argument needs an object expression")
			return
		}
		b.props = append(b.props, ir.Prop{Kind: ir.PropHandlers, Expr: b.expr(d), Span: d.Span})
		return
	}
	p := ir.Prop{Kind: ir.PropOn, Modifiers: d.Modifiers, Span: d.Span}
	if d.ArgDynamic {
		p.NameExpr = ir.NewExpr(b.c.file, d.ArgSpan)
	} else {
		p.Name = b.handlerName(d)
	}
	if b.hasExpr(d) {
		p.Expr = b.expr(d)
		p.Expr.Handler = !expr.IsMemberExpression(p.Expr.Content) && !expr.IsFunctionExpression(p.Expr.Content)
	} else {
		p.Expr = ir.SyntheticExpr("() => {}")
	}
	b.props = append(b.props, p)
}

// handlerName: на обычных элементах имя события с заглавными буквами
// остаётся как есть, @Click -> "on:Click".
func (b *propBuilder) handlerName(d *ast.Directive) vstr.VStr {
	if b.el.Type == ast.ElementPlain && !strings.HasPrefix(d.Arg, "vnode") && strings.ContainsFunc(d.Arg, unicode.IsUpper) {
		return vstr.Literal("on:" + d.Arg)
	}
	return vstr.FromSpan(b.c.file, d.ArgSpan).Camelize().BeHandler()
}

func (b *propBuilder) slotDir(d *ast.Directive) {
	if b.slot != nil {
		b.c.errorf(diag.TrnDuplicateSlot, d.Span, "element already has a v-slot")
		return
	}
	s := &ir.SlotDirective{Span: d.Span}
	switch {
	case d.ArgDynamic:
		s.NameExpr = ir.NewExpr(b.c.file, d.ArgSpan)
	case d.Arg != "":
		s.Name = vstr.FromSpan(b.c.file, d.ArgSpan)
	default:
		s.Name = vstr.Literal("default")
	}
	if b.hasExpr(d) {
		s.Params = b.expr(d)
	}
	b.slot = s
}

func (b *propBuilder) model(d *ast.Directive) {
	if !b.hasExpr(d) {
		b.c.errorf(diag.CnvMissingExpression, d.Span, "v-model needs an expression")
		return
	}
	target := strings.TrimSpace(d.Expr.Content)
	if !expr.IsMemberExpression(target) {
		b.c.errorf(diag.CnvUnsupportedDirective, d.Expr.Span, "v-model value must be an assignable member expression")
		return
	}
	value := b.expr(d)
	if b.component {
		if d.ArgDynamic {
			b.c.errorf(diag.CnvUnsupportedDirective, d.ArgSpan, "v-model with a dynamic argument is not supported")
			return
		}
		name := "modelValue"
		if d.Arg != "" {
			name = d.Arg
		}
		b.props = append(b.props,
			ir.Prop{Kind: ir.PropBind, Name: vstr.Literal(name), Expr: value, Span: d.Span},
			ir.Prop{Kind: ir.PropOn, Name: vstr.Literal("update:" + name).BeHandler(), Expr: ir.SyntheticExpr("$event => ((" + target + ") = $event)"), Span: d.Span},
		)
		if len(d.Modifiers) > 0 {
			mods := make([]string, 0, len(d.Modifiers))
			for _, m := range d.Modifiers {
				mods = append(mods, quote(m)+": true")
			}
			modsName := "modelModifiers"
			if d.Arg != "" {
				modsName = d.Arg + "Modifiers"
			}
			b.props = append(b.props, ir.Prop{Kind: ir.PropBind, Name: vstr.Literal(modsName), Expr: ir.SyntheticExpr("{ " + strings.Join(mods, ", ") + " }"), Span: d.Span})
		}
		return
	}
	if d.Arg != "" || d.ArgDynamic {
		b.c.errorf(diag.CnvUnexpectedArgument, d.ArgSpan, "v-model on a native element does not take an argument")
	}
	prop, event, read := "value", "input", "$event.target.value"
	tag := b.el.Tag
	if tag == "input" {
		if t, ok := b.el.Attr("type"); ok && t.Value != nil && (t.Value.Content == "checkbox" || t.Value.Content == "radio") {
			prop, event, read = "checked", "change", "$event.target.checked"
		}
	}
	if tag == "select" || d.HasModifier("lazy") {
		event = "change"
	}
	if d.HasModifier("trim") {
		read += ".trim()"
	}
	if d.HasModifier("number") {
		read = "Number(" + read + ")"
	}
	b.props = append(b.props,
		ir.Prop{Kind: ir.PropBind, Name: vstr.Literal(prop), Expr: value, Span: d.Span},
		ir.Prop{Kind: ir.PropOn, Name: vstr.Literal(event).BeHandler(), Expr: ir.SyntheticExpr("$event => ((" + target + ") = " + read + ")"), Span: d.Span},
	)
}

func (b *propBuilder) custom(d *ast.Directive) {
	dir := ir.Directive{Name: d.Name, Modifiers: d.Modifiers, Span: d.Span}
	switch {
	case d.ArgDynamic:
		dir.ArgExpr = ir.NewExpr(b.c.file, d.ArgSpan)
	case d.Arg != "":
		dir.Arg = vstr.FromSpan(b.c.file, d.ArgSpan)
	}
	if b.hasExpr(d) {
		dir.Expr = b.expr(d)
	}
	b.dirs = append(b.dirs, dir)
}
