package transform

import (
	"vuec/internal/expr"
	"vuec/internal/flags"
	"vuec/internal/ir"
)

// ExprLevel classifies one expression. known holds setup constants.
func ExprLevel(e *ir.Expr, known map[string]bool) flags.StaticLevel {
	if e == nil || e.Info.Literal || e.Info.Empty {
		return flags.CanStringify
	}
	if len(e.Info.Idents) == 0 {
		return flags.CanHoist
	}
	for i, id := range e.Info.Idents {
		if e.Scoped(i) || !known[id.Name] {
			return flags.NotStatic
		}
	}
	return flags.CanSkipPatch
}

// StaticLevelOf evaluates n bottom-up without touching the tree.
func StaticLevelOf(n *ir.Node) flags.StaticLevel {
	return levelOf(n, StaticLevelOf)
}

// levelOf is the per-node rule; child decides how children are measured.
func levelOf(n *ir.Node, child func(*ir.Node) flags.StaticLevel) flags.StaticLevel {
	switch n.Kind {
	case ir.KindText:
		level := flags.CanStringify
		for _, p := range n.Text.Parts {
			if p.Expr != nil {
				level = min(level, p.Expr.Level)
			}
		}
		return level
	case ir.KindComment:
		return flags.CanStringify
	case ir.KindHoisted:
		return n.Level
	case ir.KindVNode:
		level := ownLevel(n.VNode)
		if level == flags.NotStatic {
			return level
		}
		for i := range n.VNode.Children {
			level = min(level, child(&n.VNode.Children[i]))
			if level == flags.NotStatic {
				break
			}
		}
		return level
	}
	// условия, циклы и слоты всегда динамические
	return flags.NotStatic
}

// ownLevel looks at the bindings on the vnode itself.
func ownLevel(v *ir.VNode) flags.StaticLevel {
	if v.Type != ir.VNodeElement || v.Block || len(v.Directives) > 0 || v.Slots != nil {
		return flags.NotStatic
	}
	level := flags.CanStringify
	for i := range v.Props {
		p := &v.Props[i]
		switch p.Kind {
		case ir.PropAttr:
			if p.Name.Raw() == "ref" {
				return flags.NotStatic
			}
		case ir.PropBind:
			if p.NameExpr != nil || p.Name.Raw() == "ref" {
				return flags.NotStatic
			}
			level = min(level, p.Expr.Level)
		default:
			return flags.NotStatic
		}
		if level == flags.NotStatic {
			return level
		}
	}
	return level
}

// ElementPatchFlag derives the patch flag and dynamic prop names of v.
func ElementPatchFlag(v *ir.VNode) (flags.PatchFlag, []string) {
	if v.Type == ir.VNodeFragment {
		return flags.FromBits(flags.PatchStableFragment), nil
	}
	var (
		f       flags.PatchFlag
		dynamic []string
		hasRef  bool
		full    bool
	)
	addName := func(name string) {
		for _, n := range dynamic {
			if n == name {
				return
			}
		}
		dynamic = append(dynamic, name)
	}
	comp := v.IsComponent()
	for i := range v.Props {
		p := &v.Props[i]
		switch p.Kind {
		case ir.PropAttr:
			if p.Name.Raw() == "ref" {
				hasRef = true
			}
		case ir.PropSpread, ir.PropHandlers:
			full = true
		case ir.PropShow:
			if comp {
				addName("style")
			} else {
				f = f.With(flags.PatchStyle)
			}
		case ir.PropOn:
			if p.NameExpr != nil {
				full = true
				continue
			}
			name := p.Name.String() + eventSuffix(p.Modifiers)
			if !comp && name != "onClick" && name != "onUpdate:modelValue" {
				f = f.With(flags.PatchHydrateEvents)
			}
			if p.Expr.Level.CanSkipPatching() {
				continue
			}
			addName(name)
		case ir.PropBind:
			if p.NameExpr != nil {
				full = true
				continue
			}
			name := PropKey(p)
			if name == "ref" {
				hasRef = true
			}
			if p.Expr.Level.CanSkipPatching() {
				continue
			}
			switch {
			case name == "ref", name == "key":
			case name == "class" && !comp:
				f = f.With(flags.PatchClass)
			case name == "style" && !comp:
				f = f.With(flags.PatchStyle)
			default:
				addName(name)
			}
		}
	}
	switch {
	case full:
		f = f.With(flags.PatchFullProps)
		dynamic = nil
	case len(dynamic) > 0:
		f = f.With(flags.PatchProps)
	}
	if !comp && len(v.Children) == 1 {
		if c := v.Children[0]; c.Kind == ir.KindText && !c.Text.Call && c.Text.Dynamic() {
			f = f.With(flags.PatchText)
		}
	}
	if v.Slots != nil && v.Slots.Flag == flags.SlotDynamic {
		f = f.With(flags.PatchDynamicSlots)
	}
	if f.IsZero() && (hasRef || len(v.Directives) > 0) {
		f = f.With(flags.PatchNeedPatch)
	}
	return f, dynamic
}

// PropKey is the materialised key of a static-named bind entry, including
// the .prop and .attr markers.
func PropKey(p *ir.Prop) string {
	name := p.Name.String()
	for _, m := range p.Modifiers {
		switch m {
		case "prop":
			return "." + name
		case "attr":
			return "^" + name
		}
	}
	return name
}

// NeedsNormalize reports whether a class or style binding must pass
// through normalizeClass/normalizeStyle: anything but a literal string does.
func NeedsNormalize(p *ir.Prop) bool {
	if p.Kind != ir.PropBind || p.NameExpr != nil {
		return false
	}
	switch p.Name.Raw() {
	case "class", "style":
		_, ok := expr.Fold(p.Expr.Content)
		return !ok
	}
	return false
}

// eventSuffix renders the listener option modifiers appended to the key.
func eventSuffix(mods []string) string {
	out := ""
	for _, m := range mods {
		switch m {
		case "once":
			out += "Once"
		case "capture":
			out += "Capture"
		case "passive":
			out += "Passive"
		}
	}
	return out
}

// EventKey is the handler key of a static-named listener.
func EventKey(p *ir.Prop) string {
	return p.Name.String() + eventSuffix(p.Modifiers)
}

// ClassifySlots decides the slot flag of a component. Identifiers bound at
// or above the component's own depth make the slots dynamic.
func ClassifySlots(v *ir.VNode) flags.SlotFlag {
	s := v.Slots
	if s == nil {
		return flags.SlotUnset
	}
	if len(s.Dynamic) > 0 {
		return flags.SlotDynamic
	}
	outer := func(e *ir.Expr) bool {
		d := e.MinDepth()
		return d > 0 && d <= v.Depth
	}
	dynamic, forwarded := false, false
	for i := range s.Static {
		sl := &s.Static[i]
		if sl.NameExpr != nil {
			return flags.SlotDynamic
		}
		ir.Walk(sl.Body, func(n *ir.Node) bool {
			if n.Kind == ir.KindSlotOutlet {
				forwarded = true
			}
			ir.Exprs(n, func(e *ir.Expr) {
				if outer(e) {
					dynamic = true
				}
			})
			return !dynamic
		})
		if dynamic {
			return flags.SlotDynamic
		}
	}
	if forwarded {
		return flags.SlotForwarded
	}
	return flags.SlotStable
}
