package transform

import (
	"strings"

	"vuec/internal/diag"
	"vuec/internal/expr"
	"vuec/internal/flags"
	"vuec/internal/ir"
	"vuec/internal/vstr"
)

// analyzeElements computes props flags, block-ness and asset helpers, and
// moves component children into slots.
func analyzeElements(j *Job) {
	j.analyzeList(j.Root.Children)
}

func (j *Job) analyzeList(nodes []ir.Node) {
	for i := range nodes {
		j.analyzeNode(&nodes[i])
	}
}

func (j *Job) analyzeNode(n *ir.Node) {
	switch n.Kind {
	case ir.KindVNode:
		j.analyzeVNode(n.VNode)
	case ir.KindIf:
		for i := range n.If.Branches {
			j.analyzeNode(&n.If.Branches[i].Node)
		}
	case ir.KindFor:
		f := n.For
		j.analyzeNode(&f.Node)
		switch {
		case f.Stable():
			f.Patch = flags.FromBits(flags.PatchStableFragment)
		case f.Keyed:
			f.Patch = flags.FromBits(flags.PatchKeyedFragment)
		default:
			f.Patch = flags.FromBits(flags.PatchUnkeyedFragment)
		}
		if f.Node.Kind == ir.KindVNode {
			f.Node.VNode.Block = !f.Stable()
		}
	case ir.KindSlotOutlet:
		o := n.Outlet
		j.propHelpers(o.Props, false)
		if o.NameExpr != nil {
			// имя слота известно только во время выполнения
			o.Patch = flags.Bail()
		}
		j.analyzeList(o.Fallback)
	}
}

func (j *Job) analyzeVNode(v *ir.VNode) {
	if v.SlotDir != nil && v.Type != ir.VNodeComponent {
		j.Errorf(diag.TrnSlotOnElement, v.SlotDir.Span, "v-slot can only be used on components or on <template> inside a component")
		v.SlotDir = nil
	}
	switch v.Type {
	case ir.VNodeComponent:
		j.resolveAsset(v)
		if !(v.Comp == ir.CompBuiltin && v.Builtin == flags.Teleport) {
			j.buildSlots(v)
		}
	case ir.VNodeFragment:
		v.Patch = flags.FromBits(flags.PatchStableFragment)
	}
	for _, d := range v.Directives {
		j.Root.AddDirective(d.Name)
		j.Root.Helpers.Insert(flags.ResolveDirective)
		j.Root.Helpers.Insert(flags.WithDirectives)
	}
	j.propHelpers(v.Props, v.Key != "")
	j.analyzeList(v.Children)
	if v.Slots != nil {
		for i := range v.Slots.Static {
			j.analyzeList(v.Slots.Static[i].Body)
		}
		for i := range v.Slots.Dynamic {
			for k := range v.Slots.Dynamic[i].Branches {
				j.analyzeList(v.Slots.Dynamic[i].Branches[k].Body)
			}
		}
	}
	if v.Type != ir.VNodeFragment {
		v.Patch, v.DynamicProps = ElementPatchFlag(v)
	}
	if shouldUseBlock(v) {
		v.Block = true
	}
}

func shouldUseBlock(v *ir.VNode) bool {
	if v.Type == ir.VNodeComponent {
		if v.Comp == ir.CompDynamic {
			return true
		}
		return v.Comp == ir.CompBuiltin && (v.Builtin == flags.Teleport || v.Builtin == flags.Suspense || v.Builtin == flags.KeepAlive)
	}
	if v.Type != ir.VNodeElement {
		return false
	}
	switch v.Tag.Raw() {
	case "svg", "foreignObject", "math":
		return !v.Patch.IsZero()
	}
	return false
}

func (j *Job) resolveAsset(v *ir.VNode) {
	switch v.Comp {
	case ir.CompResolved:
		j.Root.AddComponent(v.Tag.Raw(), false)
		j.Root.Helpers.Insert(flags.ResolveComponent)
	case ir.CompSelf:
		j.Root.AddComponent(v.Tag.Raw(), true)
		j.Root.Helpers.Insert(flags.ResolveComponent)
	case ir.CompDynamic:
		j.Root.Helpers.Insert(flags.ResolveDynamicComponent)
	}
}

// propHelpers registers the helpers the props object will call. keyed adds
// the synthetic branch key as one more entry.
func (j *Job) propHelpers(props []ir.Prop, keyed bool) {
	h := &j.Root.Helpers
	spread := false
	seen := map[string]bool{}
	for i := range props {
		p := &props[i]
		switch p.Kind {
		case ir.PropAttr:
			mergeHelper(h, seen, p.Name.Raw())
		case ir.PropBind:
			if p.NameExpr == nil {
				mergeHelper(h, seen, PropKey(p))
			}
			if p.NameExpr != nil {
				h.Insert(flags.NormalizeProps)
				if hasMod(p.Modifiers, "camel") {
					h.Insert(flags.Camelize)
				}
				continue
			}
			if NeedsNormalize(p) {
				h.Insert(normalizer(p.Name.Raw()))
			}
		case ir.PropShow:
			h.Insert(flags.NormalizeStyle)
		case ir.PropOn:
			if p.NameExpr != nil {
				h.Insert(flags.NormalizeProps)
				h.Insert(flags.ToHandlerKey)
			}
		case ir.PropSpread:
			spread = true
		case ir.PropHandlers:
			spread = true
			h.Insert(flags.ToHandlers)
		}
	}
	if !spread {
		return
	}
	if len(props) == 1 && !keyed {
		if props[0].Kind == ir.PropSpread {
			h.Insert(flags.NormalizeProps)
			h.Insert(flags.GuardReactiveProps)
		}
		return
	}
	h.Insert(flags.MergeProps)
}

// mergeHelper registers normalizeClass/normalizeStyle for a repeated class
// or style key, which is merged into one array entry.
func mergeHelper(h *flags.HelperCollector, seen map[string]bool, key string) {
	switch {
	case key != "class" && key != "style":
		return
	case !seen[key]:
		seen[key] = true
	default:
		h.Insert(normalizer(key))
	}
}

func normalizer(key string) flags.RuntimeHelper {
	if key == "class" {
		return flags.NormalizeClass
	}
	return flags.NormalizeStyle
}

func hasMod(mods []string, m string) bool {
	for _, x := range mods {
		if x == m {
			return true
		}
	}
	return false
}

// slotTemplate returns the <template v-slot> vnode of n, if any.
func slotTemplate(n *ir.Node) *ir.VNode {
	if n.Kind == ir.KindVNode && n.VNode.Type == ir.VNodeFragment && n.VNode.SlotDir != nil {
		return n.VNode
	}
	return nil
}

func isBlank(n *ir.Node) bool {
	if n.Kind == ir.KindComment {
		return true
	}
	return n.Kind == ir.KindText && skippable(n)
}

var defaultSlotName = vstr.Literal("default")

func newSlot(sd *ir.SlotDirective, body []ir.Node) ir.Slot {
	s := ir.Slot{Name: sd.Name, NameExpr: sd.NameExpr, Body: body, Span: sd.Span}
	if sd.Params != nil {
		s.Params = strings.TrimSpace(sd.Params.Content)
		s.Bound = expr.BoundNames(sd.Params.Content)
	}
	return s
}

// buildSlots turns component children into slot functions.
func (j *Job) buildSlots(v *ir.VNode) {
	children := v.Children
	v.Children = nil
	if v.SlotDir != nil {
		for i := range children {
			if t := slotTemplate(&children[i]); t != nil {
				j.Errorf(diag.TrnMixedSlotUsage, t.SlotDir.Span, "named slot templates cannot be mixed with v-slot on the component")
				t.SlotDir = nil
			}
		}
		v.Slots = &ir.Slots{Static: []ir.Slot{newSlot(v.SlotDir, children)}}
		v.SlotDir = nil
		return
	}

	slots := &ir.Slots{}
	var implicit []ir.Node
	seen := map[string]bool{}
	addStatic := func(s ir.Slot) {
		if s.NameExpr == nil {
			name := s.Name.Raw()
			if seen[name] {
				j.Errorf(diag.TrnDuplicateSlot, s.Span, "duplicate slot name %q", name)
				return
			}
			seen[name] = true
		}
		slots.Static = append(slots.Static, s)
	}
	for i := range children {
		c := &children[i]
		if t := slotTemplate(c); t != nil {
			addStatic(newSlot(t.SlotDir, t.Children))
			continue
		}
		switch c.Kind {
		case ir.KindIf:
			if ds, ok := j.conditionalSlot(c.If); ok {
				slots.Dynamic = append(slots.Dynamic, ds)
				continue
			}
		case ir.KindFor:
			if t := slotTemplate(&c.For.Node); t != nil {
				loop := c.For.Loop
				slots.Dynamic = append(slots.Dynamic, ir.DynamicSlot{
					Loop:     &loop,
					Branches: []ir.Slot{newSlot(t.SlotDir, t.Children)},
				})
				continue
			}
		}
		implicit = append(implicit, *c)
	}
	hasContent := false
	for i := range implicit {
		if !isBlank(&implicit[i]) {
			hasContent = true
			break
		}
	}
	if hasContent {
		if seen["default"] {
			j.Errorf(diag.TrnMixedSlotUsage, implicit[0].Span, "default slot content is mixed with an explicit <template #default>")
		} else {
			slots.Static = append(slots.Static, ir.Slot{Name: defaultSlotName, Body: implicit})
			slots.Implicit = true
		}
	}
	if len(slots.Static) == 0 && len(slots.Dynamic) == 0 {
		return
	}
	v.Slots = slots
}

// conditionalSlot accepts an if-chain whose every branch is a slot template.
func (j *Job) conditionalSlot(n *ir.If) (ir.DynamicSlot, bool) {
	var ds ir.DynamicSlot
	for _, b := range n.Branches {
		t := slotTemplate(&b.Node)
		if t == nil {
			return ir.DynamicSlot{}, false
		}
		s := newSlot(t.SlotDir, t.Children)
		s.Cond = b.Cond
		ds.Branches = append(ds.Branches, s)
	}
	return ds, true
}
