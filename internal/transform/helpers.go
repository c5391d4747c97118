package transform

import (
	"vuec/internal/flags"
	"vuec/internal/ir"
)

// collectHelpers registers the creation helpers implied by the final tree.
func collectHelpers(j *Job) {
	h := &j.Root.Helpers
	if j.Root.Fragment {
		h.Insert(flags.OpenBlock)
		h.Insert(flags.CreateElementBlock)
		h.Insert(flags.Fragment)
	}
	visit := func(n *ir.Node) bool {
		nodeHelpers(h, n)
		return true
	}
	ir.Walk(j.Root.Children, visit)
	for _, hs := range j.Root.Hoists {
		if hs.Static {
			h.Insert(flags.CreateStatic)
			continue
		}
		ir.Walk(hs.Nodes, visit)
	}
}

func nodeHelpers(h *flags.HelperCollector, n *ir.Node) {
	switch n.Kind {
	case ir.KindText:
		if n.Text.Call {
			h.Insert(flags.CreateText)
		}
		if n.Text.HasInterpolation() {
			h.Insert(flags.ToDisplayString)
		}
	case ir.KindComment:
		h.Insert(flags.CreateComment)
	case ir.KindVNode:
		v := n.VNode
		if v.Type == ir.VNodeFragment {
			h.Insert(flags.Fragment)
		}
		comp := v.IsComponent()
		switch {
		case v.Block && comp:
			h.Insert(flags.OpenBlock)
			h.Insert(flags.CreateBlock)
		case v.Block:
			h.Insert(flags.OpenBlock)
			h.Insert(flags.CreateElementBlock)
		case comp:
			h.Insert(flags.CreateVNode)
		default:
			h.Insert(flags.CreateElementVNode)
		}
	case ir.KindIf:
		if !n.If.HasElse() {
			h.Insert(flags.CreateComment)
		}
	case ir.KindFor:
		h.Insert(flags.OpenBlock)
		h.Insert(flags.CreateElementBlock)
		h.Insert(flags.Fragment)
		h.Insert(flags.RenderList)
	case ir.KindSlotOutlet:
		h.Insert(flags.RenderSlot)
	}
}
