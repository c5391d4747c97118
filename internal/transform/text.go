package transform

import (
	"vuec/internal/flags"
	"vuec/internal/ir"
)

// mergeText joins adjacent text and interpolations. A lone text child of a
// native element (or of the root) stays on the fast path; every other text
// becomes a createTextVNode call.
func mergeText(j *Job) {
	j.Root.Children = mergeList(j.Root.Children, true)
}

func mergeList(nodes []ir.Node, fastPath bool) []ir.Node {
	out := nodes[:0]
	for _, n := range nodes {
		mergeChildren(&n)
		if n.Kind == ir.KindText && len(out) > 0 && out[len(out)-1].Kind == ir.KindText {
			last := &out[len(out)-1]
			last.Text.Parts = append(last.Text.Parts, n.Text.Parts...)
			last.Span = last.Span.Cover(n.Span)
			continue
		}
		out = append(out, n)
	}
	single := len(out) == 1 && fastPath
	for i := range out {
		n := &out[i]
		if n.Kind != ir.KindText {
			continue
		}
		n.Text.Call = !single
		if n.Text.Call && n.Text.Dynamic() {
			n.Text.Patch = flags.FromBits(flags.PatchText)
		}
	}
	return out
}

func mergeChildren(n *ir.Node) {
	switch n.Kind {
	case ir.KindVNode:
		v := n.VNode
		v.Children = mergeList(v.Children, v.Type == ir.VNodeElement)
	case ir.KindIf:
		for i := range n.If.Branches {
			mergeChildren(&n.If.Branches[i].Node)
		}
	case ir.KindFor:
		mergeChildren(&n.For.Node)
	case ir.KindSlotOutlet:
		n.Outlet.Fallback = mergeList(n.Outlet.Fallback, false)
	}
}
