package transform

import (
	"strconv"
	"strings"

	"fortio.org/safecast"

	"vuec/internal/diag"
	"vuec/internal/expr"
	"vuec/internal/ir"
)

func expandStructural(j *Job) {
	j.Root.Children = j.expandList(j.Root.Children)
}

func (j *Job) expandList(nodes []ir.Node) []ir.Node {
	out := make([]ir.Node, 0, len(nodes))
	for _, n := range nodes {
		j.expandChildren(&n)
		if len(n.Structural) == 0 {
			out = append(out, n)
			continue
		}
		var cond, loop *ir.Structural
		for i := range n.Structural {
			st := &n.Structural[i]
			switch {
			case st.Kind == ir.StructFor:
				loop = st
			case cond != nil:
				j.Errorf(diag.TrnMultipleConditional, st.Span, "%s cannot be combined with %s on one element", st.Kind, cond.Kind)
			default:
				cond = st
			}
		}
		n.Structural = nil
		if cond != nil && loop != nil {
			j.Errorf(diag.TrnIfForConflict, loop.Span, "v-if and v-for on the same element; wrap the element in a <template>")
			loop = nil
		}
		if loop != nil {
			n = j.wrapFor(n, loop)
		}
		if cond == nil {
			out = append(out, n)
			continue
		}
		if cond.Kind == ir.StructIf {
			ifn := &ir.If{}
			ifn.Branches = append(ifn.Branches, j.branch(n, cond, 0))
			out = append(out, ir.Node{Kind: ir.KindIf, Span: n.Span, If: ifn})
			continue
		}
		// else-if/else цепляются к предыдущему v-if, пропуская комментарии и пробелы
		k := len(out)
		for k > 0 && skippable(&out[k-1]) {
			k--
		}
		if k == 0 || out[k-1].Kind != ir.KindIf || out[k-1].If.HasElse() {
			j.Errorf(diag.TrnElseWithoutIf, cond.Span, "%s has no adjacent v-if or v-else-if", cond.Kind)
			out = append(out, n)
			continue
		}
		out = out[:k]
		prev := &out[k-1]
		prev.If.Branches = append(prev.If.Branches, j.branch(n, cond, len(prev.If.Branches)))
		prev.Span = prev.Span.Cover(n.Span)
	}
	return out
}

func skippable(n *ir.Node) bool {
	if n.Kind == ir.KindComment {
		return true
	}
	if n.Kind != ir.KindText {
		return false
	}
	for _, p := range n.Text.Parts {
		if p.Expr != nil || strings.TrimSpace(p.Text.Raw()) != "" {
			return false
		}
	}
	return true
}

func (j *Job) branch(n ir.Node, cond *ir.Structural, index int) ir.Branch {
	b := ir.Branch{Node: n, Span: n.Span}
	if cond.Kind != ir.StructElse {
		b.Cond = cond.Expr
	}
	if n.Kind == ir.KindVNode {
		v := n.VNode
		v.Block = true
		if _, ok := v.Prop("key"); !ok {
			v.Key = strconv.Itoa(index)
		}
	}
	return b
}

func (j *Job) wrapFor(n ir.Node, st *ir.Structural) ir.Node {
	parts, ok := expr.ParseFor(st.Expr.Content)
	if !ok {
		j.Errorf(diag.TrnInvalidForExpr, st.Expr.Span, "v-for expects \"alias in source\", got %q", st.Expr.Content)
		return n
	}
	var src *ir.Expr
	if st.Expr.Span.Empty() {
		src = ir.SyntheticExpr(parts.Source.Text)
	} else {
		src = ir.NewExpr(j.Root.File, st.Expr.Span.Sub(offset(parts.Source.Start), offset(parts.Source.End)))
	}
	f := &ir.For{Loop: ir.Loop{
		Source: src,
		Value:  parts.Value.Text,
		Key:    parts.Key.Text,
		Index:  parts.Index.Text,
	}}
	if n.Kind == ir.KindVNode {
		v := n.VNode
		if _, ok := v.Prop("key"); ok {
			f.Keyed = true
		}
		if v.Type == ir.VNodeFragment {
			for _, c := range v.Children {
				if c.Kind != ir.KindVNode {
					continue
				}
				if p, ok := c.VNode.Prop("key"); ok {
					j.Errorf(diag.TrnTemplateKeyMisplace, p.Span, "<template v-for> key should be placed on the <template> tag")
				}
			}
		}
	}
	f.Node = n
	return ir.Node{Kind: ir.KindFor, Span: n.Span, For: f}
}

func (j *Job) expandChildren(n *ir.Node) {
	switch n.Kind {
	case ir.KindVNode:
		n.VNode.Children = j.expandList(n.VNode.Children)
	case ir.KindSlotOutlet:
		n.Outlet.Fallback = j.expandList(n.Outlet.Fallback)
	}
}

func offset(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(err)
	}
	return v
}
