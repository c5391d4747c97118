package transform

import (
	"vuec/internal/expr"
	"vuec/internal/flags"
	"vuec/internal/ir"
)

// hoistStatic records static levels on every node and, when enabled, moves
// hoistable subtrees to Root.Hoists.
func hoistStatic(j *Job) {
	annotateList(j.Root.Children)
	if !j.Opts.HoistStatic {
		return
	}
	root := j.Root.Children
	// единственный корень станет блоком, его самого не выносим
	j.Root.Children = j.hoistList(root, len(root) != 1 || root[0].Kind != ir.KindVNode)
}

func annotateList(nodes []ir.Node) flags.StaticLevel {
	level := flags.CanStringify
	for i := range nodes {
		level = min(level, annotate(&nodes[i]))
	}
	return level
}

// annotate fills Level bottom-up using the same rule as StaticLevelOf.
func annotate(n *ir.Node) flags.StaticLevel {
	switch n.Kind {
	case ir.KindVNode:
		v := n.VNode
		annotateList(v.Children)
		if v.Slots != nil {
			for i := range v.Slots.Static {
				annotateList(v.Slots.Static[i].Body)
			}
			for i := range v.Slots.Dynamic {
				for k := range v.Slots.Dynamic[i].Branches {
					annotateList(v.Slots.Dynamic[i].Branches[k].Body)
				}
			}
		}
	case ir.KindIf:
		for i := range n.If.Branches {
			annotate(&n.If.Branches[i].Node)
		}
	case ir.KindFor:
		annotate(&n.For.Node)
	case ir.KindSlotOutlet:
		annotateList(n.Outlet.Fallback)
	}
	n.Level = levelOf(n, func(c *ir.Node) flags.StaticLevel { return c.Level })
	return n.Level
}

func hoistable(n *ir.Node) bool {
	if n.Level < flags.CanHoist || !moduleSafe(n) {
		return false
	}
	switch n.Kind {
	case ir.KindVNode:
		v := n.VNode
		return v.Type == ir.VNodeElement && !v.Block && v.Key == ""
	case ir.KindText:
		return n.Text.Call
	}
	return false
}

// moduleSafe reports whether n renders with the hoist helper subset only:
// interpolations must fold to text and class/style must neither need
// normalizing nor repeat.
func moduleSafe(n *ir.Node) bool {
	switch n.Kind {
	case ir.KindText:
		for _, p := range n.Text.Parts {
			if p.Expr == nil {
				continue
			}
			if _, ok := expr.Fold(p.Expr.Content); !ok {
				return false
			}
		}
	case ir.KindVNode:
		seen := map[string]bool{}
		for i := range n.VNode.Props {
			p := &n.VNode.Props[i]
			key := p.Name.Raw()
			if p.Kind == ir.PropBind {
				key = PropKey(p)
			}
			if key != "class" && key != "style" {
				continue
			}
			if seen[key] || NeedsNormalize(p) {
				return false
			}
			seen[key] = true
		}
		for i := range n.VNode.Children {
			if !moduleSafe(&n.VNode.Children[i]) {
				return false
			}
		}
	}
	return true
}

// stringifiable reports whether n can be rendered to HTML at compile time.
func stringifiable(n *ir.Node) bool {
	switch n.Kind {
	case ir.KindComment:
		return true
	case ir.KindText:
		return true
	case ir.KindVNode:
		v := n.VNode
		for _, p := range v.Props {
			switch p.Kind {
			case ir.PropAttr:
			case ir.PropBind:
				if len(p.Modifiers) > 0 || p.NameExpr != nil {
					return false
				}
				switch p.Name.Raw() {
				case "innerHTML", "textContent":
					return false
				}
				if _, ok := expr.Fold(p.Expr.Content); !ok {
					return false
				}
			default:
				return false
			}
		}
		for i := range v.Children {
			if !stringifiable(&v.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// hoistList hoists eligible nodes of one children list. self is false for
// lists whose members must stay in place (a single block root).
func (j *Job) hoistList(nodes []ir.Node, self bool) []ir.Node {
	out := make([]ir.Node, 0, len(nodes))
	var run []ir.Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, j.hoistRun(run)...)
		run = nil
	}
	for i := range nodes {
		n := nodes[i]
		if self && hoistable(&n) {
			run = append(run, n)
			continue
		}
		flush()
		j.hoistChildren(&n)
		out = append(out, n)
	}
	flush()
	return out
}

// hoistRun emits consecutive hoistable nodes, collapsing long stringifiable
// runs into one static hoist.
func (j *Job) hoistRun(run []ir.Node) []ir.Node {
	var out []ir.Node
	start := 0
	for start < len(run) {
		if !canStringify(&run[start]) {
			out = append(out, j.hoistOne(run[start]))
			start++
			continue
		}
		end := start
		count := 0
		for end < len(run) && canStringify(&run[end]) {
			count += elementCount(&run[end])
			end++
		}
		if count >= j.Opts.threshold() {
			idx := j.Root.AddHoist(ir.Hoist{Nodes: append([]ir.Node(nil), run[start:end]...), Static: true})
			sp := run[start].Span.Cover(run[end-1].Span)
			out = append(out, ir.Node{Kind: ir.KindHoisted, Span: sp, Hoist: idx, Level: flags.CanStringify})
			j.Point("stringify", "")
		} else {
			for _, n := range run[start:end] {
				out = append(out, j.hoistOne(n))
			}
		}
		start = end
	}
	return out
}

func canStringify(n *ir.Node) bool {
	return n.Level == flags.CanStringify && stringifiable(n)
}

func (j *Job) hoistOne(n ir.Node) ir.Node {
	if n.Kind == ir.KindVNode {
		n.VNode.Patch = flags.Hoisted()
		n.VNode.DynamicProps = nil
	}
	idx := j.Root.AddHoist(ir.Hoist{Nodes: []ir.Node{n}})
	return ir.Node{Kind: ir.KindHoisted, Span: n.Span, Hoist: idx, Level: n.Level}
}

func elementCount(n *ir.Node) int {
	if n.Kind != ir.KindVNode {
		return 0
	}
	count := 1
	for i := range n.VNode.Children {
		count += elementCount(&n.VNode.Children[i])
	}
	return count
}

func (j *Job) hoistChildren(n *ir.Node) {
	switch n.Kind {
	case ir.KindVNode:
		v := n.VNode
		v.Children = j.hoistList(v.Children, true)
		if v.Slots != nil {
			for i := range v.Slots.Static {
				v.Slots.Static[i].Body = j.hoistList(v.Slots.Static[i].Body, true)
			}
			for i := range v.Slots.Dynamic {
				for k := range v.Slots.Dynamic[i].Branches {
					b := &v.Slots.Dynamic[i].Branches[k]
					b.Body = j.hoistList(b.Body, true)
				}
			}
		}
	case ir.KindIf:
		for i := range n.If.Branches {
			j.hoistChildren(&n.If.Branches[i].Node)
		}
	case ir.KindFor:
		j.hoistChildren(&n.For.Node)
	case ir.KindSlotOutlet:
		n.Outlet.Fallback = j.hoistList(n.Outlet.Fallback, true)
	}
}
