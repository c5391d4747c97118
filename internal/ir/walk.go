package ir

import "vuec/internal/expr"

// Walk visits nodes depth-first in render order. Returning false skips the
// children of a node. Hoisted content is not visited.
func Walk(nodes []Node, fn func(n *Node) bool) {
	for i := range nodes {
		walkNode(&nodes[i], fn)
	}
}

func walkNode(n *Node, fn func(n *Node) bool) {
	if !fn(n) {
		return
	}
	switch n.Kind {
	case KindVNode:
		Walk(n.VNode.Children, fn)
		if s := n.VNode.Slots; s != nil {
			for i := range s.Static {
				Walk(s.Static[i].Body, fn)
			}
			for i := range s.Dynamic {
				for j := range s.Dynamic[i].Branches {
					Walk(s.Dynamic[i].Branches[j].Body, fn)
				}
			}
		}
	case KindIf:
		for i := range n.If.Branches {
			walkNode(&n.If.Branches[i].Node, fn)
		}
	case KindFor:
		walkNode(&n.For.Node, fn)
	case KindSlotOutlet:
		Walk(n.Outlet.Fallback, fn)
	}
}

// Exprs yields every expression owned directly by n, not its children.
func Exprs(n *Node, fn func(e *Expr)) {
	visitProps := func(props []Prop) {
		for i := range props {
			if props[i].NameExpr != nil {
				fn(props[i].NameExpr)
			}
			if props[i].Expr != nil {
				fn(props[i].Expr)
			}
		}
	}
	switch n.Kind {
	case KindText:
		for _, p := range n.Text.Parts {
			if p.Expr != nil {
				fn(p.Expr)
			}
		}
	case KindVNode:
		v := n.VNode
		if v.Is != nil {
			fn(v.Is)
		}
		visitProps(v.Props)
		for i := range v.Directives {
			if v.Directives[i].ArgExpr != nil {
				fn(v.Directives[i].ArgExpr)
			}
			if v.Directives[i].Expr != nil {
				fn(v.Directives[i].Expr)
			}
		}
	case KindIf:
		for _, b := range n.If.Branches {
			if b.Cond != nil {
				fn(b.Cond)
			}
		}
	case KindFor:
		fn(n.For.Source)
	case KindSlotOutlet:
		if n.Outlet.NameExpr != nil {
			fn(n.Outlet.NameExpr)
		}
		visitProps(n.Outlet.Props)
	}
}

func boundNames(pattern string) []string {
	if pattern == "" {
		return nil
	}
	return expr.BoundNames(pattern)
}
