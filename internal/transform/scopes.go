package transform

import (
	"vuec/internal/expr"
	"vuec/internal/ir"
)

// resolver tracks the template scopes (v-for aliases, slot props) around
// the node being visited.
type resolver struct {
	j      *Job
	scopes []map[string]bool
}

func resolveScopes(j *Job) {
	r := &resolver{j: j}
	r.list(j.Root.Children)
}

func (r *resolver) push(names []string) {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	r.scopes = append(r.scopes, m)
}

func (r *resolver) pop() { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *resolver) lookup(name string) int {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if r.scopes[i][name] {
			return i + 1
		}
	}
	return 0
}

func (r *resolver) expr(e *ir.Expr) {
	if e == nil {
		return
	}
	e.Depth = make([]int, len(e.Info.Idents))
	for i, id := range e.Info.Idents {
		d := r.lookup(id.Name)
		if d == 0 && e.Handler && id.Name == "$event" {
			d = len(r.scopes) + 1
		}
		e.Depth[i] = d
	}
	e.Level = ExprLevel(e, r.j.known)
}

func (r *resolver) list(nodes []ir.Node) {
	for i := range nodes {
		r.node(&nodes[i])
	}
}

func (r *resolver) props(props []ir.Prop) {
	for i := range props {
		r.expr(props[i].NameExpr)
		r.expr(props[i].Expr)
	}
}

func (r *resolver) node(n *ir.Node) {
	switch n.Kind {
	case ir.KindText:
		for _, p := range n.Text.Parts {
			r.expr(p.Expr)
		}
	case ir.KindVNode:
		v := n.VNode
		v.Depth = len(r.scopes)
		r.expr(v.Is)
		r.props(v.Props)
		for i := range v.Directives {
			r.expr(v.Directives[i].ArgExpr)
			r.expr(v.Directives[i].Expr)
		}
		if sd := v.SlotDir; sd != nil {
			r.expr(sd.NameExpr)
			var names []string
			if sd.Params != nil {
				names = expr.BoundNames(sd.Params.Content)
			}
			r.push(names)
			r.list(v.Children)
			r.pop()
			return
		}
		r.list(v.Children)
	case ir.KindIf:
		for i := range n.If.Branches {
			b := &n.If.Branches[i]
			r.expr(b.Cond)
			r.node(&b.Node)
		}
	case ir.KindFor:
		f := n.For
		r.expr(f.Source)
		r.push(f.Aliases())
		r.node(&f.Node)
		r.pop()
	case ir.KindSlotOutlet:
		o := n.Outlet
		r.expr(o.NameExpr)
		r.props(o.Props)
		r.list(o.Fallback)
	}
}
