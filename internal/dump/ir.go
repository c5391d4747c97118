package dump

import (
	"vuec/internal/flags"
	"vuec/internal/ir"
	"vuec/internal/vstr"
)

// Str shows a deferred string as its raw text plus pending op names.
type Str struct {
	Raw string   `json:"raw" yaml:"raw"`
	Ops []string `json:"ops,omitempty" yaml:"ops,omitempty"`
}

func str(v vstr.VStr) *Str {
	return &Str{Raw: v.Raw(), Ops: v.Ops().Names()}
}

func optStr(v vstr.VStr) *Str {
	if v.IsEmpty() && v.Ops() == 0 {
		return nil
	}
	return str(v)
}

type Expr struct {
	Content string   `json:"content" yaml:"content"`
	Level   string   `json:"level" yaml:"level"`
	Free    []string `json:"free,omitempty" yaml:"free,omitempty"`
	Scoped  []string `json:"scoped,omitempty" yaml:"scoped,omitempty"`
	Handler bool     `json:"handler,omitempty" yaml:"handler,omitempty"`
}

func expr(e *ir.Expr) *Expr {
	if e == nil {
		return nil
	}
	v := &Expr{Content: e.Content, Level: e.Level.String(), Handler: e.Handler}
	for i, id := range e.Info.Idents {
		if e.Scoped(i) {
			v.Scoped = append(v.Scoped, id.Name)
		} else {
			v.Free = append(v.Free, id.Name)
		}
	}
	return v
}

// Patch is a patch flag with its runtime value and bit names.
type Patch struct {
	Value int32    `json:"value" yaml:"value"`
	Names []string `json:"names,omitempty" yaml:"names,omitempty"`
}

func patch(f flags.PatchFlag) *Patch {
	if f.IsZero() {
		return nil
	}
	return &Patch{Value: f.Value(), Names: f.Names()}
}

type Prop struct {
	Kind      string   `json:"kind" yaml:"kind"`
	Name      *Str     `json:"name,omitempty" yaml:"name,omitempty"`
	NameExpr  *Expr    `json:"name_expr,omitempty" yaml:"name_expr,omitempty"`
	Value     *Str     `json:"value,omitempty" yaml:"value,omitempty"`
	Expr      *Expr    `json:"expr,omitempty" yaml:"expr,omitempty"`
	Modifiers []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

func props(ps []ir.Prop) []Prop {
	var out []Prop
	for i := range ps {
		p := &ps[i]
		v := Prop{Kind: p.Kind.String(), Name: optStr(p.Name), NameExpr: expr(p.NameExpr), Expr: expr(p.Expr), Modifiers: p.Modifiers}
		if p.Kind == ir.PropAttr {
			v.Value = str(p.Value)
		}
		out = append(out, v)
	}
	return out
}

type IRDirective struct {
	Name      string   `json:"name" yaml:"name"`
	Arg       *Str     `json:"arg,omitempty" yaml:"arg,omitempty"`
	ArgExpr   *Expr    `json:"arg_expr,omitempty" yaml:"arg_expr,omitempty"`
	Expr      *Expr    `json:"expr,omitempty" yaml:"expr,omitempty"`
	Modifiers []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

type Slot struct {
	Name     *Str     `json:"name,omitempty" yaml:"name,omitempty"`
	NameExpr *Expr    `json:"name_expr,omitempty" yaml:"name_expr,omitempty"`
	Params   string   `json:"params,omitempty" yaml:"params,omitempty"`
	Cond     *Expr    `json:"cond,omitempty" yaml:"cond,omitempty"`
	Body     []IRNode `json:"body,omitempty" yaml:"body,omitempty"`
}

type DynamicSlot struct {
	Loop     *Loop  `json:"loop,omitempty" yaml:"loop,omitempty"`
	Branches []Slot `json:"branches" yaml:"branches"`
}

type Slots struct {
	Flag     string        `json:"flag" yaml:"flag"`
	Implicit bool          `json:"implicit,omitempty" yaml:"implicit,omitempty"`
	Static   []Slot        `json:"static,omitempty" yaml:"static,omitempty"`
	Dynamic  []DynamicSlot `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
}

func slot(s *ir.Slot) Slot {
	return Slot{Name: optStr(s.Name), NameExpr: expr(s.NameExpr), Params: s.Params, Cond: expr(s.Cond), Body: irNodes(s.Body)}
}

type VNode struct {
	Type         string        `json:"type" yaml:"type"`
	Tag          *Str          `json:"tag,omitempty" yaml:"tag,omitempty"`
	Comp         string        `json:"comp,omitempty" yaml:"comp,omitempty"`
	Builtin      string        `json:"builtin,omitempty" yaml:"builtin,omitempty"`
	Is           *Expr         `json:"is,omitempty" yaml:"is,omitempty"`
	Props        []Prop        `json:"props,omitempty" yaml:"props,omitempty"`
	Directives   []IRDirective `json:"directives,omitempty" yaml:"directives,omitempty"`
	Patch        *Patch        `json:"patch,omitempty" yaml:"patch,omitempty"`
	DynamicProps []string      `json:"dynamic_props,omitempty" yaml:"dynamic_props,omitempty"`
	Block        bool          `json:"block,omitempty" yaml:"block,omitempty"`
	Key          string        `json:"key,omitempty" yaml:"key,omitempty"`
	Slots        *Slots        `json:"slots,omitempty" yaml:"slots,omitempty"`
	Children     []IRNode      `json:"children,omitempty" yaml:"children,omitempty"`
}

func vnode(v *ir.VNode) *VNode {
	out := &VNode{
		Type:         v.Type.String(),
		Tag:          optStr(v.Tag),
		Is:           expr(v.Is),
		Props:        props(v.Props),
		Patch:        patch(v.Patch),
		DynamicProps: v.DynamicProps,
		Block:        v.Block,
		Key:          v.Key,
		Children:     irNodes(v.Children),
	}
	if v.IsComponent() {
		out.Comp = v.Comp.String()
		if v.Comp == ir.CompBuiltin {
			out.Builtin = v.Builtin.String()
		}
	}
	for i := range v.Directives {
		d := &v.Directives[i]
		out.Directives = append(out.Directives, IRDirective{Name: d.Name, Arg: optStr(d.Arg), ArgExpr: expr(d.ArgExpr), Expr: expr(d.Expr), Modifiers: d.Modifiers})
	}
	if s := v.Slots; s != nil {
		sv := &Slots{Flag: s.Flag.String(), Implicit: s.Implicit}
		for i := range s.Static {
			sv.Static = append(sv.Static, slot(&s.Static[i]))
		}
		for i := range s.Dynamic {
			ds := &s.Dynamic[i]
			dv := DynamicSlot{}
			if ds.Loop != nil {
				dv.Loop = loop(ds.Loop)
			}
			for k := range ds.Branches {
				dv.Branches = append(dv.Branches, slot(&ds.Branches[k]))
			}
			sv.Dynamic = append(sv.Dynamic, dv)
		}
		out.Slots = sv
	}
	return out
}

type Loop struct {
	Source *Expr  `json:"source" yaml:"source"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	Key    string `json:"key,omitempty" yaml:"key,omitempty"`
	Index  string `json:"index,omitempty" yaml:"index,omitempty"`
}

func loop(l *ir.Loop) *Loop {
	return &Loop{Source: expr(l.Source), Value: l.Value, Key: l.Key, Index: l.Index}
}

type For struct {
	Loop  *Loop  `json:"loop" yaml:"loop"`
	Keyed bool   `json:"keyed,omitempty" yaml:"keyed,omitempty"`
	Patch *Patch `json:"patch,omitempty" yaml:"patch,omitempty"`
	Node  IRNode `json:"node" yaml:"node"`
}

type Branch struct {
	Cond *Expr  `json:"cond,omitempty" yaml:"cond,omitempty"`
	Node IRNode `json:"node" yaml:"node"`
}

type TextPart struct {
	Text *Str  `json:"text,omitempty" yaml:"text,omitempty"`
	Expr *Expr `json:"expr,omitempty" yaml:"expr,omitempty"`
}

type Text struct {
	Parts []TextPart `json:"parts" yaml:"parts"`
	Call  bool       `json:"call,omitempty" yaml:"call,omitempty"`
	Patch *Patch     `json:"patch,omitempty" yaml:"patch,omitempty"`
}

type Outlet struct {
	Name     *Str     `json:"name,omitempty" yaml:"name,omitempty"`
	NameExpr *Expr    `json:"name_expr,omitempty" yaml:"name_expr,omitempty"`
	Props    []Prop   `json:"props,omitempty" yaml:"props,omitempty"`
	Patch    *Patch   `json:"patch,omitempty" yaml:"patch,omitempty"`
	Fallback []IRNode `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

type Structural struct {
	Kind string `json:"kind" yaml:"kind"`
	Expr *Expr  `json:"expr,omitempty" yaml:"expr,omitempty"`
}

type IRNode struct {
	Kind       string       `json:"kind" yaml:"kind"`
	Span       string       `json:"span" yaml:"span"`
	Level      string       `json:"level" yaml:"level"`
	Text       *Text        `json:"text,omitempty" yaml:"text,omitempty"`
	Comment    *Str         `json:"comment,omitempty" yaml:"comment,omitempty"`
	VNode      *VNode       `json:"vnode,omitempty" yaml:"vnode,omitempty"`
	If         []Branch     `json:"if,omitempty" yaml:"if,omitempty"`
	For        *For         `json:"for,omitempty" yaml:"for,omitempty"`
	Outlet     *Outlet      `json:"outlet,omitempty" yaml:"outlet,omitempty"`
	Hoist      *int         `json:"hoist,omitempty" yaml:"hoist,omitempty"`
	Structural []Structural `json:"structural,omitempty" yaml:"structural,omitempty"`
}

func irNodes(nodes []ir.Node) []IRNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]IRNode, 0, len(nodes))
	for i := range nodes {
		out = append(out, irNode(&nodes[i]))
	}
	return out
}

func irNode(n *ir.Node) IRNode {
	v := IRNode{Kind: n.Kind.String(), Span: span(n.Span), Level: n.Level.String()}
	for _, st := range n.Structural {
		v.Structural = append(v.Structural, Structural{Kind: st.Kind.String(), Expr: expr(st.Expr)})
	}
	switch n.Kind {
	case ir.KindText:
		t := &Text{Call: n.Text.Call, Patch: patch(n.Text.Patch)}
		for _, p := range n.Text.Parts {
			if p.Expr != nil {
				t.Parts = append(t.Parts, TextPart{Expr: expr(p.Expr)})
				continue
			}
			t.Parts = append(t.Parts, TextPart{Text: str(p.Text)})
		}
		v.Text = t
	case ir.KindComment:
		v.Comment = str(n.Comment)
	case ir.KindVNode:
		v.VNode = vnode(n.VNode)
	case ir.KindIf:
		for i := range n.If.Branches {
			b := &n.If.Branches[i]
			v.If = append(v.If, Branch{Cond: expr(b.Cond), Node: irNode(&b.Node)})
		}
	case ir.KindFor:
		f := n.For
		v.For = &For{Loop: loop(&f.Loop), Keyed: f.Keyed, Patch: patch(f.Patch), Node: irNode(&f.Node)}
	case ir.KindSlotOutlet:
		o := n.Outlet
		v.Outlet = &Outlet{Name: optStr(o.Name), NameExpr: expr(o.NameExpr), Props: props(o.Props), Patch: patch(o.Patch), Fallback: irNodes(o.Fallback)}
	case ir.KindHoisted:
		idx := n.Hoist
		v.Hoist = &idx
	}
	return v
}

type Hoist struct {
	Static bool     `json:"static,omitempty" yaml:"static,omitempty"`
	Nodes  []IRNode `json:"nodes" yaml:"nodes"`
}

type Asset struct {
	Name string `json:"name" yaml:"name"`
	Self bool   `json:"self,omitempty" yaml:"self,omitempty"`
}

// Root is the IR view. Helpers list the collector in emission order.
type Root struct {
	Helpers    []string `json:"helpers" yaml:"helpers"`
	Components []Asset  `json:"components,omitempty" yaml:"components,omitempty"`
	Directives []string `json:"directives,omitempty" yaml:"directives,omitempty"`
	Fragment   bool     `json:"fragment,omitempty" yaml:"fragment,omitempty"`
	Patch      *Patch   `json:"patch,omitempty" yaml:"patch,omitempty"`
	Hoists     []Hoist  `json:"hoists,omitempty" yaml:"hoists,omitempty"`
	Children   []IRNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// IR mirrors an IR root. custom names the custom helper range; unnamed ids
// show as helper#N.
func IR(root *ir.Root, custom []string) Root {
	out := Root{Helpers: []string{}, Fragment: root.Fragment, Patch: patch(root.Patch), Children: irNodes(root.Children)}
	for h := range root.Helpers.All() {
		name, err := h.Name(custom)
		if err != nil {
			name = h.String()
		}
		out.Helpers = append(out.Helpers, name)
	}
	for _, a := range root.Components {
		out.Components = append(out.Components, Asset{Name: a.Name, Self: a.Self})
	}
	for _, d := range root.Directives {
		out.Directives = append(out.Directives, d.Name)
	}
	for _, h := range root.Hoists {
		out.Hoists = append(out.Hoists, Hoist{Static: h.Static, Nodes: irNodes(h.Nodes)})
	}
	return out
}
