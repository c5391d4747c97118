// Package ir is the render tree between conversion and code generation.
//
// Nodes are kind-tagged: a Node carries a Kind and exactly one payload
// pointer for that kind. Text stays borrowed from the source as vstr.VStr
// until codegen materialises it.
package ir

import (
	"strings"

	"vuec/internal/ast"
	"vuec/internal/flags"
	"vuec/internal/source"
	"vuec/internal/vstr"
)

// Kind enumerates IR node kinds.
type Kind uint8

const (
	// KindText is text and interpolation content.
	KindText Kind = iota + 1
	// KindComment is a comment vnode.
	KindComment
	// KindVNode is an element, component or fragment.
	KindVNode
	// KindIf is a v-if/v-else-if/v-else chain.
	KindIf
	// KindFor is a v-for loop.
	KindFor
	// KindSlotOutlet is a <slot> outlet.
	KindSlotOutlet
	// KindHoisted references Root.Hoists[Hoist].
	KindHoisted
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindVNode:
		return "VNode"
	case KindIf:
		return "If"
	case KindFor:
		return "For"
	case KindSlotOutlet:
		return "SlotOutlet"
	case KindHoisted:
		return "Hoisted"
	}
	return "Invalid"
}

// Node is one renderable child.
type Node struct {
	Kind  Kind
	Span  source.Span
	Level flags.StaticLevel

	Text    *TextCall
	Comment vstr.VStr
	VNode   *VNode
	If      *If
	For     *For
	Outlet  *SlotOutlet
	Hoist   int

	// Structural directives wait here until expand_structural.
	Structural []Structural
}

// TextPart is literal text (Expr == nil) or an interpolation.
type TextPart struct {
	Text vstr.VStr
	Expr *Expr
}

// TextCall is merged text content. Call is set when the text becomes its
// own createTextVNode instead of an element's fast-path text child.
type TextCall struct {
	Parts []TextPart
	Call  bool
	Patch flags.PatchFlag
}

// Dynamic reports whether any interpolation may change between renders.
func (t *TextCall) Dynamic() bool {
	for _, p := range t.Parts {
		if p.Expr != nil && p.Expr.Level == flags.NotStatic {
			return true
		}
	}
	return false
}

// HasInterpolation reports toDisplayString usage.
func (t *TextCall) HasInterpolation() bool {
	for _, p := range t.Parts {
		if p.Expr != nil {
			return true
		}
	}
	return false
}

// VNodeType distinguishes what createVNode receives as its type.
type VNodeType uint8

const (
	VNodeElement VNodeType = iota
	VNodeComponent
	VNodeFragment
)

func (t VNodeType) String() string {
	switch t {
	case VNodeElement:
		return "element"
	case VNodeComponent:
		return "component"
	case VNodeFragment:
		return "fragment"
	}
	return "invalid"
}

// ComponentRef says how a component tag is resolved at runtime.
type ComponentRef uint8

const (
	CompResolved ComponentRef = iota
	CompBuiltin
	CompDynamic
	CompSelf
)

func (r ComponentRef) String() string {
	switch r {
	case CompResolved:
		return "resolved"
	case CompBuiltin:
		return "builtin"
	case CompDynamic:
		return "dynamic"
	case CompSelf:
		return "self"
	}
	return "invalid"
}

// VNode is an element, a component or a fragment.
type VNode struct {
	Type VNodeType
	Tag  vstr.VStr
	NS   ast.Namespace

	Comp    ComponentRef
	Builtin flags.RuntimeHelper
	// Is is the target of <component :is>.
	Is *Expr

	Props      []Prop
	Directives []Directive
	Children   []Node
	Slots      *Slots

	// SlotDir is a v-slot on a component or on a <template> child.
	SlotDir *SlotDirective

	Patch        flags.PatchFlag
	DynamicProps []string
	Block        bool
	// Key is a synthetic key injected by conditional branches.
	Key string
	// Depth is the number of template scopes enclosing the vnode.
	Depth int
}

// IsComponent reports whether the vnode is a component.
func (v *VNode) IsComponent() bool { return v.Type == VNodeComponent }

// Prop looks up a static-named prop.
func (v *VNode) Prop(name string) (*Prop, bool) {
	for i := range v.Props {
		p := &v.Props[i]
		if p.NameExpr == nil && (p.Kind == PropAttr || p.Kind == PropBind) && p.Name.Raw() == name {
			return p, true
		}
	}
	return nil, false
}

// PropKind classifies one entry of a props object.
type PropKind uint8

const (
	// PropAttr is a static attribute.
	PropAttr PropKind = iota
	// PropBind is v-bind:name or :name.
	PropBind
	// PropOn is an event listener.
	PropOn
	// PropSpread is v-bind="object".
	PropSpread
	// PropHandlers is v-on="object".
	PropHandlers
	// PropShow is v-show, rendered into the style binding.
	PropShow
)

func (k PropKind) String() string {
	switch k {
	case PropAttr:
		return "attr"
	case PropBind:
		return "bind"
	case PropOn:
		return "on"
	case PropSpread:
		return "spread"
	case PropHandlers:
		return "handlers"
	case PropShow:
		return "show"
	}
	return "invalid"
}

// Prop is one props object entry.
type Prop struct {
	Kind PropKind
	// Name is the static key. Pending ops (camelize, handler key) apply at
	// emission.
	Name vstr.VStr
	// NameExpr is a dynamic [key].
	NameExpr  *Expr
	Value     vstr.VStr
	Expr      *Expr
	Modifiers []string
	Span      source.Span
}

// Dynamic reports whether the entry has a runtime value or key.
func (p *Prop) Dynamic() bool {
	return p.Kind != PropAttr
}

// Directive is a runtime (custom) directive applied with withDirectives.
type Directive struct {
	Name      string
	Arg       vstr.VStr
	ArgExpr   *Expr
	Expr      *Expr
	Modifiers []string
	Span      source.Span
}

// StructKind enumerates structural directives.
type StructKind uint8

const (
	StructIf StructKind = iota + 1
	StructElseIf
	StructElse
	StructFor
)

func (k StructKind) String() string {
	switch k {
	case StructIf:
		return "v-if"
	case StructElseIf:
		return "v-else-if"
	case StructElse:
		return "v-else"
	case StructFor:
		return "v-for"
	}
	return "invalid"
}

// Structural is a pending v-if/v-else-if/v-else/v-for.
type Structural struct {
	Kind StructKind
	Expr *Expr
	Span source.Span
}

// Branch is one arm of a conditional. Cond is nil for v-else.
type Branch struct {
	Cond *Expr
	Node Node
	Span source.Span
}

// If is a conditional chain.
type If struct {
	Branches []Branch
}

// HasElse reports whether the chain ends with v-else.
func (n *If) HasElse() bool {
	return len(n.Branches) > 0 && n.Branches[len(n.Branches)-1].Cond == nil
}

// Loop is the "alias in source" part of v-for.
type Loop struct {
	Source *Expr
	Value  string
	Key    string
	Index  string
}

// Aliases returns every name the loop binds.
func (l *Loop) Aliases() []string {
	var out []string
	out = append(out, boundNames(l.Value)...)
	out = append(out, boundNames(l.Key)...)
	out = append(out, boundNames(l.Index)...)
	return out
}

// Params renders the callback parameter list.
func (l *Loop) Params() string {
	parts := []string{l.Value, l.Key, l.Index}
	n := len(parts)
	for n > 0 && parts[n-1] == "" {
		n--
	}
	for i := range n {
		if parts[i] == "" {
			parts[i] = strings.Repeat("_", i+2)
		}
	}
	return strings.Join(parts[:n], ", ")
}

// For is a v-for fragment.
type For struct {
	Loop
	Node  Node
	Keyed bool
	Patch flags.PatchFlag
}

// Stable reports whether the list itself never changes.
func (f *For) Stable() bool {
	return f.Source != nil && f.Source.Level.CanSkipPatching()
}

// SlotOutlet is renderSlot for a <slot> element.
type SlotOutlet struct {
	Name     vstr.VStr
	NameExpr *Expr
	Props    []Prop
	Fallback []Node
	Patch    flags.PatchFlag
}

// SlotDirective is the parsed v-slot before slots are built.
type SlotDirective struct {
	Name     vstr.VStr
	NameExpr *Expr
	// Params is the slot props pattern, nil when absent.
	Params *Expr
	Span   source.Span
}

// Slot is one slot function passed to a component.
type Slot struct {
	Name     vstr.VStr
	NameExpr *Expr
	Params   string
	Bound    []string
	Body     []Node
	// Cond is set on conditional slots; nil on the v-else arm.
	Cond *Expr
	Span source.Span
}

// DynamicSlot is a conditional chain of slots or a looped slot.
type DynamicSlot struct {
	Branches []Slot
	Loop     *Loop
}

// Slots are the slot functions of a component.
type Slots struct {
	Static  []Slot
	Dynamic []DynamicSlot
	Flag    flags.SlotFlag
	// Implicit marks a default slot built from plain children.
	Implicit bool
}

// Hoist is module-scope content. A static hoist renders Nodes as one
// createStaticVNode string.
type Hoist struct {
	Nodes  []Node
	Static bool
}

// Asset is a component or directive resolved once per render.
type Asset struct {
	Name string
	Self bool
}

// Root is the whole template.
type Root struct {
	File     *source.File
	Children []Node
	Hoists   []Hoist
	Helpers  flags.HelperCollector

	Components []Asset
	Directives []Asset

	// Fragment is set when several root nodes are wrapped in a fragment.
	Fragment bool
	Patch    flags.PatchFlag
}

// AddComponent registers a component asset once.
func (r *Root) AddComponent(name string, self bool) {
	for _, a := range r.Components {
		if a.Name == name && a.Self == self {
			return
		}
	}
	r.Components = append(r.Components, Asset{Name: name, Self: self})
}

// AddDirective registers a directive asset once.
func (r *Root) AddDirective(name string) {
	for _, a := range r.Directives {
		if a.Name == name {
			return
		}
	}
	r.Directives = append(r.Directives, Asset{Name: name})
}

// AddHoist appends h and returns its index.
func (r *Root) AddHoist(h Hoist) int {
	r.Hoists = append(r.Hoists, h)
	return len(r.Hoists) - 1
}
