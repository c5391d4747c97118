package ast

import (
	"vuec/internal/source"
)

// ElementType classifies how an element compiles.
type ElementType uint8

const (
	ElementPlain ElementType = iota
	ElementComponent
	// ElementTemplate is a <template> carrying a structural directive.
	ElementTemplate
	// ElementSlot is a <slot> outlet.
	ElementSlot
)

func (t ElementType) String() string {
	switch t {
	case ElementPlain:
		return "plain"
	case ElementComponent:
		return "component"
	case ElementTemplate:
		return "template"
	case ElementSlot:
		return "slot"
	}
	return "invalid"
}

// Namespace of an element and its children.
type Namespace uint8

const (
	NSHTML Namespace = iota
	NSSVG
	NSMathML
)

func (ns Namespace) String() string {
	switch ns {
	case NSSVG:
		return "svg"
	case NSMathML:
		return "math"
	}
	return "html"
}

type Element struct {
	Tag         string
	TagSpan     source.Span
	Type        ElementType
	NS          Namespace
	Attrs       []Attribute
	Directives  []Directive
	Children    []Node
	SelfClosing bool
	// InVPre marks elements inside a v-pre subtree; they compile verbatim.
	InVPre bool
}

// Attribute is a plain attribute: name="value".
type Attribute struct {
	Name     string
	NameSpan source.Span
	Value    *AttrValue
	Span     source.Span
}

type AttrValue struct {
	Content string
	Span    source.Span
}

// Directive is v-name:arg.mod="expr" including the :, @, # and . shorthands.
type Directive struct {
	// Name without the v- prefix: bind, on, if, for, slot, model, ...
	Name       string
	RawName    string
	NameSpan   source.Span
	Arg        string
	ArgSpan    source.Span
	ArgDynamic bool
	Modifiers  []string
	Expr       *AttrValue
	Span       source.Span
}

// HasModifier reports whether mod was written on the directive.
func (d *Directive) HasModifier(mod string) bool {
	for _, m := range d.Modifiers {
		if m == mod {
			return true
		}
	}
	return false
}

// Directive returns the first directive called name.
func (e *Element) Directive(name string) (*Directive, bool) {
	for i := range e.Directives {
		if e.Directives[i].Name == name {
			return &e.Directives[i], true
		}
	}
	return nil, false
}

// Attr returns the first plain attribute called name.
func (e *Element) Attr(name string) (*Attribute, bool) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			return &e.Attrs[i], true
		}
	}
	return nil, false
}

// BoundAttr returns a ':name' / 'v-bind:name' directive with a static argument.
func (e *Element) BoundAttr(name string) (*Directive, bool) {
	for i := range e.Directives {
		d := &e.Directives[i]
		if d.Name == "bind" && !d.ArgDynamic && d.Arg == name {
			return d, true
		}
	}
	return nil, false
}

// IsStructural reports directives that change the tree shape.
func IsStructural(name string) bool {
	switch name {
	case "if", "else-if", "else", "for", "slot":
		return true
	}
	return false
}
