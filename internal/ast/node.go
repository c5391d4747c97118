// Package ast is the template syntax tree produced by the parser.
//
// Strings in the tree borrow the text of Root.File; nothing is decoded or
// normalised here.
package ast

import (
	"vuec/internal/source"
)

type NodeKind uint8

const (
	KindElement NodeKind = iota + 1
	KindText
	KindInterpolation
	KindComment
)

func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindInterpolation:
		return "Interpolation"
	case KindComment:
		return "Comment"
	}
	return "Invalid"
}

// Node is one child of an element or of the root. Exactly one payload is set:
// Element for KindElement, Text otherwise.
type Node struct {
	Kind    NodeKind
	Span    source.Span
	Element *Element
	Text    *Text
}

// Text carries character data, an interpolation expression or comment body.
type Text struct {
	Content string
	Span    source.Span
	// Condense asks for whitespace compression when materialised.
	Condense bool
}

// Root is a parsed template.
type Root struct {
	File     *source.File
	Children []Node
}

// Walk visits nodes depth-first in document order. Returning false from fn
// skips the children of that node.
func Walk(nodes []Node, fn func(n *Node) bool) {
	for i := range nodes {
		n := &nodes[i]
		if !fn(n) {
			continue
		}
		if n.Element != nil {
			Walk(n.Element.Children, fn)
		}
	}
}
