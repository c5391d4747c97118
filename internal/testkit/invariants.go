// Package testkit holds structural checks shared by tests of the template
// pipeline.
package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"vuec/internal/ast"
	"vuec/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed template:
// 1) every span points at sf and lies within its content
// 2) children start no earlier than their parent
// 3) siblings appear in source order
func CheckSpanInvariants(root *ast.Root, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil root or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	c := checker{file: sf.ID, end: lenContent}
	c.nodes(root.Children, source.Span{File: sf.ID, End: lenContent})
	return errors.Join(c.errs...)
}

type checker struct {
	file source.FileID
	end  uint32
	errs []error
}

func (c *checker) span(what string, s source.Span) {
	switch {
	case s.File != c.file:
		c.errs = append(c.errs, fmt.Errorf("%s span points to different file id: got=%d want=%d", what, s.File, c.file))
	case s.Start > s.End:
		c.errs = append(c.errs, fmt.Errorf("%s span is inverted: %v", what, s))
	case s.End > c.end:
		c.errs = append(c.errs, fmt.Errorf("%s span end beyond content: %d > %d", what, s.End, c.end))
	}
}

func (c *checker) nodes(nodes []ast.Node, parent source.Span) {
	var prev uint32
	for i := range nodes {
		n := &nodes[i]
		what := n.Kind.String()
		c.span(what, n.Span)
		if n.Span.Start < parent.Start {
			c.errs = append(c.errs, fmt.Errorf("%s starts before its parent: %d < %d", what, n.Span.Start, parent.Start))
		}
		if i > 0 && n.Span.Start < prev {
			c.errs = append(c.errs, fmt.Errorf("%s out of order: starts at %d, previous sibling at %d", what, n.Span.Start, prev))
		}
		prev = n.Span.Start
		if n.Text != nil {
			c.span(what+" text", n.Text.Span)
		}
		el := n.Element
		if el == nil {
			continue
		}
		c.span("tag "+el.Tag, el.TagSpan)
		for _, a := range el.Attrs {
			c.span("attribute "+a.Name, a.Span)
			if a.Value != nil {
				c.span("attribute value "+a.Name, a.Value.Span)
			}
		}
		for _, d := range el.Directives {
			c.span("directive "+d.RawName, d.Span)
			if d.Expr != nil {
				c.span("directive expression "+d.RawName, d.Expr.Span)
			}
		}
		c.nodes(el.Children, n.Span)
	}
}
