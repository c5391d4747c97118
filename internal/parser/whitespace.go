package parser

import (
	"strings"

	"vuec/internal/ast"
)

func isBlank(s string) bool {
	return strings.TrimLeft(s, " \t\n\r\f") == ""
}

// condense drops or compresses whitespace-only text between nodes.
func (p *Parser) condense(nodes []ast.Node, inPre bool) []ast.Node {
	if inPre {
		return nodes
	}
	shouldCondense := p.opts.Whitespace == WhitespaceCondense
	out := nodes[:0]
	for i := range nodes {
		n := nodes[i]
		if n.Kind != ast.KindText {
			out = append(out, n)
			continue
		}
		if !isBlank(n.Text.Content) {
			n.Text.Condense = shouldCondense
			out = append(out, n)
			continue
		}
		var prev, next *ast.Node
		if len(out) > 0 {
			prev = &out[len(out)-1]
		}
		if i+1 < len(nodes) {
			next = &nodes[i+1]
		}
		if prev == nil || next == nil || shouldCondense && dropBetween(prev, next, n.Text.Content) {
			continue
		}
		n.Text.Condense = true
		out = append(out, n)
	}
	return out
}

func dropBetween(prev, next *ast.Node, ws string) bool {
	pc, nc := prev.Kind == ast.KindComment, next.Kind == ast.KindComment
	pe, ne := prev.Kind == ast.KindElement, next.Kind == ast.KindElement
	switch {
	case pc && nc, pc && ne, pe && nc:
		return true
	case pe && ne:
		return strings.ContainsAny(ws, "\n\r")
	}
	return false
}

// stripLeadingNewline drops the newline right after <pre>.
func stripLeadingNewline(nodes []ast.Node) []ast.Node {
	if len(nodes) == 0 || nodes[0].Kind != ast.KindText || !strings.HasPrefix(nodes[0].Text.Content, "\n") {
		return nodes
	}
	t := nodes[0].Text
	t.Content = t.Content[1:]
	t.Span.Start++
	nodes[0].Span.Start++
	if t.Content == "" {
		return nodes[1:]
	}
	return nodes
}
