// Package parser builds an ast.Root from the scanner's token stream.
package parser

import (
	"fmt"
	"iter"
	"strings"

	"vuec/internal/ast"
	"vuec/internal/diag"
	"vuec/internal/source"
	"vuec/internal/token"
)

type openElement struct {
	node  ast.Node
	start source.Span
	pre   bool // <pre> subtree
	vpre  bool // element that started a v-pre subtree
}

// Parser хранит состояние разбора одного файла
type Parser struct {
	file  *source.File
	opts  Options
	stack []openElement
	root  []ast.Node
	inPre int
	vPre  int
}

// Parse consumes toks and returns the template tree of f.
func Parse(f *source.File, toks iter.Seq[token.Token], opts Options) *ast.Root {
	p := &Parser{file: f, opts: opts}
	for tok := range toks {
		if tok.Kind == token.EOF {
			break
		}
		p.consume(tok)
	}
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		p.errorf(diag.PrsMissingEndTag, top.start, "element <%s> is missing end tag", top.node.Element.Tag)
		p.closeTop(top.node.Span.End)
	}
	p.root = p.condense(p.root, false)
	return &ast.Root{File: f, Children: p.root}
}

func (p *Parser) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	if p.opts.Reporter == nil {
		return
	}
	diag.ReportError(p.opts.Reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

func (p *Parser) consume(tok token.Token) {
	switch tok.Kind {
	case token.StartTag:
		p.startTag(tok)
	case token.EndTag:
		p.endTag(tok)
	case token.Text:
		p.appendText(ast.KindText, tok.Content, tok.ContentSpan, tok.Span)
	case token.Interpolation:
		if p.vPre > 0 {
			// внутри v-pre интерполяции остаются обычным текстом
			p.appendText(ast.KindText, p.file.Slice(tok.Span), tok.Span, tok.Span)
			return
		}
		p.appendText(ast.KindInterpolation, tok.Content, tok.ContentSpan, tok.Span)
	case token.Comment:
		if !p.opts.Comments {
			return
		}
		p.appendText(ast.KindComment, tok.Content, tok.ContentSpan, tok.Span)
	}
}

func (p *Parser) children() *[]ast.Node {
	if n := len(p.stack); n > 0 {
		return &p.stack[n-1].node.Element.Children
	}
	return &p.root
}

func (p *Parser) appendText(kind ast.NodeKind, content string, contentSpan, span source.Span) {
	list := p.children()
	// соседние текстовые токены склеиваем
	if kind == ast.KindText && len(*list) > 0 {
		last := &(*list)[len(*list)-1]
		if last.Kind == ast.KindText && last.Span.End == span.Start && last.Text.Span.End == contentSpan.Start {
			last.Span.End = span.End
			last.Text.Span.End = contentSpan.End
			last.Text.Content = p.file.Slice(last.Text.Span)
			return
		}
	}
	*list = append(*list, ast.Node{Kind: kind, Span: span, Text: &ast.Text{Content: content, Span: contentSpan}})
}

func (p *Parser) currentNS() ast.Namespace {
	if n := len(p.stack); n > 0 {
		parent := p.stack[n-1].node.Element
		if parent.NS == ast.NSSVG && parent.Tag == "foreignObject" {
			return ast.NSHTML
		}
		return parent.NS
	}
	return ast.NSHTML
}

func (p *Parser) startTag(tok token.Token) {
	el := &ast.Element{
		Tag:         tok.Name,
		TagSpan:     tok.NameSpan,
		NS:          p.currentNS(),
		SelfClosing: tok.SelfClosing,
		InVPre:      p.vPre > 0,
	}
	switch tok.Name {
	case "svg":
		el.NS = ast.NSSVG
	case "math":
		el.NS = ast.NSMathML
	}

	startsVPre := false
	for _, a := range tok.Attrs {
		if p.vPre == 0 && a.Name == "v-pre" {
			startsVPre = true
			continue
		}
		if p.vPre == 0 && !startsVPre {
			if d, ok := p.parseDirective(a); ok {
				el.Directives = append(el.Directives, d)
				continue
			}
		}
		attr := ast.Attribute{Name: a.Name, NameSpan: a.NameSpan, Span: a.Span}
		if a.HasValue {
			attr.Value = &ast.AttrValue{Content: a.Value, Span: a.ValueSpan}
		}
		el.Attrs = append(el.Attrs, attr)
	}
	if p.vPre == 0 {
		el.Type = p.classify(el)
	}

	node := ast.Node{Kind: ast.KindElement, Span: tok.Span, Element: el}
	if tok.SelfClosing || (el.NS == ast.NSHTML && ast.IsVoidTag(tok.Name)) {
		list := p.children()
		*list = append(*list, node)
		return
	}
	open := openElement{node: node, start: tok.Span, pre: tok.Name == "pre", vpre: startsVPre}
	if open.pre {
		p.inPre++
	}
	if startsVPre {
		p.vPre++
	}
	p.stack = append(p.stack, open)
}

func (p *Parser) endTag(tok token.Token) {
	if ast.IsVoidTag(tok.Name) && p.currentNS() == ast.NSHTML {
		p.errorf(diag.PrsVoidEndTag, tok.Span, "void element <%s> cannot have an end tag", tok.Name)
		return
	}
	for i := len(p.stack) - 1; i >= 0; i-- {
		if !sameTag(p.stack[i].node.Element.Tag, tok.Name) {
			continue
		}
		for len(p.stack)-1 > i {
			top := p.stack[len(p.stack)-1]
			p.errorf(diag.PrsMissingEndTag, top.start, "element <%s> is missing end tag", top.node.Element.Tag)
			p.closeTop(tok.Span.Start)
		}
		p.closeTop(tok.Span.End)
		return
	}
	p.errorf(diag.PrsUnexpectedEndTag, tok.Span, "unexpected end tag </%s>", tok.Name)
}

func (p *Parser) closeTop(end uint32) {
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	el := top.node.Element
	el.Children = p.condense(el.Children, p.inPre > 0)
	if top.pre {
		el.Children = stripLeadingNewline(el.Children)
		p.inPre--
	}
	if top.vpre {
		p.vPre--
	}
	top.node.Span.End = max(end, top.node.Span.End)
	list := p.children()
	*list = append(*list, top.node)
}

func sameTag(open, closing string) bool {
	if open == closing {
		return true
	}
	// HTML теги регистронезависимы
	return ast.IsNativeTag(strings.ToLower(open)) && strings.EqualFold(open, closing)
}

func (p *Parser) classify(el *ast.Element) ast.ElementType {
	tag := el.Tag
	if tag == "slot" {
		return ast.ElementSlot
	}
	if tag == "template" {
		for _, d := range el.Directives {
			if ast.IsStructural(d.Name) {
				return ast.ElementTemplate
			}
		}
		return ast.ElementPlain
	}
	if p.opts.IsCustomElement != nil && p.opts.IsCustomElement(tag) {
		return ast.ElementPlain
	}
	if _, ok := ast.CoreComponent(tag); ok || tag == "component" {
		return ast.ElementComponent
	}
	if is, ok := el.Attr("is"); ok && is.Value != nil && strings.HasPrefix(is.Value.Content, "vue:") {
		return ast.ElementComponent
	}
	if tag != "" && tag[0] >= 'A' && tag[0] <= 'Z' {
		return ast.ElementComponent
	}
	if el.NS != ast.NSHTML || ast.IsNativeTag(tag) {
		return ast.ElementPlain
	}
	return ast.ElementComponent
}
