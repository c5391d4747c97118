// Package scanner splits a template into tags, text, interpolations and
// comments. It never fails: problems are reported and scanning continues.
package scanner

import (
	"iter"
	"strings"

	"vuec/internal/diag"
	"vuec/internal/source"
	"vuec/internal/token"
)

// rawTextTags hold unparsed text until their end tag.
var rawTextTags = map[string]bool{"script": true, "style": true, "textarea": true, "title": true}

type Scanner struct {
	cur        Cursor
	opts       Options
	open, shut string
	rawTag     string // pending raw-text element
	done       bool
}

// New prepares a scanner over f.
func New(f *source.File, opts Options) *Scanner {
	s := &Scanner{cur: NewCursor(f), opts: opts}
	s.open, s.shut = opts.delimiters()
	return s
}

// Scan lazily yields the tokens of f. The sequence always ends with EOF.
func Scan(f *source.File, opts Options) iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		s := New(f, opts)
		for {
			tok := s.Next()
			if !yield(tok) || tok.Kind == token.EOF {
				return
			}
		}
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (s *Scanner) Next() token.Token {
	c := &s.cur
	if c.EOF() {
		return token.Token{Kind: token.EOF, Span: c.SpanFrom(c.Mark())}
	}
	if s.rawTag != "" {
		tag := s.rawTag
		s.rawTag = ""
		if tok, ok := s.rawText(tag); ok {
			return tok
		}
	}
	if c.HasPrefix(s.open) {
		return s.interpolation()
	}
	if c.Peek() == '<' {
		next := c.PeekAt(1)
		switch {
		case next == '!':
			return s.comment()
		case next == '/':
			if tok, ok := s.endTag(); ok {
				return tok
			}
			return s.Next()
		case isTagStart(next):
			return s.startTag()
		}
	}
	return s.text()
}

func (s *Scanner) report(code diag.Code, sp source.Span, msg string) {
	if s.opts.Reporter != nil {
		diag.ReportError(s.opts.Reporter, code, sp, msg).Emit()
	}
}

func (s *Scanner) text() token.Token {
	c := &s.cur
	m := c.Mark()
	c.Bump()
	for !c.EOF() {
		if c.HasPrefix(s.open) {
			break
		}
		if c.Peek() == '<' {
			n := c.PeekAt(1)
			if n == '!' || n == '/' || isTagStart(n) {
				break
			}
		}
		c.Bump()
	}
	sp := c.SpanFrom(m)
	return token.Token{Kind: token.Text, Span: sp, Content: c.Text(m), ContentSpan: sp}
}

func (s *Scanner) interpolation() token.Token {
	c := &s.cur
	m := c.Mark()
	c.Advance(uint32(len(s.open)))
	inner := c.Mark()
	if !c.SkipTo(s.shut) {
		sp := c.SpanFrom(m)
		s.report(diag.ScnUnterminatedInterp, sp, "interpolation is missing closing "+s.shut)
		return token.Token{Kind: token.Text, Span: sp, Content: c.Text(m), ContentSpan: sp}
	}
	content, contentSpan := c.Text(inner), c.SpanFrom(inner)
	c.Advance(uint32(len(s.shut)))
	return token.Token{Kind: token.Interpolation, Span: c.SpanFrom(m), Content: content, ContentSpan: contentSpan}
}

func (s *Scanner) comment() token.Token {
	c := &s.cur
	m := c.Mark()
	if c.HasPrefix("<!--") {
		c.Advance(4)
		inner := c.Mark()
		if !c.SkipTo("-->") {
			sp := c.SpanFrom(m)
			s.report(diag.ScnUnterminatedComment, sp, "comment is not closed with -->")
			return token.Token{Kind: token.Comment, Span: sp, Content: c.Text(inner), ContentSpan: c.SpanFrom(inner)}
		}
		content, contentSpan := c.Text(inner), c.SpanFrom(inner)
		c.Advance(3)
		return token.Token{Kind: token.Comment, Span: c.SpanFrom(m), Content: content, ContentSpan: contentSpan}
	}
	// <!DOCTYPE ...>, <![CDATA[...]]> и прочее читаем как bogus comment
	c.Advance(2)
	inner := c.Mark()
	c.SkipTo(">")
	content, contentSpan := c.Text(inner), c.SpanFrom(inner)
	c.Advance(1)
	return token.Token{Kind: token.Comment, Span: c.SpanFrom(m), Content: content, ContentSpan: contentSpan}
}

func (s *Scanner) tagName() (string, source.Span) {
	c := &s.cur
	m := c.Mark()
	for !c.EOF() {
		b := c.Peek()
		if isSpace(b) || b == '/' || b == '>' {
			break
		}
		c.Bump()
	}
	return c.Text(m), c.SpanFrom(m)
}

func (s *Scanner) endTag() (token.Token, bool) {
	c := &s.cur
	m := c.Mark()
	c.Advance(2)
	if c.Peek() == '>' {
		c.Advance(1)
		s.report(diag.ScnMissingTagName, c.SpanFrom(m), "end tag name is missing")
		return token.Token{}, false
	}
	if !isTagStart(c.Peek()) {
		// </ 1> и подобное тоже bogus comment
		inner := c.Mark()
		c.SkipTo(">")
		content, contentSpan := c.Text(inner), c.SpanFrom(inner)
		c.Advance(1)
		s.report(diag.ScnMissingTagName, c.SpanFrom(m), "invalid first character of tag name")
		return token.Token{Kind: token.Comment, Span: c.SpanFrom(m), Content: content, ContentSpan: contentSpan}, true
	}
	name, nameSpan := s.tagName()
	if !c.SkipTo(">") {
		s.report(diag.ScnEOFInTag, c.SpanFrom(m), "unexpected end of file in end tag </"+name+">")
	} else {
		c.Advance(1)
	}
	return token.Token{Kind: token.EndTag, Span: c.SpanFrom(m), Name: name, NameSpan: nameSpan}, true
}

func (s *Scanner) startTag() token.Token {
	c := &s.cur
	m := c.Mark()
	c.Advance(1)
	name, nameSpan := s.tagName()
	tok := token.Token{Kind: token.StartTag, Name: name, NameSpan: nameSpan}
	seen := make(map[string]bool)

	for {
		c.SkipSpaces()
		if c.EOF() {
			s.report(diag.ScnEOFInTag, c.SpanFrom(m), "unexpected end of file in tag <"+name+">")
			break
		}
		b := c.Peek()
		if b == '>' {
			c.Advance(1)
			break
		}
		if b == '/' {
			if c.PeekAt(1) == '>' {
				c.Advance(2)
				tok.SelfClosing = true
				break
			}
			sm := c.Mark()
			c.Advance(1)
			s.report(diag.ScnUnexpectedSolidusInTag, c.SpanFrom(sm), "unexpected '/' in tag")
			continue
		}
		attr := s.attribute()
		if seen[attr.Name] {
			s.report(diag.ScnDuplicateAttribute, attr.NameSpan, "duplicate attribute "+attr.Name)
			continue
		}
		seen[attr.Name] = true
		tok.Attrs = append(tok.Attrs, attr)
	}
	tok.Span = c.SpanFrom(m)
	if !tok.SelfClosing && rawTextTags[strings.ToLower(name)] {
		s.rawTag = name
	}
	return tok
}

func (s *Scanner) attribute() token.Attr {
	c := &s.cur
	m := c.Mark()
	// первый символ берём всегда, даже '=' (как в HTML)
	c.Bump()
	for !c.EOF() {
		b := c.Peek()
		if isSpace(b) || b == '/' && c.PeekAt(1) == '>' || b == '>' || b == '=' {
			break
		}
		if b == '"' || b == '\'' || b == '<' {
			sp := source.Span{File: c.File.ID, Start: c.Off, End: c.Off + 1}
			s.report(diag.ScnUnexpectedCharInAttr, sp, "unexpected character in attribute name")
		}
		c.Bump()
	}
	attr := token.Attr{Name: c.Text(m), NameSpan: c.SpanFrom(m)}

	save := c.Off
	c.SkipSpaces()
	if c.Peek() != '=' {
		c.Off = save
		attr.Span = attr.NameSpan
		return attr
	}
	c.Advance(1)
	c.SkipSpaces()
	attr.HasValue = true

	switch q := c.Peek(); {
	case q == '"' || q == '\'':
		c.Advance(1)
		vm := c.Mark()
		attr.Quote = q
		if !c.SkipTo(string(q)) {
			s.report(diag.ScnUnterminatedAttrValue, c.SpanFrom(vm), "attribute value is not closed")
		}
		attr.Value, attr.ValueSpan = c.Text(vm), c.SpanFrom(vm)
		c.Advance(1)
	case q == '>' || c.EOF():
		s.report(diag.ScnMissingAttributeValue, c.SpanFrom(m), "missing attribute value")
		attr.ValueSpan = c.SpanFrom(c.Mark())
	default:
		vm := c.Mark()
		for !c.EOF() && !isSpace(c.Peek()) && c.Peek() != '>' {
			c.Bump()
		}
		attr.Value, attr.ValueSpan = c.Text(vm), c.SpanFrom(vm)
	}
	attr.Span = c.SpanFrom(m)
	return attr
}

func (s *Scanner) rawText(tag string) (token.Token, bool) {
	c := &s.cur
	m := c.Mark()
	rest := c.Rest()
	idx := indexEndTag(rest, tag)
	if idx == 0 {
		return token.Token{}, false
	}
	if idx < 0 {
		idx = len(rest)
	}
	c.Advance(uint32(idx))
	sp := c.SpanFrom(m)
	return token.Token{Kind: token.Text, Span: sp, Content: c.Text(m), ContentSpan: sp}, true
}

// indexEndTag finds "</tag" case-insensitively.
func indexEndTag(s, tag string) int {
	for off := 0; ; {
		i := strings.Index(s[off:], "</")
		if i < 0 {
			return -1
		}
		i += off
		if j := i + 2 + len(tag); j <= len(s) && strings.EqualFold(s[i+2:j], tag) {
			return i
		}
		off = i + 2
	}
}
