package token

import (
	"vuec/internal/source"
)

// Attr is one attribute of a start tag. Name and Value borrow the file text.
type Attr struct {
	Name      string
	NameSpan  source.Span
	Value     string // without quotes
	ValueSpan source.Span
	HasValue  bool
	Quote     byte // '"', '\'' or 0 when unquoted
	Span      source.Span
}

// Token represents a single template token.
type Token struct {
	Kind Kind
	Span source.Span

	// StartTag / EndTag
	Name        string
	NameSpan    source.Span
	Attrs       []Attr
	SelfClosing bool

	// Text, Interpolation and Comment: the raw content and its span.
	Content     string
	ContentSpan source.Span
}

// IsTag reports whether the token opens or closes an element.
func (t Token) IsTag() bool { return t.Kind == StartTag || t.Kind == EndTag }

// Attr returns the first attribute called name.
func (t Token) Attr(name string) (Attr, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}
