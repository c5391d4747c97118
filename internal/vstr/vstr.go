// Package vstr models strings whose transformations are recorded during
// analysis and applied once, when render code is written.
//
// A VStr borrows its text from a source.File (or wraps a literal) and
// carries a set of pending Ops. Every op except SelfSuffix is idempotent, so
// requesting it twice is the same as requesting it once.
package vstr

import (
	"fmt"

	"vuec/internal/source"
)

// VStr is a borrowed string plus pending operations.
type VStr struct {
	file       *source.File
	start, end uint32
	lit        string
	ops        Ops
}

// FromSpan borrows the text of span from f.
func FromSpan(f *source.File, span source.Span) VStr {
	if span.End < span.Start || int(span.End) > len(f.Text) {
		panic(fmt.Sprintf("vstr: span %s out of file bounds", span))
	}
	return VStr{file: f, start: span.Start, end: span.End}
}

// Literal wraps text produced by the compiler itself.
func Literal(s string) VStr {
	return VStr{lit: s}
}

// Raw returns the borrowed, untransformed text.
func (v VStr) Raw() string {
	if v.file != nil {
		return v.file.Text[v.start:v.end]
	}
	return v.lit
}

// Span returns the source range, or false for literals.
func (v VStr) Span() (source.Span, bool) {
	if v.file == nil {
		return source.Span{}, false
	}
	return source.Span{File: v.file.ID, Start: v.start, End: v.end}, true
}

func (v VStr) Ops() Ops { return v.ops }

func (v VStr) IsEmpty() bool { return v.Raw() == "" }

// Decode requests entity decoding. isAttr selects attribute-value rules.
func (v VStr) Decode(isAttr bool) VStr {
	v.ops |= DecodeEntity
	if isAttr {
		v.ops |= IsAttr
	}
	return v
}

func (v VStr) Camelize() VStr {
	v.ops |= CamelCase
	return v
}

// Capitalize requests upper-casing the first rune.
func (v VStr) Capitalize() VStr {
	v.ops |= PascalCase
	return v
}

func (v VStr) CompressWhitespace() VStr {
	v.ops |= CompressWhitespace
	return v
}

// BeHandler turns an event name into a handler key: click -> onClick.
func (v VStr) BeHandler() VStr {
	v.ops |= HandlerKey
	return v
}

// BeAsset turns a component or directive name into a valid identifier.
func (v VStr) BeAsset() VStr {
	v.ops |= ValidAsset
	return v
}

// SuffixSelf appends the self-reference suffix. It may be requested once.
func (v VStr) SuffixSelf() VStr {
	if v.ops.Has(SelfSuffix) {
		panic("vstr: SuffixSelf requested twice for " + v.Raw())
	}
	v.ops |= SelfSuffix
	return v
}

// IsHandler reports whether v names an event handler prop.
func (v VStr) IsHandler() bool {
	return v.ops.Has(HandlerKey) || IsEventProp(v.Raw())
}

// IsEventProp matches the on[^a-z] naming convention.
func IsEventProp(s string) bool {
	return len(s) > 2 && s[0] == 'o' && s[1] == 'n' && (s[2] < 'a' || s[2] > 'z')
}

// String materialises a new string with all pending ops applied.
func (v VStr) String() string {
	s := v.Raw()
	if v.ops == 0 {
		return s
	}
	if v.ops.Has(DecodeEntity) {
		s = decodeEntities(s, v.ops.Has(IsAttr))
	}
	if v.ops.Has(CompressWhitespace) {
		s = compressWhitespace(s)
	}
	if v.ops.Has(CamelCase) {
		s = camelize(s)
	}
	if v.ops.Has(PascalCase) {
		s = capitalize(s)
	}
	if v.ops.Has(HandlerKey) {
		s = handlerKey(s)
	}
	if v.ops.Has(ValidAsset) {
		s = validAsset(s)
	}
	if v.ops.Has(SelfSuffix) {
		s += "__self"
	}
	return s
}

// GoString shows raw text and pending ops, for dumps and test failures.
func (v VStr) GoString() string {
	return fmt.Sprintf("vstr.VStr{%q, %s}", v.Raw(), v.ops)
}
