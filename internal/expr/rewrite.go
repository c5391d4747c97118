package expr

import (
	"regexp"
	"strings"
)

// Rewrite replaces identifier references in src. replace returns the new
// text for an identifier, or false to keep it. Shorthand properties are
// expanded to "name: replacement".
func Rewrite(src string, idents []Ident, replace func(Ident) (string, bool)) string {
	if len(idents) == 0 {
		return src
	}
	var sb strings.Builder
	sb.Grow(len(src) + 8*len(idents))
	last := 0
	for _, id := range idents {
		repl, ok := replace(id)
		if !ok {
			continue
		}
		sb.WriteString(src[last:id.Start])
		if id.Shorthand {
			sb.WriteString(id.Name)
			sb.WriteString(": ")
		}
		sb.WriteString(repl)
		last = id.End
	}
	sb.WriteString(src[last:])
	return sb.String()
}

// Range is a byte range inside the original v-for expression.
type Range struct {
	Start, End int
	Text       string
}

func (r Range) IsZero() bool { return r.Text == "" }

// ForParts is a split "alias in source" expression.
type ForParts struct {
	Source Range
	Value  Range
	Key    Range
	Index  Range
}

var (
	forAliasRE    = regexp.MustCompile(`^([\s\S]*?)\s+(?:in|of)\s+([\s\S]*)$`)
	forIteratorRE = regexp.MustCompile(`,([^,\}\]]*)(?:,([^,\}\]]*))?$`)
)

// ParseFor splits a v-for expression such as "(item, i) in items".
func ParseFor(src string) (ForParts, bool) {
	m := forAliasRE.FindStringSubmatchIndex(src)
	if m == nil {
		return ForParts{}, false
	}
	var parts ForParts
	parts.Source = trimmed(src, m[4], m[5])
	if parts.Source.IsZero() {
		return ForParts{}, false
	}

	lhsStart, lhsEnd := m[2], m[3]
	lhs := src[lhsStart:lhsEnd]
	// strip one pair of wrapping parens
	trimmedLHS := strings.TrimSpace(lhs)
	off := lhsStart + strings.Index(lhs, trimmedLHS)
	if strings.HasPrefix(trimmedLHS, "(") {
		off++
		trimmedLHS = trimmedLHS[1:]
	}
	trimmedLHS = strings.TrimSuffix(trimmedLHS, ")")

	valueEnd := len(trimmedLHS)
	if it := forIteratorRE.FindStringSubmatchIndex(trimmedLHS); it != nil {
		valueEnd = it[0]
		parts.Key = trimmed(src, off+it[2], off+it[3])
		if it[4] >= 0 {
			parts.Index = trimmed(src, off+it[4], off+it[5])
		}
	}
	parts.Value = trimmed(src, off, off+valueEnd)
	return parts, true
}

func trimmed(src string, start, end int) Range {
	if start < 0 || end < start {
		return Range{}
	}
	s := src[start:end]
	t := strings.TrimSpace(s)
	if t == "" {
		return Range{}
	}
	lead := strings.Index(s, t)
	return Range{Start: start + lead, End: start + lead + len(t), Text: t}
}
