package vstr

import (
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

func isASCIISpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isWord(c byte) bool {
	return isAlnum(c) || c == '_'
}

func compressWhitespace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isASCIISpace(c) {
			if !inSpace {
				sb.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		sb.WriteByte(c)
	}
	return sb.String()
}

// camelize: foo-bar -> fooBar
func camelize(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '-' && i+1 < len(s) && isWord(s[i+1]) {
			sb.WriteString(upper.String(s[i+1 : i+2]))
			i++
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return upper.String(s[:size]) + s[size:]
}

func handlerKey(s string) string {
	if s == "" {
		return ""
	}
	return "on" + capitalize(s)
}

// validAsset maps a tag or directive name to identifier characters:
// '-' becomes '_', other non-word bytes become their decimal code.
func validAsset(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isWord(c):
			sb.WriteByte(c)
		case c == '-':
			sb.WriteByte('_')
		default:
			sb.WriteString(strconv.Itoa(int(c)))
		}
	}
	return sb.String()
}

// decodeEntities resolves named and numeric character references. In
// attribute values a legacy reference without ';' that is followed by an
// alphanumeric character or '=' is kept verbatim.
func decodeEntities(s string, inAttr bool) string {
	amp := strings.IndexByte(s, '&')
	if amp < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for amp >= 0 {
		sb.WriteString(s[:amp])
		s = s[amp:]
		n, decoded := decodeOne(s, inAttr)
		sb.WriteString(decoded)
		s = s[n:]
		amp = strings.IndexByte(s, '&')
	}
	sb.WriteString(s)
	return sb.String()
}

// decodeOne decodes the reference at the start of s (s[0] == '&') and
// returns how many bytes it consumed.
func decodeOne(s string, inAttr bool) (int, string) {
	if len(s) > 1 && s[1] == '#' {
		i := 2
		if i < len(s) && (s[i] == 'x' || s[i] == 'X') {
			i++
		}
		digits := i
		for i < len(s) && isAlnum(s[i]) {
			i++
		}
		if i == digits {
			return 1, "&"
		}
		if i < len(s) && s[i] == ';' {
			i++
		}
		ref := s[:i]
		if dec := html.UnescapeString(ref); dec != ref {
			return i, dec
		}
		return 1, "&"
	}

	i := 1
	for i < len(s) && isAlnum(s[i]) {
		i++
	}
	name := s[1:i]
	if name == "" {
		return 1, "&"
	}
	if i < len(s) && s[i] == ';' {
		ref := s[:i+1]
		if dec := html.UnescapeString(ref); dec != ref {
			return i + 1, dec
		}
	}
	// legacy references without ';', longest match first
	for j := len(name); j >= 2; j-- {
		ref := "&" + name[:j]
		dec := html.UnescapeString(ref)
		if dec == ref || isAlnum(dec[len(dec)-1]) {
			continue
		}
		next := 1 + j
		if inAttr && next < len(s) && (isAlnum(s[next]) || s[next] == '=') {
			return 1, "&"
		}
		return next, dec
	}
	return 1, "&"
}
