// Package expr inspects template expressions without a full script parser.
//
// It finds free identifiers (those a render function must read from the
// component context), recognises primitive literals and handler shapes, and
// splits v-for expressions.
package expr

import (
	"regexp"
	"strings"
)

// Ident is one identifier reference. Offsets are byte positions inside the
// analysed expression.
type Ident struct {
	Name       string
	Start, End int
	// Shorthand marks an object-literal shorthand property ({ foo }).
	Shorthand bool
}

// Info summarises an expression.
type Info struct {
	Idents []Ident
	// Literal is set for a single primitive literal (number, plain string,
	// true, false, null, undefined), optionally with a unary sign.
	Literal bool
	// Empty is set for blank input.
	Empty bool
}

var keywords = toSet(
	"true", "false", "null", "undefined", "this", "typeof", "instanceof",
	"in", "of", "new", "void", "delete", "return", "if", "else", "for",
	"while", "do", "var", "let", "const", "function", "class", "extends",
	"super", "await", "async", "yield", "import", "export", "default",
	"switch", "case", "break", "continue", "try", "catch", "finally",
	"throw", "debugger", "with",
)

var globals = toSet(
	"Infinity", "NaN", "isFinite", "isNaN", "parseFloat", "parseInt",
	"decodeURI", "decodeURIComponent", "encodeURI", "encodeURIComponent",
	"Math", "Number", "Date", "Array", "Object", "Boolean", "String",
	"RegExp", "Map", "Set", "JSON", "Intl", "BigInt", "console", "Error",
	"Symbol",
)

func toSet(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return m
}

// IsKeyword reports reserved words and literal keywords.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}

// IsGlobal reports globals a template may read without the component context.
func IsGlobal(name string) bool {
	_, ok := globals[name]
	return ok
}

// Analyze scans src for free identifiers.
func Analyze(src string) Info {
	if strings.TrimSpace(src) == "" {
		return Info{Empty: true}
	}
	toks := lex(src)
	info := Info{Literal: isLiteral(toks)}
	if info.Literal {
		return info
	}

	bound := make(map[string]struct{})
	skip := make(map[int]bool)
	markArrowParams(toks, bound, skip)

	var objects []bool // brace stack: true for object literals
	for i, t := range toks {
		switch t.kind {
		case tokPunct:
			switch t.text {
			case "{":
				objects = append(objects, !(i > 0 && toks[i-1].text == "=>"))
			case "}":
				if len(objects) > 0 {
					objects = objects[:len(objects)-1]
				}
			}
			continue
		case tokIdent:
		default:
			continue
		}
		if skip[i] || IsKeyword(t.text) || IsGlobal(t.text) {
			continue
		}
		prev, next := at(toks, i-1), at(toks, i+1)
		if prev.kind == tokPunct && (prev.text == "." || prev.text == "?.") || prev.text == "function" {
			continue
		}
		shorthand := false
		if len(objects) > 0 && objects[len(objects)-1] && (prev.text == "{" || prev.text == ",") && prev.kind == tokPunct {
			switch next.text {
			case ":", "(":
				continue
			case ",", "}":
				shorthand = true
			}
		}
		if _, ok := bound[t.text]; ok {
			continue
		}
		info.Idents = append(info.Idents, Ident{Name: t.text, Start: t.start, End: t.end, Shorthand: shorthand})
	}
	return info
}

func at(toks []tok, i int) tok {
	if i < 0 || i >= len(toks) {
		return tok{}
	}
	return toks[i]
}

func isLiteral(toks []tok) bool {
	switch {
	case len(toks) == 1:
		t := toks[0]
		switch t.kind {
		case tokNumber, tokString:
			return true
		case tokTemplate:
			return !t.interp
		case tokIdent:
			return t.text == "true" || t.text == "false" || t.text == "null" || t.text == "undefined"
		}
	case len(toks) == 2:
		return toks[0].kind == tokPunct && (toks[0].text == "-" || toks[0].text == "+") && toks[1].kind == tokNumber
	}
	return false
}

// markArrowParams binds parameters of arrow functions and function
// expressions. Default values stay visible as free references.
func markArrowParams(toks []tok, bound map[string]struct{}, skip map[int]bool) {
	for i, t := range toks {
		if t.kind == tokIdent && at(toks, i+1).text == "=>" && !IsKeyword(t.text) {
			bound[t.text] = struct{}{}
			skip[i] = true
			continue
		}
		if t.kind != tokPunct || t.text != "(" || t.synthetic {
			continue
		}
		closeIdx := matchParen(toks, i)
		if closeIdx < 0 {
			continue
		}
		isFunc := at(toks, closeIdx+1).text == "=>"
		if p := at(toks, i-1); p.text == "function" || (p.kind == tokIdent && at(toks, i-2).text == "function") {
			isFunc = true
		}
		if !isFunc {
			continue
		}
		for j := i + 1; j < closeIdx; j++ {
			pt := toks[j]
			if pt.kind != tokIdent || IsKeyword(pt.text) {
				continue
			}
			if at(toks, j+1).text == ":" {
				skip[j] = true // destructuring key
				continue
			}
			switch at(toks, j-1).text {
			case "(", ",", "{", "[", "...", ":":
				bound[pt.text] = struct{}{}
				skip[j] = true
			}
		}
	}
}

func matchParen(toks []tok, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		if toks[i].kind != tokPunct {
			continue
		}
		switch toks[i].text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// BoundNames returns the names a binding pattern introduces, such as the
// alias of v-for or the props pattern of v-slot: "item", "{ id, name: n }",
// "[a, b = 1]".
func BoundNames(pattern string) []string {
	toks := lex(pattern)
	var out []string
	for i, t := range toks {
		if t.kind != tokIdent || IsKeyword(t.text) {
			continue
		}
		if at(toks, i+1).text == ":" {
			continue
		}
		if i == 0 {
			out = append(out, t.text)
			continue
		}
		switch at(toks, i-1).text {
		case "(", ",", "{", "[", "...", ":":
			out = append(out, t.text)
		}
	}
	return out
}

var (
	memberRE   = regexp.MustCompile(`^[A-Za-z_$][\w$]*(?:\s*(?:\.|\?\.)\s*[A-Za-z_$][\w$]*|\[[^\]]+\])*$`)
	funcExpRE  = regexp.MustCompile(`^\s*([\w$]+|(async\s*)?\([^)]*?\))\s*(:[^=]+)?=>|^\s*(async\s+)?function(?:\s+[\w$]+)?\s*\(`)
	simpleIdRE = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
)

// IsMemberExpression matches a.b, a[b] and a?.b paths.
func IsMemberExpression(src string) bool {
	return memberRE.MatchString(strings.TrimSpace(src))
}

// IsFunctionExpression matches arrow functions and function expressions.
func IsFunctionExpression(src string) bool {
	return funcExpRE.MatchString(src)
}

// IsSimpleIdentifier matches a bare identifier.
func IsSimpleIdentifier(src string) bool {
	return simpleIdRE.MatchString(strings.TrimSpace(src))
}

var intRE = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)$`)

// Fold evaluates a string or integer literal to the text the runtime would
// display for it. Anything else, escapes included, is left to the runtime.
func Fold(src string) (string, bool) {
	s := strings.TrimSpace(src)
	if intRE.MatchString(s) {
		return s, true
	}
	if len(s) < 2 || (s[0] != '\'' && s[0] != '"') || s[len(s)-1] != s[0] {
		return "", false
	}
	body := s[1 : len(s)-1]
	if strings.ContainsAny(body, "\\\n\r"+s[:1]) {
		return "", false
	}
	return body, true
}
