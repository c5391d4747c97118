package expr

type tokKind uint8

const (
	tokIdent tokKind = iota + 1
	tokNumber
	tokString
	tokTemplate // template literal; interpolations follow as ( ... ) groups
	tokPunct
)

type tok struct {
	kind       tokKind
	start, end int
	text       string
	synthetic  bool // parens wrapped around template interpolations
	interp     bool // template literal with ${}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

var puncts3 = []string{"...", "===", "!==", "**=", "<<=", ">>=", "??=", "&&=", "||="}
var puncts2 = []string{"=>", "?.", "==", "!=", "&&", "||", "??", "<=", ">=", "++", "--", "**", "+=", "-=", "*=", "/=", "<<", ">>"}

type lexer struct {
	src  string
	toks []tok
}

// lex tokenises src. It is forgiving: malformed input yields a best-effort
// token stream rather than an error.
func lex(src string) []tok {
	lx := &lexer{src: src}
	lx.run(0, false)
	return lx.toks
}

// run lexes from pos; with untilBrace it stops at the '}' closing a template
// interpolation and returns its index.
func (lx *lexer) run(pos int, untilBrace bool) int {
	src := lx.src
	depth := 0
	for pos < len(src) {
		c := src[pos]
		switch {
		case isSpace(c):
			pos++
		case isIdentStart(c):
			start := pos
			for pos < len(src) && isIdentPart(src[pos]) {
				pos++
			}
			lx.emit(tokIdent, start, pos)
		case c >= '0' && c <= '9' || c == '.' && pos+1 < len(src) && src[pos+1] >= '0' && src[pos+1] <= '9':
			start := pos
			for pos < len(src) {
				d := src[pos]
				if isIdentPart(d) || d == '.' {
					pos++
					continue
				}
				if (d == '+' || d == '-') && (src[pos-1] == 'e' || src[pos-1] == 'E') && !isHex(src[start:pos]) {
					pos++
					continue
				}
				break
			}
			lx.emit(tokNumber, start, pos)
		case c == '\'' || c == '"':
			start := pos
			pos++
			for pos < len(src) && src[pos] != c {
				if src[pos] == '\\' {
					pos++
				}
				pos++
			}
			pos = min(pos+1, len(src))
			lx.emit(tokString, start, pos)
		case c == '`':
			pos = lx.template(pos)
		default:
			if untilBrace {
				if c == '{' {
					depth++
				} else if c == '}' {
					if depth == 0 {
						return pos
					}
					depth--
				}
			}
			n := punctLen(src[pos:])
			lx.emit(tokPunct, pos, pos+n)
			pos += n
		}
	}
	return pos
}

func (lx *lexer) template(pos int) int {
	src := lx.src
	idx := len(lx.toks)
	lx.emit(tokTemplate, pos, pos)
	pos++
	for pos < len(src) && src[pos] != '`' {
		switch {
		case src[pos] == '\\':
			pos += 2
		case src[pos] == '$' && pos+1 < len(src) && src[pos+1] == '{':
			lx.toks[idx].interp = true
			lx.toks = append(lx.toks, tok{kind: tokPunct, start: pos, end: pos, text: "(", synthetic: true})
			end := lx.run(pos+2, true)
			lx.toks = append(lx.toks, tok{kind: tokPunct, start: end, end: end, text: ")", synthetic: true})
			pos = end + 1
		default:
			pos++
		}
	}
	pos = min(pos+1, len(src))
	lx.toks[idx].end = pos
	lx.toks[idx].text = src[lx.toks[idx].start:pos]
	return pos
}

func (lx *lexer) emit(kind tokKind, start, end int) {
	lx.toks = append(lx.toks, tok{kind: kind, start: start, end: end, text: lx.src[start:end]})
}

func punctLen(s string) int {
	for _, p := range puncts3 {
		if len(s) >= 3 && s[:3] == p {
			return 3
		}
	}
	for _, p := range puncts2 {
		if len(s) >= 2 && s[:2] == p {
			// a?.5:1 is a conditional, not optional chaining
			if p == "?." && len(s) > 2 && s[2] >= '0' && s[2] <= '9' {
				return 1
			}
			return 2
		}
	}
	return 1
}

func isHex(s string) bool {
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
