package codegen

import (
	"fmt"
	"strings"

	"vuec/internal/expr"
	"vuec/internal/ir"
)

// jsString quotes s as a double-quoted JavaScript string literal.
func jsString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// objectKey leaves identifiers bare and quotes everything else.
func objectKey(name string) string {
	if expr.IsSimpleIdentifier(name) {
		return name
	}
	return jsString(name)
}

// expr renders an expression. Module mode reads free identifiers from _ctx;
// function mode relies on the surrounding with block.
func (e *Emitter) expr(x *ir.Expr) string {
	if x == nil {
		return "undefined"
	}
	src := x.Content
	if e.opts.Mode == ModeModule && x.HasFree() {
		free := make(map[int]bool, len(x.Info.Idents))
		for i, id := range x.Info.Idents {
			if !x.Scoped(i) {
				free[id.Start] = true
			}
		}
		src = expr.Rewrite(src, x.Info.Idents, func(id expr.Ident) (string, bool) {
			if !free[id.Start] {
				return "", false
			}
			return "_ctx." + id.Name, true
		})
	}
	return strings.TrimSpace(src)
}
