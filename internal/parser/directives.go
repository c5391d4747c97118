package parser

import (
	"strings"

	"vuec/internal/ast"
	"vuec/internal/diag"
	"vuec/internal/token"
)

// parseDirective recognises v-name:arg.mods and the ':', '.', '@', '#'
// shorthands. Anything else stays a plain attribute.
func (p *Parser) parseDirective(a token.Attr) (ast.Directive, bool) {
	name := a.Name
	if name == "" {
		return ast.Directive{}, false
	}
	var (
		dirName  string
		argPart  string
		argOff   int
		modsPart string
		prop     bool
	)
	switch name[0] {
	case ':':
		dirName, argPart, argOff = "bind", name[1:], 1
	case '.':
		dirName, argPart, argOff, prop = "bind", name[1:], 1, true
	case '@':
		dirName, argPart, argOff = "on", name[1:], 1
	case '#':
		dirName, argPart, argOff = "slot", name[1:], 1
	default:
		if !strings.HasPrefix(name, "v-") {
			return ast.Directive{}, false
		}
		body := name[2:]
		end := strings.IndexAny(body, ":.")
		if end < 0 {
			end = len(body)
		}
		dirName = body[:end]
		if dirName == "" {
			p.errorf(diag.PrsInvalidDirective, a.NameSpan, "directive name is missing in %q", name)
			return ast.Directive{}, false
		}
		rest := body[end:]
		switch {
		case strings.HasPrefix(rest, ":"):
			argPart, argOff = rest[1:], 2+end+1
		case rest != "":
			modsPart = rest
		}
	}
	if argOff == 1 && argPart == "" {
		p.errorf(diag.PrsInvalidDirective, a.NameSpan, "directive shorthand %q needs an argument", name)
		return ast.Directive{}, false
	}

	d := ast.Directive{Name: dirName, RawName: name, NameSpan: a.NameSpan, Span: a.Span}
	if argPart != "" {
		switch {
		case argPart[0] == '[':
			closeIdx := strings.IndexByte(argPart, ']')
			if closeIdx < 0 {
				p.errorf(diag.PrsUnclosedDynamicArg, a.NameSpan, "dynamic argument of %q is missing ']'", name)
				closeIdx = len(argPart)
			} else {
				modsPart = argPart[closeIdx+1:]
			}
			d.Arg = argPart[1:closeIdx]
			d.ArgDynamic = true
			d.ArgSpan = a.NameSpan.Sub(uint32(argOff+1), uint32(argOff+1+len(d.Arg)))
		case dirName == "slot":
			// имена слотов могут содержать точки
			d.Arg = argPart
			d.ArgSpan = a.NameSpan.Sub(uint32(argOff), uint32(argOff+len(d.Arg)))
		default:
			dot := strings.IndexByte(argPart, '.')
			if dot < 0 {
				dot = len(argPart)
			}
			d.Arg = argPart[:dot]
			modsPart = argPart[dot:]
			d.ArgSpan = a.NameSpan.Sub(uint32(argOff), uint32(argOff+len(d.Arg)))
		}
	}
	for m := range strings.SplitSeq(modsPart, ".") {
		if m != "" {
			d.Modifiers = append(d.Modifiers, m)
		}
	}
	if prop && !d.HasModifier("prop") {
		d.Modifiers = append(d.Modifiers, "prop")
	}
	if a.HasValue {
		d.Expr = &ast.AttrValue{Content: a.Value, Span: a.ValueSpan}
	}
	return d, true
}
