// Package codegen writes the render program of a transformed IR root.
//
// All deferred strings are materialised here. Output is assembled in memory
// and written only when the whole program was produced.
package codegen

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vuec/internal/diag"
	"vuec/internal/flags"
	"vuec/internal/ir"
	"vuec/internal/source"
	"vuec/internal/vstr"
)

var (
	// ErrHasErrors is returned when the diagnostics of the compile hold an error.
	ErrHasErrors = errors.New("refusing to emit: diagnostics contain errors")
	// ErrUncollectedHelper means the program needs a helper the collector lacks.
	ErrUncollectedHelper = errors.New("helper used but not collected")
)

// Emitter renders one root.
type Emitter struct {
	root *ir.Root
	opts Options
	w    writer

	alias   map[flags.RuntimeHelper]string
	missing []string
}

// Generate writes the program for root to w. Nothing is written on error.
func Generate(w io.Writer, root *ir.Root, bag *diag.Bag, opts Options) error {
	if bag != nil && bag.HasErrors() {
		return fmt.Errorf("%w (%d)", ErrHasErrors, bag.ErrorCount())
	}
	out, err := Emit(root, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Emit renders root into a string.
func Emit(root *ir.Root, opts Options) (string, error) {
	e := &Emitter{root: root, opts: opts, alias: make(map[flags.RuntimeHelper]string, root.Helpers.Len())}
	if err := e.resolveHelpers(); err != nil {
		if opts.Reporter != nil {
			diag.ReportError(opts.Reporter, diag.EmtUnknownHelper, rootSpan(root), err.Error()).Emit()
		}
		return "", err
	}
	e.emitPreamble()
	e.emitHoists()
	e.emitRender()
	if len(e.missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrUncollectedHelper, strings.Join(e.missing, ", "))
	}
	return e.w.String(), nil
}

func rootSpan(root *ir.Root) source.Span {
	if root.File == nil {
		return source.Span{}
	}
	return source.Span{File: root.File.ID}
}

// resolveHelpers names every collected helper up front; an unnamed custom
// id fails the compile before any text exists.
func (e *Emitter) resolveHelpers() error {
	for h := range e.root.Helpers.All() {
		name, err := h.Name(e.opts.CustomHelpers)
		if err != nil {
			return fmt.Errorf("codegen: %w", err)
		}
		e.alias[h] = "_" + name
	}
	return nil
}

func (e *Emitter) helper(h flags.RuntimeHelper) string {
	if a, ok := e.alias[h]; ok {
		return a
	}
	e.missing = append(e.missing, h.String())
	a := "_" + h.String()
	e.alias[h] = a
	return a
}

// destructure renders "name: _name" pairs in collector order.
func (e *Emitter) destructure(c flags.HelperCollector) string {
	parts := make([]string, 0, c.Len())
	for h := range c.All() {
		a := e.alias[h]
		parts = append(parts, a[1:]+": "+a)
	}
	return strings.Join(parts, ", ")
}

func (e *Emitter) emitPreamble() {
	if e.opts.Mode == ModeFunction {
		e.w.str("const _Vue = " + e.opts.runtimeGlobal() + "\n")
		if sub := e.root.Helpers.HoistSubset(); len(e.root.Hoists) > 0 && !sub.IsEmpty() {
			e.w.str("const { " + e.destructure(sub) + " } = _Vue\n")
		}
		e.w.str("\n")
		return
	}
	if e.root.Helpers.IsEmpty() {
		return
	}
	parts := make([]string, 0, e.root.Helpers.Len())
	for h := range e.root.Helpers.All() {
		a := e.alias[h]
		parts = append(parts, a[1:]+" as "+a)
	}
	e.w.str("import { " + strings.Join(parts, ", ") + " } from " + jsString(e.opts.runtimeModule()) + "\n\n")
}

func hoistName(i int) string {
	return "_hoisted_" + strconv.Itoa(i+1)
}

func (e *Emitter) emitHoists() {
	for i := range e.root.Hoists {
		h := &e.root.Hoists[i]
		e.w.str("const " + hoistName(i) + " = /*#__PURE__*/")
		if h.Static {
			e.call(e.helper(flags.CreateStatic), e.lit(jsString(staticHTML(h.Nodes))), e.lit(strconv.Itoa(len(h.Nodes))))
		} else {
			e.node(&h.Nodes[0])
		}
		e.w.str("\n")
	}
	if len(e.root.Hoists) > 0 {
		e.w.str("\n")
	}
}

func (e *Emitter) emitRender() {
	fn := e.opts.Mode == ModeFunction
	if fn {
		e.w.str("return function render(_ctx, _cache) {")
		e.w.in()
		e.w.line()
		e.w.str("with (_ctx) {")
		e.w.in()
		if !e.root.Helpers.IsEmpty() {
			e.w.line()
			e.w.str("const { " + e.destructure(e.root.Helpers) + " } = _Vue")
			e.w.blank()
		}
	} else {
		e.w.str("export function render(_ctx, _cache) {")
		e.w.in()
	}
	if e.assets() {
		e.w.blank()
	}
	e.w.line()
	e.w.str("return ")
	e.rootNode()
	if fn {
		e.w.out()
		e.w.line()
		e.w.str("}")
	}
	e.w.out()
	e.w.line()
	e.w.str("}\n")
}

func componentVar(name string, self bool) string {
	v := vstr.Literal(name).BeAsset()
	if self {
		v = v.SuffixSelf()
	}
	return "_component_" + v.String()
}

func directiveVar(name string) string {
	return "_directive_" + vstr.Literal(name).BeAsset().String()
}

// assets resolves components and directives once per render.
func (e *Emitter) assets() bool {
	for _, a := range e.root.Components {
		args := jsString(a.Name)
		if a.Self {
			args += ", true"
		}
		e.w.line()
		e.w.str("const " + componentVar(a.Name, a.Self) + " = " + e.helper(flags.ResolveComponent) + "(" + args + ")")
	}
	for _, d := range e.root.Directives {
		e.w.line()
		e.w.str("const " + directiveVar(d.Name) + " = " + e.helper(flags.ResolveDirective) + "(" + jsString(d.Name) + ")")
	}
	return len(e.root.Components)+len(e.root.Directives) > 0
}

func (e *Emitter) rootNode() {
	r := e.root
	switch {
	case len(r.Children) == 0:
		e.w.str("null")
	case r.Fragment:
		e.block(e.helper(flags.CreateElementBlock), e.lit(e.helper(flags.Fragment)), nil, e.children(r.Children), e.flag(r.Patch))
	default:
		e.node(&r.Children[0])
	}
}

// flag renders a patch flag argument; nil when nothing needs patching.
func (e *Emitter) flag(f flags.PatchFlag) piece {
	if !e.opts.Dev {
		f = f.Production()
	}
	if f.IsZero() {
		return nil
	}
	s := strconv.Itoa(int(f.Value()))
	if e.opts.Dev {
		s += " /* " + strings.Join(f.Names(), ", ") + " */"
	}
	return e.lit(s)
}

func (e *Emitter) slotFlag(f flags.SlotFlag) string {
	s := strconv.Itoa(int(f))
	if e.opts.Dev {
		s += " /* " + f.String() + " */"
	}
	return s
}
