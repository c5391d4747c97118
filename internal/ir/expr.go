package ir

import (
	"vuec/internal/expr"
	"vuec/internal/flags"
	"vuec/internal/source"
)

// Expr is a template expression. Content borrows the source text.
type Expr struct {
	Content string
	Span    source.Span
	Info    expr.Info
	// Depth[i] is the scope depth that binds Info.Idents[i]; 0 means the
	// identifier is read from the component context.
	Depth []int
	Level flags.StaticLevel
	// Handler marks an inline event handler body ($event is bound).
	Handler bool
}

// NewExpr analyses the text under sp.
func NewExpr(f *source.File, sp source.Span) *Expr {
	content := f.Slice(sp)
	return &Expr{Content: content, Span: sp, Info: expr.Analyze(content)}
}

// SyntheticExpr is an expression without a source location.
func SyntheticExpr(content string) *Expr {
	return &Expr{Content: content, Info: expr.Analyze(content)}
}

// Scoped reports whether the i-th identifier is bound by a template scope.
func (e *Expr) Scoped(i int) bool {
	return i < len(e.Depth) && e.Depth[i] > 0
}

// MinDepth returns the outermost scope depth referenced, or 0.
func (e *Expr) MinDepth() int {
	best := 0
	for _, d := range e.Depth {
		if d > 0 && (best == 0 || d < best) {
			best = d
		}
	}
	return best
}

// HasFree reports whether the expression reads the component context.
func (e *Expr) HasFree() bool {
	for i := range e.Info.Idents {
		if !e.Scoped(i) {
			return true
		}
	}
	return false
}

// IsLiteral is true for a single primitive literal.
func (e *Expr) IsLiteral() bool {
	return e != nil && e.Info.Literal
}
