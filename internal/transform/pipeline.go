// Package transform runs the ordered optimisation passes over the IR and
// hosts the pure classifiers they share (static levels, patch flags, slot
// flags).
package transform

import (
	"context"
	"errors"
	"fmt"

	"vuec/internal/diag"
	"vuec/internal/ir"
	"vuec/internal/source"
	"vuec/internal/trace"
)

// ErrPipelineFailed is returned when any pass recorded an error.
var ErrPipelineFailed = errors.New("transform pipeline failed")

// Pass is one step of the pipeline. A pass owns the job while it runs.
type Pass struct {
	Name string
	Run  func(j *Job)
}

// Job is the state shared by the passes of one compile.
type Job struct {
	Root *ir.Root
	Opts Options

	known  map[string]bool
	errors int
	ctx    context.Context
}

// passes is the fixed order; later passes rely on what earlier ones set.
var passes = []Pass{
	{Name: "expand_structural", Run: expandStructural},
	{Name: "resolve_scopes", Run: resolveScopes},
	{Name: "merge_text", Run: mergeText},
	{Name: "analyze_elements", Run: analyzeElements},
	{Name: "classify_slots", Run: classifySlots},
	{Name: "hoist_static", Run: hoistStatic},
	{Name: "finalize_root", Run: finalizeRoot},
	{Name: "collect_helpers", Run: collectHelpers},
}

// Passes returns the names of the built-in passes in run order.
func Passes() []string {
	out := make([]string, len(passes))
	for i, p := range passes {
		out[i] = p.Name
	}
	return out
}

// NewJob prepares a job over root.
func NewJob(ctx context.Context, root *ir.Root, opts Options) *Job {
	j := &Job{Root: root, Opts: opts, known: make(map[string]bool, len(opts.KnownConstants)), ctx: ctx}
	for _, name := range opts.KnownConstants {
		j.known[name] = true
	}
	return j
}

// Run executes every pass in order. Passes keep going after errors so one
// compile reports as many problems as possible.
func Run(ctx context.Context, root *ir.Root, opts Options) error {
	return NewJob(ctx, root, opts).Run()
}

// Run executes the pipeline on j.
func (j *Job) Run() error {
	tracer := trace.FromContext(j.ctx)
	parent := trace.ParentSpan(j.ctx)
	all := append(append([]Pass(nil), passes...), j.Opts.ExtraPasses...)
	for _, p := range all {
		before := j.errors
		span := trace.Begin(tracer, trace.ScopePass, p.Name, parent)
		p.Run(j)
		span.WithExtra("errors", fmt.Sprint(j.errors-before)).End("")
	}
	if j.errors > 0 {
		return fmt.Errorf("%w: %d error(s)", ErrPipelineFailed, j.errors)
	}
	return nil
}

// Failed reports whether an error was recorded so far.
func (j *Job) Failed() bool { return j.errors > 0 }

// Errorf records an error diagnostic.
func (j *Job) Errorf(code diag.Code, sp source.Span, format string, args ...any) {
	j.errors++
	if j.Opts.Reporter == nil {
		return
	}
	diag.ReportError(j.Opts.Reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

// Point records a node-level trace event.
func (j *Job) Point(name, detail string) {
	trace.Point(trace.FromContext(j.ctx), trace.ScopeNode, name, detail, trace.ParentSpan(j.ctx))
}
