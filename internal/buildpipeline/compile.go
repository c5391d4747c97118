package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"vuec/internal/ast"
	"vuec/internal/codegen"
	"vuec/internal/converter"
	"vuec/internal/diag"
	"vuec/internal/ir"
	"vuec/internal/observ"
	"vuec/internal/parser"
	"vuec/internal/scanner"
	"vuec/internal/source"
	"vuec/internal/token"
	"vuec/internal/trace"
	"vuec/internal/transform"
)

// ErrCompileFailed is returned when the diagnostics of a compile hold errors.
var ErrCompileFailed = errors.New("compile failed")

// Options bundles the per-stage options of one compile. Reporters are set
// by Compile.
type Options struct {
	Scan      scanner.Options
	Parse     parser.Options
	Convert   converter.Options
	Transform transform.Options
	Codegen   codegen.Options
}

// CompileRequest configures one template compile.
type CompileRequest struct {
	File           *source.File
	Options        Options
	MaxDiagnostics int
	// Until stops after the given stage; zero runs the whole pipeline.
	Until    Stage
	Progress ProgressSink
	// Timer, when set, receives one phase per stage.
	Timer *observ.Timer
}

// CompileResult holds the artefacts of every stage that ran.
type CompileResult struct {
	Tokens  []token.Token
	AST     *ast.Root
	IR      *ir.Root
	Code    string
	Bag     *diag.Bag
	Timings Timings
}

// Compile runs scan, parse, convert, transform and emit over req.File.
// Stages after a failed one still run up to emit so that as many problems
// as possible are reported; emit refuses when errors were recorded.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil || req.File == nil {
		return result, fmt.Errorf("missing compile request")
	}
	until := req.Until
	if until == "" {
		until = StageEmit
	}
	if until.index() < 0 {
		return result, fmt.Errorf("unknown stage %q", until)
	}

	f := req.File
	result.Bag = diag.NewBag(req.MaxDiagnostics)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: result.Bag})
	opts := req.Options
	opts.Scan.Reporter = rep
	opts.Parse.Reporter = rep
	opts.Convert.Reporter = rep
	opts.Transform.Reporter = rep
	opts.Codegen.Reporter = rep

	tracer := trace.FromContext(ctx)
	parent := trace.ParentSpan(ctx)
	run := func(stage Stage, fn func(ctx context.Context) error) (bool, error) {
		emit(req.Progress, Event{File: f.Path, Stage: stage, Status: StatusWorking})
		idx := req.Timer.Begin(string(stage))
		span := trace.Begin(tracer, trace.ScopeStage, string(stage), parent)
		started := time.Now()
		err := fn(trace.WithSpan(ctx, span))
		elapsed := time.Since(started)
		req.Timer.End(idx, "")
		span.WithExtra("file", f.Path).End("")
		result.Timings.Set(stage, elapsed)
		if err != nil {
			emit(req.Progress, Event{File: f.Path, Stage: stage, Status: StatusError, Err: err, Elapsed: elapsed})
			return false, err
		}
		emit(req.Progress, Event{File: f.Path, Stage: stage, Status: StatusDone, Elapsed: elapsed})
		return stage != until, nil
	}

	more, _ := run(StageScan, func(context.Context) error {
		result.Tokens = slices.Collect(scanner.Scan(f, opts.Scan))
		return nil
	})
	if !more {
		return result, failed(result.Bag)
	}
	more, _ = run(StageParse, func(context.Context) error {
		result.AST = parser.Parse(f, slices.Values(result.Tokens), opts.Parse)
		return nil
	})
	if !more {
		return result, failed(result.Bag)
	}
	more, _ = run(StageConvert, func(context.Context) error {
		result.IR = converter.Convert(result.AST, opts.Convert)
		return nil
	})
	if !more {
		return result, failed(result.Bag)
	}
	more, _ = run(StageTransform, func(ctx context.Context) error {
		// ошибки проходов уже лежат в bag; emit откажется сам
		_ = transform.Run(ctx, result.IR, opts.Transform)
		return nil
	})
	if !more {
		return result, failed(result.Bag)
	}
	_, err := run(StageEmit, func(context.Context) error {
		if result.Bag.HasErrors() {
			return fmt.Errorf("%w (%d)", codegen.ErrHasErrors, result.Bag.ErrorCount())
		}
		code, err := codegen.Emit(result.IR, opts.Codegen)
		if err != nil {
			return err
		}
		result.Code = code
		return nil
	})
	if err != nil {
		if errors.Is(err, codegen.ErrHasErrors) {
			return result, failed(result.Bag)
		}
		return result, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	return result, failed(result.Bag)
}

func failed(bag *diag.Bag) error {
	if bag.HasErrors() {
		return fmt.Errorf("%w: %d error(s)", ErrCompileFailed, bag.ErrorCount())
	}
	return nil
}
