package fuzztests

import (
	"context"
	"slices"
	"testing"
	"time"

	"vuec/internal/buildpipeline"
	"vuec/internal/diag"
	"vuec/internal/parser"
	"vuec/internal/scanner"
	"vuec/internal/source"
	"vuec/internal/testkit"
	"vuec/internal/token"
)

// compileTimeout is the maximum time allowed for compiling a single input.
// If compiling takes longer, it indicates a potential infinite loop.
const compileTimeout = 5 * time.Second

func FuzzScannerTerminates(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.vue", input))
		bag := diag.NewBag(128)
		toks := slices.Collect(scanner.Scan(file, scanner.Options{Reporter: diag.BagReporter{Bag: bag}}))
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end with EOF: %d tokens", len(toks))
		}
		var prev uint32
		for _, tok := range toks {
			if tok.Span.Start < prev || tok.Span.End > uint32(len(file.Content)) {
				t.Fatalf("token %s span %v out of order or bounds", tok.Kind, tok.Span)
			}
			prev = tok.Span.Start
		}
	})
}

func FuzzParserSpans(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.vue", input))
		bag := diag.NewBag(128)
		rep := diag.BagReporter{Bag: bag}
		root := parser.Parse(file, scanner.Scan(file, scanner.Options{Reporter: rep}), parser.Options{Reporter: rep})
		if err := testkit.CheckSpanInvariants(root, file); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzPipelineNoHang runs the whole pipeline and fails on hangs. Inputs
// without errors must produce code.
func FuzzPipelineNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), compileTimeout)
		defer cancel()

		type outcome struct {
			res buildpipeline.CompileResult
			err error
		}
		done := make(chan outcome, 1)
		go func() {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.vue", input))
			req := &buildpipeline.CompileRequest{File: file, MaxDiagnostics: 128}
			req.Options.Transform.HoistStatic = true
			res, err := buildpipeline.Compile(context.Background(), req)
			done <- outcome{res, err}
		}()

		select {
		case out := <-done:
			if out.err == nil && out.res.Code == "" {
				t.Fatalf("no errors but no code\ninput: %q", truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("pipeline hang detected: compiling took longer than %v\ninput (%d bytes): %q",
				compileTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
