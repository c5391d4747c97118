package buildpipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vuec/internal/codegen"
	"vuec/internal/diag"
	"vuec/internal/observ"
	"vuec/internal/source"
)

func request(src string) *CompileRequest {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("app.vue", []byte(src)))
	return &CompileRequest{File: f, MaxDiagnostics: 20}
}

type recorder struct {
	events []string
}

func (r *recorder) OnEvent(evt Event) {
	r.events = append(r.events, string(evt.Stage)+":"+string(evt.Status))
}

func TestCompileRunsEveryStage(t *testing.T) {
	req := request(`<div>{{ msg }}</div>`)
	rec := &recorder{}
	req.Progress = rec
	req.Timer = observ.NewTimer()
	res, err := Compile(context.Background(), req)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.Contains(res.Code, "_toDisplayString(_ctx.msg)") {
		t.Fatalf("code = %s", res.Code)
	}
	for _, st := range Stages {
		if !res.Timings.Has(st) {
			t.Errorf("no timing for %s", st)
		}
	}
	want := []string{
		"scan:working", "scan:done",
		"parse:working", "parse:done",
		"convert:working", "convert:done",
		"transform:working", "transform:done",
		"emit:working", "emit:done",
	}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
	if n := len(req.Timer.Report().Phases); n != len(Stages) {
		t.Fatalf("timer phases = %d", n)
	}
}

func TestCompileUntil(t *testing.T) {
	req := request(`<p v-if="ok">a</p>`)
	req.Until = StageConvert
	res, err := Compile(context.Background(), req)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(res.Tokens) == 0 || res.AST == nil || res.IR == nil {
		t.Fatalf("missing artefacts: tokens=%d ast=%v ir=%v", len(res.Tokens), res.AST, res.IR)
	}
	if res.Code != "" || res.Timings.Has(StageTransform) {
		t.Fatalf("stages after convert ran")
	}
	if res.IR.Children[0].Structural == nil {
		t.Fatalf("structural directives already expanded before transform")
	}

	req.Until = "link"
	if _, err := Compile(context.Background(), req); err == nil {
		t.Fatalf("unknown stage accepted")
	}
}

func TestCompileReportsErrors(t *testing.T) {
	req := request(`<p v-else>x</p>`)
	rec := &recorder{}
	req.Progress = rec
	res, err := Compile(context.Background(), req)
	if !errors.Is(err, ErrCompileFailed) {
		t.Fatalf("err = %v, want ErrCompileFailed", err)
	}
	if res.Code != "" {
		t.Fatalf("code emitted despite errors: %s", res.Code)
	}
	if items := res.Bag.Items(); len(items) != 1 || items[0].Code != diag.TrnElseWithoutIf {
		t.Fatalf("diagnostics = %v", items)
	}
	if last := rec.events[len(rec.events)-1]; last != "emit:error" {
		t.Fatalf("last event = %s", last)
	}
}

func TestCompileFunctionMode(t *testing.T) {
	req := request(`<p>{{ a }}</p>`)
	req.Options.Codegen.Mode = codegen.ModeFunction
	res, err := Compile(context.Background(), req)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.HasPrefix(res.Code, "const _Vue = Vue\n") || !strings.Contains(res.Code, "with (_ctx)") {
		t.Fatalf("code = %s", res.Code)
	}
}

func TestParseStage(t *testing.T) {
	if st, ok := ParseStage(""); !ok || st != StageEmit {
		t.Fatalf("empty stage = %v %v", st, ok)
	}
	if st, ok := ParseStage("transform"); !ok || st != StageTransform {
		t.Fatalf("transform = %v %v", st, ok)
	}
	if _, ok := ParseStage("link"); ok {
		t.Fatalf("link accepted")
	}
}
