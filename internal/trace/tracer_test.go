package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	Begin(ring, ScopeStage, "parse", 0).End("ok")
	Begin(ring, ScopePass, "pass:merge_text", 0).End("")
	Point(ring, ScopeNode, "hoist", "div", 0)

	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("expected begin/end of the stage only, got %d events", len(events))
	}
	if events[0].Kind != KindSpanBegin || events[1].Kind != KindSpanEnd || events[1].Detail != "ok" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].SpanID != events[1].SpanID {
		t.Fatalf("begin and end must share span id")
	}
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d"} {
		Point(ring, ScopeNode, name, "", 0)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ","); got != "b,c,d" {
		t.Fatalf("snapshot order = %s", got)
	}
}

func TestStreamFormats(t *testing.T) {
	var text, nd bytes.Buffer
	tt := NewStreamTracer(&text, LevelDetail, FormatText)
	tn := NewStreamTracer(&nd, LevelDetail, FormatNDJSON)

	for _, tr := range []Tracer{tt, tn} {
		sp := Begin(tr, ScopePass, "pass:hoist_static", 7).WithExtra("hoists", "2")
		sp.End("done")
	}

	if !strings.Contains(text.String(), "← pass:hoist_static (done) {hoists=2}") {
		t.Errorf("text output:\n%s", text.String())
	}
	lines := strings.Split(strings.TrimSpace(nd.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], `"kind":"end"`) || !strings.Contains(lines[1], `"parent_id":7`) {
		t.Errorf("ndjson output:\n%s", nd.String())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
	ring := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	sp := Begin(FromContext(ctx), ScopeDriver, "compile", 0)
	ctx = WithSpan(ctx, sp)
	if ParentSpan(ctx) != sp.ID() {
		t.Fatalf("parent span not propagated")
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRingModeDumpsOnDemand(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{Level: LevelDetail, Mode: ModeRing, Output: &out, RingSize: 2, Format: FormatNDJSON}
	tr, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ring, ok := tr.(*RingTracer)
	if !ok {
		t.Fatalf("ring mode built %T", tr)
	}
	Begin(ring, ScopeStage, "parse", 0).End("")
	Begin(ring, ScopePass, "hoist_static", 0).End("")
	if out.Len() != 0 {
		t.Fatalf("ring wrote before DumpTo:\n%s", out.String())
	}
	if err := ring.DumpTo(cfg); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"name":"hoist_static"`) {
		t.Fatalf("dump:\n%s", out.String())
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("RING"); err != nil || m != ModeRing {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if m, _ := ParseMode(""); m != ModeStream {
		t.Fatalf("empty mode = %v", m)
	}
	if _, err := ParseMode("both"); err == nil {
		t.Fatalf("expected error")
	}
}
