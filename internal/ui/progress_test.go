package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	"vuec/internal/buildpipeline"
)

func TestApplyEventTracksFiles(t *testing.T) {
	files := []string{"./src/a.vue", "src/b.vue"}
	m := NewProgressModel("compiling", files, nil).(*progressModel)

	m.apply(buildpipeline.Event{File: "src/a.vue", Stage: buildpipeline.StageTransform, Status: buildpipeline.StatusWorking})
	m.apply(buildpipeline.Event{File: "src/b.vue", Stage: buildpipeline.StageEmit, Status: buildpipeline.StatusCached})
	if m.rows[0].label() != "optimizing" || m.rows[1].label() != "cached" {
		t.Fatalf("rows = %+v", m.rows)
	}
	if got := m.percent(); math.Abs(got-0.8) > 1e-9 {
		t.Fatalf("percent = %v", got)
	}

	m.apply(buildpipeline.Event{File: "src/a.vue", Stage: buildpipeline.StageTransform, Status: buildpipeline.StatusDone})
	if got := m.percent(); math.Abs(got-0.9) > 1e-9 {
		t.Fatalf("percent after transform = %v", got)
	}

	m.apply(buildpipeline.Event{File: "src/a.vue", Stage: buildpipeline.StageEmit, Status: buildpipeline.StatusDone, Elapsed: 2 * time.Millisecond})
	if m.percent() != 1 || m.rows[0].label() != "done" {
		t.Fatalf("after emit: percent = %v, row = %+v", m.percent(), m.rows[0])
	}
	m.done = true
	view := m.View()
	for _, want := range []string{"done: compiling", "src/b.vue", "2/2 templates, 1 cached, 0 failed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestApplyEventIgnoresUnknownFiles(t *testing.T) {
	m := NewProgressModel("x", []string{"a.vue"}, nil).(*progressModel)
	if cmd := m.apply(buildpipeline.Event{File: "b.vue", Stage: buildpipeline.StageScan, Status: buildpipeline.StatusError}); cmd != nil {
		t.Fatalf("unexpected command")
	}
	if m.rows[0].label() != "queued" {
		t.Fatalf("label = %s", m.rows[0].label())
	}
}

func TestFailedRowCountsAsFinished(t *testing.T) {
	m := NewProgressModel("x", []string{"a.vue", "b.vue"}, nil).(*progressModel)
	m.apply(buildpipeline.Event{File: "a.vue", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError})
	if m.percent() != 0.5 {
		t.Fatalf("percent = %v", m.percent())
	}
	if !strings.Contains(m.View(), "1/2 templates, 0 cached, 1 failed") {
		t.Fatalf("view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("components/very-long-name.vue", 12); got != "compon..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("a.vue", 12); got != "a.vue" {
		t.Fatalf("short = %q", got)
	}
	if got := truncate("компонент.vue", 3); got != "ком" {
		t.Fatalf("narrow = %q", got)
	}
}
