package buildpipeline

import "time"

// Stage describes one phase of a template compile.
type Stage string

const (
	// StageScan is the tokenizing stage.
	StageScan Stage = "scan"
	// StageParse builds the element tree.
	StageParse Stage = "parse"
	// StageConvert lowers the tree into IR.
	StageConvert Stage = "convert"
	// StageTransform runs the optimisation passes.
	StageTransform Stage = "transform"
	// StageEmit writes the render program.
	StageEmit Stage = "emit"
)

// Stages lists every stage in run order.
var Stages = []Stage{StageScan, StageParse, StageConvert, StageTransform, StageEmit}

func (s Stage) index() int {
	for i, x := range Stages {
		if x == s {
			return i
		}
	}
	return -1
}

// ParseStage accepts a stage name; "" selects StageEmit (the whole pipeline).
func ParseStage(s string) (Stage, bool) {
	if s == "" {
		return StageEmit, true
	}
	st := Stage(s)
	return st, st.index() >= 0
}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusCached marks a file served from the disk cache.
	StatusCached Status = "cached"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the overall batch when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Total sums every recorded stage.
func (t Timings) Total() time.Duration {
	return t.Sum(Stages...)
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
