package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase records the duration and metadata of a compile stage.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	Count int // how many measurements were merged into this phase
}

// Timer tracks the execution time of compile stages. It is safe for
// concurrent use so a batch compile can merge per-file timers into one.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	byName map[string]int
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 8), byName: make(map[string]int)}
}

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now(), Count: 1})
	t.byName[name] = len(t.phases) - 1
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Merge adds the phases of other, summing durations of equally named phases.
func (t *Timer) Merge(other *Timer) {
	if t == nil || other == nil {
		return
	}
	other.mu.Lock()
	phases := append([]Phase(nil), other.phases...)
	other.mu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range phases {
		if idx, ok := t.byName[p.Name]; ok {
			t.phases[idx].Dur += p.Dur
			t.phases[idx].Count += p.Count
			continue
		}
		t.phases = append(t.phases, p)
		t.byName[p.Name] = len(t.phases) - 1
	}
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&sb, "  x%d", p.Count)
		}
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: float64(phase.Dur) / float64(time.Millisecond),
			Count:      phase.Count,
			Note:       phase.Note,
		}
	}
	report.TotalMS = float64(total) / float64(time.Millisecond)
	return report
}
