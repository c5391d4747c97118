package trace

import (
	"io"
	"os"
	"sync"
)

// RingTracer keeps the last N events in memory (circular buffer).
type RingTracer struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
	head     int  // next write position
	full     bool // has wrapped around
	level    Level
}

// NewRingTracer creates a new RingTracer with specified capacity.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{
		events:   make([]Event, capacity),
		capacity: capacity,
		level:    level,
	}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.events[t.head] = *ev
	t.head = (t.head + 1) % t.capacity
	if t.head == 0 {
		t.full = true
	}
}

// Snapshot returns a copy of all stored events in chronological order.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.full {
		result := make([]Event, t.head)
		copy(result, t.events[:t.head])
		return result
	}
	result := make([]Event, t.capacity)
	copy(result, t.events[t.head:])
	copy(result[t.capacity-t.head:], t.events[:t.head])
	return result
}

// Dump writes all events to the provided writer in the specified format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

// DumpTo writes the stored events to the output cfg names, in the format a
// stream tracer with the same cfg would use.
func (t *RingTracer) DumpTo(cfg Config) (err error) {
	w, err := openOutput(cfg)
	if err != nil {
		return err
	}
	if c, ok := w.(io.Closer); ok && cfg.Output == nil && !isStdStream(w) {
		defer func() {
			if cerr := c.Close(); err == nil {
				err = cerr
			}
		}()
	}
	return t.Dump(w, cfg.format())
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

func isStdStream(w io.Writer) bool {
	return w == io.Writer(os.Stdout) || w == io.Writer(os.Stderr)
}
