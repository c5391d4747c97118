package trace

import (
	"sync/atomic"
	"time"
)

var (
	lastSeq  atomic.Uint64
	lastSpan atomic.Uint64
)

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 { return lastSeq.Add(1) }

// NextSpanID returns a fresh span id; ids are never 0.
func NextSpanID() uint64 { return lastSpan.Add(1) }

// Span is one begin/end pair. The zero-cost span returned for filtered
// scopes is safe to End and to decorate.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer.Enabled()
}

func (s *Span) event(kind Kind, at time.Time) *Event {
	return &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
	}
}

// Begin emits a begin event for name under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{tracer: t, id: NextSpanID(), parent: parent, scope: scope, name: name, started: time.Now()}
	t.Emit(s.event(KindSpanBegin, s.started))
	return s
}

// End emits the end event with detail and any extras, and returns the
// span duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now)
	ev.Detail = detail
	ev.Elapsed = now.Sub(s.started)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return ev.Elapsed
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = map[string]string{}
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
