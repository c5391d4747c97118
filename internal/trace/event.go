package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end
	KindPoint                     // instant event
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // batch compile, cache
	ScopeStage                   // scan, parse, convert, transform, emit
	ScopePass                    // individual transform passes
	ScopeNode                    // per-node decisions (hoisting, slot flags)
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeStage:
		return "stage"
	case ScopePass:
		return "pass"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	Name     string            // e.g. "parse", "pass:hoist_static"
	Detail   string            // optional detail message
	Elapsed  time.Duration     // span duration, set on KindSpanEnd
	Extra    map[string]string // extensible key-value pairs
}

// Point emits an instant event at the given scope.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
