package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
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

// Scope indicates the granularity of the event.
// Lower values are coarser.
type Scope uint8

const (
	// ScopeCommand covers CLI commands and replay scripts.
	ScopeCommand Scope = iota + 1
	// ScopeField covers whole-field operations: focus, collapse, save, restore.
	ScopeField
	// ScopeEdit covers single edits and token commits.
	ScopeEdit
	// ScopeSpan covers individual registry attach and detach.
	ScopeSpan
)

func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopeField:
		return "field"
	case ScopeEdit:
		return "edit"
	case ScopeSpan:
		return "span"
	default:
		return "unknown"
	}
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // stamped by the sink that keeps the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	Session  string // field session, usually the replay script
	Op       uint64 // field operation within the session
	Name     string // e.g. "commit", "collapse", "replay"
	Detail   string
	Extra    map[string]string
}

// Point emits an instant event when the tracer accepts the scope.
func Point(t Tracer, scope Scope, name, detail string, kv ...string) {
	point(t, Event{Scope: scope, Name: name, Detail: detail}, kv)
}

// point emits ev with kv folded into Extra; a dangling key is dropped.
func point(t Tracer, ev Event, kv []string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(ev.Scope) {
		return
	}
	ev.Time = time.Now()
	ev.Kind = KindPoint
	if len(kv) > 1 {
		ev.Extra = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			ev.Extra[kv[i]] = kv[i+1]
		}
	}
	t.Emit(&ev)
}
