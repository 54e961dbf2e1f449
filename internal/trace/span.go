package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

// nextSeq numbers events in the order sinks accept them.
func nextSeq() uint64 { return seq.Add(1) }

// Span is one traced operation. The zero Span emits nothing.
type Span struct {
	tracer Tracer
	ev     Event // template for the end event
}

// Begin opens a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, Event{Scope: scope, Name: name, ParentID: parent})
}

func begin(t Tracer, ev Event) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(ev.Scope) {
		return &Span{}
	}
	ev.SpanID = spanIDs.Add(1)
	ev.Time = time.Now()
	open := ev
	open.Kind = KindSpanBegin
	t.Emit(&open)
	return &Span{tracer: t, ev: ev}
}

// End emits the end event and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	ev := s.ev
	ev.Kind = KindSpanEnd
	ev.Time = time.Now()
	ev.Detail = detail
	s.tracer.Emit(&ev)
	return ev.Time.Sub(s.ev.Time)
}

// WithExtra adds a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.ev.Extra == nil {
		s.ev.Extra = make(map[string]string)
	}
	s.ev.Extra[key] = value
	return s
}

// ID returns the span id, 0 when the span emits nothing.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.ev.SpanID
}
