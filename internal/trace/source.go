package trace

// Source is one field's handle on a tracer. Events it emits carry the
// session the field belongs to and the number of the field operation that
// caused them; its spans hang under the span that opened the session.
//
// A Source belongs to one field and is not safe for concurrent use.
type Source struct {
	tracer  Tracer
	session string
	parent  uint64
	op      uint64
}

// NewSource opens a session on t. A nil t traces nothing.
func NewSource(t Tracer, session string, parent uint64) *Source {
	if t == nil {
		t = Nop
	}
	return &Source{tracer: t, session: session, parent: parent}
}

func (s *Source) Tracer() Tracer { return s.tracer }

func (s *Source) Session() string { return s.session }

// NextOp starts the next field operation and returns its number.
func (s *Source) NextOp() uint64 {
	s.op++
	return s.op
}

// Op returns the number of the operation in progress.
func (s *Source) Op() uint64 { return s.op }

// Point emits an instant event for the current operation.
func (s *Source) Point(scope Scope, name, detail string, kv ...string) {
	point(s.tracer, s.stamp(Event{Scope: scope, Name: name, Detail: detail}), kv)
}

// Begin opens a span for the current operation.
func (s *Source) Begin(scope Scope, name string) *Span {
	return begin(s.tracer, s.stamp(Event{Scope: scope, Name: name}))
}

func (s *Source) stamp(ev Event) Event {
	ev.Session = s.session
	ev.Op = s.op
	ev.ParentID = s.parent
	return ev
}
