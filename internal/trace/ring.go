package trace

import "sync"

// RingTracer keeps the most recent events in memory so a failed replay can
// show how its field got there.
type RingTracer struct {
	mu     sync.RWMutex
	events []Event
	total  int // events accepted so far
	level  Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := *ev
	kept.Seq = nextSeq()
	t.events[t.total%len(t.events)] = kept
	t.total++
}

// Snapshot returns the kept events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	return t.filter(func(*Event) bool { return true })
}

// Session returns the kept events of one field session, oldest first.
func (t *RingTracer) Session(name string) []Event {
	return t.filter(func(ev *Event) bool { return ev.Session == name })
}

func (t *RingTracer) filter(keep func(*Event) bool) []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := min(t.total, len(t.events))
	out := make([]Event, 0, n)
	for i := t.total - n; i < t.total; i++ {
		if ev := &t.events[i%len(t.events)]; keep(ev) {
			out = append(out, *ev)
		}
	}
	return out
}

func (t *RingTracer) Flush() error { return nil }

func (t *RingTracer) Close() error { return nil }

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// FindRing returns the ring behind t, looking inside a fan-out.
func FindRing(t Tracer) *RingTracer {
	switch t := t.(type) {
	case *RingTracer:
		return t
	case *MultiTracer:
		return t.Ring()
	}
	return nil
}
