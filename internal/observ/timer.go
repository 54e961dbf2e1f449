package observ

import (
	"fmt"
	"strings"
	"time"

	"tokenfield/internal/trace"
)

// Phase is one timed step of a replay, such as loading or running a script.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	done  bool
}

// Timer times the phases of one script replay and mirrors each phase as a
// command span on its tracer. Give each replay its own Timer.
type Timer struct {
	tracer trace.Tracer
	phases []Phase
}

// NewTimer returns a Timer tracing into t; nil traces nothing.
func NewTimer(t trace.Tracer) *Timer {
	if t == nil {
		t = trace.Nop
	}
	return &Timer{tracer: t}
}

// Start opens a phase. The returned stop closes it with a note; calls after
// the first do nothing.
func (t *Timer) Start(name string) (stop func(note string)) {
	i := len(t.phases)
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	sp := trace.Begin(t.tracer, trace.ScopeCommand, name, 0)
	return func(note string) {
		p := &t.phases[i]
		if p.done {
			return
		}
		p.done = true
		p.Dur = time.Since(p.Start)
		p.Note = note
		sp.End(note)
	}
}

// Summary renders the phases as an aligned table with a total row.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

// PhaseReport is the serializable form of a Phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is a replay's timings in milliseconds.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report lists the closed phases; open ones count as zero.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	r := Report{Phases: make([]PhaseReport, 0, len(t.phases))}
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	r.TotalMS = millis(total)
	return r
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
