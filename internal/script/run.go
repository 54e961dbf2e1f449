package script

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"tokenfield/internal/chip"
	"tokenfield/internal/config"
	"tokenfield/internal/contact"
	"tokenfield/internal/diag"
	"tokenfield/internal/field"
	"tokenfield/internal/layout"
	"tokenfield/internal/testkit"
	"tokenfield/internal/trace"
)

// Result is the outcome of one replay.
type Result struct {
	Name  string
	Steps int
	Bag   *diag.Bag
	Final string
}

// Failed reports whether the replay produced errors.
func (r *Result) Failed() bool { return r.FailedAt(diag.SevError) }

// FailedAt reports a diagnostic at min or above.
func (r *Result) FailedAt(min diag.Severity) bool { return r.Bag.AtLeast(min) }

type runner struct {
	f      *field.Field[contact.Person]
	rec    *testkit.Recorder[contact.Person]
	cfg    field.Config
	opts   []field.Option[contact.Person]
	bag    *diag.Bag
	rep    diag.Reporter
	src    *trace.Source
}

// Run replays s. The error is non-nil only when the script cannot start;
// step failures are reported in the result bag. ctx carries the tracer
// and cancels between steps. A nil Config runs on defaults.
func Run(ctx context.Context, s *Script) (*Result, error) {
	sp, ctx := trace.BeginCtx(ctx, trace.ScopeCommand, "replay")
	defer sp.End(s.Name)

	file := config.Default()
	if s.Config != nil {
		file.Field = *s.Config
	}
	cfg, err := file.FieldConfig()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Source, err)
	}

	people := s.Contacts
	if len(people) == 0 {
		people = contact.Samples()
	}
	focus := true
	if s.Focus != nil {
		focus = *s.Focus
	}

	res := &Result{Name: s.Name, Bag: diag.NewBag(0)}
	r := &runner{
		rec:    &testkit.Recorder[contact.Person]{},
		cfg:    cfg,
		bag:    res.Bag,
		rep:    diag.BagReporter{Bag: res.Bag},
		src:    trace.SourceFromContext(ctx, s.session()),
	}
	views := chip.New[contact.Person]()
	views.MaxWidth = file.View.ChipMaxWidth
	var metrics layout.Metrics = layout.Unbounded{}
	if s.Width > 0 {
		metrics = layout.Grid{Width: s.Width}
	}
	r.opts = []field.Option[contact.Person]{
		field.WithListener[contact.Person](r.rec),
		field.WithDefaultObject[contact.Person](contact.DefaultObject),
		field.WithAdapter[contact.Person](contact.NewAdapter(people)),
		field.WithViews[contact.Person](views),
		field.WithMetrics[contact.Person](metrics),
		field.WithTraceSource[contact.Person](r.src),
		field.WithReporter[contact.Person](diag.NewDedupReporter(r.rep)),
		field.WithFocus[contact.Person](focus),
	}
	r.f = field.New(cfg, r.opts...)

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Steps++
		loc := diag.Location{Source: s.Source, Start: i + 1}
		if n := step.actions(); n > 1 {
			diag.ReportError(r.rep, diag.ScrBadArgument, loc,
				fmt.Sprintf("step %d has %d actions, want at most one", i+1, n)).Emit()
			continue
		}
		if step.actions() == 0 && step.Expect == nil {
			diag.ReportError(r.rep, diag.ScrUnknownStep, loc, fmt.Sprintf("step %d does nothing", i+1)).Emit()
			continue
		}
		if err := r.apply(step); err != nil {
			diag.ReportError(r.rep, diag.ScrStepFailed, loc, fmt.Sprintf("step %d: %v", i+1, err)).Emit()
		}
		if err := r.f.Drain(); err != nil {
			diag.ReportError(r.rep, diag.ScrStepFailed, loc, fmt.Sprintf("step %d: drain: %v", i+1, err)).Emit()
		}
		if err := testkit.CheckField(r.f, r.f.Config().SplitChars...); err != nil {
			diag.ReportError(r.rep, diag.ScrInvariant, loc, fmt.Sprintf("step %d: %v", i+1, err)).Emit()
		}
		if step.Expect != nil {
			r.expect(*step.Expect, loc)
		}
	}
	res.Final = r.f.Text()
	sp.WithExtra("steps", strconv.Itoa(res.Steps))
	return res, nil
}

func (r *runner) apply(s Step) error {
	f := r.f
	switch {
	case s.Type != nil:
		for _, ch := range *s.Type {
			if err := f.InsertText(string(ch)); err != nil {
				return err
			}
		}
	case s.Backspace != nil:
		for range max(*s.Backspace, 1) {
			if err := f.Backspace(); err != nil {
				return err
			}
		}
	case s.Delete != nil:
		for range max(*s.Delete, 1) {
			if err := f.DeleteForward(); err != nil {
				return err
			}
		}
	case s.Caret != nil:
		f.SetSelection(*s.Caret, *s.Caret)
	case s.Move != nil:
		f.MoveCaret(*s.Move)
	case s.Click != nil:
		return f.Click(*s.Click)
	case s.Commit:
		return f.Commit()
	case s.Select != nil:
		return f.SelectSuggestion(*s.Select)
	case s.Replace != nil:
		return f.Replace(s.Replace.Start, s.Replace.End, s.Replace.Text)
	case s.Add != nil:
		f.AddObjectWithText(*s.Add, s.Add.Name)
	case s.Remove != nil:
		f.RemoveObject(*s.Remove)
	case s.Clear:
		f.Clear()
	case s.SetFocus != nil:
		return f.SetFocus(*s.SetFocus)
	case s.Collapse:
		return f.Collapse()
	case s.Save:
		return r.saveRestore()
	}
	return nil
}

// saveRestore moves the session into a fresh field through a snapshot. The
// listener is shared, so restored tokens count as added again.
func (r *runner) saveRestore() error {
	snap, bag, err := r.f.SaveState()
	if err != nil {
		return err
	}
	r.bag.Merge(bag)
	next := field.New(r.cfg, r.opts...)
	rbag, err := next.RestoreState(snap, contact.Decode)
	if err != nil {
		return err
	}
	r.bag.Merge(rbag)
	r.f = next
	return nil
}

func (r *runner) expect(e Expect, loc diag.Location) {
	f := r.f
	fail := func(what string, got, want any) {
		diag.ReportError(r.rep, diag.ScrExpectation, loc,
			fmt.Sprintf("step %d: %s = %v, want %v", loc.Start, what, got, want)).Emit()
	}
	if e.Text != nil && f.Text() != *e.Text {
		fail("text", strconv.Quote(f.Text()), strconv.Quote(*e.Text))
	}
	if e.Objects != nil {
		names := make([]string, 0, len(f.Objects()))
		for _, p := range f.Objects() {
			names = append(names, p.Name)
		}
		if !slices.Equal(names, *e.Objects) {
			fail("objects", names, *e.Objects)
		}
	}
	if e.Hidden != nil && len(f.Hidden()) != *e.Hidden {
		fail("hidden", len(f.Hidden()), *e.Hidden)
	}
	if e.Count != nil && f.CountText() != *e.Count {
		fail("count", strconv.Quote(f.CountText()), strconv.Quote(*e.Count))
	}
	if e.Completion != nil && f.CompletionText() != *e.Completion {
		fail("completion", strconv.Quote(f.CompletionText()), strconv.Quote(*e.Completion))
	}
	if e.Caret != nil && f.Caret() != *e.Caret {
		fail("caret", f.Caret(), *e.Caret)
	}
	if e.Hint != nil && f.HintVisible() != *e.Hint {
		fail("hint", f.HintVisible(), *e.Hint)
	}
	if e.Selected != nil {
		name := ""
		if p, ok := f.Selected(); ok {
			name = p.Name
		}
		if name != *e.Selected {
			fail("selected", strconv.Quote(name), strconv.Quote(*e.Selected))
		}
	}
	if e.Added != nil && len(r.rec.Added) != *e.Added {
		fail("added", len(r.rec.Added), *e.Added)
	}
	if e.Removed != nil && len(r.rec.Removed) != *e.Removed {
		fail("removed", len(r.rec.Removed), *e.Removed)
	}
	if e.Ignored != nil && len(r.rec.Ignored) != *e.Ignored {
		fail("ignored", len(r.rec.Ignored), *e.Ignored)
	}
}
