package field

import (
	"fmt"
	"strings"

	"tokenfield/internal/diag"
	"tokenfield/internal/span"
	"tokenfield/internal/suggest"
	"tokenfield/internal/tokens"
	"tokenfield/internal/trace"
)

// composing returns the range of uncommitted text ending at the caret.
func (f *Field[T]) composing() (int, int) {
	if f.HintVisible() {
		return f.caret, f.caret
	}
	end := f.caret
	start := f.tok.FindTokenStart(f.buf, end)
	start = max(start, f.prefixLen())
	start = min(start, end)
	return start, end
}

// CompletionText returns the text being composed.
func (f *Field[T]) CompletionText() string {
	start, end := f.composing()
	return string(f.buf[start:end])
}

// EnoughToFilter reports whether the composing text reaches the threshold.
func (f *Field[T]) EnoughToFilter() bool {
	start, end := f.composing()
	return end-start >= max(f.cfg.Threshold, 1)
}

// Commit turns the composing text into a token.
func (f *Field[T]) Commit() error {
	if !f.editable() {
		return nil
	}
	return f.complete()
}

// SelectSuggestion commits adapter item i.
func (f *Field[T]) SelectSuggestion(i int) error {
	if f.adapter == nil || i < 0 || i >= f.adapter.Count() {
		return fmt.Errorf("suggestion %d out of range", i)
	}
	if !f.editable() {
		return nil
	}
	f.listSel = i
	defer func() { f.listSel = -1 }()
	return f.complete()
}

// Suggestions returns the adapter's current items.
func (f *Field[T]) Suggestions() []T {
	if f.adapter == nil {
		return nil
	}
	out := make([]T, 0, f.adapter.Count())
	for i := range f.adapter.Count() {
		out = append(out, f.adapter.ItemAt(i))
	}
	return out
}

func (f *Field[T]) refilter() {
	if fl, ok := f.adapter.(suggest.Filterer); ok {
		fl.Filter(f.CompletionText())
	}
}

// candidate picks the token for the composing text: an explicit suggestion,
// else the first filtered suggestion under best guess, else the default
// object factory.
func (f *Field[T]) candidate(text string) (T, bool) {
	var zero T
	if f.adapter != nil && f.listSel >= 0 && f.listSel < f.adapter.Count() {
		return f.adapter.ItemAt(f.listSel), true
	}
	if f.cfg.BestGuess && f.adapter != nil && f.adapter.Count() > 0 {
		return f.adapter.ItemAt(0), true
	}
	if f.defaults != nil {
		return f.defaults(text)
	}
	return zero, false
}

func (f *Field[T]) complete() error {
	if !f.EnoughToFilter() && f.listSel < 0 {
		return nil
	}
	start, end := f.composing()
	raw := string(f.buf[start:end])

	tok, ok := f.candidate(raw)
	if ok && f.ignore != nil && f.ignore(tok) {
		f.listener.OnTokenIgnored(tok)
		ok = false
	}
	if !ok {
		f.emit(trace.ScopeEdit, "discard", raw)
		f.report(diag.SevInfo, diag.FldNoDefaultObject, start, end, fmt.Sprintf("%q made no token", raw))
		f.splice(start, end, nil)
		return f.afterCommit()
	}

	switch f.list.Check(tok) {
	case tokens.Duplicate:
		f.emit(trace.ScopeEdit, "duplicate", fmt.Sprint(tok))
		f.report(diag.SevWarning, diag.FldDuplicateIgnored, start, end, fmt.Sprintf("%v is already in the field", tok))
		f.splice(start, end, nil)
		f.listener.OnTokenIgnored(tok)
		return f.afterCommit()
	case tokens.LimitReached:
		f.emit(trace.ScopeEdit, "limit", fmt.Sprint(tok))
		f.report(diag.SevWarning, diag.FldLimitReached, start, end, fmt.Sprintf("%v dropped at %d tokens", tok, f.cfg.TokenLimit))
		f.splice(start, end, nil)
		return f.afterCommit()
	}

	text := f.tokenText(f.display(tok, raw))
	f.splice(start, end, []rune(text))
	m := span.NewToken(span.Range{Start: start, End: start + len([]rune(text)) - 1}, tok)
	m.Text = text
	if err := f.reg.Attach(m); err != nil {
		return fmt.Errorf("commit %v: %w", tok, err)
	}
	f.emit(trace.ScopeEdit, "commit", fmt.Sprint(tok), "range", m.Range.String())
	return f.afterCommit()
}

func (f *Field[T]) afterCommit() error {
	f.updateHint()
	f.clampCaret()
	f.refilter()
	return nil
}

// display is the text a token is committed over.
func (f *Field[T]) display(tok T, raw string) string {
	switch f.cfg.DeletionStyle {
	case DeletePartialCompletion:
		return raw
	case DeleteToString, DeletePlatformDefault:
		return fmt.Sprint(tok)
	default:
		return ""
	}
}

// tokenText terminates display with the sentinel and one trailing space.
func (f *Field[T]) tokenText(display string) string {
	return strings.TrimRight(f.tok.TerminateToken(display), " ") + " "
}
