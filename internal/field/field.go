package field

import (
	"fmt"
	"strconv"

	"tokenfield/internal/diag"
	"tokenfield/internal/layout"
	"tokenfield/internal/queue"
	"tokenfield/internal/span"
	"tokenfield/internal/suggest"
	"tokenfield/internal/tokenizer"
	"tokenfield/internal/tokens"
	"tokenfield/internal/trace"
)

// Field is the token field model for tokens of type T.
type Field[T comparable] struct {
	cfg Config
	tok tokenizer.Tokenizer

	buf   []rune
	caret int

	reg    *span.Registry[T]
	list   *tokens.List[T]
	hidden []*span.Mark[T]

	focused  bool
	selected *span.Mark[T]
	listSel  int
	guard    guard

	queue    *queue.Queue
	listener Listener[T]
	defaults DefaultObjectFunc[T]
	ignore   func(T) bool
	adapter  suggest.Adapter[T]
	views    ViewFactory[T]
	metrics  layout.Metrics
	trace    *trace.Source
	reporter diag.Reporter
}

// New builds a field with cfg. An invalid cfg is replaced field by field with
// defaults where possible; use Apply to get the validation error.
func New[T comparable](cfg Config, opts ...Option[T]) *Field[T] {
	o := options[T]{}
	for _, opt := range opts {
		opt(&o)
	}
	f := &Field[T]{
		reg:      span.NewRegistry[T](),
		list:     tokens.NewList[T](tokens.Policy{}),
		listSel:  -1,
		focused:  o.focused,
		queue:    o.queue,
		listener: o.listener,
		defaults: o.defaults,
		ignore:   o.ignore,
		adapter:  o.adapter,
		views:    o.views,
		metrics:  o.metrics,
		trace:    o.source,
		reporter: o.reporter,
	}
	if f.queue == nil {
		f.queue = queue.New()
	}
	if f.listener == nil {
		f.listener = ListenerFuncs[T]{}
	}
	if f.views == nil {
		f.views = plainViews[T]{}
	}
	if f.metrics == nil {
		f.metrics = layout.Unbounded{}
	}
	if f.trace == nil {
		f.trace = trace.NewSource(o.tracer, "", 0)
	}
	f.reg.Watch(listWatcher[T]{f: f})
	if cfg.TokenLimit < 0 {
		cfg.TokenLimit = 0
	}
	if cfg.Threshold < 0 {
		cfg.Threshold = 0
	}
	f.applyConfig(cfg)
	return f
}

// Apply validates cfg and reconfigures the field, keeping its tokens.
func (f *Field[T]) Apply(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.applyConfig(cfg)
	return nil
}

func (f *Field[T]) applyConfig(cfg Config) {
	f.SetSplitChars(cfg.SplitChars...)
	f.SetAllowDuplicates(cfg.AllowDuplicates)
	f.SetBestGuess(cfg.BestGuess)
	f.SetTokenLimit(cfg.TokenLimit)
	f.SetAllowCollapse(cfg.AllowCollapse)
	f.SetDeletionStyle(cfg.DeletionStyle)
	f.SetClickStyle(cfg.ClickStyle)
	f.SetThreshold(cfg.Threshold)
	f.removeHint()
	f.cfg.Hint = cfg.Hint
	f.SetPrefix(cfg.Prefix)
}

// Config returns the current configuration.
func (f *Field[T]) Config() Config {
	cfg := f.cfg
	cfg.SplitChars = f.tok.Splits()
	return cfg
}

// Queue returns the queue programmatic operations are posted to.
func (f *Field[T]) Queue() *queue.Queue { return f.queue }

// Drain runs every posted operation.
func (f *Field[T]) Drain() error { return f.queue.Drain() }

// SetPrefix replaces the protected prefix text.
func (f *Field[T]) SetPrefix(prefix string) {
	old := len([]rune(f.cfg.Prefix))
	f.cfg.Prefix = prefix
	f.splice(0, min(old, len(f.buf)), []rune(prefix))
	f.updateHint()
	f.clampCaret()
}

// SetHint changes the hint, replacing it in place when it is showing.
func (f *Field[T]) SetHint(hint string) {
	f.removeHint()
	f.cfg.Hint = hint
	f.updateHint()
	f.clampCaret()
}

// SetSplitChars installs the split characters; an empty set means ','.
func (f *Field[T]) SetSplitChars(chars ...rune) {
	f.tok = tokenizer.New(tokenizer.Normalize(chars)...)
	f.cfg.SplitChars = f.tok.Splits()
}

func (f *Field[T]) SetAllowDuplicates(allow bool) {
	f.cfg.AllowDuplicates = allow
	f.list.SetPolicy(tokens.Policy{AllowDuplicates: allow, Limit: f.cfg.TokenLimit})
}

func (f *Field[T]) SetBestGuess(on bool) { f.cfg.BestGuess = on }

// SetTokenLimit bounds the token count; 0 removes the bound.
func (f *Field[T]) SetTokenLimit(limit int) {
	if limit < 0 {
		limit = 0
	}
	f.cfg.TokenLimit = limit
	f.list.SetPolicy(tokens.Policy{AllowDuplicates: f.cfg.AllowDuplicates, Limit: limit})
}

func (f *Field[T]) SetAllowCollapse(allow bool) { f.cfg.AllowCollapse = allow }

func (f *Field[T]) SetDeletionStyle(s DeletionStyle) { f.cfg.DeletionStyle = s }

func (f *Field[T]) SetClickStyle(s ClickStyle) {
	f.cfg.ClickStyle = s
	if !s.Selectable() {
		f.selected = nil
	}
}

func (f *Field[T]) SetThreshold(n int) {
	if n < 0 {
		n = 0
	}
	f.cfg.Threshold = n
}

// Objects returns the token list: visible tokens in buffer order, then hidden.
func (f *Field[T]) Objects() []T { return f.list.All() }

// Text returns the whole buffer.
func (f *Field[T]) Text() string { return string(f.buf) }

// Len returns the buffer length in runes.
func (f *Field[T]) Len() int { return len(f.buf) }

func (f *Field[T]) Caret() int { return f.caret }

func (f *Field[T]) Focused() bool { return f.focused }

// TextRange returns the buffer text in [start, end), or false when the range
// is outside the buffer.
func (f *Field[T]) TextRange(start, end int) (string, bool) {
	if start < 0 || end > len(f.buf) || start > end {
		return "", false
	}
	return string(f.buf[start:end]), true
}

// Hidden returns the tokens hidden behind the count marker.
func (f *Field[T]) Hidden() []T {
	out := make([]T, 0, len(f.hidden))
	for _, m := range f.hidden {
		out = append(out, m.Token)
	}
	return out
}

// CountText returns the "+N" marker text, or "" when not collapsed.
func (f *Field[T]) CountText() string {
	c := f.reg.Count()
	if c == nil {
		return ""
	}
	return string(f.buf[c.Start:c.End])
}

// HintVisible reports whether the hint is displayed.
func (f *Field[T]) HintVisible() bool { return f.reg.Hint() != nil }

// Marks returns every attached span ordered by offset.
func (f *Field[T]) Marks() []*span.Mark[T] { return f.reg.All() }

// TokenMarks returns the attached token spans in buffer order.
func (f *Field[T]) TokenMarks() []*span.Mark[T] { return f.reg.Tokens() }

// Selected returns the selected token under a selectable click style.
func (f *Field[T]) Selected() (T, bool) {
	if f.selected == nil {
		var zero T
		return zero, false
	}
	return f.selected.Token, true
}

// Doc describes the buffer for layout, with chips sized by the view factory.
func (f *Field[T]) Doc() layout.Doc {
	doc := layout.Doc{Text: f.buf}
	for _, m := range f.reg.Tokens() {
		doc.Chips = append(doc.Chips, layout.Chip{
			Start: m.Start,
			End:   m.End,
			Width: f.views.RenderToken(m.Token).Width(),
		})
	}
	return doc
}

func (f *Field[T]) prefixLen() int {
	return min(len([]rune(f.cfg.Prefix)), len(f.buf))
}

// splice replaces [start, end) with text, keeps spans in step and moves the
// caret along.
func (f *Field[T]) splice(start, end int, text []rune) []span.Detached[T] {
	start = max(0, min(start, len(f.buf)))
	end = max(start, min(end, len(f.buf)))
	buf := make([]rune, 0, len(f.buf)-(end-start)+len(text))
	buf = append(buf, f.buf[:start]...)
	buf = append(buf, text...)
	buf = append(buf, f.buf[end:]...)
	f.buf = buf

	delta := len(text) - (end - start)
	switch {
	case f.caret >= end:
		f.caret += delta
	case f.caret > start:
		f.caret = start + len(text)
	}
	return f.reg.Edit(start, end, len(text))
}

func (f *Field[T]) emit(scope trace.Scope, name, detail string, kv ...string) {
	f.trace.Point(scope, name, detail, kv...)
}

// report sends a dropped-token finding for buffer range [start, end).
func (f *Field[T]) report(sev diag.Severity, code diag.Code, start, end int, msg string) {
	if f.reporter == nil {
		return
	}
	loc := diag.Location{Source: "field", Start: start, End: end}
	diag.NewReportBuilder(f.reporter, sev, code, loc, msg).Emit()
}

func itoa(n int) string { return strconv.Itoa(n) }

func (f *Field[T]) String() string {
	return fmt.Sprintf("Field{%q caret=%d tokens=%d hidden=%d}", string(f.buf), f.caret, f.list.Len(), len(f.hidden))
}
