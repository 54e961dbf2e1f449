package field

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"tokenfield/internal/diag"
	"tokenfield/internal/layout"
	"tokenfield/internal/queue"
	"tokenfield/internal/suggest"
	"tokenfield/internal/trace"
)

// Listener is told about token list changes.
type Listener[T any] interface {
	OnTokenAdded(tok T)
	OnTokenRemoved(tok T)
	OnTokenIgnored(tok T)
}

// ListenerFuncs adapts plain functions to Listener; nil members are skipped.
type ListenerFuncs[T any] struct {
	Added   func(T)
	Removed func(T)
	Ignored func(T)
}

func (l ListenerFuncs[T]) OnTokenAdded(tok T) {
	if l.Added != nil {
		l.Added(tok)
	}
}

func (l ListenerFuncs[T]) OnTokenRemoved(tok T) {
	if l.Removed != nil {
		l.Removed(tok)
	}
}

func (l ListenerFuncs[T]) OnTokenIgnored(tok T) {
	if l.Ignored != nil {
		l.Ignored(tok)
	}
}

// View is the rendered form of a token as far as layout cares.
type View interface {
	Width() int
}

// ViewFactory renders a token into a View.
type ViewFactory[T any] interface {
	RenderToken(tok T) View
}

// DefaultObjectFunc builds a token from raw typed text. ok == false means the
// text does not make a token and is discarded.
type DefaultObjectFunc[T any] func(text string) (tok T, ok bool)

type textView int

func (v textView) Width() int { return int(v) }

type plainViews[T any] struct{}

func (plainViews[T]) RenderToken(tok T) View {
	return textView(runewidth.StringWidth(fmt.Sprint(tok)) + 2)
}

type options[T any] struct {
	listener Listener[T]
	defaults DefaultObjectFunc[T]
	ignore   func(T) bool
	adapter  suggest.Adapter[T]
	views    ViewFactory[T]
	metrics  layout.Metrics
	tracer   trace.Tracer
	source   *trace.Source
	reporter diag.Reporter
	queue    *queue.Queue
	focused  bool
}

// Option configures a Field at construction.
type Option[T any] func(*options[T])

func WithListener[T any](l Listener[T]) Option[T] {
	return func(o *options[T]) { o.listener = l }
}

func WithDefaultObject[T any](fn DefaultObjectFunc[T]) Option[T] {
	return func(o *options[T]) { o.defaults = fn }
}

// WithIgnore installs a predicate for tokens that must never be added;
// they are reported through OnTokenIgnored.
func WithIgnore[T any](fn func(T) bool) Option[T] {
	return func(o *options[T]) { o.ignore = fn }
}

func WithAdapter[T any](a suggest.Adapter[T]) Option[T] {
	return func(o *options[T]) { o.adapter = a }
}

func WithViews[T any](v ViewFactory[T]) Option[T] {
	return func(o *options[T]) { o.views = v }
}

func WithMetrics[T any](m layout.Metrics) Option[T] {
	return func(o *options[T]) { o.metrics = m }
}

func WithTracer[T any](t trace.Tracer) Option[T] {
	return func(o *options[T]) { o.tracer = t }
}

// WithTraceSource traces into an existing session; it wins over WithTracer.
func WithTraceSource[T any](src *trace.Source) Option[T] {
	return func(o *options[T]) { o.source = src }
}

// WithReporter receives diagnostics for typed or added tokens the field
// dropped: duplicates, tokens over the limit and text with no token.
func WithReporter[T any](r diag.Reporter) Option[T] {
	return func(o *options[T]) { o.reporter = r }
}

// WithQueue shares a task queue with the host loop.
func WithQueue[T any](q *queue.Queue) Option[T] {
	return func(o *options[T]) { o.queue = q }
}

// WithFocus sets the initial focus state.
func WithFocus[T any](focused bool) Option[T] {
	return func(o *options[T]) { o.focused = focused }
}
