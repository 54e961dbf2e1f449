package trace

import "context"

type ctxKey struct{}

// carried is what a context holds for tracing: the sink and the span new
// spans hang under.
type carried struct {
	tracer Tracer
	span   uint64
}

func carriedFrom(ctx context.Context) carried {
	if ctx != nil {
		if c, ok := ctx.Value(ctxKey{}).(carried); ok {
			return c
		}
	}
	return carried{tracer: Nop}
}

// WithTracer returns ctx carrying t as a root. A nil t turns tracing off.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, carried{tracer: t})
}

// FromContext returns the tracer ctx carries, or Nop.
func FromContext(ctx context.Context) Tracer {
	return carriedFrom(ctx).tracer
}

// SpanFromContext returns the span ctx runs under; 0 at the root.
func SpanFromContext(ctx context.Context) uint64 {
	return carriedFrom(ctx).span
}

// BeginCtx starts a span under the one ctx carries and returns a context
// that carries the new span.
func BeginCtx(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	c := carriedFrom(ctx)
	sp := Begin(c.tracer, scope, name, c.span)
	if sp.ID() == 0 {
		return sp, ctx
	}
	c.span = sp.ID()
	return sp, context.WithValue(ctx, ctxKey{}, c)
}

// SourceFromContext opens a field session named session under ctx's span.
func SourceFromContext(ctx context.Context, session string) *Source {
	c := carriedFrom(ctx)
	return NewSource(c.tracer, session, c.span)
}
