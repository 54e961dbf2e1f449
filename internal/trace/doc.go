// Package trace records what a token field does while it is being edited.
//
// Every field operation can emit events: edits and commits, span attach and
// detach, collapse and expand, state save and restore. Each field traces
// through a Source, which stamps its events with the session name and the
// number of the field operation that caused them. The CLI routes events to
// stderr, a file, or an in-memory ring whose session is printed when a
// replay fails.
//
// # Usage
//
//	tokenfield replay --trace=- --trace-level=detail scripts/*.yaml
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: circular buffer of the most recent events
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits command and field scope events (replay steps, collapse,
// restore). LevelDetail adds edit scope events. LevelDebug adds span scope
// events for every registry change.
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//
//	src := trace.SourceFromContext(ctx, "basic.yaml")
//	src.NextOp()
//	span := src.Begin(trace.ScopeField, "collapse")
//	defer span.End("")
package trace
