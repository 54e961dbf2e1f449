package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_ShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeCommand, false},
		{LevelError, ScopeCommand, false},
		{LevelPhase, ScopeField, true},
		{LevelPhase, ScopeEdit, false},
		{LevelDetail, ScopeEdit, true},
		{LevelDetail, ScopeSpan, false},
		{LevelDebug, ScopeSpan, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String()+"/"+tt.scope.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.ShouldEmit(tt.scope))
		})
	}
}

func TestParse(t *testing.T) {
	lvl, err := ParseLevel("DETAIL")
	require.NoError(t, err)
	assert.Equal(t, LevelDetail, lvl)
	_, err = ParseLevel("loud")
	assert.Error(t, err)

	mode, err := ParseMode("both")
	require.NoError(t, err)
	assert.Equal(t, ModeBoth, mode)

	f, err := ParseFormat("ndjson")
	require.NoError(t, err)
	assert.Equal(t, FormatNDJSON, f)
}

func TestStreamTracer_Text(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	Point(tr, ScopeEdit, "commit", "Marshall", "at", "4", "len", "10")
	Point(tr, ScopeSpan, "attach", "")
	sp := Begin(tr, ScopeField, "collapse", 0)
	sp.WithExtra("hidden", "2").End("")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "• edit:commit (Marshall) {at=4, len=10}")
	assert.Contains(t, lines[1], "→ field:collapse")
	assert.Contains(t, lines[2], "← field:collapse {hidden=2}")
}

func TestRingAndMulti(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	var buf bytes.Buffer
	multi := NewMultiTracer(LevelDebug, NewStreamTracer(&buf, LevelDebug, FormatNDJSON), ring)

	for _, name := range []string{"a", "b", "c"} {
		Point(multi, ScopeSpan, name, "")
	}
	require.NoError(t, multi.Close())

	snap := ring.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "b", snap[0].Name)
	assert.Equal(t, "c", snap[1].Name)
	assert.Same(t, ring, multi.Ring())
	assert.Equal(t, 3, strings.Count(buf.String(), `"scope":"span"`))
	assert.Same(t, ring, FindRing(multi))
	assert.Nil(t, FindRing(Nop))
}

func TestContextPropagation(t *testing.T) {
	assert.Equal(t, Nop, FromContext(context.Background()))

	ring := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	outer, ctx := BeginCtx(ctx, ScopeCommand, "replay")
	inner, _ := BeginCtx(ctx, ScopeField, "restore")
	inner.End("")
	outer.End("ok")

	events := ring.Snapshot()
	require.Len(t, events, 4)
	assert.Equal(t, outer.ID(), events[1].ParentID)
	assert.Equal(t, "ok", events[3].Detail)
	assert.Equal(t, uint64(0), SpanFromContext(context.Background()))
}

func TestSourceStampsSessionAndOp(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	outer, ctx := BeginCtx(ctx, ScopeCommand, "replay")
	a := SourceFromContext(ctx, "a.yaml")
	b := SourceFromContext(ctx, "b.yaml")

	a.NextOp()
	a.Point(ScopeEdit, "commit", "Marshall")
	b.NextOp()
	b.NextOp()
	sp := b.Begin(ScopeField, "collapse")
	sp.WithExtra("hidden", "1").End("")
	outer.End("")

	got := ring.Session("a.yaml")
	require.Len(t, got, 1)
	assert.Equal(t, uint64(1), got[0].Op)
	assert.Equal(t, "commit", got[0].Name)

	got = ring.Session("b.yaml")
	require.Len(t, got, 2)
	assert.Equal(t, uint64(2), got[0].Op)
	assert.Equal(t, outer.ID(), got[0].ParentID)
	assert.Equal(t, KindSpanEnd, got[1].Kind)
	assert.Equal(t, "1", got[1].Extra["hidden"])

	line := string(FormatEvent(&got[1], FormatText))
	assert.Contains(t, line, "b.yaml#2")
	assert.Contains(t, line, "← field:collapse {hidden=1}")
}

func TestRingWrapsInOrder(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeSpan, name, "")
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{"c", "d", "e"}, names)
	assert.Empty(t, ring.Session("nobody"))
}

func TestNew(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	require.NoError(t, err)
	require.IsType(t, &MultiTracer{}, tr)
	Point(tr, ScopeCommand, "demo", "")
	assert.NotEmpty(t, buf.String())

	tr, err = New(Config{Level: LevelPhase, Mode: ModeRing})
	require.NoError(t, err)
	assert.IsType(t, &RingTracer{}, tr)

	fs := afero.NewMemMapFs()
	tr, err = New(Config{Level: LevelPhase, Mode: ModeStream, OutputPath: "/trace.ndjson", Fs: fs})
	require.NoError(t, err)
	Point(tr, ScopeField, "collapse", "")
	require.NoError(t, tr.Close())
	data, err := afero.ReadFile(fs, "/trace.ndjson")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"collapse"`)
}
