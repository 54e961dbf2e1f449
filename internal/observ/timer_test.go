package observ

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenfield/internal/trace"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer(nil)
	assert.Equal(t, Report{}, tm.Report())

	stop := tm.Start("load")
	time.Sleep(time.Millisecond)
	stop("")
	stop("ignored")
	tm.Start("replay")("3 steps")

	r := tm.Report()
	require.Len(t, r.Phases, 2)
	assert.Equal(t, "load", r.Phases[0].Name)
	assert.Empty(t, r.Phases[0].Note)
	assert.Equal(t, "3 steps", r.Phases[1].Note)
	assert.GreaterOrEqual(t, r.Phases[0].DurationMS, 1.0)
	assert.InDelta(t, r.Phases[0].DurationMS+r.Phases[1].DurationMS, r.TotalMS, 1e-9)
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer(nil)
	tm.Start("replay")("3 steps")

	s := tm.Summary()
	assert.True(t, strings.HasPrefix(s, "timings:\n"))
	assert.Contains(t, s, "replay")
	assert.Contains(t, s, "// 3 steps")
	assert.Contains(t, s, "total")
}

func TestTimerTracesPhases(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelPhase)
	tm := NewTimer(ring)
	tm.Start("load")("")
	tm.Start("replay")("2 steps")

	events := ring.Snapshot()
	require.Len(t, events, 4)
	assert.Equal(t, "load", events[0].Name)
	assert.Equal(t, trace.KindSpanEnd, events[3].Kind)
	assert.Equal(t, "2 steps", events[3].Detail)
}
