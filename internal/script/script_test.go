package script

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenfield/internal/diag"
	"tokenfield/internal/trace"
)

func runFile(t *testing.T, path string) *Result {
	t.Helper()
	s, err := Load(afero.NewOsFs(), path)
	require.NoError(t, err)
	res, err := Run(context.Background(), s)
	require.NoError(t, err)
	return res
}

func TestReplayTestdata(t *testing.T) {
	for _, path := range []string{"testdata/typing.yaml", "testdata/collapse.yaml"} {
		t.Run(path, func(t *testing.T) {
			res := runFile(t, path)
			assert.False(t, res.Failed(), res.Bag.Format())
			assert.NotZero(t, res.Steps)
		})
	}
}

func TestExpectationMismatchIsReported(t *testing.T) {
	s, err := Parse([]byte(`
steps:
  - type: "x"
  - expect: {text: "nope"}
`), "inline")
	require.NoError(t, err)
	res, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, []diag.Code{diag.ScrExpectation}, res.Bag.Codes())
	assert.Equal(t, "To: x", res.Final)
}

func TestMalformedSteps(t *testing.T) {
	s, err := Parse([]byte(`
steps:
  - {type: "a", clear: true}
  - {}
`), "inline")
	require.NoError(t, err)
	res, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.ScrBadArgument, diag.ScrUnknownStep}, res.Bag.Codes())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("steps:\n  - tpye: a\n"), "inline")
	assert.Error(t, err)
}

func TestParseKeepsConfigDefaults(t *testing.T) {
	s, err := Parse([]byte("config:\n  hint: Add people\n"), "inline")
	require.NoError(t, err)
	assert.Equal(t, "Add people", s.Config.Hint)
	assert.Equal(t, "To: ", s.Config.Prefix)
	assert.True(t, s.Config.AllowCollapse)
	assert.Equal(t, "inline", s.Name)
}

func TestRunTracesSteps(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	s, err := Parse([]byte("steps:\n  - type: \"mar,\"\n"), "inline")
	require.NoError(t, err)

	_, err = Run(ctx, s)
	require.NoError(t, err)

	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "replay")
	assert.Contains(t, names, "commit")

	var commits []trace.Event
	for _, ev := range ring.Session("inline") {
		assert.NotZero(t, ev.ParentID, ev.Name)
		if ev.Name == "commit" {
			commits = append(commits, ev)
		}
	}
	require.Len(t, commits, 1)
	assert.NotZero(t, commits[0].Op)
}

func TestRunStopsOnCancel(t *testing.T) {
	s, err := Parse([]byte("steps:\n  - type: a\n"), "inline")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
}
