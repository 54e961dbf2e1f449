package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	added   bool
	token   string
	ordinal int
}

type recorder struct {
	events []event
}

func (r *recorder) Attached(m *Mark[string], ordinal int) {
	r.events = append(r.events, event{added: true, token: m.Token, ordinal: ordinal})
}

func (r *recorder) Detached(m *Mark[string], ordinal int) {
	r.events = append(r.events, event{added: false, token: m.Token, ordinal: ordinal})
}

func ranges(marks []*Mark[string]) []Range {
	out := make([]Range, 0, len(marks))
	for _, m := range marks {
		out = append(out, m.Range)
	}
	return out
}

func TestRegistry_AttachKeepsOrder(t *testing.T) {
	reg := NewRegistry[string]()
	rec := &recorder{}
	reg.Watch(rec)

	require.NoError(t, reg.Attach(NewToken(Range{10, 14}, "c")))
	require.NoError(t, reg.Attach(NewToken(Range{0, 4}, "a")))
	require.NoError(t, reg.Attach(NewToken(Range{5, 9}, "b")))

	assert.Equal(t, []Range{{0, 4}, {5, 9}, {10, 14}}, ranges(reg.Tokens()))
	assert.Equal(t, []event{
		{added: true, token: "c", ordinal: 0},
		{added: true, token: "a", ordinal: 0},
		{added: true, token: "b", ordinal: 1},
	}, rec.events)
}

func TestRegistry_AttachRejects(t *testing.T) {
	reg := NewRegistry[string]()
	require.NoError(t, reg.Attach(NewToken(Range{4, 8}, "a")))

	tests := []struct {
		name string
		mark *Mark[string]
		err  error
	}{
		{name: "overlap tail", mark: NewToken(Range{7, 10}, "x"), err: ErrOverlap},
		{name: "overlap head", mark: NewToken(Range{1, 5}, "x"), err: ErrOverlap},
		{name: "contained", mark: NewToken(Range{5, 6}, "x"), err: ErrOverlap},
		{name: "empty", mark: NewToken(Range{9, 9}, "x"), err: ErrEmpty},
		{name: "negative", mark: NewToken(Range{-1, 2}, "x"), err: ErrRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, reg.Attach(tt.mark), tt.err)
		})
	}

	t.Run("other kinds may overlap tokens", func(t *testing.T) {
		assert.NoError(t, reg.Attach(NewCount[string](Range{5, 7}, 2)))
	})
	t.Run("touching is fine", func(t *testing.T) {
		assert.NoError(t, reg.Attach(NewToken(Range{8, 10}, "b")))
	})
}

func TestRegistry_ReattachKeepsIdentity(t *testing.T) {
	reg := NewRegistry[string]()
	m := NewToken(Range{0, 3}, "a")
	require.NoError(t, reg.Attach(m))
	id := m.ID()
	assert.ErrorIs(t, reg.Attach(m), ErrAttached)

	require.True(t, reg.Detach(m))
	assert.False(t, m.Attached())
	assert.False(t, reg.Detach(m))

	m.Range = Range{10, 13}
	require.NoError(t, reg.Attach(m))
	assert.Equal(t, id, m.ID())
}

func TestRegistry_EditShiftsAndDetaches(t *testing.T) {
	// "a, b, c, " with spans over "a,", "b,", "c,"
	newReg := func() (*Registry[string], *recorder) {
		reg := NewRegistry[string]()
		for i, tok := range []string{"a", "b", "c"} {
			require.NoError(t, reg.Attach(NewToken(Range{i * 3, i*3 + 2}, tok)))
		}
		rec := &recorder{}
		reg.Watch(rec)
		return reg, rec
	}

	t.Run("insert before shifts", func(t *testing.T) {
		reg, rec := newReg()
		assert.Empty(t, reg.Edit(0, 0, 4))
		assert.Equal(t, []Range{{4, 6}, {7, 9}, {10, 12}}, ranges(reg.Tokens()))
		assert.Empty(t, rec.events)
	})

	t.Run("insert right after a span leaves it", func(t *testing.T) {
		reg, _ := newReg()
		assert.Empty(t, reg.Edit(2, 2, 1))
		assert.Equal(t, []Range{{0, 2}, {4, 6}, {7, 9}}, ranges(reg.Tokens()))
	})

	t.Run("insert inside detaches", func(t *testing.T) {
		reg, rec := newReg()
		dropped := reg.Edit(4, 4, 1)
		require.Len(t, dropped, 1)
		assert.Equal(t, "b", dropped[0].Mark.Token)
		assert.False(t, dropped[0].Whole)
		assert.Equal(t, 5, dropped[0].Sentinel)
		assert.Equal(t, []event{{token: "b", ordinal: 1}}, rec.events)
		assert.Equal(t, []Range{{0, 2}, {7, 9}}, ranges(reg.Tokens()))
	})

	t.Run("whole deletion", func(t *testing.T) {
		reg, _ := newReg()
		dropped := reg.Edit(3, 6, 0)
		require.Len(t, dropped, 1)
		assert.True(t, dropped[0].Whole)
		assert.Equal(t, -1, dropped[0].Sentinel)
		assert.Equal(t, []Range{{0, 2}, {3, 5}}, ranges(reg.Tokens()))
	})

	t.Run("partial deletion keeps sentinel offset", func(t *testing.T) {
		reg, _ := newReg()
		dropped := reg.Edit(3, 4, 0)
		require.Len(t, dropped, 1)
		assert.False(t, dropped[0].Whole)
		assert.Equal(t, 3, dropped[0].Sentinel)
	})

	t.Run("multi span deletion reports adjusted ordinals", func(t *testing.T) {
		reg, rec := newReg()
		dropped := reg.Edit(1, 8, 0)
		require.Len(t, dropped, 3)
		assert.Equal(t, []event{
			{token: "a", ordinal: 0},
			{token: "b", ordinal: 0},
			{token: "c", ordinal: 0},
		}, rec.events)
		assert.Equal(t, 0, reg.Len(KindToken))
	})
}

func TestRegistry_Queries(t *testing.T) {
	reg := NewRegistry[string]()
	require.NoError(t, reg.Attach(NewHint[string](Range{4, 9})))
	require.NoError(t, reg.Attach(NewToken(Range{0, 3}, "a")))
	require.NoError(t, reg.Attach(NewToken(Range{4, 7}, "b")))
	require.NoError(t, reg.Attach(NewCount[string](Range{8, 10}, 3)))

	assert.NotNil(t, reg.Hint())
	require.NotNil(t, reg.Count())
	assert.Equal(t, 3, reg.Count().Count)

	assert.Equal(t, "b", reg.At(KindToken, 4).Token)
	assert.Nil(t, reg.At(KindToken, 3))
	assert.Nil(t, reg.At(KindToken, 7))

	assert.Len(t, reg.Overlapping(KindToken, 2, 5), 2)
	assert.Len(t, reg.Overlapping(KindToken, 5, 5), 1)
	assert.Empty(t, reg.Overlapping(KindToken, 7, 7))

	all := reg.All()
	require.Len(t, all, 4)
	assert.Equal(t, KindToken, all[0].Kind)
	assert.Equal(t, KindCount, all[3].Kind)

	rec := &recorder{}
	reg.Watch(rec)
	reg.DetachAll()
	assert.Nil(t, reg.Hint())
	assert.Nil(t, reg.Count())
	assert.Equal(t, 0, reg.Len(KindToken))
	assert.Len(t, rec.events, 4)
}
