package state

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func sample() *Snapshot {
	s := &Snapshot{
		Prefix:          "To: ",
		AllowCollapse:   true,
		AllowDuplicates: false,
		BestGuess:       true,
		TokenLimit:      5,
		ClickStyle:      2,
		DeletionStyle:   1,
		Tokens:          [][]byte{[]byte("a"), []byte("b")},
	}
	s.SetRunes([]rune{',', ';'})
	base, err := MarshalBase(Base{Text: "To: x", Caret: 5, Focus: true})
	if err != nil {
		panic(err)
	}
	s.Base = base
	return s
}

func TestSnapshot_RoundTrip(t *testing.T) {
	data, err := Marshal(sample())
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, got.Schema)
	assert.Equal(t, "To: ", got.Prefix)
	assert.Equal(t, []rune{',', ';'}, got.Runes())
	assert.Equal(t, int32(5), got.TokenLimit)
	assert.Len(t, got.Tokens, 2)

	base, err := UnmarshalBase(got.Base)
	require.NoError(t, err)
	assert.Equal(t, Base{Text: "To: x", Caret: 5, Focus: true}, base)
}

func TestDecode_RejectsSchema(t *testing.T) {
	s := sample()
	s.Schema = SchemaVersion + 1
	var buf bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&buf).Encode(s))

	_, err := Decode(&buf)
	assert.ErrorIs(t, err, ErrSchema)

	_, err = Unmarshal([]byte{0xc1})
	assert.Error(t, err)
}

func TestUnmarshalBase_Empty(t *testing.T) {
	b, err := UnmarshalBase(nil)
	require.NoError(t, err)
	assert.Equal(t, Base{}, b)
}

func TestStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	st := NewStore(fs, "/var/tokenfield")

	_, ok, err := st.Get("demo")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Put("demo", sample()))
	exists, err := afero.Exists(fs, "/var/tokenfield/demo.mp")
	require.NoError(t, err)
	assert.True(t, exists)

	snap, ok, err := st.Get("demo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "To: ", snap.Prefix)

	entries, err := afero.ReadDir(fs, "/var/tokenfield")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	next := sample()
	next.Prefix = "Cc: "
	require.NoError(t, st.Put("demo", next))
	snap, ok, err = st.Get("demo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Cc: ", snap.Prefix)
	entries, err = afero.ReadDir(fs, "/var/tokenfield")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, st.Drop("demo"))
	require.NoError(t, st.Drop("demo"))
	_, ok, err = st.Get("demo")
	require.NoError(t, err)
	assert.False(t, ok)
}
