// Package state defines the saved form of a token field.
package state

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion is bumped whenever Snapshot changes shape.
const SchemaVersion uint16 = 1

// ErrSchema reports a snapshot written by an incompatible version.
var ErrSchema = errors.New("state: unsupported snapshot schema")

// Snapshot carries a field's configuration, tokens and base buffer state
// across a pause/resume boundary.
type Snapshot struct {
	Schema uint16

	Prefix          string
	AllowCollapse   bool
	AllowDuplicates bool
	BestGuess       bool
	TokenLimit      int32
	ClickStyle      uint8
	DeletionStyle   uint8
	SplitChars      []int32

	// Tokens holds each persisted token as produced by MarshalToken.
	Tokens [][]byte

	// Base is the encoded Base state.
	Base []byte
}

// Base is the plain editor state underneath the tokens.
type Base struct {
	Text  string
	Caret int32
	Focus bool
}

// Persistable is implemented by tokens that can be saved.
type Persistable interface {
	MarshalToken() ([]byte, error)
}

// Decoder turns saved token bytes back into a token.
type Decoder[T any] func(data []byte) (T, error)

// Encode writes s to w.
func Encode(w io.Writer, s *Snapshot) error {
	if s.Schema == 0 {
		s.Schema = SchemaVersion
	}
	return msgpack.NewEncoder(w).Encode(s)
}

// Decode reads a snapshot from r and checks its schema.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, s.Schema, SchemaVersion)
	}
	return &s, nil
}

func Marshal(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Unmarshal(data []byte) (*Snapshot, error) {
	return Decode(bytes.NewReader(data))
}

func MarshalBase(b Base) ([]byte, error) {
	return msgpack.Marshal(&b)
}

func UnmarshalBase(data []byte) (Base, error) {
	var b Base
	if len(data) == 0 {
		return b, nil
	}
	if err := msgpack.Unmarshal(data, &b); err != nil {
		return Base{}, fmt.Errorf("decode base state: %w", err)
	}
	return b, nil
}

// Runes converts saved split characters.
func (s *Snapshot) Runes() []rune {
	out := make([]rune, len(s.SplitChars))
	for i, c := range s.SplitChars {
		out[i] = rune(c)
	}
	return out
}

// SetRunes stores split characters.
func (s *Snapshot) SetRunes(rs []rune) {
	s.SplitChars = make([]int32, len(rs))
	for i, r := range rs {
		s.SplitChars[i] = int32(r)
	}
}
