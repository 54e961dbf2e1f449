package field

import (
	"fmt"
	"strings"
)

// DeletionStyle decides what a committed token leaves in the buffer when
// its chip is removed by backspacing over it.
type DeletionStyle uint8

const (
	// DeleteClear leaves nothing.
	DeleteClear DeletionStyle = iota
	// DeletePartialCompletion leaves the text that was typed before commit.
	DeletePartialCompletion
	// DeleteToString leaves the token's string form.
	DeleteToString
	// DeletePlatformDefault behaves like DeleteToString.
	DeletePlatformDefault
)

var deletionNames = []string{"clear", "partial-completion", "to-string", "platform-default"}

func (s DeletionStyle) String() string {
	if int(s) < len(deletionNames) {
		return deletionNames[s]
	}
	return "unknown"
}

// ParseDeletionStyle accepts the String form, case-insensitively.
func ParseDeletionStyle(s string) (DeletionStyle, error) {
	for i, name := range deletionNames {
		if strings.EqualFold(s, name) {
			return DeletionStyle(i), nil
		}
	}
	return DeleteClear, fmt.Errorf("invalid deletion style: %q (expected: %s)", s, strings.Join(deletionNames, "|"))
}

// ClickStyle decides what clicking a chip does.
type ClickStyle uint8

const (
	// ClickNone moves the caret past the token.
	ClickNone ClickStyle = iota
	// ClickDelete removes the token.
	ClickDelete
	// ClickSelect selects the token; a second click removes it.
	ClickSelect
	// ClickSelectDeselect toggles selection.
	ClickSelectDeselect
)

var clickNames = []string{"none", "delete", "select", "select-deselect"}

func (c ClickStyle) String() string {
	if int(c) < len(clickNames) {
		return clickNames[c]
	}
	return "unknown"
}

// Selectable reports whether chips can hold a selection under this style.
func (c ClickStyle) Selectable() bool {
	return c == ClickSelect || c == ClickSelectDeselect
}

func ParseClickStyle(s string) (ClickStyle, error) {
	for i, name := range clickNames {
		if strings.EqualFold(s, name) {
			return ClickStyle(i), nil
		}
	}
	return ClickNone, fmt.Errorf("invalid click style: %q (expected: %s)", s, strings.Join(clickNames, "|"))
}

// Config is the user-visible field configuration.
type Config struct {
	Prefix          string
	Hint            string
	SplitChars      []rune
	AllowDuplicates bool
	BestGuess       bool
	TokenLimit      int // 0 means unlimited
	AllowCollapse   bool
	DeletionStyle   DeletionStyle
	ClickStyle      ClickStyle
	Threshold       int // minimum composing runes before a commit
}

func DefaultConfig() Config {
	return Config{
		SplitChars:      []rune{','},
		AllowDuplicates: true,
		BestGuess:       true,
		AllowCollapse:   true,
		DeletionStyle:   DeleteClear,
		ClickStyle:      ClickNone,
		Threshold:       1,
	}
}

// Validate rejects values the field cannot run with.
func (c Config) Validate() error {
	if c.TokenLimit < 0 {
		return fmt.Errorf("token limit must be >= 0, got %d", c.TokenLimit)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be >= 0, got %d", c.Threshold)
	}
	if int(c.DeletionStyle) >= len(deletionNames) {
		return fmt.Errorf("invalid deletion style %d", c.DeletionStyle)
	}
	if int(c.ClickStyle) >= len(clickNames) {
		return fmt.Errorf("invalid click style %d", c.ClickStyle)
	}
	for _, r := range c.SplitChars {
		if r == '\n' {
			return fmt.Errorf("newline cannot be a split character")
		}
	}
	return nil
}
