// Package contact is the sample token domain: people addressed by name and
// email, completed from a fixed address book.
package contact

import (
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"tokenfield/internal/suggest"
)

// Person is a contact chip.
type Person struct {
	Name  string `msgpack:"name" toml:"name" yaml:"name" json:"name"`
	Email string `msgpack:"email" toml:"email" yaml:"email" json:"email"`
}

func (p Person) String() string { return p.Name }

// MarshalToken encodes p for a field snapshot.
func (p Person) MarshalToken() ([]byte, error) {
	return msgpack.Marshal(p)
}

// Decode is the snapshot decoder for Person tokens.
func Decode(data []byte) (Person, error) {
	var p Person
	err := msgpack.Unmarshal(data, &p)
	return p, err
}

// DefaultObject turns typed text into a Person. Text without '@' becomes a
// name with an example.com address; otherwise the local part is the name.
func DefaultObject(text string) (Person, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Person{}, false
	}
	idx := strings.IndexByte(text, '@')
	if idx < 0 {
		return Person{Name: text, Email: strings.ReplaceAll(text, " ", "") + "@example.com"}, true
	}
	if idx == 0 {
		return Person{}, false
	}
	return Person{Name: text[:idx], Email: text}, true
}

// Keep matches a mask against the start of the name or the email.
func Keep(p Person, mask string) bool {
	return suggest.HasPrefixFold(p.Name, mask) || suggest.HasPrefixFold(p.Email, mask)
}

// Samples is the built-in address book.
func Samples() []Person {
	return []Person{
		{Name: "Marshall Weir", Email: "marshall@example.com"},
		{Name: "Margaret Smith", Email: "margaret@example.com"},
		{Name: "Max Jordan", Email: "max@example.com"},
		{Name: "Meg Peterson", Email: "meg@example.com"},
		{Name: "Amanda Johnson", Email: "amanda@example.com"},
		{Name: "Terry Anderson", Email: "terry@example.com"},
		{Name: "Siniša Damianos Pilirani Karoline Slootmaekers", Email: "siniša_damianos_pilirani_karoline_slootmaekers@example.com"},
	}
}

// NewAdapter returns a filtered adapter over people.
func NewAdapter(people []Person) *suggest.Filtered[Person] {
	return suggest.NewFiltered(people, Keep)
}
