// Package script replays scripted user sessions against a contact field
// without a terminal. Scripts are YAML documents:
//
//	name: typing
//	config:
//	  prefix: "To: "
//	steps:
//	  - type: "mar,"
//	  - expect: {text: "To: Marshall Weir, ", objects: ["Marshall Weir"]}
//
// Every step runs, the queue is drained, and the field invariants are
// checked before the next step.
package script

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"tokenfield/internal/config"
	"tokenfield/internal/contact"
)

// Script is one replayable session.
type Script struct {
	Name     string               `yaml:"name"`
	Config   *config.FieldSection `yaml:"config"`
	Width    int                  `yaml:"width"`
	Focus    *bool                `yaml:"focus"`
	Contacts []contact.Person     `yaml:"contacts"`
	Steps    []Step               `yaml:"steps"`

	Source string `yaml:"-"`
}

// Step holds exactly one action and an optional expectation.
type Step struct {
	Type      *string         `yaml:"type"`
	Backspace *int            `yaml:"backspace"`
	Delete    *int            `yaml:"delete"`
	Caret     *int            `yaml:"caret"`
	Move      *int            `yaml:"move"`
	Click     *int            `yaml:"click"`
	Commit    bool            `yaml:"commit"`
	Select    *int            `yaml:"select"`
	Replace   *Replace        `yaml:"replace"`
	Add       *contact.Person `yaml:"add"`
	Remove    *contact.Person `yaml:"remove"`
	Clear     bool            `yaml:"clear"`
	SetFocus  *bool           `yaml:"focus"`
	Collapse  bool            `yaml:"collapse"`
	Save      bool            `yaml:"save_restore"`
	Expect    *Expect         `yaml:"expect"`
}

// Replace is a ranged edit.
type Replace struct {
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
	Text  string `yaml:"text"`
}

// Expect lists observable state; unset members are not checked.
type Expect struct {
	Text       *string   `yaml:"text"`
	Objects    *[]string `yaml:"objects"`
	Hidden     *int      `yaml:"hidden"`
	Count      *string   `yaml:"count"`
	Completion *string   `yaml:"completion"`
	Caret      *int      `yaml:"caret"`
	Hint       *bool     `yaml:"hint"`
	Selected   *string   `yaml:"selected"`
	Added      *int      `yaml:"added"`
	Removed    *int      `yaml:"removed"`
	Ignored    *int      `yaml:"ignored"`
}

// actions counts the actions a step carries.
func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Type != nil, s.Backspace != nil, s.Delete != nil, s.Caret != nil,
		s.Move != nil, s.Click != nil, s.Commit, s.Select != nil, s.Replace != nil,
		s.Add != nil, s.Remove != nil, s.Clear, s.SetFocus != nil, s.Collapse, s.Save,
	} {
		if set {
			n++
		}
	}
	return n
}

// session names the script's trace session: its source, else its name.
func (s *Script) session() string {
	if s.Source != "" {
		return s.Source
	}
	return s.Name
}

// Parse decodes a script; source names it in diagnostics.
func Parse(data []byte, source string) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	section := config.Default().Field
	s := Script{Config: &section}
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%s: failed to parse script: %w", source, err)
	}
	s.Source = source
	if s.Name == "" {
		s.Name = source
	}
	return &s, nil
}

// Load reads and parses path from fs.
func Load(fs afero.Fs, path string) (*Script, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}
