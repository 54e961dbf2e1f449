// Package config loads field configuration from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"tokenfield/internal/contact"
	"tokenfield/internal/diag"
	"tokenfield/internal/field"
)

var (
	// ErrFormat is returned for files that are neither TOML nor YAML.
	ErrFormat = errors.New("unsupported config format")
	// ErrInvalid is returned when validation reported errors.
	ErrInvalid = errors.New("invalid config")
)

// File is the on-disk configuration.
type File struct {
	Field    FieldSection     `toml:"field" yaml:"field" json:"field"`
	View     ViewSection      `toml:"view" yaml:"view" json:"view"`
	Contacts []contact.Person `toml:"contacts" yaml:"contacts" json:"contacts,omitempty"`
}

// FieldSection mirrors field.Config with textual enums.
type FieldSection struct {
	Prefix          string   `toml:"prefix" yaml:"prefix" json:"prefix,omitempty" jsonschema:"description=Protected text in front of the tokens"`
	Hint            string   `toml:"hint" yaml:"hint" json:"hint,omitempty" jsonschema:"description=Placeholder shown while the field is empty"`
	SplitChars      []string `toml:"split_chars" yaml:"split_chars" json:"split_chars,omitempty" jsonschema:"description=Single characters that commit a token"`
	AllowDuplicates bool     `toml:"allow_duplicates" yaml:"allow_duplicates" json:"allow_duplicates"`
	BestGuess       bool     `toml:"best_guess" yaml:"best_guess" json:"best_guess"`
	TokenLimit      int      `toml:"token_limit" yaml:"token_limit" json:"token_limit" jsonschema:"minimum=0"`
	AllowCollapse   bool     `toml:"allow_collapse" yaml:"allow_collapse" json:"allow_collapse"`
	DeletionStyle   string   `toml:"deletion_style" yaml:"deletion_style" json:"deletion_style" jsonschema:"enum=clear,enum=partial-completion,enum=to-string,enum=platform-default"`
	ClickStyle      string   `toml:"click_style" yaml:"click_style" json:"click_style" jsonschema:"enum=none,enum=delete,enum=select,enum=select-deselect"`
	Threshold       int      `toml:"threshold" yaml:"threshold" json:"threshold" jsonschema:"minimum=0"`
}

// ViewSection configures the terminal host.
type ViewSection struct {
	Width        int `toml:"width" yaml:"width" json:"width" jsonschema:"minimum=0,description=Field width in cells; 0 follows the terminal"`
	ChipMaxWidth int `toml:"chip_max_width" yaml:"chip_max_width" json:"chip_max_width" jsonschema:"minimum=0"`
}

// Default returns the built-in configuration.
func Default() File {
	d := field.DefaultConfig()
	return File{
		Field: FieldSection{
			Prefix:          "To: ",
			SplitChars:      []string{","},
			AllowDuplicates: d.AllowDuplicates,
			BestGuess:       d.BestGuess,
			AllowCollapse:   d.AllowCollapse,
			DeletionStyle:   d.DeletionStyle.String(),
			ClickStyle:      d.ClickStyle.String(),
			Threshold:       d.Threshold,
		},
		View: ViewSection{ChipMaxWidth: 24},
	}
}

// Load reads path from fs on top of Default. Findings go to the bag; the
// error is non-nil when the file cannot be used.
func Load(fs afero.Fs, path string) (File, *diag.Bag, error) {
	bag := diag.NewBag(0)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	cfg := Default()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, bag, fmt.Errorf("%s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, bag, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		for _, key := range meta.Undecoded() {
			diag.ReportWarning(rep, diag.CfgUnknownKey, diag.Location{Source: path},
				fmt.Sprintf("unknown key %q", key.String())).
				WithNote(diag.Location{Source: path}, "tokenfield schema lists the known keys").
				Emit()
		}
		if meta.IsDefined("field", "split_chars") && len(cfg.Field.SplitChars) == 0 {
			diag.ReportWarning(rep, diag.CfgSplitChars, diag.Location{Source: path},
				"empty [field].split_chars, using \",\"").Emit()
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, bag, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		return cfg, bag, fmt.Errorf("%s: %w (want .toml, .yaml or .yml)", path, ErrFormat)
	}

	cfg.Validate(path, rep)
	if bag.HasErrors() {
		return cfg, bag, fmt.Errorf("%s: %w", path, ErrInvalid)
	}
	return cfg, bag, nil
}

// Validate reports every bad value under source.
func (f File) Validate(source string, rep diag.Reporter) {
	loc := diag.Location{Source: source}
	bad := func(key, msg string) {
		diag.ReportError(rep, diag.CfgBadValue, loc, fmt.Sprintf("[field].%s: %s", key, msg)).Emit()
	}
	if f.Field.TokenLimit < 0 {
		bad("token_limit", "must be >= 0")
	}
	if f.Field.Threshold < 0 {
		bad("threshold", "must be >= 0")
	}
	if _, err := field.ParseDeletionStyle(f.Field.DeletionStyle); err != nil {
		bad("deletion_style", err.Error())
	}
	if _, err := field.ParseClickStyle(f.Field.ClickStyle); err != nil {
		bad("click_style", err.Error())
	}
	for _, s := range f.Field.SplitChars {
		if rs := []rune(s); len(rs) != 1 || rs[0] == '\n' {
			diag.ReportError(rep, diag.CfgSplitChars, loc,
				fmt.Sprintf("[field].split_chars: %q must be a single character other than newline", s)).Emit()
		}
	}
	if f.View.Width < 0 {
		diag.ReportError(rep, diag.CfgBadValue, loc, "[view].width: must be >= 0").Emit()
	}
	for i, p := range f.Contacts {
		if strings.TrimSpace(p.Name) == "" || !strings.Contains(p.Email, "@") {
			diag.ReportWarning(rep, diag.CfgBadValue, loc,
				fmt.Sprintf("contacts[%d]: needs a name and an email", i)).Emit()
		}
	}
}

// FieldConfig converts the field section into a field.Config.
func (f File) FieldConfig() (field.Config, error) {
	del, err := field.ParseDeletionStyle(f.Field.DeletionStyle)
	if err != nil {
		return field.Config{}, err
	}
	click, err := field.ParseClickStyle(f.Field.ClickStyle)
	if err != nil {
		return field.Config{}, err
	}
	var splits []rune
	for _, s := range f.Field.SplitChars {
		rs := []rune(s)
		if len(rs) != 1 {
			return field.Config{}, fmt.Errorf("split char %q: want one character", s)
		}
		splits = append(splits, rs[0])
	}
	cfg := field.Config{
		Prefix:          f.Field.Prefix,
		Hint:            f.Field.Hint,
		SplitChars:      splits,
		AllowDuplicates: f.Field.AllowDuplicates,
		BestGuess:       f.Field.BestGuess,
		TokenLimit:      f.Field.TokenLimit,
		AllowCollapse:   f.Field.AllowCollapse,
		DeletionStyle:   del,
		ClickStyle:      click,
		Threshold:       f.Field.Threshold,
	}
	return cfg, cfg.Validate()
}

// People returns the configured contacts, or the samples when none are set.
func (f File) People() []contact.Person {
	if len(f.Contacts) == 0 {
		return contact.Samples()
	}
	return append([]contact.Person(nil), f.Contacts...)
}
