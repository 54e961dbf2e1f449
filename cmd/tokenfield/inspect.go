package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tokenfield/internal/contact"
	"tokenfield/internal/field"
	"tokenfield/internal/state"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <snapshot.mp>",
	Short: "Print a saved field snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
}

type snapshotView struct {
	Schema          uint16           `json:"schema" yaml:"schema"`
	Prefix          string           `json:"prefix" yaml:"prefix"`
	SplitChars      []string         `json:"split_chars" yaml:"split_chars"`
	AllowCollapse   bool             `json:"allow_collapse" yaml:"allow_collapse"`
	AllowDuplicates bool             `json:"allow_duplicates" yaml:"allow_duplicates"`
	BestGuess       bool             `json:"best_guess" yaml:"best_guess"`
	TokenLimit      int32            `json:"token_limit" yaml:"token_limit"`
	ClickStyle      string           `json:"click_style" yaml:"click_style"`
	DeletionStyle   string           `json:"deletion_style" yaml:"deletion_style"`
	Text            string           `json:"text" yaml:"text"`
	Caret           int32            `json:"caret" yaml:"caret"`
	Focus           bool             `json:"focus" yaml:"focus"`
	Tokens          []contact.Person `json:"tokens" yaml:"tokens"`
	Undecodable     int              `json:"undecodable,omitempty" yaml:"undecodable,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)

	store, name := snapshotStore(afero.NewOsFs(), args[0])
	snap, ok, err := store.Get(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no snapshot at %s", args[0])
	}
	view, err := viewSnapshot(snap)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		renderSnapshotPretty(out, view)
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json or yaml)", format)
	}
}

func viewSnapshot(snap *state.Snapshot) (snapshotView, error) {
	base, err := state.UnmarshalBase(snap.Base)
	if err != nil {
		return snapshotView{}, err
	}
	v := snapshotView{
		Schema:          snap.Schema,
		Prefix:          snap.Prefix,
		AllowCollapse:   snap.AllowCollapse,
		AllowDuplicates: snap.AllowDuplicates,
		BestGuess:       snap.BestGuess,
		TokenLimit:      snap.TokenLimit,
		ClickStyle:      field.ClickStyle(snap.ClickStyle).String(),
		DeletionStyle:   field.DeletionStyle(snap.DeletionStyle).String(),
		Text:            base.Text,
		Caret:           base.Caret,
		Focus:           base.Focus,
		Tokens:          make([]contact.Person, 0, len(snap.Tokens)),
	}
	for _, r := range snap.Runes() {
		v.SplitChars = append(v.SplitChars, string(r))
	}
	for _, data := range snap.Tokens {
		p, err := contact.Decode(data)
		if err != nil {
			v.Undecodable++
			continue
		}
		v.Tokens = append(v.Tokens, p)
	}
	return v, nil
}

func renderSnapshotPretty(out io.Writer, v snapshotView) {
	fmt.Fprintf(out, "%s schema %d\n", infoColor.Sprint("snapshot"), v.Schema)
	fmt.Fprintf(out, "  prefix:      %q\n", v.Prefix)
	fmt.Fprintf(out, "  split chars: %q\n", v.SplitChars)
	fmt.Fprintf(out, "  duplicates:  %t  best guess: %t  collapse: %t  limit: %d\n",
		v.AllowDuplicates, v.BestGuess, v.AllowCollapse, v.TokenLimit)
	fmt.Fprintf(out, "  click: %s  delete: %s\n", v.ClickStyle, v.DeletionStyle)
	fmt.Fprintf(out, "  base: %q caret %d focus %t\n", v.Text, v.Caret, v.Focus)
	fmt.Fprintf(out, "%s %d\n", infoColor.Sprint("tokens"), len(v.Tokens))
	for i, p := range v.Tokens {
		fmt.Fprintf(out, "  %2d  %-20s %s\n", i+1, p.Name, noteColor.Sprint(p.Email))
	}
	if v.Undecodable > 0 {
		fmt.Fprintf(out, "%s %d tokens could not be decoded\n", warningColor.Sprint("warning:"), v.Undecodable)
	}
}
