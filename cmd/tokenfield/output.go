package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"tokenfield/internal/config"
	"tokenfield/internal/diag"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	noteColor    = color.New(color.Faint)
	passColor    = color.New(color.FgGreen, color.Bold)
)

// loadConfig reads --config, falling back to the built-in defaults.
// Diagnostics are printed to stderr either way.
func loadConfig(cmd *cobra.Command, fs afero.Fs) (config.File, string, error) {
	path := flags.config
	if path == "" {
		return config.Default(), "", nil
	}
	file, bag, err := config.Load(fs, path)
	printDiagnostics(cmd.ErrOrStderr(), bag)
	if err != nil {
		return config.File{}, path, err
	}
	return file, path, nil
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

// printDiagnostics writes one colored line per diagnostic plus its notes.
func printDiagnostics(out io.Writer, bag *diag.Bag) {
	if bag == nil {
		return
	}
	for _, d := range bag.Items() {
		sev := severityColor(d.Severity)
		fmt.Fprintf(out, "%s %s %s %s\n",
			sev.Sprint(d.Severity.String()),
			sev.Sprint(d.Code.ID()),
			d.Primary,
			d.Message,
		)
		for _, n := range d.Notes {
			fmt.Fprintf(out, "  %s %s %s\n", noteColor.Sprint("note:"), n.Loc, n.Msg)
		}
	}
}
