package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tokenfield/internal/version"
)

var current *session

var rootCmd = &cobra.Command{
	Use:           "tokenfield",
	Short:         "Token chip text field: demo host and replay tools",
	Long:          `tokenfield hosts a token chip text field in the terminal and replays scripted edits against it`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyColorMode(flags.color); err != nil {
			return err
		}
		s, err := openSession(cmd, &flags, afero.NewOsFs())
		if err != nil {
			return err
		}
		current = s
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		current.close(cmd.ErrOrStderr())
	},
}

// main registers subcommands and persistent flags and executes the root
// command. Any error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
	flags.bind(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		current.close(os.Stderr)
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func applyColorMode(mode string) error {
	on, auto, err := parseColorMode(mode)
	if err != nil {
		return err
	}
	if auto {
		on = isTerminal(os.Stdout)
	}
	color.NoColor = !on
	return nil
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
