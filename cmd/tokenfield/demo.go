package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"tokenfield/internal/config"
	"tokenfield/internal/contact"
	"tokenfield/internal/diag"
	"tokenfield/internal/field"
	"tokenfield/internal/state"
	"tokenfield/internal/trace"
	"tokenfield/internal/ui"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Edit a contact field in the terminal",
	Long: `Run an interactive contact field. Type names and commit them with a split
character or enter; ctrl+s saves the field to --state and the next run resumes it.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().Bool("watch", false, "reload --config when it changes")
	demoCmd.Flags().String("state", "", "snapshot file to resume from and save to (.mp)")
	demoCmd.Flags().Bool("mouse", true, "enable mouse clicks on chips")
}

func runDemo(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return errors.New("demo needs an interactive terminal")
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}
	statePath, err := cmd.Flags().GetString("state")
	if err != nil {
		return fmt.Errorf("failed to get state flag: %w", err)
	}
	mouse, err := cmd.Flags().GetBool("mouse")
	if err != nil {
		return fmt.Errorf("failed to get mouse flag: %w", err)
	}

	fs := afero.NewOsFs()
	file, cfgPath, err := loadConfig(cmd, fs)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := ui.Options{
		Config: file,
		Tracer: trace.FromContext(ctx),
		Ctx:    ctx,
	}
	if cfgPath != "" {
		opts.Loader = func() (config.File, *diag.Bag, error) { return config.Load(fs, cfgPath) }
	}
	if watch {
		if cfgPath == "" {
			return errors.New("--watch needs --config")
		}
		changes, errs, err := config.Watch(ctx, cfgPath)
		if err != nil {
			return err
		}
		go func() {
			for err := range errs {
				trace.Point(opts.Tracer, trace.ScopeCommand, "watch", err.Error())
			}
		}()
		opts.Changes = changes
	}
	if statePath != "" {
		store, name := snapshotStore(fs, statePath)
		opts.Save = func(f *field.Field[contact.Person]) error {
			snap, bag, err := f.SaveState()
			if err != nil {
				return err
			}
			printDiagnostics(cmd.ErrOrStderr(), bag)
			return store.Put(name, snap)
		}
		opts.Restore = func(f *field.Field[contact.Person]) error {
			snap, ok, err := store.Get(name)
			if err != nil || !ok {
				return err
			}
			bag, err := f.RestoreState(snap, contact.Decode)
			printDiagnostics(cmd.ErrOrStderr(), bag)
			return err
		}
	}

	m, err := ui.New(opts)
	if err != nil {
		return err
	}
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// snapshotStore maps a snapshot file path onto a Store and entry name.
func snapshotStore(fs afero.Fs, path string) (*state.Store, string) {
	name := strings.TrimSuffix(filepath.Base(path), ".mp")
	return state.NewStore(fs, filepath.Dir(path)), name
}
