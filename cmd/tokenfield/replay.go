package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tokenfield/internal/diag"
	"tokenfield/internal/observ"
	"tokenfield/internal/script"
	"tokenfield/internal/trace"
)

var errReplayFailed = errors.New("replay failed")

var replayCmd = &cobra.Command{
	Use:   "replay [flags] <script.yaml|directory|glob>...",
	Short: "Replay scripted sessions against a headless field",
	Long: `Replay YAML scripts. Directories are searched for **/*.yaml and **/*.yml;
other arguments may be doublestar patterns. Exits non-zero when any step fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().Int("jobs", 0, "max parallel replays (0=auto)")
	replayCmd.Flags().Bool("timings", false, "show per-script timings")
	replayCmd.Flags().Bool("quiet", false, "print failures only")
	replayCmd.Flags().String("fail-on", "error", "lowest diagnostic severity that fails a script (info|warning|error)")
}

type replayOutcome struct {
	path   string
	result *script.Result
	err    error
	timer  *observ.Timer
}

func runReplay(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	showTimings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	failOnName, err := cmd.Flags().GetString("fail-on")
	if err != nil {
		return fmt.Errorf("failed to get fail-on flag: %w", err)
	}
	failOn, err := diag.ParseSeverity(failOnName)
	if err != nil {
		return fmt.Errorf("invalid --fail-on: %w", err)
	}

	files, err := expandScripts(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no scripts matched")
	}

	outcomes, err := replayAll(cmd.Context(), afero.NewOsFs(), files, jobs)
	if err != nil {
		return err
	}

	failed := 0
	out := cmd.OutOrStdout()
	ring := trace.FindRing(trace.FromContext(cmd.Context()))
	for _, o := range outcomes {
		if !reportOutcome(out, o, failOn, quiet) {
			failed++
			if ring != nil {
				printSession(out, ring.Session(o.path))
			}
		}
		if showTimings {
			fmt.Fprint(out, o.timer.Summary())
		}
	}
	if !quiet {
		bag := replayBag(outcomes)
		fmt.Fprintf(out, "%d scripts, %d failed, %d diagnostics\n", len(outcomes), failed, bag.Len())
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d scripts", errReplayFailed, failed, len(outcomes))
	}
	return nil
}

// expandScripts turns arguments into a sorted, de-duplicated file list.
func expandScripts(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		pattern := arg
		if info, err := os.Stat(arg); err == nil {
			if !info.IsDir() {
				files = append(files, arg)
				continue
			}
			pattern = filepath.Join(arg, "**", "*.{yaml,yml}")
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// replayAll runs every script on its own field. Results keep the input order.
func replayAll(ctx context.Context, fs afero.Fs, files []string, jobs int) ([]replayOutcome, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]replayOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			timer := observ.NewTimer(trace.FromContext(gctx))
			o := replayOutcome{path: path, timer: timer}

			stop := timer.Start("load")
			s, err := script.Load(fs, path)
			stop("")
			if err != nil {
				o.err = err
				results[i] = o
				return nil
			}

			stop = timer.Start("replay")
			o.result, o.err = script.Run(gctx, s)
			note := ""
			if o.result != nil {
				note = fmt.Sprintf("%d steps", o.result.Steps)
			}
			stop(note)
			results[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// reportOutcome prints one script's verdict and reports whether it passed.
// A script fails on any diagnostic at failOn or above.
func reportOutcome(out io.Writer, o replayOutcome, failOn diag.Severity, quiet bool) bool {
	name := o.path
	if o.result != nil && o.result.Name != "" {
		name = fmt.Sprintf("%s (%s)", o.result.Name, o.path)
	}
	switch {
	case o.err != nil:
		fmt.Fprintf(out, "%s %s: %v\n", errorColor.Sprint("FAIL"), name, o.err)
		return false
	case o.result.FailedAt(failOn):
		fmt.Fprintf(out, "%s %s\n", errorColor.Sprint("FAIL"), name)
		printDiagnostics(out, o.result.Bag)
		return false
	}
	if !quiet {
		fmt.Fprintf(out, "%s %s  %d steps  %q\n", passColor.Sprint("PASS"), name, o.result.Steps, o.result.Final)
		if o.result.Bag.HasWarnings() {
			printDiagnostics(out, o.result.Bag)
		}
	}
	return true
}

// printSession shows the kept trace events of a failed script's fields.
func printSession(out io.Writer, events []trace.Event) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintf(out, "  last %d trace events:\n", len(events))
	for i := range events {
		fmt.Fprintf(out, "    %s", trace.FormatEvent(&events[i], trace.FormatText))
	}
}

// replayBag merges every outcome's diagnostics.
func replayBag(outcomes []replayOutcome) *diag.Bag {
	bag := diag.NewBag(0)
	for _, o := range outcomes {
		if o.result != nil {
			bag.Merge(o.result.Bag)
		}
	}
	return bag
}
