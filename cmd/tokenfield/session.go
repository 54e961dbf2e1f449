package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"tokenfield/internal/prof"
	"tokenfield/internal/trace"
)

// globalFlags are the root command's persistent flags, bound once.
type globalFlags struct {
	color        string
	config       string
	traceOut     string
	traceLevel   string
	traceMode    string
	traceRing    int
	cpuProfile   string
	memProfile   string
	runtimeTrace string
}

var flags globalFlags

func (g *globalFlags) bind(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&g.color, "color", "auto", "colorize output (auto|on|off)")
	pf.StringVar(&g.config, "config", "", "configuration file (.toml, .yaml)")
	pf.StringVar(&g.traceOut, "trace", "", "trace output file (- for stderr)")
	pf.StringVar(&g.traceLevel, "trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.StringVar(&g.traceMode, "trace-mode", "stream", "trace storage (stream|ring|both); failed replays print their ring session")
	pf.IntVar(&g.traceRing, "trace-ring-size", 4096, "events kept in ring mode")
	pf.StringVar(&g.cpuProfile, "cpu-profile", "", "write a CPU profile to this file")
	pf.StringVar(&g.memProfile, "mem-profile", "", "write a heap profile to this file on exit")
	pf.StringVar(&g.runtimeTrace, "runtime-trace", "", "write a Go runtime trace to this file")
}

// tracerConfig turns the trace flags into a tracer config. ok is false when
// tracing stays off. An output path alone asks for field operations.
func (g *globalFlags) tracerConfig(fs afero.Fs) (cfg trace.Config, ok bool, err error) {
	level, err := trace.ParseLevel(g.traceLevel)
	if err != nil {
		return cfg, false, err
	}
	if level == trace.LevelOff {
		if g.traceOut == "" {
			return cfg, false, nil
		}
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(g.traceMode)
	if err != nil {
		return cfg, false, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: g.traceOut,
		Fs:         fs,
		RingSize:   g.traceRing,
	}, true, nil
}

// session is what one command run holds open: the tracer and the
// profilers. close is safe to call more than once.
type session struct {
	tracer trace.Tracer
	stops  []func() error
	closed bool
}

// openSession starts tracing and profiling for cmd and puts the tracer in
// cmd's context.
func openSession(cmd *cobra.Command, g *globalFlags, fs afero.Fs) (*session, error) {
	s := &session{tracer: trace.Nop}
	cfg, ok, err := g.tracerConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("invalid trace flags: %w", err)
	}
	if ok {
		if s.tracer, err = trace.New(cfg); err != nil {
			return nil, fmt.Errorf("failed to create tracer: %w", err)
		}
		s.stops = append(s.stops, s.tracer.Close)
	}
	ctx := trace.WithTracer(cmd.Context(), s.tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	if g.cpuProfile != "" {
		if err := prof.StartCPU(fs, g.cpuProfile); err != nil {
			s.close(io.Discard)
			return nil, fmt.Errorf("failed to start cpu profile: %w", err)
		}
		s.stops = append(s.stops, func() error { prof.StopCPU(); return nil })
	}
	if g.runtimeTrace != "" {
		if err := prof.StartTrace(fs, g.runtimeTrace); err != nil {
			s.close(io.Discard)
			return nil, fmt.Errorf("failed to start runtime trace: %w", err)
		}
		s.stops = append(s.stops, func() error { prof.StopTrace(); return nil })
	}
	if path := g.memProfile; path != "" {
		s.stops = append(s.stops, func() error { return prof.WriteMem(fs, path) })
	}
	return s, nil
}

// close stops everything in reverse start order and reports failures to w.
func (s *session) close(w io.Writer) {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	var err error
	for i := len(s.stops) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.stops[i]())
	}
	for _, e := range multierr.Errors(err) {
		fmt.Fprintf(w, "session: %v\n", e)
	}
}

func parseColorMode(mode string) (on, auto bool, err error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return false, true, nil
	case "on":
		return true, false, nil
	case "off":
		return false, false, nil
	}
	return false, false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
}
