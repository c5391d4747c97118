package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vuec/internal/prof"
	"vuec/internal/trace"
)

var (
	profiling *prof.Session
	// ringDump is where a ring tracer is written when the command fails.
	ringDump trace.Config
)

func setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("memprofile"); err != nil {
		return fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if opts == (prof.Options{}) {
		return nil
	}
	if profiling, err = prof.Start(opts); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	return nil
}

// setupTracing inspects trace and profiling flags and attaches a tracer to
// the command context.
func setupTracing(cmd *cobra.Command, _ []string) error {
	root := cmd.Root()
	if err := setupProfiling(cmd); err != nil {
		return err
	}

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	// --trace без уровня означает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		ctx := trace.WithTracer(cmd.Context(), trace.Nop)
		cmd.SetContext(ctx)
		root.SetContext(ctx)
		return nil
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return err
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	cfg := trace.Config{Level: level, Mode: mode, Format: format, OutputPath: traceOutput, RingSize: ringSize}
	ringDump = cfg
	tracer, err := trace.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)
	return nil
}

// closeTracing stops profiling and flushes the tracer. A ring tracer is
// written out only when the command failed.
func closeTracing(cmd *cobra.Command, cmdErr error) {
	if err := profiling.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
	}
	profiling = nil
	tracer := trace.FromContext(cmd.Context())
	if ring, ok := tracer.(*trace.RingTracer); ok && cmdErr != nil {
		if err := ring.DumpTo(ringDump); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
		}
	}
	if err := tracer.Flush(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
	}
	if err := tracer.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
	}
}
