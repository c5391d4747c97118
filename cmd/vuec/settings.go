package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vuec/internal/buildpipeline"
	"vuec/internal/config"
	"vuec/internal/diag"
	"vuec/internal/diagfmt"
	"vuec/internal/observ"
	"vuec/internal/source"
)

type globalFlags struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	diagFormat     diagfmt.Format
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	var g globalFlags
	flags := cmd.Root().PersistentFlags()
	colorStr, err := flags.GetString("color")
	if err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(colorStr) {
	case "", "auto":
		g.color = isTerminal(os.Stderr)
	case "on":
		g.color = true
	case "off":
		g.color = false
	default:
		return g, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorStr)
	}
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	formatStr, err := flags.GetString("diagnostics-format")
	if err != nil {
		return g, fmt.Errorf("failed to get diagnostics-format flag: %w", err)
	}
	if g.diagFormat, err = diagfmt.ParseFormat(formatStr); err != nil {
		return g, err
	}
	if g.maxDiagnostics < 0 {
		return g, fmt.Errorf("--max-diagnostics must not be negative")
	}
	return g, nil
}

// loadConfig reads --config, or the nearest vuec.toml, or the defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	manifest, ok, err := config.Discover(".")
	if err != nil {
		return config.Config{}, err
	}
	if !ok {
		return config.Default(), nil
	}
	return manifest.Config, nil
}

func maxDiagnostics(g globalFlags, cfg config.Config) int {
	if g.maxDiagnostics > 0 {
		return g.maxDiagnostics
	}
	return cfg.MaxDiagnostics()
}

func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, g globalFlags) {
	if bag == nil || (bag.Len() == 0 && bag.Dropped() == 0) {
		return
	}
	if g.quiet && !bag.HasErrors() {
		return
	}
	bag.Sort()
	var err error
	switch g.diagFormat {
	case diagfmt.FormatShort:
		err = diagfmt.Short(w, bag, fs, diagfmt.ShortOpts{Notes: true})
	case diagfmt.FormatJSON:
		err = diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	default:
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{Color: g.color, Context: 1, ShowNotes: true})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write diagnostics: %v\n", err)
	}
}

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	for _, st := range buildpipeline.Stages {
		if timings.Has(st) {
			fmt.Fprintf(out, "%-10s %.2f ms\n", st, toMillis(timings.Duration(st)))
		}
	}
	fmt.Fprintf(out, "%-10s %.2f ms\n", "total", toMillis(timings.Total()))
}

func printTimer(out io.Writer, timer *observ.Timer) {
	if timer == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
