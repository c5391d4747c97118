package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"vuec/internal/buildpipeline"
	"vuec/internal/config"
	"vuec/internal/driver"
	"vuec/internal/ui"
	"vuec/internal/version"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <file.vue|directory>...",
	Short: "Compile templates into render functions",
	Long: `Compile one or more templates. A single file without --out-dir is printed
to stdout; otherwise every template is written to <out-dir>/<name>.js`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().String("mode", "", "output shape (module|function); overrides vuec.toml")
	compileCmd.Flags().Bool("dev", false, "keep development annotations and flags")
	compileCmd.Flags().Bool("no-hoist", false, "disable static hoisting")
	compileCmd.Flags().Int("jobs", 0, "max parallel compiles (0=auto)")
	compileCmd.Flags().Bool("cache", false, "reuse results from the disk cache")
	compileCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	compileCmd.Flags().StringP("out-dir", "o", "", "directory for generated files")
}

type compileFlags struct {
	mode    string
	dev     bool
	noHoist bool
	jobs    int
	cache   bool
	ui      uiMode
	outDir  string
}

func readCompileFlags(cmd *cobra.Command) (compileFlags, error) {
	var f compileFlags
	var err error
	if f.mode, err = cmd.Flags().GetString("mode"); err != nil {
		return f, fmt.Errorf("failed to get mode flag: %w", err)
	}
	if f.dev, err = cmd.Flags().GetBool("dev"); err != nil {
		return f, fmt.Errorf("failed to get dev flag: %w", err)
	}
	if f.noHoist, err = cmd.Flags().GetBool("no-hoist"); err != nil {
		return f, fmt.Errorf("failed to get no-hoist flag: %w", err)
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.cache, err = cmd.Flags().GetBool("cache"); err != nil {
		return f, fmt.Errorf("failed to get cache flag: %w", err)
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiStr); err != nil {
		return f, err
	}
	if f.outDir, err = cmd.Flags().GetString("out-dir"); err != nil {
		return f, fmt.Errorf("failed to get out-dir flag: %w", err)
	}
	return f, nil
}

// applyCompileFlags overrides the manifest with command-line flags.
func applyCompileFlags(cmd *cobra.Command, cfg *config.Config, f compileFlags) {
	if f.mode != "" {
		cfg.Compile.Mode = f.mode
	}
	if cmd.Flags().Changed("dev") {
		cfg.Compile.Dev = f.dev
	}
	if f.noHoist {
		hoist := false
		cfg.Compile.HoistStatic = &hoist
	}
}

type target struct {
	path string
	// root is the directory argument the file was found under, "" for files.
	root string
}

func collectTargets(args []string) ([]target, error) {
	var out []target
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, target{path: arg})
			continue
		}
		files, err := driver.ListTemplates(arg)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			out = append(out, target{path: file, root: arg})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no templates found in %s", strings.Join(args, ", "))
	}
	return out, nil
}

// outputPath keeps the layout below a directory argument.
func outputPath(outDir string, t target) string {
	rel := filepath.Base(t.path)
	if t.root != "" {
		if r, err := filepath.Rel(t.root, t.path); err == nil {
			rel = r
		}
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".js")
}

func runCompile(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	f, err := readCompileFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyCompileFlags(cmd, &cfg, f)
	pipeline, err := cfg.Options()
	if err != nil {
		return err
	}
	targets, err := collectTargets(args)
	if err != nil {
		return err
	}
	if len(targets) > 1 && f.outDir == "" {
		return fmt.Errorf("%d templates need --out-dir", len(targets))
	}

	opts := driver.Options{
		Pipeline:       pipeline,
		MaxDiagnostics: maxDiagnostics(g, cfg),
		Jobs:           f.jobs,
		Timings:        g.timings,
	}
	if f.cache {
		cache, err := driver.OpenDiskCache("vuec")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.Cache = cache
		if opts.Fingerprint, err = fingerprint(cfg); err != nil {
			return err
		}
	}

	paths := make([]string, len(targets))
	for i, t := range targets {
		paths[i] = t.path
	}
	var batch *driver.Batch
	if !g.quiet && shouldUseTUI(f.ui) {
		batch, err = runCompileWithUI(cmd.Context(), "compiling templates", paths, opts)
	} else {
		batch, err = driver.CompileFiles(cmd.Context(), paths, opts)
	}
	if err != nil {
		return err
	}

	printDiagnostics(cmd.ErrOrStderr(), batch.Diagnostics(), batch.Files, g)
	for i, res := range batch.Results {
		if res.Err != nil {
			continue
		}
		if f.outDir == "" {
			fmt.Fprint(cmd.OutOrStdout(), res.Result.Code)
			continue
		}
		out := outputPath(f.outDir, targets[i])
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(out, []byte(res.Result.Code), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
	}
	if g.timings {
		printTimer(cmd.ErrOrStderr(), batch.Timer)
	}
	if batch.Failed() {
		failed := 0
		for i := range batch.Results {
			if batch.Results[i].Err != nil {
				failed++
			}
		}
		return fmt.Errorf("%d of %d templates failed", failed, len(batch.Results))
	}
	if !g.quiet && f.outDir != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "compiled %d templates into %s\n", len(batch.Results), f.outDir)
	}
	return nil
}

// fingerprint keys the disk cache by settings and compiler version.
func fingerprint(cfg config.Config) ([]byte, error) {
	data, err := msgpack.Marshal(struct {
		Version string
		Config  config.Config
	}{version.Version, cfg})
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint settings: %w", err)
	}
	return data, nil
}

func runCompileWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Batch, error) {
	events := make(chan buildpipeline.Event, 256)
	type outcome struct {
		batch *driver.Batch
		err   error
	}
	outcomeCh := make(chan outcome, 1)

	go func() {
		opts.Progress = buildpipeline.ChannelSink{Ch: events}
		batch, err := driver.CompileFiles(ctx, files, opts)
		outcomeCh <- outcome{batch: batch, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	res := <-outcomeCh
	if uiErr != nil {
		return res.batch, uiErr
	}
	return res.batch, res.err
}
