package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vuec/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "vuec",
	Short: "Vue template compiler",
	Long:  `vuec compiles Vue templates into render functions and dumps every intermediate stage`,
	// ошибки печатаем сами, без usage
	SilenceUsage:      true,
	PersistentPreRunE: setupTracing,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("diagnostics-format", "pretty", "diagnostics output (pretty|short|json)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 = from vuec.toml)")
	rootCmd.PersistentFlags().String("config", "", "path to vuec.toml (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().String("trace", "", "write a trace to this file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring); ring writes the last events only when the command fails")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "number of events kept in ring mode")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	err := rootCmd.Execute()
	// трассировку сбрасываем и при ошибке команды
	closeTracing(rootCmd, err)
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
