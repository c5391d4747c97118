package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the vuec CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// String renders the version line printed by `vuec version`.
func String() string {
	var b strings.Builder
	b.WriteString("vuec ")
	b.WriteString(Version)
	if GitCommit != "" {
		b.WriteString(" (")
		b.WriteString(GitCommit)
		b.WriteString(")")
	}
	if BuildDate != "" {
		b.WriteString(" built ")
		b.WriteString(BuildDate)
	}
	return b.String()
}
