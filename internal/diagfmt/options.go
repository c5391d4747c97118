package diagfmt

import (
	"fmt"
	"strings"

	"vuec/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8 // строк контекста до/после основной строки
	PathMode  PathMode
	Width     uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", baseDir)
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// Format selects a renderer for CLI output.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatShort  Format = "short"
	FormatJSON   Format = "json"
)

// ParseFormat accepts pretty, short or json; empty means pretty.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPretty, nil
	case FormatPretty, FormatShort, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown diagnostics format %q (expected pretty|short|json)", s)
}
