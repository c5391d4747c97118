package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"vuec/internal/diag"
	"vuec/internal/source"
)

type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan),
		note:   mk(color.FgBlue, color.Bold),
		loc:    mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f := fs.Get(d.Primary.File)
		start, end := fs.Resolve(d.Primary)
		path := formatPath(f, opts.PathMode, fs.BaseDir())

		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.loc.Sprintf("%s:%d:%d", path, start.Line, start.Col),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(),
			d.Message,
		)
		writeSnippet(w, f, start, end, opts, p)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			ns, ne := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s: %s\n",
				p.note.Sprint("note:"),
				p.loc.Sprintf("%s:%d:%d", formatPath(nf, opts.PathMode, fs.BaseDir()), ns.Line, ns.Col),
				n.Msg,
			)
			writeSnippet(w, nf, ns, ne, PrettyOpts{Width: opts.Width}, p)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "\n... %d more diagnostics not shown\n", dropped)
	}
}

func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, p palette) {
	ctx := uint32(max(opts.Context, 0))
	first := start.Line
	if first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := start.Line + ctx
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		if text == "" && ln != start.Line {
			continue
		}
		text = strings.ReplaceAll(text, "\t", "    ")
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), text)
		if ln != start.Line {
			continue
		}
		line := f.GetLine(ln)
		prefix := expandedWidth(line, start.Col-1)
		span := 1
		if end.Line == start.Line && end.Col > start.Col {
			span = max(expandedWidth(line, end.Col-1)-prefix, 1)
		}
		marker := "^" + strings.Repeat("~", span-1)
		fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", prefix), p.caret.Sprint(marker))
	}
}

// expandedWidth returns the display width of the first n bytes of line.
func expandedWidth(line string, n uint32) int {
	if int(n) > len(line) {
		n = uint32(len(line))
	}
	width := 0
	for _, r := range line[:n] {
		if r == '\t' {
			width += 4
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return width
}
