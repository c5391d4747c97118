package diagfmt

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"vuec/internal/diag"
	"vuec/internal/source"
)

// ShortOpts configures Short.
type ShortOpts struct {
	PathMode PathMode
	Notes    bool
	// SkipGenerated drops entries of files named like "<inline>".
	SkipGenerated bool
}

type shortLine struct {
	path      string
	line, col uint32
	sev       string
	code      string
	msg       string
}

// Short writes one sorted line per diagnostic (and per note with
// ShortOpts.Notes):
//
//	app.vue:2:6: error TRN4001 v-else has no adjacent v-if
//
// The output is deterministic and suitable for golden comparisons.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts ShortOpts) error {
	if bag == nil || fs == nil {
		return nil
	}
	var lines []shortLine
	add := func(span source.Span, sev, code, msg string) {
		if int(span.File) >= fs.Len() {
			return
		}
		path := formatPath(fs.Get(span.File), opts.PathMode, fs.BaseDir())
		if opts.SkipGenerated && strings.HasPrefix(path, "<") {
			return
		}
		start, _ := fs.Resolve(span)
		lines = append(lines, shortLine{path: path, line: start.Line, col: start.Col, sev: sev, code: code, msg: oneLine(msg)})
	}
	for _, d := range bag.Items() {
		code := d.Code.ID()
		add(d.Primary, strings.ToLower(d.Severity.String()), code, d.Message)
		if opts.Notes {
			for _, n := range d.Notes {
				add(n.Span, "note", code, n.Msg)
			}
		}
	}
	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s %s\n", l.path, l.line, l.col, l.sev, l.code, l.msg); err != nil {
			return err
		}
	}
	if n := bag.Dropped(); n > 0 {
		_, err := fmt.Fprintf(w, "... %d more diagnostic(s) dropped\n", n)
		return err
	}
	return nil
}

func oneLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
