package diagfmt

import (
	"encoding/json"
	"io"
	"strings"

	"vuec/internal/diag"
	"vuec/internal/source"
)

// Location описывает спан в JSON-выводе. Строки и колонки 1-based и заполняются
// только с JSONOpts.IncludePositions.
type Location struct {
	File    string `json:"file"`
	Start   uint32 `json:"start"`
	End     uint32 `json:"end"`
	Line    uint32 `json:"line,omitempty"`
	Col     uint32 `json:"col,omitempty"`
	EndLine uint32 `json:"end_line,omitempty"`
	EndCol  uint32 `json:"end_col,omitempty"`
}

type Note struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

// Entry is one diagnostic of a Report.
type Entry struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Stage    string   `json:"stage,omitempty"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
	Notes    []Note   `json:"notes,omitempty"`
}

// Report is the document written by JSON. Errors and Warnings count the
// rendered entries; Dropped counts what the bag or JSONOpts.Max cut off.
type Report struct {
	Diagnostics []Entry `json:"diagnostics"`
	Errors      int     `json:"errors"`
	Warnings    int     `json:"warnings"`
	Dropped     int     `json:"dropped,omitempty"`
}

func locate(fs *source.FileSet, span source.Span, opts JSONOpts) Location {
	loc := Location{
		File:  formatPath(fs.Get(span.File), opts.PathMode, fs.BaseDir()),
		Start: span.Start,
		End:   span.End,
	}
	if opts.IncludePositions {
		start, end := fs.Resolve(span)
		loc.Line, loc.Col = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

// BuildReport converts bag into a Report without encoding it.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	rep := Report{
		Diagnostics: make([]Entry, 0, len(items)),
		Dropped:     bag.Dropped() + bag.Len() - len(items),
	}
	for _, d := range items {
		e := Entry{
			Severity: strings.ToLower(d.Severity.String()),
			Code:     d.Code.ID(),
			Stage:    d.Code.Stage(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: locate(fs, d.Primary, opts),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				e.Notes = append(e.Notes, Note{Message: n.Msg, Location: locate(fs, n.Span, opts)})
			}
		}
		switch d.Severity {
		case diag.SevError:
			rep.Errors++
		case diag.SevWarning:
			rep.Warnings++
		}
		rep.Diagnostics = append(rep.Diagnostics, e)
	}
	return rep
}

// JSON writes bag as an indented Report.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
