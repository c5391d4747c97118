package codegen

import "strings"

// writer tracks indentation for multi-line output.
type writer struct {
	sb    strings.Builder
	depth int
}

func (w *writer) str(s string) { w.sb.WriteString(s) }

// line starts a new indented line.
func (w *writer) line() {
	w.sb.WriteByte('\n')
	for range w.depth {
		w.sb.WriteString("  ")
	}
}

// blank ends the current line without indentation, leaving an empty line
// before the next line.
func (w *writer) blank() { w.sb.WriteByte('\n') }

func (w *writer) in()  { w.depth++ }
func (w *writer) out() { w.depth-- }

func (w *writer) String() string { return w.sb.String() }

// piece is one call argument; nil renders as null and is trimmed at the end.
type piece func()

func (e *Emitter) lit(s string) piece { return func() { e.w.str(s) } }
