package diag

import "vuec/internal/source"

// DedupReporter forwards a diagnostic to next only the first time its code,
// severity, primary span and message are seen. Notes are not compared.
type DedupReporter struct {
	next Reporter
	seen map[reportKey]struct{}
}

type reportKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: map[reportKey]struct{}{}}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil || r.next == nil {
		return
	}
	k := reportKey{code: code, sev: sev, span: primary, msg: msg}
	if _, dup := r.seen[k]; dup {
		return
	}
	r.seen[k] = struct{}{}
	r.next.Report(code, sev, primary, msg, notes)
}
