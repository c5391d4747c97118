package scanner

import "vuec/internal/diag"

// Options controls scanning.
type Options struct {
	Reporter diag.Reporter // nil: ошибки молча пропускаются, сканирование продолжается
	// Delimiters of interpolations; zero value means {{ and }}.
	Delimiters [2]string
}

func (o Options) delimiters() (string, string) {
	if o.Delimiters[0] == "" || o.Delimiters[1] == "" {
		return "{{", "}}"
	}
	return o.Delimiters[0], o.Delimiters[1]
}
