package converter

import (
	"vuec/internal/diag"
	"vuec/internal/flags"
)

type Options struct {
	Reporter diag.Reporter
	// SelfName is the component's own name; a matching tag resolves to the
	// component itself.
	SelfName string
	// Inject lists helpers that every render needs regardless of content.
	Inject []flags.RuntimeHelper
}
