package parser

import "vuec/internal/diag"

// WhitespaceMode selects how text between tags is normalised.
type WhitespaceMode uint8

const (
	WhitespaceCondense WhitespaceMode = iota
	WhitespacePreserve
)

type Options struct {
	Reporter   diag.Reporter
	Whitespace WhitespaceMode
	// Comments keeps comment nodes in the tree.
	Comments bool
	// IsCustomElement marks tags that must stay native elements.
	IsCustomElement func(tag string) bool
}
