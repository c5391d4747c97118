package vstr

import "strings"

// Ops is the set of pending string transformations of a VStr.
type Ops uint8

const (
	CompressWhitespace Ops = 1 << iota
	DecodeEntity
	CamelCase
	PascalCase
	IsAttr
	HandlerKey
	ValidAsset
	SelfSuffix
)

var opNames = [...]string{
	"COMPRESS_WHITESPACE",
	"DECODE_ENTITY",
	"CAMEL_CASE",
	"PASCAL_CASE",
	"IS_ATTR",
	"HANDLER_KEY",
	"VALID_ASSET",
	"SELF_SUFFIX",
}

func (o Ops) Has(op Ops) bool {
	return o&op == op
}

// Names lists pending ops in bit order.
func (o Ops) Names() []string {
	var out []string
	for i, n := range opNames {
		if o&(1<<i) != 0 {
			out = append(out, n)
		}
	}
	return out
}

func (o Ops) String() string {
	if o == 0 {
		return "0"
	}
	return strings.Join(o.Names(), "|")
}
