// Package dump renders the output of each compile stage as structured data
// for inspection: tokens, the element tree and the IR before or after the
// transform passes.
package dump

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"vuec/internal/source"
)

// Format selects the encoding of a dump.
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts yaml, json or msgpack; "" means yaml.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatYAML:
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown dump format %q (expected: yaml|json|msgpack)", s)
}

// Encode writes v in the given format.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("dump: yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		// поля размечены json-тегами, msgpack читает их же
		enc.SetCustomStructTag("json")
		enc.SetOmitEmpty(true)
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown dump format %q", format)
}

func span(s source.Span) string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
