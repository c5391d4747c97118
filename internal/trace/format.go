package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // pick by output path
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
	}
}

// FormatEvent formats an event according to the specified format.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

func formatNDJSON(ev *Event) []byte {
	type jsonEvent struct {
		Time      string            `json:"time"`
		Seq       uint64            `json:"seq"`
		Kind      string            `json:"kind"`
		Scope     string            `json:"scope"`
		SpanID    uint64            `json:"span_id,omitempty"`
		ParentID  uint64            `json:"parent_id,omitempty"`
		Name      string            `json:"name"`
		Detail    string            `json:"detail,omitempty"`
		ElapsedUS int64             `json:"elapsed_us,omitempty"`
		Extra     map[string]string `json:"extra,omitempty"`
	}
	data, err := json.Marshal(jsonEvent{
		Time:      ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		SpanID:    ev.SpanID,
		ParentID:  ev.ParentID,
		Name:      ev.Name,
		Detail:    ev.Detail,
		ElapsedUS: ev.Elapsed.Microseconds(),
		Extra:     ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

// formatText: [scope] →/← name (detail) {k=v} 1.234ms
func formatText(ev *Event) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%-6s] ", ev.Scope)
	sb.WriteString(strings.Repeat("  ", int(ev.Scope)-1))

	switch ev.Kind {
	case KindSpanBegin:
		sb.WriteString("→ ")
	case KindSpanEnd:
		sb.WriteString("← ")
	case KindPoint:
		sb.WriteString("• ")
	}
	sb.WriteString(ev.Name)

	if ev.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(ev.Detail)
		sb.WriteString(")")
	}
	if len(ev.Extra) > 0 {
		sb.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(ev.Extra[k])
		}
		sb.WriteString("}")
	}
	if ev.Kind == KindSpanEnd {
		fmt.Fprintf(&sb, " %.3fms", float64(ev.Elapsed.Microseconds())/1000)
	}
	sb.WriteString("\n")
	return []byte(sb.String())
}
