package codegen

import (
	"strings"

	"vuec/internal/flags"
	"vuec/internal/ir"
	"vuec/internal/transform"
)

type entry struct {
	key, value string
	// raw is value before class/style normalisation.
	raw string
}

// segment is either an object literal under construction or a raw
// expression merged as a whole (v-bind / v-on objects).
type segment struct {
	entries []entry
	raw     string
	spread  bool
}

func (e *Emitter) props(v *ir.VNode) piece {
	s := e.propsExpr(v.Props, v.Key)
	if s == "" {
		return nil
	}
	return e.lit(s)
}

// propsExpr renders the props argument. key is a synthetic key value.
func (e *Emitter) propsExpr(props []ir.Prop, key string) string {
	var (
		segs       []segment
		cur        []entry
		shows      []string
		dynamicKey bool
	)
	if key != "" {
		cur = append(cur, entry{"key", key, key})
	}
	flush := func() {
		if len(cur) > 0 {
			segs = append(segs, segment{entries: cur})
			cur = nil
		}
	}
	for i := range props {
		p := &props[i]
		switch p.Kind {
		case ir.PropSpread:
			flush()
			segs = append(segs, segment{raw: e.expr(p.Expr), spread: true})
		case ir.PropHandlers:
			flush()
			segs = append(segs, segment{raw: e.helper(flags.ToHandlers) + "(" + e.expr(p.Expr) + ")"})
		case ir.PropShow:
			shows = append(shows, "{ display: ("+e.expr(p.Expr)+") ? \"\" : \"none\" }")
		default:
			if p.NameExpr != nil {
				dynamicKey = true
			}
			ent := e.entry(p)
			if prev := findEntry(cur, ent.key); prev != nil && (ent.key == "class" || ent.key == "style") {
				// статический и динамический class сливаются в один массив
				prev.raw = "[" + prev.raw + ", " + ent.raw + "]"
				prev.value = e.helper(normalizer(ent.key)) + "(" + prev.raw + ")"
				continue
			}
			cur = append(cur, ent)
		}
	}
	flush()
	if len(shows) > 0 {
		segs = e.mergeShow(segs, shows)
	}

	switch {
	case len(segs) == 0:
		return ""
	case len(segs) == 1 && segs[0].raw != "":
		if segs[0].spread {
			return e.helper(flags.NormalizeProps) + "(" + e.helper(flags.GuardReactiveProps) + "(" + segs[0].raw + "))"
		}
		return segs[0].raw
	case len(segs) == 1:
		obj := objectLiteral(segs[0].entries)
		if dynamicKey {
			return e.helper(flags.NormalizeProps) + "(" + obj + ")"
		}
		return obj
	}
	parts := make([]string, len(segs))
	for i, s := range segs {
		if s.raw != "" {
			parts[i] = s.raw
			continue
		}
		parts[i] = objectLiteral(s.entries)
	}
	return e.helper(flags.MergeProps) + "(" + strings.Join(parts, ", ") + ")"
}

// mergeShow folds v-show display toggles into the last style entry, or adds
// one.
func (e *Emitter) mergeShow(segs []segment, shows []string) []segment {
	show := shows[0]
	if len(shows) > 1 {
		show = "[" + strings.Join(shows, ", ") + "]"
	}
	for i := len(segs) - 1; i >= 0; i-- {
		for k := len(segs[i].entries) - 1; k >= 0; k-- {
			ent := &segs[i].entries[k]
			if ent.key == "style" {
				ent.value = e.helper(flags.NormalizeStyle) + "([" + ent.raw + ", " + show + "])"
				return segs
			}
		}
	}
	v := e.helper(flags.NormalizeStyle) + "(" + show + ")"
	ent := entry{"style", v, v}
	if n := len(segs); n > 0 && segs[n-1].raw == "" {
		segs[n-1].entries = append(segs[n-1].entries, ent)
		return segs
	}
	return append(segs, segment{entries: []entry{ent}})
}

func findEntry(entries []entry, key string) *entry {
	for i := range entries {
		if entries[i].key == key {
			return &entries[i]
		}
	}
	return nil
}

func normalizer(key string) flags.RuntimeHelper {
	if key == "class" {
		return flags.NormalizeClass
	}
	return flags.NormalizeStyle
}

func objectLiteral(entries []entry) string {
	parts := make([]string, len(entries))
	for i, ent := range entries {
		parts[i] = ent.key + ": " + ent.value
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (e *Emitter) entry(p *ir.Prop) entry {
	switch p.Kind {
	case ir.PropAttr:
		v := jsString(p.Value.String())
		return entry{objectKey(p.Name.String()), v, v}
	case ir.PropOn:
		if p.NameExpr != nil {
			h := e.handler(p)
			return entry{"[" + e.helper(flags.ToHandlerKey) + "(" + e.expr(p.NameExpr) + ")]", h, h}
		}
		h := e.handler(p)
		return entry{objectKey(transform.EventKey(p)), h, h}
	}
	value := e.expr(p.Expr)
	raw := value
	if p.NameExpr != nil {
		name := e.expr(p.NameExpr) + ` || ""`
		if hasMod(p.Modifiers, "camel") {
			name = e.helper(flags.Camelize) + "(" + name + ")"
		}
		return entry{"[" + name + "]", value, raw}
	}
	if transform.NeedsNormalize(p) {
		value = e.helper(normalizer(p.Name.Raw())) + "(" + value + ")"
	}
	return entry{objectKey(transform.PropKey(p)), value, raw}
}

func hasMod(mods []string, m string) bool {
	for _, x := range mods {
		if x == m {
			return true
		}
	}
	return false
}

var keyNames = map[string][]string{
	"enter":  {"Enter"},
	"tab":    {"Tab"},
	"esc":    {"Escape"},
	"space":  {" "},
	"up":     {"ArrowUp"},
	"down":   {"ArrowDown"},
	"left":   {"ArrowLeft"},
	"right":  {"ArrowRight"},
	"delete": {"Delete", "Backspace"},
}

var mouseButtons = map[string]string{"left": "0", "middle": "1", "right": "2"}

// eventGuards lowers stop/prevent/self, system keys, mouse buttons and key
// filters into early-return statements.
func eventGuards(event string, mods []string) []string {
	isKey := strings.HasPrefix(event, "key")
	var guards, keys []string
	for _, m := range mods {
		switch m {
		case "stop":
			guards = append(guards, "$event.stopPropagation()")
		case "prevent":
			guards = append(guards, "$event.preventDefault()")
		case "self":
			guards = append(guards, "if ($event.target !== $event.currentTarget) return")
		case "ctrl", "shift", "alt", "meta":
			guards = append(guards, "if (!$event."+m+"Key) return")
		default:
			if k, ok := keyNames[m]; ok && isKey {
				keys = append(keys, k...)
				continue
			}
			if b, ok := mouseButtons[m]; ok && !isKey {
				guards = append(guards, "if ($event.button !== "+b+") return")
			}
		}
	}
	switch len(keys) {
	case 0:
		return guards
	case 1:
		return append([]string{"if ($event.key !== " + jsString(keys[0]) + ") return"}, guards...)
	}
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = jsString(k)
	}
	return append([]string{"if (![" + strings.Join(quoted, ", ") + "].includes($event.key)) return"}, guards...)
}

func (e *Emitter) handler(p *ir.Prop) string {
	body := e.expr(p.Expr)
	event := ""
	if p.NameExpr == nil {
		event = p.Name.Raw()
	}
	guards := eventGuards(event, p.Modifiers)
	if len(guards) == 0 {
		if p.Expr.Handler {
			if strings.Contains(body, ";") {
				return "$event => { " + body + " }"
			}
			return "$event => (" + body + ")"
		}
		return body
	}
	call := body
	if !p.Expr.Handler {
		call = "(" + body + ")($event)"
	}
	return "$event => { " + strings.Join(guards, "; ") + "; " + call + " }"
}
