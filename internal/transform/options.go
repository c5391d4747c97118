package transform

import "vuec/internal/diag"

// DefaultStringifyThreshold is the element count at which a run of static
// hoists collapses into one createStaticVNode.
const DefaultStringifyThreshold = 20

type Options struct {
	Reporter diag.Reporter
	// Dev enables development-only flags such as DEV_ROOT_FRAGMENT.
	Dev         bool
	HoistStatic bool
	// StringifyThreshold must be positive; zero picks the default.
	StringifyThreshold int
	// KnownConstants are setup bindings that never change after creation.
	KnownConstants []string
	// SelfName is used for self-referencing component assets.
	SelfName string
	// ExtraPasses run after the built-in table.
	ExtraPasses []Pass
}

func (o Options) threshold() int {
	if o.StringifyThreshold <= 0 {
		return DefaultStringifyThreshold
	}
	return o.StringifyThreshold
}
