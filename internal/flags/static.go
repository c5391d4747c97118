package flags

// StaticLevel orders how much work the runtime may skip for a node.
type StaticLevel uint8

const (
	NotStatic StaticLevel = iota
	CanSkipPatch
	CanHoist
	CanStringify
)

func (l StaticLevel) String() string {
	switch l {
	case NotStatic:
		return "NotStatic"
	case CanSkipPatch:
		return "CanSkipPatch"
	case CanHoist:
		return "CanHoist"
	case CanStringify:
		return "CanStringify"
	}
	return "StaticLevel(?)"
}

// MinLevel returns the lower of two levels.
func MinLevel(a, b StaticLevel) StaticLevel {
	return min(a, b)
}

func (l StaticLevel) CanHoistNode() bool     { return l >= CanHoist }
func (l StaticLevel) CanStringifyNode() bool { return l >= CanStringify }
func (l StaticLevel) CanSkipPatching() bool  { return l >= CanSkipPatch }

// SlotFlag tells the runtime how a component's slots may change.
type SlotFlag uint8

const (
	SlotUnset SlotFlag = iota
	// SlotStable: slots depend only on the component's own props.
	SlotStable
	// SlotDynamic: slots depend on scope variables or are conditional/looped.
	SlotDynamic
	// SlotForwarded: slots pass a parent's slot through.
	SlotForwarded
)

func (f SlotFlag) String() string {
	switch f {
	case SlotStable:
		return "STABLE"
	case SlotDynamic:
		return "DYNAMIC"
	case SlotForwarded:
		return "FORWARDED"
	}
	return "UNSET"
}
