package flags

import (
	"fmt"
	"strings"
)

// PatchBit is one optimisation hint the runtime diff can act on.
type PatchBit uint16

const (
	PatchText PatchBit = 1 << iota
	PatchClass
	PatchStyle
	PatchProps
	PatchFullProps
	PatchHydrateEvents
	PatchStableFragment
	PatchKeyedFragment
	PatchUnkeyedFragment
	PatchNeedPatch
	PatchDynamicSlots
	PatchDevRootFragment

	patchBitsMask = PatchDevRootFragment<<1 - 1
)

var patchBitNames = [...]string{
	"TEXT",
	"CLASS",
	"STYLE",
	"PROPS",
	"FULL_PROPS",
	"HYDRATE_EVENTS",
	"STABLE_FRAGMENT",
	"KEYED_FRAGMENT",
	"UNKEYED_FRAGMENT",
	"NEED_PATCH",
	"DYNAMIC_SLOTS",
	"DEV_ROOT_FRAGMENT",
}

type patchMarker uint8

const (
	markerNone patchMarker = iota
	markerHoisted
	markerBail
)

const (
	hoistedValue int32 = -1
	bailValue    int32 = -2
)

// PatchFlag is either a set of PatchBits or exactly one special marker
// (HOISTED or BAIL). The two forms never mix; the numeric runtime encoding
// exists only through Value.
type PatchFlag struct {
	bits   PatchBit
	marker patchMarker
}

// Hoisted marks a vnode moved to module scope. The runtime never diffs it.
func Hoisted() PatchFlag { return PatchFlag{marker: markerHoisted} }

// Bail tells the diff to leave optimised mode for the subtree.
func Bail() PatchFlag { return PatchFlag{marker: markerBail} }

// FromBits builds a bit-set flag.
func FromBits(bs ...PatchBit) PatchFlag {
	var f PatchFlag
	for _, b := range bs {
		f = f.With(b)
	}
	return f
}

// FromValue validates a runtime encoded value.
func FromValue(v int32) (PatchFlag, error) {
	switch {
	case v == hoistedValue:
		return Hoisted(), nil
	case v == bailValue:
		return Bail(), nil
	case v < 0:
		return PatchFlag{}, fmt.Errorf("patch flag %d: negative values other than -1 and -2 are not allowed", v)
	case v&^int32(patchBitsMask) != 0:
		return PatchFlag{}, fmt.Errorf("patch flag %d: unknown bits %#x", v, v&^int32(patchBitsMask))
	}
	f := PatchFlag{bits: PatchBit(v)}
	if f.bits&PatchFullProps != 0 && f.bits&(PatchClass|PatchStyle|PatchProps) != 0 {
		return PatchFlag{}, fmt.Errorf("patch flag %d: FULL_PROPS cannot be combined with CLASS, STYLE or PROPS", v)
	}
	return f, nil
}

// With returns f with b added. FULL_PROPS subsumes CLASS, STYLE and PROPS.
// Adding bits to a special marker is a programming error.
func (f PatchFlag) With(b PatchBit) PatchFlag {
	if f.marker != markerNone {
		panic(fmt.Sprintf("flags: cannot add %s to %s", PatchFlag{bits: b}, f))
	}
	if b&^patchBitsMask != 0 {
		panic(fmt.Sprintf("flags: unknown patch bit %#x", uint16(b)))
	}
	const partial = PatchClass | PatchStyle | PatchProps
	if b&PatchFullProps != 0 {
		f.bits &^= partial
		b &^= partial
	}
	if f.bits&PatchFullProps != 0 {
		b &^= partial
	}
	f.bits |= b
	return f
}

// Without clears b. Special markers are returned unchanged.
func (f PatchFlag) Without(b PatchBit) PatchFlag {
	if f.marker == markerNone {
		f.bits &^= b
	}
	return f
}

func (f PatchFlag) Has(b PatchBit) bool {
	return f.marker == markerNone && f.bits&b == b
}

func (f PatchFlag) IsZero() bool {
	return f.marker == markerNone && f.bits == 0
}

func (f PatchFlag) IsHoisted() bool { return f.marker == markerHoisted }
func (f PatchFlag) IsBail() bool    { return f.marker == markerBail }

// IsSpecial reports whether f is HOISTED or BAIL.
func (f PatchFlag) IsSpecial() bool { return f.marker != markerNone }

// Bits returns the bit set; zero for special markers.
func (f PatchFlag) Bits() PatchBit {
	if f.marker != markerNone {
		return 0
	}
	return f.bits
}

// Production drops development-only bits.
func (f PatchFlag) Production() PatchFlag {
	return f.Without(PatchDevRootFragment)
}

// Value is the numeric encoding understood by the runtime.
func (f PatchFlag) Value() int32 {
	switch f.marker {
	case markerHoisted:
		return hoistedValue
	case markerBail:
		return bailValue
	}
	return int32(f.bits)
}

// Names lists the set bits in ascending order, or the marker name.
func (f PatchFlag) Names() []string {
	switch f.marker {
	case markerHoisted:
		return []string{"HOISTED"}
	case markerBail:
		return []string{"BAIL"}
	}
	var out []string
	for i, name := range patchBitNames {
		if f.bits&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}

func (f PatchFlag) String() string {
	names := f.Names()
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// ParsePatchFlag accepts "HOISTED", "BAIL" or "|"-joined bit names.
func ParsePatchFlag(s string) (PatchFlag, error) {
	switch s {
	case "", "0":
		return PatchFlag{}, nil
	case "HOISTED":
		return Hoisted(), nil
	case "BAIL":
		return Bail(), nil
	}
	var bitsSet PatchBit
	for part := range strings.SplitSeq(s, "|") {
		found := false
		for i, name := range patchBitNames {
			if name == strings.TrimSpace(part) {
				bitsSet |= 1 << i
				found = true
				break
			}
		}
		if !found {
			return PatchFlag{}, fmt.Errorf("unknown patch flag %q", part)
		}
	}
	return FromValue(int32(bitsSet))
}
