package flags

import (
	"errors"
	"fmt"
)

// RuntimeHelper identifies a function exported by the runtime that generated
// render code calls. Ids below ReservedMax are built in; ids from ReservedMax
// up to 63 are custom and resolved through a caller-supplied name table.
type RuntimeHelper uint8

const (
	Fragment RuntimeHelper = iota
	Teleport
	Suspense
	KeepAlive
	BaseTransition
	OpenBlock
	CreateBlock
	CreateElementBlock
	CreateVNode
	CreateElementVNode
	_ // 10 is reserved
	CreateComment
	CreateText
	CreateStatic
	ResolveComponent
	ResolveDynamicComponent
	ResolveDirective
	ResolveFilter
	WithDirectives
	RenderList
	RenderSlot
	CreateSlots
	ToDisplayString
	MergeProps
	NormalizeClass
	NormalizeStyle
	NormalizeProps
	GuardReactiveProps
	ToHandlers
	Camelize
	Capitalize
	ToHandlerKey
	SetBlockTracking
	PushScopeID
	PopScopeID
	WithCtx
	Unref
	IsRef
	WithMemo
	IsMemoSame

	// ReservedMax is the first custom helper id.
	ReservedMax
)

// MaxHelpers bounds every helper id: a collector is one 64-bit word.
const MaxHelpers = 64

// ErrUnknownHelper reports a helper id with no runtime name.
var ErrUnknownHelper = errors.New("unknown runtime helper")

var helperNames = [ReservedMax]string{
	Fragment:                "Fragment",
	Teleport:                "Teleport",
	Suspense:                "Suspense",
	KeepAlive:               "KeepAlive",
	BaseTransition:          "BaseTransition",
	OpenBlock:               "openBlock",
	CreateBlock:             "createBlock",
	CreateElementBlock:      "createElementBlock",
	CreateVNode:             "createVNode",
	CreateElementVNode:      "createElementVNode",
	CreateComment:           "createCommentVNode",
	CreateText:              "createTextVNode",
	CreateStatic:            "createStaticVNode",
	ResolveComponent:        "resolveComponent",
	ResolveDynamicComponent: "resolveDynamicComponent",
	ResolveDirective:        "resolveDirective",
	ResolveFilter:           "resolveFilter",
	WithDirectives:          "withDirectives",
	RenderList:              "renderList",
	RenderSlot:              "renderSlot",
	CreateSlots:             "createSlots",
	ToDisplayString:         "toDisplayString",
	MergeProps:              "mergeProps",
	NormalizeClass:          "normalizeClass",
	NormalizeStyle:          "normalizeStyle",
	NormalizeProps:          "normalizeProps",
	GuardReactiveProps:      "guardReactiveProps",
	ToHandlers:              "toHandlers",
	Camelize:                "camelize",
	Capitalize:              "capitalize",
	ToHandlerKey:            "toHandlerKey",
	SetBlockTracking:        "setBlockTracking",
	PushScopeID:             "pushScopeId",
	PopScopeID:              "popScopeId",
	WithCtx:                 "withCtx",
	Unref:                   "unref",
	IsRef:                   "isRef",
	WithMemo:                "withMemo",
	IsMemoSame:              "isMemoSame",
}

// CustomHelper returns the id of the i-th custom helper.
func CustomHelper(i int) RuntimeHelper {
	if i < 0 || int(ReservedMax)+i >= MaxHelpers {
		panic(fmt.Sprintf("flags: custom helper index %d out of range", i))
	}
	return ReservedMax + RuntimeHelper(i)
}

// IsCustom reports whether h lives in the custom range.
func (h RuntimeHelper) IsCustom() bool {
	return h >= ReservedMax
}

// Name resolves the runtime name of h. custom supplies names of custom
// helpers indexed by id-ReservedMax.
func (h RuntimeHelper) Name(custom []string) (string, error) {
	if h < ReservedMax {
		if name := helperNames[h]; name != "" {
			return name, nil
		}
		return "", fmt.Errorf("%w: reserved id %d", ErrUnknownHelper, h)
	}
	idx := int(h - ReservedMax)
	if idx < len(custom) && custom[idx] != "" {
		return custom[idx], nil
	}
	return "", fmt.Errorf("%w: custom id %d has no name", ErrUnknownHelper, h)
}

// String returns the built-in name or a placeholder for custom and unused ids.
func (h RuntimeHelper) String() string {
	if h < ReservedMax && helperNames[h] != "" {
		return helperNames[h]
	}
	return fmt.Sprintf("helper#%d", h)
}

// LookupHelper finds a built-in helper by its runtime name.
func LookupHelper(name string) (RuntimeHelper, bool) {
	for i, n := range helperNames {
		if n != "" && n == name {
			return RuntimeHelper(i), true
		}
	}
	return 0, false
}
