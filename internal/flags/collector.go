package flags

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"
)

// HelperCollector is the set of runtime helpers a render program needs.
// The zero value is an empty set.
type HelperCollector struct {
	bits uint64
}

// hoistHelpers lists helpers that may be referenced from module-scope hoists.
var hoistHelpers = HelperCollector{}.
	With(CreateComment).
	With(CreateElementVNode).
	With(CreateStatic).
	With(CreateText).
	With(CreateVNode)

// Insert adds h. Inserting an id outside the 64-bit word is a programming error.
func (c *HelperCollector) Insert(h RuntimeHelper) {
	if h >= MaxHelpers {
		panic(fmt.Sprintf("flags: helper id %d exceeds collector capacity", h))
	}
	c.bits |= 1 << h
}

// With returns a copy of c with h inserted.
func (c HelperCollector) With(h RuntimeHelper) HelperCollector {
	c.Insert(h)
	return c
}

// Union adds every helper of other.
func (c *HelperCollector) Union(other HelperCollector) {
	c.bits |= other.bits
}

func (c HelperCollector) Contains(h RuntimeHelper) bool {
	return h < MaxHelpers && c.bits&(1<<h) != 0
}

func (c HelperCollector) IsEmpty() bool {
	return c.bits == 0
}

func (c HelperCollector) Len() int {
	return bits.OnesCount64(c.bits)
}

// HoistSubset keeps only helpers legal in module-scope hoisted code.
func (c HelperCollector) HoistSubset() HelperCollector {
	return HelperCollector{bits: c.bits & hoistHelpers.bits}
}

// All yields helpers in ascending id order.
func (c HelperCollector) All() iter.Seq[RuntimeHelper] {
	return func(yield func(RuntimeHelper) bool) {
		rest := c.bits
		for rest != 0 {
			h := RuntimeHelper(bits.TrailingZeros64(rest))
			if !yield(h) {
				return
			}
			rest &= rest - 1
		}
	}
}

// Names resolves every helper in order. The first unresolvable helper aborts.
func (c HelperCollector) Names(custom []string) ([]string, error) {
	out := make([]string, 0, c.Len())
	for h := range c.All() {
		name, err := h.Name(custom)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

func (c HelperCollector) String() string {
	parts := make([]string, 0, c.Len())
	for h := range c.All() {
		parts = append(parts, h.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
