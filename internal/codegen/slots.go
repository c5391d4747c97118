package codegen

import (
	"strconv"

	"vuec/internal/flags"
	"vuec/internal/ir"
)

// slots renders the slots object of a component, wrapped in createSlots
// when some slots are conditional or looped.
func (e *Emitter) slots(v *ir.VNode) {
	s := v.Slots
	if len(s.Dynamic) == 0 {
		e.slotsObject(s)
		return
	}
	e.w.str(e.helper(flags.CreateSlots) + "(")
	e.slotsObject(s)
	e.w.str(", [")
	e.w.in()
	for i := range s.Dynamic {
		e.w.line()
		e.dynamicSlot(&s.Dynamic[i])
		if i < len(s.Dynamic)-1 {
			e.w.str(",")
		}
	}
	e.w.out()
	e.w.line()
	e.w.str("])")
}

func (e *Emitter) slotsObject(s *ir.Slots) {
	e.w.str("{")
	e.w.in()
	for i := range s.Static {
		sl := &s.Static[i]
		e.w.line()
		e.w.str(e.slotKey(sl) + ": ")
		e.slotFn(sl)
		e.w.str(",")
	}
	e.w.line()
	e.w.str("_: " + e.slotFlag(s.Flag))
	e.w.out()
	e.w.line()
	e.w.str("}")
}

func (e *Emitter) slotKey(sl *ir.Slot) string {
	if sl.NameExpr != nil {
		return "[" + e.expr(sl.NameExpr) + "]"
	}
	return objectKey(sl.Name.String())
}

func (e *Emitter) slotName(sl *ir.Slot) string {
	if sl.NameExpr != nil {
		return e.expr(sl.NameExpr)
	}
	return jsString(sl.Name.String())
}

func (e *Emitter) slotFn(sl *ir.Slot) {
	e.w.str(e.helper(flags.WithCtx) + "((" + sl.Params + ") => ")
	e.array(sl.Body)
	e.w.str(")")
}

// slotDescriptor renders { name, fn[, key] } for createSlots.
func (e *Emitter) slotDescriptor(sl *ir.Slot, key string) {
	e.w.str("{")
	e.w.in()
	e.w.line()
	e.w.str("name: " + e.slotName(sl) + ",")
	e.w.line()
	e.w.str("fn: ")
	e.slotFn(sl)
	if key != "" {
		e.w.str(",")
		e.w.line()
		e.w.str("key: " + jsString(key))
	}
	e.w.out()
	e.w.line()
	e.w.str("}")
}

func (e *Emitter) dynamicSlot(ds *ir.DynamicSlot) {
	if ds.Loop != nil {
		e.w.str(e.helper(flags.RenderList) + "(" + e.expr(ds.Loop.Source) + ", (" + ds.Loop.Params() + ") => {")
		e.w.in()
		e.w.line()
		e.w.str("return ")
		e.slotDescriptor(&ds.Branches[0], "")
		e.w.out()
		e.w.line()
		e.w.str("})")
		return
	}
	opened := 0
	for i := range ds.Branches {
		sl := &ds.Branches[i]
		if sl.Cond == nil {
			e.slotDescriptor(sl, strconv.Itoa(i))
			e.closeTernary(opened)
			return
		}
		e.w.str("(" + e.expr(sl.Cond) + ")")
		e.w.in()
		opened++
		e.w.line()
		e.w.str("? ")
		e.slotDescriptor(sl, strconv.Itoa(i))
		e.w.line()
		e.w.str(": ")
	}
	e.w.str("undefined")
	e.closeTernary(opened)
}
