package transform

import (
	"vuec/internal/flags"
	"vuec/internal/ir"
)

func classifySlots(j *Job) {
	ir.Walk(j.Root.Children, func(n *ir.Node) bool {
		if n.Kind != ir.KindVNode || n.VNode.Slots == nil {
			return true
		}
		v := n.VNode
		s := v.Slots
		s.Flag = ClassifySlots(v)
		if s.Flag == flags.SlotDynamic {
			v.Patch = v.Patch.With(flags.PatchDynamicSlots)
		}
		h := &j.Root.Helpers
		h.Insert(flags.WithCtx)
		if len(s.Dynamic) > 0 {
			h.Insert(flags.CreateSlots)
		}
		for _, ds := range s.Dynamic {
			if ds.Loop != nil {
				h.Insert(flags.RenderList)
			}
		}
		j.Point("slots", v.Tag.Raw()+"="+s.Flag.String())
		return true
	})
}
