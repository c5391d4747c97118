package transform

import (
	"vuec/internal/flags"
	"vuec/internal/ir"
)

// finalizeRoot turns a single vnode root into a block and wraps several
// roots into a stable fragment.
func finalizeRoot(j *Job) {
	kids := j.Root.Children
	switch {
	case len(kids) == 0:
		return
	case len(kids) == 1:
		if kids[0].Kind == ir.KindVNode {
			kids[0].VNode.Block = true
		}
		return
	}
	j.Root.Fragment = true
	j.Root.Patch = flags.FromBits(flags.PatchStableFragment)
	if !j.Opts.Dev {
		return
	}
	real := 0
	for i := range kids {
		if kids[i].Kind != ir.KindComment {
			real++
		}
	}
	if real == 1 {
		j.Root.Patch = j.Root.Patch.With(flags.PatchDevRootFragment)
	}
}
