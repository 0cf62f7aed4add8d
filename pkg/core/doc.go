// Package core provides the fiber reconciliation engine and its hooks.
//
// Elements are immutable descriptions of what to render. A [Root] mirrors
// them into a tree of fibers, one fiber per rendered position, and keeps two
// generations: the committed tree and the work-in-progress pass being built.
//
// # Rendering
//
// Render arms a pass; Work advances it one fiber at a time until the host's
// time slice runs out, and commits once every fiber has been processed:
//
//	root := core.NewRoot(renderer, container)
//	root.Render(core.C(App, nil), nil)
//	for pending := true; pending; {
//	    pending, err = root.Work(deadline)
//	}
//
// No host mutation happens before the commit, and the commit runs to
// completion in a single call, so the host never observes a partial update.
//
// # Components and Hooks
//
// Components are functions of their props that return elements:
//
//	var Counter = core.NewComponent("Counter", func(h *core.Hooks, props core.Props) any {
//	    count, setCount := core.UseState(h, 0)
//	    return core.H("button", core.Props{
//	        "onClick": func() { setCount(func(c int) int { return c + 1 }) },
//	    }, fmt.Sprintf("Clicked %d times", count))
//	})
//
// UseState, UseEffect, UseRef and UseStore keep per-position state across
// renders. They are matched by call order, so a component must call the same
// hooks in the same order on every render.
//
// # Diffing
//
// Children are matched by position only. A child whose type differs from the
// previous child at the same index is added and the previous one removed;
// reordering children therefore re-creates them.
package core
