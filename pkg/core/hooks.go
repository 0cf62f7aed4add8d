package core

import (
	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/logging"
)

type hookKind uint8

const (
	hookState hookKind = iota + 1
	hookEffect
	hookRef
	hookStore
)

// hookRecord is one positional hook slot. A record is created on the first
// render of its position and carried over to every later generation at the
// same position, so setters captured by earlier renders keep feeding it.
type hookRecord struct {
	kind hookKind

	// state
	value any
	queue []func(any) any

	// effect
	deps []any

	// ref
	ref *Ref

	// store subscription
	selected    any
	unsubscribe func()

	// owner is the committed fiber that last rendered this record.
	owner    *Fiber
	disposed bool
}

func (rec *hookRecord) dispose() {
	if rec.disposed {
		return
	}
	rec.disposed = true
	rec.queue = nil
	if rec.unsubscribe != nil {
		rec.unsubscribe()
		rec.unsubscribe = nil
	}
}

// Hooks is the hook cursor handed to a component evaluation.
//
// Hooks are addressed by call order: a component must call the same hooks in
// the same order on every render of a given position. Calling a hook of a
// different kind at an index fails the render with errors.ErrHookOrder;
// other order changes are not detected.
type Hooks struct {
	root  *Root
	fiber *Fiber
	index int
}

// Fiber returns the fiber being evaluated.
func (h *Hooks) Fiber() *Fiber { return h.fiber }

// next returns the record at the current index, reusing the previous
// generation's record when present.
func (h *Hooks) next(kind hookKind, op string) (rec *hookRecord, isNew bool) {
	if prev := h.fiber.previous; prev != nil && h.index < len(prev.hooks) {
		rec = prev.hooks[h.index]
		if rec.kind != kind {
			panic(errors.HookOrder(op, h.index))
		}
	}
	if rec == nil {
		rec = &hookRecord{kind: kind}
		isNew = true
		h.root.fresh = append(h.root.fresh, rec)
	}
	h.fiber.hooks = append(h.fiber.hooks, rec)
	h.index++
	return rec, isNew
}

// UseState returns the state value for this position and a setter. The
// setter queues update and re-renders the subtree containing the component;
// queued updates apply in call order on the next render.
//
// Example:
//
//	count, setCount := core.UseState(h, 0)
//	onClick := func() { setCount(func(c int) int { return c + 1 }) }
func UseState[T any](h *Hooks, initial T) (T, func(update func(T) T)) {
	rec, isNew := h.next(hookState, "core.UseState")
	if isNew {
		rec.value = initial
	}
	for _, update := range rec.queue {
		rec.value = update(rec.value)
	}
	rec.queue = nil

	root := h.root
	setState := func(update func(T) T) {
		if rec.disposed || update == nil {
			return
		}
		rec.queue = append(rec.queue, func(v any) any {
			current, _ := v.(T)
			return update(current)
		})
		root.schedule(rec, "state")
	}

	value, _ := rec.value.(T)
	return value, setState
}

// UseEffect runs action during the render on the first render of this
// position and whenever deps differ in length or in any value (compared
// with Identical). With no deps the action runs once.
func UseEffect(h *Hooks, action func(), deps ...any) {
	rec, isNew := h.next(hookEffect, "core.UseEffect")
	changed := isNew || argsChanged(rec.deps, deps)
	rec.deps = append([]any(nil), deps...)
	if changed && action != nil {
		action()
	}
}

// Ref is a mutable handle whose identity persists across renders. Host
// renderers bind Current to the host instance of an element given the ref
// under the "ref" prop.
type Ref struct {
	Current any
}

// UseRef returns the same *Ref on every render of this position.
func UseRef(h *Hooks) *Ref {
	rec, isNew := h.next(hookRef, "core.UseRef")
	if isNew {
		rec.ref = &Ref{}
	}
	return rec.ref
}

// UseStore selects a value from the root's store and returns it with the
// store's dispatch function. The selection is cached across renders and
// refreshed by a store change handler, which re-renders the subtree
// containing the component when the selected value is no longer identical.
//
// It fails the render with errors.ErrNoStore when the root was rendered
// without a store, and with errors.ErrNilSelector when selector is nil.
func UseStore[S, T any](h *Hooks, selector func(S) T) (T, func(action any)) {
	const op = "core.UseStore"
	root := h.root
	store := root.store
	if store == nil {
		panic(errors.Config(op, errors.ErrNoStore))
	}
	if selector == nil {
		panic(errors.Argument(op, errors.ErrNilSelector))
	}

	rec, isNew := h.next(hookStore, op)
	if isNew {
		selected, err := selectState(store, selector)
		if err != nil {
			panic(errors.Argument(op, err))
		}
		rec.selected = selected
	}

	if rec.unsubscribe != nil {
		rec.unsubscribe()
	}
	rec.unsubscribe = root.relay.subscribe(func() {
		if rec.disposed || root.store == nil {
			return
		}
		selected, err := selectState(root.store, selector)
		if err != nil {
			logging.Logger().Warn("store selector skipped", zap.Error(err))
			return
		}
		if Identical(selected, rec.selected) {
			return
		}
		rec.selected = selected
		root.schedule(rec, "store")
	})

	value, _ := rec.selected.(T)
	return value, store.Dispatch
}

func selectState[S, T any](store Store, selector func(S) T) (T, error) {
	state, ok := store.State().(S)
	if !ok {
		var zero T
		return zero, errors.ErrStateType
	}
	return selector(state), nil
}
