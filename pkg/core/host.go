package core

import (
	"math"
	"time"
)

// HostInstance is a concrete object owned by the host renderer.
type HostInstance = any

// HostRenderer creates and mutates host instances on behalf of the engine.
// CreateHostInstance is called while rendering, on a detached instance; the
// other methods are only called during commit.
type HostRenderer interface {
	// CreateHostInstance allocates an instance for a host tag or text leaf
	// and applies its initial props.
	CreateHostInstance(t Type, props Props) HostInstance
	// ApplyHostPatch reconciles attributes, listeners, styles and ref
	// bindings of instance. It must be a no-op when prev and next hold
	// identical values.
	ApplyHostPatch(instance HostInstance, prev, next Props)
	// AttachChild appends child as the last child of parent. The committer
	// calls it for every added fiber, so an element added between existing
	// siblings ends up after them in the host.
	AttachChild(parent, child HostInstance)
	// DetachChild removes child from parent.
	DetachChild(parent, child HostInstance)
}

// Store is the external state container consumed by UseStore.
type Store interface {
	// State returns the current state snapshot.
	State() any
	// Dispatch sends an action (or a thunk) to the store.
	Dispatch(action any)
	// Subscribe registers a change handler and returns its release func.
	Subscribe(handler func()) (unsubscribe func())
}

// Deadline reports how much of the current time slice is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// DeadlineFunc adapts a function to Deadline.
type DeadlineFunc func() time.Duration

// TimeRemaining calls f.
func (f DeadlineFunc) TimeRemaining() time.Duration { return f() }

// NoDeadline never asks the work loop to yield.
var NoDeadline Deadline = DeadlineFunc(func() time.Duration { return math.MaxInt64 })

// UnitBudget returns a Deadline that runs out after n units of work. It is
// meant for deterministic tests of the yielding behaviour.
func UnitBudget(n int) Deadline {
	remaining := n
	return DeadlineFunc(func() time.Duration {
		remaining--
		if remaining <= 0 {
			return 0
		}
		return math.MaxInt64
	})
}
