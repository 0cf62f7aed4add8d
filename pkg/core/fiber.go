package core

// Intent is the mutation a fiber asks the committer to apply.
type Intent uint8

const (
	// IntentNone is the intent of root fibers, which are never patched.
	IntentNone Intent = iota
	// IntentAdd inserts the fiber's host instance under its host parent.
	IntentAdd
	// IntentUpdate patches the host instance against the previous props.
	IntentUpdate
	// IntentRemove detaches the previous fiber's host instances.
	IntentRemove
)

func (i Intent) String() string {
	switch i {
	case IntentAdd:
		return "ADD"
	case IntentUpdate:
		return "UPDATE"
	case IntentRemove:
		return "REMOVE"
	default:
		return "NONE"
	}
}

// Fiber is one position of the rendered tree in one render generation.
//
// parent, child and sibling form the tree of a generation. previous points
// at the fiber holding the same position in the last committed generation;
// it is only read during reconciliation and commit, and cleared once the
// fiber is committed so at most two generations stay reachable.
type Fiber struct {
	typ      Type
	props    Props
	host     HostInstance
	parent   *Fiber
	child    *Fiber
	sibling  *Fiber
	previous *Fiber
	intent   Intent
	hooks    []*hookRecord
	depth    int
}

// Type returns the fiber's element type.
func (f *Fiber) Type() Type { return f.typ }

// Props returns the props the fiber was rendered with.
func (f *Fiber) Props() Props { return f.props }

// HostInstance returns the host instance owned by the fiber, or nil for
// component fibers and host fibers not processed yet.
func (f *Fiber) HostInstance() HostInstance { return f.host }

// Parent returns the parent fiber.
func (f *Fiber) Parent() *Fiber { return f.parent }

// Child returns the first child fiber.
func (f *Fiber) Child() *Fiber { return f.child }

// Sibling returns the next sibling fiber.
func (f *Fiber) Sibling() *Fiber { return f.sibling }

// Previous returns the previous-generation fiber at this position, if the
// fiber has not been committed yet.
func (f *Fiber) Previous() *Fiber { return f.previous }

// Intent returns the mutation assigned by the reconciler.
func (f *Fiber) Intent() Intent { return f.intent }

// Depth returns the distance from the root fiber.
func (f *Fiber) Depth() int { return f.depth }

// HookCount returns the number of hooks recorded by the last evaluation.
func (f *Fiber) HookCount() int { return len(f.hooks) }

// VisitChildren calls visitor for each child in order until it returns false.
func (f *Fiber) VisitChildren(visitor func(*Fiber) bool) {
	for c := f.child; c != nil; c = c.sibling {
		if !visitor(c) {
			return
		}
	}
}

// Children returns the child fibers in order.
func (f *Fiber) Children() []*Fiber {
	var children []*Fiber
	f.VisitChildren(func(c *Fiber) bool {
		children = append(children, c)
		return true
	})
	return children
}

// hostParent returns the nearest ancestor owning a host instance.
func (f *Fiber) hostParent() *Fiber {
	p := f.parent
	for p != nil && p.host == nil {
		p = p.parent
	}
	return p
}

// next returns the fiber visited after f in a depth-first walk that never
// leaves the subtree rooted at root.
func (f *Fiber) next(root *Fiber) *Fiber {
	if f.child != nil {
		return f.child
	}
	for n := f; n != nil && n != root; n = n.parent {
		if n.sibling != nil {
			return n.sibling
		}
	}
	return nil
}

// commonAncestor returns the deepest fiber that is an ancestor of both a and
// b, or nil when they do not share a tree.
func commonAncestor(a, b *Fiber) *Fiber {
	for a != nil && b != nil && a.depth > b.depth {
		a = a.parent
	}
	for a != nil && b != nil && b.depth > a.depth {
		b = b.parent
	}
	for a != nil && b != nil {
		if a == b {
			return a
		}
		a, b = a.parent, b.parent
	}
	return nil
}
