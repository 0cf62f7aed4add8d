package core

// reconcileChildren diffs elements against the children of
// parent.previous, position by position, and links the resulting fibers
// under parent. Unmatched previous fibers are tagged IntentRemove and queued
// for deletion. Matching is positional: a type change at an index always
// yields an add and a remove, never a move.
func (r *Root) reconcileChildren(parent *Fiber, elements []Element) {
	var old *Fiber
	if parent.previous != nil {
		old = parent.previous.child
	}
	parent.child = nil

	var prevSibling *Fiber
	for index := 0; index < len(elements) || old != nil; index++ {
		var element *Element
		if index < len(elements) {
			element = &elements[index]
		}

		sameType := old != nil && element != nil && old.typ == element.Type

		var fiber *Fiber
		switch {
		case sameType:
			fiber = &Fiber{
				typ:      old.typ,
				props:    element.Props,
				host:     old.host,
				parent:   parent,
				previous: old,
				intent:   IntentUpdate,
				depth:    parent.depth + 1,
			}
		case element != nil:
			fiber = &Fiber{
				typ:    element.Type,
				props:  element.Props,
				parent: parent,
				intent: IntentAdd,
				depth:  parent.depth + 1,
			}
		}

		if old != nil && !sameType {
			old.intent = IntentRemove
			r.deletions = append(r.deletions, old)
		}
		if old != nil {
			old = old.sibling
		}

		if fiber == nil {
			continue
		}
		if prevSibling == nil {
			parent.child = fiber
		} else {
			prevSibling.sibling = fiber
		}
		prevSibling = fiber
	}
}
