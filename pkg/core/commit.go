package core

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/logging"
)

type commitStats struct {
	adds, updates, removals int
}

// commit applies the finished pass to the host in one uninterrupted walk
// and promotes it to current. Deletions run first, then the
// work-in-progress subtree depth-first.
func (r *Root) commit(ctx context.Context) {
	_, span := r.tracer.Start(ctx, "fiber.commit")
	defer span.End()

	var stats commitStats
	for _, fiber := range r.deletions {
		if parent := fiber.hostParent(); parent != nil {
			r.commitDeletion(fiber, parent.host)
		}
		disposeSubtree(fiber)
		stats.removals++
	}

	claimHooks(r.wip)
	for fiber := r.wip.child; fiber != nil; fiber = fiber.next(r.wip) {
		r.commitWork(fiber, &stats)
	}
	r.promote()
	r.stats.Commits++

	span.SetAttributes(
		attribute.Int("fiber.adds", stats.adds),
		attribute.Int("fiber.updates", stats.updates),
		attribute.Int("fiber.removals", stats.removals),
	)
	logging.Logger().Debug("render pass committed",
		zap.Int("adds", stats.adds),
		zap.Int("updates", stats.updates),
		zap.Int("removals", stats.removals),
	)
}

func (r *Root) commitWork(fiber *Fiber, stats *commitStats) {
	switch fiber.intent {
	case IntentAdd:
		if fiber.host != nil {
			if parent := fiber.hostParent(); parent != nil {
				r.renderer.AttachChild(parent.host, fiber.host)
				stats.adds++
			}
		}
	case IntentUpdate:
		if fiber.host != nil && fiber.previous != nil {
			r.renderer.ApplyHostPatch(fiber.host, fiber.previous.props, fiber.props)
			stats.updates++
		}
	}
	claimHooks(fiber)
	fiber.previous = nil
}

// commitDeletion detaches the host instances of a removed subtree. A fiber
// without a host instance defers to its children.
func (r *Root) commitDeletion(fiber *Fiber, parentHost HostInstance) {
	if fiber.host != nil {
		r.renderer.DetachChild(parentHost, fiber.host)
		return
	}
	for child := fiber.child; child != nil; child = child.sibling {
		r.commitDeletion(child, parentHost)
	}
}

// promote makes the finished pass current. A pass anchored below the root
// replaces its anchor in the committed tree.
func (r *Root) promote() {
	wip, anchor := r.wip, r.wipAnchor
	if anchor == nil || anchor.parent == nil {
		r.current = wip
	} else {
		parent := anchor.parent
		wip.sibling = anchor.sibling
		if parent.child == anchor {
			parent.child = wip
		} else {
			for s := parent.child; s != nil; s = s.sibling {
				if s.sibling == anchor {
					s.sibling = wip
					break
				}
			}
		}
	}
	wip.previous = nil

	r.wip = nil
	r.wipAnchor = nil
	r.nextUnit = nil
	r.deletions = nil
	r.fresh = nil
	r.restarts = 0
}

// claimHooks records fiber as the committed owner of its hook records, so
// setters and store handlers arm passes from the live tree.
func claimHooks(fiber *Fiber) {
	for _, rec := range fiber.hooks {
		rec.owner = fiber
	}
}

// disposeSubtree releases the hook records of a removed subtree.
func disposeSubtree(root *Fiber) {
	for fiber := root; fiber != nil; fiber = fiber.next(root) {
		for _, rec := range fiber.hooks {
			rec.dispose()
		}
	}
}
