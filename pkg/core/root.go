package core

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/logging"
)

// Version is the semantic version of the engine.
const Version = "v1.0.0"

// DefaultMinRemaining is the remaining budget below which the work loop
// yields back to the host scheduler.
const DefaultMinRemaining = time.Millisecond

const tracerName = "github.com/go-drift/fiber/pkg/core"

// rootTag is the host tag of the fiber wrapping the host container.
var rootTag = HostTag("#root")

// Phase is the state of a root's work loop.
type Phase uint8

const (
	// PhaseIdle means no render pass is armed.
	PhaseIdle Phase = iota
	// PhaseWorking means fibers remain to be processed.
	PhaseWorking
	// PhaseCommitting means the frontier is exhausted and the pass awaits commit.
	PhaseCommitting
)

func (p Phase) String() string {
	switch p {
	case PhaseWorking:
		return "working"
	case PhaseCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// RootStats counts work loop activity since the root was created.
type RootStats struct {
	// Arms is the number of render passes armed.
	Arms int
	// Discards is the number of in-flight passes abandoned by a newer arm
	// or by a render error.
	Discards int
	// Commits is the number of passes committed.
	Commits int
	// Units is the number of units of work performed.
	Units int
}

// Option configures a Root.
type Option func(*Root)

// WithMinRemaining sets the budget threshold below which Work yields.
func WithMinRemaining(d time.Duration) Option {
	return func(r *Root) {
		r.minRemaining = d
	}
}

// WithTracer sets the tracer used for work and commit spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Root) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// Root renders element trees into one host container. It owns the current
// tree, the work-in-progress pass, the frontier and the deletion list.
//
// Root is NOT thread-safe. Render, Work, state setters and store dispatches
// must happen on one goroutine; scheduler.Loop.Post marshals work onto it.
type Root struct {
	renderer  HostRenderer
	container HostInstance

	current   *Fiber
	wip       *Fiber
	wipAnchor *Fiber
	nextUnit  *Fiber
	deletions []*Fiber
	rootProps Props

	// fresh holds the hook records created by the in-flight pass. Records
	// never committed are disposed when the pass is abandoned.
	fresh []*hookRecord

	// pendingRoot is set when an update targets a component that has not
	// been committed yet; the root is re-armed after the next commit.
	pendingRoot bool

	// rendering is set while a component is evaluated. restarts counts the
	// passes armed by evaluations since the last commit.
	rendering bool
	restarts  int

	store            Store
	unsubscribeStore func()
	relay            storeRelay

	minRemaining time.Duration
	tracer       trace.Tracer
	stats        RootStats

	// OnNeedsWork is called whenever a render pass is armed, signalling the
	// host scheduler that Work should be called.
	OnNeedsWork func()
}

// NewRoot creates a root rendering into container through renderer.
func NewRoot(renderer HostRenderer, container HostInstance, opts ...Option) *Root {
	r := &Root{
		renderer:     renderer,
		container:    container,
		minRemaining: DefaultMinRemaining,
		tracer:       otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render installs store (nil for none) and arms a render pass for element.
// Rendering again diffs against the committed tree.
func (r *Root) Render(element Element, store Store) {
	r.installStore(store)
	r.rootProps = Props{ChildrenProp: []Element{element}}
	r.arm(r.current, "render")
}

// Unmount removes everything rendered into the container and releases the
// store subscription. Pending work is discarded.
func (r *Root) Unmount() {
	r.discard()
	r.installStore(nil)
	if r.current == nil {
		return
	}
	for c := r.current.child; c != nil; c = c.sibling {
		r.commitDeletion(c, r.container)
		disposeSubtree(c)
	}
	r.current = nil
	r.rootProps = nil
}

// Container returns the host container.
func (r *Root) Container() HostInstance { return r.container }

// Current returns the committed root fiber, or nil before the first commit.
func (r *Root) Current() *Fiber { return r.current }

// Phase reports the state of the work loop.
func (r *Root) Phase() Phase {
	switch {
	case r.wip == nil:
		return PhaseIdle
	case r.nextUnit != nil:
		return PhaseWorking
	default:
		return PhaseCommitting
	}
}

// HasWork reports whether a render pass is armed.
func (r *Root) HasWork() bool { return r.wip != nil }

// Stats returns the work loop counters.
func (r *Root) Stats() RootStats { return r.stats }

// Store returns the installed store, if any.
func (r *Root) Store() Store { return r.store }

func (r *Root) installStore(store Store) {
	if store == r.store {
		return
	}
	if r.unsubscribeStore != nil {
		r.unsubscribeStore()
		r.unsubscribeStore = nil
	}
	r.store = store
	if store != nil {
		r.unsubscribeStore = store.Subscribe(r.relay.notify)
	}
}

// arm starts a new render pass anchored at anchor, a committed fiber. A nil
// anchor, or the current root fiber, re-renders from the container.
//
// An in-flight pass is discarded. The new pass is anchored at the common
// ancestor of both anchors so the discarded request is evaluated again.
func (r *Root) arm(anchor *Fiber, reason string) {
	if r.rootProps == nil {
		return
	}
	if r.wip != nil {
		r.stats.Discards++
		r.releaseFresh()
		if r.rendering {
			r.restarts++
		}
		logging.Logger().Debug("render pass discarded", zap.String("reason", reason))
		if r.wipAnchor == nil || anchor == nil {
			anchor = nil
		} else {
			anchor = commonAncestor(r.wipAnchor, anchor)
		}
	}
	if anchor == nil || anchor.parent == nil {
		anchor = r.current
	}

	wip := &Fiber{typ: rootTag, host: r.container, props: r.rootProps}
	if anchor != nil && anchor != r.current {
		wip = &Fiber{
			typ:    anchor.typ,
			props:  anchor.props,
			host:   anchor.host,
			parent: anchor.parent,
			depth:  anchor.depth,
			intent: IntentUpdate,
		}
	}
	wip.previous = anchor

	r.wip = wip
	r.wipAnchor = anchor
	r.nextUnit = wip
	r.deletions = nil
	r.stats.Arms++

	logging.Logger().Debug("render pass armed",
		zap.String("reason", reason),
		zap.Stringer("anchor", wip.typ),
		zap.Int("depth", wip.depth),
	)
	if r.OnNeedsWork != nil {
		r.OnNeedsWork()
	}
}

// schedule arms a pass for an update coming from a hook record.
func (r *Root) schedule(rec *hookRecord, reason string) {
	if rec.disposed {
		return
	}
	if rec.owner == nil {
		// The owning component has not been committed yet.
		if r.wip != nil {
			r.pendingRoot = true
			return
		}
		r.arm(r.current, reason)
		return
	}
	r.arm(rec.owner.parent, reason)
}

// discard abandons the in-flight pass without touching the host.
func (r *Root) discard() {
	if r.wip != nil {
		r.stats.Discards++
		r.releaseFresh()
	}
	r.wip = nil
	r.wipAnchor = nil
	r.nextUnit = nil
	r.deletions = nil
	r.pendingRoot = false
	r.restarts = 0
}

func (r *Root) releaseFresh() {
	for _, rec := range r.fresh {
		if rec.owner == nil {
			rec.dispose()
		}
	}
	r.fresh = nil
}

// StoreListeners returns the number of UseStore change handlers currently
// registered with the root.
func (r *Root) StoreListeners() int { return r.relay.len() }
