package core

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/logging"
)

const (
	// maxRenderRestarts bounds the passes component evaluations may arm
	// before the tree commits, such as a setter called on every render.
	maxRenderRestarts = 50
	// maxFlushPasses bounds Flush when commits keep arming new passes.
	maxFlushPasses = 10000
)

// Work performs units of work until the frontier is exhausted or deadline
// drops below the root's minimum remaining budget, then commits a finished
// pass. At least one unit runs per call. It reports whether work remains.
//
// A component evaluation failure discards the pass and is returned as a
// *errors.RenderError. Evaluations that keep arming new passes before the
// tree commits abort it with an errors.KindUpdateLoop error. In both cases
// the committed tree is left untouched.
func (r *Root) Work(deadline Deadline) (bool, error) {
	if r.wip == nil {
		return false, nil
	}
	if deadline == nil {
		deadline = NoDeadline
	}

	ctx, span := r.tracer.Start(context.Background(), "fiber.work")
	defer span.End()

	units := 0
	yielded := false
	for r.nextUnit != nil {
		wip, unit := r.wip, r.nextUnit
		next, err := r.performUnitOfWork(unit)
		units++
		r.stats.Units++
		if err == nil && r.restarts > maxRenderRestarts {
			loopErr := errors.UpdateLoop("core.Work", maxRenderRestarts)
			loopErr.Component = unit.typ.String()
			err = loopErr
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			r.abort(err)
			return false, err
		}
		// A synchronous update during evaluation re-armed the root; the
		// new pass starts from its own frontier.
		if r.wip == wip {
			r.nextUnit = next
		}
		if r.nextUnit != nil && deadline.TimeRemaining() < r.minRemaining {
			yielded = true
			break
		}
	}
	span.SetAttributes(
		attribute.Int("fiber.units", units),
		attribute.Bool("fiber.yielded", yielded),
	)

	if r.nextUnit == nil && r.wip != nil {
		r.commit(ctx)
		if r.pendingRoot {
			r.pendingRoot = false
			r.arm(r.current, "deferred")
		}
	}
	return r.wip != nil, nil
}

// Flush runs Work without a deadline until no pass is armed. It gives up
// with an errors.KindUpdateLoop error when commits keep arming new passes.
func (r *Root) Flush() error {
	for passes := 0; r.wip != nil; passes++ {
		if passes >= maxFlushPasses {
			err := errors.UpdateLoop("core.Flush", maxFlushPasses)
			r.abort(err)
			return err
		}
		if _, err := r.Work(NoDeadline); err != nil {
			return err
		}
	}
	return nil
}

// performUnitOfWork evaluates or materializes fiber, reconciles its
// children and returns the next fiber of the pass.
func (r *Root) performUnitOfWork(fiber *Fiber) (*Fiber, error) {
	switch fiber.typ.Kind() {
	case TypeComponent:
		if err := r.updateComponent(fiber); err != nil {
			return nil, err
		}
	default:
		r.updateHost(fiber)
	}
	return fiber.next(r.wip), nil
}

func (r *Root) updateComponent(fiber *Fiber) error {
	fiber.hooks = nil
	hooks := &Hooks{root: r, fiber: fiber}
	wip := r.wip
	r.rendering = true
	rendered, err := r.safeRender(fiber, hooks)
	r.rendering = false
	if err != nil {
		return err
	}
	if r.wip != wip {
		// The render armed a new pass; this fiber belongs to the old one.
		return nil
	}
	r.reconcileChildren(fiber, flatten(rendered))
	return nil
}

func (r *Root) updateHost(fiber *Fiber) {
	if fiber.host == nil {
		fiber.host = r.renderer.CreateHostInstance(fiber.typ, fiber.props)
	}
	r.reconcileChildren(fiber, fiber.props.Children())
}

// safeRender evaluates a component with panic recovery. Engine errors
// raised by hooks are wrapped; any other panic value is kept as Recovered.
func (r *Root) safeRender(fiber *Fiber, hooks *Hooks) (rendered any, err error) {
	component := fiber.typ.Component()
	if component == nil || component.Render == nil {
		return nil, nil
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			rendered, err = nil, errors.FromRecovered(fiber.typ.String(), recovered)
		}
	}()

	return component.Render(hooks, fiber.props), nil
}

// abort discards the failed pass and reports the error.
func (r *Root) abort(err error) {
	r.discard()
	switch e := err.(type) {
	case *errors.RenderError:
		errors.ReportRenderError(e)
	case *errors.EngineError:
		errors.Report(e)
	}
	logging.Logger().Debug("render pass aborted", zap.Error(err))
}
