// Package scheduler drives core.Root work loops in frame-sized time slices.
//
// A Loop plays the role of the host's idle callback: every frame it runs
// callbacks posted from other goroutines, then lets each attached root
// perform units of work until the frame budget runs out. Roots are not
// thread-safe, so everything that touches a root (rendering, state setters,
// store dispatches) should either happen on the goroutine calling RunFrame
// or be marshalled onto it with Post.
package scheduler

import (
	"context"
	stderrors "errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/logging"
)

// DefaultFrameBudget is the time slice granted per frame (one 60Hz frame).
const DefaultFrameBudget = 16 * time.Millisecond

// Option configures a Loop.
type Option func(*Loop)

// WithClock sets the clock frame deadlines are measured on.
func WithClock(clock Clock) Option {
	return func(l *Loop) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithFrameBudget sets the time slice granted to each frame.
func WithFrameBudget(budget time.Duration) Option {
	return func(l *Loop) {
		if budget > 0 {
			l.frameBudget = budget
		}
	}
}

// WithTraceSamples sets the capacity of the pass trace buffer.
func WithTraceSamples(n int) Option {
	return func(l *Loop) {
		l.traceSamples = n
	}
}

// Loop schedules the work of one or more roots.
type Loop struct {
	mu     sync.Mutex
	posted []func()
	roots  []*core.Root

	clock        Clock
	frameBudget  time.Duration
	traceSamples int
	trace        *PassTraceBuffer

	wake chan struct{}
}

// NewLoop creates a loop.
func NewLoop(opts ...Option) *Loop {
	l := &Loop{
		clock:       realClock{},
		frameBudget: DefaultFrameBudget,
		wake:        make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.trace = NewPassTraceBuffer(l.traceSamples, l.frameBudget)
	return l
}

// FrameBudget returns the time slice granted to each frame.
func (l *Loop) FrameBudget() time.Duration { return l.frameBudget }

// Trace returns the pass trace buffer.
func (l *Loop) Trace() *PassTraceBuffer { return l.trace }

// Attach adds root to the loop and routes its work requests to the loop.
func (l *Loop) Attach(root *core.Root) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if slices.Contains(l.roots, root) {
		return
	}
	l.roots = append(l.roots, root)
	root.OnNeedsWork = l.signal
	if root.HasWork() {
		l.signal()
	}
}

// Detach removes root from the loop. Its pending work stays armed.
func (l *Loop) Detach(root *core.Root) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := slices.Index(l.roots, root); i >= 0 {
		l.roots = slices.Delete(l.roots, i, i+1)
		root.OnNeedsWork = nil
	}
}

// Post queues fn to run at the start of the next frame. It is safe to call
// from any goroutine.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
	l.signal()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// HasWork reports whether a callback is posted or an attached root has an
// armed pass.
func (l *Loop) HasWork() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.posted) > 0 {
		return true
	}
	for _, root := range l.roots {
		if root.HasWork() {
			return true
		}
	}
	return false
}

// RunFrame runs posted callbacks, then performs work on every attached root
// until the frame budget is spent. Render errors and panics of posted
// callbacks are joined into the returned error; they never stop the frame.
func (l *Loop) RunFrame() error {
	start := l.clock.Now()
	deadline := NewFrameDeadline(l.clock, l.frameBudget)

	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	roots := slices.Clone(l.roots)
	l.mu.Unlock()

	var errs []error
	for _, fn := range posted {
		if err := runPosted(fn); err != nil {
			errs = append(errs, err)
		}
	}

	sample := PassSample{
		Timestamp: start.UnixMilli(),
		Posted:    len(posted),
	}
	for _, root := range roots {
		if !root.HasWork() {
			continue
		}
		before := root.Stats()
		pending, err := root.Work(deadline)
		after := root.Stats()

		sample.Roots++
		sample.Units += after.Units - before.Units
		sample.Commits += after.Commits - before.Commits
		sample.Discards += after.Discards - before.Discards
		sample.Pending = sample.Pending || pending
		if err != nil {
			errs = append(errs, err)
		}
	}
	sample.Errors = len(errs)

	elapsed := l.clock.Now().Sub(start)
	sample.FrameMs = durationToMillis(elapsed)
	l.trace.Add(sample, elapsed)

	if sample.Pending {
		l.signal()
	}
	return stderrors.Join(errs...)
}

// runPosted runs fn, converting a panic into a reported *errors.PanicError.
func runPosted(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.RecoverPanic("scheduler.Post", r)
		}
	}()
	fn()
	return nil
}

// Flush runs frames until no work remains or maxFrames frames ran. It
// returns the first error encountered.
func (l *Loop) Flush(maxFrames int) error {
	for frame := 0; frame < maxFrames && l.HasWork(); frame++ {
		if err := l.RunFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Run runs a frame whenever work is signalled, at most once per frame
// budget, until ctx is done. Frame errors are logged and do not stop the
// loop; they have already been reported to the error handler.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.frameBudget)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
		if err := l.RunFrame(); err != nil {
			logging.Logger().Warn("frame finished with errors", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
