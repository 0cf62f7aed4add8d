package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host/memory"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// ContainerTag is the tag of the host container elements are rendered into.
const ContainerTag = "root"

// frameDuration is how far PumpAndSettle advances the clock per frame.
const frameDuration = 16 * time.Millisecond

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: root did not settle")

// Tester renders elements into an in-memory host and drives them through a
// scheduler.Loop measured on a fake clock.
type Tester struct {
	host      *memory.Renderer
	container *memory.Node
	root      *core.Root
	loop      *scheduler.Loop
	clock     *FakeClock
}

// NewTester creates a tester. Loop options are applied after the fake
// clock is installed, so WithFrameBudget and WithTraceSamples may be given.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester(opts ...scheduler.Option) *Tester {
	clk := NewFakeClock()
	host := memory.New()
	container := host.NewContainer(ContainerTag)
	t := &Tester{
		host:      host,
		container: container,
		root:      core.NewRoot(host, container),
		loop:      scheduler.NewLoop(append([]scheduler.Option{scheduler.WithClock(clk)}, opts...)...),
		clock:     clk,
	}
	t.loop.Attach(t.root)
	return t
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T, opts ...scheduler.Option) *Tester {
	tester := NewTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the rendered tree and detaches the root from the loop.
func (t *Tester) Cleanup() {
	t.root.Unmount()
	t.loop.Detach(t.root)
}

// Clock returns the fake clock frame deadlines are measured on.
func (t *Tester) Clock() *FakeClock { return t.clock }

// Root returns the root under test.
func (t *Tester) Root() *core.Root { return t.root }

// Host returns the in-memory renderer, whose op log records every host call.
func (t *Tester) Host() *memory.Renderer { return t.host }

// Container returns the host container.
func (t *Tester) Container() *memory.Node { return t.container }

// Loop returns the scheduler loop driving the root.
func (t *Tester) Loop() *scheduler.Loop { return t.loop }

// Text returns the text content of the rendered tree.
func (t *Tester) Text() string { return t.container.TextContent() }

// PumpElement renders element with store (nil for none) and runs one frame.
func (t *Tester) PumpElement(element core.Element, store core.Store) error {
	t.root.Render(element, store)
	return t.Pump()
}

// Pump runs a single frame: posted callbacks, then work until the frame
// budget is spent.
func (t *Tester) Pump() error {
	return t.loop.RunFrame()
}

// PumpAndSettle runs frames until no work remains or the timeout is
// reached. Each frame advances the fake clock by 16ms.
// Returns ErrSettleTimeout if the root does not settle within timeout.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed < timeout {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.loop.HasWork() {
			return nil
		}
		t.clock.Advance(frameDuration)
		elapsed += frameDuration
	}
	return ErrSettleTimeout
}

// PumpUnits performs at most n units of work outside the loop and reports
// whether work remains. It commits only if the pass finishes within n units.
func (t *Tester) PumpUnits(n int) (bool, error) {
	return t.root.Work(core.UnitBudget(n))
}

// Dispatch queues a callback for the next frame, mirroring Loop.Post.
func (t *Tester) Dispatch(fn func()) {
	t.loop.Post(fn)
}

// Find evaluates a finder against the rendered host tree.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{
		nodes:  finder.Evaluate(t.container),
		finder: finder,
	}
}
