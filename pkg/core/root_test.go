package core_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host/memory"
)

type env struct {
	host      *memory.Renderer
	container *memory.Node
	root      *core.Root
}

func newEnv(t *testing.T, opts ...core.Option) *env {
	t.Helper()
	host := memory.New()
	container := host.NewContainer("root")
	return &env{host: host, container: container, root: core.NewRoot(host, container, opts...)}
}

func (e *env) render(t *testing.T, el core.Element, store core.Store) {
	t.Helper()
	e.root.Render(el, store)
	require.NoError(t, e.root.Flush())
}

// mutations returns the mutating host calls as strings and resets the log.
func (e *env) mutations() []string {
	var out []string
	for _, op := range e.host.Mutations() {
		out = append(out, op.String())
	}
	e.host.ResetOps()
	return out
}

func TestRender_MountsTree(t *testing.T) {
	e := newEnv(t)
	e.render(t, core.H("div", core.Props{"id": "app"},
		core.H("h1", nil, "Title"),
		core.H("p", nil, "count: ", 1),
	), nil)

	assert.Equal(t, `<root><div id="app"><h1>Title</h1><p>count: 1</p></div></root>`, e.container.String())
	assert.Equal(t, core.PhaseIdle, e.root.Phase())
	assert.False(t, e.root.HasWork())
	assert.Equal(t, 1, e.root.Stats().Commits)
}

func TestRender_IdempotentRerender(t *testing.T) {
	e := newEnv(t)
	build := func() core.Element {
		return core.H("ul", core.Props{"class": "list"},
			core.H("li", nil, "a"),
			core.H("li", nil, "b"),
		)
	}
	e.render(t, build(), nil)
	before := e.container.String()
	e.mutations()

	e.render(t, build(), nil)
	assert.Empty(t, e.mutations(), "re-rendering an identical tree must not mutate the host")
	assert.Equal(t, before, e.container.String())
}

func TestRender_PositionalDiff(t *testing.T) {
	e := newEnv(t)
	e.render(t, core.H("div", nil, core.H("span", nil), core.H("p", nil)), nil)
	div := e.container.Children[0]
	span, p := div.Children[0], div.Children[1]
	e.mutations()

	// Position 0 changes type (add p + remove span), position 1 is trailing.
	e.render(t, core.H("div", nil, core.H("p", nil)), nil)

	want := []string{
		fmt.Sprintf("detach span#%d -> #%d", span.ID, div.ID),
		fmt.Sprintf("detach p#%d -> #%d", p.ID, div.ID),
		fmt.Sprintf("attach p#%d -> #%d", div.Children[0].ID, div.ID),
	}
	if diff := cmp.Diff(want, e.mutations()); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}
	assert.NotSame(t, p, div.Children[0], "a type change at a position never reuses a later instance")
	assert.Equal(t, "<root><div><p></p></div></root>", e.container.String())
}

func TestRender_AddBetweenSiblingsAppends(t *testing.T) {
	e := newEnv(t)
	e.render(t, core.H("div", nil, core.H("span", nil), core.H("b", nil), core.H("i", nil)), nil)
	div := e.container.Children[0]
	b, i := div.Children[1], div.Children[2]
	e.mutations()

	// Only the middle position changes type; its replacement is attached
	// after the untouched trailing sibling.
	e.render(t, core.H("div", nil, core.H("span", nil), core.H("em", nil), core.H("i", nil)), nil)

	em := div.Children[2]
	want := []string{
		fmt.Sprintf("detach b#%d -> #%d", b.ID, div.ID),
		fmt.Sprintf("attach em#%d -> #%d", em.ID, div.ID),
	}
	if diff := cmp.Diff(want, e.mutations()); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}
	assert.Same(t, i, div.Children[1])
	assert.Equal(t, "<root><div><span></span><i></i><em></em></div></root>", e.container.String())
}

func TestRender_TrailingRemovalAndAppend(t *testing.T) {
	e := newEnv(t)
	list := func(items ...string) core.Element {
		children := make([]any, len(items))
		for i, item := range items {
			children[i] = core.H("li", nil, item)
		}
		return core.H("ul", nil, children...)
	}

	e.render(t, list("a", "b", "c"), nil)
	e.render(t, list("a"), nil)
	assert.Equal(t, "<root><ul><li>a</li></ul></root>", e.container.String())

	e.render(t, list("x", "y"), nil)
	assert.Equal(t, "<root><ul><li>x</li><li>y</li></ul></root>", e.container.String())
}

func TestRender_TextUpdatePatchesInPlace(t *testing.T) {
	e := newEnv(t)
	e.render(t, core.H("p", nil, "one"), nil)
	text := e.container.Children[0].Children[0]
	e.mutations()

	e.render(t, core.H("p", nil, "two"), nil)
	assert.Equal(t, []string{fmt.Sprintf("patch #text#%d [nodeValue]", text.ID)}, e.mutations())
	assert.Same(t, text, e.container.Children[0].Children[0])
	assert.Equal(t, "two", text.Text)
}

func TestRender_FragmentAndComponents(t *testing.T) {
	e := newEnv(t)
	item := core.NewComponent("Item", func(_ *core.Hooks, props core.Props) any {
		return core.H("li", nil, props.Get("label"))
	})
	e.render(t, core.H("ul", nil,
		core.C(core.Fragment, nil,
			core.C(item, core.Props{"label": "a"}),
			core.C(item, core.Props{"label": "b"}),
		),
		core.C(item, core.Props{"label": "c"}),
	), nil)
	assert.Equal(t, "<root><ul><li>a</li><li>b</li><li>c</li></ul></root>", e.container.String())

	// Removing a fragment detaches every host child it rendered.
	e.render(t, core.H("ul", nil, core.C(item, core.Props{"label": "c"})), nil)
	assert.Equal(t, "<root><ul><li>c</li></ul></root>", e.container.String())
}

func TestRender_ComponentReturningSliceAndPrimitive(t *testing.T) {
	e := newEnv(t)
	pair := core.NewComponent("Pair", func(*core.Hooks, core.Props) any {
		return []any{core.H("b", nil), "tail"}
	})
	number := core.NewComponent("Number", func(*core.Hooks, core.Props) any { return 42 })
	empty := core.NewComponent("Empty", func(*core.Hooks, core.Props) any { return nil })

	e.render(t, core.H("div", nil, core.C(pair, nil), core.C(number, nil), core.C(empty, nil)), nil)
	assert.Equal(t, "<root><div><b></b>tail42</div></root>", e.container.String())
}

func TestWork_YieldsBeforeAnyMutation(t *testing.T) {
	e := newEnv(t)
	e.root.Render(core.H("div", nil, core.H("a", nil), core.H("b", nil)), nil)

	pending, err := e.root.Work(core.UnitBudget(1))
	require.NoError(t, err)
	assert.True(t, pending)
	assert.Equal(t, core.PhaseWorking, e.root.Phase())
	assert.Empty(t, e.host.Mutations(), "no host mutation may happen before the frontier is exhausted")
	assert.Empty(t, e.container.Children)

	for pending {
		pending, err = e.root.Work(core.UnitBudget(1))
		require.NoError(t, err)
	}
	assert.Equal(t, "<root><div><a></a><b></b></div></root>", e.container.String())
}

func TestWork_DiscardedPassMakesNoMutations(t *testing.T) {
	e := newEnv(t)
	e.render(t, core.H("div", nil, "first"), nil)
	e.mutations()

	e.root.Render(core.H("section", nil, "discarded"), nil)
	_, err := e.root.Work(core.UnitBudget(1))
	require.NoError(t, err)

	e.root.Render(core.H("div", nil, "second"), nil)
	stats := e.root.Stats()
	assert.Equal(t, 1, stats.Discards)
	require.NoError(t, e.root.Flush())

	ops := e.mutations()
	assert.Len(t, ops, 1)
	assert.Contains(t, ops[0], "[nodeValue]")
	assert.Equal(t, "<root><div>second</div></root>", e.container.String())
}

func TestWork_MinRemainingOption(t *testing.T) {
	e := newEnv(t, core.WithMinRemaining(0))
	e.root.Render(core.H("div", nil, core.H("a", nil)), nil)

	// A zero threshold never yields.
	pending, err := e.root.Work(core.DeadlineFunc(func() time.Duration { return 0 }))
	require.NoError(t, err)
	assert.False(t, pending)
	assert.Len(t, e.container.Children, 1)
}

func TestWork_IdleIsNoop(t *testing.T) {
	e := newEnv(t)
	pending, err := e.root.Work(nil)
	assert.NoError(t, err)
	assert.False(t, pending)
	assert.Nil(t, e.root.Current())
}

func TestWork_OnNeedsWork(t *testing.T) {
	e := newEnv(t)
	calls := 0
	e.root.OnNeedsWork = func() { calls++ }
	e.render(t, core.H("div", nil), nil)
	assert.Equal(t, 1, calls)
}

func TestWork_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	e := newEnv(t, core.WithTracer(provider.Tracer("test")))

	e.render(t, core.H("div", nil, "x"), nil)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	names := []string{spans[0].Name(), spans[1].Name()}
	assert.ElementsMatch(t, []string{"fiber.work", "fiber.commit"}, names)

	attrs := map[string]int64{}
	for _, span := range spans {
		for _, kv := range span.Attributes() {
			attrs[string(kv.Key)] = kv.Value.AsInt64()
		}
	}
	assert.Equal(t, int64(2), attrs["fiber.adds"])
	assert.Equal(t, int64(0), attrs["fiber.removals"])
	assert.Equal(t, int64(3), attrs["fiber.units"])
}

func TestUnmount(t *testing.T) {
	e := newEnv(t)
	e.render(t, core.C(core.Fragment, nil, core.H("a", nil), core.H("b", nil)), nil)
	require.Len(t, e.container.Children, 2)

	e.root.Unmount()
	assert.Empty(t, e.container.Children)
	assert.Nil(t, e.root.Current())
	assert.False(t, e.root.HasWork())

	// Rendering after unmount mounts from scratch.
	e.render(t, core.H("p", nil), nil)
	assert.Equal(t, "<root><p></p></root>", e.container.String())
}
