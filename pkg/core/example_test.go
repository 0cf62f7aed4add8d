package core_test

import (
	"fmt"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host/memory"
)

// This example renders a counter into an in-memory host and clicks it.
func ExampleUseState() {
	host := memory.New()
	container := host.NewContainer("root")
	root := core.NewRoot(host, container)

	counter := core.NewComponent("Counter", func(h *core.Hooks, _ core.Props) any {
		count, setCount := core.UseState(h, 0)
		return core.H("button", core.Props{
			"onClick": func() { setCount(func(c int) int { return c + 1 }) },
		}, "clicked ", count, " times")
	})

	root.Render(core.C(counter, nil), nil)
	_ = root.Flush()
	fmt.Println(container)

	button := container.Find("button")
	button.Fire("click", nil)
	button.Fire("click", nil)
	_ = root.Flush()
	fmt.Println(container)

	// Output:
	// <root><button onclick>clicked 0 times</button></root>
	// <root><button onclick>clicked 2 times</button></root>
}

// This example shows the positional diff replacing an element whose type
// changed at the same index.
func ExampleRoot_Render() {
	host := memory.New()
	container := host.NewContainer("root")
	root := core.NewRoot(host, container)

	root.Render(core.H("div", nil, core.H("span", nil, "a"), core.H("p", nil, "b")), nil)
	_ = root.Flush()
	host.ResetOps()

	root.Render(core.H("div", nil, core.H("p", nil, "b")), nil)
	_ = root.Flush()
	for _, op := range host.Mutations() {
		fmt.Println(op.Kind)
	}
	fmt.Println(container)

	// Output:
	// detach
	// detach
	// attach
	// attach
	// <root><div><p>b</p></div></root>
}
