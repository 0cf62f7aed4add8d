// Package testbed provides internal test components for the testing framework.
package testbed

import "github.com/go-drift/fiber/pkg/core"

// Counter displays a count in a button and increments it on click. Props:
// "initial" (int) seeds the count, "onTap" (func(int)) observes increments.
var Counter = core.NewComponent("Counter", func(h *core.Hooks, props core.Props) any {
	initial, _ := props.Get("initial").(int)
	onTap, _ := props.Get("onTap").(func(int))
	count, setCount := core.UseState(h, initial)
	return core.H("button", core.Props{
		"class": "counter",
		"onClick": func() {
			setCount(func(c int) int { return c + 1 })
			if onTap != nil {
				onTap(count + 1)
			}
		},
	}, count)
})

// Greeting renders a paragraph greeting the "name" prop.
var Greeting = core.NewComponent("Greeting", func(_ *core.Hooks, props core.Props) any {
	return core.H("p", core.Props{"class": "greeting"}, "Hello, ", props.Get("name"), "!")
})

// NameInput is a text input whose "input" events update a heading.
var NameInput = core.NewComponent("NameInput", func(h *core.Hooks, _ core.Props) any {
	name, setName := core.UseState(h, "")
	return core.C(core.Fragment, nil,
		core.H("input", core.Props{
			"onInput": func(detail any) {
				text, _ := detail.(string)
				setName(func(string) string { return text })
			},
		}),
		core.H("h2", nil, name),
	)
})
