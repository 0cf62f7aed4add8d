package main

import (
	"fmt"
	"slices"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/store"
)

// Todo is one item of the todo list.
type Todo struct {
	ID    int
	Title string
	Done  bool
}

// TodoState is the demo store state.
type TodoState struct {
	Items  []Todo
	NextID int
}

// AddTodo appends a todo.
type AddTodo struct{ Title string }

// ToggleTodo flips the done flag of the todo with ID.
type ToggleTodo struct{ ID int }

func reduceTodos(state TodoState, action any) TodoState {
	switch a := action.(type) {
	case AddTodo:
		state.NextID++
		state.Items = append(slices.Clone(state.Items), Todo{ID: state.NextID, Title: a.Title})
	case ToggleTodo:
		items := slices.Clone(state.Items)
		for i := range items {
			if items[i].ID == a.ID {
				items[i].Done = !items[i].Done
			}
		}
		state.Items = items
	}
	return state
}

func newTodoStore() *store.Store[TodoState] {
	return store.New(TodoState{}, reduceTodos)
}

// addTodos dispatches n AddTodo actions numbered after the existing items.
func addTodos(n int) store.Thunk[TodoState] {
	return func(dispatch func(any), getState func() TodoState) {
		for i := 0; i < n; i++ {
			dispatch(AddTodo{Title: fmt.Sprintf("task %d", getState().NextID+1)})
		}
	}
}

var Title = core.NewComponent("Title", func(_ *core.Hooks, props core.Props) any {
	return core.H("h1", core.Props{"class": "title"}, props.Get("text"))
})

// Panel groups its children under a heading without adding a host node of
// its own around them.
var Panel = core.NewComponent("Panel", func(_ *core.Hooks, props core.Props) any {
	return core.C(core.Fragment, nil, core.H("h2", nil, props.Get("heading")), props.Children())
})

var Counter = core.NewComponent("Counter", func(h *core.Hooks, props core.Props) any {
	count, setCount := core.UseState(h, 0)
	return core.H("button", core.Props{
		"class":   "counter",
		"name":    props.Get("label"),
		"onClick": func() { setCount(func(c int) int { return c + 1 }) },
	}, props.Get("label"), ": ", count)
})

var TodoItem = core.NewComponent("TodoItem", func(_ *core.Hooks, props core.Props) any {
	todo, _ := props.Get("todo").(Todo)
	mark := "[ ]"
	if todo.Done {
		mark = "[x]"
	}
	return core.H("li", core.Props{"data-id": todo.ID, "onClick": props.Get("onToggle")}, mark, " ", todo.Title)
})

var TodoList = core.NewComponent("TodoList", func(h *core.Hooks, _ core.Props) any {
	items, dispatch := core.UseStore(h, func(s TodoState) []Todo { return s.Items })
	done := 0
	rows := make([]any, 0, len(items))
	for _, todo := range items {
		if todo.Done {
			done++
		}
		id := todo.ID
		rows = append(rows, core.C(TodoItem, core.Props{
			"todo":     todo,
			"onToggle": func() { dispatch(ToggleTodo{ID: id}) },
		}))
	}
	return core.H("section", core.Props{"class": "todos"},
		core.H("ul", nil, rows...),
		core.H("p", core.Props{"class": "summary"}, done, "/", len(items), " done"),
	)
})

// App is the demo root component.
var App = core.NewComponent("App", func(_ *core.Hooks, props core.Props) any {
	return core.H("main", nil,
		core.C(Title, core.Props{"text": props.Get("title")}),
		core.C(Panel, core.Props{"heading": "Counters"},
			core.C(Counter, core.Props{"label": "left"}),
			core.C(Counter, core.Props{"label": "right"}),
		),
		core.C(TodoList, nil),
	)
})
