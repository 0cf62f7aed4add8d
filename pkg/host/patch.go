// Package host holds the prop patch rules shared by host renderers.
//
// A host renderer receives the previous and next props of an instance and
// must remove props that disappeared and set props whose value changed.
// Diff computes that change set; the classification helpers tell apart the
// props with special meaning: event listeners ("on" prefix), the "style"
// map, the "ref" binding and "children", which only drives tree structure.
package host

import (
	"slices"
	"strings"

	"github.com/go-drift/fiber/pkg/core"
)

const (
	// StyleProp holds a map of style properties.
	StyleProp = "style"
	// RefProp holds a *core.Ref bound to the host instance.
	RefProp = "ref"
)

// Change is one prop-level difference between two prop sets.
type Change struct {
	Name    string
	Prev    any
	Next    any
	Removed bool
}

// Diff returns the changes turning prev into next, sorted by prop name.
// Props present before and absent after are Removed; props new or holding a
// value that is not core.Identical to the previous one are set. The
// children prop never produces a change.
func Diff(prev, next core.Props) []Change {
	var changes []Change
	for name, value := range prev {
		if name == core.ChildrenProp {
			continue
		}
		if _, ok := next[name]; !ok {
			changes = append(changes, Change{Name: name, Prev: value, Removed: true})
		}
	}
	for name, value := range next {
		if name == core.ChildrenProp {
			continue
		}
		previous, existed := prev[name]
		if existed && core.Identical(previous, value) {
			continue
		}
		changes = append(changes, Change{Name: name, Prev: previous, Next: value})
	}
	slices.SortFunc(changes, func(a, b Change) int {
		return strings.Compare(a.Name, b.Name)
	})
	return changes
}

// IsEvent reports whether name is an event listener prop such as "onClick".
func IsEvent(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "on")
}

// EventName returns the host event name of a listener prop: "onClick"
// becomes "click".
func EventName(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, "on"))
}

// Style returns the style map held by a style prop value, or nil.
func Style(value any) map[string]any {
	switch s := value.(type) {
	case map[string]any:
		return s
	case core.Props:
		return s
	case map[string]string:
		out := make(map[string]any, len(s))
		for k, v := range s {
			out[k] = v
		}
		return out
	default:
		return nil
	}
}
