package testing

import "fmt"

// Tap fires a click on the first node matched by finder.
func (t *Tester) Tap(finder Finder) error {
	return t.Fire(finder, "click", nil)
}

// EnterText fires an input event carrying text on the first node matched
// by finder.
func (t *Tester) EnterText(finder Finder, text string) error {
	return t.Fire(finder, "input", text)
}

// Fire dispatches event to the first node matched by finder. The event
// bubbles to ancestors until a node with a listener for it is found.
func (t *Tester) Fire(finder Finder, event string, detail any) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("Fire(%s): finder matched no nodes: %s", event, finder.Description())
	}
	for n := result.First(); n != nil; n = n.Parent {
		if n.Fire(event, detail) {
			return nil
		}
	}
	return fmt.Errorf("Fire(%s): no listener on %s or its ancestors", event, finder.Description())
}
