package testing

import (
	"testing"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host/memory"
	"github.com/go-drift/fiber/pkg/testing/internal/testbed"
)

func TestByTag(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpElement(core.C(testbed.Counter, core.Props{"initial": 7}), nil)

	result := tester.Find(ByTag("button"))
	if !result.Exists() {
		t.Fatal("expected to find button")
	}
	if got := result.First().TextContent(); got != "7" {
		t.Errorf("expected text '7', got %q", got)
	}
}

func TestByText(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpElement(core.H("div", nil, core.C(testbed.Counter, core.Props{"initial": 42})), nil)

	result := tester.Find(ByText("42"))
	if result.Count() != 1 {
		t.Fatalf("expected exactly the innermost match, got %d", result.Count())
	}
	if result.First().Tag != "button" {
		t.Errorf("expected button, got %s", result.First().Tag)
	}
	if tester.Find(ByText("99")).Exists() {
		t.Error("should not find text '99'")
	}
}

func TestByAttr(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpElement(core.H("ul", nil,
		core.H("li", core.Props{"data-id": 1}),
		core.H("li", core.Props{"data-id": 2}),
	), nil)

	if got := tester.Find(ByAttr("data-id", 2)).Count(); got != 1 {
		t.Errorf("expected 1 match, got %d", got)
	}
	if tester.Find(ByAttr("data-id", "2")).Exists() {
		t.Error("expected typed comparison")
	}
}

func TestByPredicate(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpElement(core.H("div", nil, core.H("a", nil), core.H("b", nil), core.H("a", nil)), nil)

	result := tester.Find(ByPredicate(func(n *memory.Node) bool { return n.Tag == "a" }, "anchors"))
	if result.Count() != 2 {
		t.Errorf("expected 2 anchors, got %d", result.Count())
	}
	if result.At(1) == result.At(0) {
		t.Error("expected distinct nodes")
	}
}

func TestFinderResult_Empty(t *testing.T) {
	tester := NewTesterWithT(t)
	result := tester.Find(ByTag("missing"))

	if result.FirstOrNil() != nil {
		t.Error("expected nil for empty result")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected First to panic on empty result")
		}
	}()
	result.First()
}
