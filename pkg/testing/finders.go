package testing

import (
	"fmt"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host/memory"
)

// Finder locates nodes in the host tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *memory.Node) []*memory.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*memory.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *memory.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *memory.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *memory.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*memory.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// ByTag finds element nodes with the given tag.
func ByTag(tag string) Finder {
	return predicateFinder{
		match: func(n *memory.Node) bool { return n.Tag == tag },
		desc:  fmt.Sprintf("ByTag(%q)", tag),
	}
}

// ByText finds element nodes whose text content equals text exactly.
// Only the innermost matching nodes are returned.
func ByText(text string) Finder {
	return predicateFinder{
		match: func(n *memory.Node) bool {
			if n.Tag == memory.TextTag || n.TextContent() != text {
				return false
			}
			for _, c := range n.Children {
				if c.Tag != memory.TextTag && c.TextContent() == text {
					return false
				}
			}
			return true
		},
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByAttr finds nodes whose attribute name holds a value identical to value.
func ByAttr(name string, value any) Finder {
	return predicateFinder{
		match: func(n *memory.Node) bool {
			v, ok := n.Attrs[name]
			return ok && core.Identical(v, value)
		},
		desc: fmt.Sprintf("ByAttr(%s=%v)", name, value),
	}
}

// ByPredicate finds nodes for which fn returns true.
func ByPredicate(fn func(*memory.Node) bool, desc string) Finder {
	return predicateFinder{match: fn, desc: "ByPredicate(" + desc + ")"}
}

type predicateFinder struct {
	match func(*memory.Node) bool
	desc  string
}

func (f predicateFinder) Evaluate(root *memory.Node) []*memory.Node {
	if root == nil {
		return nil
	}
	return root.FindAll(f.match)
}

func (f predicateFinder) Description() string { return f.desc }
