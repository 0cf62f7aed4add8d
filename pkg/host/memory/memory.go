// Package memory implements core.HostRenderer over an in-memory node tree.
//
// It applies the same patch rules a DOM renderer would (attributes,
// listeners, style maps, ref bindings) and records every call it receives,
// which makes it the renderer of choice for tests, snapshots and the demo.
package memory

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host"
)

// TextTag is the tag of text nodes.
const TextTag = "#text"

// OpKind identifies a recorded renderer call.
type OpKind uint8

const (
	// OpCreate records CreateHostInstance.
	OpCreate OpKind = iota + 1
	// OpAttach records AttachChild.
	OpAttach
	// OpDetach records DetachChild.
	OpDetach
	// OpPatch records ApplyHostPatch.
	OpPatch
)

func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpAttach:
		return "attach"
	case OpDetach:
		return "detach"
	case OpPatch:
		return "patch"
	default:
		return "unknown"
	}
}

// Op is one recorded renderer call.
type Op struct {
	Kind OpKind
	// Node is the ID of the instance created, attached, detached or patched.
	Node int
	// Parent is the ID of the parent for attach and detach.
	Parent int
	// Tag is the tag of Node.
	Tag string
	// Changed lists the props a patch changed.
	Changed []string
}

// IsMutation reports whether the op changed the attached tree: attaches,
// detaches and patches that changed at least one prop.
func (o Op) IsMutation() bool {
	switch o.Kind {
	case OpAttach, OpDetach:
		return true
	case OpPatch:
		return len(o.Changed) > 0
	default:
		return false
	}
}

func (o Op) String() string {
	switch o.Kind {
	case OpAttach, OpDetach:
		return fmt.Sprintf("%s %s#%d -> #%d", o.Kind, o.Tag, o.Node, o.Parent)
	case OpPatch:
		return fmt.Sprintf("%s %s#%d [%s]", o.Kind, o.Tag, o.Node, strings.Join(o.Changed, ","))
	default:
		return fmt.Sprintf("%s %s#%d", o.Kind, o.Tag, o.Node)
	}
}

// Event is passed to listeners registered with an "on*" prop.
type Event struct {
	Type   string
	Target *Node
	Detail any
}

// Node is an in-memory host instance.
type Node struct {
	ID        int
	Tag       string
	Text      string
	Attrs     map[string]any
	Style     map[string]any
	Listeners map[string]any
	Children  []*Node
	Parent    *Node
}

// Renderer is an in-memory core.HostRenderer.
type Renderer struct {
	nextID int
	ops    []Op
}

var _ core.HostRenderer = (*Renderer)(nil)

// New creates a renderer.
func New() *Renderer {
	return &Renderer{}
}

// NewContainer creates a detached node to render into.
func (r *Renderer) NewContainer(tag string) *Node {
	return r.newNode(tag)
}

func (r *Renderer) newNode(tag string) *Node {
	r.nextID++
	return &Node{
		ID:        r.nextID,
		Tag:       tag,
		Attrs:     map[string]any{},
		Style:     map[string]any{},
		Listeners: map[string]any{},
	}
}

// Ops returns the recorded calls.
func (r *Renderer) Ops() []Op {
	return slices.Clone(r.ops)
}

// Mutations returns the recorded calls that changed the attached tree.
func (r *Renderer) Mutations() []Op {
	var out []Op
	for _, op := range r.ops {
		if op.IsMutation() {
			out = append(out, op)
		}
	}
	return out
}

// ResetOps clears the recorded calls.
func (r *Renderer) ResetOps() {
	r.ops = nil
}

// CreateHostInstance creates a detached node and applies its initial props.
func (r *Renderer) CreateHostInstance(t core.Type, props core.Props) core.HostInstance {
	var n *Node
	switch t.Kind() {
	case core.TypeText:
		n = r.newNode(TextTag)
	default:
		n = r.newNode(t.Tag())
	}
	r.ops = append(r.ops, Op{Kind: OpCreate, Node: n.ID, Tag: n.Tag})
	n.apply(host.Diff(nil, props))
	return n
}

// ApplyHostPatch applies the prop differences between prev and next.
func (r *Renderer) ApplyHostPatch(instance core.HostInstance, prev, next core.Props) {
	n := mustNode(instance)
	changes := host.Diff(prev, next)
	names := make([]string, len(changes))
	for i, c := range changes {
		names[i] = c.Name
	}
	r.ops = append(r.ops, Op{Kind: OpPatch, Node: n.ID, Tag: n.Tag, Changed: names})
	n.apply(changes)
}

// AttachChild appends child to parent, moving it if already attached.
func (r *Renderer) AttachChild(parent, child core.HostInstance) {
	p, c := mustNode(parent), mustNode(child)
	if c.Parent != nil {
		c.Parent.remove(c)
	}
	p.Children = append(p.Children, c)
	c.Parent = p
	r.ops = append(r.ops, Op{Kind: OpAttach, Node: c.ID, Parent: p.ID, Tag: c.Tag})
}

// DetachChild removes child from parent.
func (r *Renderer) DetachChild(parent, child core.HostInstance) {
	p, c := mustNode(parent), mustNode(child)
	p.remove(c)
	r.ops = append(r.ops, Op{Kind: OpDetach, Node: c.ID, Parent: p.ID, Tag: c.Tag})
}

func mustNode(instance core.HostInstance) *Node {
	n, ok := instance.(*Node)
	if !ok {
		panic(fmt.Sprintf("memory: host instance is %T, not *memory.Node", instance))
	}
	return n
}

func (n *Node) remove(child *Node) {
	if i := slices.Index(n.Children, child); i >= 0 {
		n.Children = slices.Delete(n.Children, i, i+1)
		child.Parent = nil
	}
}

func (n *Node) apply(changes []host.Change) {
	for _, c := range changes {
		switch {
		case c.Name == core.NodeValueProp:
			if c.Removed {
				n.Text = ""
			} else {
				n.Text = fmt.Sprint(c.Next)
			}
		case host.IsEvent(c.Name):
			event := host.EventName(c.Name)
			if c.Removed || c.Next == nil {
				delete(n.Listeners, event)
			} else {
				n.Listeners[event] = c.Next
			}
		case c.Name == host.StyleProp:
			for key := range host.Style(c.Prev) {
				delete(n.Style, key)
			}
			if !c.Removed {
				for key, value := range host.Style(c.Next) {
					n.Style[key] = value
				}
			}
		case c.Name == host.RefProp:
			if prev, ok := c.Prev.(*core.Ref); ok && prev.Current == n {
				prev.Current = nil
			}
			if ref, ok := c.Next.(*core.Ref); ok && !c.Removed {
				ref.Current = n
			}
		default:
			if c.Removed {
				delete(n.Attrs, c.Name)
			} else {
				n.Attrs[c.Name] = c.Next
			}
		}
	}
}

// Fire invokes the listener registered for event on n. Listeners may be
// func(), func(Event), func(*Event) or func(any), the latter receiving
// detail. It reports whether a listener ran.
func (n *Node) Fire(event string, detail any) bool {
	listener, ok := n.Listeners[event]
	if !ok {
		return false
	}
	ev := Event{Type: event, Target: n, Detail: detail}
	switch fn := listener.(type) {
	case func():
		fn()
	case func(Event):
		fn(ev)
	case func(*Event):
		fn(&ev)
	case func(any):
		fn(detail)
	default:
		return false
	}
	return true
}

// TextContent returns the concatenated text of n's subtree.
func (n *Node) TextContent() string {
	if n.Tag == TextTag {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// FindAll returns the nodes of n's subtree (n excluded) matching predicate,
// in document order.
func (n *Node) FindAll(predicate func(*Node) bool) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if predicate(c) {
			out = append(out, c)
		}
		out = append(out, c.FindAll(predicate)...)
	}
	return out
}

// Find returns the first node of n's subtree with the given tag, or nil.
func (n *Node) Find(tag string) *Node {
	if found := n.FindAll(func(c *Node) bool { return c.Tag == tag }); len(found) > 0 {
		return found[0]
	}
	return nil
}

// String renders n's subtree as markup. Attributes are sorted; listeners
// appear as on<event> without a value.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n.Tag == TextTag {
		sb.WriteString(n.Text)
		return
	}
	sb.WriteString("<")
	sb.WriteString(n.Tag)
	for _, name := range sortedKeys(n.Attrs) {
		fmt.Fprintf(sb, " %s=%q", name, fmt.Sprint(n.Attrs[name]))
	}
	if len(n.Style) > 0 {
		parts := make([]string, 0, len(n.Style))
		for _, key := range sortedKeys(n.Style) {
			parts = append(parts, fmt.Sprintf("%s:%v", key, n.Style[key]))
		}
		fmt.Fprintf(sb, " style=%q", strings.Join(parts, ";"))
	}
	for _, event := range sortedKeys(n.Listeners) {
		sb.WriteString(" on")
		sb.WriteString(event)
	}
	sb.WriteString(">")
	for _, c := range n.Children {
		c.write(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteString(">")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
