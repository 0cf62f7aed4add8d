package core

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	// ChildrenProp is the prop holding an element's children.
	ChildrenProp = "children"
	// NodeValueProp is the prop holding a text element's content.
	NodeValueProp = "nodeValue"
)

// TypeKind distinguishes the variants of Type.
type TypeKind uint8

const (
	// TypeHost is a host tag such as "div".
	TypeHost TypeKind = iota + 1
	// TypeComponent is a function component.
	TypeComponent
	// TypeText is a text leaf.
	TypeText
)

func (k TypeKind) String() string {
	switch k {
	case TypeHost:
		return "host"
	case TypeComponent:
		return "component"
	case TypeText:
		return "text"
	default:
		return "invalid"
	}
}

// Type identifies what an element renders: a host tag, a component or text.
// Types are comparable; two component types are equal only when they point
// at the same *Component.
type Type struct {
	kind      TypeKind
	tag       string
	component *Component
}

// TextType is the type of text leaves.
var TextType = Type{kind: TypeText}

// HostTag returns the type of host elements with the given tag.
func HostTag(tag string) Type {
	return Type{kind: TypeHost, tag: tag}
}

// ComponentType returns the type of elements rendered by c.
func ComponentType(c *Component) Type {
	return Type{kind: TypeComponent, component: c}
}

// Kind reports which variant t is.
func (t Type) Kind() TypeKind { return t.kind }

// Tag returns the host tag, or "" for non-host types.
func (t Type) Tag() string { return t.tag }

// Component returns the component, or nil for non-component types.
func (t Type) Component() *Component { return t.component }

// IsZero reports whether t is the zero Type.
func (t Type) IsZero() bool { return t.kind == 0 }

func (t Type) String() string {
	switch t.kind {
	case TypeHost:
		return t.tag
	case TypeComponent:
		if t.component != nil && t.component.Name != "" {
			return t.component.Name
		}
		return "Component"
	case TypeText:
		return "#text"
	default:
		return "<invalid>"
	}
}

// RenderFunc evaluates a component. It returns an Element, a slice of
// elements (or any nesting of slices), a primitive rendered as text, or nil.
type RenderFunc func(h *Hooks, props Props) any

// Component is a function component. Its pointer is its identity: elements
// created from the same *Component reconcile as the same type.
type Component struct {
	Name   string
	Render RenderFunc
}

// NewComponent creates a named component.
func NewComponent(name string, render RenderFunc) *Component {
	return &Component{Name: name, Render: render}
}

// Fragment renders its children without a host instance of its own.
var Fragment = NewComponent("Fragment", func(_ *Hooks, props Props) any {
	return props.Children()
})

// Props are the properties of an element. Props attached to an element must
// not be mutated after the element is created.
type Props map[string]any

// Children returns the normalized children stored under ChildrenProp.
func (p Props) Children() []Element {
	children, _ := p[ChildrenProp].([]Element)
	return children
}

// Get returns the prop value for name.
func (p Props) Get(name string) any {
	return p[name]
}

// NodeValue returns the text content of a text element.
func (p Props) NodeValue() string {
	s, _ := p[NodeValueProp].(string)
	return s
}

// Element is an immutable description of a node to render.
type Element struct {
	Type  Type
	Props Props
}

// IsZero reports whether e is the zero Element.
func (e Element) IsZero() bool { return e.Type.IsZero() }

func (e Element) String() string {
	if e.Type.Kind() == TypeText {
		return fmt.Sprintf("%q", e.Props.NodeValue())
	}
	children := e.Props.Children()
	if len(children) == 0 {
		return "<" + e.Type.String() + "/>"
	}
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = child.String()
	}
	return "<" + e.Type.String() + ">" + strings.Join(parts, "") + "</" + e.Type.String() + ">"
}

// CreateElement builds an element. Props are copied. Children may be
// elements, primitives (wrapped as text, adjacent primitives merged) or
// arbitrarily nested slices of those; nil and bool children are skipped.
func CreateElement(t Type, props Props, children ...any) Element {
	merged := make(Props, len(props)+1)
	for name, value := range props {
		if name == ChildrenProp {
			continue
		}
		merged[name] = value
	}
	if t.Kind() != TypeText {
		merged[ChildrenProp] = normalizeChildren(nil, children, true)
	}
	return Element{Type: t, Props: merged}
}

// H creates a host element.
func H(tag string, props Props, children ...any) Element {
	return CreateElement(HostTag(tag), props, children...)
}

// C creates a component element.
func C(c *Component, props Props, children ...any) Element {
	return CreateElement(ComponentType(c), props, children...)
}

// Text creates a text element.
func Text(value string) Element {
	return Element{Type: TextType, Props: Props{NodeValueProp: value}}
}

// flatten turns a render result into a flat element sequence.
func flatten(node any) []Element {
	return normalizeChildren(nil, []any{node}, false)
}

func normalizeChildren(acc []Element, children []any, mergeText bool) []Element {
	for _, child := range children {
		acc = appendChild(acc, child, mergeText)
	}
	if acc == nil {
		acc = []Element{}
	}
	return acc
}

func appendChild(acc []Element, child any, mergeText bool) []Element {
	switch c := child.(type) {
	case nil, bool:
		return acc
	case Element:
		if c.IsZero() {
			return acc
		}
		return append(acc, c)
	case *Element:
		if c == nil || c.IsZero() {
			return acc
		}
		return append(acc, *c)
	case []Element:
		return append(acc, c...)
	case []any:
		for _, nested := range c {
			acc = appendChild(acc, nested, mergeText)
		}
		return acc
	case string:
		return appendText(acc, c, mergeText)
	case fmt.Stringer:
		return appendText(acc, c.String(), mergeText)
	}

	v := reflect.ValueOf(child)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			acc = appendChild(acc, v.Index(i).Interface(), mergeText)
		}
		return acc
	default:
		return appendText(acc, fmt.Sprint(child), mergeText)
	}
}

func appendText(acc []Element, text string, mergeText bool) []Element {
	if n := len(acc); mergeText && n > 0 && acc[n-1].Type.Kind() == TypeText {
		acc[n-1] = Text(acc[n-1].Props.NodeValue() + text)
		return acc
	}
	return append(acc, Text(text))
}
