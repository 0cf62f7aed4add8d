package core

import "fmt"

// fakeNode is the host instance of fakeHost.
type fakeNode struct {
	tag      string
	props    Props
	children []*fakeNode
}

// fakeHost is a minimal HostRenderer recording the calls it receives.
type fakeHost struct {
	calls []string
}

func (h *fakeHost) CreateHostInstance(t Type, props Props) HostInstance {
	h.calls = append(h.calls, "create "+t.String())
	return &fakeNode{tag: t.String(), props: props}
}

func (h *fakeHost) ApplyHostPatch(instance HostInstance, _, next Props) {
	n := instance.(*fakeNode)
	n.props = next
	h.calls = append(h.calls, "patch "+n.tag)
}

func (h *fakeHost) AttachChild(parent, child HostInstance) {
	p, c := parent.(*fakeNode), child.(*fakeNode)
	p.children = append(p.children, c)
	h.calls = append(h.calls, fmt.Sprintf("attach %s>%s", p.tag, c.tag))
}

func (h *fakeHost) DetachChild(parent, child HostInstance) {
	p, c := parent.(*fakeNode), child.(*fakeNode)
	for i, n := range p.children {
		if n == c {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	h.calls = append(h.calls, fmt.Sprintf("detach %s>%s", p.tag, c.tag))
}

func newFakeRoot() (*Root, *fakeHost, *fakeNode) {
	host := &fakeHost{}
	container := &fakeNode{tag: "container"}
	return NewRoot(host, container), host, container
}
