package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/fiber/pkg/host/memory"
)

// UpdateSnapshotsEnv is the environment variable that makes MatchesFile
// rewrite golden files instead of comparing against them.
const UpdateSnapshotsEnv = "FIBER_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the host tree structure.
type Snapshot struct {
	Tree *HostNode `json:"tree"`
}

// HostNode represents a node in the serialized host tree.
type HostNode struct {
	ID        string         `json:"id"`
	Tag       string         `json:"tag"`
	Text      string         `json:"text,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
	Style     map[string]any `json:"style,omitempty"`
	Listeners []string       `json:"listeners,omitempty"`
	Children  []*HostNode    `json:"children,omitempty"`
}

// CaptureSnapshot captures the current host tree.
func (t *Tester) CaptureSnapshot() *Snapshot {
	return CaptureSnapshot(t.container)
}

// CaptureSnapshot captures the host tree rooted at root.
func CaptureSnapshot(root *memory.Node) *Snapshot {
	snap := &Snapshot{}
	if root != nil {
		snap.Tree = captureHostNode(root, &tagCounter{})
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When FIBER_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-expected +actual)\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between other and this snapshot in their JSON
// form. Returns empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return cmp.Diff(strings.Split(string(b), "\n"), strings.Split(string(a), "\n"))
}

// --- Internal ---

// tagCounter assigns stable IDs like "div#0", "div#1".
type tagCounter struct {
	counts map[string]int
}

func (c *tagCounter) next(tag string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[tag]
	c.counts[tag] = n + 1
	return fmt.Sprintf("%s#%d", tag, n)
}

func captureHostNode(n *memory.Node, counter *tagCounter) *HostNode {
	node := &HostNode{
		ID:    counter.next(n.Tag),
		Tag:   n.Tag,
		Text:  n.Text,
		Attrs: serializeValues(n.Attrs),
		Style: serializeValues(n.Style),
	}
	for event := range n.Listeners {
		node.Listeners = append(node.Listeners, event)
	}
	sort.Strings(node.Listeners)
	for _, child := range n.Children {
		node.Children = append(node.Children, captureHostNode(child, counter))
	}
	return node
}

// serializeValues keeps JSON-friendly scalars and renders everything else
// with %v, so that snapshots round-trip byte for byte.
func serializeValues(values map[string]any) map[string]any {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]any, len(values))
	for name, value := range values {
		switch v := value.(type) {
		case nil, bool, string, float64:
			out[name] = v
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32:
			out[name] = fmt.Sprint(v)
		default:
			out[name] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
