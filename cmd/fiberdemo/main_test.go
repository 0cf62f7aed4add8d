package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fiber/pkg/config"
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host/memory"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_RendersAndUpdates(t *testing.T) {
	path := writeConfig(t, "app:\n  name: demo\nlog:\n  level: error\n")

	out, err := runCommand(t, "--config", path, "--clicks", "3", "--todos", "2")
	require.NoError(t, err)

	mounted, updated, ok := strings.Cut(out, "after updates")
	require.True(t, ok, out)

	assert.Contains(t, mounted, `"demo"`)
	assert.Contains(t, mounted, `"left: 0"`)
	assert.Contains(t, mounted, `"0/0 done"`)
	assert.NotContains(t, mounted, "task")

	assert.Contains(t, updated, `"left: 2"`)
	assert.Contains(t, updated, `"right: 1"`)
	assert.Contains(t, updated, `"[x] task 1"`)
	assert.Contains(t, updated, `"[ ] task 2"`)
	assert.Contains(t, updated, `"1/2 done"`)
	assert.Contains(t, updated, "commits=")
}

func TestRootCommand_RejectsNegativeCounts(t *testing.T) {
	path := writeConfig(t, "log:\n  level: error\n")
	_, err := runCommand(t, "--config", path, "--todos", "-1")
	assert.Error(t, err)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "engine:\n  version: v9.0.0\n")
	_, err := runCommand(t, "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine.version")
}

func TestReduceTodos_DoesNotMutate(t *testing.T) {
	s := newTodoStore()
	s.Dispatch(addTodos(2))
	before := s.GetState().Items

	s.Dispatch(ToggleTodo{ID: 1})
	after := s.GetState().Items

	assert.False(t, before[0].Done)
	assert.True(t, after[0].Done)
	assert.Equal(t, "task 2", after[1].Title)
}

func TestPrintTree(t *testing.T) {
	host := memory.New()
	container := host.NewContainer("app")
	button := host.CreateHostInstance(core.HostTag("button"), core.Props{"class": "counter", "onClick": func() {}})
	text := host.CreateHostInstance(core.TextType, core.Props{core.NodeValueProp: "hi"})
	host.AttachChild(container, button)
	host.AttachChild(button, text)

	var out bytes.Buffer
	require.NoError(t, printTree(&out, "tree", container))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "tree")
	assert.Equal(t, "app", lines[1])
	assert.Equal(t, "  button class=counter onclick", lines[2])
	assert.Equal(t, `    "hi"`, lines[3])
}
