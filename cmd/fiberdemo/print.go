package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/fiber/pkg/host/memory"
)

// treeStyles colors the printed host tree. Colors are dropped when the
// writer is not a terminal.
type treeStyles struct {
	header lipgloss.Style
	tag    lipgloss.Style
	attr   lipgloss.Style
	event  lipgloss.Style
	text   lipgloss.Style
	stats  lipgloss.Style
}

func newTreeStyles(w io.Writer) treeStyles {
	r := lipgloss.NewRenderer(w)
	return treeStyles{
		header: r.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		tag:   r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		attr:  r.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		event: r.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
		text:  r.NewStyle().Foreground(lipgloss.Color("#FAFAFA")),
		stats: r.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// printTree writes node and its subtree, one node per line.
func printTree(w io.Writer, title string, node *memory.Node) error {
	styles := newTreeStyles(w)
	var sb strings.Builder
	sb.WriteString(styles.header.Render(title))
	sb.WriteString("\n")
	writeNode(&sb, styles, node, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeNode(sb *strings.Builder, styles treeStyles, n *memory.Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if n.Tag == memory.TextTag {
		sb.WriteString(styles.text.Render(fmt.Sprintf("%q", n.Text)))
		sb.WriteString("\n")
		return
	}

	sb.WriteString(styles.tag.Render(n.Tag))
	for _, name := range sortedNames(n.Attrs) {
		sb.WriteString(" ")
		sb.WriteString(styles.attr.Render(fmt.Sprintf("%s=%v", name, n.Attrs[name])))
	}
	for _, event := range sortedNames(n.Listeners) {
		sb.WriteString(" ")
		sb.WriteString(styles.event.Render("on" + event))
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		writeNode(sb, styles, c, depth+1)
	}
}

func sortedNames(m map[string]any) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
