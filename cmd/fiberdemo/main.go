// Command fiberdemo renders a small application into the in-memory host,
// drives a few updates through the scheduler loop and prints the resulting
// host tree.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/config"
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host/memory"
	"github.com/go-drift/fiber/pkg/logging"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// maxFrames bounds each flush of the loop.
const maxFrames = 1000

type demoOptions struct {
	configPath string
	clicks     int
	todos      int
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &demoOptions{}
	cmd := &cobra.Command{
		Use:   "fiberdemo",
		Short: "Render a sample app through the fiber engine",
		Long: `Render a sample application (a title, a panel of counters and a
store-backed todo list) into the in-memory host. The demo clicks the
counters, dispatches todos through a thunk, toggles the first todo and
prints the host tree before and after.`,
		Version:       core.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to "+config.FileName+" (default: look in the working directory)")
	cmd.Flags().IntVar(&opts.clicks, "clicks", 3, "number of counter clicks to simulate")
	cmd.Flags().IntVar(&opts.todos, "todos", 3, "number of todos to add")
	return cmd
}

func resolveConfig(path string) (*config.Resolved, error) {
	if path == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		return config.Resolve(dir)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(filepath.Dir(path))
}

func runDemo(w io.Writer, opts *demoOptions) error {
	if opts.clicks < 0 || opts.todos < 0 {
		return fmt.Errorf("--clicks and --todos must not be negative")
	}

	resolved, err := resolveConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger, err := resolved.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	prev := logging.SetLogger(logger)
	defer logging.SetLogger(prev)

	host := memory.New()
	container := host.NewContainer("app")
	root := core.NewRoot(host, container, resolved.RootOptions()...)
	loop := scheduler.NewLoop(resolved.LoopOptions()...)
	loop.Attach(root)
	defer loop.Detach(root)
	defer root.Unmount()

	todos := newTodoStore()
	root.Render(core.C(App, core.Props{"title": resolved.AppName}), todos)
	if err := loop.Flush(maxFrames); err != nil {
		return err
	}
	if err := printTree(w, "mounted", container); err != nil {
		return err
	}

	buttons := container.FindAll(func(n *memory.Node) bool { return n.Tag == "button" })
	for i := 0; i < opts.clicks && len(buttons) > 0; i++ {
		buttons[i%len(buttons)].Fire("click", nil)
		if err := loop.Flush(maxFrames); err != nil {
			return err
		}
	}

	loop.Post(func() { todos.Dispatch(addTodos(opts.todos)) })
	if err := loop.Flush(maxFrames); err != nil {
		return err
	}
	if first := container.Find("li"); first != nil {
		first.Fire("click", nil)
		if err := loop.Flush(maxFrames); err != nil {
			return err
		}
	}

	if err := printTree(w, "after updates", container); err != nil {
		return err
	}

	stats := root.Stats()
	timeline := loop.Trace().Snapshot()
	logger.Info("demo finished",
		zap.String("app", resolved.AppName),
		zap.Int("frames", len(timeline.Samples)),
		zap.Int("commits", stats.Commits),
		zap.Int("discards", stats.Discards),
	)
	summary := fmt.Sprintf("frames=%d commits=%d units=%d discards=%d dropped=%d",
		len(timeline.Samples), stats.Commits, stats.Units, stats.Discards, timeline.DroppedFrames)
	_, err = fmt.Fprintln(w, newTreeStyles(w).stats.Render(summary))
	return err
}
