package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/acolita/wildcard-mcp/internal/adapters/realfs"
	"github.com/acolita/wildcard-mcp/internal/catalog"
	"github.com/acolita/wildcard-mcp/internal/config"
	"github.com/acolita/wildcard-mcp/internal/ports"
	"github.com/urfave/cli/v3"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "validate the config and category files and print a summary",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "re-check whenever the config or a category file changes",
			},
		},
		Action: checkAction,
	}
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	fsys := realfs.New()
	out := cmd.Root().Writer

	path, err := resolveConfigPath(cmd, fsys)
	if err != nil {
		return err
	}

	if !cmd.Bool("watch") {
		cfg, err := config.Load(path, fsys)
		if err != nil {
			return err
		}
		return check(out, cfg, fsys)
	}

	// The watcher reports from its own goroutine.
	out = &syncWriter{w: out}

	watcher, err := config.NewWatcher(path, func(cfg *config.Config, err error) {
		var buf bytes.Buffer
		fmt.Fprintln(&buf, "--- change detected")
		report(&buf, cfg, err, fsys)
		out.Write(buf.Bytes())
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	var buf bytes.Buffer
	if cfg := watcher.Config(); cfg != nil {
		report(&buf, cfg, nil, fsys)
	} else {
		_, err := config.Load(path, fsys)
		report(&buf, nil, err, fsys)
	}
	fmt.Fprintf(&buf, "watching %s, press Ctrl+C to stop\n", path)
	out.Write(buf.Bytes())

	<-ctx.Done()
	return nil
}

// report prints a check result in watch mode, where errors are shown and
// the loop keeps going.
func report(w io.Writer, cfg *config.Config, err error, fsys ports.FileSystem) {
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	if cfg == nil {
		return
	}
	if err := check(w, cfg, fsys); err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
	}
}

// check loads every category of cfg and prints one line per category.
func check(w io.Writer, cfg *config.Config, fsys ports.FileSystem) error {
	cat, err := catalog.Load(cfg, cfg.Dir(), fsys)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "config %s (%s)\n", cfg.Path, cfg.Format)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tITEMS\tSOURCE")
	for _, name := range cat.Names() {
		c, _ := cat.Lookup(name)
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name(), c.Len(), c.Source())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "ok: %d categories, %d items\n", cat.Len(), cat.TotalItems())
	return nil
}

// syncWriter serializes writes so that each report reaches w in one piece.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
