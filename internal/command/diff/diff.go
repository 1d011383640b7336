package diff

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/diff"
	"github.com/motefs/mote/internal/middleware"
	"github.com/motefs/mote/internal/storage/snapshot"
)

type Command struct {
	nameOnly bool
	unified  int
	output   string
}

func (c *Command) Name() string      { return "diff" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "diff [options] [snapshot-id] [snapshot-id2]" }
func (c *Command) Brief() string     { return "Compare snapshots or a snapshot against the working tree" }
func (c *Command) Help() string {
	return `Compare file states.

With no arguments, compares the latest snapshot against the working tree.
With one id, compares that snapshot against the working tree. With two ids,
compares the two snapshots.

Options:
      --name-only       List changed paths with their status (A/M/D) only.
  -U <n>                Render unified diffs with n context lines instead of
                        the default changed-lines format.
  -o <file>             Write the diff to a file instead of stdout.

Examples:
  mote diff
  mote diff a1b2c3d
  mote diff a1b2c3d e5f6a7b
  mote diff --name-only
  mote diff -U 3 -o changes.patch`
}

func (c *Command) Subcommands() []cli.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&c.nameOnly, "name-only", false, "list changed paths only")
	fs.IntVar(&c.unified, "U", -1, "unified diff context lines")
	fs.StringVar(&c.output, "o", "", "write output to file")
}

func (c *Command) Run(ctx *cli.Context) error {
	ws, err := ctx.Env.OpenWorkspace()
	if err != nil {
		return err
	}

	var fromID, toID string
	if len(ctx.Args) > 0 {
		fromID = ctx.Args[0]
	}
	if len(ctx.Args) > 1 {
		toID = ctx.Args[1]
	}

	from, err := c.fromSnapshot(ws, fromID)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if c.output != "" {
		f, err := os.Create(c.output)
		if err != nil {
			return fmt.Errorf("create %q: %w", c.output, err)
		}
		defer f.Close()
		out = f
	}

	engine := &diff.Engine{Objects: ws.Objects}
	fromManifest := from.Manifest()
	var toManifest diff.Manifest
	var toLabel string

	if toID != "" {
		to, err := ws.Snaps.Load(toID)
		if err != nil {
			return err
		}
		toManifest = to.Manifest()
		toLabel = to.ShortID()
	} else {
		toManifest = c.worktreeManifest(ws, fromManifest)
		toLabel = "working directory"
		engine.WorktreeRoot = ws.Root
	}

	fmt.Fprintf(out, "Comparing %s -> %s\n\n", from.ShortID(), toLabel)

	for _, d := range diff.Compute(fromManifest, toManifest) {
		if c.nameOnly {
			fmt.Fprintf(out, "%s\t%s\n", d.Status, d.Path)
			continue
		}
		if c.unified >= 0 {
			err = engine.WriteUnified(out, d, c.unified)
		} else {
			err = engine.WriteLineDiff(out, d)
		}
		if err != nil {
			return err
		}
	}

	if c.output != "" {
		fmt.Printf("Diff written to %s\n", c.output)
	}
	return nil
}

// fromSnapshot resolves the base snapshot, defaulting to the latest one.
func (c *Command) fromSnapshot(ws *cli.Workspace, id string) (*snapshot.Snapshot, error) {
	if id != "" {
		return ws.Snaps.Load(id)
	}
	latest, err := ws.Snaps.Latest()
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, errors.New("no snapshots found")
	}
	return latest, nil
}

// worktreeManifest hashes the union of the snapshot's paths and the files
// currently on disk, so both deletions and new files surface.
func (c *Command) worktreeManifest(ws *cli.Workspace, from diff.Manifest) diff.Manifest {
	seen := make(map[string]struct{}, len(from))
	var paths []string
	for p := range from {
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	if walked, err := ws.Filter.WalkFiles(ws.Root); err == nil {
		for _, p := range walked {
			if _, ok := seen[p]; !ok {
				paths = append(paths, p)
			}
		}
	}
	sort.Strings(paths)

	return diff.WorktreeManifest(ws.Root, paths)
}

func init() {
	cli.RegisterCommand(
		cli.ApplyMiddlewares(
			&Command{},
			middleware.WithStorageCheck(),
		),
	)
}
