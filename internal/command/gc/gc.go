package gc

import (
	"flag"
	"fmt"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/middleware"
	"github.com/motefs/mote/internal/storage/gc"
)

type Command struct {
	dryRun  bool
	verbose bool
}

func (c *Command) Name() string      { return "gc" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "gc [options]" }
func (c *Command) Brief() string     { return "Delete objects no snapshot references" }
func (c *Command) Help() string {
	return `Garbage-collect the object store.

Marks every object referenced by any snapshot, then deletes the rest.

Options:
      --dry-run    Report what would be deleted without deleting.
  -v               Verbose progress.

Examples:
  mote gc
  mote gc --dry-run -v`
}

func (c *Command) Subcommands() []cli.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&c.dryRun, "dry-run", false, "report without deleting")
	fs.BoolVar(&c.verbose, "v", false, "verbose progress")
}

func (c *Command) Run(ctx *cli.Context) error {
	ws, err := ctx.Env.OpenWorkspace()
	if err != nil {
		return err
	}

	if c.verbose {
		fmt.Println("-> Starting garbage collection...")
		fmt.Println("  Marking referenced objects...")
	}

	orphans, err := gc.Unreferenced(ws.Snaps, ws.Objects)
	if err != nil {
		return err
	}

	if c.verbose {
		total, err := ws.Objects.List()
		if err == nil {
			fmt.Printf("  Total objects: %d, Unreferenced: %d\n", len(total), len(orphans))
		}
	}

	if len(orphans) == 0 {
		fmt.Println("✓ No unreferenced objects found")
		return nil
	}

	if c.dryRun {
		fmt.Printf("dry-run Would delete %d unreferenced object(s)\n", len(orphans))
		if c.verbose {
			for _, hash := range orphans {
				fmt.Printf("  Would delete: %s\n", hash)
			}
		}
		return nil
	}

	stats := gc.Sweep(ws.Objects, orphans)
	fmt.Printf("✓ Deleted %d object(s), reclaimed %s\n",
		stats.DeletedObjects, formatSize(stats.DeletedBytes))
	return nil
}

func formatSize(bytes int64) string {
	kb := float64(bytes) / 1024.0
	if kb < 1024.0 {
		return fmt.Sprintf("%.2f KB", kb)
	}
	return fmt.Sprintf("%.2f MB", kb/1024.0)
}

func init() {
	cli.RegisterCommand(
		cli.ApplyMiddlewares(
			&Command{},
			middleware.WithStorageCheck(),
		),
	)
}
