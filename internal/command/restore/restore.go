package restore

import (
	"errors"
	"flag"
	"fmt"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/middleware"
	"github.com/motefs/mote/internal/restore"
)

type Command struct {
	file   string
	force  bool
	dryRun bool
}

func (c *Command) Name() string      { return "restore" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "restore [options] <snapshot-id>" }
func (c *Command) Brief() string     { return "Restore files from a snapshot" }
func (c *Command) Help() string {
	return `Restore files from a snapshot.

A whole-snapshot restore first takes a backup snapshot of the current
working tree, then writes every file from the target snapshot. Files with
local modifications are skipped unless --force is given.

Options:
      --file <path>     Restore a single file only (no backup is taken).
      --force           Overwrite locally modified files and skip the backup.
      --dry-run         Show what would be restored without writing.

Examples:
  mote restore a1b2c3d
  mote restore --file src/main.go a1b2c3d
  mote restore --force --dry-run a1b2c3d`
}

func (c *Command) Subcommands() []cli.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.file, "file", "", "restore a single file")
	fs.BoolVar(&c.force, "force", false, "overwrite local modifications")
	fs.BoolVar(&c.dryRun, "dry-run", false, "report without writing")
}

func (c *Command) Run(ctx *cli.Context) error {
	if len(ctx.Args) == 0 {
		return errors.New("snapshot id required")
	}

	ws, err := ctx.Env.OpenWorkspace()
	if err != nil {
		return err
	}

	engine := &restore.Engine{
		Root:    ws.Root,
		Objects: ws.Objects,
		Snaps:   ws.Snaps,
		Filter:  ws.Filter,
		Index:   ws.Index,
	}

	res, err := engine.Restore(ctx.Args[0], restore.Options{
		File:   c.file,
		Force:  c.force,
		DryRun: c.dryRun,
	})
	if err != nil {
		return err
	}

	// the backup snapshot may have hashed new content
	if err := ws.SaveIndex(); err != nil {
		return err
	}

	if c.dryRun {
		for _, f := range res.Planned {
			fmt.Printf("dry-run Would restore: %s (%d bytes)\n", f.Path, f.Size)
		}
		fmt.Printf("\ndry-run Would restore %d file(s)\n", len(res.Planned))
		return nil
	}

	if res.BackupID != "" {
		fmt.Printf("✓ Created backup snapshot %s\n", res.BackupID[:7])
	}
	fmt.Printf("✓ Restored %d file(s)\n", res.Restored)
	if res.Skipped > 0 {
		fmt.Printf("  Skipped %d modified file(s), use --force to overwrite\n", res.Skipped)
	}
	return nil
}

func init() {
	cli.RegisterCommand(
		cli.ApplyMiddlewares(
			&Command{},
			middleware.WithStorageCheck(),
		),
	)
}
