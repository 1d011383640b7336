package init

import (
	"flag"
	"fmt"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/config"
	"github.com/motefs/mote/internal/ignore"
	"github.com/motefs/mote/internal/storage/location"
)

type Command struct {
	strategy string
}

func (c *Command) Name() string      { return "init" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "init [options]" }
func (c *Command) Brief() string     { return "Initialize snapshot storage for the current project" }
func (c *Command) Help() string {
	return `Initialize snapshot storage.

Creates the storage layout (objects and snapshots directories), writes the
default global config if none exists, and creates a default ignore file.

Options:
  -s, --strategy <name>   Where to place storage: root, vcs or auto.
                          Defaults to the configured location_strategy.

Examples:
  mote init
  mote init -s vcs
  mote --storage-dir /backups/myapp init`
}

func (c *Command) Subcommands() []cli.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.strategy, "strategy", "", "storage location strategy (root, vcs, auto)")
	fs.StringVar(&c.strategy, "s", "", "alias for --strategy")
}

func (c *Command) Run(ctx *cli.Context) error {
	env := ctx.Env

	if err := config.SaveDefault(env.ConfigDir); err != nil {
		return err
	}

	strategy := c.strategy
	if strategy == "" {
		strategy = env.Config.Storage.LocationStrategy
	}

	loc, err := location.Init(env.ProjectRoot, strategy, env.StorageDir)
	if err != nil {
		return err
	}

	ignorePath := env.IgnorePath()
	if err := ignore.WriteDefault(ignorePath); err != nil {
		return err
	}

	fmt.Printf("✓ Initialized mote in %s\n", loc.Root())
	fmt.Printf("  Created %s for ignore patterns\n", ignorePath)
	return nil
}

func init() {
	cli.RegisterCommand(&Command{})
}
