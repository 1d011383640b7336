package snapshot

import (
	"errors"
	"flag"
	"fmt"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/storage/collect"
	"github.com/motefs/mote/internal/storage/gc"
	"github.com/motefs/mote/internal/storage/location"
	snapstore "github.com/motefs/mote/internal/storage/snapshot"
)

type Command struct {
	message string
	trigger string
	auto    bool
}

func (c *Command) Name() string      { return "snapshot" }
func (c *Command) Aliases() []string { return []string{"snap"} }
func (c *Command) Usage() string     { return "snapshot [options]" }
func (c *Command) Brief() string     { return "Take a snapshot of the current working tree" }
func (c *Command) Help() string {
	return `Take a snapshot.

Every file passing the ignore filter is stored content-addressed; unchanged
files cost nothing. Retention cleanup and automatic garbage collection run
afterwards when enabled in the config.

Options:
  -m, --message <text>   Snapshot message.
  -t, --trigger <name>   What caused this snapshot (e.g. a hook name).
      --auto             Silent mode for shell hooks: exit quietly when
                         storage is missing or nothing changed since the
                         latest snapshot.

Examples:
  mote snapshot -m "before refactor"
  mote snapshot --auto`
}

func (c *Command) Subcommands() []cli.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.message, "message", "", "snapshot message")
	fs.StringVar(&c.message, "m", "", "alias for --message")
	fs.StringVar(&c.trigger, "trigger", "", "snapshot trigger")
	fs.StringVar(&c.trigger, "t", "", "alias for --trigger")
	fs.BoolVar(&c.auto, "auto", false, "automatic snapshot, quiet and deduplicated")
}

func (c *Command) Run(ctx *cli.Context) error {
	ws, err := ctx.Env.OpenWorkspace()
	if err != nil {
		if c.auto && errors.Is(err, location.ErrNotInitialized) {
			return nil
		}
		return err
	}

	files, err := collect.Files(ws.Root, ws.Filter, ws.Objects, ws.Index, c.auto)
	if err != nil {
		return err
	}
	if err := ws.SaveIndex(); err != nil {
		return err
	}

	if len(files) == 0 {
		if !c.auto {
			fmt.Println("! No files to snapshot")
		}
		return nil
	}

	if c.auto {
		latest, err := ws.Snaps.Latest()
		if err == nil && latest != nil && snapstore.SameManifest(latest.Files, files) {
			return nil
		}
	}

	trigger := c.trigger
	if c.auto && trigger == "" {
		trigger = "auto"
	}

	s := snapstore.New(files, c.message, trigger)
	s.GitCommit = gitHead(ws.Root)
	if _, err := ws.Snaps.Save(s); err != nil {
		return err
	}

	if !c.auto {
		fmt.Printf("✓ Created snapshot %s (%d files)\n", s.ShortID(), s.FileCount())
		if c.message != "" {
			fmt.Printf("  Message: %s\n", c.message)
		}
	}

	cfg := ws.Config.Snapshot
	if cfg.AutoCleanup {
		removed, err := ws.Snaps.Cleanup(cfg.MaxSnapshots, cfg.MaxAgeDays)
		if err != nil {
			return err
		}
		if removed > 0 && !c.auto {
			fmt.Printf("  Cleaned up %d old snapshot(s)\n", removed)
		}
	}

	if cfg.GCAutoEnabled {
		stats, ran, err := gc.AutoSweep(ws.Snaps, ws.Objects, cfg.GCAuto)
		if err != nil {
			return err
		}
		if ran && !c.auto {
			fmt.Printf("  Auto GC: cleaned %d unreferenced object(s)\n", stats.DeletedObjects)
		}
	}

	return nil
}

func init() {
	cli.RegisterCommand(&Command{})
}
