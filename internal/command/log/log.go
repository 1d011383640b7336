package log

import (
	"flag"
	"fmt"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/middleware"
)

type Command struct {
	limit   int
	oneline bool
}

func (c *Command) Name() string      { return "log" }
func (c *Command) Aliases() []string { return []string{"history"} }
func (c *Command) Usage() string     { return "log [options]" }
func (c *Command) Brief() string     { return "Show snapshot history, newest first" }
func (c *Command) Help() string {
	return `Show snapshot history.

Options:
  -n <count>       Limit to the last N snapshots (default 20, 0 for all).
      --oneline    One snapshot per line.

Examples:
  mote log
  mote log --oneline -n 50`
}

func (c *Command) Subcommands() []cli.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.IntVar(&c.limit, "n", 20, "limit number of snapshots")
	fs.BoolVar(&c.oneline, "oneline", false, "one snapshot per line")
}

func (c *Command) Run(ctx *cli.Context) error {
	ws, err := ctx.Env.OpenWorkspace()
	if err != nil {
		return err
	}

	snapshots, err := ws.Snaps.List(c.limit)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Println("! No snapshots yet")
		return nil
	}

	for _, s := range snapshots {
		if c.oneline {
			message := s.Message
			if message == "" {
				message = "-"
			}
			fmt.Printf("%s %s  %s  (%d files)\n",
				s.ShortID(),
				s.Timestamp.Local().Format("2006-01-02 15:04:05"),
				message,
				s.FileCount())
			continue
		}

		fmt.Printf("snapshot %s\n", s.ShortID())
		fmt.Printf("Date:    %s\n", s.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))
		if s.Message != "" {
			fmt.Printf("Message: %s\n", s.Message)
		}
		if s.Trigger != "" {
			fmt.Printf("Trigger: %s\n", s.Trigger)
		}
		fmt.Printf("Files:   %d\n", s.FileCount())
		fmt.Println()
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
