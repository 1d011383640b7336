package show

import (
	"errors"
	"flag"
	"fmt"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "show" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "show <snapshot-id>" }
func (c *Command) Brief() string     { return "Show one snapshot's metadata and file list" }
func (c *Command) Help() string {
	return `Show a snapshot.

The id may be abbreviated to any unique prefix.

Examples:
  mote show a1b2c3d
  mote show a1b2c3d4e5f6a7b8`
}

func (c *Command) Subcommands() []cli.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {}

func (c *Command) Run(ctx *cli.Context) error {
	if len(ctx.Args) == 0 {
		return errors.New("snapshot id required")
	}

	ws, err := ctx.Env.OpenWorkspace()
	if err != nil {
		return err
	}

	s, err := ws.Snaps.Load(ctx.Args[0])
	if err != nil {
		return err
	}

	fmt.Printf("snapshot %s\n", s.ID)
	fmt.Printf("Date:    %s\n", s.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))
	if s.Message != "" {
		fmt.Printf("Message: %s\n", s.Message)
	}
	if s.Trigger != "" {
		fmt.Printf("Trigger: %s\n", s.Trigger)
	}
	if s.GitCommit != "" {
		fmt.Printf("Commit:  %s\n", s.GitCommit)
	}
	fmt.Printf("Files:   %d\n", s.FileCount())
	fmt.Println()
	fmt.Println("Files:")
	for _, f := range s.Files {
		fmt.Printf("  %s (%d bytes)\n", f.Path, f.Size)
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
