package delete

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/middleware"
)

type Command struct {
	force bool
}

func (c *Command) Name() string      { return "delete" }
func (c *Command) Aliases() []string { return []string{"rm"} }
func (c *Command) Usage() string     { return "delete [options] <snapshot-id>" }
func (c *Command) Brief() string     { return "Delete a snapshot" }
func (c *Command) Help() string {
	return `Delete a snapshot.

Only the snapshot record is removed; blobs stay in the object store until
'mote gc' runs.

Options:
      --force    Skip the confirmation prompt.

Examples:
  mote delete a1b2c3d
  mote delete --force a1b2c3d`
}

func (c *Command) Subcommands() []cli.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "skip confirmation")
}

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

	if !c.force {
		fmt.Printf("Delete snapshot %s (%d files)? [y/N] ", s.ShortID(), s.FileCount())
		answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("! Deletion cancelled")
			return nil
		}
	}

	if err := ws.Snaps.Delete(s.ID); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted snapshot %s (%d files)\n", s.ShortID(), s.FileCount())
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
