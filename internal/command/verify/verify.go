package verify

import (
	"flag"
	"fmt"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/middleware"
	"github.com/motefs/mote/internal/storage/object"
	"github.com/motefs/mote/internal/util"
)

type Command struct {
	workers int
}

func (c *Command) Name() string      { return "verify" }
func (c *Command) Aliases() []string { return []string{"fsck"} }
func (c *Command) Usage() string     { return "verify [options]" }
func (c *Command) Brief() string     { return "Check every stored object against its hash" }
func (c *Command) Help() string {
	return `Verify object store integrity.

Reads every object, decompresses it and recomputes its hash. Objects whose
content no longer matches their address are reported as damaged.

Options:
  -j <n>    Number of parallel workers (default: number of CPUs).

Examples:
  mote verify
  mote verify -j 4`
}

func (c *Command) Subcommands() []cli.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.IntVar(&c.workers, "j", 0, "parallel workers")
}

func (c *Command) Run(ctx *cli.Context) error {
	ws, err := ctx.Env.OpenWorkspace()
	if err != nil {
		return err
	}

	workers := c.workers
	if workers <= 0 {
		workers = util.WorkerCount()
	}

	checks, err := ws.Objects.Verify(workers)
	if err != nil {
		return err
	}

	damaged := 0
	for _, check := range checks {
		if check.Status != object.StatusOK {
			damaged++
			fmt.Printf("damaged %s: %v\n", check.Hash, check.Err)
		}
	}

	if damaged > 0 {
		return fmt.Errorf("%d of %d object(s) damaged", damaged, len(checks))
	}
	fmt.Printf("✓ Verified %d object(s), all healthy\n", len(checks))
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
