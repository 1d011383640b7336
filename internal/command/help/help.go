package help

import (
	"flag"
	"fmt"
	"sort"

	"github.com/motefs/mote/internal/cli"
)

type Command struct{}

func (c *Command) Name() string      { return "help" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "help [command]" }
func (c *Command) Brief() string     { return "Show help for a command" }
func (c *Command) Help() string {
	return `Show help.

Without arguments, lists all commands. With a command name, shows that
command's detailed help.`
}

func (c *Command) Subcommands() []cli.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {}

func (c *Command) Run(ctx *cli.Context) error {
	if len(ctx.Args) > 0 {
		cmd, ok := cli.GetCommand(ctx.Args[0])
		if !ok {
			return fmt.Errorf("unknown command: %s", ctx.Args[0])
		}
		fmt.Printf("Usage: mote %s\n\n%s\n", cmd.Usage(), cmd.Help())
		return nil
	}

	cmds := cli.AllCommands()
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })

	fmt.Println("Usage: mote [global options] <command> [args...]")
	fmt.Println()
	fmt.Println("Commands:")
	for _, cmd := range cmds {
		fmt.Printf("  %-10s %s\n", cmd.Name(), cmd.Brief())
	}
	fmt.Println()
	fmt.Println("Run 'mote help <command>' for details.")
	return nil
}

func init() {
	cli.RegisterCommand(&Command{})
}
