// Package project lists the projects known to the configuration hierarchy.
package project

import (
	"flag"
	"fmt"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/config"
)

type Command struct{}

func (c *Command) Name() string      { return "project" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "project <list>" }
func (c *Command) Brief() string     { return "Manage configured projects" }
func (c *Command) Help() string {
	return `Manage projects.

Subcommands:
  list    List every configured project.`
}

func (c *Command) Subcommands() []cli.Command {
	return []cli.Command{&listCommand{}}
}

func (c *Command) Flags(fs *flag.FlagSet) {}

func (c *Command) Run(ctx *cli.Context) error {
	fmt.Println(c.Help())
	return nil
}

type listCommand struct{}

func (c *listCommand) Name() string      { return "list" }
func (c *listCommand) Aliases() []string { return []string{"ls"} }
func (c *listCommand) Usage() string     { return "project list" }
func (c *listCommand) Brief() string     { return "List every configured project" }
func (c *listCommand) Help() string {
	return "List every project with a config layer, marking the current one."
}

func (c *listCommand) Subcommands() []cli.Command { return nil }

func (c *listCommand) Flags(fs *flag.FlagSet) {}

func (c *listCommand) Run(ctx *cli.Context) error {
	env := ctx.Env

	projects, err := config.ListProjects(env.ConfigDir)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	current := env.Resolver.ProjectName()
	for _, name := range projects {
		if name == current {
			fmt.Printf("%s (current)\n", name)
		} else {
			fmt.Println(name)
		}
	}
	return nil
}

func init() {
	cli.RegisterCommand(&Command{})
}
