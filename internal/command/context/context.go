// Package context manages named configuration profiles within a project.
// Each context owns its own storage and ignore file, so snapshots taken
// under different contexts never mix.
package context

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/config"
	"github.com/motefs/mote/internal/ignore"
)

type Command struct{}

func (c *Command) Name() string      { return "context" }
func (c *Command) Aliases() []string { return []string{"ctx"} }
func (c *Command) Usage() string     { return "context <new|list|delete> [args]" }
func (c *Command) Brief() string     { return "Manage configuration contexts" }
func (c *Command) Help() string {
	return `Manage contexts.

Subcommands:
  new <name> [--dir <path>]   Create a context (and the project, if needed).
  list                        List the project's contexts.
  delete <name> [--force]     Delete a context and its storage.

Select a context on any command with -c:
  mote -c experiment snapshot -m "trying something"`
}

func (c *Command) Subcommands() []cli.Command {
	return []cli.Command{&newCommand{}, &listCommand{}, &deleteCommand{}}
}

func (c *Command) Flags(fs *flag.FlagSet) {}

func (c *Command) Run(ctx *cli.Context) error {
	fmt.Println(c.Help())
	return nil
}

// projectName resolves the project this invocation belongs to, falling back
// to the project root's directory name.
func projectName(env *cli.Env) string {
	if name := env.Resolver.ProjectName(); name != "" {
		return name
	}
	return filepath.Base(env.ProjectRoot)
}

type newCommand struct {
	dir string
}

func (c *newCommand) Name() string      { return "new" }
func (c *newCommand) Aliases() []string { return nil }
func (c *newCommand) Usage() string     { return "context new <name> [options]" }
func (c *newCommand) Brief() string     { return "Create a context" }
func (c *newCommand) Help() string {
	return `Create a context.

Creates the project config when it does not exist yet, then provisions the
context with its own storage and ignore file.

Options:
      --dir <path>    Store the context at a custom directory.

Examples:
  mote context new experiment
  mote context new scratch --dir /tmp/mote-scratch`
}

func (c *newCommand) Subcommands() []cli.Command { return nil }

func (c *newCommand) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.dir, "dir", "", "custom context directory")
}

func (c *newCommand) Run(ctx *cli.Context) error {
	if len(ctx.Args) == 0 {
		return errors.New("context name required")
	}
	name := ctx.Args[0]
	env := ctx.Env
	project := projectName(env)

	p, err := config.EnsureProject(env.ConfigDir, project, env.ProjectRoot)
	if err != nil {
		return err
	}

	if c.dir != "" {
		p.RegisterContext(name, c.dir)
		if err := p.Save(env.ConfigDir, project); err != nil {
			return err
		}
	}
	ctxDir := p.ContextDir(env.ConfigDir, project, name)

	cc := &config.Context{
		Cwd:        env.ProjectRoot,
		ContextDir: c.dir,
		Config:     config.Default(),
	}
	if err := cc.Save(ctxDir, name); err != nil {
		return err
	}
	if err := ignore.WriteDefault(config.IgnorePath(ctxDir)); err != nil {
		return err
	}

	fmt.Printf("✓ Created context '%s' for project '%s'\n", name, project)
	if c.dir != "" {
		fmt.Printf("  Context directory: %s\n", ctxDir)
	}
	return nil
}

type listCommand struct{}

func (c *listCommand) Name() string      { return "list" }
func (c *listCommand) Aliases() []string { return []string{"ls"} }
func (c *listCommand) Usage() string     { return "context list" }
func (c *listCommand) Brief() string     { return "List the project's contexts" }
func (c *listCommand) Help() string {
	return "List all contexts of the current project."
}

func (c *listCommand) Subcommands() []cli.Command { return nil }

func (c *listCommand) Flags(fs *flag.FlagSet) {}

func (c *listCommand) Run(ctx *cli.Context) error {
	env := ctx.Env
	project := projectName(env)

	contexts, err := config.ListContexts(config.ProjectDir(env.ConfigDir, project))
	if err != nil {
		return err
	}
	if len(contexts) == 0 {
		fmt.Println("! No contexts found")
		return nil
	}

	fmt.Printf("Contexts for project '%s':\n", project)
	for _, name := range contexts {
		if name == config.DefaultContext {
			fmt.Printf("  %s (default)\n", name)
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
	return nil
}

type deleteCommand struct {
	force bool
}

func (c *deleteCommand) Name() string      { return "delete" }
func (c *deleteCommand) Aliases() []string { return []string{"rm"} }
func (c *deleteCommand) Usage() string     { return "context delete <name> [options]" }
func (c *deleteCommand) Brief() string     { return "Delete a context and its storage" }
func (c *deleteCommand) Help() string {
	return `Delete a context.

Removes the context directory including its snapshot storage. The default
context cannot be deleted.

Options:
      --force    Skip the confirmation prompt.`
}

func (c *deleteCommand) Subcommands() []cli.Command { return nil }

func (c *deleteCommand) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "skip confirmation")
}

func (c *deleteCommand) Run(ctx *cli.Context) error {
	if len(ctx.Args) == 0 {
		return errors.New("context name required")
	}
	name := ctx.Args[0]
	if name == config.DefaultContext {
		return errors.New("cannot delete the default context")
	}
	env := ctx.Env
	project := projectName(env)

	p, err := config.LoadProject(env.ConfigDir, project)
	if err != nil {
		return err
	}

	ctxDir := p.ContextDir(env.ConfigDir, project, name)
	if _, err := os.Stat(ctxDir); err != nil {
		return fmt.Errorf("%q: %w", name, config.ErrContextNotFound)
	}

	if !c.force {
		fmt.Printf("Delete context '%s' and all its snapshots? [y/N] ", name)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "yes" {
			fmt.Println("! Deletion cancelled")
			return nil
		}
	}

	if err := os.RemoveAll(ctxDir); err != nil {
		return err
	}
	p.UnregisterContext(name)
	if err := p.Save(env.ConfigDir, project); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted context '%s' from project '%s'\n", name, project)
	return nil
}

func init() {
	cli.RegisterCommand(&Command{})
}
