// Package ignore manages the patterns in the active ignore file.
package ignore

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/fsio"
	"github.com/motefs/mote/internal/ignore"
)

type Command struct{}

func (c *Command) Name() string      { return "ignore" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "ignore <list|add|remove|edit> [args]" }
func (c *Command) Brief() string     { return "Manage ignore patterns" }
func (c *Command) Help() string {
	return `Manage ignore patterns.

Operates on the active ignore file, honoring the --ignore-file flag and the
current context.

Subcommands:
  list                List the current patterns.
  add <pattern>       Append a pattern.
  remove <pattern>    Remove a pattern.
  edit                Open the ignore file in $EDITOR.

Examples:
  mote ignore add "*.log"
  mote ignore remove "*.log"`
}

func (c *Command) Subcommands() []cli.Command {
	return []cli.Command{&listCommand{}, &addCommand{}, &removeCommand{}, &editCommand{}}
}

func (c *Command) Flags(fs *flag.FlagSet) {}

func (c *Command) Run(ctx *cli.Context) error {
	fmt.Println(c.Help())
	return nil
}

type listCommand struct{}

func (c *listCommand) Name() string      { return "list" }
func (c *listCommand) Aliases() []string { return []string{"ls"} }
func (c *listCommand) Usage() string     { return "ignore list" }
func (c *listCommand) Brief() string     { return "List the current patterns" }
func (c *listCommand) Help() string {
	return "List the patterns in the active ignore file."
}

func (c *listCommand) Subcommands() []cli.Command { return nil }

func (c *listCommand) Flags(fs *flag.FlagSet) {}

func (c *listCommand) Run(ctx *cli.Context) error {
	path := ctx.Env.IgnorePath()
	content, err := fsio.ReadFile(path)
	if err != nil {
		if fsio.IsNotExist(err) {
			fmt.Println("! No ignore file found")
			return nil
		}
		return err
	}

	fmt.Printf("Ignore patterns in %s:\n", path)
	fmt.Println(string(content))
	return nil
}

type addCommand struct{}

func (c *addCommand) Name() string      { return "add" }
func (c *addCommand) Aliases() []string { return nil }
func (c *addCommand) Usage() string     { return "ignore add <pattern>" }
func (c *addCommand) Brief() string     { return "Append a pattern" }
func (c *addCommand) Help() string {
	return `Append a pattern to the active ignore file, creating it when missing.

Example:
  mote ignore add "build/"`
}

func (c *addCommand) Subcommands() []cli.Command { return nil }

func (c *addCommand) Flags(fs *flag.FlagSet) {}

func (c *addCommand) Run(ctx *cli.Context) error {
	if len(ctx.Args) == 0 {
		return errors.New("pattern required")
	}
	pattern := ctx.Args[0]
	path := ctx.Env.IgnorePath()

	content, err := fsio.ReadFile(path)
	if err != nil && !fsio.IsNotExist(err) {
		return err
	}

	if err := fsio.WriteFileAtomic(path, appendPattern(string(content), pattern), 0o644); err != nil {
		return err
	}
	fmt.Printf("✓ Added pattern '%s' to %s\n", pattern, path)
	return nil
}

type removeCommand struct{}

func (c *removeCommand) Name() string      { return "remove" }
func (c *removeCommand) Aliases() []string { return []string{"rm"} }
func (c *removeCommand) Usage() string     { return "ignore remove <pattern>" }
func (c *removeCommand) Brief() string     { return "Remove a pattern" }
func (c *removeCommand) Help() string {
	return `Remove every line matching the pattern from the active ignore file.

Example:
  mote ignore remove "build/"`
}

func (c *removeCommand) Subcommands() []cli.Command { return nil }

func (c *removeCommand) Flags(fs *flag.FlagSet) {}

func (c *removeCommand) Run(ctx *cli.Context) error {
	if len(ctx.Args) == 0 {
		return errors.New("pattern required")
	}
	pattern := ctx.Args[0]
	path := ctx.Env.IgnorePath()

	content, err := fsio.ReadFile(path)
	if err != nil {
		if fsio.IsNotExist(err) {
			fmt.Println("! No ignore file found")
			return nil
		}
		return err
	}

	if err := fsio.WriteFileAtomic(path, removePattern(string(content), pattern), 0o644); err != nil {
		return err
	}
	fmt.Printf("✓ Removed pattern '%s' from %s\n", pattern, path)
	return nil
}

type editCommand struct{}

func (c *editCommand) Name() string      { return "edit" }
func (c *editCommand) Aliases() []string { return nil }
func (c *editCommand) Usage() string     { return "ignore edit" }
func (c *editCommand) Brief() string     { return "Open the ignore file in $EDITOR" }
func (c *editCommand) Help() string {
	return "Open the active ignore file in $EDITOR (default vi), creating it when missing."
}

func (c *editCommand) Subcommands() []cli.Command { return nil }

func (c *editCommand) Flags(fs *flag.FlagSet) {}

func (c *editCommand) Run(ctx *cli.Context) error {
	path := ctx.Env.IgnorePath()
	if !fsio.Exists(path) {
		if err := ignore.WriteDefault(path); err != nil {
			return err
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return errors.New("EDITOR variable is empty")
	}

	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q: %w", editor, err)
	}

	fmt.Printf("✓ Edited %s\n", path)
	return nil
}

// appendPattern appends pattern as its own line, preserving existing content.
func appendPattern(content, pattern string) []byte {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return []byte(content + pattern + "\n")
}

// removePattern drops every line whose trimmed text equals the pattern.
func removePattern(content, pattern string) []byte {
	want := strings.TrimSpace(pattern)

	var kept []string
	for _, line := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
		if strings.TrimSpace(line) != want {
			kept = append(kept, line)
		}
	}
	return []byte(strings.Join(kept, "\n") + "\n")
}

func init() {
	cli.RegisterCommand(&Command{})
}
