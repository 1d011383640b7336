// Package cli provides the command interface, the command tree and the
// runner. Commands register themselves from their package init.
package cli

import "flag"

// Command is one cli command.
type Command interface {
	Name() string
	Aliases() []string
	Usage() string
	Brief() string
	Help() string
	Flags(fs *flag.FlagSet)
	Subcommands() []Command
	Run(ctx *Context) error
}

// Context carries parsed arguments and the resolved environment into a
// command's Run.
type Context struct {
	Args  []string
	Flags *flag.FlagSet
	Env   *Env
}
