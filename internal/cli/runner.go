package cli

import (
	"flag"
	"fmt"
	"os"
)

// RunCLI resolves the command named by args, parses its flags and runs it
// with env. It exits the process on error.
func RunCLI(env *Env, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no command provided")
		os.Exit(1)
	}

	node, remaining, err := ResolveCommand(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v: %s\n", err, args[0])
		os.Exit(1)
	}
	cmd := node.Cmd

	fs := flag.NewFlagSet(cmd.Name(), flag.ExitOnError)
	cmd.Flags(fs)
	if err := fs.Parse(remaining); err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing flags:", err)
		os.Exit(1)
	}

	ctx := &Context{
		Args:  fs.Args(),
		Flags: fs,
		Env:   env,
	}

	if err := cmd.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
