package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/motefs/mote/internal/cli"
	_ "github.com/motefs/mote/internal/command"
)

func main() {
	fs := flag.NewFlagSet("mote", flag.ExitOnError)

	var (
		projectRoot string
		configDir   string
		contextName string
		storageDir  string
		ignoreFile  string
		verbose     bool
	)
	fs.StringVar(&projectRoot, "project-root", "", "project root directory (default: current directory)")
	fs.StringVar(&configDir, "config-dir", "", "config directory (default: ~/.config/mote)")
	fs.StringVar(&contextName, "context", "", "configuration context")
	fs.StringVar(&contextName, "c", "", "alias for --context")
	fs.StringVar(&storageDir, "storage-dir", "", "custom storage directory")
	fs.StringVar(&ignoreFile, "ignore-file", "", "custom ignore file")
	fs.BoolVar(&verbose, "verbose", false, "debug logging")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mote [global options] <command> [args...]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Global options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	logrus.SetLevel(logrus.WarnLevel)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if projectRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		projectRoot = cwd
	}

	args := fs.Args()
	if len(args) == 0 {
		usage()
		os.Exit(0)
	}

	env, err := cli.ResolveEnv(projectRoot, configDir, contextName, storageDir, ignoreFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	cli.RunCLI(env, args)
}

func usage() {
	fmt.Println("Usage: mote [global options] <command> [args...]")
	fmt.Println()
	fmt.Println("Commands:")

	cmds := cli.AllCommands()
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
	for _, cmd := range cmds {
		fmt.Printf("  %-10s %s\n", cmd.Name(), cmd.Brief())
	}
	fmt.Println()
	fmt.Println("Run 'mote help <command>' for details.")
}
