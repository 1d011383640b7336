package middleware_test

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/middleware"
	"github.com/motefs/mote/internal/storage/location"
)

type fakeCommand struct {
	ran bool
}

func (c *fakeCommand) Name() string               { return "fake" }
func (c *fakeCommand) Aliases() []string          { return nil }
func (c *fakeCommand) Usage() string              { return "fake" }
func (c *fakeCommand) Brief() string              { return "fake" }
func (c *fakeCommand) Help() string               { return "fake" }
func (c *fakeCommand) Subcommands() []cli.Command { return nil }
func (c *fakeCommand) Flags(fs *flag.FlagSet)     {}
func (c *fakeCommand) Run(ctx *cli.Context) error { c.ran = true; return nil }

func TestWithStorageCheckBlocksUninitialized(t *testing.T) {
	root := t.TempDir()
	env, err := cli.ResolveEnv(root, t.TempDir(), "", "", "")
	require.NoError(t, err)

	fake := &fakeCommand{}
	wrapped := cli.ApplyMiddlewares(fake, middleware.WithStorageCheck())

	err = wrapped.Run(&cli.Context{Env: env})
	require.ErrorContains(t, err, "mote init")
	require.False(t, fake.ran)

	_, err = location.Init(root, location.StrategyRoot, "")
	require.NoError(t, err)

	require.NoError(t, wrapped.Run(&cli.Context{Env: env}))
	require.True(t, fake.ran)
}
