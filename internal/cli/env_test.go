package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/config"
	"github.com/motefs/mote/internal/storage/location"
)

func TestOpenWorkspaceRequiresInit(t *testing.T) {
	root := t.TempDir()
	env, err := cli.ResolveEnv(root, t.TempDir(), "", "", "")
	require.NoError(t, err)

	_, err = env.OpenWorkspace()
	require.ErrorIs(t, err, location.ErrNotInitialized)

	_, err = location.Init(root, location.StrategyRoot, "")
	require.NoError(t, err)

	ws, err := env.OpenWorkspace()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, ".mote"), ws.Loc.Root())
}

func TestOpenWorkspaceStorageDirOverride(t *testing.T) {
	root := t.TempDir()
	custom := filepath.Join(t.TempDir(), "storage")

	_, err := location.Init(root, location.StrategyRoot, custom)
	require.NoError(t, err)

	env, err := cli.ResolveEnv(root, t.TempDir(), "", custom, "")
	require.NoError(t, err)

	ws, err := env.OpenWorkspace()
	require.NoError(t, err)
	require.Equal(t, custom, ws.Loc.Root())
}

func TestOpenWorkspaceUsesContextStorage(t *testing.T) {
	root := t.TempDir()
	configDir := t.TempDir()

	p := &config.Project{Path: root, Config: config.Default()}
	require.NoError(t, p.Save(configDir, "app"))

	ctxDir := filepath.Join(config.ProjectDir(configDir, "app"), "contexts", "default")
	c := &config.Context{Config: config.Default()}
	require.NoError(t, c.Save(ctxDir, "default"))

	env, err := cli.ResolveEnv(root, configDir, "", "", "")
	require.NoError(t, err)

	ws, err := env.OpenWorkspace()
	require.NoError(t, err)
	require.Equal(t, config.StoragePath(ctxDir), ws.Loc.Root())
}

func TestIgnorePathPrecedence(t *testing.T) {
	root := t.TempDir()
	configDir := t.TempDir()

	env, err := cli.ResolveEnv(root, configDir, "", "", "/custom/.ignore")
	require.NoError(t, err)
	require.Equal(t, "/custom/.ignore", env.IgnorePath())

	env, err = cli.ResolveEnv(root, configDir, "", "", "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, ".moteignore"), env.IgnorePath())
}
