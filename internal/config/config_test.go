package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motefs/mote/internal/config"
)

func TestLoadFileMissingYieldsDefaults(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshot:\n  max_snapshots: 50\n"), 0o644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.Snapshot.MaxSnapshots)
	require.Equal(t, 30, cfg.Snapshot.MaxAgeDays)
	require.Equal(t, ".moteignore", cfg.Ignore.IgnoreFile)
}

func TestSaveDefaultDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("snapshot:\n  max_snapshots: 7\n"), 0o644))

	require.NoError(t, config.SaveDefault(dir))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Snapshot.MaxSnapshots)
}

func TestValidateName(t *testing.T) {
	require.NoError(t, config.ValidateName("my-project"))
	require.NoError(t, config.ValidateName("_scratch"))

	for _, bad := range []string{"", "9lives", "../escape", "a/b", "has space", "NUL", "."} {
		require.ErrorIs(t, config.ValidateName(bad), config.ErrInvalidName, "name %q", bad)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	configDir := t.TempDir()

	p := &config.Project{Path: "/work/app", Config: config.Default()}
	p.Config.Snapshot.MaxSnapshots = 25
	require.NoError(t, p.Save(configDir, "app"))

	loaded, err := config.LoadProject(configDir, "app")
	require.NoError(t, err)
	require.Equal(t, "/work/app", loaded.Path)
	require.Equal(t, 25, loaded.Config.Snapshot.MaxSnapshots)

	_, err = config.LoadProject(configDir, "missing")
	require.ErrorIs(t, err, config.ErrProjectNotFound)
}

func TestFindProjectByPath(t *testing.T) {
	configDir := t.TempDir()
	root := t.TempDir()

	p := &config.Project{Path: root, Config: config.Default()}
	require.NoError(t, p.Save(configDir, "app"))

	name, err := config.FindProjectByPath(configDir, root)
	require.NoError(t, err)
	require.Equal(t, "app", name)

	name, err = config.FindProjectByPath(configDir, t.TempDir())
	require.NoError(t, err)
	require.Empty(t, name)
}

func TestContextSaveProvisionsStorage(t *testing.T) {
	configDir := t.TempDir()
	dir := filepath.Join(config.ProjectDir(configDir, "app"), "contexts", "default")

	c := &config.Context{Config: config.Default()}
	require.NoError(t, c.Save(dir, "default"))

	require.DirExists(t, filepath.Join(config.StoragePath(dir), "objects"))
	require.DirExists(t, filepath.Join(config.StoragePath(dir), "snapshots"))

	require.ErrorIs(t, c.Save(dir, "default"), config.ErrContextExists)
}

func TestResolveLayerPrecedence(t *testing.T) {
	configDir := t.TempDir()
	root := t.TempDir()

	global := config.Default()
	global.Snapshot.MaxSnapshots = 500
	global.Snapshot.MaxAgeDays = 60
	require.NoError(t, global.Save(filepath.Join(configDir, config.ConfigFileName)))

	p := &config.Project{Path: root, Config: config.Default()}
	p.Config.Snapshot.MaxAgeDays = 90
	require.NoError(t, p.Save(configDir, "app"))

	ctxDir := filepath.Join(config.ProjectDir(configDir, "app"), "contexts", "experiment")
	c := &config.Context{Config: config.Default()}
	c.Config.Snapshot.MaxSnapshots = 10
	require.NoError(t, c.Save(ctxDir, "experiment"))

	r, err := config.Load(config.ResolveOptions{
		ConfigDir:   configDir,
		Context:     "experiment",
		ProjectRoot: root,
	})
	require.NoError(t, err)
	require.Equal(t, "app", r.ProjectName())

	cfg := r.Resolve()
	require.Equal(t, 10, cfg.Snapshot.MaxSnapshots, "context overrides global")
	require.Equal(t, 90, cfg.Snapshot.MaxAgeDays, "project overrides global")
	require.True(t, cfg.Snapshot.AutoCleanup, "untouched fields stay default")
}

func TestResolveDefaultValueCannotOverrideLowerLayer(t *testing.T) {
	configDir := t.TempDir()
	root := t.TempDir()

	require.NoError(t, config.Default().Save(filepath.Join(configDir, config.ConfigFileName)))

	p := &config.Project{Path: root, Config: config.Default()}
	p.Config.Snapshot.AutoCleanup = false
	require.NoError(t, p.Save(configDir, "app"))

	// The context sets auto_cleanup to its default value; that is
	// indistinguishable from leaving it unset, so the project's override
	// survives.
	ctxDir := filepath.Join(config.ProjectDir(configDir, "app"), "contexts", "experiment")
	c := &config.Context{Config: config.Default()}
	require.NoError(t, c.Save(ctxDir, "experiment"))

	r, err := config.Load(config.ResolveOptions{
		ConfigDir:   configDir,
		Context:     "experiment",
		ProjectRoot: root,
	})
	require.NoError(t, err)
	require.False(t, r.Resolve().Snapshot.AutoCleanup)
}

func TestResolveMissingDefaultContextTolerated(t *testing.T) {
	configDir := t.TempDir()
	root := t.TempDir()

	p := &config.Project{Path: root, Config: config.Default()}
	require.NoError(t, p.Save(configDir, "app"))

	r, err := config.Load(config.ResolveOptions{ConfigDir: configDir, ProjectRoot: root})
	require.NoError(t, err)
	require.Empty(t, r.ContextStorageDir())
}

func TestResolveMissingNamedContextFails(t *testing.T) {
	configDir := t.TempDir()
	root := t.TempDir()

	p := &config.Project{Path: root, Config: config.Default()}
	require.NoError(t, p.Save(configDir, "app"))

	_, err := config.Load(config.ResolveOptions{
		ConfigDir:   configDir,
		Context:     "nope",
		ProjectRoot: root,
	})
	require.ErrorIs(t, err, config.ErrContextNotFound)
}

func TestContextStorageDir(t *testing.T) {
	configDir := t.TempDir()
	root := t.TempDir()

	p := &config.Project{Path: root, Config: config.Default()}
	require.NoError(t, p.Save(configDir, "app"))

	ctxDir := filepath.Join(config.ProjectDir(configDir, "app"), "contexts", "default")
	c := &config.Context{Config: config.Default()}
	require.NoError(t, c.Save(ctxDir, "default"))

	r, err := config.Load(config.ResolveOptions{ConfigDir: configDir, ProjectRoot: root})
	require.NoError(t, err)
	require.Equal(t, config.StoragePath(ctxDir), r.ContextStorageDir())
	require.Equal(t, config.IgnorePath(ctxDir), r.ContextIgnorePath())
}
