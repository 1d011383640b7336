package cli

import (
	"fmt"
	"path/filepath"

	"github.com/motefs/mote/internal/config"
	"github.com/motefs/mote/internal/ignore"
	"github.com/motefs/mote/internal/storage/index"
	"github.com/motefs/mote/internal/storage/location"
	"github.com/motefs/mote/internal/storage/object"
	"github.com/motefs/mote/internal/storage/snapshot"
)

// Env is the resolved environment of one invocation: global flags plus the
// merged configuration.
type Env struct {
	ProjectRoot string
	ConfigDir   string
	ContextName string // context named on the command line, "" when none
	StorageDir  string // --storage-dir override, "" when none
	IgnoreFile  string // --ignore-file override, "" when none

	Resolver *config.Resolver
	Config   config.Config
}

// ResolveEnv loads the configuration hierarchy for the given global flags.
func ResolveEnv(projectRoot, configDir, contextName, storageDir, ignoreFile string) (*Env, error) {
	resolver, err := config.Load(config.ResolveOptions{
		ConfigDir:   configDir,
		Context:     contextName,
		ProjectRoot: projectRoot,
	})
	if err != nil {
		return nil, err
	}

	return &Env{
		ProjectRoot: projectRoot,
		ConfigDir:   resolver.ConfigDir(),
		ContextName: contextName,
		StorageDir:  storageDir,
		IgnoreFile:  ignoreFile,
		Resolver:    resolver,
		Config:      resolver.Resolve(),
	}, nil
}

// Workspace is an opened storage root with its stores, index and ignore
// filter ready for use.
type Workspace struct {
	Root    string
	Loc     *location.Location
	Objects *object.Store
	Snaps   *snapshot.Store
	Index   *index.Index
	Filter  *ignore.Filter
	Config  config.Config
}

// StorageRoot picks the storage root: the --storage-dir flag wins, then the
// resolved context's storage, then the conventional locations next to the
// project.
func (e *Env) StorageRoot() (*location.Location, error) {
	if e.StorageDir != "" {
		return location.FindExisting(e.ProjectRoot, e.StorageDir)
	}
	if dir := e.Resolver.ContextStorageDir(); dir != "" {
		return location.At(dir), nil
	}
	return location.FindExisting(e.ProjectRoot, "")
}

// IgnorePath picks the ignore file: the --ignore-file flag wins, then the
// context's ignore file, then the configured file in the project root.
func (e *Env) IgnorePath() string {
	if e.IgnoreFile != "" {
		return e.IgnoreFile
	}
	if path := e.Resolver.ContextIgnorePath(); path != "" {
		return path
	}
	return filepath.Join(e.ProjectRoot, e.Config.Ignore.IgnoreFile)
}

// OpenWorkspace opens the storage root for this environment. It fails when
// storage has not been initialized.
func (e *Env) OpenWorkspace() (*Workspace, error) {
	loc, err := e.StorageRoot()
	if err != nil {
		return nil, err
	}

	objects, err := object.NewStore(loc.ObjectsDir(), e.Config.Storage.CompressionLevel)
	if err != nil {
		return nil, fmt.Errorf("open object store: %w", err)
	}

	return &Workspace{
		Root:    e.ProjectRoot,
		Loc:     loc,
		Objects: objects,
		Snaps:   snapshot.NewStore(loc.SnapshotsDir()),
		Index:   index.Load(loc.IndexPath()),
		Filter:  ignore.NewFilter(e.IgnorePath()),
		Config:  e.Config,
	}, nil
}

// SaveIndex persists the workspace's index cache.
func (w *Workspace) SaveIndex() error {
	return w.Index.Save(w.Loc.IndexPath())
}
