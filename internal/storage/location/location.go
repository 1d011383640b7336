// Package location resolves where a project's snapshot storage lives: in the
// project root, inside the VCS directory, or at a custom path.
package location

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/motefs/mote/internal/fsio"
)

var (
	ErrNotInitialized     = errors.New("storage is not initialized, run 'mote init' first")
	ErrAlreadyInitialized = errors.New("storage is already initialized")
	ErrNoVCSDirectory     = errors.New("no VCS directory (.git or .jj) found")
)

// Storage location strategies.
const (
	StrategyRoot = "root" // <project>/.mote
	StrategyVCS  = "vcs"  // <project>/.git/mote (or .jj/mote)
	StrategyAuto = "auto" // vcs when available, root otherwise
)

// StorageDirName is the storage directory created under the project root or
// the VCS directory.
const StorageDirName = ".mote"

// Location is a resolved storage root.
type Location struct {
	root string
}

// At wraps an explicit storage root without checking the disk.
func At(root string) *Location {
	return &Location{root: root}
}

// Init creates the storage layout (objects/ and snapshots/) at the location
// selected by strategy, or at customDir when given. An existing root is an
// error.
func Init(projectRoot, strategy string, customDir string) (*Location, error) {
	root := customDir
	if root == "" {
		var err error
		root, err = storagePath(projectRoot, strategy)
		if err != nil {
			return nil, err
		}
	}

	if fsio.Exists(root) {
		return nil, fmt.Errorf("%s: %w", root, ErrAlreadyInitialized)
	}

	loc := &Location{root: root}
	for _, dir := range []string{root, loc.ObjectsDir(), loc.SnapshotsDir()} {
		if err := fsio.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
		}
	}
	return loc, nil
}

// FindExisting locates an initialized storage root, looking at the custom
// dir when given, then .mote, .git/mote and .jj/mote in order.
func FindExisting(projectRoot, customDir string) (*Location, error) {
	if customDir != "" {
		if fsio.Exists(customDir) {
			return &Location{root: customDir}, nil
		}
		return nil, fmt.Errorf("%s: %w", customDir, ErrNotInitialized)
	}

	candidates := []string{
		filepath.Join(projectRoot, StorageDirName),
		filepath.Join(projectRoot, ".git", "mote"),
		filepath.Join(projectRoot, ".jj", "mote"),
	}
	for _, c := range candidates {
		if fsio.Exists(c) {
			return &Location{root: c}, nil
		}
	}
	return nil, ErrNotInitialized
}

func storagePath(projectRoot, strategy string) (string, error) {
	switch strategy {
	case StrategyVCS:
		if vcs := findVCSDir(projectRoot); vcs != "" {
			return filepath.Join(vcs, "mote"), nil
		}
		return "", ErrNoVCSDirectory
	case StrategyAuto:
		if vcs := findVCSDir(projectRoot); vcs != "" {
			return filepath.Join(vcs, "mote"), nil
		}
		return filepath.Join(projectRoot, StorageDirName), nil
	default:
		return filepath.Join(projectRoot, StorageDirName), nil
	}
}

func findVCSDir(projectRoot string) string {
	for _, name := range []string{".git", ".jj"} {
		dir := filepath.Join(projectRoot, name)
		if fsio.IsDir(dir) {
			return dir
		}
	}
	return ""
}

// Root returns the storage root directory.
func (l *Location) Root() string {
	return l.root
}

// ObjectsDir returns the object store directory.
func (l *Location) ObjectsDir() string {
	return filepath.Join(l.root, "objects")
}

// SnapshotsDir returns the snapshot store directory.
func (l *Location) SnapshotsDir() string {
	return filepath.Join(l.root, "snapshots")
}

// IndexPath returns the index cache file path.
func (l *Location) IndexPath() string {
	return filepath.Join(l.root, "index")
}
