package config

import (
	"fmt"
	"path/filepath"

	yaml "gopkg.in/yaml.v2"

	"github.com/motefs/mote/internal/fsio"
)

// Context is one context layer inside a project. Each context carries its
// own storage directory and ignore file, so snapshots taken under different
// contexts never mix.
type Context struct {
	Cwd        string `yaml:"cwd,omitempty"`
	ContextDir string `yaml:"context_dir,omitempty"`
	Config     Config `yaml:",inline"`
}

// LoadContext reads the context config from dir.
func LoadContext(dir, name string) (*Context, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	data, err := fsio.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		if fsio.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", name, ErrContextNotFound)
		}
		return nil, fmt.Errorf("read context config %q: %w", name, err)
	}

	c := Context{Config: Default()}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse context config %q: %w", name, err)
	}
	return &c, nil
}

// Save writes the context config to dir and provisions the context's storage
// layout. An existing context is never overwritten.
func (c *Context) Save(dir, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	path := filepath.Join(dir, ConfigFileName)
	if fsio.Exists(path) {
		return fmt.Errorf("%q: %w", name, ErrContextExists)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode context config: %w", err)
	}
	if err := fsio.WriteFileAtomic(path, data, 0o644); err != nil {
		return err
	}

	storage := StoragePath(dir)
	for _, sub := range []string{storage, filepath.Join(storage, "objects"), filepath.Join(storage, "snapshots")} {
		if err := fsio.MkdirAll(sub, 0o755); err != nil {
			return fmt.Errorf("create context storage: %w", err)
		}
	}
	return nil
}

// ListContexts returns the context names of a project's default contexts
// directory.
func ListContexts(projectDir string) ([]string, error) {
	entries, err := fsio.ReadDir(filepath.Join(projectDir, "contexts"))
	if err != nil {
		if fsio.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list contexts: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// StoragePath returns the snapshot storage root inside a context directory.
func StoragePath(contextDir string) string {
	return filepath.Join(contextDir, "storage")
}

// IgnorePath returns the ignore file inside a context directory.
func IgnorePath(contextDir string) string {
	return filepath.Join(contextDir, "ignore")
}
