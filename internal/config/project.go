package config

import (
	"fmt"
	"path/filepath"

	yaml "gopkg.in/yaml.v2"

	"github.com/motefs/mote/internal/fsio"
)

// Project is one project layer: the project's working directory plus its
// config overrides. Contexts records contexts stored outside the default
// location.
type Project struct {
	Path     string            `yaml:"path"`
	Contexts map[string]string `yaml:"contexts,omitempty"`
	Config   Config            `yaml:",inline"`
}

// ProjectDir returns the directory holding a project's config and contexts.
func ProjectDir(configDir, name string) string {
	return filepath.Join(configDir, "projects", name)
}

// LoadProject reads the named project's config layer.
func LoadProject(configDir, name string) (*Project, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	path := filepath.Join(ProjectDir(configDir, name), ConfigFileName)
	data, err := fsio.ReadFile(path)
	if err != nil {
		if fsio.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", name, ErrProjectNotFound)
		}
		return nil, fmt.Errorf("read project config %q: %w", name, err)
	}

	p := Project{Config: Default()}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project config %q: %w", name, err)
	}
	return &p, nil
}

// Save writes the project's config layer, creating the project directory.
func (p *Project) Save(configDir, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project config: %w", err)
	}
	path := filepath.Join(ProjectDir(configDir, name), ConfigFileName)
	return fsio.WriteFileAtomic(path, data, 0o644)
}

// RegisterContext records a context stored at a custom directory.
func (p *Project) RegisterContext(name, dir string) {
	if p.Contexts == nil {
		p.Contexts = make(map[string]string)
	}
	p.Contexts[name] = dir
}

// UnregisterContext forgets a custom context directory.
func (p *Project) UnregisterContext(name string) {
	delete(p.Contexts, name)
}

// ContextDir returns the directory of the named context, honoring a custom
// registration.
func (p *Project) ContextDir(configDir, projectName, contextName string) string {
	if dir, ok := p.Contexts[contextName]; ok {
		return dir
	}
	return filepath.Join(ProjectDir(configDir, projectName), "contexts", contextName)
}

// ListProjects returns the names of all configured projects.
func ListProjects(configDir string) ([]string, error) {
	entries, err := fsio.ReadDir(filepath.Join(configDir, "projects"))
	if err != nil {
		if fsio.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// FindProjectByPath returns the name of the project whose recorded path
// matches projectRoot, or "" when none does.
func FindProjectByPath(configDir, projectRoot string) (string, error) {
	want := canonical(projectRoot)

	names, err := ListProjects(configDir)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		p, err := LoadProject(configDir, name)
		if err != nil {
			continue
		}
		if canonical(p.Path) == want {
			return name, nil
		}
	}
	return "", nil
}

func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
