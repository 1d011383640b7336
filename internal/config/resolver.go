package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// DefaultContext is the context used when none is named.
const DefaultContext = "default"

// ResolveOptions select which layers participate in resolution.
type ResolveOptions struct {
	ConfigDir           string // empty uses DefaultDir()
	Project             string // empty auto-detects from ProjectRoot
	Context             string // empty uses DefaultContext
	ProjectRoot         string
	AllowMissingProject bool // for commands that create the project
}

// Resolver holds the loaded layers of one resolution.
type Resolver struct {
	configDir   string
	global      Config
	project     *Project
	context     *Context
	projectName string
	contextName string
}

// Load reads the global, project and context layers per opts. The project is
// auto-detected from ProjectRoot when not named; a missing default context
// is tolerated, a missing named context is not.
func Load(opts ResolveOptions) (*Resolver, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		configDir = DefaultDir()
	}

	global, err := LoadFile(filepath.Join(configDir, ConfigFileName))
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		configDir:   configDir,
		global:      global,
		contextName: opts.Context,
	}
	if r.contextName == "" {
		r.contextName = DefaultContext
	}

	if opts.Project != "" {
		r.projectName = opts.Project
		p, err := LoadProject(configDir, opts.Project)
		if err != nil {
			if !opts.AllowMissingProject {
				return nil, err
			}
		} else {
			r.project = p
		}
	} else if name, err := FindProjectByPath(configDir, opts.ProjectRoot); err != nil {
		return nil, err
	} else if name != "" {
		p, err := LoadProject(configDir, name)
		if err != nil {
			return nil, err
		}
		r.projectName = name
		r.project = p
	}

	if r.project != nil {
		dir := r.project.ContextDir(configDir, r.projectName, r.contextName)
		c, err := LoadContext(dir, r.contextName)
		if err != nil {
			if opts.Context != "" {
				return nil, err
			}
		} else {
			r.context = c
		}
	}

	return r, nil
}

// Resolve merges the loaded layers, context over project over global.
func (r *Resolver) Resolve() Config {
	cfg := r.global
	if r.project != nil {
		merge(&cfg, r.project.Config)
	}
	if r.context != nil {
		merge(&cfg, r.context.Config)
	}
	return cfg
}

// ConfigDir returns the config directory of this resolution.
func (r *Resolver) ConfigDir() string { return r.configDir }

// ProjectName returns the resolved project name, "" when none matched.
func (r *Resolver) ProjectName() string { return r.projectName }

// ContextName returns the resolved context name.
func (r *Resolver) ContextName() string { return r.contextName }

// Project returns the loaded project layer, nil when none matched.
func (r *Resolver) Project() *Project { return r.project }

// ContextStorageDir returns the storage root of the resolved context, ""
// when no context layer is loaded.
func (r *Resolver) ContextStorageDir() string {
	if r.project == nil || r.context == nil {
		return ""
	}
	return StoragePath(r.project.ContextDir(r.configDir, r.projectName, r.contextName))
}

// ContextIgnorePath returns the ignore file of the resolved context, "" when
// no context layer is loaded.
func (r *Resolver) ContextIgnorePath() string {
	if r.project == nil || r.context == nil {
		return ""
	}
	return IgnorePath(r.project.ContextDir(r.configDir, r.projectName, r.contextName))
}

// EnsureProject loads the named project, creating its config when missing.
func EnsureProject(configDir, name, projectRoot string) (*Project, error) {
	p, err := LoadProject(configDir, name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProjectNotFound) {
		return nil, err
	}

	p = &Project{Path: projectRoot, Config: Default()}
	if err := p.Save(configDir, name); err != nil {
		return nil, fmt.Errorf("create project %q: %w", name, err)
	}
	return p, nil
}
