// Package ignore filters worktree walks with gitignore-syntax patterns.
// Storage and VCS directories are always excluded, whether or not an ignore
// file exists.
package ignore

import (
	"io/fs"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/motefs/mote/internal/fsio"
)

// always-skipped directory names, independent of ignore patterns
var skipDirs = map[string]struct{}{
	".mote": {},
	".git":  {},
	".jj":   {},
}

// Filter matches relative paths against an ignore file. A missing ignore
// file yields a filter that ignores nothing.
type Filter struct {
	matcher *gitignore.GitIgnore
}

// NewFilter loads the ignore file at path. Load failures are treated the
// same as a missing file.
func NewFilter(path string) *Filter {
	if path == "" || !fsio.Exists(path) {
		return &Filter{}
	}
	matcher, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return &Filter{}
	}
	return &Filter{matcher: matcher}
}

// Ignored reports whether the relative slash path matches an ignore pattern.
func (f *Filter) Ignored(relPath string, isDir bool) bool {
	if f.matcher == nil {
		return false
	}
	if isDir {
		return f.matcher.MatchesPath(relPath + "/")
	}
	return f.matcher.MatchesPath(relPath)
}

// WalkFiles returns the relative slash paths of all regular files under
// root that pass the filter, in lexical (deterministic) order. Symlinks are
// skipped.
func (f *Filter) WalkFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			if f.Ignored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if f.Ignored(rel, false) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

const defaultIgnore = `# Mote ignore file
# Uses gitignore syntax

# Dependencies
node_modules/
vendor/
.venv/
venv/
__pycache__/

# Build outputs
target/
dist/
build/
*.o
*.a
*.so
*.dylib

# IDE and editor
.idea/
.vscode/
*.swp
*.swo
*~

# OS files
.DS_Store
Thumbs.db

# Logs
*.log
logs/

# Temporary files
*.tmp
*.temp
.cache/
`

// WriteDefault creates a default ignore file at path unless one exists.
func WriteDefault(path string) error {
	if fsio.Exists(path) {
		return nil
	}
	return fsio.WriteFile(path, []byte(defaultIgnore), 0o644)
}
