package snapshot

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/motefs/mote/internal/fsio"
)

// gitHead returns the commit hash the project's .git/HEAD points at, or ""
// when the project is not a git repository or the ref cannot be resolved.
func gitHead(root string) string {
	head, err := fsio.ReadFile(filepath.Join(root, ".git", "HEAD"))
	if err != nil {
		return ""
	}

	line := strings.TrimSpace(string(head))
	if !strings.HasPrefix(line, "ref: ") {
		// detached HEAD holds the hash directly
		return line
	}
	ref := strings.TrimPrefix(line, "ref: ")

	if data, err := fsio.ReadFile(filepath.Join(root, ".git", filepath.FromSlash(ref))); err == nil {
		return strings.TrimSpace(string(data))
	}
	return packedRef(filepath.Join(root, ".git", "packed-refs"), ref)
}

// packedRef scans packed-refs for the given ref name.
func packedRef(path, ref string) string {
	data, err := fsio.ReadFile(path)
	if err != nil {
		return ""
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' || line[0] == '^' {
			continue
		}
		hash, name, ok := strings.Cut(line, " ")
		if ok && name == ref {
			return hash
		}
	}
	return ""
}
