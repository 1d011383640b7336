// Package diff compares two manifests (snapshot file lists or a live-hashed
// working tree) and classifies every path as Added, Modified or Deleted.
// Content rendering is presentation-only and never affects classification.
package diff

import (
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/motefs/mote/internal/fsio"
	"github.com/motefs/mote/internal/storage/object"
	"github.com/motefs/mote/internal/storage/snapshot"
)

// Status classifies one path of a manifest comparison.
type Status int

const (
	Added Status = iota
	Modified
	Deleted
)

func (s Status) String() string {
	switch s {
	case Added:
		return "A"
	case Modified:
		return "M"
	case Deleted:
		return "D"
	default:
		return "?"
	}
}

// FileDiff is one changed path. OldHash is empty for Added, NewHash for
// Deleted.
type FileDiff struct {
	Path    string
	Status  Status
	OldHash string
	NewHash string
}

// Manifest maps relative slash paths to content hashes.
type Manifest map[string]string

// SnapshotManifest derives a manifest from a snapshot's file list.
func SnapshotManifest(s *snapshot.Snapshot) Manifest {
	return s.Manifest()
}

// WorktreeManifest hashes whatever currently exists on disk at each of the
// given relative paths. Paths missing from disk are absent from the result;
// unreadable files are warned about and skipped.
func WorktreeManifest(root string, paths []string) Manifest {
	m := make(Manifest, len(paths))
	for _, rel := range paths {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		content, err := fsio.ReadFile(abs)
		if err != nil {
			if !fsio.IsNotExist(err) {
				logrus.WithField("file", rel).Warnf("diff: read: %v", err)
			}
			continue
		}
		m[rel] = object.ComputeHash(content)
	}
	return m
}

// Compute classifies every path in the union of both manifests, in sorted
// path order. Unchanged paths are omitted.
func Compute(from, to Manifest) []FileDiff {
	union := make(map[string]struct{}, len(from)+len(to))
	for p := range from {
		union[p] = struct{}{}
	}
	for p := range to {
		union[p] = struct{}{}
	}

	paths := make([]string, 0, len(union))
	for p := range union {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var diffs []FileDiff
	for _, p := range paths {
		oldHash, inFrom := from[p]
		newHash, inTo := to[p]
		switch {
		case inFrom && !inTo:
			diffs = append(diffs, FileDiff{Path: p, Status: Deleted, OldHash: oldHash})
		case !inFrom && inTo:
			diffs = append(diffs, FileDiff{Path: p, Status: Added, NewHash: newHash})
		case oldHash != newHash:
			diffs = append(diffs, FileDiff{Path: p, Status: Modified, OldHash: oldHash, NewHash: newHash})
		}
	}
	return diffs
}
