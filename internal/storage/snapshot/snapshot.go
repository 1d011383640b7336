// Package snapshot persists immutable snapshot records with content-derived
// identifiers. Snapshots are stored as individual JSON files named by
// timestamp plus a short id prefix, so a directory listing sorts
// chronologically without parsing any file.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"
)

// FileEntry is one row of a snapshot's manifest. Paths are relative to the
// project root and use forward slashes on every platform.
type FileEntry struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
	Size int64  `json:"size"`
	Mode string `json:"mode,omitempty"`
}

// Snapshot is an immutable capture of a file manifest plus metadata. The ID
// is derived from timestamp, message and the (path, hash) pairs; it is
// assigned by Store.Save, never by the caller.
type Snapshot struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Message   string      `json:"message,omitempty"`
	Files     []FileEntry `json:"files"`
	Trigger   string      `json:"trigger,omitempty"`
	GitCommit string      `json:"git_commit,omitempty"`
}

// New builds an unsaved snapshot stamped with the current UTC time.
func New(files []FileEntry, message, trigger string) *Snapshot {
	return &Snapshot{
		Timestamp: time.Now().UTC(),
		Message:   message,
		Files:     files,
		Trigger:   trigger,
	}
}

// GenerateID derives the snapshot identifier. Two snapshots with identical
// timestamp, message and file set collide to the same id; that is the
// identity rule, not an error.
func GenerateID(timestamp time.Time, message string, files []FileEntry) string {
	paths := make([]string, 0, len(files))
	index := make(map[string]string, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
		index[f.Path] = f.Hash
	}
	sort.Strings(paths)

	h := sha256.New()
	h.Write([]byte(timestamp.UTC().Format(time.RFC3339Nano)))
	h.Write([]byte(message))
	for _, p := range paths {
		h.Write([]byte(p))
		h.Write([]byte(index[p]))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ShortID returns the abbreviated display form of the id.
func (s *Snapshot) ShortID() string {
	if len(s.ID) < 7 {
		return s.ID
	}
	return s.ID[:7]
}

// FileCount returns the number of manifest entries.
func (s *Snapshot) FileCount() int {
	return len(s.Files)
}

// FindFile returns the manifest entry for path, or nil.
func (s *Snapshot) FindFile(path string) *FileEntry {
	for i := range s.Files {
		if s.Files[i].Path == path {
			return &s.Files[i]
		}
	}
	return nil
}

// Manifest returns the snapshot's path → hash mapping.
func (s *Snapshot) Manifest() map[string]string {
	m := make(map[string]string, len(s.Files))
	for _, f := range s.Files {
		m[f.Path] = f.Hash
	}
	return m
}

// SameManifest reports whether two file sets carry identical (path, hash)
// pairs. Used by auto snapshots to skip no-change captures.
func SameManifest(a, b []FileEntry) bool {
	if len(a) != len(b) {
		return false
	}
	m := make(map[string]string, len(a))
	for _, f := range a {
		m[f.Path] = f.Hash
	}
	for _, f := range b {
		if m[f.Path] != f.Hash {
			return false
		}
	}
	return true
}
