// Package collect turns the working tree into a snapshot manifest: every
// file passing the ignore filter is hashed and stored in the object store.
// The index cache short-circuits files whose mtime and size are unchanged.
package collect

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/mmap"

	"github.com/motefs/mote/internal/fsio"
	"github.com/motefs/mote/internal/ignore"
	"github.com/motefs/mote/internal/storage/index"
	"github.com/motefs/mote/internal/storage/object"
	"github.com/motefs/mote/internal/storage/snapshot"
)

// Files above this size are read through a memory map instead of a plain
// read, keeping large-tree snapshots off the allocator's hot path.
const mmapThreshold = 8 << 20

// Files walks root through the filter, stores each file's content and
// returns the manifest entries in deterministic path order. Per-file
// failures are logged and skipped so one unreadable file never aborts a
// snapshot. quiet suppresses the warnings (used by auto snapshots).
func Files(root string, filter *ignore.Filter, objects *object.Store, idx *index.Index, quiet bool) ([]snapshot.FileEntry, error) {
	paths, err := filter.WalkFiles(root)
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", root, err)
	}

	var entries []snapshot.FileEntry
	for _, rel := range paths {
		abs := filepath.Join(root, filepath.FromSlash(rel))

		fi, err := fsio.Stat(abs)
		if err != nil {
			warn(quiet, rel, "stat", err)
			continue
		}
		mode := fmt.Sprintf("%04o", fi.Mode().Perm())

		if cached := idx.Unchanged(rel, fi.ModTime(), fi.Size()); cached != nil {
			entries = append(entries, snapshot.FileEntry{
				Path: rel,
				Hash: cached.Hash,
				Size: cached.Size,
				Mode: mode,
			})
			continue
		}

		content, err := readFile(abs, fi.Size())
		if err != nil {
			warn(quiet, rel, "read", err)
			continue
		}

		hash, err := objects.Write(content)
		if err != nil {
			warn(quiet, rel, "store", err)
			continue
		}

		idx.Insert(index.Entry{
			Path:  rel,
			Hash:  hash,
			Size:  int64(len(content)),
			Mtime: fi.ModTime().UnixNano(),
		})
		entries = append(entries, snapshot.FileEntry{
			Path: rel,
			Hash: hash,
			Size: int64(len(content)),
			Mode: mode,
		})
	}
	return entries, nil
}

// readFile reads the whole file, memory-mapping it past the threshold.
func readFile(path string, size int64) ([]byte, error) {
	if size < mmapThreshold {
		return fsio.ReadFile(path)
	}

	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data := make([]byte, r.Len())
	if _, err := r.ReadAt(data, 0); err != nil {
		return nil, err
	}
	return data, nil
}

func warn(quiet bool, rel, op string, err error) {
	if quiet {
		return
	}
	logrus.WithField("file", rel).Warnf("collect: %s: %v", op, err)
}
