// Package restore materializes snapshot files onto the filesystem. Whole-
// snapshot restores are destructive, so they default to backup-first and
// skip-on-conflict; force opts out of both safety nets at once.
package restore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/motefs/mote/internal/fsio"
	"github.com/motefs/mote/internal/ignore"
	"github.com/motefs/mote/internal/storage/collect"
	"github.com/motefs/mote/internal/storage/index"
	"github.com/motefs/mote/internal/storage/object"
	"github.com/motefs/mote/internal/storage/snapshot"
)

// ErrFileNotFoundInSnapshot is returned by single-file restore when the
// requested path is absent from the target manifest.
var ErrFileNotFoundInSnapshot = errors.New("file not found in snapshot")

// BackupTrigger marks automatic pre-restore backup snapshots.
const BackupTrigger = "auto-backup"

// Engine restores files for one project root.
type Engine struct {
	Root    string
	Objects *object.Store
	Snaps   *snapshot.Store
	Filter  *ignore.Filter
	Index   *index.Index
}

// Options select what and how to restore.
type Options struct {
	File   string // single file to restore; empty restores the whole snapshot
	Force  bool   // overwrite local modifications, skip the backup snapshot
	DryRun bool   // report without touching the filesystem
	Quiet  bool   // suppress per-file warnings while collecting the backup
}

// Result summarizes one restore invocation.
type Result struct {
	Snapshot *snapshot.Snapshot
	Restored int
	Skipped  int
	BackupID string               // id of the pre-restore backup, if one was taken
	Planned  []snapshot.FileEntry // dry-run: entries that would be restored
}

// Restore resolves the target snapshot and materializes it per opts.
func (e *Engine) Restore(idOrPrefix string, opts Options) (*Result, error) {
	snap, err := e.Snaps.Load(idOrPrefix)
	if err != nil {
		return nil, err
	}

	if opts.File != "" {
		return e.restoreSingle(snap, opts)
	}
	return e.restoreAll(snap, opts)
}

func (e *Engine) restoreSingle(snap *snapshot.Snapshot, opts Options) (*Result, error) {
	rel := e.relPath(opts.File)
	entry := snap.FindFile(rel)
	if entry == nil {
		return nil, fmt.Errorf("%q: %w", rel, ErrFileNotFoundInSnapshot)
	}

	res := &Result{Snapshot: snap}
	if opts.DryRun {
		res.Planned = []snapshot.FileEntry{*entry}
		return res, nil
	}

	if err := e.restoreEntry(*entry); err != nil {
		return nil, err
	}
	res.Restored = 1
	return res, nil
}

func (e *Engine) restoreAll(snap *snapshot.Snapshot, opts Options) (*Result, error) {
	res := &Result{Snapshot: snap}

	if opts.DryRun {
		res.Planned = append(res.Planned, snap.Files...)
		return res, nil
	}

	if !opts.Force {
		backupID, err := e.backup(snap, opts.Quiet)
		if err != nil {
			return nil, fmt.Errorf("create backup snapshot: %w", err)
		}
		res.BackupID = backupID
	}

	for _, entry := range snap.Files {
		dest := filepath.Join(e.Root, filepath.FromSlash(entry.Path))

		if !opts.Force {
			switch e.localState(dest, entry.Hash) {
			case localModified, localUnreadable:
				res.Skipped++
				continue
			}
		}

		if err := e.restoreEntry(entry); err != nil {
			logrus.WithField("file", entry.Path).Warnf("restore: %v", err)
			continue
		}
		res.Restored++
	}
	return res, nil
}

// backup snapshots the current working tree before it is overwritten. With
// nothing trackable there is nothing to protect, so no snapshot is taken.
func (e *Engine) backup(target *snapshot.Snapshot, quiet bool) (string, error) {
	idx := e.Index
	if idx == nil {
		idx = index.New()
	}

	files, err := collect.Files(e.Root, e.Filter, e.Objects, idx, quiet)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", nil
	}

	b := snapshot.New(files, "Backup before restore to "+target.ShortID(), BackupTrigger)
	return e.Snaps.Save(b)
}

type state int

const (
	localAbsent state = iota
	localClean
	localModified
	localUnreadable
)

// localState compares the on-disk content at dest with the target hash.
func (e *Engine) localState(dest, wantHash string) state {
	content, err := fsio.ReadFile(dest)
	if err != nil {
		if fsio.IsNotExist(err) {
			return localAbsent
		}
		logrus.WithField("file", dest).Warnf("restore: read local copy: %v", err)
		return localUnreadable
	}
	if object.ComputeHash(content) == wantHash {
		return localClean
	}
	return localModified
}

// restoreEntry writes one manifest entry to disk and reapplies its mode.
func (e *Engine) restoreEntry(entry snapshot.FileEntry) error {
	dest := filepath.Join(e.Root, filepath.FromSlash(entry.Path))
	if err := e.Objects.RestoreFile(entry.Hash, dest); err != nil {
		return err
	}
	if entry.Mode != "" {
		if mode, err := strconv.ParseUint(entry.Mode, 8, 32); err == nil {
			_ = os.Chmod(dest, os.FileMode(mode))
		}
	}
	return nil
}

// relPath normalizes a user-supplied file argument to a slash-separated
// path relative to the project root.
func (e *Engine) relPath(file string) string {
	if filepath.IsAbs(file) {
		if rel, err := filepath.Rel(e.Root, file); err == nil && !strings.HasPrefix(rel, "..") {
			file = rel
		}
	}
	return filepath.ToSlash(filepath.Clean(file))
}
