// Package gc reclaims objects no longer referenced by any surviving
// snapshot. Snapshot cleanup never deletes blobs; this mark-and-sweep pass
// is the only way storage is reclaimed.
package gc

import (
	"github.com/sirupsen/logrus"

	"github.com/motefs/mote/internal/storage/object"
	"github.com/motefs/mote/internal/storage/snapshot"
)

// Refs is the mark set: every hash referenced by a surviving snapshot.
type Refs struct {
	hashes map[string]struct{}
}

// NewRefs returns an empty mark set.
func NewRefs() *Refs {
	return &Refs{hashes: make(map[string]struct{})}
}

// MarkSnapshot adds every file hash of s to the mark set.
func (r *Refs) MarkSnapshot(s *snapshot.Snapshot) {
	for _, f := range s.Files {
		r.hashes[f.Hash] = struct{}{}
	}
}

// Referenced reports whether hash is marked.
func (r *Refs) Referenced(hash string) bool {
	_, ok := r.hashes[hash]
	return ok
}

// Count returns the number of marked hashes.
func (r *Refs) Count() int {
	return len(r.hashes)
}

// Stats summarizes a sweep.
type Stats struct {
	DeletedObjects int
	DeletedBytes   int64
}

// Unreferenced marks all hashes reachable from the snapshot store and
// returns the stored objects that are not reachable.
func Unreferenced(snaps *snapshot.Store, objects *object.Store) ([]string, error) {
	all, err := snaps.List(0)
	if err != nil {
		return nil, err
	}

	refs := NewRefs()
	for i := range all {
		refs.MarkSnapshot(&all[i])
	}

	hashes, err := objects.List()
	if err != nil {
		return nil, err
	}

	var orphans []string
	for _, h := range hashes {
		if !refs.Referenced(h) {
			orphans = append(orphans, h)
		}
	}
	return orphans, nil
}

// Sweep deletes the given objects. A failed deletion is logged and skipped;
// the sweep continues with the remaining objects.
func Sweep(objects *object.Store, hashes []string) Stats {
	var stats Stats
	for _, h := range hashes {
		freed, err := objects.Remove(h)
		if err != nil {
			logrus.WithField("object", h).Warnf("gc: %v", err)
			continue
		}
		stats.DeletedObjects++
		stats.DeletedBytes += freed
	}
	return stats
}

// AutoSweep runs a sweep only once the number of unreferenced objects
// reaches threshold. It returns the stats and whether a sweep ran.
func AutoSweep(snaps *snapshot.Store, objects *object.Store, threshold int) (Stats, bool, error) {
	orphans, err := Unreferenced(snaps, objects)
	if err != nil {
		return Stats{}, false, err
	}
	if threshold <= 0 || len(orphans) < threshold {
		return Stats{}, false, nil
	}
	return Sweep(objects, orphans), true, nil
}
