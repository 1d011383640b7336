package snapshot

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/motefs/mote/internal/fsio"
	"github.com/motefs/mote/internal/util"
)

var (
	ErrNotFound  = errors.New("snapshot not found")
	ErrAmbiguous = errors.New("ambiguous snapshot id")
)

// shortIDLen is the id prefix embedded in snapshot file names.
const shortIDLen = 12

// Store handles CRUD over snapshot files in a single directory. It assumes
// at most one mutating process per storage root; "exists on disk" is the
// only synchronization primitive.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the snapshots root directory.
func (st *Store) Dir() string {
	return st.dir
}

// Save stamps the content-derived id onto s and writes it as a new snapshot
// file. File entry hashes must already be stored in the object store; Save
// never writes blobs.
func (st *Store) Save(s *Snapshot) (string, error) {
	s.ID = GenerateID(s.Timestamp, s.Message, s.Files)

	if err := fsio.MkdirAll(st.dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshots dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json",
		s.Timestamp.UTC().Format("20060102_150405"),
		s.ID[:shortIDLen])
	if err := util.WriteJSON(filepath.Join(st.dir, name), s); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", s.ShortID(), err)
	}
	return s.ID, nil
}

// List returns snapshots sorted by timestamp descending, truncated to limit
// when limit > 0. Malformed snapshot files are skipped with a warning so one
// bad file never hides the rest of the history.
func (st *Store) List(limit int) ([]Snapshot, error) {
	entries, err := fsio.ReadDir(st.dir)
	if err != nil {
		if fsio.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	var snapshots []Snapshot
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(st.dir, e.Name())
		var s Snapshot
		if err := util.ReadJSON(path, &s); err != nil {
			logrus.WithField("file", path).Warnf("skipping unreadable snapshot: %v", err)
			continue
		}
		snapshots = append(snapshots, s)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.After(snapshots[j].Timestamp)
	})

	if limit > 0 && len(snapshots) > limit {
		snapshots = snapshots[:limit]
	}
	return snapshots, nil
}

// Load resolves a full or abbreviated snapshot id. A prefix matching more
// than one snapshot is an error rather than a scan-order coin toss.
//
// The id prefix embedded in each file name serves as the lookup index: only
// files whose name can match the prefix are parsed, and the parsed id is
// verified afterwards.
func (st *Store) Load(idOrPrefix string) (*Snapshot, error) {
	entries, err := fsio.ReadDir(st.dir)
	if err != nil {
		if fsio.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", idOrPrefix, ErrNotFound)
		}
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	var matches []Snapshot
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if !nameMatchesPrefix(e.Name(), idOrPrefix) {
			continue
		}
		path := filepath.Join(st.dir, e.Name())
		var s Snapshot
		if err := util.ReadJSON(path, &s); err != nil {
			logrus.WithField("file", path).Warnf("skipping unreadable snapshot: %v", err)
			continue
		}
		if strings.HasPrefix(s.ID, idOrPrefix) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%q: %w", idOrPrefix, ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d snapshots: %w", idOrPrefix, len(matches), ErrAmbiguous)
	}
}

// nameMatchesPrefix checks the short id embedded in a snapshot file name
// against an id prefix. It errs toward matching: a name that cannot be
// decided here is settled by parsing the file.
func nameMatchesPrefix(name, prefix string) bool {
	base := strings.TrimSuffix(name, ".json")
	i := strings.LastIndex(base, "_")
	if i < 0 {
		return true
	}
	short := base[i+1:]

	if len(prefix) <= len(short) {
		return strings.HasPrefix(short, prefix)
	}
	return strings.HasPrefix(prefix, short)
}

// Latest returns the most recent snapshot, or nil when the store is empty.
func (st *Store) Latest() (*Snapshot, error) {
	snapshots, err := st.List(1)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, nil
	}
	return &snapshots[0], nil
}

// Cleanup removes snapshots past the retention policy: any snapshot beyond
// the maxCount most recent, or older than maxAgeDays, is deleted. Blobs are
// never garbage-collected here; that is gc's job.
func (st *Store) Cleanup(maxCount, maxAgeDays int) (int, error) {
	snapshots, err := st.List(0)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	maxAge := time.Duration(maxAgeDays) * 24 * time.Hour
	removed := 0

	for i, s := range snapshots {
		if i < maxCount && now.Sub(s.Timestamp) <= maxAge {
			continue
		}
		if err := st.Delete(s.ID); err != nil {
			logrus.WithField("snapshot", s.ShortID()).Warnf("cleanup: %v", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Delete removes the snapshot file whose name embeds the given id.
func (st *Store) Delete(id string) error {
	if len(id) < shortIDLen {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}

	entries, err := fsio.ReadDir(st.dir)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}

	short := id[:shortIDLen]
	for _, e := range entries {
		if strings.Contains(e.Name(), short) {
			return fsio.Remove(filepath.Join(st.dir, e.Name()))
		}
	}
	return fmt.Errorf("%q: %w", id, ErrNotFound)
}
