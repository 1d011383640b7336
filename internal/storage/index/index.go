// Package index caches (mtime, size) → hash per path so unchanged files are
// not re-hashed on every snapshot. The cache is disposable: any corruption
// is detected by checksum and answered by starting empty.
package index

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/motefs/mote/internal/fsio"
)

// Entry records the hash of one file at a given modification time and size.
type Entry struct {
	Path  string `json:"path"`
	Hash  string `json:"hash"`
	Size  int64  `json:"size"`
	Mtime int64  `json:"mtime"` // unix nanoseconds
}

// Index is the in-memory cache. Not safe for concurrent mutation; the
// single-writer model covers it.
type Index struct {
	Entries map[string]Entry `json:"entries"`
}

// New returns an empty index.
func New() *Index {
	return &Index{Entries: make(map[string]Entry)}
}

// Load reads the index file at path. A missing file, a checksum mismatch or
// an unparseable payload all yield an empty index; the cache is rebuilt as
// files are collected.
func Load(path string) *Index {
	data, err := fsio.ReadFile(path)
	if err != nil {
		return New()
	}

	sum, payload, ok := bytes.Cut(data, []byte("\n"))
	if !ok || len(sum) != 32 {
		return New()
	}
	digest := xxh3.Hash128(payload).Bytes()
	if hex.EncodeToString(digest[:]) != string(sum) {
		return New()
	}

	var idx Index
	if err := json.Unmarshal(payload, &idx); err != nil || idx.Entries == nil {
		return New()
	}
	return &idx
}

// Save writes the index atomically, prefixed with an xxh3 checksum of the
// JSON payload.
func (idx *Index) Save(path string) error {
	payload, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	digest := xxh3.Hash128(payload).Bytes()
	data := make([]byte, 0, len(payload)+33)
	data = append(data, hex.EncodeToString(digest[:])...)
	data = append(data, '\n')
	data = append(data, payload...)

	if err := fsio.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// Insert records or replaces the entry for its path.
func (idx *Index) Insert(e Entry) {
	idx.Entries[e.Path] = e
}

// Unchanged returns the cached entry for path when mtime and size still
// match, or nil.
func (idx *Index) Unchanged(path string, mtime time.Time, size int64) *Entry {
	e, ok := idx.Entries[path]
	if !ok || e.Mtime != mtime.UnixNano() || e.Size != size {
		return nil
	}
	return &e
}
