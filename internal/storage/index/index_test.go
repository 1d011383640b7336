package index_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/motefs/mote/internal/storage/index"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index")

	mtime := time.Now()
	idx := index.New()
	idx.Insert(index.Entry{Path: "a.txt", Hash: "h1", Size: 5, Mtime: mtime.UnixNano()})

	require.NoError(t, idx.Save(path))

	loaded := index.Load(path)
	got := loaded.Unchanged("a.txt", mtime, 5)
	require.NotNil(t, got)
	require.Equal(t, "h1", got.Hash)
}

func TestUnchangedMissOnStaleMetadata(t *testing.T) {
	mtime := time.Now()
	idx := index.New()
	idx.Insert(index.Entry{Path: "a.txt", Hash: "h1", Size: 5, Mtime: mtime.UnixNano()})

	require.Nil(t, idx.Unchanged("a.txt", mtime.Add(time.Second), 5))
	require.Nil(t, idx.Unchanged("a.txt", mtime, 6))
	require.Nil(t, idx.Unchanged("b.txt", mtime, 5))
}

func TestLoadMissingFile(t *testing.T) {
	idx := index.Load(filepath.Join(t.TempDir(), "nope"))
	require.NotNil(t, idx)
	require.Empty(t, idx.Entries)
}

func TestLoadCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index")

	idx := index.New()
	idx.Insert(index.Entry{Path: "a.txt", Hash: "h1", Size: 5, Mtime: 1})
	require.NoError(t, idx.Save(path))

	// Flip a byte in the payload; the checksum must catch it.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-2] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded := index.Load(path)
	require.Empty(t, loaded.Entries)
}
