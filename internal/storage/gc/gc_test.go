package gc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/motefs/mote/internal/storage/gc"
	"github.com/motefs/mote/internal/storage/object"
	"github.com/motefs/mote/internal/storage/snapshot"
)

func setup(t *testing.T) (*snapshot.Store, *object.Store) {
	t.Helper()
	objects, err := object.NewStore(t.TempDir(), 3)
	require.NoError(t, err)
	return snapshot.NewStore(t.TempDir()), objects
}

func TestUnreferencedAndSweep(t *testing.T) {
	snaps, objects := setup(t)

	kept, err := objects.Write([]byte("kept"))
	require.NoError(t, err)
	orphan, err := objects.Write([]byte("orphan"))
	require.NoError(t, err)

	s := &snapshot.Snapshot{
		Timestamp: time.Now().UTC(),
		Files:     []snapshot.FileEntry{{Path: "kept.txt", Hash: kept, Size: 4}},
	}
	_, err = snaps.Save(s)
	require.NoError(t, err)

	orphans, err := gc.Unreferenced(snaps, objects)
	require.NoError(t, err)
	require.Equal(t, []string{orphan}, orphans)

	stats := gc.Sweep(objects, orphans)
	require.Equal(t, 1, stats.DeletedObjects)
	require.Greater(t, stats.DeletedBytes, int64(0))

	require.True(t, objects.Exists(kept))
	require.False(t, objects.Exists(orphan))
}

func TestUnreferencedEmptyWhenAllReachable(t *testing.T) {
	snaps, objects := setup(t)

	hash, err := objects.Write([]byte("content"))
	require.NoError(t, err)

	s := &snapshot.Snapshot{
		Timestamp: time.Now().UTC(),
		Files:     []snapshot.FileEntry{{Path: "a.txt", Hash: hash, Size: 7}},
	}
	_, err = snaps.Save(s)
	require.NoError(t, err)

	orphans, err := gc.Unreferenced(snaps, objects)
	require.NoError(t, err)
	require.Empty(t, orphans)
}

func TestAutoSweepThreshold(t *testing.T) {
	snaps, objects := setup(t)

	_, err := objects.Write([]byte("orphan one"))
	require.NoError(t, err)
	_, err = objects.Write([]byte("orphan two"))
	require.NoError(t, err)

	_, ran, err := gc.AutoSweep(snaps, objects, 3)
	require.NoError(t, err)
	require.False(t, ran, "below threshold, sweep must not run")

	stats, ran, err := gc.AutoSweep(snaps, objects, 2)
	require.NoError(t, err)
	require.True(t, ran)
	require.Equal(t, 2, stats.DeletedObjects)
}
