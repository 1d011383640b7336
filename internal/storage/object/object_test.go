package object_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/motefs/mote/internal/storage/object"
)

func newStore(t *testing.T, level int) *object.Store {
	t.Helper()
	s, err := object.NewStore(t.TempDir(), level)
	require.NoError(t, err)
	return s
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := newStore(t, 3)

	content := []byte("hello content store")
	hash, err := s.Write(content)
	require.NoError(t, err)
	require.Len(t, hash, 64)
	require.Equal(t, object.ComputeHash(content), hash)

	got, err := s.Read(hash)
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestWriteDeduplicates(t *testing.T) {
	s := newStore(t, 3)

	h1, err := s.Write([]byte("same bytes"))
	require.NoError(t, err)
	h2, err := s.Write([]byte("same bytes"))
	require.NoError(t, err)
	require.Equal(t, h1, h2)

	hashes, err := s.List()
	require.NoError(t, err)
	require.Len(t, hashes, 1)
}

func TestAddressingIgnoresCompressionLevel(t *testing.T) {
	content := []byte("compression level must not change the address")
	want := object.ComputeHash(content)

	for _, level := range []int{1, 3, 9, 19} {
		s := newStore(t, level)
		hash, err := s.Write(content)
		require.NoError(t, err)
		require.Equal(t, want, hash, "level %d", level)

		got, err := s.Read(hash)
		require.NoError(t, err)
		require.Equal(t, content, got, "level %d", level)
	}
}

func TestReadMissingObject(t *testing.T) {
	s := newStore(t, 3)

	_, err := s.Read("deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	require.ErrorIs(t, err, object.ErrNotFound)

	_, err = s.Read("")
	require.ErrorIs(t, err, object.ErrNotFound)
}

func TestReadDetectsSwappedContent(t *testing.T) {
	dir := t.TempDir()
	s, err := object.NewStore(dir, 3)
	require.NoError(t, err)

	hash, err := s.Write([]byte("original"))
	require.NoError(t, err)

	// Overwrite with a valid zstd frame of different content: decompression
	// succeeds but the hash no longer matches.
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	forged := enc.EncodeAll([]byte("tampered"), nil)
	path := filepath.Join(dir, hash[:2], hash[2:])
	require.NoError(t, os.WriteFile(path, forged, 0o644))

	_, err = s.Read(hash)
	require.ErrorIs(t, err, object.ErrHashMismatch)
}

func TestFanOutLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := object.NewStore(dir, 3)
	require.NoError(t, err)

	hash, err := s.Write([]byte("where am I stored"))
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(dir, hash[:2], hash[2:]))
}

func TestStoreFileAndRestoreFile(t *testing.T) {
	s := newStore(t, 3)
	work := t.TempDir()

	src := filepath.Join(work, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("file content"), 0o644))

	hash, size, err := s.StoreFile(src)
	require.NoError(t, err)
	require.Equal(t, int64(len("file content")), size)

	dest := filepath.Join(work, "sub", "dest.txt")
	require.NoError(t, s.RestoreFile(hash, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, []byte("file content"), got)
}

func TestRemove(t *testing.T) {
	s := newStore(t, 3)

	hash, err := s.Write([]byte("short lived"))
	require.NoError(t, err)

	freed, err := s.Remove(hash)
	require.NoError(t, err)
	require.Positive(t, freed)
	require.False(t, s.Exists(hash))

	// removing again is a no-op
	freed, err = s.Remove(hash)
	require.NoError(t, err)
	require.Zero(t, freed)
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	s, err := object.NewStore(dir, 3)
	require.NoError(t, err)

	h1, err := s.Write([]byte("healthy one"))
	require.NoError(t, err)
	h2, err := s.Write([]byte("about to be damaged"))
	require.NoError(t, err)

	path := filepath.Join(dir, h2[:2], h2[2:])
	require.NoError(t, os.WriteFile(path, []byte("not zstd"), 0o644))

	checks, err := s.Verify(2)
	require.NoError(t, err)
	require.Len(t, checks, 2)

	byHash := make(map[string]object.Check, len(checks))
	for _, c := range checks {
		byHash[c.Hash] = c
	}
	require.Equal(t, object.StatusOK, byHash[h1].Status)
	require.Equal(t, object.StatusDamaged, byHash[h2].Status)
	require.Error(t, byHash[h2].Err)
}
