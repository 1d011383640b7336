package diff_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motefs/mote/internal/diff"
	"github.com/motefs/mote/internal/storage/object"
	"github.com/motefs/mote/internal/storage/snapshot"
)

func TestComputeClassification(t *testing.T) {
	from := diff.Manifest{"a.txt": "h1", "gone.txt": "h9"}
	to := diff.Manifest{"a.txt": "h2", "b.txt": "h3"}

	diffs := diff.Compute(from, to)
	require.Len(t, diffs, 3)

	require.Equal(t, "a.txt", diffs[0].Path)
	require.Equal(t, diff.Modified, diffs[0].Status)
	require.Equal(t, "h1", diffs[0].OldHash)
	require.Equal(t, "h2", diffs[0].NewHash)

	require.Equal(t, "b.txt", diffs[1].Path)
	require.Equal(t, diff.Added, diffs[1].Status)

	require.Equal(t, "gone.txt", diffs[2].Path)
	require.Equal(t, diff.Deleted, diffs[2].Status)
}

func TestComputeOmitsUnchanged(t *testing.T) {
	from := diff.Manifest{"same.txt": "h1"}
	to := diff.Manifest{"same.txt": "h1"}
	require.Empty(t, diff.Compute(from, to))
}

func TestComputeSymmetry(t *testing.T) {
	a := diff.Manifest{"only-in-a.txt": "h1"}
	b := diff.Manifest{}

	forward := diff.Compute(a, b)
	require.Len(t, forward, 1)
	require.Equal(t, diff.Deleted, forward[0].Status)

	backward := diff.Compute(b, a)
	require.Len(t, backward, 1)
	require.Equal(t, diff.Added, backward[0].Status)
}

func TestComputeSnapshotScenario(t *testing.T) {
	snapA := &snapshot.Snapshot{Files: []snapshot.FileEntry{{Path: "a.txt", Hash: "h1"}}}
	snapB := &snapshot.Snapshot{Files: []snapshot.FileEntry{
		{Path: "a.txt", Hash: "h2"},
		{Path: "b.txt", Hash: "h3"},
	}}

	diffs := diff.Compute(diff.SnapshotManifest(snapA), diff.SnapshotManifest(snapB))
	require.Len(t, diffs, 2)
	require.Equal(t, "a.txt", diffs[0].Path)
	require.Equal(t, diff.Modified, diffs[0].Status)
	require.Equal(t, "b.txt", diffs[1].Path)
	require.Equal(t, diff.Added, diffs[1].Status)
}

func TestWorktreeManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))

	m := diff.WorktreeManifest(root, []string{"a.txt", "missing.txt"})
	require.Len(t, m, 1)
	require.Equal(t, object.ComputeHash([]byte("hello")), m["a.txt"])
}

func TestLineOps(t *testing.T) {
	ops := diff.LineOps("one\ntwo\nthree\n", "one\n2\nthree\nfour\n")

	var deletes, inserts []diff.LineOp
	for _, op := range ops {
		switch op.Kind {
		case diff.OpDelete:
			deletes = append(deletes, op)
		case diff.OpInsert:
			inserts = append(inserts, op)
		}
	}

	require.Len(t, deletes, 1)
	require.Equal(t, 2, deletes[0].Line)
	require.Equal(t, "two", deletes[0].Text)

	require.Len(t, inserts, 2)
	require.Equal(t, 2, inserts[0].Line)
	require.Equal(t, "2", inserts[0].Text)
	require.Equal(t, 4, inserts[1].Line)
	require.Equal(t, "four", inserts[1].Text)
}

func TestLineOpsAddedFile(t *testing.T) {
	ops := diff.LineOps("", "first\nsecond\n")
	require.Len(t, ops, 2)
	require.Equal(t, diff.OpInsert, ops[0].Kind)
	require.Equal(t, 1, ops[0].Line)
	require.Equal(t, diff.OpInsert, ops[1].Kind)
	require.Equal(t, 2, ops[1].Line)
}

func TestLineOpsTrailingNewlineAddsNoExtraLine(t *testing.T) {
	// A trailing newline must not produce an operation numbered past the
	// last real line.
	ops := diff.LineOps("", "first\nsecond\n")
	require.Len(t, ops, 2)
	for _, op := range ops {
		require.LessOrEqual(t, op.Line, 2)
	}

	ops = diff.LineOps("first\nsecond\n", "")
	require.Len(t, ops, 2)
	require.Equal(t, diff.OpDelete, ops[0].Kind)
	require.Equal(t, 2, ops[1].Line)

	for _, op := range diff.LineOps("a\nb\n", "a\nb\n") {
		require.Equal(t, diff.OpEqual, op.Kind)
		require.LessOrEqual(t, op.Line, 2)
	}
}

func TestWriteLineDiff(t *testing.T) {
	objects, err := object.NewStore(t.TempDir(), 3)
	require.NoError(t, err)

	oldHash, err := objects.Write([]byte("alpha\nbeta\n"))
	require.NoError(t, err)
	newHash, err := objects.Write([]byte("alpha\ngamma\n"))
	require.NoError(t, err)

	e := &diff.Engine{Objects: objects}
	var buf bytes.Buffer
	err = e.WriteLineDiff(&buf, diff.FileDiff{
		Path:    "a.txt",
		Status:  diff.Modified,
		OldHash: oldHash,
		NewHash: newHash,
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "--- a.txt")
	require.Contains(t, out, "-2: beta")
	require.Contains(t, out, "+2: gamma")
	require.NotContains(t, out, "alpha")
}

func TestWriteLineDiffMissingObjectIsNonFatal(t *testing.T) {
	objects, err := object.NewStore(t.TempDir(), 3)
	require.NoError(t, err)

	e := &diff.Engine{Objects: objects}
	var buf bytes.Buffer
	err = e.WriteLineDiff(&buf, diff.FileDiff{
		Path:    "a.txt",
		Status:  diff.Modified,
		OldHash: "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
		NewHash: "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
	})
	require.NoError(t, err)
	require.Empty(t, buf.String())
}

func TestWriteUnified(t *testing.T) {
	objects, err := object.NewStore(t.TempDir(), 3)
	require.NoError(t, err)

	oldHash, err := objects.Write([]byte("alpha\nbeta\n"))
	require.NoError(t, err)
	newHash, err := objects.Write([]byte("alpha\ngamma\n"))
	require.NoError(t, err)

	e := &diff.Engine{Objects: objects}
	var buf bytes.Buffer
	err = e.WriteUnified(&buf, diff.FileDiff{
		Path:    "a.txt",
		Status:  diff.Modified,
		OldHash: oldHash,
		NewHash: newHash,
	}, 3)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "diff --mote a/a.txt b/a.txt")
	require.Contains(t, out, "--- a/a.txt")
	require.Contains(t, out, "+++ b/a.txt")
	require.Contains(t, out, "-beta")
	require.Contains(t, out, "+gamma")
}

func TestWriteLineDiffWorktreeSource(t *testing.T) {
	objects, err := object.NewStore(t.TempDir(), 3)
	require.NoError(t, err)

	oldHash, err := objects.Write([]byte("from snapshot\n"))
	require.NoError(t, err)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("from disk\n"), 0o644))

	e := &diff.Engine{Objects: objects, WorktreeRoot: root}
	var buf bytes.Buffer
	err = e.WriteLineDiff(&buf, diff.FileDiff{
		Path:    "a.txt",
		Status:  diff.Modified,
		OldHash: oldHash,
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "-1: from snapshot")
	require.Contains(t, out, "+1: from disk")
}
