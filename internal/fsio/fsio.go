package fsio

import (
	"os"
	"path/filepath"
)

// Hooks for filesystem operations
// used for testing
var (
	Open       = os.Open
	ReadFile   = os.ReadFile
	WriteFile  = os.WriteFile
	Stat       = os.Stat
	ReadDir    = os.ReadDir
	Remove     = os.Remove
	Rename     = os.Rename
	CreateTemp = os.CreateTemp
	MkdirAll   = os.MkdirAll
	IsNotExist = os.IsNotExist
	Exists     = func(path string) bool { _, err := Stat(path); return err == nil }
	IsDir      = func(path string) bool { fi, err := Stat(path); return err == nil && fi.IsDir() }
)

// WriteFileAtomic writes data to path via a temp file in the same directory
// followed by a rename, so a concurrent reader never observes a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return Rename(tmpPath, path)
}
