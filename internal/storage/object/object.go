// Package object is the content-addressed blob store. Objects are addressed
// by the SHA-256 of their uncompressed content and stored zstd-compressed
// under objects/<hash[:2]>/<hash[2:]>. Compression is a storage detail and
// never affects addressing.
package object

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/motefs/mote/internal/fsio"
)

var (
	ErrNotFound     = errors.New("object not found")
	ErrHashMismatch = errors.New("object content does not match its hash")
)

// DefaultCompressionLevel is the zstd level used when none is configured.
const DefaultCompressionLevel = 3

// Store is a content-addressed object store rooted at one directory.
type Store struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewStore opens a store at dir with the given zstd compression level.
func NewStore(dir string, level int) (*Store, error) {
	if level <= 0 {
		level = DefaultCompressionLevel
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Store{dir: dir, encoder: encoder, decoder: decoder}, nil
}

// ComputeHash returns the hex SHA-256 of content.
func ComputeHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Write stores content and returns its hash. Content already present is not
// rewritten.
func (s *Store) Write(content []byte) (string, error) {
	hash := ComputeHash(content)
	path := s.objectPath(hash)

	if fsio.Exists(path) {
		return hash, nil
	}

	compressed := s.encoder.EncodeAll(content, nil)
	if err := fsio.WriteFileAtomic(path, compressed, 0o644); err != nil {
		return "", fmt.Errorf("write object %s: %w", hash, err)
	}
	return hash, nil
}

// Read returns the content stored under hash, verifying it still matches
// its address.
func (s *Store) Read(hash string) ([]byte, error) {
	if len(hash) < 2 {
		return nil, fmt.Errorf("%q: %w", hash, ErrNotFound)
	}

	compressed, err := fsio.ReadFile(s.objectPath(hash))
	if err != nil {
		if fsio.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", hash, ErrNotFound)
		}
		return nil, fmt.Errorf("read object %s: %w", hash, err)
	}

	content, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: decompress: %w", hash, ErrHashMismatch)
	}
	if ComputeHash(content) != hash {
		return nil, fmt.Errorf("%s: %w", hash, ErrHashMismatch)
	}
	return content, nil
}

// Exists reports whether an object with the given hash is stored.
func (s *Store) Exists(hash string) bool {
	return len(hash) >= 2 && fsio.Exists(s.objectPath(hash))
}

// StoreFile reads the file at path and stores its content, returning the
// hash and the uncompressed size.
func (s *Store) StoreFile(path string) (string, int64, error) {
	content, err := fsio.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("read %q: %w", path, err)
	}
	hash, err := s.Write(content)
	if err != nil {
		return "", 0, err
	}
	return hash, int64(len(content)), nil
}

// RestoreFile writes the object stored under hash to dest, creating parent
// directories.
func (s *Store) RestoreFile(hash, dest string) error {
	content, err := s.Read(hash)
	if err != nil {
		return err
	}
	return fsio.WriteFileAtomic(dest, content, 0o644)
}

// List returns the hashes of all stored objects.
func (s *Store) List() ([]string, error) {
	prefixes, err := fsio.ReadDir(s.dir)
	if err != nil {
		if fsio.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list objects: %w", err)
	}

	var hashes []string
	for _, p := range prefixes {
		if !p.IsDir() || len(p.Name()) != 2 {
			continue
		}
		entries, err := fsio.ReadDir(filepath.Join(s.dir, p.Name()))
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				hashes = append(hashes, p.Name()+e.Name())
			}
		}
	}
	return hashes, nil
}

// Remove deletes the object stored under hash and returns the on-disk bytes
// freed. A missing object is a no-op. The fan-out directory is pruned when
// it becomes empty.
func (s *Store) Remove(hash string) (int64, error) {
	if len(hash) < 2 {
		return 0, nil
	}
	path := s.objectPath(hash)

	fi, err := fsio.Stat(path)
	if err != nil {
		if fsio.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("stat object %s: %w", hash, err)
	}

	if err := fsio.Remove(path); err != nil {
		return 0, fmt.Errorf("remove object %s: %w", hash, err)
	}

	// best effort, fails while the prefix dir still has entries
	_ = fsio.Remove(filepath.Dir(path))

	return fi.Size(), nil
}

func (s *Store) objectPath(hash string) string {
	return filepath.Join(s.dir, hash[:2], hash[2:])
}
