// Package config implements the three-layer configuration hierarchy: a
// global config, per-project configs keyed by working directory, and named
// contexts within a project. Later layers override earlier ones.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v2"

	"github.com/motefs/mote/internal/fsio"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrContextNotFound = errors.New("context not found")
	ErrContextExists   = errors.New("context already exists")
	ErrInvalidName     = errors.New("invalid name")
)

// ConfigFileName is the config file inside every layer directory.
const ConfigFileName = "config.yaml"

// Storage settings.
type Storage struct {
	LocationStrategy string `yaml:"location_strategy"`
	CompressionLevel int    `yaml:"compression_level"`
}

// Snapshot retention and garbage collection settings.
type Snapshot struct {
	AutoCleanup   bool `yaml:"auto_cleanup"`
	MaxSnapshots  int  `yaml:"max_snapshots"`
	MaxAgeDays    int  `yaml:"max_age_days"`
	GCAutoEnabled bool `yaml:"gc_auto_enabled"`
	GCAuto        int  `yaml:"gc_auto"`
}

// Ignore settings.
type Ignore struct {
	IgnoreFile string `yaml:"ignore_file"`
}

// Config is one layer's settings. Zero-valued fields fall back to Default()
// values on load, and only non-default fields override lower layers. A field
// set to its default value is indistinguishable from an unset one, so a
// higher layer cannot re-assert a default over a lower layer's override.
type Config struct {
	Storage  Storage  `yaml:"storage"`
	Snapshot Snapshot `yaml:"snapshot"`
	Ignore   Ignore   `yaml:"ignore"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Storage: Storage{
			LocationStrategy: "root",
			CompressionLevel: 3,
		},
		Snapshot: Snapshot{
			AutoCleanup:   true,
			MaxSnapshots:  1000,
			MaxAgeDays:    30,
			GCAutoEnabled: false,
			GCAuto:        100,
		},
		Ignore: Ignore{
			IgnoreFile: ".moteignore",
		},
	}
}

// DefaultDir returns the default config directory, ~/.config/mote on Linux.
func DefaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".config", "mote")
	}
	return filepath.Join(base, "mote")
}

// LoadFile reads one config layer. A missing file yields defaults; fields
// absent from the file keep their default value.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := fsio.ReadFile(path)
	if err != nil {
		if fsio.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return fsio.WriteFileAtomic(path, data, 0o644)
}

// SaveDefault writes the default global config to configDir unless one
// already exists.
func SaveDefault(configDir string) error {
	path := filepath.Join(configDir, ConfigFileName)
	if fsio.Exists(path) {
		return nil
	}
	return Default().Save(path)
}

// merge overlays src's non-default fields onto dst.
func merge(dst *Config, src Config) {
	def := Default()

	if src.Storage.LocationStrategy != def.Storage.LocationStrategy {
		dst.Storage.LocationStrategy = src.Storage.LocationStrategy
	}
	if src.Storage.CompressionLevel != def.Storage.CompressionLevel {
		dst.Storage.CompressionLevel = src.Storage.CompressionLevel
	}

	if src.Snapshot.AutoCleanup != def.Snapshot.AutoCleanup {
		dst.Snapshot.AutoCleanup = src.Snapshot.AutoCleanup
	}
	if src.Snapshot.MaxSnapshots != def.Snapshot.MaxSnapshots {
		dst.Snapshot.MaxSnapshots = src.Snapshot.MaxSnapshots
	}
	if src.Snapshot.MaxAgeDays != def.Snapshot.MaxAgeDays {
		dst.Snapshot.MaxAgeDays = src.Snapshot.MaxAgeDays
	}
	if src.Snapshot.GCAutoEnabled != def.Snapshot.GCAutoEnabled {
		dst.Snapshot.GCAutoEnabled = src.Snapshot.GCAutoEnabled
	}
	if src.Snapshot.GCAuto != def.Snapshot.GCAuto {
		dst.Snapshot.GCAuto = src.Snapshot.GCAuto
	}

	if src.Ignore.IgnoreFile != def.Ignore.IgnoreFile {
		dst.Ignore.IgnoreFile = src.Ignore.IgnoreFile
	}
}

// windows device names, refused as project/context names
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// ValidateName checks a project or context name before it becomes part of a
// filesystem path.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if len(name) > 255 {
		return fmt.Errorf("%w: name too long (%d chars)", ErrInvalidName, len(name))
	}

	first := rune(name[0])
	if !isAlpha(first) && first != '_' {
		return fmt.Errorf("%w: %q must start with a letter or underscore", ErrInvalidName, name)
	}
	for _, c := range name {
		if !isAlpha(c) && !isDigit(c) && c != '-' && c != '_' {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, c)
		}
	}

	upper := toUpperASCII(name)
	if _, reserved := reservedNames[upper]; reserved {
		return fmt.Errorf("%w: %q is a reserved word", ErrInvalidName, name)
	}
	return nil
}

func isAlpha(c rune) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
