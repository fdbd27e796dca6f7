// Package buildcache lets the CLI skip a translation whose inputs, settings
// and outputs are exactly as they were after the last successful run.
//
// The cache is all or nothing: inputs are compiled as one program, so a
// change to any input invalidates every output.
package buildcache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// SchemaVersion is bumped when the cache format or the printed output
// changes, forcing a full run after an upgrade.
const SchemaVersion = 1

// FileName is the cache file written next to the outputs.
const FileName = ".flowgen-cache"

// Cache records what was true when the last run succeeded.
type Cache struct {
	V int `json:"v"`

	// Settings is a digest of everything besides the inputs that shapes
	// the output: translation options, header and module wrapper.
	Settings string `json:"settings"`

	// Inputs maps each input path to the digest of its content.
	Inputs map[string]string `json:"inputs"`

	// Outputs lists the files that must still exist for the cache to hold.
	Outputs []string `json:"outputs"`
}

// CachePath returns the cache file path inside dir.
func CachePath(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads a cache file. It returns nil when the file is missing or
// unreadable; callers treat nil as a miss.
func Load(path string) *Cache {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	return &c
}

// Save writes the cache atomically (write to temp, rename).
func Save(path string, cache *Cache) error {
	data, err := json.Marshal(cache, jsontext.WithIndent("  "), json.Deterministic(true))
	if err != nil {
		return errors.Wrap(err, "marshaling cache")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating cache directory %s", dir)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "writing cache temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "renaming cache file")
	}
	return nil
}

// Delete removes the cache file. Errors are ignored.
func Delete(path string) {
	_ = os.Remove(path)
}

// IsValid reports whether a run with the given settings and input digests
// would reproduce the cached outputs:
//
//  1. the schema version matches;
//  2. the settings digest matches;
//  3. the same inputs have the same digests;
//  4. every output still exists.
func (c *Cache) IsValid(settings string, inputs map[string]string) bool {
	if c == nil || c.V != SchemaVersion || c.Settings != settings {
		return false
	}
	if len(c.Inputs) != len(inputs) {
		return false
	}
	for path, digest := range inputs {
		if digest == "" || c.Inputs[path] != digest {
			return false
		}
	}
	for _, path := range c.Outputs {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// HashFile returns the SHA-256 hex digest of a file's content, or "" when
// it cannot be read.
func HashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return HashBytes(data)
}

// HashBytes returns the SHA-256 hex digest of data.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// HashFiles digests every path.
func HashFiles(paths []string) map[string]string {
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		out[p] = HashFile(p)
	}
	return out
}

// New creates a cache with the current schema version.
func New(settings string, inputs map[string]string, outputs []string) *Cache {
	return &Cache{
		V:        SchemaVersion,
		Settings: settings,
		Inputs:   inputs,
		Outputs:  outputs,
	}
}
