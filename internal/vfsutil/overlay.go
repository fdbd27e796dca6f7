// Package vfsutil provides an in-memory overlay over a typescript-go
// filesystem. flowgen serves decoded and rewritten source text to the
// compiler through it, so the program never reads input files from disk
// directly.
package vfsutil

import (
	"io/fs"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/microsoft/typescript-go/shim/bundled"
	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs"
	"github.com/microsoft/typescript-go/shim/vfs/cachedvfs"
	"github.com/microsoft/typescript-go/shim/vfs/osvfs"
)

// ErrVirtualFile is returned when a caller tries to mutate an overlay file
// through the vfs.FS interface.
var ErrVirtualFile = errors.New("overlay file is read-only")

// Overlay wraps a base filesystem with in-memory files. Overlay files take
// precedence over the base filesystem.
type Overlay struct {
	base vfs.FS

	mu    sync.RWMutex
	files map[string]string
}

var _ vfs.FS = (*Overlay)(nil)

// New creates an overlay with the given files on top of base. The map is
// copied.
func New(base vfs.FS, files map[string]string) *Overlay {
	return &Overlay{base: base, files: maps.Clone(files)}
}

// NewDefault layers files over the cached OS filesystem with the bundled
// TypeScript lib files.
func NewDefault(files map[string]string) *Overlay {
	return New(bundled.WrapFS(cachedvfs.From(osvfs.FS())), files)
}

// Set adds or replaces an overlay file.
func (o *Overlay) Set(path, text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.files == nil {
		o.files = make(map[string]string)
	}
	o.files[path] = text
}

// Get returns an overlay file's text.
func (o *Overlay) Get(path string) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	text, ok := o.files[path]
	return text, ok
}

func (o *Overlay) UseCaseSensitiveFileNames() bool {
	return o.base.UseCaseSensitiveFileNames()
}

func (o *Overlay) FileExists(path string) bool {
	if _, ok := o.Get(path); ok {
		return true
	}
	return o.base.FileExists(path)
}

func (o *Overlay) ReadFile(path string) (contents string, ok bool) {
	if src, ok := o.Get(path); ok {
		return src, true
	}
	return o.base.ReadFile(path)
}

func (o *Overlay) DirectoryExists(path string) bool {
	prefix := dirPrefix(path)
	o.mu.RLock()
	for p := range o.files {
		if strings.HasPrefix(p, prefix) {
			o.mu.RUnlock()
			return true
		}
	}
	o.mu.RUnlock()
	return o.base.DirectoryExists(path)
}

func (o *Overlay) GetAccessibleEntries(path string) (result vfs.Entries) {
	result = o.base.GetAccessibleEntries(path)
	prefix := dirPrefix(path)

	o.mu.RLock()
	defer o.mu.RUnlock()
	for p := range o.files {
		rest, found := strings.CutPrefix(p, prefix)
		if !found {
			continue
		}
		if dir, _, nested := strings.Cut(rest, "/"); nested {
			result.Directories = append(result.Directories, dir)
		} else {
			result.Files = append(result.Files, rest)
		}
	}
	return result
}

func dirPrefix(path string) string {
	p := tspath.NormalizePath(path)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

type fileInfo struct {
	name string
	size int64
}

var (
	_ fs.FileInfo = (*fileInfo)(nil)
	_ fs.DirEntry = (*fileInfo)(nil)
)

func (fi *fileInfo) IsDir() bool                { return false }
func (fi *fileInfo) ModTime() time.Time         { return time.Time{} }
func (fi *fileInfo) Mode() fs.FileMode          { return 0o444 }
func (fi *fileInfo) Name() string               { return fi.name }
func (fi *fileInfo) Size() int64                { return fi.size }
func (fi *fileInfo) Sys() any                   { return nil }
func (fi *fileInfo) Info() (fs.FileInfo, error) { return fi, nil }
func (fi *fileInfo) Type() fs.FileMode          { return 0 }

func (o *Overlay) Stat(path string) vfs.FileInfo {
	if src, ok := o.Get(path); ok {
		return &fileInfo{name: path, size: int64(len(src))}
	}
	return o.base.Stat(path)
}

func (o *Overlay) WalkDir(root string, walkFn vfs.WalkDirFunc) error {
	return o.base.WalkDir(root, walkFn)
}

func (o *Overlay) Realpath(path string) string {
	if _, ok := o.Get(path); ok {
		return path
	}
	return o.base.Realpath(path)
}

func (o *Overlay) WriteFile(path string, data string, writeByteOrderMark bool) error {
	if _, ok := o.Get(path); ok {
		return errors.Wrapf(ErrVirtualFile, "write %s", path)
	}
	return o.base.WriteFile(path, data, writeByteOrderMark)
}

func (o *Overlay) Remove(path string) error {
	if _, ok := o.Get(path); ok {
		return errors.Wrapf(ErrVirtualFile, "remove %s", path)
	}
	return o.base.Remove(path)
}

func (o *Overlay) Chtimes(path string, aTime time.Time, mTime time.Time) error {
	if _, ok := o.Get(path); ok {
		return errors.Wrapf(ErrVirtualFile, "chtimes %s", path)
	}
	return o.base.Chtimes(path, aTime, mTime)
}
