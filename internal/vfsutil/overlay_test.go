package vfsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs/osvfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlay_VirtualFilesShadowBase(t *testing.T) {
	dir := tspath.NormalizePath(t.TempDir())
	onDisk := filepath.Join(dir, "disk.ts")
	require.NoError(t, os.WriteFile(onDisk, []byte("export {}"), 0o644))

	virtual := dir + "/virtual.ts"
	o := New(osvfs.FS(), map[string]string{virtual: "interface A {}"})

	text, ok := o.ReadFile(virtual)
	require.True(t, ok)
	assert.Equal(t, "interface A {}", text)
	assert.True(t, o.FileExists(virtual))
	assert.True(t, o.FileExists(tspath.NormalizePath(onDisk)))
	assert.Equal(t, virtual, o.Realpath(virtual))

	o.Set(virtual, "interface B {}")
	text, _ = o.ReadFile(virtual)
	assert.Equal(t, "interface B {}", text)
	assert.Equal(t, int64(len("interface B {}")), o.Stat(virtual).Size())
}

func TestOverlay_Directories(t *testing.T) {
	o := New(osvfs.FS(), map[string]string{"/virtual-root/pkg/index.d.ts": ""})
	assert.True(t, o.DirectoryExists("/virtual-root"))
	assert.True(t, o.DirectoryExists("/virtual-root/pkg/"))

	entries := o.GetAccessibleEntries("/virtual-root")
	assert.Contains(t, entries.Directories, "pkg")

	entries = o.GetAccessibleEntries("/virtual-root/pkg")
	assert.Contains(t, entries.Files, "index.d.ts")
}

func TestOverlay_MutationsRejected(t *testing.T) {
	o := New(osvfs.FS(), map[string]string{"/virtual-root/a.ts": ""})
	err := o.WriteFile("/virtual-root/a.ts", "x", false)
	assert.True(t, errors.Is(err, ErrVirtualFile))
	assert.True(t, errors.Is(o.Remove("/virtual-root/a.ts"), ErrVirtualFile))
}

func TestNew_CopiesInput(t *testing.T) {
	files := map[string]string{"/virtual-root/a.ts": "a"}
	o := New(osvfs.FS(), files)
	files["/virtual-root/a.ts"] = "changed"
	text, _ := o.Get("/virtual-root/a.ts")
	assert.Equal(t, "a", text)
}
