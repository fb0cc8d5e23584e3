package listing

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	return dir
}

func TestList(t *testing.T) {
	dir := fixture(t)

	got, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, "FILE a.json\nFILE b.txt\nDIR  sub\n", got)
}

func TestListEmptyDirectory(t *testing.T) {
	got, err := List(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestListMissingDirectory(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestListOnFile(t *testing.T) {
	dir := fixture(t)
	_, err := List(filepath.Join(dir, "b.txt"))
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestListSkipsInvalidUTF8Names(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok"), nil, 0o644))
	if err := os.WriteFile(filepath.Join(dir, "bad\xff"), nil, 0o644); err != nil {
		t.Skipf("filesystem rejects non-UTF-8 names: %v", err)
	}

	got, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, "FILE ok\n", got)
}

// brokenReader returns some names and then fails, like a directory read
// interrupted by an I/O error.
type brokenReader struct {
	names []string
}

func (r brokenReader) Readdirnames(n int) ([]string, error) {
	return r.names, errors.New("input/output error")
}

func TestCollectKeepsNamesFromFailedRead(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a"), 0o755))

	entries := collect(dir, brokenReader{names: []string{"b.txt", "a"}})
	assert.Equal(t, []Entry{
		{Name: "a", Kind: KindDir},
		{Name: "b.txt", Kind: KindFile},
	}, entries)
}

func TestEntries(t *testing.T) {
	dir := fixture(t)

	entries, err := Entries(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Name: "a.json", Kind: KindFile}, entries[0])
	assert.Equal(t, Entry{Name: "b.txt", Kind: KindFile}, entries[1])
	assert.Equal(t, Entry{Name: "sub", Kind: KindDir}, entries[2])
}

func TestEntriesBrokenSymlinkIsDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "dangling")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.txt"), nil, 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "real.txt"), filepath.Join(dir, "link.txt")))

	entries, err := Entries(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Test: Failed stat is classified as a directory
	assert.Equal(t, Entry{Name: "dangling", Kind: KindDir}, entries[0])
	// Test: Symlinks are followed
	assert.Equal(t, Entry{Name: "link.txt", Kind: KindFile}, entries[1])
	assert.Equal(t, Entry{Name: "real.txt", Kind: KindFile}, entries[2])
}

func TestKindTag(t *testing.T) {
	assert.Equal(t, "FILE ", KindFile.Tag())
	assert.Equal(t, "DIR  ", KindDir.Tag())
	assert.Len(t, KindFile.Tag(), 5)
	assert.Len(t, KindDir.Tag(), 5)
	assert.Equal(t, "DIR", KindDir.String())
}
