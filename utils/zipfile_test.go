package utils

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return zipPath
}

func TestExtractZip(t *testing.T) {
	zipPath := writeTestZip(t, map[string]string{
		"Example.app/Info.plist":        "<plist/>",
		"Example.app/Contents/binary":   "1010",
		"Example.app/Frameworks/lib.so": "elf",
	})

	dir, err := ExtractZip(zipPath)
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	content, err := os.ReadFile(filepath.Join(dir, "Example.app", "Info.plist"))
	require.NoError(t, err)
	assert.Equal(t, "<plist/>", string(content))
}

func TestExtractZip_RejectsEscapingEntries(t *testing.T) {
	zipPath := writeTestZip(t, map[string]string{
		"ok.txt":            "fine",
		"../../escaped.txt": "not fine",
	})

	dir, err := ExtractZip(zipPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside of extraction directory")
	assert.Empty(t, dir, "no directory should survive a failed extraction")
}

func TestExtractZip_CleansUpOnFailure(t *testing.T) {
	zipPath := writeTestZip(t, map[string]string{
		"../evil.txt": "x",
	})

	_, err := ExtractZip(zipPath)
	require.Error(t, err)

	// the evil entry must not land next to the temp dir
	_, err = os.Stat(filepath.Join(os.TempDir(), "evil.txt"))
	assert.True(t, os.IsNotExist(err), "escaping entry must not be written outside the extraction directory")
}

func TestFindAppBundle(t *testing.T) {
	root := t.TempDir()
	appDir := filepath.Join(root, "Payload", "Example.app")
	require.NoError(t, os.MkdirAll(appDir, 0o755))

	found, err := FindAppBundle(root)
	require.NoError(t, err)
	assert.Equal(t, appDir, found)
}

func TestFindAppBundle_NoneFound(t *testing.T) {
	_, err := FindAppBundle(t.TempDir())
	assert.Error(t, err)
}
