package filepathparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath_AbsolutePath(t *testing.T) {
	absPath, _ := os.Getwd()
	result, err := ParsePath(absPath)
	require.NoError(t, err)
	assert.Equal(t, absPath, result)
}

func TestParsePath_HomeDir(t *testing.T) {
	home, _ := os.UserHomeDir()
	result, err := ParsePath("~/testdir/file.txt")
	require.NoError(t, err)

	expected, _ := filepath.Abs(filepath.Join(home, "testdir", "file.txt"))
	assert.Equal(t, expected, result)
}

func TestParsePath_EmptyPath(t *testing.T) {
	result, err := ParsePath("")
	require.NoError(t, err)

	wd, _ := os.Getwd()
	assert.Equal(t, wd, result)
}

func TestCatalogCachePath(t *testing.T) {
	base := t.TempDir()

	path, err := CatalogCachePath(base, "US", "en")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "_azureSdk", "catalogApi", "US.en"), path)

	_, err = CatalogCachePath(base, "", "en")
	assert.Error(t, err)
	_, err = CatalogCachePath(base, "../US", "en")
	assert.Error(t, err)
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "canonical.ubuntu-24_04.json", SafeFileName("canonical.ubuntu-24_04", ".json"))
	assert.Equal(t, "__etc_passwd.json", SafeFileName("../etc/passwd", ".json"))
}
