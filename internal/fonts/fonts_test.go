package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFonts(t *testing.T, dir string, names ...string) {
	for _, n := range names {
		p := filepath.Join(dir, filepath.FromSlash(n))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("font"), 0644))
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writeFonts(t, dir, "Inter/Inter-Bold.ttf", "Mono.OTF", "readme.txt")
	list, err := ScanDir(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Inter/Inter-Bold.ttf", "Mono.OTF"}, list)

	list, err = ScanDir(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.Empty(t, list)
}

func TestFindPrefersRegular(t *testing.T) {
	dir := t.TempDir()
	writeFonts(t, dir, "Inter/Inter-Bold.ttf", "Inter/Inter-Regular.ttf", "Roboto_Mono/RobotoMono.ttf")

	got, err := Find(dir, "inter")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Inter", "Inter-Regular.ttf"), got)

	got, err = Find(dir, "roboto mono")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Roboto_Mono", "RobotoMono.ttf"), got)

	_, err = Find(dir, "Comic")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = Find(dir, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindAcceptsPath(t *testing.T) {
	dir := t.TempDir()
	writeFonts(t, dir, "a/Custom.ttf")
	p := filepath.Join(dir, "a", "Custom.ttf")
	got, err := Find("elsewhere", p)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
