package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSetsUnsetVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nENGINE_TEST_A=1\nexport ENGINE_TEST_B='two words'\nbroken line\nENGINE_TEST_C=file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("ENGINE_TEST_C", "process")
	t.Setenv("ENGINE_TEST_A", "")
	require.NoError(t, os.Unsetenv("ENGINE_TEST_A"))
	t.Setenv("ENGINE_TEST_B", "")
	require.NoError(t, os.Unsetenv("ENGINE_TEST_B"))

	require.NoError(t, Load(path))
	assert.Equal(t, "1", os.Getenv("ENGINE_TEST_A"))
	assert.Equal(t, "two words", os.Getenv("ENGINE_TEST_B"))
	assert.Equal(t, "process", os.Getenv("ENGINE_TEST_C"))
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, Load(filepath.Join(t.TempDir(), "nope")))
}

func TestTypedLookups(t *testing.T) {
	t.Setenv("ENGINE_TEST_INT", "42")
	t.Setenv("ENGINE_TEST_FLOAT", "0.5")
	t.Setenv("ENGINE_TEST_BOOL", "true")
	t.Setenv("ENGINE_TEST_BAD", "x")

	assert.Equal(t, 42, Int("ENGINE_TEST_INT", 1))
	assert.Equal(t, float32(0.5), Float("ENGINE_TEST_FLOAT", 1))
	assert.True(t, Bool("ENGINE_TEST_BOOL", false))
	assert.Equal(t, 7, Int("ENGINE_TEST_BAD", 7))
	assert.Equal(t, "def", String("ENGINE_TEST_UNSET_XYZ", "def"))
}
