package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"game-engine/internal/logger"
)

func TestPollReportsWrittenFile(t *testing.T) {
	dir := t.TempDir()
	level := filepath.Join(dir, "level.json")
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(level, []byte("{}"), 0644))

	w, err := New(logger.FromZap(zaptest.NewLogger(t)))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(level))
	assert.Empty(t, w.Poll())

	require.NoError(t, os.WriteFile(other, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(level, []byte(`{"entities":[]}`), 0644))

	abs, err := filepath.Abs(level)
	require.NoError(t, err)
	var got []string
	assert.Eventually(t, func() bool {
		got = append(got, w.Poll()...)
		return len(got) > 0
	}, 2*time.Second, 10*time.Millisecond)
	for _, p := range got {
		assert.Equal(t, abs, p)
	}
}

func TestCloseTwice(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
