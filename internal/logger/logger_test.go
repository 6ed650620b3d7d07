package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestLogWritesFileAndMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "engine.txt")
	l := NewAt(path, zapcore.DebugLevel)
	l.Log("hello")
	l.Warn("texture missing", zap.String("path", "a.png"))
	l.Sync()

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "hello")
	assert.Contains(t, lines[1], "texture missing")
	assert.Contains(t, lines[1], "a.png")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "texture missing"))
}

func TestNamedSharesLines(t *testing.T) {
	l := FromZap(zaptest.NewLogger(t))
	l.Named("loader").Info("uploaded")
	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "loader")
}

func TestLinesAreBounded(t *testing.T) {
	l := Nop()
	for i := 0; i < maxLines+10; i++ {
		l.Debug("x")
	}
	assert.Len(t, l.Lines(), maxLines)
}
