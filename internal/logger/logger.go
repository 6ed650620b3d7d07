package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFilePath is the path to the engine log file, relative to the working directory (project root when run via go run ./cmd/game).
const LogFilePath = "logs/engine.txt"

// maxLines bounds the in-memory copy of recent entries.
const maxLines = 256

// Logger writes structured entries through zap to the log file and keeps the most recent lines in memory
// (the debug overlay shows the last warning from here).
type Logger struct {
	z   *zap.Logger
	buf *lineBuffer
}

type lineBuffer struct {
	mu    sync.Mutex
	lines []string
}

// New returns a Logger appending to LogFilePath and ensures the logs directory exists.
// If the file cannot be opened, entries are only kept in memory.
func New() *Logger {
	return NewAt(LogFilePath, zapcore.DebugLevel)
}

// NewAt returns a Logger appending to path at the given minimum level.
func NewAt(path string, level zapcore.Level) *Logger {
	l := &Logger{buf: &lineBuffer{}}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		l.z = zap.New(l.memoryCore(level))
		return l
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	fileCore := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(f), level)
	l.z = zap.New(zapcore.NewTee(fileCore, l.memoryCore(level)))
	return l
}

// FromZap wraps an existing zap logger (tests pass zaptest.NewLogger(t)). Lines are still recorded.
func FromZap(z *zap.Logger) *Logger {
	l := &Logger{buf: &lineBuffer{}}
	l.z = z.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, l.memoryCore(zapcore.DebugLevel))
	}))
	return l
}

// Nop returns a Logger that discards file output and keeps only in-memory lines.
func Nop() *Logger {
	l := &Logger{buf: &lineBuffer{}}
	l.z = zap.New(l.memoryCore(zapcore.DebugLevel))
	return l
}

func (l *Logger) memoryCore(level zapcore.Level) zapcore.Core {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	return zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(l.buf), level)
}

func (b *lineBuffer) Write(p []byte) (int, error) {
	line := string(p)
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	b.mu.Lock()
	b.lines = append(b.lines, line)
	if len(b.lines) > maxLines {
		b.lines = b.lines[len(b.lines)-maxLines:]
	}
	b.mu.Unlock()
	return len(p), nil
}

// Log records a plain info line.
func (l *Logger) Log(line string) {
	l.z.Info(line)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }

// Info logs at info level.
func (l *Logger) Info(msg string, fields ...zap.Field) { l.z.Info(msg, fields...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields ...zap.Field) { l.z.Warn(msg, fields...) }

// Error logs at error level.
func (l *Logger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }

// Named returns a child logger whose entries are prefixed with name. It shares the line buffer.
func (l *Logger) Named(name string) *Logger {
	return &Logger{z: l.z.Named(name), buf: l.buf}
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger { return l.z }

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.buf.mu.Lock()
	defer l.buf.mu.Unlock()
	out := make([]string, len(l.buf.lines))
	copy(out, l.buf.lines)
	return out
}

// Sync flushes buffered file output.
func (l *Logger) Sync() {
	_ = l.z.Sync()
}
