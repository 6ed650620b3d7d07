package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"game-engine/internal/gpu/gputest"
	"game-engine/internal/logger"
	"game-engine/internal/window"
)

// fakeClock advances by step on every Now and by d on every Sleep.
type fakeClock struct {
	now    time.Time
	step   time.Duration
	sleeps int
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps++
	c.now = c.now.Add(d)
}

type fakeGame struct {
	win     *gputest.Window
	initErr error
	inputs  int
	updates []float32
	renders int
	// onUpdate runs after every Update.
	onUpdate func(n int)
}

func (g *fakeGame) Init(window.Window) error { return g.initErr }
func (g *fakeGame) Input(window.Window)      { g.inputs++ }
func (g *fakeGame) Update(dt float32) {
	g.updates = append(g.updates, dt)
	if g.onUpdate != nil {
		g.onUpdate(len(g.updates))
	}
}
func (g *fakeGame) Render(window.Window) { g.renders++ }
func (g *fakeGame) Cleanup()             { g.win.Events = append(g.win.Events, "game cleanup") }

func setup(t *testing.T, step time.Duration) (*gputest.Window, *fakeGame, *fakeClock, Options) {
	t.Helper()
	w := gputest.NewWindow()
	g := &fakeGame{win: w}
	c := &fakeClock{now: time.Unix(0, 0), step: step}
	return w, g, c, Options{TargetUPS: 50, Title: "Test", Clock: c, Log: logger.FromZap(zaptest.NewLogger(t))}
}

func TestRunStepsAndRendersOncePerFrame(t *testing.T) {
	w, g, c, opts := setup(t, 25*time.Millisecond)
	w.CloseAfter = 40
	e := New(w, g, opts)

	require.NoError(t, e.Run())
	s := e.Stats()
	assert.Equal(t, uint64(40), s.Steps, "one close check per fixed step")
	assert.Greater(t, s.Frames, uint64(0))
	assert.LessOrEqual(t, s.Frames, s.Steps)
	assert.Equal(t, int(s.Frames), g.inputs)
	assert.Equal(t, int(s.Frames), g.renders)
	assert.Equal(t, int(s.Frames), w.Updates)
	require.Len(t, g.updates, int(s.Frames))
	for _, dt := range g.updates {
		assert.InDelta(t, 0.02, dt, 1e-6)
	}
	assert.Zero(t, c.sleeps)
}

func TestRunSleepsWhenNoStepIsDue(t *testing.T) {
	w, g, c, opts := setup(t, time.Millisecond)
	w.CloseAfter = 3
	require.NoError(t, New(w, g, opts).Run())
	assert.Greater(t, c.sleeps, 0)
}

func TestFPSShownInTitle(t *testing.T) {
	w, g, _, opts := setup(t, 25*time.Millisecond)
	w.CloseAfter = 200
	e := New(w, g, opts)
	require.NoError(t, e.Run())
	assert.Greater(t, e.Stats().FPS, 0)
	assert.Contains(t, w.Title, "Test | FPS:")
}

func TestCleanupOrder(t *testing.T) {
	w, g, _, opts := setup(t, 25*time.Millisecond)
	w.CloseAfter = 2
	require.NoError(t, New(w, g, opts).Run())
	assert.Equal(t, []string{"init", "game cleanup", "window cleanup", "terminate"}, w.Events)
}

func TestStopEndsLoop(t *testing.T) {
	w, g, _, opts := setup(t, 25*time.Millisecond)
	e := New(w, g, opts)
	g.onUpdate = func(n int) {
		if n == 3 {
			e.Stop()
		}
	}
	require.NoError(t, e.Run())
	assert.Len(t, g.updates, 3)
	assert.False(t, e.Running())
}

func TestWindowInitErrorIsFatal(t *testing.T) {
	w, g, _, opts := setup(t, 25*time.Millisecond)
	w.InitError = gputest.ErrInit
	err := New(w, g, opts).Run()
	assert.ErrorIs(t, err, gputest.ErrInit)
	assert.Equal(t, []string{"init", "terminate"}, w.Events)
	assert.Zero(t, g.inputs)
}

func TestGameInitErrorCleansUp(t *testing.T) {
	w, g, _, opts := setup(t, 25*time.Millisecond)
	g.initErr = errors.New("shader: compile failed")
	err := New(w, g, opts).Run()
	assert.ErrorIs(t, err, g.initErr)
	assert.Equal(t, []string{"init", "game cleanup", "window cleanup", "terminate"}, w.Events)
	assert.Zero(t, g.renders)
}

func TestPanicInLoopStillCleansUp(t *testing.T) {
	w, g, _, opts := setup(t, 25*time.Millisecond)
	g.onUpdate = func(n int) {
		if n == 2 {
			panic("boom")
		}
	}
	err := New(w, g, opts).Run()
	assert.ErrorIs(t, err, ErrLoopPanic)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{"init", "game cleanup", "window cleanup", "terminate"}, w.Events)
}
