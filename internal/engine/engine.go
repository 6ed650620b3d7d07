// Package engine drives a Game with a fixed-timestep loop on the thread that owns the window.
package engine

import (
	"errors"
	"fmt"
	"time"

	"game-engine/internal/logger"
	"game-engine/internal/window"

	"go.uber.org/zap"
)

// ErrLoopPanic is returned by Run when the game panicked inside the steady-state loop.
var ErrLoopPanic = errors.New("engine: panic in game loop")

// Game is the logic driven by the engine. Every method runs on the window's thread.
type Game interface {
	// Init loads resources. An error aborts Run.
	Init(w window.Window) error
	Input(w window.Window)
	// Update advances the simulation by dt seconds (always the fixed step).
	Update(dt float32)
	Render(w window.Window)
	Cleanup()
}

// Clock abstracts wall time so tests can drive the loop deterministically.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Options configures the loop.
type Options struct {
	// TargetUPS is the fixed update rate; <= 0 means 60.
	TargetUPS float64
	// Title is the window title; the frame rate is appended once per second.
	Title string
	Clock Clock
	Log   *logger.Logger
}

// FrameStats is owned by the loop and read by overlays. Values are only written on the loop thread.
type FrameStats struct {
	// FPS is the number of rendered frames during the last full second.
	FPS int
	// Steps counts fixed steps consumed since Run started.
	Steps uint64
	// Frames counts rendered frames since Run started.
	Frames uint64
	// FrameTime is the wall time of the last loop iteration that rendered.
	FrameTime time.Duration
}

// idleSleep is how long the loop yields when no fixed step was due.
const idleSleep = time.Millisecond

// Engine owns the loop state.
type Engine struct {
	win     window.Window
	game    Game
	opts    Options
	log     *logger.Logger
	stats   FrameStats
	running bool
}

// New returns an engine for g on w. Nothing is initialized until Run.
func New(w window.Window, g Game, opts Options) *Engine {
	if opts.TargetUPS <= 0 {
		opts.TargetUPS = 60
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{win: w, game: g, opts: opts, log: log.Named("engine")}
}

// Stats returns the loop-owned frame statistics.
func (e *Engine) Stats() *FrameStats { return &e.stats }

// Stop makes the loop exit at the next fixed-step boundary.
func (e *Engine) Stop() { e.running = false }

// Running reports whether the loop is active.
func (e *Engine) Running() bool { return e.running }

// Run initializes the window and the game, then loops until the window asks to close or Stop is
// called. On exit it cleans up the game, then the window, then terminates the context. Init
// errors are returned as they are; a panic inside the loop is returned wrapped in ErrLoopPanic.
func (e *Engine) Run() (err error) {
	if err := e.win.Init(); err != nil {
		e.win.Terminate()
		return fmt.Errorf("engine: window init: %w", err)
	}
	defer e.cleanup()
	if err := e.game.Init(e.win); err != nil {
		return fmt.Errorf("engine: game init: %w", err)
	}
	e.log.Info("loop started", zap.Float64("ups", e.opts.TargetUPS))
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("game loop panicked", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("%w: %v", ErrLoopPanic, r)
		}
	}()
	e.loop()
	e.log.Info("loop stopped", zap.Uint64("frames", e.stats.Frames), zap.Uint64("steps", e.stats.Steps))
	return nil
}

func (e *Engine) loop() {
	frameTime := time.Duration(float64(time.Second) / e.opts.TargetUPS)
	dt := float32(frameTime.Seconds())
	clock := e.opts.Clock
	last := clock.Now()
	var unprocessed, frameCounter time.Duration
	frames := 0

	e.running = true
	for e.running {
		render := false
		start := clock.Now()
		passed := start.Sub(last)
		last = start
		unprocessed += passed
		frameCounter += passed

		for unprocessed > frameTime {
			render = true
			unprocessed -= frameTime
			e.stats.Steps++
			if e.win.ShouldClose() {
				e.Stop()
				break
			}
			if frameCounter >= time.Second {
				e.stats.FPS = frames
				frames = 0
				frameCounter = 0
				e.updateTitle()
			}
		}
		if !e.running {
			break
		}
		if !render {
			clock.Sleep(idleSleep)
			continue
		}
		e.game.Input(e.win)
		e.game.Update(dt)
		e.game.Render(e.win)
		e.win.Update()
		frames++
		e.stats.Frames++
		e.stats.FrameTime = clock.Now().Sub(start)
	}
}

func (e *Engine) updateTitle() {
	if e.opts.Title == "" {
		return
	}
	e.win.SetTitle(fmt.Sprintf("%s | FPS: %d", e.opts.Title, e.stats.FPS))
}

func (e *Engine) cleanup() {
	e.running = false
	e.game.Cleanup()
	e.win.Cleanup()
	e.win.Terminate()
	e.log.Sync()
}
