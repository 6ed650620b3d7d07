package gputest

import (
	"errors"

	"game-engine/internal/window"

	"github.com/go-gl/mathgl/mgl32"
)

// Window is a headless window.Window. Tests drive input through State and close it with
// CloseAfter or RequestClose.
type Window struct {
	Width, Height int
	Title         string
	State         *window.InputState
	InitError     error

	// CloseAfter, when > 0, makes ShouldClose return true once it has been asked that many times.
	CloseAfter int

	Events  []string
	Updates int
	closes  int
	closed  bool
}

// NewWindow returns a 1280x720 headless window.
func NewWindow() *Window {
	return &Window{Width: 1280, Height: 720, State: window.NewInputState()}
}

// Init implements window.Window.
func (w *Window) Init() error {
	w.Events = append(w.Events, "init")
	return w.InitError
}

// Update implements window.Window. It starts a new input frame.
func (w *Window) Update() {
	w.Updates++
	w.State.BeginFrame()
}

// Cleanup implements window.Window.
func (w *Window) Cleanup() { w.Events = append(w.Events, "window cleanup") }

// Terminate implements window.Window.
func (w *Window) Terminate() { w.Events = append(w.Events, "terminate") }

// RequestClose makes the next ShouldClose return true.
func (w *Window) RequestClose() { w.closed = true }

// ShouldClose implements window.Window.
func (w *Window) ShouldClose() bool {
	w.closes++
	if w.CloseAfter > 0 && w.closes >= w.CloseAfter {
		w.closed = true
	}
	return w.closed
}

// SetTitle implements window.Window.
func (w *Window) SetTitle(title string) { w.Title = title }

// Size implements window.Window.
func (w *Window) Size() (int, int) { return w.Width, w.Height }

// AspectRatio implements window.Window.
func (w *Window) AspectRatio() float32 {
	if w.Height == 0 {
		return 1
	}
	return float32(w.Width) / float32(w.Height)
}

// IsKeyDown implements window.Window.
func (w *Window) IsKeyDown(k window.Key) bool { return w.State.KeyDown(k) }

// IsKeyPressed implements window.Window.
func (w *Window) IsKeyPressed(k window.Key) bool { return w.State.KeyPressed(k) }

// IsMouseDown implements window.Window.
func (w *Window) IsMouseDown(b window.MouseButton) bool { return w.State.ButtonDown(b) }

// IsMousePressed implements window.Window.
func (w *Window) IsMousePressed(b window.MouseButton) bool { return w.State.ButtonPressed(b) }

// MouseDelta implements window.Window.
func (w *Window) MouseDelta() mgl32.Vec2 { return w.State.MouseDelta() }

// Scroll implements window.Window.
func (w *Window) Scroll() float32 { return w.State.Scroll() }

// CaptureCursor implements window.Window.
func (w *Window) CaptureCursor() { w.State.SetCaptured(true) }

// ReleaseCursor implements window.Window.
func (w *Window) ReleaseCursor() { w.State.SetCaptured(false) }

// CursorCaptured implements window.Window.
func (w *Window) CursorCaptured() bool { return w.State.Captured() }

// ErrInit is a ready-made InitError.
var ErrInit = errors.New("gputest: context creation failed")

var _ window.Window = (*Window)(nil)
