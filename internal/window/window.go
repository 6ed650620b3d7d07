package window

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Key is a keyboard key code. Values match GLFW/raylib key codes so backends can pass them through.
type Key int32

const (
	KeySpace     Key = 32
	KeyA         Key = 65
	KeyD         Key = 68
	KeyE         Key = 69
	KeyF         Key = 70
	KeyQ         Key = 81
	KeyS         Key = 83
	KeyW         Key = 87
	KeyEscape    Key = 256
	KeyEnter     Key = 257
	KeyRight     Key = 262
	KeyLeft      Key = 263
	KeyDown      Key = 264
	KeyUp        Key = 265
	KeyF3        Key = 292
	KeyF5        Key = 294
	KeyLeftShift Key = 340
	KeyLeftCtrl  Key = 341
)

// TrackedKeys lists the keys a backend polls every frame. Edge-triggered queries only work for these.
var TrackedKeys = []Key{
	KeySpace, KeyA, KeyD, KeyE, KeyF, KeyQ, KeyS, KeyW,
	KeyEscape, KeyEnter, KeyRight, KeyLeft, KeyDown, KeyUp,
	KeyF3, KeyF5, KeyLeftShift, KeyLeftCtrl,
}

// MouseButton is a mouse button index (0 left, 1 right, 2 middle).
type MouseButton int32

const (
	MouseLeft   MouseButton = 0
	MouseRight  MouseButton = 1
	MouseMiddle MouseButton = 2
)

// Window owns the graphics context, the surface and input. Everything that draws or polls input
// goes through it, on the thread that called Init.
type Window interface {
	// Init creates the window and graphics context. A failure here is fatal.
	Init() error
	// Update presents the frame and polls events.
	Update()
	// Cleanup destroys the window.
	Cleanup()
	// Terminate tears down the context and the error callback. Called after Cleanup.
	Terminate()
	ShouldClose() bool
	SetTitle(title string)
	// Size returns the drawable surface size in pixels.
	Size() (width, height int)
	AspectRatio() float32

	IsKeyDown(k Key) bool
	// IsKeyPressed reports a key that went down this frame.
	IsKeyPressed(k Key) bool
	IsMouseDown(b MouseButton) bool
	IsMousePressed(b MouseButton) bool
	// MouseDelta is the pointer movement since the previous frame, in pixels.
	MouseDelta() mgl32.Vec2
	// Scroll returns the accumulated wheel movement and resets it to zero.
	Scroll() float32

	CaptureCursor()
	ReleaseCursor()
	CursorCaptured() bool
}

// Perspective builds the scene projection. fov is the vertical field of view in degrees.
func Perspective(fov, aspect, near, far float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(fov), aspect, near, far)
}

// Ortho2D builds the UI projection spanning [-1,1] on both axes.
func Ortho2D() mgl32.Mat4 {
	return mgl32.Ortho(-1, 1, -1, 1, -1, 1)
}
