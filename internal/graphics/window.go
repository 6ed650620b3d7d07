// Package graphics is the raylib backend: it owns the OS window, the OpenGL context and input
// polling, and implements both window.Window and gpu.Device.
package graphics

import (
	"errors"
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"game-engine/internal/engineconfig"
	"game-engine/internal/gpu"
	"game-engine/internal/logger"
	"game-engine/internal/window"

	"go.uber.org/zap"
)

// ErrNoContext is returned by Init when raylib could not create the window or GL context.
var ErrNoContext = errors.New("graphics: window or OpenGL context could not be created")

// fontBaseSize is the pixel size fonts are rasterized at; text at other sizes is scaled.
const fontBaseSize = 32

// maxTrace bounds the raylib messages kept for error diagnostics.
const maxTrace = 32

// Window is the raylib window. All methods must be called on the thread that called Init.
type Window struct {
	prefs engineconfig.WindowPrefs
	log   *logger.Logger
	input *window.InputState

	trace       []string
	traceActive bool

	meshes   map[uint32]rl.Mesh
	textures map[uint32]rl.Texture2D
	shaders  map[uint32]rl.Shader
	nextMesh uint32
	material rl.Material
	font     rl.Font // optional; when set, text uses DrawTextEx instead of the default font
}

// New returns an uninitialized window; call Init on the thread that will draw.
func New(prefs engineconfig.WindowPrefs, log *logger.Logger) *Window {
	if log == nil {
		log = logger.Nop()
	}
	return &Window{
		prefs:    prefs,
		log:      log.Named("graphics"),
		input:    window.NewInputState(),
		meshes:   make(map[uint32]rl.Mesh),
		textures: make(map[uint32]rl.Texture2D),
		shaders:  make(map[uint32]rl.Shader),
	}
}

// Init creates the window and context and starts the first frame. raylib's messages are routed
// to the logger; the latest warnings are attached to init and shader errors.
func (w *Window) Init() error {
	w.traceActive = true
	rl.SetTraceLogLevel(rl.LogInfo)
	rl.SetTraceLogCallback(w.onTrace)

	var flags uint32 = rl.FlagWindowResizable
	if w.prefs.VSync {
		flags |= rl.FlagVsyncHint
	}
	if w.prefs.MSAA {
		flags |= rl.FlagMsaa4xHint
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(w.prefs.Width), int32(w.prefs.Height), w.prefs.Title)
	if !rl.IsWindowReady() {
		return fmt.Errorf("%w: %s", ErrNoContext, w.diagnostic())
	}
	rl.SetExitKey(rl.KeyNull) // Escape opens the pause menu; close via the window button or the menu
	w.material = rl.LoadMaterialDefault()
	w.log.Info("window ready",
		zap.Int("width", rl.GetScreenWidth()),
		zap.Int("height", rl.GetScreenHeight()),
		zap.Bool("vsync", w.prefs.VSync))
	rl.BeginDrawing()
	return nil
}

func (w *Window) onTrace(level int, text string) {
	if !w.traceActive {
		return
	}
	switch {
	case level >= int(rl.LogError):
		w.log.Error(text)
	case level == int(rl.LogWarning):
		w.log.Warn(text)
	default:
		w.log.Debug(text)
	}
	if level >= int(rl.LogWarning) {
		w.trace = append(w.trace, text)
		if len(w.trace) > maxTrace {
			w.trace = w.trace[len(w.trace)-maxTrace:]
		}
	}
}

// diagnostic returns and forgets the warnings collected since the last call.
func (w *Window) diagnostic() string {
	if len(w.trace) == 0 {
		return "no diagnostic"
	}
	s := strings.Join(w.trace, "; ")
	w.trace = w.trace[:0]
	return s
}

// Update presents the frame, polls events, samples input and begins the next frame.
func (w *Window) Update() {
	// Batched text is flushed by EndDrawing and must not be depth tested against the scene.
	rl.DisableDepthTest()
	rl.EnableBackfaceCulling()
	rl.EndDrawing()
	w.sample()
	rl.BeginDrawing()
}

func (w *Window) sample() {
	s := w.input
	s.BeginFrame()
	for _, k := range window.TrackedKeys {
		s.SetKey(k, rl.IsKeyDown(int32(k)))
	}
	for b := window.MouseLeft; b <= window.MouseMiddle; b++ {
		s.SetButton(b, rl.IsMouseButtonDown(rl.MouseButton(b)))
	}
	d := rl.GetMouseDelta()
	s.AddMouseDelta(mgl32.Vec2{d.X, d.Y})
	s.AddScroll(rl.GetMouseWheelMove())
	if s.SetFocused(rl.IsWindowFocused()) {
		rl.EnableCursor()
		w.log.Debug("cursor released on focus loss")
	}
}

// LoadFont makes the TTF/OTF font at path the text font. Call after Init. raylib substitutes its
// default font on failure and logs a "Failed" warning, which is reported as an error.
func (w *Window) LoadFont(path string) error {
	w.trace = w.trace[:0]
	f := rl.LoadFontEx(path, fontBaseSize, nil)
	if f.Texture.ID == 0 || traceFailed(w.trace) {
		return fmt.Errorf("graphics: font %s: %s", path, w.diagnostic())
	}
	rl.SetTextureFilter(f.Texture, rl.FilterBilinear)
	if w.font.Texture.ID != 0 {
		rl.UnloadFont(w.font)
	}
	w.font = f
	w.log.Info("font loaded", zap.String("path", path))
	return nil
}

// Cleanup closes the window and the context. GPU resources must be deleted before.
func (w *Window) Cleanup() {
	rl.EndDrawing()
	if w.font.Texture.ID != 0 {
		rl.UnloadFont(w.font)
		w.font = rl.Font{}
	}
	if n := len(w.meshes) + len(w.textures) + len(w.shaders); n > 0 {
		w.log.Warn("gpu objects still alive at window cleanup", zap.Int("count", n))
	}
	rl.CloseWindow()
}

// Terminate detaches the raylib log callback.
func (w *Window) Terminate() {
	w.traceActive = false
	w.log.Sync()
}

// ShouldClose reports a close request from the OS.
func (w *Window) ShouldClose() bool { return rl.WindowShouldClose() }

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) { rl.SetWindowTitle(title) }

// Size returns the screen size in pixels, the space DrawText uses.
func (w *Window) Size() (int, int) { return rl.GetScreenWidth(), rl.GetScreenHeight() }

// AspectRatio returns width/height, 1 for a degenerate window.
func (w *Window) AspectRatio() float32 {
	width, height := w.Size()
	if height == 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// IsKeyDown implements window.Window.
func (w *Window) IsKeyDown(k window.Key) bool { return w.input.KeyDown(k) }

// IsKeyPressed implements window.Window.
func (w *Window) IsKeyPressed(k window.Key) bool { return w.input.KeyPressed(k) }

// IsMouseDown implements window.Window.
func (w *Window) IsMouseDown(b window.MouseButton) bool { return w.input.ButtonDown(b) }

// IsMousePressed implements window.Window.
func (w *Window) IsMousePressed(b window.MouseButton) bool { return w.input.ButtonPressed(b) }

// MouseDelta implements window.Window.
func (w *Window) MouseDelta() mgl32.Vec2 { return w.input.MouseDelta() }

// Scroll implements window.Window.
func (w *Window) Scroll() float32 { return w.input.Scroll() }

// CaptureCursor hides and locks the cursor. It is refused while the window is unfocused.
func (w *Window) CaptureCursor() {
	if w.input.SetCaptured(true) {
		rl.DisableCursor()
	}
}

// ReleaseCursor shows the cursor again.
func (w *Window) ReleaseCursor() {
	w.input.SetCaptured(false)
	rl.EnableCursor()
}

// CursorCaptured implements window.Window.
func (w *Window) CursorCaptured() bool { return w.input.Captured() }

var (
	_ window.Window = (*Window)(nil)
	_ gpu.Device    = (*Window)(nil)
)
