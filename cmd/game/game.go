package main

import (
	"errors"
	"image"
	"image/color"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"game-engine/internal/debug"
	"game-engine/internal/engine"
	"game-engine/internal/engineconfig"
	"game-engine/internal/fonts"
	"game-engine/internal/gpu"
	"game-engine/internal/level"
	"game-engine/internal/loader"
	"game-engine/internal/logger"
	"game-engine/internal/physics"
	"game-engine/internal/player"
	"game-engine/internal/primitives"
	"game-engine/internal/render"
	"game-engine/internal/scene"
	"game-engine/internal/ui"
	"game-engine/internal/watch"
	"game-engine/internal/window"
)

// demoSpin rotates the built-in level's primitives, in degrees per second.
const demoSpin = 30

// game is the demo: one level, a first-person player, a crosshair, a pause menu and the debug overlay.
type game struct {
	prefs  engineconfig.EnginePrefs
	dev    gpu.Device
	log    *logger.Logger
	engine *engine.Engine

	loader   *loader.Loader
	models   *primitives.Registry
	builder  *level.Builder
	renderer *render.Renderer
	level    *level.Level
	scene    *scene.Scene
	player   *player.Player
	ui       *ui.Manager
	pause    *ui.Element
	overlay  *debug.Overlay
	watcher  *watch.Watcher
	paused   bool
}

func newGame(prefs engineconfig.EnginePrefs, dev gpu.Device, log *logger.Logger) *game {
	return &game{prefs: prefs, dev: dev, log: log.Named("game")}
}

// Init implements engine.Game.
func (g *game) Init(w window.Window) error {
	a := g.prefs.Assets
	g.loader = loader.New(g.dev, g.log, loader.Options{FallbackPath: a.FallbackTexture, MaxTextureSize: a.MaxTextureSize})
	if _, err := g.loader.Fallback(); err != nil {
		return err
	}
	g.models = primitives.NewRegistry(g.loader, g.log, a.ModelDir, a.TextureDir)
	g.builder = &level.Builder{Models: g.models, Resources: g.loader, TextureDir: a.TextureDir}

	opts := render.DefaultOptions()
	opts.FOV, opts.Near, opts.Far = g.prefs.Camera.FOV, g.prefs.Camera.Near, g.prefs.Camera.Far
	r, err := render.New(g.dev, opts)
	if err != nil {
		return err
	}
	g.renderer = r

	if err := g.loadLevel(); err != nil {
		return err
	}
	spawn := g.level.FirstSpawn()
	g.player = player.New(spawn.Position.Vec(), spawn.Rotation.Vec(), g.playerConfig())

	if err := g.initUI(); err != nil {
		return err
	}
	g.loadFont()
	g.overlay = debug.New(g.engineStats(), g.log)
	g.overlay.ShowFPS = g.prefs.Debug.ShowFPS
	g.overlay.ShowMemAlloc = g.prefs.Debug.ShowMemAlloc

	if g.prefs.Debug.HotReload {
		g.startWatcher()
	}
	w.CaptureCursor()
	g.log.Info("game ready",
		zap.String("level", g.level.Metadata.Name),
		zap.Int("entities", g.scene.Len()),
		zap.Int("gpu_handles", g.loader.HandleCount()))
	return nil
}

func (g *game) engineStats() *engine.FrameStats {
	if g.engine == nil {
		return &engine.FrameStats{}
	}
	return g.engine.Stats()
}

func (g *game) playerConfig() player.Config {
	p := g.prefs.Player
	return player.Config{
		Physics: physics.Params{
			Speed:     p.Speed,
			Inertia:   p.Inertia,
			MaxSpeed:  p.MaxSpeed,
			Gravity:   p.Gravity,
			JumpPower: p.JumpPower,
		},
		Height:      p.Height,
		EyeHeight:   p.EyeHeight,
		Sensitivity: g.prefs.Camera.Sensitivity,
		FlySpeed:    p.FlySpeed,
	}
}

// loadLevel reads the configured level, or the built-in one when the file does not exist.
func (g *game) loadLevel() error {
	path := g.prefs.Assets.Level
	lvl, err := level.Load(path)
	builtin := false
	switch {
	case errors.Is(err, fs.ErrNotExist):
		g.log.Info("no level file, using the built-in level", zap.String("path", path))
		lvl, builtin = level.Default(), true
	case err != nil:
		return err
	}
	scn, err := g.builder.Build(lvl)
	if err != nil {
		return err
	}
	if builtin {
		scn.Behavior = scene.Spin(demoSpin)
	}
	g.level, g.scene = lvl, scn
	return nil
}

// reloadLevel swaps in the level file after it changed on disk. A broken file keeps the current scene.
func (g *game) reloadLevel() {
	path := g.prefs.Assets.Level
	lvl, err := level.Load(path)
	if err != nil {
		g.log.Warn("level reload failed", zap.String("path", path), zap.Error(err))
		return
	}
	scn, err := g.builder.Build(lvl)
	if err != nil {
		g.log.Warn("level rebuild failed", zap.String("path", path), zap.Error(err))
		return
	}
	g.scene.Cleanup()
	g.level, g.scene = lvl, scn
	g.log.Info("level reloaded", zap.String("path", path), zap.Int("entities", scn.Len()))
}

// quickSave writes the level with the player's current position as spawn 0.
func (g *game) quickSave() {
	lvl := g.level.Clone()
	s, _ := lvl.Spawn(0)
	s.ID = 0
	if s.Name == "" {
		s.Name = "quicksave"
	}
	s.Position = level.V(g.player.Feet())
	s.Rotation = level.V(g.player.Camera.Rotation)
	lvl.SetSpawn(s)
	if err := level.Save(g.prefs.Assets.Level, lvl); err != nil {
		g.log.Warn("quick save failed", zap.Error(err))
		return
	}
	g.level = lvl
	g.log.Info("quick saved", zap.String("path", g.prefs.Assets.Level))
}

func (g *game) initUI() error {
	m, err := ui.NewManager(g.dev, g.loader, g.log)
	if err != nil {
		return err
	}
	g.ui = m

	cross, err := g.loader.TextureFromImage("crosshair", crosshair(16))
	if err != nil {
		return err
	}
	c := ui.NewQuad(cross, mgl32.Vec2{}, 0.025)
	c.ID = "crosshair"
	c.ZIndex = 10

	g.pause = ui.NewMenu(mgl32.Vec4{0, 0, 0, 0.6}, mgl32.Vec2{}, 0.4, 0.3, g.pauseInput)
	g.pause.ID = "pause"
	g.pause.Text = "Paused"
	resume := ui.NewPanel(mgl32.Vec4{0.2, 0.2, 0.2, 0.9}, mgl32.Vec2{0, 0.05}, 0.3, 0.07)
	resume.Class = "button"
	resume.Text = "Enter: resume"
	quit := ui.NewPanel(mgl32.Vec4{0.2, 0.2, 0.2, 0.9}, mgl32.Vec2{0, -0.15}, 0.3, 0.07)
	quit.Class = "button"
	quit.Text = "Q: quit"
	for _, b := range []*ui.Element{resume, quit} {
		if err := g.pause.AddChild(b); err != nil {
			return err
		}
	}
	for _, e := range []*ui.Element{c, g.pause} {
		if err := m.Add(e); err != nil {
			return err
		}
	}
	g.loadStylesheet()
	return nil
}

// fontLoader is implemented by backends that can replace the text font.
type fontLoader interface {
	LoadFont(path string) error
}

func (g *game) loadFont() {
	a := g.prefs.Assets
	fl, ok := g.dev.(fontLoader)
	if a.UIFont == "" || !ok {
		return
	}
	path, err := fonts.Find(a.FontDir, a.UIFont)
	if err != nil {
		g.log.Warn("ui font not found, using the built-in font", zap.String("font", a.UIFont), zap.Error(err))
		return
	}
	if err := fl.LoadFont(path); err != nil {
		g.log.Warn("ui font not loaded", zap.String("path", path), zap.Error(err))
	}
}

func (g *game) loadStylesheet() {
	path := g.prefs.Assets.UIStylesheet
	if path == "" {
		return
	}
	err := g.ui.LoadStylesheet(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		g.log.Debug("no ui stylesheet", zap.String("path", path))
	case err != nil:
		g.log.Warn("ui stylesheet not applied", zap.String("path", path), zap.Error(err))
	}
}

func (g *game) startWatcher() {
	w, err := watch.New(g.log)
	if err != nil {
		g.log.Warn("hot reload disabled", zap.Error(err))
		return
	}
	for _, p := range []string{g.prefs.Assets.Level, g.prefs.Assets.UIStylesheet} {
		if p == "" {
			continue
		}
		if err := w.Add(p); err != nil {
			g.log.Debug("not watching", zap.String("path", p), zap.Error(err))
		}
	}
	g.watcher = w
}

func (g *game) pauseInput(_ *ui.Element, w window.Window) {
	switch {
	case w.IsKeyPressed(window.KeyEnter):
		g.setPaused(w, false)
	case w.IsKeyPressed(window.KeyQ):
		if g.engine != nil {
			g.engine.Stop()
		}
	}
}

func (g *game) setPaused(w window.Window, paused bool) {
	g.paused = paused
	if paused {
		g.pause.Show(0.2)
		g.player.SetMovement(0, 0)
		g.player.SetVertical(0)
		w.ReleaseCursor()
		return
	}
	g.pause.Hide(0.2)
	w.CaptureCursor()
}

// Input implements engine.Game.
func (g *game) Input(w window.Window) {
	if w.IsKeyPressed(window.KeyEscape) {
		g.setPaused(w, !g.paused)
		return
	}
	if w.IsKeyPressed(window.KeyF3) {
		g.overlay.Toggle()
	}
	if g.paused {
		g.ui.HandleInput(w)
		return
	}
	if !w.CursorCaptured() && w.IsMousePressed(window.MouseLeft) {
		w.CaptureCursor()
	}
	if w.IsKeyPressed(window.KeyF5) {
		g.quickSave()
	}
	g.player.Input(w)
}

// Update implements engine.Game.
func (g *game) Update(dt float32) {
	if g.watcher != nil {
		for _, p := range g.watcher.Poll() {
			g.onFileChanged(p)
		}
	}
	g.ui.Update(dt)
	if g.paused {
		return
	}
	feet := g.player.Feet()
	g.player.SetGroundLevel(g.scene.GroundAt(feet.X(), feet.Z(), 0))
	g.player.Update(dt)
	g.scene.Update(dt)
}

func (g *game) onFileChanged(path string) {
	if sameFile(path, g.prefs.Assets.UIStylesheet) {
		g.loadStylesheet()
		return
	}
	if sameFile(path, g.prefs.Assets.Level) {
		g.reloadLevel()
	}
}

func sameFile(a, b string) bool {
	if b == "" {
		return false
	}
	sa, err := os.Stat(a)
	if err != nil {
		return false
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(sa, sb)
}

// Render implements engine.Game.
func (g *game) Render(w window.Window) {
	width, height := w.Size()
	g.renderer.Render(g.player.Camera, g.scene, w.AspectRatio())
	g.ui.Render(width, height)
	g.overlay.Draw(g.dev, width)
}

// Cleanup implements engine.Game. It tolerates a partially initialized game.
func (g *game) Cleanup() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.ui != nil {
		g.ui.Cleanup()
	}
	if g.renderer != nil {
		g.renderer.Cleanup()
	}
	if g.scene != nil {
		g.scene.Cleanup()
	}
	if g.loader != nil {
		g.loader.Cleanup()
	}
}

// crosshair draws a white plus sign with a dark outline on a transparent square.
func crosshair(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	mid := size / 2
	for i := 1; i < size-1; i++ {
		for d := -2; d <= 1; d++ {
			img.SetRGBA(i, mid+d, color.RGBA{0, 0, 0, 160})
			img.SetRGBA(mid+d, i, color.RGBA{0, 0, 0, 160})
		}
	}
	for i := 2; i < size-2; i++ {
		for d := -1; d <= 0; d++ {
			img.SetRGBA(i, mid+d, color.RGBA{255, 255, 255, 255})
			img.SetRGBA(mid+d, i, color.RGBA{255, 255, 255, 255})
		}
	}
	return img
}

var _ engine.Game = (*game)(nil)
