package engineconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"game-engine/internal/env"

	"gopkg.in/yaml.v3"
)

// EngineConfigPath is the path to the engine config file, relative to the process working directory.
const EngineConfigPath = "config/engine.yaml"

// EnginePrefs holds engine preferences: window, loop rate, camera, player tuning, asset locations
// and debug overlays. Persisted across runs. Level data is separate (see internal/level).
type EnginePrefs struct {
	Window WindowPrefs `yaml:"window"`
	Loop   LoopPrefs   `yaml:"loop"`
	Camera CameraPrefs `yaml:"camera"`
	Player PlayerPrefs `yaml:"player"`
	Assets AssetPrefs  `yaml:"assets"`
	Debug  DebugPrefs  `yaml:"debug"`
}

// WindowPrefs configures the OS window.
type WindowPrefs struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
	MSAA   bool   `yaml:"msaa"`
}

// LoopPrefs configures the fixed-timestep loop.
type LoopPrefs struct {
	TargetUPS float64 `yaml:"target_ups"`
}

// CameraPrefs configures the projection and mouse look.
type CameraPrefs struct {
	FOV         float32 `yaml:"fov"`
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
	Sensitivity float32 `yaml:"sensitivity"`
}

// PlayerPrefs tunes player movement.
type PlayerPrefs struct {
	Speed     float32 `yaml:"speed"`
	Inertia   float32 `yaml:"inertia"`
	MaxSpeed  float32 `yaml:"max_speed"`
	Gravity   float32 `yaml:"gravity"`
	JumpPower float32 `yaml:"jump_power"`
	Height    float32 `yaml:"height"`
	EyeHeight float32 `yaml:"eye_height"`
	FlySpeed  float32 `yaml:"fly_speed"`
}

// AssetPrefs locates levels, textures, models, the UI stylesheet and the UI font.
// UIFont is a font file path or a name searched for under FontDir; empty uses raylib's built-in font.
type AssetPrefs struct {
	Level           string `yaml:"level"`
	FallbackTexture string `yaml:"fallback_texture,omitempty"`
	ModelDir        string `yaml:"model_dir"`
	TextureDir      string `yaml:"texture_dir"`
	UIStylesheet    string `yaml:"ui_stylesheet,omitempty"`
	FontDir         string `yaml:"font_dir"`
	UIFont          string `yaml:"ui_font,omitempty"`
	MaxTextureSize  int    `yaml:"max_texture_size"`
}

// DebugPrefs toggles debug overlays and hot reload.
type DebugPrefs struct {
	ShowFPS      bool `yaml:"show_fps"`
	ShowMemAlloc bool `yaml:"show_memalloc"`
	HotReload    bool `yaml:"hot_reload"`
}

// Default returns default engine preferences.
func Default() EnginePrefs {
	return EnginePrefs{
		Window: WindowPrefs{Title: "Game Engine", Width: 1280, Height: 720, VSync: true, MSAA: true},
		Loop:   LoopPrefs{TargetUPS: 60},
		Camera: CameraPrefs{FOV: 70, Near: 0.1, Far: 1000, Sensitivity: 0.15},
		Player: PlayerPrefs{
			Speed:     0.4,
			Inertia:   0.85,
			MaxSpeed:  8,
			Gravity:   -20,
			JumpPower: 7,
			Height:    1.8,
			EyeHeight: 1.6,
			FlySpeed:  10,
		},
		Assets: AssetPrefs{
			Level:          "assets/levels/level.json",
			ModelDir:       "assets/models",
			TextureDir:     "assets/textures",
			UIStylesheet:   "assets/ui/style.css",
			FontDir:        "assets/fonts",
			MaxTextureSize: 2048,
		},
		Debug: DebugPrefs{ShowFPS: true, HotReload: true},
	}
}

// Load reads engine preferences from config/engine.yaml.
func Load() (EnginePrefs, error) {
	return LoadFrom(EngineConfigPath)
}

// LoadFrom reads preferences from path. A missing file yields Default() and no error.
// An unparsable file yields Default() and the parse error. Fields absent from the file keep
// their default values.
func LoadFrom(path string) (EnginePrefs, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("engineconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("engineconfig: parse %s: %w", path, err)
	}
	p.sanitize()
	return p, nil
}

// Save writes engine preferences to config/engine.yaml, creating the config directory if needed.
func Save(p EnginePrefs) error {
	return SaveTo(EngineConfigPath, p)
}

// SaveTo writes preferences to path.
func SaveTo(path string, p EnginePrefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("engineconfig: encode: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides preferences from ENGINE_* environment variables (see .env).
func ApplyEnv(p EnginePrefs) EnginePrefs {
	p.Window.Title = env.String("ENGINE_WINDOW_TITLE", p.Window.Title)
	p.Window.Width = env.Int("ENGINE_WINDOW_WIDTH", p.Window.Width)
	p.Window.Height = env.Int("ENGINE_WINDOW_HEIGHT", p.Window.Height)
	p.Window.VSync = env.Bool("ENGINE_VSYNC", p.Window.VSync)
	p.Loop.TargetUPS = float64(env.Float("ENGINE_TARGET_UPS", float32(p.Loop.TargetUPS)))
	p.Camera.FOV = env.Float("ENGINE_FOV", p.Camera.FOV)
	p.Assets.Level = env.String("ENGINE_LEVEL", p.Assets.Level)
	p.Assets.FallbackTexture = env.String("ENGINE_FALLBACK_TEXTURE", p.Assets.FallbackTexture)
	p.Assets.UIFont = env.String("ENGINE_UI_FONT", p.Assets.UIFont)
	p.Debug.ShowFPS = env.Bool("ENGINE_SHOW_FPS", p.Debug.ShowFPS)
	p.Debug.HotReload = env.Bool("ENGINE_HOT_RELOAD", p.Debug.HotReload)
	p.sanitize()
	return p
}

func (p *EnginePrefs) sanitize() {
	d := Default()
	if p.Window.Width <= 0 || p.Window.Height <= 0 {
		p.Window.Width, p.Window.Height = d.Window.Width, d.Window.Height
	}
	if p.Loop.TargetUPS <= 0 {
		p.Loop.TargetUPS = d.Loop.TargetUPS
	}
	if p.Camera.FOV <= 0 || p.Camera.FOV >= 180 {
		p.Camera.FOV = d.Camera.FOV
	}
	if p.Camera.Near <= 0 || p.Camera.Far <= p.Camera.Near {
		p.Camera.Near, p.Camera.Far = d.Camera.Near, d.Camera.Far
	}
	// inertia^(dt*90) is only a decay for inertia in (0,1)
	if p.Player.Inertia <= 0 || p.Player.Inertia >= 1 {
		p.Player.Inertia = d.Player.Inertia
	}
	if p.Player.Speed < 0 {
		p.Player.Speed = d.Player.Speed
	}
	if p.Player.MaxSpeed < 0 {
		p.Player.MaxSpeed = d.Player.MaxSpeed
	}
	if p.Player.Height <= 0 || p.Player.EyeHeight <= 0 {
		p.Player.Height, p.Player.EyeHeight = d.Player.Height, d.Player.EyeHeight
	}
}
