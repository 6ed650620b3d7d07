// Package level reads and writes level documents and builds scenes from them.
package level

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
)

// Vec3 is a 3-component record as stored in level files.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// V converts from mgl32.
func V(v mgl32.Vec3) Vec3 { return Vec3{v[0], v[1], v[2]} }

// Vec returns the record as an mgl32 vector.
func (v Vec3) Vec() mgl32.Vec3 { return mgl32.Vec3{v.X, v.Y, v.Z} }

// Level is one level document.
type Level struct {
	Metadata Metadata `json:"metadata"`
	Lighting Lighting `json:"lighting"`
	Terrain  Terrain  `json:"terrain"`
	Entities []Entity `json:"entities"`
	Spawns   []Spawn  `json:"spawns"`
}

// Metadata describes the level. Dates are kept as written.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Author      string `json:"author"`
	Created     string `json:"created"`
	Modified    string `json:"modified"`
}

// Lighting is the scene light.
type Lighting struct {
	Position Vec3 `json:"position"`
	Color    Vec3 `json:"color"`
	Ambient  Vec3 `json:"ambient"`
}

// Terrain configures generated ground. Texture is relative to the texture directory.
type Terrain struct {
	Enabled       bool    `json:"enabled"`
	Size          float32 `json:"size"`
	GridCount     int     `json:"grid_count"`
	Height        float32 `json:"height"`
	Position      Vec3    `json:"position"`
	Texture       string  `json:"texture"`
	TextureRepeat float32 `json:"texture_repeat"`
}

// Entity places one model.
type Entity struct {
	Model      string     `json:"model"`
	Position   Vec3       `json:"position"`
	Rotation   Vec3       `json:"rotation"`
	Scale      Vec3       `json:"scale"`
	Properties Properties `json:"properties"`
}

// Properties are render flags of an entity.
type Properties struct {
	HasTransparentTexture bool `json:"hasTransparentTexture"`
	BillboardY            bool `json:"billboardY"`
	BillboardFull         bool `json:"billboardFull"`
}

// Spawn is a named start position. Rotation is the initial view in degrees.
type Spawn struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position Vec3   `json:"position"`
	Rotation Vec3   `json:"rotation"`
}

// Load reads and parses the level at path.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level: %s: %w", path, err)
	}
	return l, nil
}

// Parse decodes a level document. Values are kept as written so Marshal reproduces them.
func Parse(data []byte) (*Level, error) {
	var l Level
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Marshal encodes l as indented JSON.
func Marshal(l *Level) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Save writes l to path, creating the directory when needed.
func Save(path string, l *Level) error {
	data, err := Marshal(l)
	if err != nil {
		return fmt.Errorf("level: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (l *Level) Clone() *Level {
	out := &Level{}
	if err := copier.CopyWithOption(out, l, copier.Option{DeepCopy: true}); err != nil {
		// unreachable: source and destination have the same type
		panic(fmt.Sprintf("level: clone: %v", err))
	}
	return out
}

// Spawn returns the spawn with id, if any.
func (l *Level) Spawn(id int) (Spawn, bool) {
	for _, s := range l.Spawns {
		if s.ID == id {
			return s, true
		}
	}
	return Spawn{}, false
}

// FirstSpawn returns the first listed spawn, or a spawn at the origin when there is none.
func (l *Level) FirstSpawn() Spawn {
	if len(l.Spawns) == 0 {
		return Spawn{Name: "origin"}
	}
	return l.Spawns[0]
}

// SetSpawn replaces the spawn with the same ID or appends it.
func (l *Level) SetSpawn(s Spawn) {
	for i := range l.Spawns {
		if l.Spawns[i].ID == s.ID {
			l.Spawns[i] = s
			return
		}
	}
	l.Spawns = append(l.Spawns, s)
}

// Default returns the level used when no level file exists: lit terrain, a few primitives, one spawn.
func Default() *Level {
	return &Level{
		Metadata: Metadata{Name: "Default", Description: "Built-in level", Version: "1.0", Author: "engine"},
		Lighting: Lighting{
			Position: Vec3{0, 100, 0},
			Color:    Vec3{1, 1, 1},
			Ambient:  Vec3{0.2, 0.22, 0.26},
		},
		Terrain: Terrain{
			Enabled:       true,
			Size:          200,
			GridCount:     64,
			Position:      Vec3{-100, 0, -100},
			Texture:       "ground.png",
			TextureRepeat: 40,
		},
		Entities: []Entity{
			{Model: "P_Cube", Position: Vec3{0, 0.5, -5}, Scale: Vec3{1, 1, 1}},
			{Model: "P_Sphere", Position: Vec3{3, 1, -8}, Scale: Vec3{2, 2, 2}},
			{Model: "P_Cylinder", Position: Vec3{-3, 1, -8}, Scale: Vec3{1, 2, 1}},
			{
				Model:      "P_Quad:t_grass.png",
				Position:   Vec3{1.5, 0, -3},
				Scale:      Vec3{1, 1, 1},
				Properties: Properties{HasTransparentTexture: true, BillboardY: true},
			},
		},
		Spawns: []Spawn{{ID: 0, Name: "start", Position: Vec3{0, 0, 0}}},
	}
}
