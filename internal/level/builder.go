package level

import (
	"fmt"
	"path/filepath"

	"game-engine/internal/mapgen"
	"game-engine/internal/model"
	"game-engine/internal/scene"
)

// ModelResolver maps level model names to shared models. *primitives.Registry satisfies it.
type ModelResolver interface {
	Resolve(name string) (*model.Model, error)
}

// Resources uploads terrain geometry and textures. *loader.Loader satisfies it.
type Resources interface {
	mapgen.ModelLoader
	LoadTexture(path string) (*model.Texture, error)
}

// Builder turns level documents into scenes.
type Builder struct {
	Models     ModelResolver
	Resources  Resources
	TextureDir string
}

// Build creates a scene with the level's light, terrain and entities in document order.
func (b *Builder) Build(l *Level) (*scene.Scene, error) {
	scn := scene.New(scene.Light{
		Position: l.Lighting.Position.Vec(),
		Color:    l.Lighting.Color.Vec(),
		Ambient:  l.Lighting.Ambient.Vec(),
	})
	if l.Terrain.Enabled {
		t, err := b.terrain(l.Terrain)
		if err != nil {
			return nil, err
		}
		scn.SetTerrain(t)
	}
	for i, le := range l.Entities {
		m, err := b.Models.Resolve(le.Model)
		if err != nil {
			return nil, fmt.Errorf("level: entity %d (%s): %w", i, le.Model, err)
		}
		e := scene.NewEntity(m, le.Position.Vec())
		e.Name = le.Model
		e.Rotation = le.Rotation.Vec()
		if le.Scale != (Vec3{}) {
			e.Scale = le.Scale.Vec()
		}
		e.Properties = scene.Properties{
			Transparent:   le.Properties.HasTransparentTexture,
			BillboardY:    le.Properties.BillboardY,
			BillboardFull: le.Properties.BillboardFull,
		}
		scn.Add(e)
	}
	return scn, nil
}

func (b *Builder) terrain(lt Terrain) (*mapgen.Terrain, error) {
	opts := mapgen.DefaultOptions()
	if lt.Size > 0 {
		opts.Size = lt.Size
	}
	if lt.GridCount > 0 {
		opts.GridCount = lt.GridCount
	}
	if lt.TextureRepeat > 0 {
		opts.TextureRepeat = lt.TextureRepeat
	}
	opts.Height = lt.Height
	opts.Position = lt.Position.Vec()

	var tex *model.Texture
	if lt.Texture != "" {
		var err error
		if tex, err = b.Resources.LoadTexture(filepath.Join(b.TextureDir, lt.Texture)); err != nil {
			return nil, err
		}
	}
	t, err := mapgen.New(b.Resources, opts, tex)
	if err != nil {
		return nil, fmt.Errorf("level: terrain: %w", err)
	}
	return t, nil
}
