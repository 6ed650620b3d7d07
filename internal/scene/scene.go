package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"game-engine/internal/mapgen"
	"game-engine/internal/model"
	"game-engine/internal/transform"
)

// Properties are per-entity render flags read from level files.
type Properties struct {
	// Transparent forces the blended pass even when the texture name does not imply it.
	Transparent bool
	// BillboardY turns the entity around Y to face the camera.
	BillboardY bool
	// BillboardFull also pitches the entity toward the camera.
	BillboardFull bool
}

// Entity is one placed instance of a shared model. Rotation is in degrees per axis.
type Entity struct {
	Name       string
	Position   mgl32.Vec3
	Rotation   mgl32.Vec3
	Scale      mgl32.Vec3
	Model      *model.Model
	Properties Properties
}

// NewEntity returns an entity at position with zero rotation and unit scale.
func NewEntity(m *model.Model, position mgl32.Vec3) *Entity {
	return &Entity{Position: position, Scale: mgl32.Vec3{1, 1, 1}, Model: m}
}

// ModelMatrix returns the entity's world transform.
func (e *Entity) ModelMatrix() mgl32.Mat4 {
	return transform.ModelMatrix(e.Position, e.Rotation, e.Scale)
}

// Transparent reports whether the entity is drawn in the blended pass.
func (e *Entity) Transparent() bool {
	return e.Properties.Transparent || e.Model.Transparent()
}

// Light is the scene's single point light.
type Light struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Ambient  mgl32.Vec3
}

// DefaultLight is a white light high above the origin with a dim ambient term.
func DefaultLight() Light {
	return Light{
		Position: mgl32.Vec3{0, 100, 0},
		Color:    mgl32.Vec3{1, 1, 1},
		Ambient:  mgl32.Vec3{0.2, 0.22, 0.26},
	}
}

// Scene holds entities in insertion order, one light and an optional terrain.
// Add and Remove are O(1) amortized: removal leaves a hole that is compacted lazily.
type Scene struct {
	Light Light

	// Behavior runs once per Update with the frame delta. Nil means no per-frame logic.
	Behavior func(s *Scene, dt float32)
	// OnCleanup runs once from Cleanup before entities are dropped.
	OnCleanup func(s *Scene)

	entities []*Entity
	index    map[*Entity]int
	holes    int
	terrain  *mapgen.Terrain
}

// New returns an empty scene lit by light.
func New(light Light) *Scene {
	return &Scene{Light: light, index: make(map[*Entity]int)}
}

// Add appends e. It returns false when e is nil or already in the scene.
func (s *Scene) Add(e *Entity) bool {
	if e == nil {
		return false
	}
	if _, ok := s.index[e]; ok {
		return false
	}
	s.index[e] = len(s.entities)
	s.entities = append(s.entities, e)
	return true
}

// Remove drops e. It returns false when e is not in the scene.
func (s *Scene) Remove(e *Entity) bool {
	i, ok := s.index[e]
	if !ok {
		return false
	}
	delete(s.index, e)
	s.entities[i] = nil
	s.holes++
	if s.holes > 16 && s.holes*2 > len(s.entities) {
		s.compact()
	}
	return true
}

func (s *Scene) compact() {
	live := s.entities[:0]
	for _, e := range s.entities {
		if e != nil {
			s.index[e] = len(live)
			live = append(live, e)
		}
	}
	clear(s.entities[len(live):])
	s.entities = live
	s.holes = 0
}

// Contains reports whether e is in the scene.
func (s *Scene) Contains(e *Entity) bool {
	_, ok := s.index[e]
	return ok
}

// Len returns the number of entities.
func (s *Scene) Len() int { return len(s.index) }

// Entities returns the entities in insertion order. The slice is freshly allocated.
func (s *Scene) Entities() []*Entity {
	out := make([]*Entity, 0, s.Len())
	s.Each(func(e *Entity) { out = append(out, e) })
	return out
}

// Each calls fn for every entity in insertion order without allocating.
func (s *Scene) Each(fn func(e *Entity)) {
	for _, e := range s.entities {
		if e != nil {
			fn(e)
		}
	}
}

// SetTerrain sets or clears (nil) the ground terrain.
func (s *Scene) SetTerrain(t *mapgen.Terrain) { s.terrain = t }

// Terrain returns the ground terrain, or nil.
func (s *Scene) Terrain() *mapgen.Terrain { return s.terrain }

// GroundAt returns the terrain height under (x,z), or fallback when there is no terrain there.
func (s *Scene) GroundAt(x, z, fallback float32) float32 {
	if s.terrain == nil || !s.terrain.Contains(x, z) {
		return fallback
	}
	return s.terrain.HeightAt(x, z)
}

// Update runs the Behavior hook.
func (s *Scene) Update(dt float32) {
	if s.Behavior != nil {
		s.Behavior(s, dt)
	}
}

// Cleanup runs OnCleanup and empties the scene. GPU handles belong to the loader and are not released.
func (s *Scene) Cleanup() {
	if s.OnCleanup != nil {
		s.OnCleanup(s)
	}
	s.entities = nil
	s.index = make(map[*Entity]int)
	s.holes = 0
	s.terrain = nil
}

// Spin returns a Behavior that rotates every entity around Y at degreesPerSecond.
func Spin(degreesPerSecond float32) func(*Scene, float32) {
	return func(s *Scene, dt float32) {
		s.Each(func(e *Entity) {
			e.Rotation[1] += degreesPerSecond * dt
			for e.Rotation[1] >= 360 {
				e.Rotation[1] -= 360
			}
		})
	}
}
