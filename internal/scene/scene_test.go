package scene

import (
	"testing"

	"game-engine/internal/gpu"
	"game-engine/internal/model"
	"game-engine/internal/transform"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel() *model.Model {
	return model.New(gpu.Mesh{ID: 1, VertexCount: 36}, 36)
}

func TestAddRejectsDuplicates(t *testing.T) {
	s := New(DefaultLight())
	e := NewEntity(testModel(), mgl32.Vec3{})
	assert.True(t, s.Add(e))
	assert.False(t, s.Add(e))
	assert.False(t, s.Add(nil))
	assert.Equal(t, 1, s.Len())
}

func TestInsertionOrderSurvivesRemoval(t *testing.T) {
	s := New(DefaultLight())
	m := testModel()
	var all []*Entity
	for i := 0; i < 100; i++ {
		e := NewEntity(m, mgl32.Vec3{float32(i), 0, 0})
		all = append(all, e)
		require.True(t, s.Add(e))
	}
	var want []*Entity
	for i, e := range all {
		if i%3 == 0 {
			assert.True(t, s.Remove(e))
		} else {
			want = append(want, e)
		}
	}
	assert.False(t, s.Remove(all[0]))
	assert.Equal(t, want, s.Entities())
	assert.Equal(t, len(want), s.Len())

	// re-adding goes to the end
	require.True(t, s.Add(all[0]))
	got := s.Entities()
	assert.Same(t, all[0], got[len(got)-1])
}

func TestEntityModelMatrix(t *testing.T) {
	e := NewEntity(testModel(), mgl32.Vec3{1, 2, 3})
	e.Rotation = mgl32.Vec3{10, 20, 30}
	e.Scale = mgl32.Vec3{2, 2, 2}
	assert.Equal(t, transform.ModelMatrix(e.Position, e.Rotation, e.Scale), e.ModelMatrix())
}

func TestEntityTransparency(t *testing.T) {
	m := testModel()
	e := NewEntity(m, mgl32.Vec3{})
	assert.False(t, e.Transparent())
	e.Properties.Transparent = true
	assert.True(t, e.Transparent())

	m.SetTexture(&model.Texture{Name: "grass.png"})
	assert.True(t, NewEntity(m, mgl32.Vec3{}).Transparent())
}

func TestUpdateAndCleanupHooks(t *testing.T) {
	s := New(DefaultLight())
	e := NewEntity(testModel(), mgl32.Vec3{})
	s.Add(e)
	s.Update(1) // no behavior: no-op

	s.Behavior = Spin(90)
	s.Update(0.5)
	assert.Equal(t, float32(45), e.Rotation.Y())

	cleaned := 0
	s.OnCleanup = func(*Scene) { cleaned++ }
	s.Cleanup()
	assert.Equal(t, 1, cleaned)
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Entities())
}
