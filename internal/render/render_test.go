package render

import (
	"testing"

	"game-engine/internal/camera"
	"game-engine/internal/gpu"
	"game-engine/internal/gpu/gputest"
	"game-engine/internal/loader"
	"game-engine/internal/mapgen"
	"game-engine/internal/model"
	"game-engine/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entity(id uint32, tex string, pos mgl32.Vec3) *scene.Entity {
	m := model.New(gpu.Mesh{ID: id, VertexCount: 6}, 6)
	if tex != "" {
		m.SetTexture(&model.Texture{Handle: gpu.Texture{ID: id + 100}, Name: tex})
	}
	return scene.NewEntity(m, pos)
}

func TestNewFailsOnCompileError(t *testing.T) {
	dev := gputest.NewDevice()
	dev.CompileError = "boom"
	_, err := New(dev, DefaultOptions())
	assert.Error(t, err)
}

func TestOpaqueThenTransparentInInsertionOrder(t *testing.T) {
	dev := gputest.NewDevice()
	r, err := New(dev, DefaultOptions())
	require.NoError(t, err)

	scn := scene.New(scene.DefaultLight())
	scn.Add(entity(1, "t_fern.png", mgl32.Vec3{}))
	scn.Add(entity(2, "stone.png", mgl32.Vec3{1, 0, 0}))
	scn.Add(entity(3, "grass.png", mgl32.Vec3{2, 0, 0}))
	scn.Add(entity(4, "", mgl32.Vec3{3, 0, 0}))

	r.Render(camera.New(mgl32.Vec3{0, 1, 5}), scn, 16.0/9)

	require.Len(t, dev.Draws, 4)
	var order []uint32
	for _, d := range dev.Draws {
		order = append(order, d.Mesh.ID)
	}
	assert.Equal(t, []uint32{2, 4, 1, 3}, order)

	assert.True(t, dev.Draws[0].Depth)
	assert.False(t, dev.Draws[0].Blend)
	assert.True(t, dev.Draws[0].Cull)
	assert.Equal(t, int32(1), dev.Draws[0].Uniforms["useTexture"])
	assert.Equal(t, int32(0), dev.Draws[1].Uniforms["useTexture"])
	assert.Zero(t, dev.Draws[1].Texture.ID)

	assert.True(t, dev.Draws[2].Blend)
	assert.False(t, dev.Draws[2].Cull)
	assert.Equal(t, float32(0.1), dev.Draws[3].Uniforms["alphaCutoff"])

	assert.False(t, dev.Blend())
	assert.Zero(t, dev.Bound())
	assert.Equal(t, 1, dev.Clears)
	assert.Equal(t, 4, r.DrawCalls())
}

func TestEntityTransformAndCamera(t *testing.T) {
	dev := gputest.NewDevice()
	r, err := New(dev, DefaultOptions())
	require.NoError(t, err)
	scn := scene.New(scene.DefaultLight())
	e := entity(1, "", mgl32.Vec3{1, 2, 3})
	e.Rotation = mgl32.Vec3{0, 45, 0}
	scn.Add(e)
	cam := camera.New(mgl32.Vec3{0, 1, 5})

	r.Render(cam, scn, 1)
	require.Len(t, dev.Draws, 1)
	assert.Equal(t, e.ModelMatrix(), dev.Draws[0].Matrix("matModel"))
	assert.Equal(t, cam.ViewMatrix(), dev.Draws[0].Matrix("matView"))
	assert.Equal(t, scn.Light.Position, dev.Draws[0].Uniforms["lightPosition"])
}

func TestTerrainDrawnFirst(t *testing.T) {
	dev := gputest.NewDevice()
	l := loader.New(dev, nil, loader.Options{})
	opts := mapgen.DefaultOptions()
	opts.Size, opts.GridCount, opts.Position = 10, 2, mgl32.Vec3{-5, 0, -5}
	ter, err := mapgen.New(l, opts, nil)
	require.NoError(t, err)

	r, err := New(dev, DefaultOptions())
	require.NoError(t, err)
	scn := scene.New(scene.DefaultLight())
	scn.SetTerrain(ter)
	scn.Add(entity(50, "", mgl32.Vec3{}))

	r.Render(camera.New(mgl32.Vec3{}), scn, 1)
	require.Len(t, dev.Draws, 2)
	assert.Equal(t, ter.Model.Mesh, dev.Draws[0].Mesh)
	assert.Equal(t, mgl32.Translate3D(-5, 0, -5), dev.Draws[0].Matrix("matModel"))
}

func TestBillboardFacesCamera(t *testing.T) {
	cam := camera.New(mgl32.Vec3{})
	cam.SetRotation(20, 60)
	e := entity(1, "", mgl32.Vec3{4, 0, 4})
	e.Properties.BillboardFull = true

	// the quad normal (+Z) ends up pointing back at the viewer in view space
	n := cam.ViewMatrix().Mul4(ModelMatrix(e, cam)).Mul4x1(mgl32.Vec4{0, 0, 1, 0})
	assert.True(t, n.ApproxEqualThreshold(mgl32.Vec4{0, 0, 1, 0}, 1e-5), "got %v", n)

	e.Properties = scene.Properties{BillboardY: true}
	n = ModelMatrix(e, cam).Mul4x1(mgl32.Vec4{0, 0, 1, 0})
	assert.True(t, n.Vec3().ApproxEqualThreshold(cam.Forward().Mul(-1), 1e-5), "got %v", n)
}

func TestCleanup(t *testing.T) {
	dev := gputest.NewDevice()
	r, err := New(dev, DefaultOptions())
	require.NoError(t, err)
	r.Cleanup()
	assert.Zero(t, dev.LivePrograms())
}
