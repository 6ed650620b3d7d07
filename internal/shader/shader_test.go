package shader

import (
	"testing"

	"game-engine/internal/gpu"
	"game-engine/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompileFailureCarriesDiagnostic(t *testing.T) {
	dev := gputest.NewDevice()
	dev.CompileError = "0:3: syntax error"
	_, err := New(dev, SceneVertex, SceneFragment)
	require.ErrorIs(t, err, ErrCompile)
	assert.Contains(t, err.Error(), "0:3: syntax error")
}

func TestCreateUniform(t *testing.T) {
	dev := gputest.NewDevice()
	p, err := New(dev, SceneVertex, SceneFragment)
	require.NoError(t, err)

	require.NoError(t, p.CreateUniforms(SceneUniforms...))
	assert.True(t, p.HasUniform("matModel"))
	assert.ErrorIs(t, p.CreateUniform("doesNotExist"), ErrUnknownUniform)
}

func TestSetUnregisteredUniformPanics(t *testing.T) {
	dev := gputest.NewDevice()
	p, err := New(dev, UIVertex, UIFragment)
	require.NoError(t, err)
	assert.PanicsWithValue(t, `shader: uniform "tint" was not registered`, func() {
		p.SetVec4("tint", mgl32.Vec4{1, 1, 1, 1})
	})
}

func TestSetValuesReachDraw(t *testing.T) {
	dev := gputest.NewDevice()
	p, err := New(dev, UIVertex, UIFragment)
	require.NoError(t, err)
	require.NoError(t, p.CreateUniforms(UIUniforms...))

	p.Bind()
	assert.Equal(t, p.Handle().ID, dev.Bound())
	m := mgl32.Translate3D(1, 2, 3)
	p.SetMatrix("matModel", m)
	p.SetInt("texture0", 0)
	dev.DrawMesh(p.Handle(), gpu.Mesh{ID: 99, VertexCount: 6, Indexed: true}, gpu.Texture{ID: 98, Width: 1, Height: 1})
	p.Unbind()

	require.Len(t, dev.Draws, 1)
	assert.Equal(t, m, dev.Draws[0].Matrix("matModel"))
	assert.Equal(t, int32(0), dev.Draws[0].Uniforms["texture0"])
	assert.Zero(t, dev.Bound())
}

func TestCleanupDeletesOnce(t *testing.T) {
	dev := gputest.NewDevice()
	p, err := New(dev, SceneVertex, SceneFragment)
	require.NoError(t, err)
	p.Cleanup()
	p.Cleanup()
	assert.Zero(t, dev.LivePrograms())
	assert.Equal(t, 1, dev.MaxDeletes())
}
