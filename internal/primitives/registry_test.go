package primitives

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"game-engine/internal/gpu/gputest"
	"game-engine/internal/loader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*Registry, *gputest.Device, string) {
	dir := t.TempDir()
	dev := gputest.NewDevice()
	l := loader.New(dev, nil, loader.Options{})
	return NewRegistry(l, nil, filepath.Join(dir, "models"), filepath.Join(dir, "textures")), dev, dir
}

func TestBuiltinsAreValidMeshes(t *testing.T) {
	for name, gen := range builtins {
		d := gen()
		n := d.VertexCount()
		require.NotZero(t, n, name)
		assert.Len(t, d.Normals, 3*n, name)
		assert.Len(t, d.TexCoords, 2*n, name)
		assert.Zero(t, len(d.Indices)%3, name)
		for _, i := range d.Indices {
			assert.Less(t, int(i), n, name)
		}
	}
	assert.Equal(t, 24, Cube().VertexCount())
	assert.Len(t, Cube().Indices, 36)
}

func TestResolveBuiltinIsShared(t *testing.T) {
	r, dev, _ := newRegistry(t)
	a, err := r.Resolve("P_Cube")
	require.NoError(t, err)
	b, err := r.Resolve("P_Cube")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 36, a.VertexCount)
	assert.Nil(t, a.Texture())
	assert.Equal(t, 1, dev.LiveMeshes())
}

func TestResolveBuiltinWithTexture(t *testing.T) {
	r, _, dir := newRegistry(t)
	texDir := filepath.Join(dir, "textures")
	require.NoError(t, os.MkdirAll(texDir, 0755))
	f, err := os.Create(filepath.Join(texDir, "t_grass.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())

	m, err := r.Resolve("P_Quad:t_grass.png")
	require.NoError(t, err)
	require.NotNil(t, m.Texture())
	assert.True(t, m.Transparent())
}

func TestUnknownNamesUseErrorModel(t *testing.T) {
	r, dev, _ := newRegistry(t)
	a, err := r.Resolve("P_Teapot")
	require.NoError(t, err)
	b, err := r.Resolve("missing-model")
	require.NoError(t, err)
	assert.Same(t, a, b)
	require.NotNil(t, a.Texture())
	assert.Equal(t, "fallback", a.Texture().Name)
	assert.Equal(t, 1, dev.LiveTextures())
}
